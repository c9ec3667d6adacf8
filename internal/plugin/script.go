package plugin

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/parser"
	"github.com/hansl-tools/hanslint/pkg/token"
)

// scriptValue converts a scanned script into the struct passed to
// check(script). The surface is deliberately small: path, source,
// lines, functions, declarations, and comments.
func scriptValue(script *parser.Script) starlark.Value {
	lines := make([]starlark.Value, len(script.Lines))
	for i, l := range script.Lines {
		lines[i] = starlark.String(l)
	}

	funcs := make([]starlark.Value, len(script.Functions))
	for i, f := range script.Functions {
		params := make([]starlark.Value, len(f.Params))
		for j, p := range f.Params {
			params[j] = starlark.String(p.Name)
		}
		funcs[i] = starlarkstruct.FromStringDict(starlark.String("function"), starlark.StringDict{
			"name":     starlark.String(f.Name),
			"line":     starlark.MakeInt(f.DeclLine),
			"end_line": starlark.MakeInt(f.EndLine),
			"params":   starlark.NewList(params),
		})
	}

	decls := make([]starlark.Value, len(script.Decls))
	for i, d := range script.Decls {
		decls[i] = starlarkstruct.FromStringDict(starlark.String("declaration"), starlark.StringDict{
			"name": starlark.String(d.Name),
			"type": starlark.String(d.Type),
			"line": starlark.MakeInt(d.Pos.Line),
		})
	}

	comments := make([]starlark.Value, len(script.Comments))
	for i, c := range script.Comments {
		comments[i] = starlarkstruct.FromStringDict(starlark.String("comment"), starlark.StringDict{
			"text":     starlark.String(c.Text),
			"line":     starlark.MakeInt(c.Span.Start.Line),
			"end_line": starlark.MakeInt(c.Span.End.Line),
			"block":    starlark.Bool(c.IsBlockComment()),
		})
	}

	return starlarkstruct.FromStringDict(starlark.String("script"), starlark.StringDict{
		"path":         starlark.String(script.Path),
		"source":       starlark.String(script.Source),
		"lines":        starlark.NewList(lines),
		"functions":    starlark.NewList(funcs),
		"declarations": starlark.NewList(decls),
		"comments":     starlark.NewList(comments),
	})
}

// findings converts check()'s return value into diagnostics. The value
// must be None or a list of dicts with "line" and "message" keys and an
// optional "column".
func (r *Rule) findings(script *parser.Script, value starlark.Value) ([]lint.Diagnostic, error) {
	if value == starlark.None {
		return nil, nil
	}

	list, ok := value.(*starlark.List)
	if !ok {
		return nil, fmt.Errorf("check must return a list of findings, got %s", value.Type())
	}

	offsets := lineOffsets(script)

	var diags []lint.Diagnostic
	for i := 0; i < list.Len(); i++ {
		dict, ok := list.Index(i).(*starlark.Dict)
		if !ok {
			return nil, fmt.Errorf("finding %d must be a dict, got %s", i, list.Index(i).Type())
		}

		line, err := intKey(dict, "line", 0)
		if err != nil {
			return nil, fmt.Errorf("finding %d: %w", i, err)
		}
		if line < 1 {
			return nil, fmt.Errorf("finding %d: \"line\" is required and must be >= 1", i)
		}

		message, err := stringKey(dict, "message")
		if err != nil {
			return nil, fmt.Errorf("finding %d: %w", i, err)
		}
		if message == "" {
			return nil, fmt.Errorf("finding %d: \"message\" is required", i)
		}

		column, err := intKey(dict, "column", 1)
		if err != nil {
			return nil, fmt.Errorf("finding %d: %w", i, err)
		}
		if column < 1 {
			column = 1
		}

		pos := token.Position{Line: line, Column: column}
		if line-1 < len(offsets) {
			pos.Offset = offsets[line-1] + column - 1
		}

		diags = append(diags, lint.Diagnostic{
			RuleID:   r.id,
			Severity: r.severity,
			Message:  message,
			Pos:      pos,
		})
	}

	return diags, nil
}

// lineOffsets returns the byte offset of each line start.
func lineOffsets(script *parser.Script) []int {
	offsets := make([]int, len(script.Lines))
	off := 0
	for i, l := range script.Lines {
		offsets[i] = off
		off += len(l) + 1
	}
	return offsets
}

func intKey(dict *starlark.Dict, key string, def int) (int, error) {
	val, found, err := dict.Get(starlark.String(key))
	if err != nil || !found {
		return def, err
	}
	n, ok := val.(starlark.Int)
	if !ok {
		return 0, fmt.Errorf("%q must be an int, got %s", key, val.Type())
	}
	i64, ok := n.Int64()
	if !ok {
		return 0, fmt.Errorf("%q is out of range", key)
	}
	return int(i64), nil
}

func stringKey(dict *starlark.Dict, key string) (string, error) {
	val, found, err := dict.Get(starlark.String(key))
	if err != nil || !found {
		return "", err
	}
	s, ok := val.(starlark.String)
	if !ok {
		return "", fmt.Errorf("%q must be a string, got %s", key, val.Type())
	}
	return string(s), nil
}
