package whitespace

import (
	"fmt"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/lint/internal/source"
	"github.com/hansl-tools/hanslint/pkg/parser"
	"github.com/hansl-tools/hanslint/pkg/token"
)

func init() {
	lint.Register(OperatorSpacing)
}

// OperatorSpacing requires a space on both sides of binary operators.
//
// Exponentiation, transpose, and range slicing are conventionally written
// tight, so ^ ' and : are ignored by default. Index expressions inside
// brackets (y[t-1]) are always exempt.
var OperatorSpacing = lint.RuleDef{
	ID:          "WS01",
	Name:        "whitespace.operator_spacing",
	Group:       "whitespace",
	Description: "Binary operators take a space on each side.",
	Severity:    lint.SeverityWarning,
	Check:       checkOperatorSpacing,
	ConfigKeys:  []string{"ignore-operators"},
	Rationale: "y=x-1 and y = x - 1 run identically, but the first hides the " +
		"structure of the expression. Spaced operators also make diffs touch " +
		"fewer characters.",
	BadExample:  "scalar ssr=sum(e.^2)",
	GoodExample: "scalar ssr = sum(e.^2)",
}

// operandEnd lists token types that can close an operand, which makes a
// following + or - binary rather than a sign.
var operandEnd = map[token.TokenType]bool{
	token.IDENT:    true,
	token.NUMBER:   true,
	token.STRING:   true,
	token.ACCESSOR: true,
	token.ATVAR:    true,
	token.RPAREN:   true,
	token.RBRACKET: true,
	token.RBRACE:   true,
	token.APOST:    true,
}

func checkOperatorSpacing(script *parser.Script, opts map[string]any) []lint.Diagnostic {
	ignore := make(map[string]bool)
	for _, op := range lint.GetStringSliceOption(opts, "ignore-operators", []string{"^", "'", ":"}) {
		ignore[op] = true
	}

	var diagnostics []lint.Diagnostic
	for _, toks := range script.LogicalLines() {
		if toks[0].Type == token.CATCH && len(toks) > 1 {
			toks = toks[1:]
		}
		// Parameter lists have their own conventions (matrix *X).
		if toks[0].Type == token.FUNCTION {
			continue
		}
		cmdLine := toks[0].Type == token.IDENT && token.IsCommand(toks[0].Literal) &&
			!(len(toks) > 1 && token.IsAssignOp(toks[1].Type))

		depth := 0
		for i, t := range toks {
			switch t.Type {
			case token.LBRACKET:
				depth++
				continue
			case token.RBRACKET:
				depth--
				continue
			}
			if depth > 0 || ignore[t.Literal] {
				continue
			}
			if !binaryOperator(toks, i, cmdLine) {
				continue
			}

			before := source.Gap(script, toks[i-1], t)
			after := source.Gap(script, t, toks[i+1])
			missBefore := before == ""
			missAfter := after == ""
			if !missBefore && !missAfter {
				continue
			}

			d := lint.Diagnostic{
				RuleID:           "WS01",
				Severity:         lint.SeverityWarning,
				Pos:              t.Pos,
				EndPos:           t.End(),
				DocumentationURL: lint.BuildDocURL("WS01"),
				ImpactScore:      lint.ImpactLow.Int(),
				AutoFixable:      true,
			}
			switch {
			case missBefore && missAfter:
				d.Message = fmt.Sprintf("missing spaces around %q", t.Literal)
			case missBefore:
				d.Message = fmt.Sprintf("missing space before %q", t.Literal)
			default:
				d.Message = fmt.Sprintf("missing space after %q", t.Literal)
			}

			fix := lint.Fix{Description: fmt.Sprintf("add spaces around %q", t.Literal)}
			if missBefore {
				fix.TextEdits = append(fix.TextEdits, lint.TextEdit{Pos: t.Pos, EndPos: t.Pos, NewText: " "})
			}
			if missAfter {
				fix.TextEdits = append(fix.TextEdits, lint.TextEdit{Pos: t.End(), EndPos: t.End(), NewText: " "})
			}
			d.Fixes = []lint.Fix{fix}

			diagnostics = append(diagnostics, d)
		}
	}

	return diagnostics
}

// binaryOperator reports whether toks[i] is a binary operator with an
// operand on each side. On command lines + and - are treated as signs:
// arguments like "smpl -10 ;" are not expressions.
func binaryOperator(toks []token.Token, i int, cmdLine bool) bool {
	if i == 0 || i == len(toks)-1 {
		return false
	}

	typ := toks[i].Type
	switch {
	case token.IsAssignOp(typ):
	case token.IsComparisonOp(typ):
	case token.IsDotOp(typ):
	case typ == token.AND || typ == token.OR:
	case typ == token.PLUS || typ == token.MINUS:
		if cmdLine || !operandEnd[toks[i-1].Type] {
			return false
		}
	case typ == token.STAR || typ == token.SLASH || typ == token.PERCENT ||
		typ == token.CARET || typ == token.TILDE || typ == token.PIPE ||
		typ == token.QUESTION || typ == token.COLON:
	default:
		return false
	}
	return true
}
