package plugin

import (
	"strings"

	"go.starlark.net/syntax"
)

// fileMeta is what a .star file declares, read without executing it.
type fileMeta struct {
	docstring string
	globals   []string
}

// inspect statically parses src for the module docstring and the exported
// top-level names. The docstring only exists in the AST; after execution
// it is not a module global.
func inspect(path string, src []byte) (*fileMeta, error) {
	f, err := syntax.Parse(path, src, 0) //nolint:staticcheck // SA1019: matches the legacy ExecFile entry point in loadFile
	if err != nil {
		return nil, err
	}

	md := &fileMeta{}
	seen := make(map[string]bool)

	add := func(name string) {
		if name == "" || strings.HasPrefix(name, "_") || seen[name] {
			return
		}
		seen[name] = true
		md.globals = append(md.globals, name)
	}

	for i, stmt := range f.Stmts {
		switch s := stmt.(type) {
		case *syntax.ExprStmt:
			if i != 0 {
				continue
			}
			if lit, ok := s.X.(*syntax.Literal); ok && lit.Token == syntax.STRING {
				if text, ok := lit.Value.(string); ok {
					md.docstring = strings.TrimSpace(text)
				}
			}
		case *syntax.DefStmt:
			add(s.Name.Name)
		case *syntax.AssignStmt:
			if s.Op != syntax.EQ {
				continue
			}
			if ident, ok := s.LHS.(*syntax.Ident); ok {
				add(ident.Name)
			}
		}
	}

	return md, nil
}
