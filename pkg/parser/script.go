package parser

import (
	"fmt"
	"strings"

	"github.com/hansl-tools/hanslint/pkg/token"
)

// Script is the structural view of a Hansl source file: raw lines for
// text-level checks, the token stream for syntax-level checks, and the
// function/block skeleton for structure-level checks.
type Script struct {
	Path   string
	Source string

	Lines    []string // physical lines without trailing newline
	Tokens   []token.Token
	Comments []*token.Comment

	Functions []*Function
	Blocks    []*Block
	Decls     []*Decl
	Assigns   []*Assign

	LexErrors  []*LexError
	ScanErrors []*ScanError
}

// Function describes a function ... end function region.
type Function struct {
	Name       string
	ReturnType string // "void" or a type keyword
	Params     []Param
	NamePos    token.Position
	DeclLine   int
	EndLine    int // line of "end function", 0 if unclosed
	Docstring  *token.Comment
}

// BodyLines returns the number of lines between the declaration and
// "end function", exclusive. Zero for unclosed functions.
func (f *Function) BodyLines() int {
	if f.EndLine == 0 {
		return 0
	}
	return f.EndLine - f.DeclLine - 1
}

// Param is a single function parameter.
type Param struct {
	Type    string
	Name    string
	Pos     token.Position
	Const   bool
	Pointer bool
}

// Block is a matched (or unmatched) block region.
type Block struct {
	Keyword  string // "if", "loop", "function", or a block command
	OpenPos  token.Position
	ClosePos token.Position // zero value if never closed
}

// Closed reports whether the block has a matching closer.
func (b *Block) Closed() bool {
	return b.ClosePos.IsValid()
}

// Decl is an identifier introduced by a type keyword or a loop index.
type Decl struct {
	Name string
	Type string // type keyword, or "loop" for loop indices
	Pos  token.Position
}

// Assign is a bare assignment line: "name = expr" with no type keyword.
type Assign struct {
	Name      string
	Pos       token.Position
	Op        token.TokenType
	InFunc    bool
	AfterGenr bool // preceded by the genr keyword
}

// ScanScript lexes and structurally scans a Hansl source file.
// It never fails: lexing and structural problems are recorded on the
// returned Script so checks can still run.
func ScanScript(path, source string) *Script {
	lx := NewLexer(source)

	s := &Script{
		Path:   path,
		Source: source,
		Lines:  splitLines(source),
	}

	for {
		tok := lx.NextToken()
		s.Tokens = append(s.Tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	s.Comments = lx.Comments
	s.LexErrors = lx.Errors

	s.scanStructure()
	s.bindDocstrings()
	return s
}

// splitLines splits source into physical lines, dropping trailing \r.
func splitLines(source string) []string {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	// A trailing newline produces an empty final element; keep it only
	// when the file is genuinely empty.
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// LogicalLines groups the token stream into logical lines. Continuations
// were already joined by the lexer, so a group may span physical lines.
func (s *Script) LogicalLines() [][]token.Token {
	var lines [][]token.Token
	var cur []token.Token
	for _, tok := range s.Tokens {
		switch tok.Type {
		case token.NEWLINE, token.EOF:
			if len(cur) > 0 {
				lines = append(lines, cur)
				cur = nil
			}
		default:
			cur = append(cur, tok)
		}
	}
	return lines
}

// LineTokens returns the non-NEWLINE tokens whose position is on the
// given physical line.
func (s *Script) LineTokens(line int) []token.Token {
	var out []token.Token
	for _, tok := range s.Tokens {
		if tok.Type == token.NEWLINE || tok.Type == token.EOF {
			continue
		}
		if tok.Pos.Line == line {
			out = append(out, tok)
		}
	}
	return out
}

// FunctionAt returns the function whose region contains the given line,
// or nil.
func (s *Script) FunctionAt(line int) *Function {
	for _, f := range s.Functions {
		end := f.EndLine
		if end == 0 {
			end = len(s.Lines)
		}
		if line >= f.DeclLine && line <= end {
			return f
		}
	}
	return nil
}

// IsBlank reports whether the given 1-based physical line is empty or
// whitespace only.
func (s *Script) IsBlank(line int) bool {
	if line < 1 || line > len(s.Lines) {
		return true
	}
	return strings.TrimSpace(s.Lines[line-1]) == ""
}

// scanStructure walks logical lines tracking block nesting, function
// declarations, type declarations, and bare assignments.
func (s *Script) scanStructure() {
	var stack []*Block
	var curFunc *Function

	push := func(kw string, pos token.Position) {
		b := &Block{Keyword: kw, OpenPos: pos}
		s.Blocks = append(s.Blocks, b)
		stack = append(stack, b)
	}

	pop := func(kw string, pos token.Position) {
		if len(stack) == 0 || stack[len(stack)-1].Keyword != kw {
			closer := "end " + kw
			switch kw {
			case "if":
				closer = "endif"
			case "loop":
				closer = "endloop"
			}
			s.ScanErrors = append(s.ScanErrors, &ScanError{
				Pos:     pos,
				Message: fmt.Sprintf(ErrUnmatchedClose, closer, kw),
			})
			return
		}
		stack[len(stack)-1].ClosePos = pos
		stack = stack[:len(stack)-1]
	}

	for _, line := range s.LogicalLines() {
		toks := line
		// A catch prefix modifies the command that follows it.
		if toks[0].Type == token.CATCH && len(toks) > 1 {
			toks = toks[1:]
		}

		first := toks[0]
		switch {
		case first.Type == token.IF:
			push("if", first.Pos)

		case first.Type == token.ENDIF:
			pop("if", first.Pos)

		case first.Type == token.LOOP:
			push("loop", first.Pos)
			s.collectLoopIndex(toks)

		case first.Type == token.ENDLOOP:
			pop("loop", first.Pos)

		case first.Type == token.FUNCTION:
			// "function name delete" removes a definition, no block.
			if len(toks) == 3 && toks[2].Type == token.IDENT && toks[2].Literal == "delete" {
				break
			}
			f := s.parseFunctionDecl(toks)
			push("function", first.Pos)
			if f != nil {
				s.Functions = append(s.Functions, f)
				curFunc = f
			}

		case first.Type == token.END:
			kw := ""
			if len(toks) > 1 {
				kw = toks[1].Literal
			}
			if kw == "" {
				s.ScanErrors = append(s.ScanErrors, &ScanError{
					Pos:     first.Pos,
					Message: fmt.Sprintf(ErrUnmatchedClose, "end", "block"),
				})
				break
			}
			pop(kw, first.Pos)
			if kw == "function" && curFunc != nil && curFunc.EndLine == 0 {
				curFunc.EndLine = first.Pos.Line
				curFunc = nil
			}

		case first.Type == token.IDENT && token.IsBlockCommand(first.Literal):
			if first.Literal == "outfile" && hasOption(toks, "--close") {
				// Legacy one-line closer for an earlier outfile.
				pop("outfile", first.Pos)
				break
			}
			push(first.Literal, first.Pos)

		default:
			s.collectDeclOrAssign(toks, curFunc != nil)
		}
	}

	for _, b := range stack {
		s.ScanErrors = append(s.ScanErrors, &ScanError{
			Pos:     b.OpenPos,
			Message: fmt.Sprintf(ErrUnmatchedOpen, b.Keyword),
		})
	}
}

// hasOption reports whether any OPTION token on the line starts with the
// given flag.
func hasOption(toks []token.Token, flag string) bool {
	for _, t := range toks {
		if t.Type == token.OPTION && strings.HasPrefix(t.Literal, flag) {
			return true
		}
	}
	return false
}

// collectLoopIndex records the index variable of "loop i=start..stop" and
// "loop foreach i ..." forms.
func (s *Script) collectLoopIndex(toks []token.Token) {
	// loop i=1..10
	if len(toks) >= 3 && toks[1].Type == token.IDENT && toks[2].Type == token.ASSIGN {
		s.Decls = append(s.Decls, &Decl{Name: toks[1].Literal, Type: "loop", Pos: toks[1].Pos})
		return
	}
	// loop foreach i <list>
	if len(toks) >= 3 && toks[1].Type == token.IDENT && toks[1].Literal == "foreach" &&
		toks[2].Type == token.IDENT {
		s.Decls = append(s.Decls, &Decl{Name: toks[2].Literal, Type: "loop", Pos: toks[2].Pos})
	}
}

// collectDeclOrAssign records type-keyword declarations and bare
// assignments from an ordinary logical line.
func (s *Script) collectDeclOrAssign(toks []token.Token, inFunc bool) {
	first := toks[0]

	if first.Type == token.GENR && len(toks) >= 3 &&
		toks[1].Type == token.IDENT && token.IsAssignOp(toks[2].Type) {
		s.Assigns = append(s.Assigns, &Assign{
			Name:      toks[1].Literal,
			Pos:       toks[1].Pos,
			Op:        toks[2].Type,
			InFunc:    inFunc,
			AfterGenr: true,
		})
		return
	}

	if token.IsTypeKeyword(first.Type) {
		// scalar x = ..., series y, list L = null, matrix A B
		for i := 1; i < len(toks); i++ {
			t := toks[i]
			if t.Type == token.IDENT {
				s.Decls = append(s.Decls, &Decl{Name: t.Literal, Type: first.Literal, Pos: t.Pos})
				// Only the first name is a declaration once an = appears.
				if i+1 < len(toks) && token.IsAssignOp(toks[i+1].Type) {
					break
				}
				continue
			}
			if t.Type == token.COMMA {
				continue
			}
			break
		}
		return
	}

	if first.Type == token.IDENT && len(toks) >= 2 && token.IsAssignOp(toks[1].Type) {
		s.Assigns = append(s.Assigns, &Assign{
			Name:   first.Literal,
			Pos:    first.Pos,
			Op:     toks[1].Type,
			InFunc: inFunc,
		})
	}
}

// parseFunctionDecl parses "function <rettype> <name> (params)".
// Returns nil and records a ScanError when the declaration is malformed.
func (s *Script) parseFunctionDecl(toks []token.Token) *Function {
	bad := func() *Function {
		s.ScanErrors = append(s.ScanErrors, &ScanError{
			Pos:     toks[0].Pos,
			Message: ErrBadFunctionDecl,
		})
		return nil
	}

	if len(toks) < 3 {
		return bad()
	}

	ret := toks[1]
	retOK := token.IsTypeKeyword(ret.Type) || (ret.Type == token.IDENT && ret.Literal == "void")
	if !retOK {
		return bad()
	}

	name := toks[2]
	if name.Type != token.IDENT {
		return bad()
	}

	f := &Function{
		Name:       name.Literal,
		ReturnType: ret.Literal,
		NamePos:    name.Pos,
		DeclLine:   toks[0].Pos.Line,
	}

	// Parameters are optional: "function void f ()" or no parens at all.
	i := 3
	if i < len(toks) && toks[i].Type == token.LPAREN {
		f.Params = parseParams(toks[i+1:])
	}
	return f
}

// paramTypeWords are parameter-only types that lex as plain identifiers.
var paramTypeWords = map[string]bool{
	"int":    true,
	"bool":   true,
	"obsnum": true,
}

// parseParams parses a parameter list up to the closing paren. Tolerant:
// anything unrecognized ends the scan.
func parseParams(toks []token.Token) []Param {
	var params []Param
	var cur Param
	flush := func() {
		if cur.Name != "" {
			params = append(params, cur)
		}
		cur = Param{}
	}

	depth := 0 // bracket depth for default values like k[2]
	for _, t := range toks {
		if depth > 0 {
			switch t.Type {
			case token.RBRACKET:
				depth--
			case token.LBRACKET:
				depth++
			}
			continue
		}
		switch t.Type {
		case token.RPAREN:
			flush()
			return params
		case token.COMMA:
			flush()
		case token.CONST:
			cur.Const = true
		case token.STAR:
			cur.Pointer = true
		case token.LBRACKET:
			depth++
		case token.IDENT:
			if cur.Type == "" && cur.Name == "" && paramTypeWords[t.Literal] {
				cur.Type = t.Literal
				break
			}
			cur.Name = t.Literal
			cur.Pos = t.Pos
		default:
			if token.IsTypeKeyword(t.Type) {
				cur.Type = t.Literal
			}
		}
	}
	flush()
	return params
}

// bindDocstrings attaches each function's docstring: a block comment
// ending on the line above the declaration, or opening within the first
// two lines of the body.
func (s *Script) bindDocstrings() {
	for _, f := range s.Functions {
		for _, c := range s.Comments {
			if !c.IsBlockComment() {
				continue
			}
			if c.Span.End.Line == f.DeclLine-1 {
				f.Docstring = c
				break
			}
			if c.Span.Start.Line > f.DeclLine && c.Span.Start.Line <= f.DeclLine+2 {
				f.Docstring = c
				break
			}
		}
	}
}
