package parser

import (
	"strings"
	"testing"

	"github.com/hansl-tools/hanslint/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanScript_Function(t *testing.T) {
	src := strings.Join([]string{
		"/* Mean absolute error of a forecast. */",
		"function scalar mae (series y, series yhat)",
		"    return mean(abs(y - yhat))",
		"end function",
		"",
	}, "\n")

	s := ScanScript("mae.inp", src)

	require.Empty(t, s.LexErrors)
	require.Empty(t, s.ScanErrors)
	require.Len(t, s.Functions, 1)

	f := s.Functions[0]
	assert.Equal(t, "mae", f.Name)
	assert.Equal(t, "scalar", f.ReturnType)
	assert.Equal(t, 2, f.DeclLine)
	assert.Equal(t, 4, f.EndLine)
	assert.Equal(t, 1, f.BodyLines())

	require.Len(t, f.Params, 2)
	assert.Equal(t, "series", f.Params[0].Type)
	assert.Equal(t, "y", f.Params[0].Name)
	assert.Equal(t, "yhat", f.Params[1].Name)

	require.NotNil(t, f.Docstring)
	assert.Equal(t, "Mean absolute error of a forecast.", f.Docstring.Body())
}

func TestScanScript_FunctionParams(t *testing.T) {
	src := strings.Join([]string{
		"function void report (const matrix X, series *e, int k[2], bool verbose)",
		"end function",
		"",
	}, "\n")

	s := ScanScript("report.inp", src)

	require.Len(t, s.Functions, 1)
	f := s.Functions[0]
	assert.Equal(t, "void", f.ReturnType)

	require.Len(t, f.Params, 4)

	assert.Equal(t, "matrix", f.Params[0].Type)
	assert.Equal(t, "X", f.Params[0].Name)
	assert.True(t, f.Params[0].Const)

	assert.Equal(t, "series", f.Params[1].Type)
	assert.Equal(t, "e", f.Params[1].Name)
	assert.True(t, f.Params[1].Pointer)

	assert.Equal(t, "int", f.Params[2].Type)
	assert.Equal(t, "k", f.Params[2].Name)

	assert.Equal(t, "bool", f.Params[3].Type)
	assert.Equal(t, "verbose", f.Params[3].Name)
}

func TestScanScript_DocstringInsideBody(t *testing.T) {
	src := strings.Join([]string{
		"function scalar sq (scalar x)",
		"    /* Squares its argument. */",
		"    return x^2",
		"end function",
		"",
	}, "\n")

	s := ScanScript("sq.inp", src)

	require.Len(t, s.Functions, 1)
	require.NotNil(t, s.Functions[0].Docstring)
	assert.Equal(t, "Squares its argument.", s.Functions[0].Docstring.Body())
}

func TestScanScript_NoDocstring(t *testing.T) {
	src := strings.Join([]string{
		"function scalar sq (scalar x)",
		"    return x^2",
		"end function",
		"",
	}, "\n")

	s := ScanScript("sq.inp", src)

	require.Len(t, s.Functions, 1)
	assert.Nil(t, s.Functions[0].Docstring)
}

func TestScanScript_Blocks(t *testing.T) {
	src := strings.Join([]string{
		"open data.gdt",
		"if nobs > 100",
		"    loop i=1..10",
		"        print i",
		"    endloop",
		"endif",
		"mle logl = -0.5*e^2",
		"    params a b",
		"end mle",
		"",
	}, "\n")

	s := ScanScript("blocks.inp", src)

	require.Empty(t, s.ScanErrors)
	require.Len(t, s.Blocks, 3)

	for _, b := range s.Blocks {
		assert.True(t, b.Closed(), "block %q at line %d", b.Keyword, b.OpenPos.Line)
	}

	assert.Equal(t, "if", s.Blocks[0].Keyword)
	assert.Equal(t, 2, s.Blocks[0].OpenPos.Line)
	assert.Equal(t, 6, s.Blocks[0].ClosePos.Line)

	assert.Equal(t, "loop", s.Blocks[1].Keyword)
	assert.Equal(t, "mle", s.Blocks[2].Keyword)
	assert.Equal(t, 9, s.Blocks[2].ClosePos.Line)
}

func TestScanScript_UnmatchedOpen(t *testing.T) {
	src := "if x > 0\n    print x\n"

	s := ScanScript("open.inp", src)

	require.Len(t, s.ScanErrors, 1)
	assert.Contains(t, s.ScanErrors[0].Message, `block "if" is never closed`)
	assert.Equal(t, 1, s.ScanErrors[0].Pos.Line)

	require.Len(t, s.Blocks, 1)
	assert.False(t, s.Blocks[0].Closed())
}

func TestScanScript_UnmatchedClose(t *testing.T) {
	src := "print x\nendloop\n"

	s := ScanScript("close.inp", src)

	require.Len(t, s.ScanErrors, 1)
	assert.Contains(t, s.ScanErrors[0].Message, `"endloop" without matching "loop"`)
	assert.Equal(t, 2, s.ScanErrors[0].Pos.Line)
}

func TestScanScript_MismatchedClose(t *testing.T) {
	src := "loop i=1..5\n    print i\nendif\n"

	s := ScanScript("mismatch.inp", src)

	// endif reports, and the loop stays open.
	require.Len(t, s.ScanErrors, 2)
	assert.Contains(t, s.ScanErrors[0].Message, `"endif" without matching "if"`)
	assert.Contains(t, s.ScanErrors[1].Message, `block "loop" is never closed`)
}

func TestScanScript_OutfileClose(t *testing.T) {
	src := strings.Join([]string{
		`outfile "log.txt"`,
		"    print x",
		"outfile --close",
		"",
	}, "\n")

	s := ScanScript("outfile.inp", src)

	require.Empty(t, s.ScanErrors)
	require.Len(t, s.Blocks, 1)
	assert.True(t, s.Blocks[0].Closed())
	assert.Equal(t, 3, s.Blocks[0].ClosePos.Line)
}

func TestScanScript_FunctionDelete(t *testing.T) {
	s := ScanScript("del.inp", "function myfunc delete\n")

	assert.Empty(t, s.Functions)
	assert.Empty(t, s.Blocks)
	assert.Empty(t, s.ScanErrors)
}

func TestScanScript_MalformedFunctionDecl(t *testing.T) {
	src := "function 42 ()\nend function\n"

	s := ScanScript("bad.inp", src)

	assert.Empty(t, s.Functions)
	require.Len(t, s.ScanErrors, 1)
	assert.Equal(t, ErrBadFunctionDecl, s.ScanErrors[0].Message)
}

func TestScanScript_Decls(t *testing.T) {
	src := strings.Join([]string{
		"scalar alpha = 0.05",
		"series resid",
		"list xvars = null",
		"matrix A B",
		"loop j=1..4",
		"endloop",
		"loop foreach v xvars",
		"endloop",
		"",
	}, "\n")

	s := ScanScript("decls.inp", src)

	var got []string
	for _, d := range s.Decls {
		got = append(got, d.Type+":"+d.Name)
	}
	assert.Equal(t, []string{
		"scalar:alpha",
		"series:resid",
		"list:xvars",
		"matrix:A",
		"matrix:B",
		"loop:j",
		"loop:v",
	}, got)
}

func TestScanScript_Assigns(t *testing.T) {
	src := strings.Join([]string{
		"x = 5",
		"total += x",
		"genr y = x * 2",
		"function void bump (scalar s)",
		"    s = s + 1",
		"end function",
		"",
	}, "\n")

	s := ScanScript("assigns.inp", src)

	require.Len(t, s.Assigns, 4)

	assert.Equal(t, "x", s.Assigns[0].Name)
	assert.Equal(t, token.ASSIGN, s.Assigns[0].Op)
	assert.False(t, s.Assigns[0].InFunc)
	assert.False(t, s.Assigns[0].AfterGenr)

	assert.Equal(t, "total", s.Assigns[1].Name)
	assert.Equal(t, token.PLUSEQ, s.Assigns[1].Op)

	assert.Equal(t, "y", s.Assigns[2].Name)
	assert.True(t, s.Assigns[2].AfterGenr)

	assert.Equal(t, "s", s.Assigns[3].Name)
	assert.True(t, s.Assigns[3].InFunc)
}

func TestScanScript_CatchPrefix(t *testing.T) {
	src := "catch scalar r = 1/0\ncatch if x > 0\nendif\n"

	s := ScanScript("catch.inp", src)

	require.Len(t, s.Decls, 1)
	assert.Equal(t, "r", s.Decls[0].Name)

	require.Len(t, s.Blocks, 1)
	assert.True(t, s.Blocks[0].Closed())
}

func TestScript_LogicalLines(t *testing.T) {
	src := "scalar x = a + \\\n    b\nprint x\n"

	s := ScanScript("cont.inp", src)

	lines := s.LogicalLines()
	require.Len(t, lines, 2)
	assert.Len(t, lines[0], 6) // scalar x = a + b
	assert.Len(t, lines[1], 2) // print x
}

func TestScript_LineTokens(t *testing.T) {
	s := ScanScript("lt.inp", "scalar x = 1\nseries y\n")

	toks := s.LineTokens(2)
	require.Len(t, toks, 2)
	assert.Equal(t, token.SERIES, toks[0].Type)
	assert.Equal(t, "y", toks[1].Literal)
}

func TestScript_FunctionAt(t *testing.T) {
	src := strings.Join([]string{
		"scalar top = 1",
		"function scalar sq (scalar x)",
		"    return x^2",
		"end function",
		"scalar bottom = 2",
		"",
	}, "\n")

	s := ScanScript("fa.inp", src)

	assert.Nil(t, s.FunctionAt(1))
	require.NotNil(t, s.FunctionAt(3))
	assert.Equal(t, "sq", s.FunctionAt(3).Name)
	assert.NotNil(t, s.FunctionAt(4))
	assert.Nil(t, s.FunctionAt(5))
}

func TestScript_IsBlank(t *testing.T) {
	s := ScanScript("blank.inp", "scalar x = 1\n\n   \nprint x\n")

	assert.False(t, s.IsBlank(1))
	assert.True(t, s.IsBlank(2))
	assert.True(t, s.IsBlank(3))
	assert.False(t, s.IsBlank(4))
	assert.True(t, s.IsBlank(99), "out of range counts as blank")
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\r\nb\r\n"))
	assert.Equal(t, []string{"a"}, splitLines("a"))
	assert.Equal(t, []string{""}, splitLines(""))
}
