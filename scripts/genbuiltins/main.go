// Package main provides a generator that extracts built-in function names
// from the gretl function reference and regenerates the lookup table used
// by the tokenizer.
//
// Usage:
//
//	go run ./scripts/genbuiltins -out=pkg/token/builtins.go
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"io"
	"log"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const defaultFuncrefURL = "https://gretl.sourceforge.net/gretl-help/funcref.html"

var (
	urlFlag = flag.String("url", defaultFuncrefURL, "function reference URL")
	outFlag = flag.String("out", "", "output file path (required)")
)

// reIdent matches a plausible hansl function name. The reference page also
// links chapter anchors and operators, which this filters out.
var reIdent = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func main() {
	flag.Parse()

	if *outFlag == "" {
		log.Fatal("--out flag is required")
	}

	log.Printf("Fetching gretl function reference from %s", *urlFlag)
	htmlContent, err := fetchPage(*urlFlag)
	if err != nil {
		log.Fatalf("failed to fetch function reference: %v", err)
	}

	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		log.Fatalf("failed to parse HTML: %v", err)
	}

	names := extractFunctionNames(doc)
	if len(names) == 0 {
		log.Fatal("no function names found; the page layout may have changed")
	}
	log.Printf("Extracted %d function names", len(names))

	code := generateCode(names)

	formatted, err := format.Source([]byte(code))
	if err != nil {
		log.Printf("Warning: failed to format generated code: %v", err)
		formatted = []byte(code)
	}

	if err := os.WriteFile(*outFlag, formatted, 0o600); err != nil {
		log.Fatalf("failed to write output: %v", err)
	}

	log.Printf("Generated %s", *outFlag)
}

// fetchPage fetches HTML content from a URL.
func fetchPage(pageURL string) (string, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; HanslintBuiltinsGen/1.0)")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	return string(body), nil
}

// extractFunctionNames collects function names from the reference index.
// Each documented function is linked from the index table as
// <a href="#funcname">funcname</a>, so names are anchor links whose text
// matches the fragment they point at.
func extractFunctionNames(doc *html.Node) []string {
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			href := getAttr(n, "href")
			text := strings.TrimSpace(getTextContent(n))

			if strings.HasPrefix(href, "#") && text != "" &&
				strings.EqualFold(strings.TrimPrefix(href, "#"), text) &&
				reIdent.MatchString(text) {
				seen[strings.ToLower(text)] = true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// getAttr returns the value of an attribute, or empty string if not found.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// getTextContent returns the text content of a node and its children.
func getTextContent(n *html.Node) string {
	var sb strings.Builder
	var getText func(*html.Node)
	getText = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			getText(c)
		}
	}
	getText(n)
	return strings.TrimSpace(sb.String())
}

func generateCode(names []string) string {
	var buf bytes.Buffer

	buf.WriteString("// Code generated by scripts/genbuiltins. DO NOT EDIT.\n\n")
	buf.WriteString("package token\n\n")
	buf.WriteString("// builtins holds the built-in gretl function names, extracted from the\n")
	buf.WriteString("// gretl function reference.\n")
	buf.WriteString("var builtins = map[string]bool{\n")
	writeMapEntries(&buf, names)
	buf.WriteString("}\n\n")
	buf.WriteString("// IsBuiltin returns true if name is a built-in gretl function.\n")
	buf.WriteString("func IsBuiltin(name string) bool {\n")
	buf.WriteString("\treturn builtins[name]\n")
	buf.WriteString("}\n\n")
	buf.WriteString("// BuiltinCount returns the number of built-in function names.\n")
	buf.WriteString("func BuiltinCount() int {\n")
	buf.WriteString("\treturn len(builtins)\n")
	buf.WriteString("}\n")

	return buf.String()
}

// writeMapEntries writes `"name": true,` entries, wrapping lines so they
// stay within roughly 72 columns after the leading tab.
func writeMapEntries(buf *bytes.Buffer, names []string) {
	const maxWidth = 64

	width := 0
	for _, name := range names {
		entry := fmt.Sprintf("%q: true,", name)
		if width == 0 {
			buf.WriteString("\t")
			buf.WriteString(entry)
			width = len(entry)
			continue
		}
		if width+1+len(entry) > maxWidth {
			buf.WriteString("\n\t")
			buf.WriteString(entry)
			width = len(entry)
			continue
		}
		buf.WriteString(" ")
		buf.WriteString(entry)
		width += 1 + len(entry)
	}
	if width > 0 {
		buf.WriteString("\n")
	}
}
