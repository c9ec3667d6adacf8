// Package main scrapes the gretl command reference and saves each command
// entry as a markdown file for rule-authoring reference.
//
// The reference page carries every command in one document, with an entry
// per command introduced by a heading whose id is the command name. The
// heading level varies between gretl releases, so the level that carries
// the most id'd headings is treated as the entry delimiter.
//
// Usage:
//
//	go run ./scripts/syncgretldocs
package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

const (
	cmdrefURL  = "https://gretl.sourceforge.net/gretl-help/cmdref.html"
	contextDir = "context/gretl-docs"
)

var (
	reNonWord           = regexp.MustCompile(`[^\w\s-]`)
	reSpacesUnderscores = regexp.MustCompile(`[\s_]+`)
	reMultipleHyphens   = regexp.MustCompile(`-+`)
	reAnchorLinks       = regexp.MustCompile(`\s*\[#\]\(#[\w-]*\)`)
	reExcessiveNewlines = regexp.MustCompile(`\n{4,}`)
)

// Entry holds one command entry extracted from the reference.
type Entry struct {
	Name    string
	ID      string
	Content string
}

func main() {
	log.Printf("Scraping gretl command reference from %s", cmdrefURL)

	if err := setupOutputDir(contextDir); err != nil {
		log.Fatalf("Failed to setup output directory: %v", err)
	}

	log.Println("Fetching reference page...")
	htmlContent, err := fetchPage(cmdrefURL)
	if err != nil {
		log.Fatalf("Failed to fetch page: %v", err)
	}

	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		log.Fatalf("Failed to parse HTML: %v", err)
	}

	log.Println("Extracting command entries...")
	entries := extractEntries(doc)
	log.Printf("Found %d entries", len(entries))

	savedCount := 0
	var index []string

	for _, entry := range entries {
		content := cleanMarkdown(entry.Content)
		if len(content) < 40 {
			log.Printf("   Skipping thin entry: %s", entry.Name)
			continue
		}

		filename := slugify(entry.ID)
		if filename == "" {
			filename = slugify(entry.Name)
		}
		if filename == "" {
			continue
		}

		if !strings.HasPrefix(content, "#") {
			content = fmt.Sprintf("# %s\n\n%s", entry.Name, content)
		}

		fpath := filepath.Join(contextDir, filename+".md")
		if err := os.WriteFile(fpath, []byte(content), 0o644); err != nil {
			log.Printf("   Failed to save %s: %v", fpath, err)
			continue
		}
		index = append(index, filename)
		savedCount++
	}

	if err := writeIndex(index); err != nil {
		log.Printf("Failed to write index: %v", err)
	}

	log.Printf("Success! Scraped %d entries to: %s", savedCount, contextDir)
}

// setupOutputDir removes any existing directory and creates a fresh one.
func setupOutputDir(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		log.Printf("Cleaning existing directory: %s", dir)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove existing directory: %w", err)
		}
	}
	return os.MkdirAll(dir, 0o755)
}

// fetchPage fetches HTML content from a URL.
func fetchPage(pageURL string) (string, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; HanslintDocsSync/1.0)")

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

// slugify converts text to a safe filename slug.
func slugify(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = reNonWord.ReplaceAllString(text, "")
	text = reSpacesUnderscores.ReplaceAllString(text, "-")
	text = reMultipleHyphens.ReplaceAllString(text, "-")
	return strings.Trim(text, "-")
}

// extractEntries splits the document into per-command entries. The entry
// heading level is whichever of h1..h3 carries the most id'd headings.
func extractEntries(doc *html.Node) []Entry {
	level := pickHeadingLevel(doc)
	if level == "" {
		log.Println("Warning: no id'd headings found")
		return nil
	}
	log.Printf("Using <%s> headings as entry delimiters", level)

	var headings []*html.Node
	var findHeadings func(*html.Node)
	findHeadings = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == level {
			if id := getAttr(n, "id"); id != "" {
				headings = append(headings, n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findHeadings(c)
		}
	}
	findHeadings(doc)

	var entries []Entry
	for i, h := range headings {
		var next *html.Node
		if i+1 < len(headings) {
			next = headings[i+1]
		}

		parts := []string{renderNode(h)}
		for sibling := h.NextSibling; sibling != nil; sibling = sibling.NextSibling {
			if sibling == next {
				break
			}
			if sibling.Type == html.ElementNode && sibling.Data == level {
				break
			}
			parts = append(parts, renderNode(sibling))
		}

		mdContent, err := htmltomarkdown.ConvertString(strings.Join(parts, ""))
		if err != nil {
			log.Printf("Warning: failed to convert entry %s: %v", getAttr(h, "id"), err)
			continue
		}

		entries = append(entries, Entry{
			Name:    getTextContent(h),
			ID:      getAttr(h, "id"),
			Content: mdContent,
		})
	}

	return entries
}

// pickHeadingLevel returns the heading tag with the most id'd occurrences.
func pickHeadingLevel(doc *html.Node) string {
	counts := map[string]int{}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "h1", "h2", "h3":
				if getAttr(n, "id") != "" {
					counts[n.Data]++
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	best := ""
	bestCount := 0
	for _, tag := range []string{"h1", "h2", "h3"} {
		if counts[tag] > bestCount {
			best = tag
			bestCount = counts[tag]
		}
	}
	return best
}

// cleanMarkdown strips scraping artifacts from converted markdown.
func cleanMarkdown(content string) string {
	content = reAnchorLinks.ReplaceAllString(content, "")
	content = reExcessiveNewlines.ReplaceAllString(content, "\n\n\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// writeIndex writes an index.md listing every saved entry.
func writeIndex(names []string) error {
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("# Gretl Command Reference\n\n")
	sb.WriteString(fmt.Sprintf("Scraped from %s on %s.\n\n", cmdrefURL, time.Now().Format("2006-01-02")))
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("- [%s](%s.md)\n", name, name))
	}

	return os.WriteFile(filepath.Join(contextDir, "index.md"), []byte(sb.String()), 0o644)
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

// renderNode renders an HTML node back to string.
func renderNode(n *html.Node) string {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return ""
	}
	return sb.String()
}
