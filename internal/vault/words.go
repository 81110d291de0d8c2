package vault

import (
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New()

// CountWords counts prose words in a markdown body by walking the parsed
// AST and splitting text segments on whitespace. Markup (headings markers,
// link targets, code fences) does not inflate the count the way a naive
// whitespace split over raw bytes would.
func CountWords(body []byte) int {
	if len(body) == 0 {
		return 0
	}

	doc := md.Parser().Parse(text.NewReader(body))
	total := 0
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			// Inline markup splits text into segments, so punctuation can
			// arrive as its own field ("." after a link). Only fields with
			// at least one letter or digit count as words.
			for _, field := range strings.Fields(string(t.Segment.Value(body))) {
				if hasWordChars(field) {
					total++
				}
			}
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return total
}

func hasWordChars(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// CountLines counts non-blank lines, the basis of the rough word estimate
// used when no exact counts are available.
func CountLines(body []byte) int {
	lines := 0
	for _, line := range strings.Split(string(body), "\n") {
		if strings.TrimSpace(line) != "" {
			lines++
		}
	}
	return lines
}
