package markup

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// policy is safe for concurrent use once built.
var policy = bluemonday.UGCPolicy()

// blockBreak marks the end of a block element until the text is collected.
// It is a private use rune so it cannot collide with chapter text.
const blockBreak = "\uE000"

const blockElements = "p, div, h1, h2, h3, h4, h5, h6, li, ul, ol, blockquote, pre, section, article, header, footer, hr"

// breakRun matches a block boundary together with the whitespace around it.
var breakRun = regexp.MustCompile("[ \t\r\n\uE000]*\uE000[ \t\r\n\uE000]*")

// PlainText returns the text content of fragment. Line breaks and block
// boundaries become newlines; a boundary already followed by blank lines in
// the source keeps them. All other markup is dropped.
func PlainText(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockElements).AfterHtml(blockBreak)

	text := breakRun.ReplaceAllStringFunc(doc.Text(), func(run string) string {
		return strings.Repeat("\n", max(1, strings.Count(run, "\n")))
	})
	return strings.Trim(text, "\n"), nil
}

// SanitizeHTML strips unsafe markup from fragment and re-renders the result as
// well formed XHTML suitable for an EPUB content document.
func SanitizeHTML(fragment string) (string, error) {
	clean := policy.Sanitize(fragment)
	return renderXHTML(clean)
}

// DescriptionHTML renders a story description for an EPUB title page. Newlines
// become <br/> elements before sanitizing.
func DescriptionHTML(description string) (string, error) {
	description = strings.ReplaceAll(description, "\r\n", "\n")
	description = strings.TrimSpace(description)
	if description == "" {
		return "", nil
	}
	return SanitizeHTML(strings.ReplaceAll(description, "\n", "<br/>"))
}

func renderXHTML(fragment string) (string, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	var buf bytes.Buffer
	for _, node := range nodes {
		if err := html.Render(&buf, node); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
	}
	return buf.String(), nil
}
