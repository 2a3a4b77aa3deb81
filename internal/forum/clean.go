package forum

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	innerWhitespace = regexp.MustCompile(`[^\S\n]+`)
	blankLines      = regexp.MustCompile(`\n{3,}`)
)

// CleanText turns an item's HTML body into plain text. Paragraphs are
// separated by a blank line, entities are unescaped and runs of spaces
// collapse. Empty input gives "".
func CleanText(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return normalize(html.UnescapeString(body))
	}

	var b strings.Builder
	for _, n := range doc.Find("body").Nodes {
		writeText(n, &b)
	}
	return normalize(b.String())
}

func writeText(node *html.Node, b *strings.Builder) {
	switch node.Type {
	case html.TextNode:
		b.WriteString(node.Data)
		return
	case html.ElementNode:
		switch node.Data {
		case "p", "div", "pre":
			b.WriteString("\n\n")
		case "br":
			b.WriteString("\n")
			return
		case "a":
			b.WriteString(anchorText(node))
			return
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		writeText(child, b)
	}
}

// anchorText returns the link text, or the href when the text is the
// shortened form of it ("https://example.com/very/lo...").
func anchorText(node *html.Node) string {
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		writeText(child, &b)
	}
	text := b.String()

	href := ""
	for _, a := range node.Attr {
		if a.Key == "href" {
			href = a.Val
			break
		}
	}
	if prefix, ok := strings.CutSuffix(text, "..."); ok && href != "" && strings.HasPrefix(href, prefix) {
		return href
	}
	return text
}

func normalize(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || unicode.IsPrint(r) {
			return r
		}
		if unicode.IsSpace(r) {
			return ' '
		}
		return -1
	}, s)

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(innerWhitespace.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
