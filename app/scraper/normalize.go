package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// normalizeText collapses any run of whitespace, including newlines,
// to a single space and trims the result.
func normalizeText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// paragraphs returns the normalized text of each non-empty <p> inside
// the section, in document order.
func paragraphs(section *goquery.Selection) []string {
	var out []string
	section.Find("p").Each(func(_ int, p *goquery.Selection) {
		if len(p.Nodes) == 0 {
			return
		}
		text := normalizeText(inlineText(p.Nodes[0]))
		if text != "" {
			out = append(out, text)
		}
	})
	return out
}

// joinParagraphs joins normalized paragraphs with a blank line. An
// empty result means the reading is unavailable on this page.
func joinParagraphs(parts []string) string {
	return strings.Join(parts, "\n\n")
}

// inlineText joins every text node under n with single spaces, so line
// breaks and inline markup never glue two words together.
func inlineText(n *html.Node) string {
	var parts []string
	collectText(n, &parts)
	return strings.Join(parts, " ")
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}
