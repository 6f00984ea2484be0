package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

type readingKind int

const (
	kindFirst readingKind = iota
	kindSecond
	kindGospel
	kindPsalm
)

var (
	psalmHeadingRe  = regexp.MustCompile(`(?i)Responsorial Psalm`)
	gospelHeadingRe = regexp.MustCompile(`(?i)Gospel`)
	secondHeadingRe = regexp.MustCompile(`(?i)(Reading 2|Second Reading)`)
)

// locateSection returns the content-body element holding the given
// reading, or nil when the page has no such section. Absence is a
// normal outcome (weekdays have no second reading), not a failure.
func locateSection(doc *goquery.Document, kind readingKind) *goquery.Selection {
	switch kind {
	case kindFirst:
		// The source is inconsistent about headings for the first
		// reading, so the first content body is taken directly.
		return firstSelection(doc.Find("div.content-body"))
	case kindSecond:
		heading := findHeading(doc, secondHeadingRe)
		if heading == nil {
			return nil
		}
		return nextContentBody(doc, heading)
	case kindPsalm:
		heading := findHeading(doc, psalmHeadingRe)
		if heading == nil {
			return nil
		}
		return nextContentBody(doc, heading)
	case kindGospel:
		heading := findHeading(doc, gospelHeadingRe)
		if heading != nil {
			return nextContentBody(doc, heading)
		}
		// Some pages omit the gospel heading; the gospel is then the
		// last content body on the page.
		return lastSelection(doc.Find("div.content-body"))
	}
	return nil
}

// findHeading returns the first h3 whose text matches re.
func findHeading(doc *goquery.Document, re *regexp.Regexp) *goquery.Selection {
	match := doc.Find("h3").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return re.MatchString(strings.TrimSpace(s.Text()))
	})
	return firstSelection(match)
}

// nextContentBody returns the first div.content-body that follows the
// given heading in document order, descending into any subtree.
func nextContentBody(doc *goquery.Document, heading *goquery.Selection) *goquery.Selection {
	if len(heading.Nodes) == 0 {
		return nil
	}
	for n := nextInOrder(heading.Nodes[0]); n != nil; n = nextInOrder(n) {
		if isDivWithClass(n, "content-body") {
			return newSingleSelection(doc, n)
		}
	}
	return nil
}

// precedingAddress returns the text of the last div.address appearing
// before the section in document order, or "" when none exists. This
// is the scripture citation printed above each reading block.
func precedingAddress(doc *goquery.Document, section *goquery.Selection) string {
	if len(section.Nodes) == 0 {
		return ""
	}
	target := section.Nodes[0]

	var found *html.Node
	for n := documentRoot(doc); n != nil && n != target; n = nextInOrder(n) {
		if isDivWithClass(n, "address") {
			found = n
		}
	}
	if found == nil {
		return ""
	}
	return normalizeText(inlineText(found))
}

// nextInOrder advances one step in depth-first document order.
func nextInOrder(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for n != nil {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
	}
	return nil
}

func documentRoot(doc *goquery.Document) *html.Node {
	if len(doc.Selection.Nodes) == 0 {
		return nil
	}
	return doc.Selection.Nodes[0]
}

func isDivWithClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode || n.Data != "div" {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func newSingleSelection(doc *goquery.Document, n *html.Node) *goquery.Selection {
	return doc.FindNodes(n)
}

func firstSelection(s *goquery.Selection) *goquery.Selection {
	if s.Length() == 0 {
		return nil
	}
	return s.First()
}

func lastSelection(s *goquery.Selection) *goquery.Selection {
	if s.Length() == 0 {
		return nil
	}
	return s.Last()
}
