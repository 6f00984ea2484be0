package scraper

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrIncompleteReading is returned by Extractor.Run when the page did
// not yield both a gospel and a first reading. The caller decides
// whether to try another source or give up on the date.
var ErrIncompleteReading = errors.New("missing required readings")

// Response markers used by the source for the psalm refrain.
var responseMarkers = []string{"R.", "℟."}

// Extractor assembles one day's record from a parsed page. It holds no
// mutable state, so a single instance is safe for concurrent use as
// long as each call gets its own document.
type Extractor struct {
	source string
}

func NewExtractor(source string) *Extractor {
	return &Extractor{source: source}
}

// Run extracts the full reading record for the given calendar date.
func (e *Extractor) Run(doc *goquery.Document, date time.Time, sourceURL string) (*Reading, error) {
	reading := &Reading{
		Date:          date.Format("2006-01-02"),
		Liturgical:    e.extractLiturgicalInfo(doc, date),
		FirstReading:  e.extractReading(doc, kindFirst),
		Psalm:         e.extractPsalm(doc),
		SecondReading: e.extractReading(doc, kindSecond),
		Gospel:        e.extractReading(doc, kindGospel),
		Metadata: Metadata{
			Source:    e.source,
			SourceURL: sourceURL,
		},
	}

	if reading.Gospel == nil || reading.FirstReading == nil {
		slog.Error("Missing required readings", "source", e.source, "date", reading.Date,
			"gospel", reading.Gospel != nil, "first_reading", reading.FirstReading != nil)
		return nil, ErrIncompleteReading
	}

	return reading, nil
}

// extractReading builds a section for the first reading, second
// reading or gospel. A nil return means the section does not exist on
// this page, which is expected for the second reading on weekdays.
func (e *Extractor) extractReading(doc *goquery.Document, kind readingKind) *Section {
	section := locateSection(doc, kind)
	if section == nil {
		return nil
	}

	citation := precedingAddress(doc, section)

	text := joinParagraphs(paragraphs(section))
	if text == "" {
		return nil
	}

	var title string
	switch kind {
	case kindFirst:
		title = "First Reading"
	case kindSecond:
		title = "Second Reading"
	default:
		title = "Gospel"
	}

	return &Section{
		Reference: citation,
		Citation:  citation,
		Text:      text,
		Title:     title,
	}
}

// extractPsalm handles the responsorial psalm, which additionally
// carries the refrain. The refrain paragraphs stay part of the full
// text; the first one found also becomes the Response field.
func (e *Extractor) extractPsalm(doc *goquery.Document) *Section {
	section := locateSection(doc, kindPsalm)
	if section == nil {
		return nil
	}

	citation := precedingAddress(doc, section)

	var response string
	parts := paragraphs(section)
	for _, part := range parts {
		if response == "" && isResponseLine(part) {
			response = part
		}
	}

	text := joinParagraphs(parts)
	if text == "" {
		return nil
	}

	return &Section{
		Reference: citation,
		Citation:  citation,
		Text:      text,
		Title:     "Responsorial Psalm",
		Response:  response,
	}
}

func isResponseLine(text string) bool {
	for _, marker := range responseMarkers {
		if strings.HasPrefix(text, marker) {
			return true
		}
	}
	return false
}
