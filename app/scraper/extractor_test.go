package scraper

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const weekdayPage = `<!DOCTYPE html>
<html>
<head><title>Daily Readings</title></head>
<body>
<h1 class="page-title">Thursday of the Twenty-sixth Week in Ordinary Time</h1>
<div class="innerblock">
  <div class="content-header">
    <h3 class="name">Reading 1</h3>
    <div class="address"><a href="#">Neh 8:1-4a, 5-6, 7b-12</a></div>
  </div>
  <div class="content-body">
    <p>Ezra the priest brought the law before the assembly, which consisted
    of men, women, and those children old enough to understand.</p>
    <p>Standing at one end of the open place that was before the Water Gate,
    he read out of the book from daybreak till midday.</p>
  </div>
</div>
<div class="innerblock">
  <div class="content-header">
    <h3 class="name">Responsorial Psalm</h3>
    <div class="address">Ps 19:8, 9, 10, 11</div>
  </div>
  <div class="content-body">
    <p>R. The precepts of the Lord give joy to the heart.</p>
    <p>The law of the LORD is perfect, refreshing the soul;
    the decree of the LORD is trustworthy, giving wisdom to the simple.</p>
    <p>R. The precepts of the Lord give joy to the heart.</p>
  </div>
</div>
<div class="innerblock">
  <div class="content-header">
    <h3 class="name">Gospel</h3>
    <div class="address">Luke 9:57-62</div>
  </div>
  <div class="content-body">
    <p>As Jesus and his disciples were proceeding on their journey, someone
    said to him, "I will follow you wherever you go."</p>
    <p>Jesus answered him, "Foxes have dens and birds of the sky have nests,
    but the Son of Man has nowhere to rest his head."</p>
  </div>
</div>
</body>
</html>`

func parseTestPage(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("Failed to parse test page: %v", err)
	}
	return doc
}

func testDate() time.Time {
	return time.Date(2025, time.October, 2, 0, 0, 0, 0, time.UTC)
}

func TestRunWeekdayPage(t *testing.T) {
	doc := parseTestPage(t, weekdayPage)

	extractor := NewExtractor("USCCB")
	reading, err := extractor.Run(doc, testDate(), "https://bible.usccb.org/bible/readings/100225.cfm")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if reading.Date != "2025-10-02" {
		t.Errorf("Expected date '2025-10-02', got: %s", reading.Date)
	}
	if reading.Metadata.Source != "USCCB" {
		t.Errorf("Expected source 'USCCB', got: %s", reading.Metadata.Source)
	}

	if reading.FirstReading == nil {
		t.Fatal("Expected first reading to be present")
	}
	if reading.FirstReading.Title != "First Reading" {
		t.Errorf("Expected title 'First Reading', got: %s", reading.FirstReading.Title)
	}
	if reading.FirstReading.Citation != "Neh 8:1-4a, 5-6, 7b-12" {
		t.Errorf("Unexpected first reading citation: %s", reading.FirstReading.Citation)
	}

	if reading.SecondReading != nil {
		t.Error("Expected no second reading on a weekday page")
	}

	if reading.Gospel == nil {
		t.Fatal("Expected gospel to be present")
	}
	if reading.Gospel.Title != "Gospel" {
		t.Errorf("Expected title 'Gospel', got: %s", reading.Gospel.Title)
	}
	if reading.Gospel.Citation != "Luke 9:57-62" {
		t.Errorf("Expected citation 'Luke 9:57-62', got: %s", reading.Gospel.Citation)
	}
}

func TestRunGospelParagraphJoin(t *testing.T) {
	doc := parseTestPage(t, weekdayPage)

	reading, err := NewExtractor("USCCB").Run(doc, testDate(), "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	want := `As Jesus and his disciples were proceeding on their journey, someone said to him, "I will follow you wherever you go."` +
		"\n\n" +
		`Jesus answered him, "Foxes have dens and birds of the sky have nests, but the Son of Man has nowhere to rest his head."`
	if reading.Gospel.Text != want {
		t.Errorf("Unexpected gospel text:\ngot:  %q\nwant: %q", reading.Gospel.Text, want)
	}
}

func TestRunPsalmResponse(t *testing.T) {
	doc := parseTestPage(t, weekdayPage)

	reading, err := NewExtractor("USCCB").Run(doc, testDate(), "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if reading.Psalm == nil {
		t.Fatal("Expected psalm to be present")
	}
	if reading.Psalm.Title != "Responsorial Psalm" {
		t.Errorf("Expected title 'Responsorial Psalm', got: %s", reading.Psalm.Title)
	}

	wantResponse := "R. The precepts of the Lord give joy to the heart."
	if reading.Psalm.Response != wantResponse {
		t.Errorf("Expected response %q, got: %q", wantResponse, reading.Psalm.Response)
	}

	// The refrain stays part of the full text, and repeats are kept.
	if count := strings.Count(reading.Psalm.Text, wantResponse); count != 2 {
		t.Errorf("Expected refrain to appear twice in psalm text, got %d occurrences", count)
	}
}

func TestRunPsalmGlyphResponseMarker(t *testing.T) {
	page := `<html><body>
<h1>Monday of the First Week of Advent</h1>
<div class="content-body"><p>First reading body text, long enough to count as real content here.</p></div>
<h3>Responsorial Psalm</h3>
<div class="content-body">
  <p>℟. To you, O Lord, I lift my soul.</p>
  <p>Your ways, O LORD, make known to me; teach me your paths.</p>
</div>
<h3>Gospel</h3>
<div class="content-body"><p>Gospel body text that is also long enough to count as real content.</p></div>
</body></html>`
	doc := parseTestPage(t, page)

	reading, err := NewExtractor("USCCB").Run(doc, testDate(), "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if reading.Psalm == nil {
		t.Fatal("Expected psalm to be present")
	}
	if reading.Psalm.Response != "℟. To you, O Lord, I lift my soul." {
		t.Errorf("Unexpected response: %q", reading.Psalm.Response)
	}
}

func TestRunMissingGospel(t *testing.T) {
	page := `<html><body>
<h1>Some Day</h1>
</body></html>`
	doc := parseTestPage(t, page)

	reading, err := NewExtractor("USCCB").Run(doc, testDate(), "")
	if !errors.Is(err, ErrIncompleteReading) {
		t.Errorf("Expected ErrIncompleteReading, got: %v", err)
	}
	if reading != nil {
		t.Error("Expected nil reading when required sections are missing")
	}
}

func TestGospelHeadingFallback(t *testing.T) {
	// No "Gospel" heading: the last content body is taken as the gospel.
	page := `<html><body>
<h1>Some Day in Ordinary Time</h1>
<div class="address">Gn 1:1-19</div>
<div class="content-body"><p>In the beginning, when God created the heavens and the earth.</p></div>
<div class="address">Mk 6:53-56</div>
<div class="content-body"><p>After making the crossing to the other side of the sea, Jesus and his
disciples came to land at Gennesaret and tied up there.</p></div>
</body></html>`
	doc := parseTestPage(t, page)

	reading, err := NewExtractor("USCCB").Run(doc, testDate(), "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if reading.Gospel == nil {
		t.Fatal("Expected gospel from last content body fallback")
	}
	if reading.Gospel.Citation != "Mk 6:53-56" {
		t.Errorf("Expected citation 'Mk 6:53-56', got: %s", reading.Gospel.Citation)
	}
	if reading.FirstReading.Citation != "Gn 1:1-19" {
		t.Errorf("Expected citation 'Gn 1:1-19', got: %s", reading.FirstReading.Citation)
	}
}

func TestSecondReadingOnSundayPage(t *testing.T) {
	page := `<html><body>
<h1>Twenty-seventh Sunday in Ordinary Time</h1>
<div class="content-body"><p>First reading body, long enough to be treated as substantial text.</p></div>
<h3>Reading 2</h3>
<div class="address">2 Tm 1:6-8, 13-14</div>
<div class="content-body"><p>Beloved: I remind you to stir into flame the gift of God that you have
through the imposition of my hands.</p></div>
<h3>Gospel</h3>
<div class="address">Lk 17:5-10</div>
<div class="content-body"><p>The apostles said to the Lord, "Increase our faith," and he answered them
with the parable of the mustard seed.</p></div>
</body></html>`
	doc := parseTestPage(t, page)

	reading, err := NewExtractor("USCCB").Run(doc, testDate(), "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if reading.SecondReading == nil {
		t.Fatal("Expected second reading on a Sunday page")
	}
	if reading.SecondReading.Title != "Second Reading" {
		t.Errorf("Expected title 'Second Reading', got: %s", reading.SecondReading.Title)
	}
	if reading.SecondReading.Citation != "2 Tm 1:6-8, 13-14" {
		t.Errorf("Unexpected second reading citation: %s", reading.SecondReading.Citation)
	}
}

func TestMissingCitationIsEmptyString(t *testing.T) {
	page := `<html><body>
<h1>Some Day</h1>
<div class="content-body"><p>A first reading without any address element preceding it at all.</p></div>
<h3>Gospel</h3>
<div class="content-body"><p>A gospel without an address element, but with enough text to extract.</p></div>
</body></html>`
	doc := parseTestPage(t, page)

	reading, err := NewExtractor("USCCB").Run(doc, testDate(), "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if reading.FirstReading.Citation != "" {
		t.Errorf("Expected empty citation, got: %q", reading.FirstReading.Citation)
	}
}

func TestNormalizeTextCollapsesWhitespace(t *testing.T) {
	got := normalizeText("  one\n\ttwo   three\r\nfour  ")
	want := "one two three four"
	if got != want {
		t.Errorf("Expected %q, got: %q", want, got)
	}
}

func TestParagraphsDropEmpty(t *testing.T) {
	page := `<html><body><div class="content-body">
<p>First paragraph.</p>
<p>   </p>
<p></p>
<p>Second paragraph.</p>
</div></body></html>`
	doc := parseTestPage(t, page)

	parts := paragraphs(doc.Find("div.content-body"))
	if len(parts) != 2 {
		t.Fatalf("Expected 2 paragraphs, got: %d", len(parts))
	}
	if parts[0] != "First paragraph." || parts[1] != "Second paragraph." {
		t.Errorf("Unexpected paragraphs: %v", parts)
	}
}

func TestInlineTextJoinsAcrossLineBreaks(t *testing.T) {
	page := `<html><body><div class="content-body">
<p>Blessed are they who hope<br>in the Lord.</p>
</div></body></html>`
	doc := parseTestPage(t, page)

	parts := paragraphs(doc.Find("div.content-body"))
	if len(parts) != 1 {
		t.Fatalf("Expected 1 paragraph, got: %d", len(parts))
	}
	if parts[0] != "Blessed are they who hope in the Lord." {
		t.Errorf("Unexpected paragraph text: %q", parts[0])
	}
}
