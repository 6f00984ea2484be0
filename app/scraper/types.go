package scraper

// Liturgical seasons recognized by the season heuristic.
type Season string

const (
	SeasonAdvent       Season = "Advent"
	SeasonChristmas    Season = "Christmas"
	SeasonLent         Season = "Lent"
	SeasonEaster       Season = "Easter"
	SeasonOrdinaryTime Season = "Ordinary Time"
)

// Liturgical colors derived from (season, feast day).
type Color string

const (
	ColorPurple Color = "purple"
	ColorWhite  Color = "white"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
)

// Section is a single reading unit on a day's page (first reading,
// responsorial psalm, second reading or gospel). Response is set only
// for the psalm variant.
type Section struct {
	Reference string `json:"reference"`
	Citation  string `json:"citation"`
	Text      string `json:"text"`
	Title     string `json:"title"`
	Response  string `json:"response,omitempty"`
}

// LiturgicalInfo describes the liturgical calendar context of a date.
// FeastDay is nil on ordinary days.
type LiturgicalInfo struct {
	Season          Season  `json:"season"`
	DayOfWeek       string  `json:"dayOfWeek"`
	FeastDay        *string `json:"feastDay,omitempty"`
	LiturgicalTitle string  `json:"liturgicalTitle"`
	Color           Color   `json:"color"`
}

// Metadata identifies where a record was scraped from.
type Metadata struct {
	Source    string `json:"source"`
	SourceURL string `json:"sourceUrl"`
}

// Reading is one day's assembled record. Date is the ISO calendar date
// (YYYY-MM-DD). SecondReading is legitimately nil on weekdays; a nil
// Gospel or FirstReading makes the record incomplete.
type Reading struct {
	Date          string          `json:"date"`
	Liturgical    *LiturgicalInfo `json:"liturgicalDate"`
	FirstReading  *Section        `json:"firstReading,omitempty"`
	Psalm         *Section        `json:"psalm,omitempty"`
	SecondReading *Section        `json:"secondReading,omitempty"`
	Gospel        *Section        `json:"gospel,omitempty"`
	Metadata      Metadata        `json:"metadata"`
}

// ValidationResult accumulates every defect found in a record. Errors
// is empty exactly when Valid is true, and its order is stable across
// runs.
type ValidationResult struct {
	Valid  bool
	Errors []string
}
