package scraper

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// extractLiturgicalInfo derives season, day of week, feast day and
// color from the page heading and the calendar date. Every branch
// falls back to an explicit default, so the overall scrape never
// aborts here: an uninformative page yields Ordinary Time / green with
// an empty title.
func (e *Extractor) extractLiturgicalInfo(doc *goquery.Document, date time.Time) *LiturgicalInfo {
	heading := doc.Find("h1.page-title")
	if heading.Length() == 0 {
		heading = doc.Find("h1")
	}

	var title string
	if heading.Length() > 0 {
		title = normalizeText(heading.First().Text())
	}

	season := determineSeason(title, date)

	var feastDay *string
	lower := strings.ToLower(title)
	if strings.Contains(lower, "feast") || strings.Contains(lower, "solemnity") {
		feastDay = &title
	}

	return &LiturgicalInfo{
		Season:          season,
		DayOfWeek:       date.Weekday().String(),
		FeastDay:        feastDay,
		LiturgicalTitle: title,
		Color:           liturgicalColor(season, feastDay),
	}
}

// determineSeason matches season keywords in the page title, falling
// back to a month table when the title says nothing recognizable. The
// month table is a rough approximation: liturgical seasons do not
// align to calendar months, and the fallback is only a guess for pages
// whose headings carry no season at all.
func determineSeason(title string, date time.Time) Season {
	lower := strings.ToLower(title)

	switch {
	case strings.Contains(lower, "advent"):
		return SeasonAdvent
	case strings.Contains(lower, "christmas"):
		return SeasonChristmas
	case strings.Contains(lower, "lent"), strings.Contains(lower, "ash wednesday"):
		return SeasonLent
	case strings.Contains(lower, "easter"):
		return SeasonEaster
	case strings.Contains(lower, "ordinary time"):
		return SeasonOrdinaryTime
	}

	switch date.Month() {
	case time.November, time.December:
		return SeasonAdvent
	case time.January:
		return SeasonChristmas
	case time.February, time.March:
		return SeasonLent
	case time.April:
		return SeasonEaster
	default:
		return SeasonOrdinaryTime
	}
}

var seasonColors = map[Season]Color{
	SeasonAdvent:       ColorPurple,
	SeasonChristmas:    ColorWhite,
	SeasonLent:         ColorPurple,
	SeasonEaster:       ColorWhite,
	SeasonOrdinaryTime: ColorGreen,
}

// liturgicalColor is a pure function of (season, feastDay). Marian
// feasts override the season color with white; unknown seasons
// default to green.
func liturgicalColor(season Season, feastDay *string) Color {
	if feastDay != nil {
		lower := strings.ToLower(*feastDay)
		if strings.Contains(lower, "mary") || strings.Contains(lower, "virgin") {
			return ColorWhite
		}
	}

	if color, ok := seasonColors[season]; ok {
		return color
	}
	return ColorGreen
}
