package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/readingdaily/readings-server/app/scraper"
)

// Reading is one stored liturgical day. The four section columns hold
// the JSON-encoded scraper sections; NULL means the section was absent
// on the source page.
type Reading struct {
	ID   string // Database UUID
	Date string // ISO date, document identity in the store

	Season          string
	DayOfWeek       string
	FeastDay        *string
	LiturgicalTitle string
	Color           string

	FirstReading  []byte
	Psalm         []byte
	SecondReading []byte
	Gospel        []byte

	Source        string
	SourceURL     string
	Checksum      string
	Validated     bool
	Version       string
	ManualTrigger bool
	ScrapedAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StorageMetadata is the metadata block attached to a record when it
// is persisted, after validation and checksum computation.
type StorageMetadata struct {
	Checksum      string
	Validated     bool
	Version       string
	ManualTrigger bool
	ScrapedAt     time.Time
}

// FromRecord converts a validated scraper record into its storage row.
func FromRecord(rec *scraper.Reading, meta StorageMetadata) (Reading, error) {
	row := Reading{
		Date:          rec.Date,
		Source:        rec.Metadata.Source,
		SourceURL:     rec.Metadata.SourceURL,
		Checksum:      meta.Checksum,
		Validated:     meta.Validated,
		Version:       meta.Version,
		ManualTrigger: meta.ManualTrigger,
		ScrapedAt:     &meta.ScrapedAt,
	}

	if rec.Liturgical != nil {
		row.Season = string(rec.Liturgical.Season)
		row.DayOfWeek = rec.Liturgical.DayOfWeek
		row.FeastDay = rec.Liturgical.FeastDay
		row.LiturgicalTitle = rec.Liturgical.LiturgicalTitle
		row.Color = string(rec.Liturgical.Color)
	}

	var err error
	if row.FirstReading, err = encodeSection(rec.FirstReading); err != nil {
		return Reading{}, err
	}
	if row.Psalm, err = encodeSection(rec.Psalm); err != nil {
		return Reading{}, err
	}
	if row.SecondReading, err = encodeSection(rec.SecondReading); err != nil {
		return Reading{}, err
	}
	if row.Gospel, err = encodeSection(rec.Gospel); err != nil {
		return Reading{}, err
	}

	return row, nil
}

// Record rebuilds the scraper record from a storage row, used by the
// read API and by checksum verification.
func (r Reading) Record() (*scraper.Reading, error) {
	rec := &scraper.Reading{
		Date: r.Date,
		Liturgical: &scraper.LiturgicalInfo{
			Season:          scraper.Season(r.Season),
			DayOfWeek:       r.DayOfWeek,
			FeastDay:        r.FeastDay,
			LiturgicalTitle: r.LiturgicalTitle,
			Color:           scraper.Color(r.Color),
		},
		Metadata: scraper.Metadata{
			Source:    r.Source,
			SourceURL: r.SourceURL,
		},
	}

	var err error
	if rec.FirstReading, err = decodeSection(r.FirstReading); err != nil {
		return nil, err
	}
	if rec.Psalm, err = decodeSection(r.Psalm); err != nil {
		return nil, err
	}
	if rec.SecondReading, err = decodeSection(r.SecondReading); err != nil {
		return nil, err
	}
	if rec.Gospel, err = decodeSection(r.Gospel); err != nil {
		return nil, err
	}

	return rec, nil
}

func encodeSection(section *scraper.Section) ([]byte, error) {
	if section == nil {
		return nil, nil
	}
	data, err := json.Marshal(section)
	if err != nil {
		return nil, fmt.Errorf("failed to encode section: %w", err)
	}
	return data, nil
}

func decodeSection(data []byte) (*scraper.Section, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var section scraper.Section
	if err := json.Unmarshal(data, &section); err != nil {
		return nil, fmt.Errorf("failed to decode section: %w", err)
	}
	return &section, nil
}
