package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/readingdaily/readings-server/app/database"
	"github.com/readingdaily/readings-server/app/scraper"
	"github.com/readingdaily/readings-server/app/source"
)

// ScrapeResult carries the outcome of one scrape attempt so that the
// manual-trigger handler can report details synchronously.
type ScrapeResult struct {
	Reading    *scraper.Reading
	Validation scraper.ValidationResult
	Checksum   string
	Source     string
	Unchanged  bool
}

// ScrapeReadingTask fetches one calendar date from the configured
// sources in priority order, assembles and validates the record,
// fingerprints it and stores it.
type ScrapeReadingTask struct {
	Task
	Result *ScrapeResult

	date        time.Time
	manual      bool
	clients     []*source.Client
	validator   *scraper.Validator
	readingRepo database.ReadingRepository
	version     string
}

func NewScrapeReadingTask(date time.Time, manual bool, clients []*source.Client,
	readingRepo database.ReadingRepository, version string) *ScrapeReadingTask {
	return &ScrapeReadingTask{
		Task:        NewTask(TaskTypeScrapeReading, date.Format("2006-01-02")),
		date:        date,
		manual:      manual,
		clients:     clients,
		validator:   scraper.NewValidator(),
		readingRepo: readingRepo,
		version:     version,
	}
}

func (t *ScrapeReadingTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	reading := t.scrape(ctx)
	if reading == nil {
		return fmt.Errorf("all sources failed for %s", t.Date)
	}

	result := t.validator.Run(reading)
	t.Result = &ScrapeResult{
		Reading:    reading,
		Validation: result,
		Source:     reading.Metadata.Source,
	}

	if !result.Valid {
		return fmt.Errorf("validation failed for %s: %s", t.Date, strings.Join(result.Errors, "; "))
	}

	checksum, canonical := scraper.Checksum(reading)
	t.Result.Checksum = checksum
	if !canonical {
		slog.Warn("Stored checksum is non-canonical, dedup unreliable", "date", t.Date)
	}

	existing, err := t.readingRepo.GetReading(t.Date)
	if err != nil {
		return fmt.Errorf("failed to check existing reading: %w", err)
	}
	if existing != nil && existing.Checksum == checksum {
		t.Result.Unchanged = true
		slog.Info("Task completed",
			"type", "ScrapeReading",
			"date", t.Date,
			"duration", t.GetDuration(),
			"source", reading.Metadata.Source,
			"unchanged", true)
		return nil
	}

	row, err := database.FromRecord(reading, database.StorageMetadata{
		Checksum:      checksum,
		Validated:     true,
		Version:       t.version,
		ManualTrigger: t.manual,
		ScrapedAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to prepare reading for storage: %w", err)
	}

	if err := t.readingRepo.UpsertReading(row); err != nil {
		return fmt.Errorf("failed to store reading: %w", err)
	}

	slog.Info("Task completed",
		"type", "ScrapeReading",
		"date", t.Date,
		"duration", t.GetDuration(),
		"source", reading.Metadata.Source,
		"checksum", checksum,
		"updated", existing != nil)

	return nil
}

// scrape tries each source in priority order and returns the first
// complete record, or nil when every source failed.
func (t *ScrapeReadingTask) scrape(ctx context.Context) *scraper.Reading {
	for _, client := range t.clients {
		doc, url, err := client.FetchDocument(ctx, t.date)
		if err != nil {
			slog.Warn("Source fetch failed", "source", client.Name(), "date", t.Date, "error", err)
			continue
		}

		reading, err := scraper.NewExtractor(client.Name()).Run(doc, t.date, url)
		if err != nil {
			slog.Warn("Source extraction failed", "source", client.Name(), "date", t.Date, "error", err)
			continue
		}

		return reading
	}
	return nil
}
