package database

import (
	"database/sql"
	"fmt"
)

var _ ReadingRepository = (*ReadingRepositoryImpl)(nil)

// ReadingRepositoryImpl handles database operations for stored readings
type ReadingRepositoryImpl struct {
	db *DB
}

func NewReadingRepository(db *DB) *ReadingRepositoryImpl {
	return &ReadingRepositoryImpl{db: db}
}

const readingColumns = `id, TRIM(date), season, day_of_week, feast_day, liturgical_title, color,
	first_reading, psalm, second_reading, gospel,
	source, source_url, checksum, validated, version, manual_trigger, scraped_at,
	created_at, updated_at`

// GetReading returns the stored record for an ISO date, or nil when
// the date has not been scraped.
func (r *ReadingRepositoryImpl) GetReading(date string) (*Reading, error) {
	row := r.db.QueryRow(`
		SELECT `+readingColumns+`
		FROM readings
		WHERE date = $1
	`, date)

	reading, err := scanReading(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reading: %w", err)
	}
	return reading, nil
}

// GetDates returns the dates already stored inside [from, to], both
// inclusive, in ascending order. The scheduler uses this to find gaps
// in the scrape window.
func (r *ReadingRepositoryImpl) GetDates(from, to string) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT TRIM(date) FROM readings
		WHERE date >= $1 AND date <= $2
		ORDER BY date
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("failed to scan date: %w", err)
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}

func (r *ReadingRepositoryImpl) GetReadingCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM readings`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count readings: %w", err)
	}
	return count, nil
}

func (r *ReadingRepositoryImpl) GetStats() (ReadingStats, error) {
	var stats ReadingStats
	var earliest, latest sql.NullString

	err := r.db.QueryRow(`
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE validated),
		       MIN(TRIM(date)),
		       MAX(TRIM(date))
		FROM readings
	`).Scan(&stats.Total, &stats.Validated, &earliest, &latest)
	if err != nil {
		return ReadingStats{}, fmt.Errorf("failed to get stats: %w", err)
	}

	stats.EarliestDate = earliest.String
	stats.LatestDate = latest.String
	return stats, nil
}

// UpsertReading inserts or replaces the record for its date. The date
// is the document identity, so a re-scrape of the same date overwrites
// the previous content and metadata.
func (r *ReadingRepositoryImpl) UpsertReading(reading Reading) error {
	_, err := r.db.Exec(`
		INSERT INTO readings (
			date, season, day_of_week, feast_day, liturgical_title, color,
			first_reading, psalm, second_reading, gospel,
			source, source_url, checksum, validated, version, manual_trigger, scraped_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (date) DO UPDATE SET
			season = EXCLUDED.season,
			day_of_week = EXCLUDED.day_of_week,
			feast_day = EXCLUDED.feast_day,
			liturgical_title = EXCLUDED.liturgical_title,
			color = EXCLUDED.color,
			first_reading = EXCLUDED.first_reading,
			psalm = EXCLUDED.psalm,
			second_reading = EXCLUDED.second_reading,
			gospel = EXCLUDED.gospel,
			source = EXCLUDED.source,
			source_url = EXCLUDED.source_url,
			checksum = EXCLUDED.checksum,
			validated = EXCLUDED.validated,
			version = EXCLUDED.version,
			manual_trigger = EXCLUDED.manual_trigger,
			scraped_at = EXCLUDED.scraped_at,
			updated_at = NOW()
	`, reading.Date, reading.Season, reading.DayOfWeek, reading.FeastDay,
		reading.LiturgicalTitle, reading.Color,
		nullBytes(reading.FirstReading), nullBytes(reading.Psalm),
		nullBytes(reading.SecondReading), nullBytes(reading.Gospel),
		reading.Source, reading.SourceURL, reading.Checksum, reading.Validated,
		reading.Version, reading.ManualTrigger, reading.ScrapedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert reading: %w", err)
	}
	return nil
}

// DeleteOlderThan removes readings dated strictly before the cutoff
// ISO date and reports how many were deleted.
func (r *ReadingRepositoryImpl) DeleteOlderThan(cutoff string) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM readings WHERE date < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old readings: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted readings: %w", err)
	}
	return deleted, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReading(row rowScanner) (*Reading, error) {
	var reading Reading
	var feastDay sql.NullString
	var scrapedAt sql.NullTime

	err := row.Scan(
		&reading.ID, &reading.Date, &reading.Season, &reading.DayOfWeek,
		&feastDay, &reading.LiturgicalTitle, &reading.Color,
		&reading.FirstReading, &reading.Psalm, &reading.SecondReading, &reading.Gospel,
		&reading.Source, &reading.SourceURL, &reading.Checksum, &reading.Validated,
		&reading.Version, &reading.ManualTrigger, &scrapedAt,
		&reading.CreatedAt, &reading.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if feastDay.Valid {
		reading.FeastDay = &feastDay.String
	}
	if scrapedAt.Valid {
		reading.ScrapedAt = &scrapedAt.Time
	}
	return &reading, nil
}

// nullBytes maps an absent section to SQL NULL instead of an empty
// byte slice.
func nullBytes(data []byte) interface{} {
	if len(data) == 0 {
		return nil
	}
	return data
}
