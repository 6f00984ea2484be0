package database

// ReadingStats summarizes the stored collection for the stats endpoint.
type ReadingStats struct {
	Total        int
	Validated    int
	EarliestDate string
	LatestDate   string
}

type ReadingRepository interface {
	GetReading(date string) (*Reading, error)
	GetDates(from, to string) ([]string, error)
	GetReadingCount() (int, error)
	GetStats() (ReadingStats, error)

	UpsertReading(reading Reading) error
	DeleteOlderThan(cutoff string) (int64, error)
}
