package cfg

type Cfg struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Application configuration
	SourcesDir        string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Scrape window and retention
	BackfillDays  int
	ForwardDays   int
	RetentionDays int

	// One-shot backfill mode
	Populate bool

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
