package source

// Configuration types for reading sources

type Config struct {
	Name     string         // Derived from filename (without .yml extension)
	BaseURL  string         `yaml:"base_url"`
	Settings ConfigSettings `yaml:"settings"`
}

type ConfigSettings struct {
	Enabled  bool `yaml:"enabled"`
	Priority int  `yaml:"priority"` // lower value is tried first
	Timeout  int  `yaml:"timeout"`  // seconds
}
