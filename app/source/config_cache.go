package source

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ConfigCache loads source definitions from a directory of YAML files
// and serves them to the scheduler and API handlers.
type ConfigCache struct {
	sourcesDir string
	cache      map[string]*Config
	mu         sync.RWMutex
}

func NewConfigCache(sourcesDir string) *ConfigCache {
	return &ConfigCache{
		sourcesDir: sourcesDir,
		cache:      make(map[string]*Config),
	}
}

func (cc *ConfigCache) Run() error {
	if _, err := os.Stat(cc.sourcesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.sourcesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}
	yamlFiles, err := filepath.Glob(filepath.Join(cc.sourcesDir, "*.yaml"))
	if err != nil {
		return fmt.Errorf("failed to find YAML files: %w", err)
	}
	files = append(files, yamlFiles...)

	for _, file := range files {
		name := sourceName(file)

		config, err := cc.LoadConfig(name, file)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Source configuration loaded", "source", name,
			"enabled", config.Settings.Enabled, "priority", config.Settings.Priority)
	}

	return nil
}

func (cc *ConfigCache) LoadConfig(name, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	config.Name = name

	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	setDefaults(&config)

	cc.mu.Lock()
	cc.cache[name] = &config
	cc.mu.Unlock()

	return &config, nil
}

func (cc *ConfigCache) GetConfig(name string) (*Config, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	config, ok := cc.cache[name]
	if !ok {
		return nil, fmt.Errorf("source configuration not found: %s", name)
	}
	return config, nil
}

func (cc *ConfigCache) GetConfigs() []*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	configs := make([]*Config, 0, len(cc.cache))
	for _, config := range cc.cache {
		configs = append(configs, config)
	}
	sortByPriority(configs)
	return configs
}

// GetEnabledConfigs returns enabled sources in priority order, the
// order in which the scrape task tries them.
func (cc *ConfigCache) GetEnabledConfigs() []*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	configs := make([]*Config, 0, len(cc.cache))
	for _, config := range cc.cache {
		if config.Settings.Enabled {
			configs = append(configs, config)
		}
	}
	sortByPriority(configs)
	return configs
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func validateConfig(config *Config) error {
	if config.BaseURL == "" {
		return fmt.Errorf("source base_url is required")
	}
	return nil
}

func setDefaults(config *Config) {
	if config.Settings.Timeout == 0 {
		config.Settings.Timeout = 10
	}
}

func sortByPriority(configs []*Config) {
	sort.Slice(configs, func(i, j int) bool {
		if configs[i].Settings.Priority != configs[j].Settings.Priority {
			return configs[i].Settings.Priority < configs[j].Settings.Priority
		}
		return configs[i].Name < configs[j].Name
	})
}

func sourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(strings.TrimSuffix(base, ".yml"), ".yaml")
}
