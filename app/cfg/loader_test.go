package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		Port:              "8080",
		UserAgent:         "Test Agent",
		WorkerCount:       3,
		SchedulerInterval: 300,
		APIAccessKey:      "test-key",
		Version:           "test-version",
		SourcesDir:        "./sources",
		DBHost:            "localhost",
		DBPort:            "5432",
		DBUser:            "test_user",
		DBPassword:        "test_password",
		DBName:            "test_db",
		BackfillDays:      7,
		ForwardDays:       21,
		RetentionDays:     90,
		Timezone:          "UTC",
		Debug:             true,
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.WorkerCount != 3 {
		t.Errorf("Expected worker count 3, got %d", cfg.WorkerCount)
	}
	if cfg.BackfillDays != 7 || cfg.ForwardDays != 21 {
		t.Errorf("Unexpected scrape window: -%d/+%d", cfg.BackfillDays, cfg.ForwardDays)
	}
	if cfg.RetentionDays != 90 {
		t.Errorf("Expected retention 90, got %d", cfg.RetentionDays)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}
