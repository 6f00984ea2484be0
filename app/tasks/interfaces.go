package tasks

import (
	"github.com/readingdaily/readings-server/app/source"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application and the API handlers to manage background
// scrape processing.
// Example usage:
//
//	scheduler := NewScheduler(configCache, readingRepo)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewScrapeReadingTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error

	// Clients exposes the enabled source clients in priority order so
	// the manual-trigger handler scrapes with the same configuration.
	Clients() []*source.Client
}
