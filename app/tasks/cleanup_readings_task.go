package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/readingdaily/readings-server/app/database"
)

// CleanupReadingsTask deletes readings dated before the cutoff to keep
// the store bounded.
type CleanupReadingsTask struct {
	Task
	cutoff      string
	readingRepo database.ReadingRepository
}

func NewCleanupReadingsTask(cutoff string, readingRepo database.ReadingRepository) *CleanupReadingsTask {
	return &CleanupReadingsTask{
		Task:        NewTask(TaskTypeCleanupReadings, cutoff),
		cutoff:      cutoff,
		readingRepo: readingRepo,
	}
}

func (t *CleanupReadingsTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	deleted, err := t.readingRepo.DeleteOlderThan(t.cutoff)
	if err != nil {
		slog.Error("Task failed", "type", "CleanupReadings", "cutoff", t.cutoff, "error", err)
		return fmt.Errorf("failed to delete old readings: %w", err)
	}

	slog.Info("Task completed",
		"type", "CleanupReadings",
		"cutoff", t.cutoff,
		"duration", t.GetDuration(),
		"deleted", deleted)

	return nil
}
