package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/readingdaily/readings-server/app/cfg"
	"github.com/readingdaily/readings-server/app/database"
	"github.com/readingdaily/readings-server/app/source"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	readingRepo   database.ReadingRepository
	configCache   *source.ConfigCache
	userAgent     string
	version       string
	interval      time.Duration
	workerCount   int
	backfillDays  int
	forwardDays   int
	retentionDays int
	lastCleanup   time.Time
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	taskQueue     chan TaskInterface
}

func NewScheduler(configCache *source.ConfigCache, readingRepo database.ReadingRepository) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		readingRepo:   readingRepo,
		configCache:   configCache,
		userAgent:     cfg.UserAgent,
		version:       cfg.Version,
		interval:      time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount:   cfg.WorkerCount,
		backfillDays:  cfg.BackfillDays,
		forwardDays:   cfg.ForwardDays,
		retentionDays: cfg.RetentionDays,
		ctx:           ctx,
		cancel:        cancel,
		taskQueue:     make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()

}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// Clients returns the enabled source clients in priority order. The
// same ordering drives both scheduled and manual scrapes.
func (s *Scheduler) Clients() []*source.Client {
	configs := s.configCache.GetEnabledConfigs()
	clients := make([]*source.Client, 0, len(configs))
	for _, config := range configs {
		clients = append(clients, source.NewClient(config, s.userAgent))
	}
	return clients
}

// enqueueTasks fills the scrape window: every date in
// [today-backfill, today+forward] without a stored reading gets a
// scrape task. A daily cleanup prunes readings past retention.
func (s *Scheduler) enqueueTasks() {
	clients := s.Clients()
	if len(clients) == 0 {
		slog.Debug("No enabled source configurations found")
		return
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	from := today.AddDate(0, 0, -s.backfillDays)
	to := today.AddDate(0, 0, s.forwardDays)

	stored, err := s.readingRepo.GetDates(from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		slog.Error("Failed to list stored dates, skipping scheduling cycle", "error", err)
		return
	}
	have := make(map[string]bool, len(stored))
	for _, date := range stored {
		have[date] = true
	}

	missing := 0
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		if have[date.Format("2006-01-02")] {
			continue
		}
		missing++
		task := NewScrapeReadingTask(date, false, clients, s.readingRepo, s.version)
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue ScrapeReadingTask", "date", task.Date, "error", err)
		}
	}
	if missing > 0 {
		slog.Debug("Scheduled scrape tasks for missing dates", "count", missing)
	}

	if time.Since(s.lastCleanup) >= 24*time.Hour {
		cutoff := today.AddDate(0, 0, -s.retentionDays).Format("2006-01-02")
		if err := s.EnqueueTask(NewCleanupReadingsTask(cutoff, s.readingRepo)); err != nil {
			slog.Warn("Failed to enqueue CleanupReadingsTask", "cutoff", cutoff, "error", err)
		} else {
			s.lastCleanup = time.Now()
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "date", task.GetDate(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
