package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/readingdaily/readings-server/app/database"
	"github.com/readingdaily/readings-server/app/scraper"
	"github.com/readingdaily/readings-server/app/source"
	"github.com/readingdaily/readings-server/app/tasks"
)

func NewHandler(configCache *source.ConfigCache, readingRepo database.ReadingRepository,
	scheduler tasks.TaskSchedulerInterface, version string) *Handler {
	return &Handler{
		readingRepo: readingRepo,
		configCache: configCache,
		scheduler:   scheduler,
		version:     version,
	}
}

// readingDocument is the public representation of a stored reading. The
// metadata block carries storage details alongside the scraped source.
type readingDocument struct {
	Date          string                  `json:"date"`
	Liturgical    *scraper.LiturgicalInfo `json:"liturgicalDate"`
	FirstReading  *scraper.Section        `json:"firstReading"`
	Psalm         *scraper.Section        `json:"psalm"`
	SecondReading *scraper.Section        `json:"secondReading,omitempty"`
	Gospel        *scraper.Section        `json:"gospel"`
	Metadata      gin.H                   `json:"metadata"`
}

func buildDocument(stored *database.Reading, rec *scraper.Reading) readingDocument {
	metadata := gin.H{
		"source":        rec.Metadata.Source,
		"sourceUrl":     rec.Metadata.SourceURL,
		"checksum":      stored.Checksum,
		"validated":     stored.Validated,
		"version":       stored.Version,
		"manualTrigger": stored.ManualTrigger,
	}
	if stored.ScrapedAt != nil {
		metadata["scrapedAt"] = stored.ScrapedAt.Format(time.RFC3339)
	}

	return readingDocument{
		Date:          rec.Date,
		Liturgical:    rec.Liturgical,
		FirstReading:  rec.FirstReading,
		Psalm:         rec.Psalm,
		SecondReading: rec.SecondReading,
		Gospel:        rec.Gospel,
		Metadata:      metadata,
	}
}

func (h *Handler) GetReading(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format (expected YYYY-MM-DD)"})
		return
	}

	stored, err := h.readingRepo.GetReading(date)
	if err != nil {
		slog.Error("Database error", "operation", "get_reading", "date", date, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if stored == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No reading stored for this date"})
		return
	}

	rec, err := stored.Record()
	if err != nil {
		slog.Error("Stored reading decode error", "date", date, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stored reading is corrupted"})
		return
	}

	c.JSON(http.StatusOK, buildDocument(stored, rec))
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if count, err := h.readingRepo.GetReadingCount(); err == nil {
		health["readings"] = count
	}

	health["loaded_configurations"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.readingRepo.GetStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":         stats.Total,
		"validated":     stats.Validated,
		"earliest_date": stats.EarliestDate,
		"latest_date":   stats.LatestDate,
		"sources":       h.configCache.GetConfigCount(),
	})
}

type scrapeRequest struct {
	Date string `json:"date"`
}

// APIScrapeReading runs a scrape synchronously for the requested date so
// the caller gets the validation outcome in the response. The date
// defaults to today when the body omits it.
func (h *Handler) APIScrapeReading(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	date := time.Now().In(time.Local)
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format (expected YYYY-MM-DD)"})
			return
		}
		date = parsed
	}

	clients := h.scheduler.Clients()
	if len(clients) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No enabled sources configured"})
		return
	}

	task := tasks.NewScrapeReadingTask(date, true, clients, h.readingRepo, h.version)
	if err := task.Execute(c.Request.Context()); err != nil {
		slog.Error("Manual scrape failed", "date", date.Format("2006-01-02"), "error", err)

		response := gin.H{"error": err.Error()}
		if task.Result != nil && len(task.Result.Validation.Errors) > 0 {
			response["validation_errors"] = task.Result.Validation.Errors
		}
		c.JSON(http.StatusInternalServerError, response)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"date":      date.Format("2006-01-02"),
		"source":    task.Result.Source,
		"checksum":  task.Result.Checksum,
		"unchanged": task.Result.Unchanged,
	})
}

// APIVerifyReading recomputes the content checksum of a stored reading
// and compares it against the checksum persisted at scrape time.
func (h *Handler) APIVerifyReading(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format (expected YYYY-MM-DD)"})
		return
	}

	stored, err := h.readingRepo.GetReading(date)
	if err != nil {
		slog.Error("Database error", "operation", "verify_reading", "date", date, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if stored == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No reading stored for this date"})
		return
	}

	rec, err := stored.Record()
	if err != nil {
		slog.Error("Stored reading decode error", "date", date, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stored reading is corrupted"})
		return
	}

	computed, canonical := scraper.Checksum(rec)

	c.JSON(http.StatusOK, gin.H{
		"date":              date,
		"stored_checksum":   stored.Checksum,
		"computed_checksum": computed,
		"canonical":         canonical,
		"match":             computed == stored.Checksum,
	})
}

func (h *Handler) APIListReadings(c *gin.Context) {
	to := c.DefaultQuery("to", time.Now().In(time.Local).Format("2006-01-02"))
	from := c.DefaultQuery("from", time.Now().In(time.Local).AddDate(0, 0, -30).Format("2006-01-02"))

	for _, date := range []string{from, to} {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format (expected YYYY-MM-DD)"})
			return
		}
	}

	dates, err := h.readingRepo.GetDates(from, to)
	if err != nil {
		slog.Error("Database error", "operation", "list_readings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from":  from,
		"to":    to,
		"dates": dates,
		"total": len(dates),
	})
}
