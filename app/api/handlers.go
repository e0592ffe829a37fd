package api

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/intel-sync/app/database"
	"github.com/lysyi3m/intel-sync/app/feed"
	"github.com/lysyi3m/intel-sync/app/intel"
	"github.com/lysyi3m/intel-sync/app/tasks"
)

const (
	defaultRunLimit = 10
	maxRunLimit     = 100
)

func NewHandler(config *feed.Config, store *intel.Store, runRepo database.RunRepository,
	runner tasks.SyncRunnerInterface, version string) *Handler {
	return &Handler{
		config:    config,
		store:     store,
		runRepo:   runRepo,
		runner:    runner,
		generator: intel.NewGenerator(),
		version:   version,
	}
}

func (h *Handler) GetIntel(c *gin.Context) {
	data, err := os.ReadFile(h.store.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Intel file not found"})
			return
		}
		slog.Error("Failed to read intel file", "file", h.store.Path(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read intel file"})
		return
	}

	c.Header("X-Intel-Profile", h.config.Name)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (h *Handler) GetIntelFeed(c *gin.Context) {
	records, err := h.store.Load()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Intel file not found"})
			return
		}
		slog.Error("Failed to load intel file", "file", h.store.Path(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load intel file"})
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}

	channel := intel.Channel{
		Title:       fmt.Sprintf("%s intel", h.config.Name),
		Link:        h.config.Source.NewsURL(),
		Description: fmt.Sprintf("Intel entries for app %d", h.config.Source.AppID),
		SelfLink:    fmt.Sprintf("%s://%s/intel.rss", scheme, c.Request.Host),
		Generator:   fmt.Sprintf("Intel-Sync/%s", h.version),
	}

	rss, err := h.generator.Run(channel, records)
	if err != nil {
		slog.Error("RSS generation failed", "profile", h.config.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "RSS generation failed"})
		return
	}

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.String(http.StatusOK, rss)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"profile":   h.config.Name,
		"version":   h.version,
	}

	if records, err := h.store.Load(); err == nil {
		health["records"] = len(records)
	}

	if h.runRepo != nil {
		if runCount, err := h.runRepo.GetRunCount(); err == nil {
			health["runs"] = runCount
		}
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	limit := defaultRunLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = min(parsed, maxRunLimit)
	}

	stats := map[string]interface{}{
		"profile": h.config.Name,
	}

	records, err := h.store.Load()
	if err == nil {
		fetched := 0
		for _, r := range records {
			if r.IsFetched(h.config.Settings.IDPrefix) {
				fetched++
			}
		}
		stats["records"] = map[string]int{
			"total":   len(records),
			"curated": len(records) - fetched,
			"fetched": fetched,
		}
	}

	if h.runRepo != nil {
		runs, err := h.runRepo.GetRecentRuns(limit)
		if err != nil {
			slog.Error("Database error", "operation", "get_recent_runs", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		out := make([]runResponse, 0, len(runs))
		for _, run := range runs {
			out = append(out, runResponse{
				ID:         run.ID,
				TaskID:     run.TaskID,
				Profile:    run.Profile,
				StartedAt:  run.StartedAt.Format(time.RFC3339),
				Duration:   run.Duration.String(),
				Fetched:    run.Fetched,
				Filtered:   run.Filtered,
				New:        run.Added,
				Total:      run.Total,
				FetchError: run.FetchError,
			})
		}
		stats["runs"] = out
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APISync(c *gin.Context) {
	result, err := h.runner.Sync(c.Request.Context())
	if err != nil {
		slog.Error("Sync failed", "profile", h.config.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sync failed", "message": err.Error()})
		return
	}

	response := gin.H{
		"profile":  h.config.Name,
		"fetched":  result.Fetched,
		"filtered": result.Filtered,
		"new":      result.New,
		"total":    result.Total,
	}
	if result.FetchError != nil {
		response["fetch_error"] = result.FetchError.Error()
	}

	c.JSON(http.StatusOK, response)
}
