package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/lysyi3m/intel-sync/app/database"
	"github.com/lysyi3m/intel-sync/app/feed"
	"github.com/lysyi3m/intel-sync/app/intel"
)

type Result struct {
	Fetched    int
	Filtered   int
	New        int
	Total      int
	FetchError error
}

var _ TaskInterface = (*SyncTask)(nil)

type SyncTask struct {
	Task
	Config      *feed.Config
	httpClient  *http.Client
	parser      *feed.Parser
	filterer    *feed.Filterer
	transformer *feed.Transformer
	store       *intel.Store
	runRepo     database.RunRepository
	userAgent   string

	Result Result
}

// NewSyncTask builds a single sync run. runRepo may be nil when run history
// is not recorded.
func NewSyncTask(config *feed.Config, httpClient *http.Client, parser *feed.Parser, filterer *feed.Filterer,
	transformer *feed.Transformer, store *intel.Store, runRepo database.RunRepository, userAgent string) *SyncTask {
	return &SyncTask{
		Task:        NewTask(TaskTypeSync, config.Name),
		Config:      config,
		httpClient:  httpClient,
		parser:      parser,
		filterer:    filterer,
		transformer: transformer,
		store:       store,
		runRepo:     runRepo,
		userAgent:   userAgent,
	}
}

// Execute runs fetch, filter, transform, merge, sort and write once. A
// failed fetch leaves the run with nothing new; only a failed write (or a
// cancelled context) is returned as an error.
func (t *SyncTask) Execute(ctx context.Context) error {
	t.Start()

	existing := t.loadExisting()

	items, fetchErr := t.fetchItems(ctx)
	if fetchErr != nil {
		slog.Error("Failed to fetch news", "profile", t.ProfileName, "error", fetchErr)
		items = nil
	} else {
		slog.Info("Fetched news items", "profile", t.ProfileName, "count", len(items))
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	items = t.filterer.Run(items, t.Config)
	filteredCount := 0
	for _, item := range items {
		if item.IsFiltered {
			filteredCount++
			slog.Debug("Item filtered", "gid", item.GID, "feed", item.FeedName, "title", item.Title, "reason", item.FilterReason)
		}
	}

	candidates := t.transformer.Run(items, t.Config)
	merged := intel.Merge(existing, candidates, t.Config.Settings.IDPrefix)
	for _, record := range merged.New {
		slog.Info("New intel", "id", record.ID, "title", record.Title)
	}

	intel.Sort(merged.Records)

	if err := t.store.Save(merged.Records); err != nil {
		return fmt.Errorf("failed to write intel file: %w", err)
	}

	t.Result = Result{
		Fetched:    len(items),
		Filtered:   filteredCount,
		New:        len(merged.New),
		Total:      len(merged.Records),
		FetchError: fetchErr,
	}

	slog.Info("Task completed",
		"type", t.Type,
		"id", t.ID,
		"profile", t.ProfileName,
		"duration", t.GetDuration(),
		"fetched", t.Result.Fetched,
		"filtered", t.Result.Filtered,
		"new", t.Result.New,
		"total", t.Result.Total,
		"file", t.store.Path())

	t.recordRun()

	return nil
}

func (t *SyncTask) loadExisting() []intel.Record {
	records, err := t.store.Load()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("No existing intel file found, starting fresh", "file", t.store.Path())
		} else {
			slog.Warn("Existing intel file unreadable, starting fresh", "file", t.store.Path(), "error", err)
		}
		return nil
	}

	slog.Info("Loaded existing intel entries", "count", len(records))
	return records
}

func (t *SyncTask) fetchItems(ctx context.Context) ([]feed.Item, error) {
	requestURL, err := t.requestURL()
	if err != nil {
		return nil, err
	}

	data, err := t.fetchFeed(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	items, err := t.parser.Run(data, t.Config.Source)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (t *SyncTask) requestURL() (string, error) {
	source := t.Config.Source
	if source.Type == feed.SourceTypeRSS {
		return source.Endpoint, nil
	}

	u, err := url.Parse(source.Endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}

	q := u.Query()
	q.Set("appid", strconv.Itoa(source.AppID))
	q.Set("count", strconv.Itoa(source.Count))
	q.Set("maxlength", strconv.Itoa(source.MaxLength))
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (t *SyncTask) fetchFeed(ctx context.Context, requestURL string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(t.Config.Settings.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func (t *SyncTask) recordRun() {
	if t.runRepo == nil {
		return
	}

	run := database.Run{
		TaskID:    t.ID,
		Profile:   t.ProfileName,
		StartedAt: *t.StartedAt,
		Duration:  t.GetDuration(),
		Fetched:   t.Result.Fetched,
		Filtered:  t.Result.Filtered,
		Added:     t.Result.New,
		Total:     t.Result.Total,
	}
	if t.Result.FetchError != nil {
		run.FetchError = t.Result.FetchError.Error()
	}

	if _, err := t.runRepo.InsertRun(run); err != nil {
		slog.Warn("Failed to record sync run", "profile", t.ProfileName, "error", err)
	}
}
