package tasks

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/lysyi3m/intel-sync/app/database"
	"github.com/lysyi3m/intel-sync/app/feed"
	"github.com/lysyi3m/intel-sync/app/intel"
)

var _ SyncRunnerInterface = (*Runner)(nil)

// Runner executes sync tasks one at a time; every task rewrites the same
// file.
type Runner struct {
	config      *feed.Config
	httpClient  *http.Client
	parser      *feed.Parser
	filterer    *feed.Filterer
	transformer *feed.Transformer
	store       *intel.Store
	runRepo     database.RunRepository
	userAgent   string
	mu          sync.Mutex
}

func NewRunner(config *feed.Config, httpClient *http.Client, store *intel.Store,
	runRepo database.RunRepository, userAgent string) *Runner {
	return &Runner{
		config:      config,
		httpClient:  httpClient,
		parser:      feed.NewParser(),
		filterer:    feed.NewFilterer(),
		transformer: feed.NewTransformer(),
		store:       store,
		runRepo:     runRepo,
		userAgent:   userAgent,
	}
}

func (r *Runner) Sync(ctx context.Context) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task := NewSyncTask(r.config, r.httpClient, r.parser, r.filterer, r.transformer, r.store, r.runRepo, r.userAgent)
	if err := r.executeTask(ctx, task); err != nil {
		return Result{}, err
	}
	return task.Result, nil
}

func (r *Runner) executeTask(ctx context.Context, task TaskInterface) error {
	slog.Debug("Task started", "type", string(task.GetType()), "id", task.GetID(), "profile", task.GetProfileName())

	if err := task.Execute(ctx); err != nil {
		slog.Error("Task execution failed",
			"type", string(task.GetType()),
			"id", task.GetID(),
			"profile", task.GetProfileName(),
			"duration", task.GetDuration(),
			"error", err)
		return err
	}

	return nil
}
