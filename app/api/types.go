package api

import (
	"github.com/lysyi3m/intel-sync/app/database"
	"github.com/lysyi3m/intel-sync/app/feed"
	"github.com/lysyi3m/intel-sync/app/intel"
	"github.com/lysyi3m/intel-sync/app/tasks"
)

type Handler struct {
	config    *feed.Config
	store     *intel.Store
	runRepo   database.RunRepository // nil when run history is disabled
	runner    tasks.SyncRunnerInterface
	generator *intel.Generator
	version   string
}

type runResponse struct {
	ID         int64  `json:"id"`
	TaskID     string `json:"task_id"`
	Profile    string `json:"profile"`
	StartedAt  string `json:"started_at"`
	Duration   string `json:"duration"`
	Fetched    int    `json:"fetched"`
	Filtered   int    `json:"filtered"`
	New        int    `json:"new"`
	Total      int    `json:"total"`
	FetchError string `json:"fetch_error,omitempty"`
}
