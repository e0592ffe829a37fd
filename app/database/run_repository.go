package database

import (
	"fmt"
	"time"
)

var _ RunRepository = (*runRepository)(nil)

type runRepository struct {
	db *DB
}

func NewRunRepository(db *DB) RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) InsertRun(run Run) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO sync_runs (task_id, profile, started_at, duration_ms, fetched, filtered, added, total, fetch_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.TaskID, run.Profile, run.StartedAt.UnixMilli(), run.Duration.Milliseconds(),
		run.Fetched, run.Filtered, run.Added, run.Total, run.FetchError)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	return id, nil
}

func (r *runRepository) GetRecentRuns(limit int) ([]Run, error) {
	rows, err := r.db.Query(`
		SELECT id, task_id, profile, started_at, duration_ms, fetched, filtered, added, total, fetch_error
		FROM sync_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedAt, durationMs int64
		err := rows.Scan(
			&run.ID, &run.TaskID, &run.Profile, &startedAt, &durationMs,
			&run.Fetched, &run.Filtered, &run.Added, &run.Total, &run.FetchError,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		run.StartedAt = time.UnixMilli(startedAt).UTC()
		run.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}

	return runs, nil
}

func (r *runRepository) GetRunCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM sync_runs").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get run count: %w", err)
	}
	return count, nil
}
