package database

type RunRepository interface {
	InsertRun(run Run) (int64, error)
	GetRecentRuns(limit int) ([]Run, error)
	GetRunCount() (int, error)
}
