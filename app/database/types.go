package database

import (
	"time"
)

type Run struct {
	ID         int64
	TaskID     string
	Profile    string
	StartedAt  time.Time
	Duration   time.Duration
	Fetched    int
	Filtered   int
	Added      int
	Total      int
	FetchError string // empty when the feed was fetched successfully
}
