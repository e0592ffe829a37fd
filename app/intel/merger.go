package intel

import (
	"slices"
	"time"
)

type MergeResult struct {
	Records []Record
	Curated int
	Fetched int
	New     []Record
}

// Merge combines the records already on disk with freshly transformed
// candidates. Curated records (no idPrefix) and previously fetched records
// are kept untouched; a candidate is added only when no fetched record, old
// or new, already carries its id. The result is curated, then new, then
// previously fetched.
func Merge(existing, candidates []Record, idPrefix string) MergeResult {
	var curated, fetched []Record
	for _, r := range existing {
		if r.IsFetched(idPrefix) {
			fetched = append(fetched, r)
		} else {
			curated = append(curated, r)
		}
	}

	seen := make(map[string]struct{}, len(fetched)+len(candidates))
	for _, r := range fetched {
		seen[r.ID] = struct{}{}
	}

	var added []Record
	for _, r := range candidates {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		added = append(added, r)
	}

	records := make([]Record, 0, len(curated)+len(added)+len(fetched))
	records = append(records, curated...)
	records = append(records, added...)
	records = append(records, fetched...)

	return MergeResult{
		Records: records,
		Curated: len(curated),
		Fetched: len(fetched),
		New:     added,
	}
}

// Sort orders records newest first by startDate. Missing or unreadable dates
// count as the Unix epoch; equal dates keep their relative order.
func Sort(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		ta, _ := startTime(a)
		tb, _ := startTime(b)
		return tb.Compare(ta)
	})
}

// startTime reports false when the record has no readable start date; the
// returned time is then the Unix epoch.
func startTime(r Record) (time.Time, bool) {
	if r.StartDate != nil {
		for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
			if t, err := time.Parse(layout, *r.StartDate); err == nil {
				return t, true
			}
		}
	}
	return time.Unix(0, 0).UTC(), false
}
