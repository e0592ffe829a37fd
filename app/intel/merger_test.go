package intel

import (
	"slices"
	"testing"
)

func ids(records []Record) []string {
	result := make([]string, len(records))
	for i, r := range records {
		result[i] = r.ID
	}
	return result
}

func TestMerge(t *testing.T) {
	existing := []Record{
		{ID: "steam-old", Title: "Old"},
		{ID: "season-1", Title: "Curated"},
		{ID: "steam-x", Title: "Original X"},
	}
	candidates := []Record{
		{ID: "steam-x", Title: "Updated X"},
		{ID: "steam-new", Title: "New"},
	}

	result := Merge(existing, candidates, "steam-")

	expected := []string{"season-1", "steam-new", "steam-old", "steam-x"}
	if got := ids(result.Records); !slices.Equal(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
	if result.Curated != 1 {
		t.Errorf("Expected 1 curated record, got %d", result.Curated)
	}
	if result.Fetched != 2 {
		t.Errorf("Expected 2 fetched records, got %d", result.Fetched)
	}
	if len(result.New) != 1 || result.New[0].ID != "steam-new" {
		t.Errorf("Expected only steam-new to be added, got %v", ids(result.New))
	}
	if result.Records[3].Title != "Original X" {
		t.Errorf("Expected existing record to win, got '%s'", result.Records[3].Title)
	}
}

func TestMergeCuratedCollision(t *testing.T) {
	// A curated record never blocks a candidate, even with the same id.
	existing := []Record{{ID: "patch-notes", Title: "Curated"}}
	candidates := []Record{{ID: "patch-notes", Title: "Fetched"}}

	result := Merge(existing, candidates, "steam-")

	if len(result.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(result.Records))
	}
	if result.Records[0].Title != "Curated" {
		t.Errorf("Expected curated record first, got '%s'", result.Records[0].Title)
	}
}

func TestMergeDuplicateCandidates(t *testing.T) {
	candidates := []Record{
		{ID: "steam-a", Title: "First"},
		{ID: "steam-a", Title: "Second"},
		{ID: "steam-b"},
	}

	result := Merge(nil, candidates, "steam-")

	if got := ids(result.Records); !slices.Equal(got, []string{"steam-a", "steam-b"}) {
		t.Errorf("Expected duplicates in one batch to collapse, got %v", got)
	}
	if result.Records[0].Title != "First" {
		t.Errorf("Expected first occurrence to win, got '%s'", result.Records[0].Title)
	}
}

func TestMergeEmpty(t *testing.T) {
	result := Merge(nil, nil, "steam-")

	if len(result.Records) != 0 || len(result.New) != 0 {
		t.Errorf("Expected empty result, got %+v", result)
	}
}

func TestSort(t *testing.T) {
	records := []Record{
		{ID: "null-a"},
		{ID: "old", StartDate: strPtr("2023-01-01")},
		{ID: "bad", StartDate: strPtr("soon")},
		{ID: "new", StartDate: strPtr("2024-06-01")},
		{ID: "null-b"},
		{ID: "mid-a", StartDate: strPtr("2023-06-01")},
		{ID: "timestamp", StartDate: strPtr("2024-01-01T12:00:00Z")},
		{ID: "mid-b", StartDate: strPtr("2023-06-01")},
	}

	Sort(records)

	expected := []string{"new", "timestamp", "mid-a", "mid-b", "old", "null-a", "bad", "null-b"}
	if got := ids(records); !slices.Equal(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestSortIsIdempotent(t *testing.T) {
	records := []Record{
		{ID: "a", StartDate: strPtr("2024-01-01")},
		{ID: "b", StartDate: strPtr("2024-01-01")},
		{ID: "c"},
		{ID: "d", StartDate: strPtr("2025-01-01")},
	}

	Sort(records)
	first := ids(records)
	Sort(records)

	if got := ids(records); !slices.Equal(got, first) {
		t.Errorf("Expected second sort to keep order %v, got %v", first, got)
	}
}
