package intel

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func strPtr(s string) *string {
	return &s
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "intel-data.json"))

	records, err := store.Load()
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected ErrNotExist, got: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}

func TestStoreLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intel-data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := NewStore(path).Load()
	if err == nil {
		t.Fatal("Expected parse error")
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}

func TestStoreSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intel-data.json")
	store := NewStore(path)

	records := []Record{{
		ID:           "steam-patch-notes",
		Title:        "Patch <Notes> & Fixes",
		Status:       StatusConfirmed,
		StartDate:    strPtr("2024-05-01"),
		Teaser:       "t",
		Summary:      "s",
		HowItWorks:   []string{"a"},
		Rewards:      []string{"b"},
		RaiderImpact: []string{"c"},
		Sources:      []Source{{Label: "Steam News", URL: "https://example.com"}},
		LastUpdated:  "2024-05-01",
	}}

	if err := store.Save(records); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.HasPrefix(data, []byte("[\n  {\n    \"id\": \"steam-patch-notes\",")) {
		t.Errorf("Expected two-space indented output with id first, got:\n%s", data)
	}
	if !bytes.Contains(data, []byte(`"title": "Patch <Notes> & Fixes"`)) {
		t.Errorf("Expected HTML characters to be written unescaped, got:\n%s", data)
	}
	if !bytes.Contains(data, []byte(`"endDate": null`)) {
		t.Errorf("Expected null endDate, got:\n%s", data)
	}
	if bytes.HasSuffix(data, []byte("\n")) {
		t.Error("Expected no trailing newline")
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(loaded))
	}
	if loaded[0].ID != "steam-patch-notes" || *loaded[0].StartDate != "2024-05-01" {
		t.Errorf("Unexpected record: %+v", loaded[0])
	}

	// Saving what was loaded reproduces the file.
	if err := store.Save(loaded); err != nil {
		t.Fatal(err)
	}
	again, _ := os.ReadFile(path)
	if !bytes.Equal(data, again) {
		t.Errorf("Expected identical output on resave:\n%s\n---\n%s", data, again)
	}

	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".intel-tmp-*"))
	if len(leftovers) != 0 {
		t.Errorf("Expected no temp files left behind, got %v", leftovers)
	}
}

func TestStoreSaveEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intel-data.json")

	if err := NewStore(path).Save(nil); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "[]" {
		t.Errorf("Expected '[]', got %q", data)
	}
}

func TestStoreSaveFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "intel-data.json")

	err := NewStore(path).Save([]Record{{ID: "x"}})
	if err == nil {
		t.Error("Expected error writing into a missing directory")
	}
}

func TestRecordPreservesUnknownFields(t *testing.T) {
	input := `[
  {
    "id": "season-1",
    "title": "Season One",
    "status": "rumored",
    "startDate": "2025-01-10",
    "endDate": "2025-03-01",
    "customField": {
      "nested": [
        1,
        2,
        3
      ]
    },
    "rewards": "a single string, not a list",
    "teaser": "Hand written <b>teaser</b>"
  }
]`

	path := filepath.Join(t.TempDir(), "intel-data.json")
	if err := os.WriteFile(path, []byte(input), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(path)
	records, err := store.Load()
	if err != nil {
		t.Fatalf("Expected lenient decoding, got: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].ID != "season-1" {
		t.Errorf("Expected id 'season-1', got '%s'", records[0].ID)
	}
	if records[0].StartDate == nil || *records[0].StartDate != "2025-01-10" {
		t.Errorf("Expected start date to be decoded, got %v", records[0].StartDate)
	}

	if err := store.Save(records); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	for _, fragment := range []string{
		`"customField": {`,
		`"rewards": "a single string, not a list"`,
		`"status": "rumored"`,
		`"teaser": "Hand written <b>teaser</b>"`,
	} {
		if !strings.Contains(string(data), fragment) {
			t.Errorf("Expected output to contain %s, got:\n%s", fragment, data)
		}
	}
	if string(data) != input {
		t.Errorf("Expected curated record to round-trip unchanged, got:\n%s", data)
	}
}

func TestRecordIsFetched(t *testing.T) {
	if !(Record{ID: "steam-x"}).IsFetched("steam-") {
		t.Error("Expected steam- prefixed record to be fetched")
	}
	if (Record{ID: "season-1"}).IsFetched("steam-") {
		t.Error("Expected unprefixed record to be curated")
	}
	if (Record{}).IsFetched("steam-") {
		t.Error("Expected record without id to be curated")
	}
}
