package runlog

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenAt(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndListRecent(t *testing.T) {
	store := openTestStore(t)

	records := []*Record{
		{Command: "generate", Template: "a.json.template", Output: "a.json", Status: "success", DurationMs: 12},
		{Command: "reverse", Template: "a.json.template", Output: "a.toml", Status: "success", DurationMs: 40},
		{Command: "generate", Template: "b.json.template", Status: "error", ErrorMessage: "no binding files"},
	}
	for i, r := range records {
		r.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Second)
		if err := store.Save(r); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if r.ID == 0 {
			t.Error("Save did not assign an ID")
		}
	}

	got, err := store.ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListRecent returned %d records, want 3", len(got))
	}
	// Newest first.
	if got[0].Command != "generate" || got[0].Status != "error" {
		t.Errorf("newest record = %+v", got[0])
	}
	if got[0].ErrorMessage != "no binding files" {
		t.Errorf("ErrorMessage = %q", got[0].ErrorMessage)
	}
	if got[2].Output != "a.json" {
		t.Errorf("oldest record output = %q", got[2].Output)
	}
}

func TestListRecentLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		r := &Record{Command: "generate", Status: "success",
			CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Second)}
		if err := store.Save(r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := store.ListRecent(2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ListRecent(2) returned %d records", len(got))
	}
}

func TestDeleteOlderThan(t *testing.T) {
	store := openTestStore(t)

	old := &Record{Command: "generate", Status: "success",
		CreatedAt: time.Now().UTC().Add(-48 * time.Hour)}
	recent := &Record{Command: "reverse", Status: "success",
		CreatedAt: time.Now().UTC()}
	for _, r := range []*Record{old, recent} {
		if err := store.Save(r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	removed, err := store.DeleteOlderThan(24 * time.Hour)
	if err != nil {
		t.Fatalf("DeleteOlderThan: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	got, err := store.ListRecent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Command != "reverse" {
		t.Errorf("surviving records = %+v", got)
	}
}

func TestPathOverride(t *testing.T) {
	SetPath("/tmp/test-runs.db")
	defer ResetPath()

	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	if got != "/tmp/test-runs.db" {
		t.Errorf("DefaultPath = %q, want the override", got)
	}
}
