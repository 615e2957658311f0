package tasks

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/kolkata-chronicle/newsdesk/app/record"
)

type stubExporter struct {
	snap record.Snapshot
}

func (e *stubExporter) ExportData() record.Snapshot {
	return e.snap
}

func TestSnapshotTask_Execute(t *testing.T) {
	dir := t.TempDir()
	exporter := &stubExporter{snap: record.Snapshot{
		Articles: []record.Article{
			{ID: 1, Title: "Metro extension opens", Category: "City", Author: "Ananya Sen",
				AuthorID: 2, Status: record.StatusPublished, Summary: "s", Content: "c"},
		},
		Users: []record.User{
			{ID: 2, Name: "Ananya Sen", Email: "ananya@chronicle.in", Role: record.RoleAuthor},
		},
		Version: "test",
	}}

	task := NewSnapshotTask(exporter, dir)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "snapshot-*.json"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected 1 snapshot file, got %d", len(matches))
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var snap record.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if len(snap.Articles) != 1 || len(snap.Users) != 1 {
		t.Errorf("Expected 1 article and 1 user, got %d and %d", len(snap.Articles), len(snap.Users))
	}
	if snap.Articles[0].Title != "Metro extension opens" {
		t.Errorf("Expected article title to survive, got %q", snap.Articles[0].Title)
	}
}

func TestSnapshotTask_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	task := NewSnapshotTask(&stubExporter{}, t.TempDir())
	if err := task.Execute(ctx); err == nil {
		t.Error("Expected error for cancelled context")
	}
}

func TestSnapshotTask_CreatesBackupDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "backups")

	task := NewSnapshotTask(&stubExporter{}, dir)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("Expected backup directory to be created, got %v", err)
	}
}
