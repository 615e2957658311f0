package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// SnapshotTask writes a full export of the record store to the backup
// directory. Files are named by capture time, so repeated runs never
// overwrite each other.
type SnapshotTask struct {
	Task
	exporter  Exporter
	backupDir string
}

func NewSnapshotTask(exporter Exporter, backupDir string) *SnapshotTask {
	return &SnapshotTask{
		Task:      NewTask(TaskTypeSnapshot),
		exporter:  exporter,
		backupDir: backupDir,
	}
}

func (t *SnapshotTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := os.MkdirAll(t.backupDir, 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	snap := t.exporter.ExportData()
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	name := fmt.Sprintf("snapshot-%s.json", time.Now().UTC().Format("20060102-150405"))
	path := filepath.Join(t.backupDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	slog.Info("Task completed",
		"type", "Snapshot",
		"path", path,
		"articles", len(snap.Articles),
		"users", len(snap.Users),
		"duration", t.GetDuration())

	return nil
}
