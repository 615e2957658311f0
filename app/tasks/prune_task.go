package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// MaxBackups is how many snapshot files the prune task keeps.
const MaxBackups = 10

// PruneTask removes the oldest snapshot files once the backup
// directory holds more than MaxBackups of them.
type PruneTask struct {
	Task
	backupDir string
}

func NewPruneTask(backupDir string) *PruneTask {
	return &PruneTask{
		Task:      NewTask(TaskTypePrune),
		backupDir: backupDir,
	}
}

func (t *PruneTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	matches, err := filepath.Glob(filepath.Join(t.backupDir, "snapshot-*.json"))
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}
	if len(matches) <= MaxBackups {
		return nil
	}

	// Timestamped names sort chronologically
	sort.Strings(matches)

	removed := 0
	for _, path := range matches[:len(matches)-MaxBackups] {
		if err := os.Remove(path); err != nil {
			slog.Warn("Failed to remove old snapshot", "path", path, "error", err)
			continue
		}
		removed++
	}

	slog.Info("Task completed",
		"type", "Prune",
		"removed", removed,
		"kept", MaxBackups,
		"duration", t.GetDuration())

	return nil
}
