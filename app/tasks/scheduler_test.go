package tasks

import (
	"testing"

	"github.com/kolkata-chronicle/newsdesk/app/cfg"
)

func TestScheduler_DisabledWithoutInterval(t *testing.T) {
	cfg.Set(&cfg.Cfg{BackupDir: t.TempDir(), BackupInterval: 0, WorkerCount: 2})

	scheduler := NewScheduler(&stubExporter{})
	scheduler.Start()
	scheduler.Stop()
}

func TestScheduler_EnqueueTask(t *testing.T) {
	cfg.Set(&cfg.Cfg{BackupDir: t.TempDir(), BackupInterval: 60, WorkerCount: 1})

	scheduler := NewScheduler(&stubExporter{})

	task := NewPruneTask(t.TempDir())
	if err := scheduler.EnqueueTask(task); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	scheduler.Stop()
}
