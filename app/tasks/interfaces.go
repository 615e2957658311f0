package tasks

import (
	"github.com/kolkata-chronicle/newsdesk/app/record"
)

// Exporter is the slice of the record store the backup tasks need.
type Exporter interface {
	ExportData() record.Snapshot
}

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to manage background snapshot processing.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
