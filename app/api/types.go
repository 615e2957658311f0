package api

import (
	"github.com/kolkata-chronicle/newsdesk/app/record"
	"github.com/kolkata-chronicle/newsdesk/app/storage"
)

type Handler struct {
	store   *record.RecordStore
	storage storage.Store
}

// statusUpdateRequest is the body of PATCH /api/articles/:id/status.
type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// resetRequest guards the destructive reset endpoint; the front end
// asks the user for confirmation before sending confirm=true.
type resetRequest struct {
	Confirm bool `json:"confirm"`
}
