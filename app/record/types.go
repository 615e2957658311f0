package record

import (
	"encoding/json"
)

// Article statuses
const (
	StatusDraft     = "draft"
	StatusReview    = "review"
	StatusPublished = "published"
)

// User roles
const (
	RoleAdmin  = "admin"
	RoleAuthor = "author"
	RoleEditor = "editor"
	RoleReader = "reader"
)

// Article is a single newsroom article. Timestamps are RFC 3339 strings
// and PublishDate is a date-only string (YYYY-MM-DD); both are kept as
// text so that persisted records round-trip byte for byte.
//
// Fields not known to this struct survive in Extra and are written back
// verbatim on save, so articles imported from external tools do not
// lose data.
type Article struct {
	ID          int64  `yaml:"id"`
	Title       string `yaml:"title"`
	Category    string `yaml:"category"`
	Author      string `yaml:"author"`
	AuthorID    int64  `yaml:"authorId"`
	Status      string `yaml:"status"`
	Image       string `yaml:"image"`
	Summary     string `yaml:"summary"`
	Content     string `yaml:"content"`
	Views       int64  `yaml:"views"`
	Engagement  int64  `yaml:"engagement"`
	PublishDate string `yaml:"publishDate"`
	CreatedAt   string `yaml:"createdAt"`
	UpdatedAt   string `yaml:"updatedAt"`

	Extra map[string]json.RawMessage `yaml:"-"`
}

// User is a newsroom account. Users are read-only through the store;
// account management happens elsewhere.
type User struct {
	ID        int64  `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Email     string `json:"email" yaml:"email"`
	Role      string `json:"role" yaml:"role"`
	Avatar    string `json:"avatar" yaml:"avatar"`
	Bio       string `json:"bio" yaml:"bio"`
	Followers int64  `json:"followers" yaml:"followers"`
}

// Stats aggregates the article collection by status plus a few sums.
type Stats struct {
	TotalArticles   int   `json:"totalArticles"`
	Published       int   `json:"published"`
	Review          int   `json:"review"`
	Draft           int   `json:"draft"`
	TotalViews      int64 `json:"totalViews"`
	TotalEngagement int64 `json:"totalEngagement"`
	TotalAuthors    int   `json:"totalAuthors"`
}

// AuthorStats aggregates a single author's articles.
type AuthorStats struct {
	TotalArticles int   `json:"totalArticles"`
	Published     int   `json:"published"`
	TotalViews    int64 `json:"totalViews"`
	AvgEngagement int64 `json:"avgEngagement"`
}

// Snapshot is the export/import unit: full copies of both collections
// plus provenance metadata.
type Snapshot struct {
	Articles   []Article `json:"articles"`
	Users      []User    `json:"users"`
	ExportedAt string    `json:"exportedAt"`
	Version    string    `json:"version"`
}

func validStatus(status string) bool {
	switch status {
	case StatusDraft, StatusReview, StatusPublished:
		return true
	}
	return false
}

func validRole(role string) bool {
	switch role {
	case RoleAdmin, RoleAuthor, RoleEditor, RoleReader:
		return true
	}
	return false
}
