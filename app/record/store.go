package record

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"

	"github.com/kolkata-chronicle/newsdesk/app/storage"
)

// Storage keys are part of the on-disk contract; renaming them orphans
// previously persisted data.
const (
	ArticlesKey = "chronicle:articles"
	UsersKey    = "chronicle:users"
)

// updatableFields is the allow-list for UpdateArticle. Everything else
// in an update payload is dropped; id, author, authorId and createdAt
// can never be altered through that path.
var updatableFields = map[string]struct{}{
	"title":       {},
	"category":    {},
	"image":       {},
	"summary":     {},
	"content":     {},
	"status":      {},
	"views":       {},
	"engagement":  {},
	"publishDate": {},
}

type Options struct {
	// StrictRefs rejects articles whose AuthorID does not reference a
	// known user. Off by default: the original dataset tolerates
	// dangling references.
	StrictRefs bool
	Version    string
}

// RecordStore owns the article and user collections. Both live in
// memory and are mirrored to the persistent byte store on every
// mutation; a mutation either lands in both places or in neither.
type RecordStore struct {
	storage    storage.Store
	strictRefs bool
	version    string

	mu       sync.RWMutex
	articles []Article
	users    []User
}

func NewRecordStore(st storage.Store, opts Options) *RecordStore {
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	return &RecordStore{
		storage:    st,
		strictRefs: opts.StrictRefs,
		version:    version,
	}
}

// Initialize loads both collections from storage, falling back to the
// bundled seed dataset per collection when a key is absent or
// unreadable, or wholesale when storage itself fails.
func (s *RecordStore) Initialize() error {
	seedArticles, seedUsers, err := loadSeed()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	articles, aErr := loadCollection[Article](s.storage, ArticlesKey)
	users, uErr := loadCollection[User](s.storage, UsersKey)

	if aErr != nil || uErr != nil {
		slog.Error("Storage unreadable, resetting to seed dataset",
			"articles_error", aErr, "users_error", uErr)
		articles, users = seedArticles, seedUsers
	} else {
		if articles == nil {
			slog.Info("No stored articles, using seed dataset", "count", len(seedArticles))
			articles = seedArticles
		}
		if users == nil {
			slog.Info("No stored users, using seed dataset", "count", len(seedUsers))
			users = seedUsers
		}
	}

	s.articles = articles
	s.users = users

	// Write the resolved state back so a first run leaves a persisted
	// copy behind. The store still works from memory if this fails.
	if err := s.persistLocked(); err != nil {
		slog.Warn("Failed to persist initial state", "error", err)
	}

	slog.Info("Record store initialized", "articles", len(s.articles), "users", len(s.users))
	return nil
}

// loadCollection reads one collection key. A missing key or a payload
// that does not decode to a sequence comes back as nil (caller falls
// back to seed data); only storage-level failures are errors.
func loadCollection[T any](st storage.Store, key string) ([]T, error) {
	data, ok, err := st.Get(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		slog.Warn("Stored data is not parseable, falling back to seed dataset",
			"key", key, "error", err)
		return nil, nil
	}

	return records, nil
}

// Read operations. All of them return independent copies; internal
// slices are never handed out.

func (s *RecordStore) GetArticles() []Article {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Article, len(s.articles))
	for i := range s.articles {
		out[i] = s.articles[i].clone()
	}
	return out
}

func (s *RecordStore) GetArticleByID(id int64) (*Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.articleIndexLocked(id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	cp := s.articles[idx].clone()
	return &cp, nil
}

func (s *RecordStore) GetArticlesByAuthor(authorID int64) []Article {
	out := []Article{}
	if authorID <= 0 {
		return out
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.articles {
		if s.articles[i].AuthorID == authorID {
			out = append(out, s.articles[i].clone())
		}
	}
	return out
}

func (s *RecordStore) GetArticlesByStatus(status string) []Article {
	out := []Article{}
	if !validStatus(status) {
		return out
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.articles {
		if s.articles[i].Status == status {
			out = append(out, s.articles[i].clone())
		}
	}
	return out
}

func (s *RecordStore) GetUsers() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *RecordStore) GetUserByID(id int64) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.users {
		if s.users[i].ID == id {
			cp := s.users[i]
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// GetUserByEmail looks a user up by email, case-insensitively. Unicode
// case folding is used rather than plain lowering so addresses survive
// locale-specific casing.
func (s *RecordStore) GetUserByEmail(email string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email must not be empty", ErrInvalidRecord)
	}

	folded := cases.Fold().String(email)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.users {
		if cases.Fold().String(strings.TrimSpace(s.users[i].Email)) == folded {
			cp := s.users[i]
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// AddArticle validates the supplied article, assigns it a fresh id and
// creation timestamp, appends it and persists. The stored copy is
// returned.
func (s *RecordStore) AddArticle(input Article) (*Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := input.clone()
	if err := ValidateArticle(&candidate); err != nil {
		return nil, err
	}
	if s.strictRefs && !s.userExistsLocked(candidate.AuthorID) {
		return nil, fmt.Errorf("%w: author %d is not a known user", ErrInvalidRecord, candidate.AuthorID)
	}

	// Id and creation timestamp are always system-assigned, whatever
	// the caller sent.
	candidate.ID = s.nextIDLocked()
	candidate.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	candidate.UpdatedAt = ""

	s.articles = append(s.articles, candidate)
	err := s.commitLocked("add_article", func() {
		s.articles = s.articles[:len(s.articles)-1]
	})
	if err != nil {
		return nil, err
	}

	created := candidate.clone()
	return &created, nil
}

// UpdateArticle applies a partial update. Fields outside the allow-list
// are dropped silently; the result must still pass the shape check.
func (s *RecordStore) UpdateArticle(id int64, updates map[string]json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.articleIndexLocked(id)
	if idx < 0 {
		return ErrNotFound
	}

	sanitized := make(map[string]json.RawMessage, len(updates))
	for key, value := range updates {
		if _, ok := updatableFields[key]; ok {
			sanitized[key] = value
		}
	}

	snapshot := s.articles[idx]
	updated, err := applyUpdates(snapshot, sanitized)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRecord, err)
	}
	updated.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := ValidateArticle(&updated); err != nil {
		return err
	}

	s.articles[idx] = updated
	return s.commitLocked("update_article", func() {
		s.articles[idx] = snapshot
	})
}

// UpdateArticleStatus moves an article between draft, review and
// published. The first transition to published stamps the publish date
// with the current date; a repeat transition leaves it alone.
func (s *RecordStore) UpdateArticleStatus(id int64, status string) error {
	if !validStatus(status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidRecord, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.articleIndexLocked(id)
	if idx < 0 {
		return ErrNotFound
	}

	snapshot := s.articles[idx]
	article := snapshot.clone()
	article.Status = status
	if status == StatusPublished && article.PublishDate == "" {
		article.PublishDate = time.Now().Format("2006-01-02")
	}

	s.articles[idx] = article
	// Rolling back the full snapshot also reverts a publish date set
	// just above, keeping the record internally consistent.
	return s.commitLocked("update_article_status", func() {
		s.articles[idx] = snapshot
	})
}

// DeleteArticle removes an article, preserving the order of the rest.
func (s *RecordStore) DeleteArticle(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.articleIndexLocked(id)
	if idx < 0 {
		return ErrNotFound
	}

	removed := s.articles[idx]
	remaining := make([]Article, 0, len(s.articles)-1)
	remaining = append(remaining, s.articles[:idx]...)
	remaining = append(remaining, s.articles[idx+1:]...)
	s.articles = remaining

	return s.commitLocked("delete_article", func() {
		restored := make([]Article, 0, len(s.articles)+1)
		restored = append(restored, s.articles[:idx]...)
		restored = append(restored, removed)
		restored = append(restored, s.articles[idx:]...)
		s.articles = restored
	})
}

// GetStats aggregates the whole store: per-status counts, view and
// engagement sums, and the number of users holding the author role.
func (s *RecordStore) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats Stats
	stats.TotalArticles = len(s.articles)
	for i := range s.articles {
		switch s.articles[i].Status {
		case StatusPublished:
			stats.Published++
		case StatusReview:
			stats.Review++
		case StatusDraft:
			stats.Draft++
		}
		stats.TotalViews += s.articles[i].Views
		stats.TotalEngagement += s.articles[i].Engagement
	}
	for i := range s.users {
		if s.users[i].Role == RoleAuthor {
			stats.TotalAuthors++
		}
	}
	return stats
}

// GetAuthorStats aggregates one author's articles. An unknown or
// invalid author id yields the zero result, never an error.
func (s *RecordStore) GetAuthorStats(authorID int64) AuthorStats {
	var stats AuthorStats
	if authorID <= 0 {
		return stats
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var engagement int64
	for i := range s.articles {
		if s.articles[i].AuthorID != authorID {
			continue
		}
		stats.TotalArticles++
		if s.articles[i].Status == StatusPublished {
			stats.Published++
		}
		stats.TotalViews += s.articles[i].Views
		engagement += s.articles[i].Engagement
	}

	if stats.TotalArticles > 0 {
		stats.AvgEngagement = int64(math.Round(float64(engagement) / float64(stats.TotalArticles)))
	}
	return stats
}

// ExportData snapshots the current in-memory collections.
func (s *RecordStore) ExportData() Snapshot {
	return Snapshot{
		Articles:   s.GetArticles(),
		Users:      s.GetUsers(),
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Version:    s.version,
	}
}

// ImportData replaces both collections wholesale. Every record is
// validated up front; a single invalid record aborts the import with
// no effect at all.
func (s *RecordStore) ImportData(snap Snapshot) error {
	if snap.Articles == nil || snap.Users == nil {
		return fmt.Errorf("%w: import requires both articles and users", ErrInvalidRecord)
	}

	for i := range snap.Articles {
		if err := ValidateArticle(&snap.Articles[i]); err != nil {
			return fmt.Errorf("import article %d: %w", i, err)
		}
	}
	for i := range snap.Users {
		if err := ValidateUser(&snap.Users[i]); err != nil {
			return fmt.Errorf("import user %d: %w", i, err)
		}
	}
	if s.strictRefs {
		known := make(map[int64]struct{}, len(snap.Users))
		for i := range snap.Users {
			known[snap.Users[i].ID] = struct{}{}
		}
		for i := range snap.Articles {
			if _, ok := known[snap.Articles[i].AuthorID]; !ok {
				return fmt.Errorf("%w: import article %d references unknown author %d",
					ErrInvalidRecord, i, snap.Articles[i].AuthorID)
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prevArticles, prevUsers := s.articles, s.users

	articles := make([]Article, len(snap.Articles))
	for i := range snap.Articles {
		articles[i] = snap.Articles[i].clone()
	}
	users := make([]User, len(snap.Users))
	copy(users, snap.Users)

	s.articles = articles
	s.users = users

	return s.commitLocked("import_data", func() {
		s.articles, s.users = prevArticles, prevUsers
	})
}

// ClearAllData erases the persisted keys, resets both collections to
// the seed dataset and persists the reset state.
func (s *RecordStore) ClearAllData() error {
	seedArticles, seedUsers, err := loadSeed()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(ArticlesKey); err != nil {
		return fmt.Errorf("failed to clear articles: %w", err)
	}
	if err := s.storage.Delete(UsersKey); err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}

	prevArticles, prevUsers := s.articles, s.users
	s.articles = seedArticles
	s.users = seedUsers

	return s.commitLocked("clear_all_data", func() {
		s.articles, s.users = prevArticles, prevUsers
	})
}

// commitLocked is the shared tail of every mutation: persist the
// current in-memory state, and undo the mutation when the persist
// fails. Callers hold the write lock.
func (s *RecordStore) commitLocked(op string, rollback func()) error {
	if err := s.persistLocked(); err != nil {
		rollback()
		slog.Error("Persist failed, mutation rolled back", "operation", op, "error", err)
		return err
	}
	return nil
}

func (s *RecordStore) persistLocked() error {
	articles := s.articles
	if articles == nil {
		articles = []Article{}
	}
	users := s.users
	if users == nil {
		users = []User{}
	}

	articlesJSON, err := json.Marshal(articles)
	if err != nil {
		return fmt.Errorf("failed to encode articles: %w", err)
	}
	usersJSON, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}

	prevArticles, hadArticles, _ := s.storage.Get(ArticlesKey)

	if err := s.storage.Set(ArticlesKey, articlesJSON); err != nil {
		return fmt.Errorf("failed to persist articles: %w", err)
	}
	if err := s.storage.Set(UsersKey, usersJSON); err != nil {
		// Best effort: put the previous article payload back so the
		// two keys stay consistent with each other.
		if hadArticles {
			if restoreErr := s.storage.Set(ArticlesKey, prevArticles); restoreErr != nil {
				slog.Error("Failed to restore articles after partial persist", "error", restoreErr)
			}
		}
		return fmt.Errorf("failed to persist users: %w", err)
	}

	return nil
}

func (s *RecordStore) articleIndexLocked(id int64) int {
	for i := range s.articles {
		if s.articles[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *RecordStore) userExistsLocked(id int64) bool {
	for i := range s.users {
		if s.users[i].ID == id {
			return true
		}
	}
	return false
}

// nextIDLocked generates an id from the current time in milliseconds
// scaled by a small random component. Collisions are resolved by
// linear probing; write rates here are far too low for that to loop.
func (s *RecordStore) nextIDLocked() int64 {
	id := time.Now().UnixMilli()*1000 + rand.Int63n(1000)
	for s.articleIndexLocked(id) >= 0 {
		id++
	}
	return id
}

// applyUpdates merges sanitized raw JSON fields onto a copy of the
// article by round-tripping through its JSON form, so update payloads
// get exactly the same decoding rules as persisted data.
func applyUpdates(a Article, updates map[string]json.RawMessage) (Article, error) {
	if len(updates) == 0 {
		return a.clone(), nil
	}

	raw, err := json.Marshal(a)
	if err != nil {
		return a, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(raw, &merged); err != nil {
		return a, err
	}
	for key, value := range updates {
		merged[key] = value
	}
	combined, err := json.Marshal(merged)
	if err != nil {
		return a, err
	}

	var out Article
	if err := json.Unmarshal(combined, &out); err != nil {
		return a, err
	}
	return out, nil
}
