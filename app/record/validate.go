package record

import (
	"fmt"
	"strings"
	"time"
)

// ValidateArticle is the single shape check applied on every mutating
// path (add, update, import). An article that fails it never reaches
// the collections.
func ValidateArticle(a *Article) error {
	switch {
	case strings.TrimSpace(a.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidRecord)
	case strings.TrimSpace(a.Category) == "":
		return fmt.Errorf("%w: category is required", ErrInvalidRecord)
	case strings.TrimSpace(a.Summary) == "":
		return fmt.Errorf("%w: summary is required", ErrInvalidRecord)
	case strings.TrimSpace(a.Content) == "":
		return fmt.Errorf("%w: content is required", ErrInvalidRecord)
	case strings.TrimSpace(a.Author) == "":
		return fmt.Errorf("%w: author is required", ErrInvalidRecord)
	}

	if !validStatus(a.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidRecord, a.Status)
	}
	if a.AuthorID <= 0 {
		return fmt.Errorf("%w: author id must be a positive integer", ErrInvalidRecord)
	}
	if a.Views < 0 {
		return fmt.Errorf("%w: views must not be negative", ErrInvalidRecord)
	}
	if a.Engagement < 0 {
		return fmt.Errorf("%w: engagement must not be negative", ErrInvalidRecord)
	}

	if a.PublishDate != "" {
		if _, err := time.Parse("2006-01-02", a.PublishDate); err != nil {
			return fmt.Errorf("%w: publish date must be YYYY-MM-DD", ErrInvalidRecord)
		}
	}

	return nil
}

// ValidateUser checks the user shape. Users only enter the store via
// the seed dataset or an import, so this gates imports.
func ValidateUser(u *User) error {
	if u.ID <= 0 {
		return fmt.Errorf("%w: user id must be a positive integer", ErrInvalidRecord)
	}
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRecord)
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidRecord)
	}
	if !validRole(u.Role) {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidRecord, u.Role)
	}
	if u.Followers < 0 {
		return fmt.Errorf("%w: followers must not be negative", ErrInvalidRecord)
	}
	return nil
}
