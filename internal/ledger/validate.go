package ledger

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nissyi-gh/socialdebt/internal/model"
)

// Field limits.
const (
	MaxTitle       = 200
	MaxPerson      = 100
	MaxDescription = 1000
	MaxTag         = 50
	MaxTags        = 20
	MaxComment     = 500
	MaxComments    = 50
	MaxValue       = 999999
	MaxRating      = 5
)

// ValidationError reports user input that cannot be stored.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Draft is user input for creating or editing a favor.
type Draft struct {
	Title       string
	Person      string
	Description string
	Direction   string
	Value       *int
	DueDate     string
	Tags        []string
}

// sanitize trims every string, coerces the direction, and drops empty tags.
// Due dates that parse are normalized to DateLayout; others are kept as
// given. Length and range checks are left to validate.
func sanitize(d Draft) Draft {
	out := Draft{
		Title:       strings.TrimSpace(d.Title),
		Person:      strings.TrimSpace(d.Person),
		Description: strings.TrimSpace(d.Description),
		Direction:   string(model.ParseDirection(strings.TrimSpace(d.Direction))),
		DueDate:     strings.TrimSpace(d.DueDate),
	}
	if t, err := parseDate(out.DueDate); err == nil {
		out.DueDate = t.Format(model.DateLayout)
	}
	if d.Value != nil {
		v := *d.Value
		out.Value = &v
	}
	for _, tag := range d.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out.Tags = append(out.Tags, truncate(tag, MaxTag))
		}
	}
	return out
}

// validate checks a sanitized draft against the field limits.
func validate(d Draft) error {
	if d.Title == "" {
		return invalid("title", "Title and person are required")
	}
	if d.Person == "" {
		return invalid("person", "Title and person are required")
	}
	if utf8.RuneCountInString(d.Title) > MaxTitle {
		return invalid("title", "Title is too long (max %d characters)", MaxTitle)
	}
	if utf8.RuneCountInString(d.Person) > MaxPerson {
		return invalid("person", "Person name is too long (max %d characters)", MaxPerson)
	}
	if utf8.RuneCountInString(d.Description) > MaxDescription {
		return invalid("description", "Description is too long (max %d characters)", MaxDescription)
	}
	if d.Value != nil && (*d.Value < 0 || *d.Value > MaxValue) {
		return invalid("value", "Value must be between 0 and %d", MaxValue)
	}
	if len(d.Tags) > MaxTags {
		return invalid("tags", "Too many tags (max %d)", MaxTags)
	}
	return nil
}

// parseDate accepts a plain date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(model.DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func clampRating(n int) int {
	switch {
	case n < 0:
		return 0
	case n > MaxRating:
		return MaxRating
	}
	return n
}
