// Package ledger holds the in-memory favor list and every operation that
// mutates it. Each successful mutation is persisted immediately and
// announced to subscribers.
package ledger

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/nissyi-gh/socialdebt/internal/model"
)

// Store persists the full favor list.
type Store interface {
	LoadFavors() ([]model.Favor, error)
	SaveFavors([]model.Favor) error
}

// Recorder appends errors to the diagnostic log.
type Recorder interface {
	Record(err error, context string)
}

// Repository manages the favor list.
type Repository struct {
	mu     sync.Mutex
	favors []model.Favor
	lastID int64

	store Store
	rec   Recorder
	now   func() time.Time
	subs  subscribers
}

// New loads the persisted favors into a repository.
func New(store Store, rec Recorder) (*Repository, error) {
	favors, err := store.LoadFavors()
	if err != nil {
		return nil, fmt.Errorf("load favors: %w", err)
	}
	r := &Repository{favors: favors, store: store, rec: rec, now: time.Now}
	for _, f := range favors {
		if f.ID > r.lastID {
			r.lastID = f.ID
		}
	}
	return r, nil
}

// Favors returns a copy of every favor in insertion order.
func (r *Repository) Favors() []model.Favor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Favor, len(r.favors))
	for i, f := range r.favors {
		out[i] = f.Clone()
	}
	return out
}

// Favor returns the favor with the given id.
func (r *Repository) Favor(id int64) (model.Favor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexOf(id); i >= 0 {
		return r.favors[i].Clone(), true
	}
	return model.Favor{}, false
}

// AddOption overrides a default of a newly added favor.
type AddOption func(*model.Favor)

// WithStatus sets the initial status instead of pending.
func WithStatus(s model.Status) AddOption {
	return func(f *model.Favor) { f.Status = model.ParseStatus(string(s)) }
}

// WithRating sets the initial rating, clamped to 0..5.
func WithRating(n int) AddOption {
	return func(f *model.Favor) { f.Rating = clampRating(n) }
}

// WithCreatedAt sets the creation date. A zero time is ignored.
func WithCreatedAt(t time.Time) AddOption {
	return func(f *model.Favor) {
		if !t.IsZero() {
			f.Date = t
		}
	}
}

// Add validates d and appends a new pending favor.
func (r *Repository) Add(d Draft, opts ...AddOption) (model.Favor, error) {
	d = sanitize(d)
	if err := validate(d); err != nil {
		return model.Favor{}, err
	}

	r.mu.Lock()
	now := r.now()
	f := model.Favor{
		ID:        r.nextID(now),
		Status:    model.Pending,
		Comments:  []model.Comment{},
		Rating:    0,
		Date:      now.UTC(),
		Direction: model.Owe,
	}
	apply(&f, d)
	for _, opt := range opts {
		opt(&f)
	}
	r.favors = append(r.favors, f)
	err := r.persist("Add favor")
	r.mu.Unlock()

	slog.Debug("favor added", "id", f.ID, "person", f.Person)
	r.emit(Event{Kind: Added, ID: f.ID})
	return f.Clone(), err
}

// Edit validates d and merges it over the favor with the given id. Status,
// rating, comments and creation date are kept. found is false when no
// favor has that id.
func (r *Repository) Edit(id int64, d Draft) (found bool, err error) {
	return r.mutate(id, Edited, "Edit favor", func(f *model.Favor) error {
		d = sanitize(d)
		if err := validate(d); err != nil {
			return err
		}
		apply(f, d)
		return nil
	})
}

// Delete removes the favor with the given id.
func (r *Repository) Delete(id int64) (found bool, err error) {
	r.mu.Lock()
	i := r.indexOf(id)
	if i < 0 {
		r.mu.Unlock()
		return false, nil
	}
	r.favors = append(r.favors[:i], r.favors[i+1:]...)
	err = r.persist("Delete favor")
	r.mu.Unlock()

	r.emit(Event{Kind: Deleted, ID: id})
	return true, err
}

// ToggleStatus flips the favor between pending and completed.
func (r *Repository) ToggleStatus(id int64) (found bool, err error) {
	return r.mutate(id, StatusToggled, "Toggle status", func(f *model.Favor) error {
		f.Status = f.Status.Toggle()
		return nil
	})
}

// SetRating overwrites the rating, clamped to 0..5.
func (r *Repository) SetRating(id int64, rating int) (found bool, err error) {
	return r.mutate(id, Rated, "Set rating", func(f *model.Favor) error {
		f.Rating = clampRating(rating)
		return nil
	})
}

// AddComment appends a comment. Empty text and favors that already hold
// MaxComments comments are rejected with a *ValidationError.
func (r *Repository) AddComment(id int64, text string) (found bool, err error) {
	return r.mutate(id, Commented, "Add comment", func(f *model.Favor) error {
		text = truncate(strings.TrimSpace(text), MaxComment)
		if text == "" {
			return invalid("comment", "Comment cannot be empty")
		}
		if len(f.Comments) >= MaxComments {
			return invalid("comment", "Maximum comments reached (%d)", MaxComments)
		}
		f.Comments = append(f.Comments, model.Comment{Text: text, Date: r.now().UTC()})
		return nil
	})
}

// MarkReminded records that the due-date reminder was shown.
func (r *Repository) MarkReminded(id int64) (found bool, err error) {
	return r.mutate(id, Reminded, "Reminder", func(f *model.Favor) error {
		f.ReminderShown = true
		return nil
	})
}

// Reset drops every favor.
func (r *Repository) Reset() error {
	r.mu.Lock()
	r.favors = []model.Favor{}
	err := r.persist("Clear favors")
	r.mu.Unlock()

	r.emit(Event{Kind: Reset})
	return err
}

// mutate runs fn on the favor with the given id. An error from fn leaves
// the favor untouched and nothing is persisted.
func (r *Repository) mutate(id int64, kind EventKind, context string, fn func(*model.Favor) error) (bool, error) {
	r.mu.Lock()
	i := r.indexOf(id)
	if i < 0 {
		r.mu.Unlock()
		return false, nil
	}
	f := r.favors[i].Clone()
	if err := fn(&f); err != nil {
		r.mu.Unlock()
		return true, err
	}
	r.favors[i] = f
	err := r.persist(context)
	r.mu.Unlock()

	r.emit(Event{Kind: kind, ID: id})
	return true, err
}

// persist writes the full list. The in-memory state is kept on failure.
// Callers must hold r.mu.
func (r *Repository) persist(context string) error {
	if err := r.store.SaveFavors(r.favors); err != nil {
		if r.rec != nil {
			r.rec.Record(err, context)
		}
		return fmt.Errorf("save favors: %w", err)
	}
	return nil
}

func (r *Repository) indexOf(id int64) int {
	for i := range r.favors {
		if r.favors[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID returns the creation time in milliseconds, bumped past the
// largest id handed out so far.
func (r *Repository) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return id
}

func apply(f *model.Favor, d Draft) {
	f.Title = d.Title
	f.Person = d.Person
	f.Description = d.Description
	f.Direction = model.ParseDirection(d.Direction)
	f.Value = d.Value
	f.DueDate = nil
	if d.DueDate != "" {
		due := d.DueDate
		f.DueDate = &due
	}
	f.Tags = append([]string{}, d.Tags...)
}
