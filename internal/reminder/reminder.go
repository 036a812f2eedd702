// Package reminder announces pending favors that fall due today.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nissyi-gh/socialdebt/internal/model"
)

// DefaultInterval is how often the due dates are checked.
const DefaultInterval = time.Minute

// Ledger is the part of the repository the checker needs.
type Ledger interface {
	Favors() []model.Favor
	MarkReminded(id int64) (bool, error)
}

// Notice is one reminder to show the user.
type Notice struct {
	FavorID int64
	Title   string
	Person  string
}

// Message renders the notice for a toast.
func (n Notice) Message() string {
	return fmt.Sprintf("Reminder: %q with %s is due today", n.Title, n.Person)
}

// Checker finds favors due today that have not been announced yet.
type Checker struct {
	ledger Ledger
}

// NewChecker returns a Checker over l.
func NewChecker(l Ledger) *Checker {
	return &Checker{ledger: l}
}

// Check returns a notice for each pending favor due on now's local date
// whose reminder has not been shown, and marks it shown. A favor is never
// announced twice, even when its flag could not be persisted.
func (c *Checker) Check(now time.Time) []Notice {
	var notices []Notice
	for _, f := range c.ledger.Favors() {
		if !f.IsPending() || f.ReminderShown || !f.IsDueOn(now) {
			continue
		}
		found, err := c.ledger.MarkReminded(f.ID)
		if !found {
			continue
		}
		if err != nil {
			slog.Warn("reminder flag not persisted", "id", f.ID, "error", err)
		}
		notices = append(notices, Notice{FavorID: f.ID, Title: f.Title, Person: f.Person})
	}
	return notices
}

// Run calls Check every interval until ctx is done, passing each non-empty
// batch to fn. The first check happens immediately.
func Run(ctx context.Context, c *Checker, interval time.Duration, fn func([]Notice)) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func(now time.Time) {
		if n := c.Check(now); len(n) > 0 {
			fn(n)
		}
	}
	check(time.Now())
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			check(now)
		}
	}
}
