package model

import "time"

// DateLayout is the format used for due dates.
const DateLayout = "2006-01-02"

// Direction tells which party owes the other.
type Direction string

const (
	// Owe means the user owes the person.
	Owe Direction = "owe"
	// Owed means the person owes the user.
	Owed Direction = "owed"
)

// ParseDirection returns the direction named by s, defaulting to Owe.
func ParseDirection(s string) Direction {
	if Direction(s) == Owed {
		return Owed
	}
	return Owe
}

// Status is the lifecycle state of a favor.
type Status string

const (
	Pending   Status = "pending"
	Completed Status = "completed"
)

// ParseStatus returns the status named by s, defaulting to Pending.
func ParseStatus(s string) Status {
	if Status(s) == Completed {
		return Completed
	}
	return Pending
}

// Toggle returns the opposite status.
func (s Status) Toggle() Status {
	if s == Pending {
		return Completed
	}
	return Pending
}

// Comment is a note attached to a favor.
type Comment struct {
	Text string    `json:"text"`
	Date time.Time `json:"date"`
}

// Favor is a single tracked obligation between the user and a person.
type Favor struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Person        string    `json:"person"`
	Description   string    `json:"description"`
	Direction     Direction `json:"direction"`
	Value         *int      `json:"value"`
	DueDate       *string   `json:"dueDate"`
	Status        Status    `json:"status"`
	Tags          []string  `json:"tags"`
	Rating        int       `json:"rating"`
	Comments      []Comment `json:"comments"`
	Date          time.Time `json:"date"`
	ReminderShown bool      `json:"reminderShown,omitempty"`
}

// Units is the favor's weight in balances: its value, or 1 when unset.
func (f Favor) Units() int {
	if f.Value == nil {
		return 1
	}
	return *f.Value
}

// IsPending reports whether the favor still counts toward balances.
func (f Favor) IsPending() bool {
	return f.Status == Pending
}

// IsDueOn returns true if the favor's due date falls on the local date of now.
func (f Favor) IsDueOn(now time.Time) bool {
	if f.DueDate == nil {
		return false
	}
	return *f.DueDate == now.Format(DateLayout)
}

// IsOverdue returns true if the favor is past its due date and still pending.
func (f Favor) IsOverdue(now time.Time) bool {
	if f.DueDate == nil || !f.IsPending() {
		return false
	}
	if _, err := time.Parse(DateLayout, *f.DueDate); err != nil {
		return false
	}
	return *f.DueDate < now.Format(DateLayout)
}

// IsDueSoon returns true for pending favors due within the next three days.
func (f Favor) IsDueSoon(now time.Time) bool {
	if f.DueDate == nil || !f.IsPending() {
		return false
	}
	due, err := time.ParseInLocation(DateLayout, *f.DueDate, now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := int(due.Sub(today).Hours() / 24)
	return days >= 0 && days <= 3
}

// Clone returns a deep copy so callers cannot mutate repository state.
func (f Favor) Clone() Favor {
	c := f
	if f.Value != nil {
		v := *f.Value
		c.Value = &v
	}
	if f.DueDate != nil {
		d := *f.DueDate
		c.DueDate = &d
	}
	c.Tags = append([]string(nil), f.Tags...)
	c.Comments = append([]Comment(nil), f.Comments...)
	return c
}
