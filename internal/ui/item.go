package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/nissyi-gh/socialdebt/internal/model"
	"github.com/nissyi-gh/socialdebt/internal/report"
)

// PersonItem wraps model.PersonSummary to satisfy the list.DefaultItem interface.
type PersonItem struct {
	Summary model.PersonSummary
}

func (i PersonItem) Title() string {
	return i.Summary.Name
}

func (i PersonItem) Description() string {
	s := i.Summary
	return fmt.Sprintf("owe %d · owed %d · %d favors · balance %s",
		s.OweValue, s.OwedValue, s.Total, report.Balance(s.Balance))
}

func (i PersonItem) FilterValue() string {
	return i.Summary.Name
}

// FavorItem is one row of the detail view.
type FavorItem struct {
	Favor model.Favor
	Now   time.Time
}

func (i FavorItem) Title() string {
	check := "[ ]"
	if !i.Favor.IsPending() {
		check = "[x]"
	}
	dueMark := ""
	if i.Favor.IsOverdue(i.Now) {
		dueMark = "⚠️ "
	} else if i.Favor.IsDueSoon(i.Now) {
		dueMark = "📅 "
	}
	stars := ""
	if i.Favor.Rating > 0 {
		stars = " " + strings.Repeat("★", i.Favor.Rating)
	}
	return fmt.Sprintf("%s %s%s%s", check, dueMark, i.Favor.Title, stars)
}

func (i FavorItem) Description() string {
	parts := []string{
		report.DirectionLabel(i.Favor.Direction),
		fmt.Sprintf("value %d", i.Favor.Units()),
	}
	if i.Favor.DueDate != nil {
		parts = append(parts, "due "+*i.Favor.DueDate)
	}
	if len(i.Favor.Tags) > 0 {
		parts = append(parts, "#"+strings.Join(i.Favor.Tags, " #"))
	}
	if n := len(i.Favor.Comments); n > 0 {
		parts = append(parts, fmt.Sprintf("%d comments", n))
	}
	return strings.Join(parts, " · ")
}

func (i FavorItem) FilterValue() string {
	return i.Favor.Title
}
