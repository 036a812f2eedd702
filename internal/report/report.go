// Package report renders plain-text summaries for the clipboard and files.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/nissyi-gh/socialdebt/internal/model"
	"github.com/nissyi-gh/socialdebt/internal/store"
)

// ErrorLogFileName suggests a file name for an error log export made at now.
func ErrorLogFileName(now time.Time) string {
	return fmt.Sprintf("error-logs-%s.txt", now.Format(model.DateLayout))
}

// ErrorLogText renders the diagnostic log, one block per entry.
func ErrorLogText(logs []store.ErrorLog) string {
	blocks := make([]string, 0, len(logs))
	for _, l := range logs {
		blocks = append(blocks, fmt.Sprintf("[%s] %s\n%s\n%s\n---",
			l.Timestamp.UTC().Format(time.RFC3339), l.Context, l.Message, l.Stack))
	}
	return strings.Join(blocks, "\n\n")
}

// PersonStatement summarizes everything exchanged with one person.
func PersonStatement(s model.PersonSummary, favors []model.Favor, now time.Time) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Favors with %s\n", s.Name))
	sb.WriteString(fmt.Sprintf("Balance: %s\n", Balance(s.Balance)))
	sb.WriteString(fmt.Sprintf("You owe: %d  Owed to you: %d  Favors: %d\n", s.OweValue, s.OwedValue, s.Total))

	for _, f := range favors {
		if f.Person != s.Name {
			continue
		}
		mark := " "
		if !f.IsPending() {
			mark = "x"
		}
		sb.WriteString(fmt.Sprintf("\n[%s] %s (%s, %d)", mark, f.Title, DirectionLabel(f.Direction), f.Units()))
		if f.DueDate != nil {
			sb.WriteString(" due " + *f.DueDate)
			if f.IsOverdue(now) {
				sb.WriteString(" OVERDUE")
			}
		}
		if f.Description != "" {
			sb.WriteString("\n    " + f.Description)
		}
		if len(f.Tags) > 0 {
			sb.WriteString("\n    tags: " + strings.Join(f.Tags, ", "))
		}
		for _, c := range f.Comments {
			sb.WriteString(fmt.Sprintf("\n    %s: %s", c.Date.Local().Format(model.DateLayout), c.Text))
		}
	}
	sb.WriteString("\n")

	return sb.String()
}

// Balance renders a balance from the user's point of view.
func Balance(n int) string {
	switch {
	case n > 0:
		return fmt.Sprintf("+%d (they owe you)", n)
	case n < 0:
		return fmt.Sprintf("%d (you owe them)", n)
	default:
		return "0 (even)"
	}
}

// DirectionLabel is the human wording of a direction.
func DirectionLabel(d model.Direction) string {
	if d == model.Owed {
		return "they owe you"
	}
	return "you owe"
}
