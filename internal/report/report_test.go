package report

import (
	"strings"
	"testing"
	"time"

	"github.com/nissyi-gh/socialdebt/internal/model"
	"github.com/nissyi-gh/socialdebt/internal/store"
)

func TestErrorLogText(t *testing.T) {
	logs := []store.ErrorLog{
		{Timestamp: time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC), Message: "save favors: disk full", Stack: "disk full", Context: "Add favor"},
		{Timestamp: time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC), Message: "boom", Context: "Import"},
	}
	want := "[2026-05-02T10:00:00Z] Add favor\nsave favors: disk full\ndisk full\n---\n\n" +
		"[2026-05-01T09:30:00Z] Import\nboom\n\n---"
	if got := ErrorLogText(logs); got != want {
		t.Errorf("ErrorLogText() =\n%q\nwant\n%q", got, want)
	}
	if got := ErrorLogText(nil); got != "" {
		t.Errorf("ErrorLogText(nil) = %q", got)
	}
}

func TestPersonStatement(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.Local)
	due := "2026-05-01"
	ten := 10
	favors := []model.Favor{
		{Title: "Moving help", Person: "Ana", Direction: model.Owe, Value: &ten, DueDate: &due, Status: model.Pending,
			Tags: []string{"weekend"}, Comments: []model.Comment{{Text: "bring boxes", Date: now}}},
		{Title: "Not hers", Person: "Ben", Direction: model.Owed, Status: model.Pending},
		{Title: "Coffee", Person: "Ana", Direction: model.Owed, Status: model.Completed},
	}
	s := model.PersonSummary{Name: "Ana", OweValue: 10, Total: 2, Balance: -10}

	got := PersonStatement(s, favors, now)
	for _, want := range []string{
		"Favors with Ana\n",
		"Balance: -10 (you owe them)\n",
		"[ ] Moving help (you owe, 10) due 2026-05-01 OVERDUE",
		"    tags: weekend",
		"    2026-05-10: bring boxes",
		"[x] Coffee (they owe you, 1)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("statement missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Not hers") {
		t.Error("statement includes another person's favor")
	}
}

func TestBalance(t *testing.T) {
	tests := map[int]string{3: "+3 (they owe you)", -2: "-2 (you owe them)", 0: "0 (even)"}
	for n, want := range tests {
		if got := Balance(n); got != want {
			t.Errorf("Balance(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestErrorLogFileName(t *testing.T) {
	if got := ErrorLogFileName(time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)); got != "error-logs-2026-01-09.txt" {
		t.Errorf("ErrorLogFileName() = %q", got)
	}
}
