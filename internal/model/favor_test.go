package model

import (
	"testing"
	"time"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
	}{
		{"owe", Owe},
		{"owed", Owed},
		{"", Owe},
		{"OWED", Owe},
		{"sideways", Owe},
	}
	for _, tt := range tests {
		if got := ParseDirection(tt.in); got != tt.want {
			t.Errorf("ParseDirection(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatusToggle(t *testing.T) {
	if Pending.Toggle() != Completed {
		t.Errorf("Pending.Toggle() = %q", Pending.Toggle())
	}
	if Completed.Toggle() != Pending {
		t.Errorf("Completed.Toggle() = %q", Completed.Toggle())
	}
	if ParseStatus("bogus") != Pending {
		t.Errorf("ParseStatus should default to pending")
	}
}

func TestUnits(t *testing.T) {
	zero, ten := 0, 10
	if got := (Favor{}).Units(); got != 1 {
		t.Errorf("unset value: got %d, want 1", got)
	}
	if got := (Favor{Value: &zero}).Units(); got != 0 {
		t.Errorf("zero value: got %d, want 0", got)
	}
	if got := (Favor{Value: &ten}).Units(); got != 10 {
		t.Errorf("value 10: got %d, want 10", got)
	}
}

func TestDueDates(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)
	day := func(s string) *string { return &s }

	f := Favor{Status: Pending, DueDate: day("2026-03-10")}
	if !f.IsDueOn(now) {
		t.Error("expected due today")
	}
	if f.IsOverdue(now) {
		t.Error("due today is not overdue")
	}

	f.DueDate = day("2026-03-09")
	if !f.IsOverdue(now) {
		t.Error("expected overdue")
	}
	f.Status = Completed
	if f.IsOverdue(now) {
		t.Error("completed favors are never overdue")
	}

	soon := Favor{Status: Pending, DueDate: day("2026-03-13")}
	if !soon.IsDueSoon(now) {
		t.Error("expected due soon within three days")
	}
	later := Favor{Status: Pending, DueDate: day("2026-03-20")}
	if later.IsDueSoon(now) {
		t.Error("ten days out is not due soon")
	}

	foreign := Favor{Status: Pending, DueDate: day("1/5/2026")}
	if foreign.IsOverdue(now) || foreign.IsDueSoon(now) || foreign.IsDueOn(now) {
		t.Error("unparsed due dates are never due or overdue")
	}
}

func TestCloneIsDeep(t *testing.T) {
	v := 3
	orig := Favor{Value: &v, Tags: []string{"a"}, Comments: []Comment{{Text: "x"}}}
	c := orig.Clone()
	*c.Value = 9
	c.Tags[0] = "b"
	c.Comments[0].Text = "y"
	if *orig.Value != 3 || orig.Tags[0] != "a" || orig.Comments[0].Text != "x" {
		t.Errorf("Clone shares state with original: %+v", orig)
	}
}
