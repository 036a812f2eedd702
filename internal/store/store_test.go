package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/nissyi-gh/socialdebt/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	s := openTestStore(t)

	t.Run("Get missing key", func(t *testing.T) {
		v, ok, err := s.Get("nope")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if ok || v != "" {
			t.Errorf("Get(nope) = %q, %v; want empty, false", v, ok)
		}
	})

	t.Run("Set overwrites", func(t *testing.T) {
		if err := s.Set("k", "one"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if err := s.Set("k", "two"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		v, ok, _ := s.Get("k")
		if !ok || v != "two" {
			t.Errorf("Get(k) = %q, %v; want two, true", v, ok)
		}
	})

	t.Run("Remove and Clear", func(t *testing.T) {
		s.Set("a", "1")
		s.Set("b", "2")
		if err := s.Remove("a"); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if _, ok, _ := s.Get("a"); ok {
			t.Error("expected a to be removed")
		}
		if err := s.Clear(); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
		if _, ok, _ := s.Get("b"); ok {
			t.Error("expected b to be cleared")
		}
	})

	t.Run("Corrupt JSON is a storage error", func(t *testing.T) {
		s.Set(KeyFavors, "{not json")
		_, err := s.LoadFavors()
		if !errors.Is(err, ErrStorage) {
			t.Errorf("LoadFavors error = %v, want ErrStorage", err)
		}
		s.Remove(KeyFavors)
	})
}

func TestFavorsRoundTrip(t *testing.T) {
	s := openTestStore(t)

	favors, err := s.LoadFavors()
	if err != nil {
		t.Fatalf("LoadFavors failed: %v", err)
	}
	if len(favors) != 0 {
		t.Fatalf("expected empty list on first run, got %d", len(favors))
	}

	v := 25
	due := "2026-05-01"
	in := []model.Favor{{
		ID:        1,
		Title:     "Lunch money",
		Person:    "Alice",
		Direction: model.Owed,
		Value:     &v,
		DueDate:   &due,
		Status:    model.Pending,
		Tags:      []string{"food"},
		Rating:    4,
		Comments:  []model.Comment{{Text: "soon", Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}},
		Date:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
	if err := s.SaveFavors(in); err != nil {
		t.Fatalf("SaveFavors failed: %v", err)
	}

	out, err := s.LoadFavors()
	if err != nil {
		t.Fatalf("LoadFavors failed: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 favor, got %d", len(out))
	}
	got := out[0]
	if got.Title != "Lunch money" || got.Person != "Alice" || got.Direction != model.Owed {
		t.Errorf("unexpected favor: %+v", got)
	}
	if got.Value == nil || *got.Value != 25 {
		t.Errorf("Value = %v, want 25", got.Value)
	}
	if got.DueDate == nil || *got.DueDate != due {
		t.Errorf("DueDate = %v, want %s", got.DueDate, due)
	}
	if len(got.Comments) != 1 || got.Comments[0].Text != "soon" {
		t.Errorf("Comments = %+v", got.Comments)
	}
}

func TestProfileAvatarTheme(t *testing.T) {
	s := openTestStore(t)

	if _, ok, err := s.LoadProfile(); err != nil || ok {
		t.Fatalf("LoadProfile on first run = ok %v, err %v", ok, err)
	}
	if err := s.SaveProfile(model.Profile{Name: "Sam", Role: "Dev"}); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	p, ok, err := s.LoadProfile()
	if err != nil || !ok || p.Name != "Sam" || p.Role != "Dev" {
		t.Errorf("LoadProfile = %+v, %v, %v", p, ok, err)
	}

	if err := s.SaveAvatar("data:image/png;base64,AAAA"); err != nil {
		t.Fatalf("SaveAvatar failed: %v", err)
	}
	if a, _ := s.LoadAvatar(); a != "data:image/png;base64,AAAA" {
		t.Errorf("LoadAvatar = %q", a)
	}
	s.RemoveAvatar()
	if a, _ := s.LoadAvatar(); a != "" {
		t.Errorf("LoadAvatar after remove = %q", a)
	}

	if th, _ := s.LoadTheme(); th != model.Light {
		t.Errorf("default theme = %q, want light", th)
	}
	s.SaveTheme(model.Dark)
	if th, _ := s.LoadTheme(); th != model.Dark {
		t.Errorf("theme = %q, want dark", th)
	}
}

func TestErrorLog(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for i := 0; i < MaxErrorLogs+5; i++ {
		s.Record(fmt.Errorf("failure %d", i), "test")
	}

	logs, err := s.Logs()
	if err != nil {
		t.Fatalf("Logs failed: %v", err)
	}
	if len(logs) != MaxErrorLogs {
		t.Fatalf("expected %d logs, got %d", MaxErrorLogs, len(logs))
	}
	if logs[0].Message != fmt.Sprintf("failure %d", MaxErrorLogs+4) {
		t.Errorf("newest entry = %q", logs[0].Message)
	}
	if logs[len(logs)-1].Message != "failure 5" {
		t.Errorf("oldest kept entry = %q, want failure 5", logs[len(logs)-1].Message)
	}

	stats, err := s.Stats(base.Add(48 * time.Hour))
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != MaxErrorLogs || stats.Last24h != 0 {
		t.Errorf("Stats = %+v", stats)
	}

	wrapped := fmt.Errorf("outer: %w", errors.New("inner"))
	s.Record(wrapped, "wrap")
	logs, _ = s.Logs()
	if logs[0].Stack != "outer: inner\ninner" {
		t.Errorf("Stack = %q", logs[0].Stack)
	}

	if err := s.ClearLogs(); err != nil {
		t.Fatalf("ClearLogs failed: %v", err)
	}
	logs, _ = s.Logs()
	if len(logs) != 0 {
		t.Errorf("expected no logs after clear, got %d", len(logs))
	}
}
