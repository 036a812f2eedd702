package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nissyi-gh/socialdebt/internal/ledger"
	"github.com/nissyi-gh/socialdebt/internal/model"
)

type memStore struct {
	favors []model.Favor
	fail   error
}

func (m *memStore) LoadFavors() ([]model.Favor, error) { return m.favors, nil }

func (m *memStore) SaveFavors(f []model.Favor) error {
	if m.fail != nil {
		return m.fail
	}
	m.favors = append([]model.Favor(nil), f...)
	return nil
}

func newRepo(t *testing.T, st *memStore) *ledger.Repository {
	t.Helper()
	r, err := ledger.New(st, nil)
	if err != nil {
		t.Fatalf("ledger.New failed: %v", err)
	}
	return r
}

func TestCheckFiresOncePerFavor(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local)
	st := &memStore{}
	r := newRepo(t, st)

	due, _ := r.Add(ledger.Draft{Title: "Return drill", Person: "Ana", DueDate: "2026-03-10"})
	r.Add(ledger.Draft{Title: "Tomorrow", Person: "Ben", DueDate: "2026-03-11"})
	r.Add(ledger.Draft{Title: "No date", Person: "Ben"})
	done, _ := r.Add(ledger.Draft{Title: "Already done", Person: "Cy", DueDate: "2026-03-10"})
	r.ToggleStatus(done.ID)

	c := NewChecker(r)
	got := c.Check(now)
	if len(got) != 1 || got[0].FavorID != due.ID {
		t.Fatalf("first Check() = %+v, want one notice for %d", got, due.ID)
	}
	if got[0].Message() != `Reminder: "Return drill" with Ana is due today` {
		t.Errorf("Message() = %q", got[0].Message())
	}

	if again := c.Check(now.Add(time.Minute)); len(again) != 0 {
		t.Errorf("second Check() = %+v, want none", again)
	}

	if !st.favors[0].ReminderShown {
		t.Error("reminder flag was not persisted")
	}
}

func TestCheckSurvivesStorageFailure(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)
	st := &memStore{}
	r := newRepo(t, st)
	r.Add(ledger.Draft{Title: "Lend tent", Person: "Ana", DueDate: "2026-03-10"})

	st.fail = errors.New("disk full")
	c := NewChecker(r)
	if got := c.Check(now); len(got) != 1 {
		t.Fatalf("Check() = %+v, want one notice", got)
	}
	if got := c.Check(now); len(got) != 0 {
		t.Errorf("Check() after failed write = %+v, want none", got)
	}
}

func TestRun(t *testing.T) {
	st := &memStore{}
	r := newRepo(t, st)
	r.Add(ledger.Draft{Title: "Due", Person: "Ana", DueDate: time.Now().Format(model.DateLayout)})

	ctx, cancel := context.WithCancel(context.Background())
	batches := make(chan []Notice, 4)
	done := make(chan struct{})
	go func() {
		Run(ctx, NewChecker(r), 5*time.Millisecond, func(n []Notice) { batches <- n })
		close(done)
	}()

	select {
	case n := <-batches:
		if len(n) != 1 {
			t.Errorf("batch = %+v", n)
		}
	case <-time.After(time.Second):
		t.Fatal("Run never delivered the due favor")
	}

	time.Sleep(30 * time.Millisecond)
	cancel()
	<-done
	if len(batches) != 0 {
		t.Errorf("Run delivered %d extra batches", len(batches))
	}
}
