package ledger

import "sync"

// EventKind identifies the mutation that changed the repository.
type EventKind int

const (
	Added EventKind = iota
	Edited
	Deleted
	StatusToggled
	Rated
	Commented
	Reminded
	Reset
)

func (k EventKind) String() string {
	switch k {
	case Added:
		return "added"
	case Edited:
		return "edited"
	case Deleted:
		return "deleted"
	case StatusToggled:
		return "status_toggled"
	case Rated:
		return "rated"
	case Commented:
		return "commented"
	case Reminded:
		return "reminded"
	case Reset:
		return "reset"
	}
	return "unknown"
}

// Event is emitted once per successful mutation. ID is zero for Reset.
type Event struct {
	Kind EventKind
	ID   int64
}

type subscriber struct {
	id int
	fn func(Event)
}

type subscribers struct {
	mu   sync.Mutex
	next int
	list []subscriber
}

// Subscribe registers fn to receive every change event and returns a
// function that removes it.
func (r *Repository) Subscribe(fn func(Event)) (unsubscribe func()) {
	s := &r.subs
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.list = append(s.list, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.list {
			if sub.id == id {
				s.list = append(s.list[:i:i], s.list[i+1:]...)
				return
			}
		}
	}
}

// emit runs outside the repository lock so handlers may read the repository.
func (r *Repository) emit(ev Event) {
	s := &r.subs
	s.mu.Lock()
	list := append([]subscriber(nil), s.list...)
	s.mu.Unlock()

	for _, sub := range list {
		sub.fn(ev)
	}
}
