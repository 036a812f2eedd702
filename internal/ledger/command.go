package ledger

import "fmt"

// Command is a request to mutate the repository. The concrete types below
// are the only implementations.
type Command interface {
	isCommand()
}

type (
	AddFavor struct {
		Draft Draft
	}
	EditFavor struct {
		ID    int64
		Draft Draft
	}
	DeleteFavor struct {
		ID int64
	}
	ToggleStatus struct {
		ID int64
	}
	SetRating struct {
		ID     int64
		Rating int
	}
	AddComment struct {
		ID   int64
		Text string
	}
)

func (AddFavor) isCommand()     {}
func (EditFavor) isCommand()    {}
func (DeleteFavor) isCommand()  {}
func (ToggleStatus) isCommand() {}
func (SetRating) isCommand()    {}
func (AddComment) isCommand()   {}

// Result is the outcome of a dispatched command. Found is false when the
// target favor does not exist; ID is the affected favor.
type Result struct {
	ID    int64
	Found bool
}

// Dispatch executes cmd.
func (r *Repository) Dispatch(cmd Command) (Result, error) {
	switch c := cmd.(type) {
	case AddFavor:
		f, err := r.Add(c.Draft)
		return Result{ID: f.ID, Found: f.ID != 0}, err
	case EditFavor:
		found, err := r.Edit(c.ID, c.Draft)
		return Result{ID: c.ID, Found: found}, err
	case DeleteFavor:
		found, err := r.Delete(c.ID)
		return Result{ID: c.ID, Found: found}, err
	case ToggleStatus:
		found, err := r.ToggleStatus(c.ID)
		return Result{ID: c.ID, Found: found}, err
	case SetRating:
		found, err := r.SetRating(c.ID, c.Rating)
		return Result{ID: c.ID, Found: found}, err
	case AddComment:
		found, err := r.AddComment(c.ID, c.Text)
		return Result{ID: c.ID, Found: found}, err
	}
	return Result{}, fmt.Errorf("unknown command %T", cmd)
}
