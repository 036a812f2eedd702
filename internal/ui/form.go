package ui

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nissyi-gh/socialdebt/internal/ledger"
	"github.com/nissyi-gh/socialdebt/internal/model"
)

type formField int

const (
	fieldTitle formField = iota
	fieldPerson
	fieldDescription
	fieldDirection
	fieldValue
	fieldDueDate
	fieldTags
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Person", "Description", "Direction", "Value", "Due date", "Tags"}

// favorForm edits a ledger.Draft. editID is 0 when adding.
type favorForm struct {
	editID    int64
	title     textinput.Model
	person    textinput.Model
	desc      textarea.Model
	direction model.Direction
	value     textinput.Model
	due       dateInput
	tags      textinput.Model
	focus     formField
	err       string
}

func newFavorForm() favorForm {
	title := textinput.New()
	title.Placeholder = "What was the favor?"
	title.CharLimit = ledger.MaxTitle + 50

	person := textinput.New()
	person.Placeholder = "Who with?"
	person.CharLimit = ledger.MaxPerson + 50

	desc := textarea.New()
	desc.Placeholder = "Details (optional)"
	desc.CharLimit = ledger.MaxDescription + 100
	desc.SetHeight(3)

	value := textinput.New()
	value.Placeholder = "1"
	value.CharLimit = 9
	value.Width = 10
	value.Validate = func(s string) error {
		for _, r := range s {
			if !unicode.IsDigit(r) {
				return fmt.Errorf("digits only")
			}
		}
		return nil
	}

	tags := textinput.New()
	tags.Placeholder = "comma, separated"

	return favorForm{
		title:     title,
		person:    person,
		desc:      desc,
		direction: model.Owe,
		value:     value,
		due:       newDateInput(),
		tags:      tags,
	}
}

// formFor prefills the form with an existing favor.
func formFor(f model.Favor) favorForm {
	form := newFavorForm()
	form.editID = f.ID
	form.title.SetValue(f.Title)
	form.person.SetValue(f.Person)
	form.desc.SetValue(f.Description)
	form.direction = f.Direction
	if f.Value != nil {
		form.value.SetValue(strconv.Itoa(*f.Value))
	}
	if f.DueDate != nil {
		form.due.SetValue(*f.DueDate)
	}
	form.tags.SetValue(strings.Join(f.Tags, ", "))
	return form
}

func (f *favorForm) setWidth(w int) {
	if w < 20 {
		return
	}
	f.title.Width = w
	f.person.Width = w
	f.tags.Width = w
	f.desc.SetWidth(w)
}

// focusField moves the cursor to field i and blurs the rest.
func (f *favorForm) focusField(i formField) tea.Cmd {
	f.focus = i
	f.title.Blur()
	f.person.Blur()
	f.desc.Blur()
	f.value.Blur()
	f.due.Blur()
	f.tags.Blur()
	switch i {
	case fieldTitle:
		return f.title.Focus()
	case fieldPerson:
		return f.person.Focus()
	case fieldDescription:
		return f.desc.Focus()
	case fieldValue:
		return f.value.Focus()
	case fieldDueDate:
		f.due.Focus()
	case fieldTags:
		return f.tags.Focus()
	}
	return nil
}

// draft reads the form. Only local parsing errors are reported here;
// the repository validates the rest.
func (f favorForm) draft() (ledger.Draft, error) {
	d := ledger.Draft{
		Title:       f.title.Value(),
		Person:      f.person.Value(),
		Description: f.desc.Value(),
		Direction:   string(f.direction),
	}
	if v := strings.TrimSpace(f.value.Value()); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return d, fmt.Errorf("value must be a whole number")
		}
		d.Value = &n
	}
	due, err := f.due.Value()
	if err != nil {
		return d, err
	}
	d.DueDate = due
	for _, t := range strings.Split(f.tags.Value(), ",") {
		if t = strings.TrimSpace(t); t != "" {
			d.Tags = append(d.Tags, t)
		}
	}
	return d, nil
}

// command returns the ledger command that saves the form.
func (f favorForm) command() (ledger.Command, error) {
	d, err := f.draft()
	if err != nil {
		return nil, err
	}
	if f.editID != 0 {
		return ledger.EditFavor{ID: f.editID, Draft: d}, nil
	}
	return ledger.AddFavor{Draft: d}, nil
}

// update handles navigation and passes other input to the focused field.
// submit is true when the user asked to save.
func (f favorForm) update(msg tea.Msg) (form favorForm, cmd tea.Cmd, submit bool) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+s":
			return f, nil, true
		case "tab", "down":
			if f.focus == fieldDescription && keyMsg.String() == "down" {
				break
			}
			cmd = f.focusField((f.focus + 1) % fieldCount)
			return f, cmd, false
		case "shift+tab", "up":
			if f.focus == fieldDescription && keyMsg.String() == "up" {
				break
			}
			cmd = f.focusField((f.focus + fieldCount - 1) % fieldCount)
			return f, cmd, false
		case "enter":
			switch f.focus {
			case fieldDescription:
				// newline
			case fieldTags:
				return f, nil, true
			default:
				cmd = f.focusField(f.focus + 1)
				return f, cmd, false
			}
		case " ", "left", "right":
			if f.focus == fieldDirection {
				if f.direction == model.Owe {
					f.direction = model.Owed
				} else {
					f.direction = model.Owe
				}
				return f, nil, false
			}
		}
	}

	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldPerson:
		f.person, cmd = f.person.Update(msg)
	case fieldDescription:
		f.desc, cmd = f.desc.Update(msg)
	case fieldValue:
		f.value, cmd = f.value.Update(msg)
	case fieldDueDate:
		f.due, cmd = f.due.Update(msg)
	case fieldTags:
		f.tags, cmd = f.tags.Update(msg)
	}
	return f, cmd, false
}

func (f favorForm) view(s styles) string {
	var b strings.Builder
	header := "New Favor"
	if f.editID != 0 {
		header = "Edit Favor"
	}
	b.WriteString(s.title.Render(header) + "\n\n")

	for i := formField(0); i < fieldCount; i++ {
		label := fieldLabels[i]
		if i == f.focus {
			label = s.selected.Render("> " + label)
		} else {
			label = "  " + label
		}
		b.WriteString(label + "\n")

		var body string
		switch i {
		case fieldTitle:
			body = f.title.View()
		case fieldPerson:
			body = f.person.View()
		case fieldDescription:
			body = f.desc.View()
		case fieldDirection:
			owe, owed := s.tab.Render("I owe them"), s.tab.Render("They owe me")
			if f.direction == model.Owed {
				owed = s.tabOn.Render("They owe me")
			} else {
				owe = s.tabOn.Render("I owe them")
			}
			body = owe + " " + owed
		case fieldValue:
			body = f.value.View()
		case fieldDueDate:
			body = f.due.View()
		case fieldTags:
			body = f.tags.View()
		}
		b.WriteString("  " + body + "\n\n")
	}

	if f.err != "" {
		b.WriteString(s.err.Render("Error: "+f.err) + "\n\n")
	}
	b.WriteString(s.status.Render("tab/↓: next • shift+tab/↑: prev • space: direction • ctrl+s: save • esc: cancel"))
	return b.String()
}
