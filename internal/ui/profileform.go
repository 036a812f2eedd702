package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nissyi-gh/socialdebt/internal/model"
	"github.com/nissyi-gh/socialdebt/internal/profile"
)

var profileLabels = []string{"Name", "Role", "Department", "Avatar image (path, optional)"}

type profileForm struct {
	inputs []textinput.Model
	focus  int
	err    string
}

func newProfileForm(p model.Profile) profileForm {
	placeholders := []string{"Your name", "e.g. Engineer", "e.g. Platform", "~/me.png"}
	values := []string{p.Name, p.Role, p.Department, ""}

	inputs := make([]textinput.Model, len(profileLabels))
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		if i < 3 {
			ti.CharLimit = profile.MaxField + 20
		}
		ti.SetValue(values[i])
		inputs[i] = ti
	}
	inputs[0].Focus()
	return profileForm{inputs: inputs}
}

func (f profileForm) profile() model.Profile {
	return model.Profile{
		Name:       f.inputs[0].Value(),
		Role:       f.inputs[1].Value(),
		Department: f.inputs[2].Value(),
	}
}

func (f profileForm) avatarPath() string {
	return strings.TrimSpace(f.inputs[3].Value())
}

func (f *profileForm) focusInput(i int) tea.Cmd {
	f.focus = i
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	return f.inputs[i].Focus()
}

func (f profileForm) update(msg tea.Msg) (form profileForm, cmd tea.Cmd, submit bool) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			if f.focus == len(f.inputs)-1 {
				return f, nil, true
			}
			cmd = f.focusInput(f.focus + 1)
			return f, cmd, false
		case "tab", "down":
			cmd = f.focusInput((f.focus + 1) % len(f.inputs))
			return f, cmd, false
		case "shift+tab", "up":
			cmd = f.focusInput((f.focus + len(f.inputs) - 1) % len(f.inputs))
			return f, cmd, false
		}
	}
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

func (f profileForm) view(s styles, firstRun bool) string {
	var b strings.Builder
	if firstRun {
		b.WriteString(s.title.Render("Welcome to the favor ledger") + "\n\n")
		b.WriteString("Tell us who you are to get started.\n\n")
	} else {
		b.WriteString(s.title.Render("Edit Profile") + "\n\n")
	}
	for i, in := range f.inputs {
		label := "  " + profileLabels[i]
		if i == f.focus {
			label = s.selected.Render("> " + profileLabels[i])
		}
		b.WriteString(label + "\n  " + in.View() + "\n\n")
	}
	if f.err != "" {
		b.WriteString(s.err.Render("Error: "+f.err) + "\n\n")
	}
	help := "tab: next • enter: save on last field"
	if !firstRun {
		help += " • esc: cancel"
	}
	b.WriteString(s.status.Render(help))
	return b.String()
}
