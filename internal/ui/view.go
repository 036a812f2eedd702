package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nissyi-gh/socialdebt/internal/aggregate"
	"github.com/nissyi-gh/socialdebt/internal/model"
	"github.com/nissyi-gh/socialdebt/internal/profile"
	"github.com/nissyi-gh/socialdebt/internal/report"
)

const maxLogEntries = 10

func (m Model) View() string {
	var body string
	switch m.state {
	case stateSetup:
		body = m.profileForm.view(m.styles, true)
	case stateProfile:
		body = m.profileForm.view(m.styles, false)
	case stateForm:
		body = m.form.view(m.styles)
	case stateDetail:
		body = m.renderDetail()
	case stateComment:
		body = m.renderDetail() + "\n\n" + m.styles.title.Render("Comment") + "\n" + m.comment.View() +
			"\n" + m.styles.status.Render("enter: save • esc: cancel")
	case stateConfirm:
		body = m.renderConfirm()
	case stateLeaderboard:
		body = m.renderLeaderboard()
	case stateImport:
		body = m.styles.title.Render("Import CSV") + "\n\n" +
			m.importPath.View() + "\n\n" +
			m.styles.status.Render("Rows are added to the existing favors. enter: import • esc: cancel")
	case stateErrorLog:
		body = m.renderErrorLog()
	default:
		body = m.renderDashboard()
	}

	if m.toast != "" {
		style := m.styles.toast
		if m.toastErr {
			style = m.styles.err
		}
		body += "\n\n" + style.Render(m.toast)
	}
	return m.styles.app.Render(body)
}

func (m Model) renderHeader() string {
	p, _ := m.deps.Profile.Profile()
	badge := m.styles.avatar.Render(profile.Initials(p.Name))

	who := m.styles.title.Render(p.Name)
	var sub []string
	for _, s := range []string{p.Role, p.Department} {
		if s != "" {
			sub = append(sub, s)
		}
	}
	if m.deps.Profile.Avatar() != "" {
		sub = append(sub, "avatar set")
	}
	sub = append(sub, string(m.deps.Profile.Theme())+" theme")
	info := who + "\n" + m.styles.status.Render(strings.Join(sub, " · "))

	return lipgloss.JoinHorizontal(lipgloss.Center, badge, " ", info)
}

func (m Model) renderDashboard() string {
	t := m.totals
	totals := fmt.Sprintf("%s · %s · Balance %s · %d active · %d completed",
		m.styles.owe.Render(fmt.Sprintf("You owe %d", t.OweValue)),
		m.styles.owed.Render(fmt.Sprintf("Owed to you %d", t.OwedValue)),
		m.styles.balance(t.Balance, fmt.Sprintf("%+d", t.Balance)),
		t.Active, t.Completed,
	)

	var tabs []string
	for _, s := range statusCycle {
		if s == m.filters.Status {
			tabs = append(tabs, m.styles.tabOn.Render(s))
		} else {
			tabs = append(tabs, m.styles.tab.Render(s))
		}
	}

	person := "any"
	if m.filters.Person != "" {
		person = m.filters.Person
	}
	filterLine := m.styles.status.Render("Person: ") + person
	if m.state == stateSearch {
		filterLine += "   " + m.search.View()
	} else if m.filters.Search != "" {
		filterLine += m.styles.status.Render("   Search: ") + m.filters.Search
	}

	return m.renderHeader() + "\n\n" +
		totals + "\n\n" +
		strings.Join(tabs, " ") + "\n" +
		filterLine + "\n\n" +
		m.people.View()
}

func (m Model) renderDetail() string {
	s := m.summary
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Favors with "+s.Name) + "\n")
	b.WriteString(fmt.Sprintf("You owe %d · Owed to you %d · %d favors · Balance %s\n\n",
		s.OweValue, s.OwedValue, s.Total, m.styles.balance(s.Balance, report.Balance(s.Balance))))

	now := m.now()
	for i, f := range m.page.Favors {
		item := FavorItem{Favor: f, Now: now}
		cursor := "  "
		title := item.Title()
		if i == m.cursor {
			cursor = "> "
			title = m.styles.selected.Render(title)
		}
		b.WriteString(cursor + title + "\n")
		b.WriteString("    " + m.styles.status.Render(item.Description()) + "\n")
		if i == m.cursor {
			b.WriteString(m.renderFavorBody(f))
		}
	}

	b.WriteString("\n" + m.pager.View() + "\n\n")
	b.WriteString(m.styles.status.Render(
		"j/k: move • h/l: page • x: toggle • 0-5: rate • c: comment • e: edit • d: delete • a: add • y: copy • esc: back"))
	return b.String()
}

func (m Model) renderFavorBody(f model.Favor) string {
	var lines []string
	if f.Description != "" {
		lines = append(lines, f.Description)
	}
	lines = append(lines, "created "+f.Date.Local().Format("2006-01-02 15:04"))
	for _, c := range f.Comments {
		lines = append(lines, fmt.Sprintf("%s  %s", c.Date.Local().Format(model.DateLayout), c.Text))
	}
	return lipgloss.NewStyle().MarginLeft(4).Render(m.styles.box.Render(strings.Join(lines, "\n"))) + "\n"
}

func (m Model) renderConfirm() string {
	var title, msg string
	switch m.confirm {
	case confirmDelete:
		title = "Delete Favor?"
		if f, ok := m.deps.Ledger.Favor(m.confirmID); ok {
			msg = f.Title
		}
	case confirmReset:
		title = "Clear All Favors?"
		msg = fmt.Sprintf("%d favors will be removed", len(m.deps.Ledger.Favors()))
	case confirmClearLogs:
		title = "Clear Error Log?"
		msg = fmt.Sprintf("%d entries will be removed", len(m.logs))
	}
	return m.styles.confirm.Render(title) + "\n\n" +
		"  " + msg + "\n\n" +
		m.styles.status.Render("y: confirm • n/esc: cancel")
}

func (m Model) renderLeaderboard() string {
	entries := aggregate.Leaderboard(aggregate.PersonSummaries(m.deps.Ledger.Favors(), aggregate.Filters{}))

	var b strings.Builder
	b.WriteString(m.styles.title.Render("Leaderboard") + "\n")
	b.WriteString(m.styles.status.Render("Pending favor value exchanged, both directions") + "\n\n")
	if len(entries) == 0 {
		b.WriteString("No pending favors.\n")
	}
	for i, e := range entries {
		b.WriteString(fmt.Sprintf("%3d. %-24s %6d   %s\n", i+1, e.Name, e.Score,
			m.styles.balance(e.Balance, report.Balance(e.Balance))))
	}
	b.WriteString("\n" + m.styles.status.Render("esc: back"))
	return b.String()
}

func (m Model) renderErrorLog() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Error Log") + "\n")
	b.WriteString(m.styles.status.Render(fmt.Sprintf("%d entries · %d in the last 24h",
		m.logStats.Total, m.logStats.Last24h)) + "\n\n")

	if len(m.logs) == 0 {
		b.WriteString("No errors recorded.\n")
	}
	for i, l := range m.logs {
		if i == maxLogEntries {
			b.WriteString(m.styles.status.Render(fmt.Sprintf("... %d more", len(m.logs)-maxLogEntries)) + "\n")
			break
		}
		b.WriteString(fmt.Sprintf("%s  %s\n    %s\n",
			m.styles.status.Render(l.Timestamp.Local().Format("2006-01-02 15:04:05")),
			m.styles.title.Render(l.Context),
			m.styles.err.Render(l.Message)))
	}
	b.WriteString("\n" + m.styles.status.Render("y: copy • w: write file • c: clear • esc: back"))
	return b.String()
}
