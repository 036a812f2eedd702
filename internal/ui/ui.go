package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nissyi-gh/socialdebt/internal/aggregate"
	"github.com/nissyi-gh/socialdebt/internal/importer"
	"github.com/nissyi-gh/socialdebt/internal/ledger"
	"github.com/nissyi-gh/socialdebt/internal/model"
	"github.com/nissyi-gh/socialdebt/internal/profile"
	"github.com/nissyi-gh/socialdebt/internal/reminder"
	"github.com/nissyi-gh/socialdebt/internal/report"
	"github.com/nissyi-gh/socialdebt/internal/store"
)

type appState int

const (
	stateSetup appState = iota
	stateDashboard
	stateSearch
	stateDetail
	stateForm
	stateConfirm
	stateComment
	stateLeaderboard
	stateImport
	stateErrorLog
	stateProfile
)

type confirmKind int

const (
	confirmDelete confirmKind = iota
	confirmReset
	confirmClearLogs
)

const toastDuration = 3 * time.Second

var statusCycle = []string{aggregate.StatusAll, string(model.Pending), string(model.Completed)}

// ErrorLog is the diagnostic log behind the error view.
type ErrorLog interface {
	Record(err error, context string)
	Logs() ([]store.ErrorLog, error)
	ClearLogs() error
	Stats(now time.Time) (store.LogStats, error)
}

// Deps are the services the TUI drives.
type Deps struct {
	Ledger    *ledger.Repository
	Profile   *profile.Manager
	Errors    ErrorLog
	Reminders *reminder.Checker
	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
}

// Options tune the TUI.
type Options struct {
	PageSize         int
	ReminderInterval time.Duration
	ExportDir        string
}

// Model is the top-level BubbleTea model for the favor ledger TUI.
type Model struct {
	state  appState
	deps   Deps
	opts   Options
	keys   dashboardKeyMap
	styles styles
	now    func() time.Time

	events      chan ledger.Event
	unsubscribe func()

	people  list.Model
	filters aggregate.Filters
	totals  aggregate.Totals
	search  textinput.Model

	person  string
	summary model.PersonSummary
	page    aggregate.Page
	pager   paginator.Model
	cursor  int

	form        favorForm
	profileForm profileForm
	comment     textinput.Model
	importPath  textinput.Model

	confirm   confirmKind
	confirmID int64
	returnTo  appState

	logs     []store.ErrorLog
	logStats store.LogStats

	toast    string
	toastErr bool
	toastSeq int

	width  int
	height int
}

type ledgerEventMsg ledger.Event
type reminderTickMsg time.Time
type clearToastMsg int

type importReadMsg struct {
	path string
	text string
	err  error
}

type exportDoneMsg struct {
	path    string
	count   int
	err     error
	clipErr error
}

// New creates the TUI model and subscribes it to ledger events.
func New(d Deps, o Options) Model {
	if d.Clipboard == nil {
		d.Clipboard = clipboard.WriteAll
	}
	if o.PageSize <= 0 {
		o.PageSize = aggregate.DefaultPageSize
	}
	if o.ReminderInterval <= 0 {
		o.ReminderInterval = reminder.DefaultInterval
	}
	if o.ExportDir == "" {
		o.ExportDir = "."
	}

	st := newStyles(d.Profile.Theme())
	keys := newDashboardKeyMap()

	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.Title = "People"
	l.Styles.Title = st.title
	l.SetShowHelp(true)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.SetStatusBarItemName("person", "people")
	l.AdditionalShortHelpKeys = keys.short
	l.AdditionalFullHelpKeys = keys.full

	search := textinput.New()
	search.Placeholder = "Search title, person, description..."
	search.Prompt = "/ "

	comment := textinput.New()
	comment.Placeholder = "Add a comment..."
	comment.CharLimit = ledger.MaxComment + 50

	importPath := textinput.New()
	importPath.Placeholder = "path/to/favors.csv"

	pager := paginator.New()
	pager.Type = paginator.Arabic
	pager.PerPage = o.PageSize

	events := make(chan ledger.Event, 64)
	unsubscribe := d.Ledger.Subscribe(func(ev ledger.Event) {
		select {
		case events <- ev:
		default:
		}
	})

	m := Model{
		state:       stateDashboard,
		deps:        d,
		opts:        o,
		keys:        keys,
		styles:      st,
		now:         time.Now,
		events:      events,
		unsubscribe: unsubscribe,
		people:      l,
		filters:     aggregate.Filters{Status: aggregate.StatusAll},
		search:      search,
		pager:       pager,
		comment:     comment,
		importPath:  importPath,
	}
	if !d.Profile.HasProfile() {
		m.state = stateSetup
		m.profileForm = newProfileForm(model.Profile{})
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.events),
		func() tea.Msg { return reminderTickMsg(time.Now()) },
	)
}

func waitForEvent(ch <-chan ledger.Event) tea.Cmd {
	return func() tea.Msg {
		return ledgerEventMsg(<-ch)
	}
}

func (m Model) reminderTick() tea.Cmd {
	return tea.Tick(m.opts.ReminderInterval, func(t time.Time) tea.Msg {
		return reminderTickMsg(t)
	})
}

// showToast sets the status line and schedules it to clear.
func (m *Model) showToast(text string, isErr bool) tea.Cmd {
	m.toastSeq++
	seq := m.toastSeq
	m.toast = text
	m.toastErr = isErr
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return clearToastMsg(seq)
	})
}

// fail records err in the error log and shows it.
func (m *Model) fail(err error, context, text string) tea.Cmd {
	m.record(err, context)
	return m.showToast(text, true)
}

// record appends err to the diagnostic log without a toast.
func (m *Model) record(err error, context string) {
	if m.deps.Errors != nil {
		m.deps.Errors.Record(err, context)
	}
}

// refresh recomputes every derived view from the ledger.
func (m *Model) refresh() {
	favors := m.deps.Ledger.Favors()
	m.totals = aggregate.DashboardTotals(favors)

	if m.filters.Person != "" && !slices.Contains(aggregate.People(favors), m.filters.Person) {
		m.filters.Person = ""
	}
	summaries := aggregate.PersonSummaries(favors, m.filters)
	items := make([]list.Item, len(summaries))
	for i, s := range summaries {
		items[i] = PersonItem{Summary: s}
	}
	m.people.SetItems(items)

	if m.person == "" {
		return
	}
	m.loadPage(favors, m.page.Page)
	if m.page.TotalPages == 0 && m.state == stateDetail {
		m.person = ""
		m.state = stateDashboard
	}
}

func (m *Model) loadPage(favors []model.Favor, page int) {
	m.page = aggregate.PersonPage(favors, m.person, page, m.opts.PageSize)
	m.pager.TotalPages = max(m.page.TotalPages, 1)
	m.pager.Page = m.page.Page - 1
	m.cursor = min(m.cursor, len(m.page.Favors)-1)
	m.cursor = max(m.cursor, 0)

	m.summary = model.PersonSummary{Name: m.person}
	for _, s := range aggregate.PersonSummaries(favors, aggregate.Filters{}) {
		if s.Name == m.person {
			m.summary = s
		}
	}
}

func (m Model) selectedFavor() (model.Favor, bool) {
	if m.cursor < 0 || m.cursor >= len(m.page.Favors) {
		return model.Favor{}, false
	}
	return m.page.Favors[m.cursor], true
}

// run dispatches c. Validation errors are returned for inline display;
// storage failures and missing favors become toasts.
func (m *Model) run(c ledger.Command) (ledger.Result, tea.Cmd, error) {
	res, err := m.deps.Ledger.Dispatch(c)
	var verr *ledger.ValidationError
	if errors.As(err, &verr) {
		return res, nil, err
	}
	m.refresh()
	if err != nil {
		return res, m.showToast("Not saved to disk: "+err.Error(), true), nil
	}
	if !res.Found {
		return res, m.showToast("Favor not found", true), nil
	}
	return res, nil, nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := m.styles.app.GetFrameSize()
		m.people.SetSize(msg.Width-h, max(msg.Height-v-8, 5))
		if m.state == stateForm {
			m.form.setWidth(msg.Width - h - 4)
		}
		return m, nil

	case ledgerEventMsg:
		m.refresh()
		return m, waitForEvent(m.events)

	case reminderTickMsg:
		next := m.reminderTick()
		if m.deps.Reminders == nil {
			return m, next
		}
		notices := m.deps.Reminders.Check(time.Time(msg))
		if len(notices) == 0 {
			return m, next
		}
		texts := make([]string, len(notices))
		for i, n := range notices {
			texts[i] = n.Message()
		}
		cmd := tea.Batch(next, m.showToast(strings.Join(texts, " | "), false))
		return m, cmd

	case clearToastMsg:
		if int(msg) == m.toastSeq {
			m.toast = ""
			m.toastErr = false
		}
		return m, nil

	case importReadMsg:
		return m.finishImport(msg)

	case exportDoneMsg:
		if msg.err != nil {
			cmd := m.fail(msg.err, "Export CSV", "Export failed: "+msg.err.Error())
			return m, cmd
		}
		text := fmt.Sprintf("Exported %d favors to %s", msg.count, msg.path)
		if msg.clipErr == nil {
			text += " and copied to clipboard"
		}
		cmd := m.showToast(text, false)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.unsubscribe()
			return m, tea.Quit
		}
	}

	switch m.state {
	case stateSetup, stateProfile:
		return m.updateProfile(msg)
	case stateDashboard:
		return m.updateDashboard(msg)
	case stateSearch:
		return m.updateSearch(msg)
	case stateDetail:
		return m.updateDetail(msg)
	case stateForm:
		return m.updateForm(msg)
	case stateConfirm:
		return m.updateConfirm(msg)
	case stateComment:
		return m.updateComment(msg)
	case stateLeaderboard:
		return m.updateLeaderboard(msg)
	case stateImport:
		return m.updateImport(msg)
	case stateErrorLog:
		return m.updateErrorLog(msg)
	}

	return m, nil
}

func (m Model) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "q":
			m.unsubscribe()
			return m, tea.Quit
		case "a", "n":
			return m.openForm(newFavorForm())
		case "enter":
			if item, ok := m.people.SelectedItem().(PersonItem); ok {
				m.person = item.Summary.Name
				m.page = aggregate.Page{Page: 1}
				m.cursor = 0
				m.state = stateDetail
				m.refresh()
			}
			return m, nil
		case "tab":
			m.filters.Status = cycleNext(statusCycle, m.filters.Status)
			m.refresh()
			return m, nil
		case "p":
			people := append([]string{""}, aggregate.People(m.deps.Ledger.Favors())...)
			m.filters.Person = cycleNext(people, m.filters.Person)
			m.refresh()
			return m, nil
		case "/":
			m.state = stateSearch
			m.search.SetValue(m.filters.Search)
			cmd := m.search.Focus()
			return m, cmd
		case "L":
			m.state = stateLeaderboard
			return m, nil
		case "I":
			m.state = stateImport
			m.importPath.Reset()
			cmd := m.importPath.Focus()
			return m, cmd
		case "E":
			return m, exportCmd(m.opts.ExportDir, m.deps.Ledger.Favors(), m.now(), m.deps.Clipboard)
		case "T":
			t, err := m.deps.Profile.ToggleTheme()
			if err != nil {
				cmd := m.fail(err, "Toggle theme", "Could not save theme")
				return m, cmd
			}
			m.styles = newStyles(t)
			m.people.Styles.Title = m.styles.title
			cmd := m.showToast("Theme: "+string(t), false)
			return m, cmd
		case "!":
			m.loadLogs()
			m.state = stateErrorLog
			return m, nil
		case "P":
			p, _ := m.deps.Profile.Profile()
			m.profileForm = newProfileForm(p)
			m.state = stateProfile
			return m, nil
		case "X":
			m.confirm = confirmReset
			m.returnTo = stateDashboard
			m.state = stateConfirm
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.people, cmd = m.people.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			m.search.Blur()
			m.state = stateDashboard
			return m, nil
		case "esc":
			m.search.Reset()
			m.search.Blur()
			m.filters.Search = ""
			m.refresh()
			m.state = stateDashboard
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.filters.Search {
		m.filters.Search = m.search.Value()
		m.refresh()
	}
	return m, cmd
}

func (m Model) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	f, hasFavor := m.selectedFavor()

	switch k := keyMsg.String(); k {
	case "esc", "backspace":
		m.person = ""
		m.state = stateDashboard
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.page.Favors)-1 {
			m.cursor++
		}
		return m, nil
	case "a", "n":
		form := newFavorForm()
		form.person.SetValue(m.person)
		return m.openForm(form)
	case "y":
		text := report.PersonStatement(m.summary, m.deps.Ledger.Favors(), m.now())
		if err := m.deps.Clipboard(text); err != nil {
			cmd := m.fail(err, "Copy statement", "Clipboard unavailable")
			return m, cmd
		}
		cmd := m.showToast("Statement copied to clipboard", false)
		return m, cmd
	case "x", "enter":
		if hasFavor {
			_, cmd, _ := m.run(ledger.ToggleStatus{ID: f.ID})
			return m, cmd
		}
	case "0", "1", "2", "3", "4", "5":
		if hasFavor {
			_, cmd, _ := m.run(ledger.SetRating{ID: f.ID, Rating: int(k[0] - '0')})
			return m, cmd
		}
	case "c":
		if hasFavor {
			m.confirmID = f.ID
			m.comment.Reset()
			m.state = stateComment
			cmd := m.comment.Focus()
			return m, cmd
		}
	case "e":
		if hasFavor {
			return m.openForm(formFor(f))
		}
	case "d":
		if hasFavor {
			m.confirm = confirmDelete
			m.confirmID = f.ID
			m.returnTo = stateDetail
			m.state = stateConfirm
		}
		return m, nil
	}

	before := m.pager.Page
	var cmd tea.Cmd
	m.pager, cmd = m.pager.Update(msg)
	if m.pager.Page != before {
		m.cursor = 0
		m.loadPage(m.deps.Ledger.Favors(), m.pager.Page+1)
	}
	return m, cmd
}

func (m Model) openForm(form favorForm) (tea.Model, tea.Cmd) {
	h, _ := m.styles.app.GetFrameSize()
	form.setWidth(m.width - h - 4)
	m.returnTo = m.state
	m.form = form
	m.state = stateForm
	cmd := m.form.focusField(fieldTitle)
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.state = m.returnTo
		return m, nil
	}

	form, cmd, submit := m.form.update(msg)
	m.form = form
	if !submit {
		return m, cmd
	}

	c, err := m.form.command()
	if err != nil {
		m.record(err, "Favor - Save")
		m.form.err = err.Error()
		return m, nil
	}
	res, toast, err := m.run(c)
	if err != nil {
		m.record(err, "Favor - Save")
		m.form.err = err.Error()
		return m, nil
	}

	m.state = m.returnTo
	m.refresh()
	if m.form.editID == 0 {
		if f, ok := m.deps.Ledger.Favor(res.ID); ok {
			if m.state == stateDetail && f.Person != m.person {
				m.state = stateDashboard
				m.person = ""
			}
			if toast == nil {
				toast = m.showToast(fmt.Sprintf("Added %q", f.Title), false)
			}
		}
	}
	return m, toast
}

func (m Model) updateComment(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			m.state = stateDetail
			_, cmd, err := m.run(ledger.AddComment{ID: m.confirmID, Text: m.comment.Value()})
			if err != nil {
				cmd = m.showToast(err.Error(), true)
			}
			return m, cmd
		case "esc":
			m.state = stateDetail
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.comment, cmd = m.comment.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y":
		m.state = m.returnTo
		switch m.confirm {
		case confirmDelete:
			_, cmd, _ := m.run(ledger.DeleteFavor{ID: m.confirmID})
			return m, cmd
		case confirmReset:
			if err := m.deps.Ledger.Reset(); err != nil {
				m.refresh()
				cmd := m.showToast("Not saved to disk: "+err.Error(), true)
				return m, cmd
			}
			m.refresh()
			cmd := m.showToast("All favors cleared", false)
			return m, cmd
		case confirmClearLogs:
			if err := m.deps.Errors.ClearLogs(); err != nil {
				cmd := m.showToast("Could not clear error log", true)
				return m, cmd
			}
			m.loadLogs()
			cmd := m.showToast("Error log cleared", false)
			return m, cmd
		}
	case "n", "esc":
		m.state = m.returnTo
	}
	return m, nil
}

func (m Model) updateLeaderboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q", "L":
			m.state = stateDashboard
		}
	}
	return m, nil
}

func (m Model) updateImport(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			path := expandHome(strings.TrimSpace(m.importPath.Value()))
			m.importPath.Blur()
			m.state = stateDashboard
			if path == "" {
				return m, nil
			}
			cmd := tea.Batch(readImportCmd(path), m.showToast("Importing "+path+"...", false))
			return m, cmd
		case "esc":
			m.importPath.Blur()
			m.state = stateDashboard
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.importPath, cmd = m.importPath.Update(msg)
	return m, cmd
}

func readImportCmd(path string) tea.Cmd {
	return func() tea.Msg {
		text, err := importer.ReadFile(path)
		return importReadMsg{path: path, text: text, err: err}
	}
}

func (m Model) finishImport(msg importReadMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		cmd := m.fail(msg.err, "Import CSV", "Error reading file")
		return m, cmd
	}
	rep, err := importer.Import(m.deps.Ledger, msg.text)
	m.refresh()
	if err != nil {
		cmd := m.fail(err, "Import CSV", "No valid data found in CSV file")
		return m, cmd
	}
	text := fmt.Sprintf("Imported %d favors", rep.Imported)
	if n := len(rep.Skipped); n > 0 {
		text += fmt.Sprintf(", skipped %d rows", n)
	}
	if rep.StorageErr != nil {
		cmd := m.showToast(text+" (not saved to disk)", true)
		return m, cmd
	}
	cmd := m.showToast(text, false)
	return m, cmd
}

func exportCmd(dir string, favors []model.Favor, now time.Time, toClipboard func(string) error) tea.Cmd {
	return func() tea.Msg {
		text := importer.ExportCSV(favors)
		path := filepath.Join(dir, importer.ExportFileName(now))
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return exportDoneMsg{err: fmt.Errorf("write %s: %w", path, err)}
		}
		return exportDoneMsg{path: path, count: len(favors), clipErr: toClipboard(text)}
	}
}

func (m *Model) loadLogs() {
	logs, err := m.deps.Errors.Logs()
	if err != nil {
		logs = nil
	}
	m.logs = logs
	m.logStats, _ = m.deps.Errors.Stats(m.now())
}

func (m Model) updateErrorLog(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "esc", "q", "!":
		m.state = stateDashboard
	case "c":
		if len(m.logs) > 0 {
			m.confirm = confirmClearLogs
			m.returnTo = stateErrorLog
			m.state = stateConfirm
		}
	case "y":
		if err := m.deps.Clipboard(report.ErrorLogText(m.logs)); err != nil {
			cmd := m.showToast("Clipboard unavailable", true)
			return m, cmd
		}
		cmd := m.showToast("Error log copied to clipboard", false)
		return m, cmd
	case "w":
		path := filepath.Join(m.opts.ExportDir, report.ErrorLogFileName(m.now()))
		if err := os.WriteFile(path, []byte(report.ErrorLogText(m.logs)), 0o644); err != nil {
			cmd := m.showToast("Could not write "+path, true)
			return m, cmd
		}
		cmd := m.showToast("Error log written to "+path, false)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateProfile(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" && m.state == stateProfile {
		m.state = stateDashboard
		return m, nil
	}

	form, cmd, submit := m.profileForm.update(msg)
	m.profileForm = form
	if !submit {
		return m, cmd
	}

	if err := m.deps.Profile.Save(m.profileForm.profile()); err != nil {
		m.record(err, "Profile - Save")
		m.profileForm.err = err.Error()
		return m, nil
	}
	switch path := m.profileForm.avatarPath(); path {
	case "":
	case "-":
		if err := m.deps.Profile.RemoveAvatar(); err != nil {
			m.record(err, "Profile - Avatar")
			m.profileForm.err = err.Error()
			return m, nil
		}
	default:
		data, err := os.ReadFile(expandHome(path))
		if err == nil {
			err = m.deps.Profile.SetAvatar(data)
		}
		if err != nil {
			m.record(err, "Profile - Avatar")
			m.profileForm.err = err.Error()
			return m, nil
		}
	}
	m.state = stateDashboard
	cmd = m.showToast("Profile saved", false)
	return m, cmd
}

func expandHome(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return path
}

func cycleNext(cycle []string, cur string) string {
	for i, v := range cycle {
		if v == cur {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

