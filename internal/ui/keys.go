package ui

import "github.com/charmbracelet/bubbles/key"

type dashboardKeyMap struct {
	Add         key.Binding
	Open        key.Binding
	Status      key.Binding
	Person      key.Binding
	Search      key.Binding
	Leaderboard key.Binding
	Import      key.Binding
	Export      key.Binding
	Theme       key.Binding
	Errors      key.Binding
	Profile     key.Binding
	Reset       key.Binding
}

func newDashboardKeyMap() dashboardKeyMap {
	return dashboardKeyMap{
		Add: key.NewBinding(
			key.WithKeys("a", "n"),
			key.WithHelp("a/n", "add"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Status: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "status"),
		),
		Person: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "person"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Leaderboard: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "leaderboard"),
		),
		Import: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "import"),
		),
		Export: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "export"),
		),
		Theme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "theme"),
		),
		Errors: key.NewBinding(
			key.WithKeys("!"),
			key.WithHelp("!", "error log"),
		),
		Profile: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "profile"),
		),
		Reset: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear all"),
		),
	}
}

func (k dashboardKeyMap) short() []key.Binding {
	return []key.Binding{k.Add, k.Open, k.Status, k.Person, k.Search, k.Leaderboard}
}

func (k dashboardKeyMap) full() []key.Binding {
	return []key.Binding{k.Add, k.Open, k.Status, k.Person, k.Search, k.Leaderboard,
		k.Import, k.Export, k.Theme, k.Errors, k.Profile, k.Reset}
}
