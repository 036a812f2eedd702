// Package aggregate derives balances and filtered views from a favor list.
// Nothing here mutates its input.
package aggregate

import (
	"sort"
	"strings"

	"github.com/nissyi-gh/socialdebt/internal/model"
)

// StatusAll disables the status filter.
const StatusAll = "all"

// Filters narrow the favor list. All active filters must pass.
type Filters struct {
	Status string // "all", "pending" or "completed"
	Person string // "" matches any person
	Search string // case-insensitive substring of title, person or description
}

// Match reports whether f passes every active filter.
func (fl Filters) Match(f model.Favor) bool {
	if fl.Status != "" && fl.Status != StatusAll && string(f.Status) != fl.Status {
		return false
	}
	if fl.Person != "" && f.Person != fl.Person {
		return false
	}
	if fl.Search != "" {
		q := strings.ToLower(fl.Search)
		return strings.Contains(strings.ToLower(f.Title), q) ||
			strings.Contains(strings.ToLower(f.Person), q) ||
			strings.Contains(strings.ToLower(f.Description), q)
	}
	return true
}

// Apply returns the favors that pass fl, in their original order.
func Apply(favors []model.Favor, fl Filters) []model.Favor {
	var out []model.Favor
	for _, f := range favors {
		if fl.Match(f) {
			out = append(out, f)
		}
	}
	return out
}

// PersonSummaries groups the filtered favors by person and sorts the result
// by balance, highest first. Ties keep first-appearance order.
//
// Only pending favors count toward OweValue and OwedValue, each weighing
// its value or 1 when unset. Total counts every matching favor.
func PersonSummaries(favors []model.Favor, fl Filters) []model.PersonSummary {
	index := make(map[string]int)
	var out []model.PersonSummary

	for _, f := range favors {
		if !fl.Match(f) {
			continue
		}
		i, ok := index[f.Person]
		if !ok {
			i = len(out)
			index[f.Person] = i
			out = append(out, model.PersonSummary{Name: f.Person})
		}
		s := &out[i]
		if f.IsPending() {
			if f.Direction == model.Owe {
				s.OweValue += f.Units()
			} else {
				s.OwedValue += f.Units()
			}
		}
		s.Total++
	}

	for i := range out {
		out[i].Balance = out[i].OwedValue - out[i].OweValue
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Balance > out[b].Balance
	})
	return out
}

// Totals are the dashboard figures over the whole favor list.
type Totals struct {
	OweValue  int
	OwedValue int
	Balance   int
	Active    int
	Completed int
}

// DashboardTotals sums pending units in each direction and counts favors by status.
func DashboardTotals(favors []model.Favor) Totals {
	var t Totals
	for _, f := range favors {
		if !f.IsPending() {
			t.Completed++
			continue
		}
		t.Active++
		if f.Direction == model.Owe {
			t.OweValue += f.Units()
		} else {
			t.OwedValue += f.Units()
		}
	}
	t.Balance = t.OwedValue - t.OweValue
	return t
}

// LeaderboardEntry ranks a person by the units still unsettled with them.
type LeaderboardEntry struct {
	Name    string
	Score   int
	Balance int
}

// Leaderboard orders people by OweValue+OwedValue, highest first.
func Leaderboard(people []model.PersonSummary) []LeaderboardEntry {
	out := make([]LeaderboardEntry, len(people))
	for i, p := range people {
		out[i] = LeaderboardEntry{Name: p.Name, Score: p.OweValue + p.OwedValue, Balance: p.Balance}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Score > out[b].Score
	})
	return out
}

// People returns the distinct person names, sorted.
func People(favors []model.Favor) []string {
	seen := make(map[string]bool)
	var names []string
	for _, f := range favors {
		if !seen[f.Person] {
			seen[f.Person] = true
			names = append(names, f.Person)
		}
	}
	sort.Strings(names)
	return names
}
