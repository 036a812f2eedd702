package aggregate

import (
	"sort"

	"github.com/nissyi-gh/socialdebt/internal/model"
)

// DefaultPageSize is the number of favors shown per detail page.
const DefaultPageSize = 10

// Page is one page of a person's favors.
type Page struct {
	Favors     []model.Favor
	Page       int // 1-based, clamped into range
	TotalPages int // 0 when the person has no favors
}

// PersonPage returns the requested page of person's favors, newest first.
// Out-of-range pages are clamped, so a page that emptied after a delete
// falls back to the last one.
func PersonPage(favors []model.Favor, person string, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	var mine []model.Favor
	for _, f := range favors {
		if f.Person == person {
			mine = append(mine, f)
		}
	}
	sort.SliceStable(mine, func(a, b int) bool {
		return mine[a].Date.After(mine[b].Date)
	})

	total := (len(mine) + size - 1) / size
	if page > total {
		page = total
	}
	if page < 1 {
		page = 1
	}
	if total == 0 {
		return Page{Page: 1}
	}
	start := (page - 1) * size
	end := min(start+size, len(mine))
	return Page{Favors: mine[start:end], Page: page, TotalPages: total}
}
