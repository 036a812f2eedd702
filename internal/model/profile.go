package model

// Profile is the user's identity shown in the header.
type Profile struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// PersonSummary is the derived balance for one counterparty.
type PersonSummary struct {
	Name      string
	OweValue  int // pending units the user owes this person
	OwedValue int // pending units this person owes the user
	Total     int // every favor, regardless of status
	Balance   int // OwedValue - OweValue
}

// Theme is the color scheme of the interface.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)
