package domain

import "time"

// EditKind identifies the editing operation recorded in the journal
type EditKind string

const (
	EditCloseStation EditKind = "close_station"
	EditReplacement  EditKind = "replacement"
	EditAlternative  EditKind = "alternative"
)

// Edit is a journal record of one applied editing operation
type Edit struct {
	ID        string    `json:"id"`
	Kind      EditKind  `json:"kind"`
	Summary   string    `json:"summary"`
	Lines     []string  `json:"lines"`
	Stations  []string  `json:"stations"`
	CreatedAt time.Time `json:"created_at"`
}

// Valid reports whether kind is a known edit kind
func (k EditKind) Valid() bool {
	switch k {
	case EditCloseStation, EditReplacement, EditAlternative:
		return true
	}
	return false
}
