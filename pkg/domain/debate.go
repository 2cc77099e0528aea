package domain

import (
	"fmt"
	"strings"
)

// DebateTurn is one argument in the researcher debate.
type DebateTurn struct {
	Role     string `json:"role"`
	Argument string `json:"argument"`
}

// DebateRecord is the ordered, append-only transcript of the debate.
// Append copies rather than mutates, so a record already captured in a
// context snapshot is never changed retroactively.
type DebateRecord []DebateTurn

// Append returns a new record with the turn added.
func (r DebateRecord) Append(role, argument string) DebateRecord {
	next := make(DebateRecord, len(r), len(r)+1)
	copy(next, r)
	return append(next, DebateTurn{Role: role, Argument: argument})
}

// Transcript renders the debate as numbered turns, the form consumed by
// the judge.
func (r DebateRecord) Transcript() string {
	var b strings.Builder
	for i, turn := range r {
		fmt.Fprintf(&b, "Turn %d [%s]:\n%s\n\n", i+1, strings.ToUpper(turn.Role), turn.Argument)
	}
	return b.String()
}
