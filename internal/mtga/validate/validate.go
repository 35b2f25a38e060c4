// Package validate runs advisory checks over a deck state. Issues never
// block analysis; callers surface them alongside results.
package validate

import (
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/cards"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/structural"
)

// IssueCode identifies one advisory finding.
type IssueCode string

const (
	DeckTooSmall      IssueCode = "DECK_TOO_SMALL"
	CountInvalid      IssueCode = "COUNT_INVALID"
	InvalidRole       IssueCode = "INVALID_ROLE"
	DuplicateEntry    IssueCode = "DUPLICATE_ENTRY"
	SelfEdge          IssueCode = "SELF_EDGE"
	PipelineNotFound  IssueCode = "PIPELINE_NOT_FOUND"
	InvalidTurnT      IssueCode = "INVALID_TURN_T"
	InvalidIterations IssueCode = "INVALID_ITERATIONS"
	InvalidMulligan   IssueCode = "INVALID_MULLIGAN"
)

const minDeckSize = 60

// State checks the deck state and returns every distinct issue found.
// Each code appears at most once regardless of how many entries trip it.
func State(ds *deck.State) []IssueCode {
	var issues []IssueCode

	if ds.Deck.TotalCards() < minDeckSize {
		issues = append(issues, DeckTooSmall)
	}

	for _, entry := range ds.Deck.Entries {
		if entry.Count < 1 {
			issues = append(issues, CountInvalid)
			break
		}
	}

	for _, entry := range ds.Deck.Entries {
		if entry.RolePrimary != "" && !deck.ValidRole(entry.RolePrimary) {
			issues = append(issues, InvalidRole)
			break
		}
	}

	seen := make(map[string]bool, len(ds.Deck.Entries))
	for _, entry := range ds.Deck.Entries {
		norm := entry.NameNorm
		if norm == "" {
			norm = cards.Normalize(entry.Name)
		}
		if seen[norm] {
			issues = append(issues, DuplicateEntry)
			break
		}
		seen[norm] = true
	}

	for _, edge := range ds.Edges {
		if edge.From == edge.To {
			issues = append(issues, SelfEdge)
			break
		}
	}

	for _, id := range ds.PipelinesActive {
		if _, ok := structural.PipelineByID[id]; !ok {
			issues = append(issues, PipelineNotFound)
			break
		}
	}

	if ds.Sim != nil {
		// Zero means unset for the integer knobs.
		if ds.Sim.TurnT < 0 {
			issues = append(issues, InvalidTurnT)
		}
		if ds.Sim.Iterations < 0 {
			issues = append(issues, InvalidIterations)
		}
		if ds.Sim.MulliganModel != "" && ds.Sim.MulliganModel != "none" {
			issues = append(issues, InvalidMulligan)
		}
	}

	return issues
}
