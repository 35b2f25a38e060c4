package share

import (
	"errors"
	"sort"
	"strings"

	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/cards"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"
)

// ErrCountInvalid rejects entries that cannot survive a share round
// trip. Shared decks carry only positive copy counts.
var ErrCountInvalid = errors.New("share: entry count must be a positive integer")

// State is the canonical shareable snapshot: merged, sorted, and
// versioned so the same deck always encodes to the same token.
type State struct {
	SchemaVersion   int               `json:"schema_version"`
	Deck            deck.Deck         `json:"deck"`
	Edges           []deck.RoleEdge   `json:"edges"`
	PipelinesActive []string          `json:"pipelines_active"`
	Sim             *deck.SimSettings `json:"sim,omitempty"`
}

// Canonicalize merges duplicate entries by normalized name, sorts them,
// and pins the schema version. The first spelling of a merged name wins.
func Canonicalize(state *deck.State, schemaVersion int) (*State, error) {
	merged := make(map[string]*deck.Entry)
	order := make([]string, 0, len(state.Deck.Entries))

	for _, entry := range state.Deck.Entries {
		if entry.Count < 1 {
			return nil, ErrCountInvalid
		}
		name := strings.TrimSpace(entry.Name)
		norm := cards.Normalize(name)

		if existing, ok := merged[norm]; ok {
			existing.Count += entry.Count
			continue
		}
		merged[norm] = &deck.Entry{
			Name:        name,
			NameNorm:    norm,
			Count:       entry.Count,
			RolePrimary: entry.RolePrimary,
		}
		order = append(order, norm)
	}

	sort.Strings(order)
	entries := make([]deck.Entry, 0, len(order))
	for _, norm := range order {
		entries = append(entries, *merged[norm])
	}

	edges := state.Edges
	if edges == nil {
		edges = []deck.RoleEdge{}
	}
	pipelines := state.PipelinesActive
	if pipelines == nil {
		pipelines = []string{}
	}

	return &State{
		SchemaVersion:   schemaVersion,
		Deck:            deck.Deck{Entries: entries},
		Edges:           edges,
		PipelinesActive: pipelines,
		Sim:             state.Sim,
	}, nil
}
