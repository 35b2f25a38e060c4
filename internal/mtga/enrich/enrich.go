// Package enrich attaches card features and inferred roles to parsed
// deck entries using an external card lookup. Lookups fail closed: any
// service error leaves the deck untouched apart from a warning.
package enrich

import (
	"context"

	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/cards"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deckimport"
)

const (
	IssueTaggingActive      deckimport.IssueCode = "TAGGING_ACTIVE"
	IssueTaggingNoMatches   deckimport.IssueCode = "TAGGING_NO_MATCHES"
	IssueTaggingUnavailable deckimport.IssueCode = "TAGGING_UNAVAILABLE"
)

// Lookup resolves a normalized card name to its record. A nil record
// with a nil error means the card is unknown.
type Lookup interface {
	Lookup(ctx context.Context, nameNorm string) (*cards.Record, error)
}

// Result carries the (possibly) enriched entries and the issues the
// pass added. Active is true when at least one card matched and role
// inference ran.
type Result struct {
	Entries []deck.Entry
	Issues  []deckimport.Issue
	Active  bool
}

// Entries looks up every entry and, on a match, attaches extracted
// features and replaces the primary role with the inferred one.
// Unmatched entries pass through unchanged. If any lookup errors the
// whole pass is abandoned and the input entries are returned as-is with
// a TAGGING_UNAVAILABLE warning.
func Entries(ctx context.Context, entries []deck.Entry, lookup Lookup) *Result {
	if lookup == nil {
		return &Result{Entries: entries}
	}

	enriched := make([]deck.Entry, 0, len(entries))
	matches := 0

	for _, entry := range entries {
		record, err := lookup.Lookup(ctx, entry.NameNorm)
		if err != nil {
			return &Result{
				Entries: entries,
				Issues: []deckimport.Issue{{
					Code:     IssueTaggingUnavailable,
					Severity: deckimport.SeverityWarning,
					Message:  "Cards index unavailable; roles default to UTILITY.",
				}},
			}
		}
		if record == nil {
			enriched = append(enriched, entry)
			continue
		}

		matches++
		features := cards.ExtractFeatures(record)
		entry.Features = features
		entry.RolePrimary = cards.InferRole(features)
		enriched = append(enriched, entry)
	}

	if matches == 0 {
		return &Result{
			Entries: enriched,
			Issues: []deckimport.Issue{{
				Code:     IssueTaggingNoMatches,
				Severity: deckimport.SeverityWarning,
				Message:  "Cards index available but no cards matched.",
			}},
		}
	}

	return &Result{
		Entries: enriched,
		Issues: []deckimport.Issue{{
			Code:     IssueTaggingActive,
			Severity: deckimport.SeverityInfo,
			Message:  "Cards index loaded; roles inferred.",
		}},
		Active: true,
	}
}
