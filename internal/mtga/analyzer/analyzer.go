// Package analyzer wires the full pipeline: parse, enrich, synergy edge
// generation, structural summary, and the structural power score.
package analyzer

import (
	"context"

	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deckimport"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/enrich"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/montecarlo"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/structural"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/synergy"
)

// Result is a complete analysis of one deck state.
type Result struct {
	State   *deck.State         `json:"state"`
	Summary *structural.Summary `json:"summary"`
	Edges   []synergy.Edge      `json:"edges"`
	Issues  []deckimport.Issue  `json:"issues"`
}

// Analyzer runs deck analyses, optionally enriching entries through a
// card lookup.
type Analyzer struct {
	lookup enrich.Lookup
}

// New returns an analyzer. A nil lookup disables card tagging; roles
// then stay whatever the caller supplied.
func New(lookup enrich.Lookup) *Analyzer {
	return &Analyzer{lookup: lookup}
}

// AnalyzeText parses raw deck text and analyzes the result.
func (a *Analyzer) AnalyzeText(ctx context.Context, input string) *Result {
	parsed := deckimport.Parse(input)

	enriched := enrich.Entries(ctx, parsed.Deck.Entries, a.lookup)
	issues := parsed.Issues
	if enriched.Active {
		// Once roles are inferred the parser's blanket UTILITY warning
		// is stale.
		filtered := issues[:0:0]
		for _, issue := range issues {
			if issue.Code != deckimport.IssueRolesDefaulted {
				filtered = append(filtered, issue)
			}
		}
		issues = filtered
	}
	issues = append(issues, enriched.Issues...)

	state := &deck.State{Deck: deck.Deck{Entries: enriched.Entries}}
	result := a.AnalyzeState(state)
	result.Issues = issues
	return result
}

// AnalyzeState analyzes an already-assembled deck state, such as one
// decoded from a share token. The state is not mutated.
func (a *Analyzer) AnalyzeState(state *deck.State) *Result {
	summary := structural.ComputeSummary(state)
	edges := synergy.GenerateEdges(state.Deck.Entries)
	summary.StructuralPowerScore = structural.ComputeSPS(summary, edges)

	return &Result{
		State:   state,
		Summary: summary,
		Edges:   edges,
		Issues:  []deckimport.Issue{},
	}
}

// Rescorer returns the scoring function the Monte Carlo simulation
// perturbs against. Role edges and active pipelines are pinned from the
// base state; only the entry list varies per iteration.
func (a *Analyzer) Rescorer(base *deck.State) montecarlo.RescoreFunc {
	return func(_ context.Context, entries []deck.Entry) (float64, error) {
		state := &deck.State{
			Deck:            deck.Deck{Entries: entries},
			Edges:           base.Edges,
			PipelinesActive: base.PipelinesActive,
			Sim:             base.Sim,
		}
		summary := structural.ComputeSummary(state)
		edges := synergy.GenerateEdges(entries)
		return structural.ComputeSPS(summary, edges).SPS, nil
	}
}

// Simulate runs the swap-1 Monte Carlo against an analyzed state.
func (a *Analyzer) Simulate(ctx context.Context, state *deck.State, settings *montecarlo.Settings, prov *montecarlo.Provenance, onProgress func(completed, total int)) (*montecarlo.Result, error) {
	baseResult := a.AnalyzeState(state)
	return montecarlo.Run(ctx, montecarlo.RunArgs{
		Entries:    state.Deck.Entries,
		BaseSPS:    baseResult.Summary.StructuralPowerScore.SPS,
		Rescore:    a.Rescorer(state),
		Settings:   settings,
		Provenance: prov,
		OnProgress: onProgress,
	})
}
