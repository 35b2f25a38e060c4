package analyzer

import (
	"context"
	"testing"

	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/cards"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deckimport"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/enrich"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/montecarlo"
)

const burnList = `Deck
4 Lightning Bolt
4 Monastery Swiftspear
20 Mountain
`

type indexLookup map[string]*cards.Record

func (l indexLookup) Lookup(_ context.Context, nameNorm string) (*cards.Record, error) {
	return l[nameNorm], nil
}

func burnIndex() indexLookup {
	return indexLookup{
		"lightning bolt": {
			Name: "Lightning Bolt", TypeLine: "Instant",
			OracleText: "Lightning Bolt deals 3 damage to target creature or player.", CMC: 1,
		},
		"monastery swiftspear": {
			Name: "Monastery Swiftspear", TypeLine: "Creature - Human Monk",
			OracleText: "Haste\nProwess", CMC: 1,
		},
		"mountain": {
			Name: "Mountain", TypeLine: "Basic Land - Mountain",
			OracleText: "{T}: Add {R}.",
		},
	}
}

func hasCode(issues []deckimport.Issue, code deckimport.IssueCode) bool {
	for _, issue := range issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

func TestAnalyzeTextWithTagging(t *testing.T) {
	result := New(burnIndex()).AnalyzeText(context.Background(), burnList)

	if result.Summary.TotalCards != 28 {
		t.Errorf("total_cards = %d, want 28", result.Summary.TotalCards)
	}
	if !hasCode(result.Issues, enrich.IssueTaggingActive) {
		t.Errorf("issues = %v, want TAGGING_ACTIVE", result.Issues)
	}
	if hasCode(result.Issues, deckimport.IssueRolesDefaulted) {
		t.Error("UTILITY default warning must be dropped once tagging ran")
	}

	// Bolt tags as REMOVAL, Swiftspear as a low-cost PAYOFF, Mountain as
	// LAND, so the burn synergy rule fires.
	if result.Summary.RoleCounts[deck.RoleRemoval] != 4 {
		t.Errorf("REMOVAL count = %d, want 4", result.Summary.RoleCounts[deck.RoleRemoval])
	}
	if len(result.Edges) == 0 {
		t.Fatal("expected synergy edges for bolt + swiftspear")
	}
	if result.Summary.StructuralPowerScore == nil || result.Summary.StructuralPowerScore.SPS <= 0 {
		t.Error("SPS must be positive with synergy edges present")
	}
}

func TestAnalyzeTextWithoutLookup(t *testing.T) {
	result := New(nil).AnalyzeText(context.Background(), burnList)

	if !hasCode(result.Issues, deckimport.IssueRolesDefaulted) {
		t.Error("without tagging the UTILITY default warning must remain")
	}
	if result.Summary.RoleCounts[deck.RoleUtility] != 28 {
		t.Errorf("UTILITY count = %d, want 28", result.Summary.RoleCounts[deck.RoleUtility])
	}
	if result.Summary.StructuralPowerScore == nil {
		t.Fatal("SPS must be computed even without tagging")
	}
	if result.Summary.StructuralPowerScore.SPS != 0 {
		t.Errorf("sps = %v, want 0 with no edges", result.Summary.StructuralPowerScore.SPS)
	}
}

func TestRescorerMatchesAnalyzeState(t *testing.T) {
	a := New(burnIndex())
	analyzed := a.AnalyzeText(context.Background(), burnList)
	state := analyzed.State

	rescore := a.Rescorer(state)
	sps, err := rescore(context.Background(), state.Deck.Entries)
	if err != nil {
		t.Fatalf("rescore: %v", err)
	}
	if sps != analyzed.Summary.StructuralPowerScore.SPS {
		t.Errorf("rescore on unperturbed entries = %v, want base %v",
			sps, analyzed.Summary.StructuralPowerScore.SPS)
	}
}

func TestSimulateEndToEnd(t *testing.T) {
	a := New(burnIndex())
	state := a.AnalyzeText(context.Background(), burnList).State

	iterations := 100
	result, err := a.Simulate(context.Background(), state,
		&montecarlo.Settings{Iterations: &iterations}, nil, nil)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if result.Dist.RequestedN != 100 {
		t.Errorf("requested_n = %d, want 100", result.Dist.RequestedN)
	}
	if result.Dist.EffectiveN == 0 {
		t.Error("two eligible non-land entries must yield effective iterations")
	}
	// Lands are excluded by default; only bolt and swiftspear swap.
	if result.Debug != nil {
		for _, step := range result.Debug.StepsSample {
			if step.From == "Mountain" || step.To == "Mountain" {
				t.Errorf("LAND entry in swap sample: %+v", step)
			}
		}
	}
}
