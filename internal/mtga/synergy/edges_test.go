package synergy

import (
	"fmt"
	"math"
	"testing"

	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"
)

func entry(name string, count int, role deck.Role, f *deck.Features) deck.Entry {
	return deck.Entry{
		Name:        name,
		NameNorm:    name,
		Count:       count,
		RolePrimary: role,
		Features:    f,
	}
}

func TestBurnSupportsThreat(t *testing.T) {
	entries := []deck.Entry{
		entry("lightning bolt", 4, deck.RoleRemoval, &deck.Features{
			Types: []string{"Instant"}, Removes: true,
		}),
		entry("monastery swiftspear", 4, deck.RolePayoff, &deck.Features{
			Types: []string{"Creature"}, IsCreature: true, IsLowCmcCreature: true,
			HasProwess: true, CmcBucket: 1,
		}),
	}

	edges := GenerateEdges(entries)

	var burn *Edge
	for i := range edges {
		if edges[i].Kind == KindBurnSupportsThreat {
			burn = &edges[i]
		}
	}
	if burn == nil {
		t.Fatal("expected a burn_supports_threat edge")
	}
	if burn.Weight != 16 {
		t.Errorf("weight = %d, want 16", burn.Weight)
	}
	// 16 * 1.2 (kind) * 1.5 (REMOVAL->PAYOFF)
	if math.Abs(burn.Score-28.8) > 1e-9 {
		t.Errorf("score = %v, want 28.8", burn.Score)
	}
}

func TestSpellsSupportProwess(t *testing.T) {
	entries := []deck.Entry{
		entry("opt", 3, deck.RoleDraw, &deck.Features{Types: []string{"Instant"}, DrawsCards: true}),
		entry("monastery swiftspear", 4, deck.RolePayoff, &deck.Features{
			Types: []string{"Creature"}, IsCreature: true, IsLowCmcCreature: true, HasProwess: true,
		}),
	}

	edges := GenerateEdges(entries)

	found := false
	for _, e := range edges {
		if e.Kind == KindSpellsSupportProwess && e.From == "opt" && e.To == "monastery swiftspear" {
			found = true
			if e.Weight != 12 {
				t.Errorf("weight = %d, want 12", e.Weight)
			}
			// No DRAW->PAYOFF role factor registered, so kind factor only.
			if math.Abs(e.Score-12*1.1) > 1e-9 {
				t.Errorf("score = %v, want %v", e.Score, 12*1.1)
			}
		}
	}
	if !found {
		t.Fatal("expected spells_support_prowess edge")
	}
}

func TestAnthemSupportsTokens(t *testing.T) {
	entries := []deck.Entry{
		entry("glorious anthem", 2, deck.RoleEngine, &deck.Features{
			Types: []string{"Enchantment"}, IsAnthem: true,
		}),
		entry("raise the alarm", 4, deck.RoleUtility, &deck.Features{
			Types: []string{"Instant"}, CreatesTokens: true,
		}),
	}

	edges := GenerateEdges(entries)

	found := false
	for _, e := range edges {
		if e.Kind == KindAnthemSupportsTokens {
			found = true
			if e.Weight != 8 {
				t.Errorf("weight = %d, want 8", e.Weight)
			}
		}
	}
	if !found {
		t.Fatal("expected anthem_supports_tokens edge")
	}
}

func TestEdgeDedupe(t *testing.T) {
	// Same pair matched by the same rule twice cannot duplicate.
	entries := []deck.Entry{
		entry("bolt", 4, deck.RoleRemoval, &deck.Features{Types: []string{"Instant"}, Removes: true}),
		entry("swiftspear", 4, deck.RolePayoff, &deck.Features{
			Types: []string{"Creature"}, IsCreature: true, IsLowCmcCreature: true, HasProwess: true,
		}),
	}
	edges := GenerateEdges(entries)

	seen := make(map[string]bool)
	for _, e := range edges {
		key := string(e.Kind) + "|" + e.From + "|" + e.To
		if seen[key] {
			t.Errorf("duplicate edge %s", key)
		}
		seen[key] = true
	}
}

func TestEdgeCap(t *testing.T) {
	// 15 removal entries x 15 low-cost payoff creatures = 225 candidate
	// pairs, past the 200 cap.
	entries := make([]deck.Entry, 0, 30)
	for i := 0; i < 15; i++ {
		entries = append(entries, entry(fmt.Sprintf("burn %02d", i), 1, deck.RoleRemoval,
			&deck.Features{Types: []string{"Instant"}, Removes: true}))
		entries = append(entries, entry(fmt.Sprintf("threat %02d", i), 1, deck.RolePayoff,
			&deck.Features{Types: []string{"Creature"}, IsCreature: true, IsLowCmcCreature: true}))
	}

	edges := GenerateEdges(entries)
	if len(edges) != EdgeCap {
		t.Errorf("edges = %d, want capped at %d", len(edges), EdgeCap)
	}
}

func TestGenerateEdgesDeterministic(t *testing.T) {
	entries := []deck.Entry{
		entry("bolt", 4, deck.RoleRemoval, &deck.Features{Types: []string{"Instant"}, Removes: true}),
		entry("swiftspear", 4, deck.RolePayoff, &deck.Features{
			Types: []string{"Creature"}, IsCreature: true, IsLowCmcCreature: true, HasProwess: true,
		}),
		entry("anthem", 1, deck.RoleEngine, &deck.Features{Types: []string{"Enchantment"}, IsAnthem: true}),
		entry("alarm", 4, deck.RoleUtility, &deck.Features{Types: []string{"Instant"}, CreatesTokens: true}),
	}

	first := GenerateEdges(entries)
	second := GenerateEdges(entries)
	if len(first) != len(second) {
		t.Fatalf("edge counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("edge %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestNoFeaturesNoEdges(t *testing.T) {
	entries := []deck.Entry{
		entry("mystery a", 4, deck.RoleUtility, nil),
		entry("mystery b", 4, deck.RoleUtility, nil),
	}
	if edges := GenerateEdges(entries); len(edges) != 0 {
		t.Errorf("unenriched entries should yield no edges, got %d", len(edges))
	}
}
