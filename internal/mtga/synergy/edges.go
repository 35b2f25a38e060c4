// Package synergy detects pairwise synergy relationships between card
// entries and scores them with the kind/role factor registries.
package synergy

import (
	"fmt"

	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"
)

// Kind names a synergy detection rule.
type Kind string

const (
	KindBurnSupportsThreat   Kind = "burn_supports_threat"
	KindAnthemSupportsTokens Kind = "anthem_supports_tokens"
	KindSpellsSupportProwess Kind = "spells_support_prowess"
)

// Edge is one scored synergy relationship between two entries, keyed by
// normalized names.
type Edge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Kind   Kind    `json:"kind"`
	Weight int     `json:"weight"`
	Score  float64 `json:"score"`
}

// EdgeCap bounds the number of distinct edges kept per deck. Candidates
// past the cap are dropped in generation order.
const EdgeCap = 200

// KindFactor weights each synergy rule.
var KindFactor = map[Kind]float64{
	KindBurnSupportsThreat:   1.2,
	KindSpellsSupportProwess: 1.1,
	KindAnthemSupportsTokens: 1.15,
}

// RoleFactor weights specific ordered role pairs; absent pairs factor
// as 1.
var RoleFactor = map[string]float64{
	"REMOVAL->PAYOFF": 1.5,
	"ENGINE->PAYOFF":  1.4,
	"ENGINE->ENGINE":  1.2,
}

type generator struct {
	edges []Edge
	seen  map[string]struct{}
	roles map[string]deck.Role
	count map[string]int
}

func (g *generator) add(kind Kind, from, to string) {
	key := string(kind) + "|" + from + "|" + to
	if _, dup := g.seen[key]; dup {
		return
	}
	if len(g.edges) >= EdgeCap {
		return
	}
	g.seen[key] = struct{}{}

	weight := g.count[from] * g.count[to]
	score := float64(weight) * KindFactor[kind]
	roleKey := fmt.Sprintf("%s->%s", g.roles[from], g.roles[to])
	if factor, ok := RoleFactor[roleKey]; ok {
		score *= factor
	}

	g.edges = append(g.edges, Edge{
		From:   from,
		To:     to,
		Kind:   kind,
		Weight: weight,
		Score:  score,
	})
}

// GenerateEdges runs the three detection rules over the entry list.
// Rule order and pair iteration order are part of the contract: the
// first EdgeCap distinct (kind, from, to) triples win.
func GenerateEdges(entries []deck.Entry) []Edge {
	g := &generator{
		edges: make([]Edge, 0),
		seen:  make(map[string]struct{}),
		roles: make(map[string]deck.Role, len(entries)),
		count: make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		g.roles[e.NameNorm] = e.RolePrimary
		g.count[e.NameNorm] = e.Count
	}

	var removals, payoffsLow, anthems, tokenMakers, spells, prowess []deck.Entry
	for _, e := range entries {
		f := e.Features
		if e.RolePrimary == deck.RoleRemoval {
			removals = append(removals, e)
		}
		if e.RolePrimary == deck.RolePayoff && f != nil && f.IsCreature && f.IsLowCmcCreature {
			payoffsLow = append(payoffsLow, e)
		}
		if e.RolePrimary == deck.RoleEngine && f != nil && f.IsAnthem {
			anthems = append(anthems, e)
		}
		if f != nil && f.CreatesTokens {
			tokenMakers = append(tokenMakers, e)
		}
		if f.HasType("Instant") || f.HasType("Sorcery") {
			spells = append(spells, e)
		}
		if f != nil && f.HasProwess {
			prowess = append(prowess, e)
		}
	}

	for _, from := range removals {
		for _, to := range payoffsLow {
			g.add(KindBurnSupportsThreat, from.NameNorm, to.NameNorm)
		}
	}
	for _, from := range anthems {
		for _, to := range tokenMakers {
			g.add(KindAnthemSupportsTokens, from.NameNorm, to.NameNorm)
		}
	}
	for _, from := range spells {
		for _, to := range prowess {
			g.add(KindSpellsSupportProwess, from.NameNorm, to.NameNorm)
		}
	}

	return g.edges
}

// SumScores totals the score over a set of edges, the magnitude input
// to the structural power score.
func SumScores(edges []Edge) float64 {
	sum := 0.0
	for _, e := range edges {
		sum += e.Score
	}
	return sum
}
