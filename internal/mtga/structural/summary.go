// Package structural aggregates a deck state into the fixed 8-node
// role graph and computes its graph-theoretic summary and the
// structural power score.
package structural

import "github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"

// RoleShare is a fixed-size per-role float map.
type RoleShare map[deck.Role]float64

// Summary is the fully recomputed structural view of a deck state. It
// is never partially mutated; every call to ComputeSummary builds a
// fresh one.
type Summary struct {
	NodesTotal  int        `json:"nodes_total"`
	NodesActive int        `json:"nodes_active"`
	TotalCards  int        `json:"total_cards"`
	RoleCounts  RoleMetric `json:"role_counts"`
	RoleShare   RoleShare  `json:"role_share"`

	EdgesTotal      int         `json:"edges_total"`
	Density         float64     `json:"density"`
	InDegree        RoleMetric  `json:"in_degree"`
	OutDegree       RoleMetric  `json:"out_degree"`
	CentralityScore RoleMetric  `json:"centrality_score"`
	Sources         []deck.Role `json:"sources"`
	Sinks           []deck.Role `json:"sinks"`
	CyclesPresent   bool        `json:"cycles_present"`

	ComponentsWeak           WeakComponents            `json:"components_weak"`
	MissingRolesForPipelines []MissingRolesForPipeline `json:"missing_roles_for_pipelines"`
	Diagnostics              Diagnostics               `json:"diagnostics"`

	// Set once the structural power score has been computed for this
	// summary.
	StructuralPowerScore *SPSResult `json:"structural_power_score,omitempty"`
}

// computeRoleCounts sums entry counts per primary role.
func computeRoleCounts(d deck.Deck) RoleMetric {
	counts := newRoleMetric()
	for _, entry := range d.Entries {
		counts[entry.RolePrimary] += entry.Count
	}
	return counts
}

func computeRoleShare(counts RoleMetric, totalCards int) RoleShare {
	shares := make(RoleShare, len(deck.RoleOrder))
	for _, role := range deck.RoleOrder {
		shares[role] = 0
	}
	if totalCards <= 0 {
		return shares
	}
	for _, role := range deck.RoleOrder {
		shares[role] = float64(counts[role]) / float64(totalCards)
	}
	return shares
}

// ComputeSummary builds the structural summary for a deck state. The
// graph always has exactly eight nodes regardless of how many roles are
// populated; its edges are the independently supplied role edges.
func ComputeSummary(state *deck.State) *Summary {
	nodesTotal := len(deck.RoleOrder)
	roleCounts := computeRoleCounts(state.Deck)
	totalCards := state.Deck.TotalCards()
	roleShare := computeRoleShare(roleCounts, totalCards)

	nodesActive := 0
	for _, role := range deck.RoleOrder {
		if roleCounts[role] > 0 {
			nodesActive++
		}
	}

	edges := state.Edges
	edgesTotal := len(edges)
	density := float64(edgesTotal) / float64(nodesTotal*(nodesTotal-1))

	in, out := computeInOutDegree(edges)
	centrality := computeCentrality(in, out)
	sources, sinks := computeSourcesSinks(in, out)

	return &Summary{
		NodesTotal:      nodesTotal,
		NodesActive:     nodesActive,
		TotalCards:      totalCards,
		RoleCounts:      roleCounts,
		RoleShare:       roleShare,
		EdgesTotal:      edgesTotal,
		Density:         density,
		InDegree:        in,
		OutDegree:       out,
		CentralityScore: centrality,
		Sources:         sources,
		Sinks:           sinks,
		CyclesPresent:   detectCyclesDirected(edges),
		ComponentsWeak:  computeComponentsWeak(edges),
		MissingRolesForPipelines: missingRolesForPipelines(
			state.PipelinesActive, roleCounts),
		Diagnostics: computeDiagnostics(
			roleCounts, centrality, in, out, density, nodesActive),
	}
}
