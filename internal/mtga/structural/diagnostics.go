package structural

import "github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"

const (
	lowRedundancyThreshold = 4
	sparseGraphThreshold   = 0.1
)

// Diagnostics flags structural weaknesses of the role graph.
type Diagnostics struct {
	Bottlenecks   BottleneckDiag    `json:"bottlenecks"`
	LowRedundancy LowRedundancyDiag `json:"low_redundancy"`
	SparseGraph   SparseGraphDiag   `json:"sparse_graph"`
	IsolatedRoles IsolatedRolesDiag `json:"isolated_roles"`
}

// BottleneckDiag lists the populated roles tied for maximum centrality.
type BottleneckDiag struct {
	Roles         []deck.Role `json:"roles"`
	MaxCentrality int         `json:"max_centrality"`
}

// LowRedundancyDiag lists critical roles with too few copies.
type LowRedundancyDiag struct {
	Roles             []deck.Role `json:"roles"`
	Threshold         int         `json:"threshold"`
	OnlyOneActiveRole bool        `json:"only_one_active_role"`
}

// SparseGraphDiag flags a role graph below the density threshold.
type SparseGraphDiag struct {
	Flag      bool    `json:"flag"`
	Density   float64 `json:"density"`
	Threshold float64 `json:"threshold"`
}

// IsolatedRolesDiag lists populated roles with no edges at all.
type IsolatedRolesDiag struct {
	Roles []deck.Role `json:"roles"`
}

// criticalRoles are the roles a deck cannot function without copies of.
var criticalRoles = []deck.Role{deck.RoleEngine, deck.RolePayoff}

func computeDiagnostics(roleCounts, centrality, in, out RoleMetric, density float64, nodesActive int) Diagnostics {
	maxCentrality := 0
	for _, role := range deck.RoleOrder {
		if centrality[role] > maxCentrality {
			maxCentrality = centrality[role]
		}
	}
	bottlenecks := make([]deck.Role, 0)
	for _, role := range deck.RoleOrder {
		if centrality[role] == maxCentrality && roleCounts[role] > 0 {
			bottlenecks = append(bottlenecks, role)
		}
	}

	lowRedundancy := make([]deck.Role, 0)
	for _, role := range criticalRoles {
		if roleCounts[role] <= lowRedundancyThreshold {
			lowRedundancy = append(lowRedundancy, role)
		}
	}
	onlyOneActive := nodesActive <= 1
	if onlyOneActive {
		for _, role := range criticalRoles {
			present := false
			for _, have := range lowRedundancy {
				if have == role {
					present = true
					break
				}
			}
			if !present {
				lowRedundancy = append(lowRedundancy, role)
			}
		}
	}

	isolated := make([]deck.Role, 0)
	for _, role := range deck.RoleOrder {
		if roleCounts[role] > 0 && in[role] == 0 && out[role] == 0 {
			isolated = append(isolated, role)
		}
	}

	return Diagnostics{
		Bottlenecks: BottleneckDiag{
			Roles:         bottlenecks,
			MaxCentrality: maxCentrality,
		},
		LowRedundancy: LowRedundancyDiag{
			Roles:             lowRedundancy,
			Threshold:         lowRedundancyThreshold,
			OnlyOneActiveRole: onlyOneActive,
		},
		SparseGraph: SparseGraphDiag{
			Flag:      density < sparseGraphThreshold,
			Density:   density,
			Threshold: sparseGraphThreshold,
		},
		IsolatedRoles: IsolatedRolesDiag{Roles: isolated},
	}
}
