package structural

import (
	"math"

	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/synergy"
)

// spsAlpha weights the role-diversity bonus.
const spsAlpha = 0.15

// SPSBreakdown exposes every intermediate term of the structural power
// score for debugging and testing.
type SPSBreakdown struct {
	SumScore float64 `json:"sum_score"`
	B        float64 `json:"b"`
	Density  float64 `json:"density"`
	FDens    float64 `json:"f_dens"`
	HHat     float64 `json:"h_hat"`
	FRoles   float64 `json:"f_roles"`
	U        float64 `json:"u"`
	FUtil    float64 `json:"f_util"`
}

// SPSResult is the structural power score with its breakdown.
type SPSResult struct {
	SPS       float64      `json:"sps"`
	Breakdown SPSBreakdown `json:"breakdown"`
}

// ComputeSPS combines synergy-edge magnitude, graph density, non-land
// role diversity, and a utility-role penalty into one coherence scalar.
// The base term is log-dampened so large synergy totals see diminishing
// returns.
func ComputeSPS(summary *Summary, edges []synergy.Edge) *SPSResult {
	sumScore := synergy.SumScores(edges)
	b := 10 * math.Log(1+sumScore)

	density := summary.Density
	fDens := 1 + math.Sqrt(math.Max(0, density))

	totalNonLand := 0
	activeNonLand := 0
	for _, role := range deck.RoleOrder {
		if role == deck.RoleLand {
			continue
		}
		totalNonLand += summary.RoleCounts[role]
		if summary.RoleCounts[role] > 0 {
			activeNonLand++
		}
	}

	hHat := 0.0
	if activeNonLand > 1 && totalNonLand > 0 {
		h := 0.0
		for _, role := range deck.RoleOrder {
			if role == deck.RoleLand || summary.RoleCounts[role] == 0 {
				continue
			}
			p := float64(summary.RoleCounts[role]) / float64(totalNonLand)
			h += -p * math.Log2(p)
		}
		if hMax := math.Log2(float64(activeNonLand)); hMax > 0 {
			hHat = h / hMax
		}
	}
	fRoles := 1 + spsAlpha*hHat

	u := 0.0
	if totalNonLand > 0 {
		u = float64(summary.RoleCounts[deck.RoleUtility]) / float64(totalNonLand)
	}
	fUtil := 1.0
	if u > 0.3 {
		fUtil = math.Max(0, 1-0.25*(u-0.3)/0.7)
	}

	return &SPSResult{
		SPS: b * fDens * fRoles * fUtil,
		Breakdown: SPSBreakdown{
			SumScore: sumScore,
			B:        b,
			Density:  density,
			FDens:    fDens,
			HHat:     hHat,
			FRoles:   fRoles,
			U:        u,
			FUtil:    fUtil,
		},
	}
}
