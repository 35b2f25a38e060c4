// Package deck defines the core domain model shared by the analysis
// pipeline: card entries, functional roles, role-level edges, and the
// deck state aggregate.
package deck

// Role is one of the eight fixed functional categories a card entry can
// hold. Every entry has exactly one primary role.
type Role string

const (
	RoleEngine     Role = "ENGINE"
	RolePayoff     Role = "PAYOFF"
	RoleRamp       Role = "RAMP"
	RoleDraw       Role = "DRAW"
	RoleRemoval    Role = "REMOVAL"
	RoleProtection Role = "PROTECTION"
	RoleLand       Role = "LAND"
	RoleUtility    Role = "UTILITY"
)

// RoleOrder is the canonical iteration order for the role graph. Graph
// traversals and fixed-size role maps follow this order so results are
// deterministic.
var RoleOrder = []Role{
	RoleEngine,
	RolePayoff,
	RoleRamp,
	RoleDraw,
	RoleRemoval,
	RoleProtection,
	RoleLand,
	RoleUtility,
}

// ValidRole reports whether r is one of the eight known roles.
func ValidRole(r Role) bool {
	for _, known := range RoleOrder {
		if r == known {
			return true
		}
	}
	return false
}

// Features is the derived, read-only feature snapshot attached to an
// entry during enrichment.
type Features struct {
	Types            []string `json:"types"`
	IsCreature       bool     `json:"is_creature"`
	ProducesMana     bool     `json:"produces_mana"`
	DrawsCards       bool     `json:"draws_cards"`
	Removes          bool     `json:"removes"`
	Protects         bool     `json:"protects"`
	Tutors           bool     `json:"tutors"`
	CreatesTokens    bool     `json:"creates_tokens"`
	HasHaste         bool     `json:"has_haste"`
	HasProwess       bool     `json:"has_prowess"`
	IsAnthem         bool     `json:"is_anthem"`
	CaresAboutSpells bool     `json:"cares_about_spells"`
	RecursFromGrave  bool     `json:"recurs_from_graveyard"`
	IsLowCmcCreature bool     `json:"is_low_cmc_creature"`
	CmcBucket        int      `json:"cmc_bucket"`
}

// HasType reports whether the parsed type tokens include t.
func (f *Features) HasType(t string) bool {
	if f == nil {
		return false
	}
	for _, have := range f.Types {
		if have == t {
			return true
		}
	}
	return false
}

// Entry is one deduplicated card line in a deck. Identity is NameNorm.
type Entry struct {
	Name        string    `json:"name"`
	NameNorm    string    `json:"name_norm"`
	Count       int       `json:"count"`
	RolePrimary Role      `json:"role_primary"`
	Features    *Features `json:"features,omitempty"`
}

// Clone returns a shallow copy of the entry. Features are shared; they
// are immutable after enrichment.
func (e Entry) Clone() Entry {
	return e
}

// Deck holds the entry list for a single deck.
type Deck struct {
	Entries []Entry `json:"entries"`
}

// TotalCards sums the counts of all entries.
func (d Deck) TotalCards() int {
	total := 0
	for _, entry := range d.Entries {
		total += entry.Count
	}
	return total
}

// RoleEdge is a directed role-to-role relationship in the structural
// graph. These are supplied independently of entry-level synergy edges.
type RoleEdge struct {
	From   Role     `json:"from"`
	To     Role     `json:"to"`
	Weight *float64 `json:"weight,omitempty"`
}

// SimSettings carries stub gameplay-simulation settings. They are
// validated and round-tripped but never executed.
type SimSettings struct {
	MulliganModel string `json:"mulligan_model"`
	TurnT         int    `json:"turn_T"`
	Iterations    int    `json:"iterations"`
	Seed          *int64 `json:"seed,omitempty"`
	AssumeOnPlay  *bool  `json:"assume_on_play,omitempty"`
}

// State is the root aggregate consumed by the structural analyzer.
type State struct {
	Deck            Deck         `json:"deck"`
	Edges           []RoleEdge   `json:"edges,omitempty"`
	PipelinesActive []string     `json:"pipelines_active,omitempty"`
	Sim             *SimSettings `json:"sim,omitempty"`
}
