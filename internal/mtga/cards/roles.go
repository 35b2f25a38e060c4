package cards

import "github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"

// InferRole maps a feature snapshot to the card's dominant functional
// role. The priority order is deliberate: mana-base and resource roles
// win over threat roles, and the aggro-oriented checks (anthems,
// low-cost prowess/haste creatures) come after the conservative ones.
func InferRole(features *deck.Features) deck.Role {
	if features == nil {
		return deck.RoleUtility
	}
	switch {
	case features.HasType("Land"):
		return deck.RoleLand
	case features.ProducesMana:
		return deck.RoleRamp
	case features.DrawsCards:
		return deck.RoleDraw
	case features.Removes:
		return deck.RoleRemoval
	case features.Protects:
		return deck.RoleProtection
	case features.Tutors:
		return deck.RoleEngine
	case features.IsAnthem:
		return deck.RoleEngine
	case features.IsCreature && features.CmcBucket >= 3:
		return deck.RolePayoff
	case features.IsLowCmcCreature && (features.HasProwess || features.HasHaste):
		return deck.RolePayoff
	default:
		return deck.RoleUtility
	}
}
