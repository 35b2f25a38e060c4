package structural

import "github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"

// PipelineStep is one role requirement within a pipeline.
type PipelineStep struct {
	Role     deck.Role `json:"role"`
	MinCount int       `json:"min_count"`
}

// Pipeline is a static catalog entry describing a chain of roles a
// functioning deck needs.
type Pipeline struct {
	ID    string         `json:"id"`
	Steps []PipelineStep `json:"steps"`
}

func step(role deck.Role) PipelineStep {
	return PipelineStep{Role: role, MinCount: 1}
}

// Pipelines is the read-only pipeline catalog.
var Pipelines = []Pipeline{
	{ID: "P1_RAMP_ENGINE_PAYOFF", Steps: []PipelineStep{step(deck.RoleRamp), step(deck.RoleEngine), step(deck.RolePayoff)}},
	{ID: "P2_DRAW_ENGINE_PAYOFF", Steps: []PipelineStep{step(deck.RoleDraw), step(deck.RoleEngine), step(deck.RolePayoff)}},
	{ID: "P3_PROTECT_ENGINE_PAYOFF", Steps: []PipelineStep{step(deck.RoleProtection), step(deck.RoleEngine), step(deck.RolePayoff)}},
	{ID: "P4_INTERACT_ENGINE_PAYOFF", Steps: []PipelineStep{step(deck.RoleRemoval), step(deck.RoleEngine), step(deck.RolePayoff)}},
	{ID: "P5_ENGINE_PAYOFF", Steps: []PipelineStep{step(deck.RoleEngine), step(deck.RolePayoff)}},
}

// PipelineByID indexes the catalog.
var PipelineByID = func() map[string]Pipeline {
	byID := make(map[string]Pipeline, len(Pipelines))
	for _, p := range Pipelines {
		byID[p.ID] = p
	}
	return byID
}()

// DefaultPipelinesActive is used when a deck state names no pipelines.
var DefaultPipelinesActive = []string{
	"P5_ENGINE_PAYOFF",
	"P1_RAMP_ENGINE_PAYOFF",
	"P2_DRAW_ENGINE_PAYOFF",
}

// MissingRole records a role-count shortfall against a pipeline step.
type MissingRole struct {
	Role   deck.Role `json:"role"`
	Needed int       `json:"needed"`
	Have   int       `json:"have"`
}

// MissingRolesForPipeline collects the shortfalls of one pipeline.
type MissingRolesForPipeline struct {
	PipelineID string        `json:"pipeline_id"`
	Missing    []MissingRole `json:"missing"`
}

// missingRolesForPipelines reports, per active pipeline, the roles
// whose deck count falls below the pipeline's minimum. Unknown pipeline
// ids are skipped silently.
func missingRolesForPipelines(active []string, roleCounts RoleMetric) []MissingRolesForPipeline {
	if len(active) == 0 {
		active = DefaultPipelinesActive
	}

	roleRank := make(map[deck.Role]int, len(deck.RoleOrder))
	for i, role := range deck.RoleOrder {
		roleRank[role] = i
	}

	result := make([]MissingRolesForPipeline, 0, len(active))
	for _, pipelineID := range active {
		pipeline, ok := PipelineByID[pipelineID]
		if !ok {
			continue
		}

		missing := make([]MissingRole, 0)
		for _, s := range pipeline.Steps {
			if have := roleCounts[s.Role]; have < s.MinCount {
				missing = append(missing, MissingRole{Role: s.Role, Needed: s.MinCount, Have: have})
			}
		}
		// Stable order: shortfalls sorted by canonical role rank.
		for i := 1; i < len(missing); i++ {
			for j := i; j > 0 && roleRank[missing[j].Role] < roleRank[missing[j-1].Role]; j-- {
				missing[j], missing[j-1] = missing[j-1], missing[j]
			}
		}

		result = append(result, MissingRolesForPipeline{PipelineID: pipelineID, Missing: missing})
	}
	return result
}
