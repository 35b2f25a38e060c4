package structural

import "github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"

// RoleMetric is a fixed-size per-role integer map keyed by the eight
// roles. All eight keys are always present.
type RoleMetric map[deck.Role]int

func newRoleMetric() RoleMetric {
	m := make(RoleMetric, len(deck.RoleOrder))
	for _, role := range deck.RoleOrder {
		m[role] = 0
	}
	return m
}

// computeInOutDegree tallies directed degree per role. Self-loops count
// toward both.
func computeInOutDegree(edges []deck.RoleEdge) (in, out RoleMetric) {
	in = newRoleMetric()
	out = newRoleMetric()
	for _, edge := range edges {
		out[edge.From]++
		in[edge.To]++
	}
	return in, out
}

// computeCentrality is degree centrality: in + out.
func computeCentrality(in, out RoleMetric) RoleMetric {
	centrality := newRoleMetric()
	for _, role := range deck.RoleOrder {
		centrality[role] = in[role] + out[role]
	}
	return centrality
}

// computeSourcesSinks finds pure producers (no in-edges) and pure
// consumers (no out-edges) among connected roles.
func computeSourcesSinks(in, out RoleMetric) (sources, sinks []deck.Role) {
	sources = make([]deck.Role, 0)
	sinks = make([]deck.Role, 0)
	for _, role := range deck.RoleOrder {
		if in[role] == 0 && out[role] > 0 {
			sources = append(sources, role)
		}
		if out[role] == 0 && in[role] > 0 {
			sinks = append(sinks, role)
		}
	}
	return sources, sinks
}

// detectCyclesDirected runs DFS with recursion-stack tracking over the
// 8-node role graph.
func detectCyclesDirected(edges []deck.RoleEdge) bool {
	adjacency := make(map[deck.Role][]deck.Role, len(deck.RoleOrder))
	for _, role := range deck.RoleOrder {
		adjacency[role] = nil
	}
	for _, edge := range edges {
		adjacency[edge.From] = append(adjacency[edge.From], edge.To)
	}

	visited := make(map[deck.Role]bool)
	onStack := make(map[deck.Role]bool)

	var visit func(node deck.Role) bool
	visit = func(node deck.Role) bool {
		if onStack[node] {
			return true
		}
		if visited[node] {
			return false
		}
		visited[node] = true
		onStack[node] = true
		for _, next := range adjacency[node] {
			if visit(next) {
				return true
			}
		}
		onStack[node] = false
		return false
	}

	for _, role := range deck.RoleOrder {
		if visit(role) {
			return true
		}
	}
	return false
}

// WeakComponents is the partition of the undirected projection of the
// role graph.
type WeakComponents struct {
	Count      int           `json:"count"`
	Components [][]deck.Role `json:"components"`
}

// computeComponentsWeak ignores edge direction and runs BFS from each
// unvisited role in canonical role order.
func computeComponentsWeak(edges []deck.RoleEdge) WeakComponents {
	neighbors := make(map[deck.Role]map[deck.Role]bool, len(deck.RoleOrder))
	for _, role := range deck.RoleOrder {
		neighbors[role] = make(map[deck.Role]bool)
	}
	for _, edge := range edges {
		neighbors[edge.From][edge.To] = true
		neighbors[edge.To][edge.From] = true
	}

	visited := make(map[deck.Role]bool)
	components := make([][]deck.Role, 0)

	for _, role := range deck.RoleOrder {
		if visited[role] {
			continue
		}
		visited[role] = true
		queue := []deck.Role{role}
		component := make([]deck.Role, 0)
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			component = append(component, current)
			// Neighbor visit order follows RoleOrder for determinism.
			for _, next := range deck.RoleOrder {
				if neighbors[current][next] && !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
		components = append(components, component)
	}

	return WeakComponents{Count: len(components), Components: components}
}
