package montecarlo

import "github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"

// mulberry32 is a small deterministic PRNG. Each simulation iteration
// gets its own instance seeded from the run seed plus a golden-ratio
// stride, so iterations are independent and reruns are bit-identical.
func mulberry32(seed uint32) func() float64 {
	t := seed
	return func() float64 {
		t += 0x6D2B79F5
		r := (t ^ (t >> 15)) * (t | 1)
		r ^= r + (r^(r>>7))*(r|61)
		return float64(r^(r>>14)) / 4294967296.0
	}
}

// iterationSeed derives the per-iteration seed, wrapping mod 2^32.
func iterationSeed(seed uint32, iteration int) uint32 {
	return seed + uint32(iteration)*0x9e3779b9
}

// eligibleIndices selects entries available for swapping: positive
// count and a role outside the excluded set.
func eligibleIndices(entries []deck.Entry, excludeRoles []deck.Role) []int {
	excluded := make(map[deck.Role]bool, len(excludeRoles))
	for _, role := range excludeRoles {
		excluded[role] = true
	}
	indices := make([]int, 0, len(entries))
	for i, entry := range entries {
		if entry.Count < 1 {
			continue
		}
		if excluded[entry.RolePrimary] {
			continue
		}
		indices = append(indices, i)
	}
	return indices
}

// weightedChoice picks one candidate index with probability
// proportional to weight(i), via a cumulative scan against a single
// draw. Non-positive total weight falls back to a uniform pick.
func weightedChoice(rng func() float64, candidates []int, weight func(i int) int) int {
	total := 0
	for _, i := range candidates {
		if w := weight(i); w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return uniformChoice(rng, candidates)
	}
	target := rng() * float64(total)
	acc := 0
	for _, i := range candidates {
		if w := weight(i); w > 0 {
			acc += w
		}
		if float64(acc) >= target {
			return i
		}
	}
	return candidates[len(candidates)-1]
}

func uniformChoice(rng func() float64, candidates []int) int {
	idx := int(rng() * float64(len(candidates)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(candidates) {
		idx = len(candidates) - 1
	}
	return candidates[idx]
}

// sampleSwap picks distinct "from" and "to" entry indices, uniformly or
// count-weighted. A nil result means the iteration is a no-op.
func sampleSwap(entries []deck.Entry, eligibles []int, rng func() float64, byCount bool) (from, to int, ok bool) {
	if len(eligibles) < 2 {
		return 0, 0, false
	}

	choose := func(candidates []int) int {
		if !byCount {
			return uniformChoice(rng, candidates)
		}
		return weightedChoice(rng, candidates, func(i int) int {
			if entries[i].Count > 0 {
				return entries[i].Count
			}
			return 0
		})
	}

	from = choose(eligibles)
	toCandidates := make([]int, 0, len(eligibles)-1)
	for _, i := range eligibles {
		if i != from {
			toCandidates = append(toCandidates, i)
		}
	}
	if len(toCandidates) == 0 {
		return 0, 0, false
	}
	to = choose(toCandidates)
	if from == to {
		return 0, 0, false
	}
	return from, to, true
}
