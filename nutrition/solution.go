package nutrition

import (
	"maps"
	"slices"
)

// Solution is a mix of reagents by quantity.
type Solution struct {
	Reagents map[string]float64
}

// NewSolution returns a solution holding the given reagents.
func NewSolution(reagents map[string]float64) Solution {
	return Solution{Reagents: maps.Clone(reagents)}
}

// Volume returns the total quantity.
func (s Solution) Volume() float64 {
	var total float64
	for _, q := range s.Reagents {
		total += q
	}
	return total
}

// Clone returns an independent copy.
func (s Solution) Clone() Solution {
	return Solution{Reagents: maps.Clone(s.Reagents)}
}

// Split removes up to amount from the solution, proportionally across its
// reagents, and returns what was removed.
func (s *Solution) Split(amount float64) Solution {
	vol := s.Volume()
	if amount <= 0 || vol <= 0 {
		return Solution{Reagents: map[string]float64{}}
	}
	if amount > vol {
		amount = vol
	}
	ratio := amount / vol

	out := Solution{Reagents: make(map[string]float64, len(s.Reagents))}
	for _, name := range slices.Sorted(maps.Keys(s.Reagents)) {
		take := s.Reagents[name] * ratio
		out.Reagents[name] = take
		if left := s.Reagents[name] - take; left > 1e-9 {
			s.Reagents[name] = left
		} else {
			delete(s.Reagents, name)
		}
	}
	return out
}
