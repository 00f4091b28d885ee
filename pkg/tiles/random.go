package tiles

import (
	"math/rand/v2"
	"sort"
)

// RandomSet is a weighted pool. Weights are normalized to sum to 1 by
// Normalize, which must run before Select.
type RandomSet[T any] struct {
	items   []T
	weights []float64
	cdf     []float64
}

// Add appends item with the given weight. Non-positive weights are stored
// but can never be selected.
func (s *RandomSet[T]) Add(item T, weight float64) {
	s.items = append(s.items, item)
	s.weights = append(s.weights, weight)
	s.cdf = nil
}

// Len returns the number of items.
func (s *RandomSet[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns the pool members in insertion order.
func (s *RandomSet[T]) Items() []T {
	if s == nil {
		return nil
	}
	return s.items
}

// Weight returns the weight of item i (normalized once Normalize has run).
func (s *RandomSet[T]) Weight(i int) float64 {
	return s.weights[i]
}

// Normalize scales the weights to sum to 1 and builds the cumulative
// distribution. It reports false when the pool has no positive weight.
func (s *RandomSet[T]) Normalize() bool {
	if s == nil {
		return false
	}
	var total float64
	for _, w := range s.weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		s.cdf = nil
		return false
	}

	s.cdf = make([]float64, len(s.weights))
	var acc float64
	last := 0
	for i, w := range s.weights {
		if w < 0 {
			w = 0
		}
		if w > 0 {
			last = i
		}
		s.weights[i] = w / total
		acc += s.weights[i]
		s.cdf[i] = acc
	}
	// Rounding can leave the sum just under 1; close the distribution on the
	// last selectable item so trailing zero weights stay unreachable.
	for i := last; i < len(s.cdf); i++ {
		s.cdf[i] = 1
	}
	return true
}

// Select draws one item. It returns false for an empty or unnormalized pool.
func (s *RandomSet[T]) Select(r *rand.Rand) (T, bool) {
	var zero T
	if s == nil || len(s.cdf) == 0 {
		return zero, false
	}
	u := r.Float64()
	i := sort.Search(len(s.cdf), func(i int) bool { return s.cdf[i] > u })
	if i >= len(s.items) {
		i = len(s.items) - 1
	}
	return s.items[i], true
}
