package match

import (
	"sort"

	"cartsync/internal/model"
)

// fallbackGramsPerOunce converts parenthetical gram weights when the
// normalizer did not already supply ounces.
const fallbackGramsPerOunce = 28.3495

// scoredCandidate pairs a candidate with its relevance and parsed size.
type scoredCandidate struct {
	candidate model.ProductCandidate
	relevance float64
	sizeOz    float64
	hasSize   bool
}

// ChooseBest selects the candidate to add to the cart, or nil when there
// are no candidates.
//
// When the item carries a requested size, candidates at or above that
// size are preferred: the smallest such size wins, ties broken by higher
// relevance. If every sized candidate is smaller than requested, the most
// relevant sized one wins (ties broken by larger size) and the choice is
// flagged undersized. Without a requested size, or when no candidate has
// a parseable size, the highest relevance wins with the original result
// order breaking ties.
func ChooseBest(item model.NormalizedItem, candidates []model.ProductCandidate) *model.ChosenProduct {
	if len(candidates) == 0 {
		return nil
	}

	var requestedOz float64
	haveRequested := false
	switch {
	case item.Ounces != nil:
		requestedOz = *item.Ounces
		haveRequested = true
	case item.Grams != nil:
		requestedOz = *item.Grams / fallbackGramsPerOunce
		haveRequested = true
	}

	scored := make([]scoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		sc := scoredCandidate{
			candidate: c,
			relevance: Relevance(item.Query, c.Title),
		}
		sz, ok := ParseSize(c.SizeText)
		if !ok || sz == 0 {
			sz, ok = ParseSize(c.Title)
		}
		if ok {
			sc.sizeOz = sz
			sc.hasSize = true
		}
		scored = append(scored, sc)
	}

	if haveRequested && requestedOz > 0 {
		var bigger []scoredCandidate
		for _, sc := range scored {
			if sc.hasSize && sc.sizeOz >= requestedOz {
				bigger = append(bigger, sc)
			}
		}
		if len(bigger) > 0 {
			sort.SliceStable(bigger, func(i, j int) bool {
				if bigger[i].sizeOz != bigger[j].sizeOz {
					return bigger[i].sizeOz < bigger[j].sizeOz
				}
				return bigger[i].relevance > bigger[j].relevance
			})
			return chosen(bigger[0], false)
		}

		var withSize []scoredCandidate
		for _, sc := range scored {
			if sc.hasSize {
				withSize = append(withSize, sc)
			}
		}
		if len(withSize) > 0 {
			sort.SliceStable(withSize, func(i, j int) bool {
				if withSize[i].relevance != withSize[j].relevance {
					return withSize[i].relevance > withSize[j].relevance
				}
				return withSize[i].sizeOz > withSize[j].sizeOz
			})
			return chosen(withSize[0], true)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].relevance > scored[j].relevance
	})
	return chosen(scored[0], false)
}

func chosen(sc scoredCandidate, undersized bool) *model.ChosenProduct {
	p := &model.ChosenProduct{
		Candidate:  sc.candidate,
		Relevance:  sc.relevance,
		Undersized: undersized,
	}
	if sc.hasSize {
		sz := sc.sizeOz
		p.SizeOz = &sz
	}
	return p
}
