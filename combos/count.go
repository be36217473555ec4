package combos

import (
	"gonum.org/v1/gonum/stat/combin"

	"github.com/zcuddihy/ff-draft-app/position"
)

// Count returns the number of distinct combinations Generate produces for
// r, without enumerating them.
//
// Every combination's position counts equal the starter counts plus some
// distribution of the flex slots over the eligible positions, and every
// arrangement of such a count vector is legal. The total is therefore a sum
// of multinomial coefficients, one per distribution.
func Count(r Requirements) (int, error) {
	if err := r.validate(); err != nil {
		return 0, err
	}
	n := r.Rounds()
	var base [position.FLEX + 1]int
	for _, p := range buildPositions {
		base[p] = r.Counts[p]
	}
	if r.FlexSlots == 0 {
		return multinomial(n, base[:]), nil
	}
	eligible := r.Flex.Eligible()
	total := 0
	distributions(len(eligible), r.FlexSlots, func(d []int) {
		counts := base
		for i, k := range d {
			counts[eligible[i]] += k
		}
		total += multinomial(n, counts[:])
	})
	return total, nil
}

// multinomial computes n! / (k1! k2! ... km!) as a product of binomials.
// The ks must sum to n.
func multinomial(n int, ks []int) int {
	result := 1
	rem := n
	for _, k := range ks {
		if k == 0 {
			continue
		}
		result *= combin.Binomial(rem, k)
		rem -= k
	}
	return result
}

// distributions calls fn with every way of placing items into bins, as a
// per-bin count. fn must not retain the slice.
func distributions(bins, items int, fn func([]int)) {
	d := make([]int, bins)
	var place func(bin, left int)
	place = func(bin, left int) {
		if bin == bins-1 {
			d[bin] = left
			fn(d)
			return
		}
		for k := left; k >= 0; k-- {
			d[bin] = k
			place(bin+1, left-k)
		}
	}
	place(0, items)
}
