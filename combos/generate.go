package combos

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/zcuddihy/ff-draft-app/common"
	"github.com/zcuddihy/ff-draft-app/position"
)

// rowOverhead approximates the per-row cost of a stored combination beyond
// its elements (the slice header).
const rowOverhead = 24

// Generator enumerates combination tables.
type Generator struct {
	// MaxMemoryFraction refuses to build tables whose estimated size is
	// larger than this fraction of total system memory. Zero disables the
	// check.
	MaxMemoryFraction float64
}

// Generate builds the full combination table with no memory limit.
func Generate(r Requirements) (*Table, error) {
	return (&Generator{}).Generate(r)
}

// Generate enumerates every distinct ordering of the starter slot multiset,
// expands each FLEX slot into every eligible position, and keeps one copy of
// each resulting combination.
func (g *Generator) Generate(r Requirements) (*Table, error) {
	expected, err := Count(r)
	if err != nil {
		return nil, err
	}
	rounds := r.Rounds()
	if rounds == 0 {
		return nil, fmt.Errorf("%w: no lineup slots to draft", common.ErrConfiguration)
	}
	if g.MaxMemoryFraction > 0 {
		estimate := uint64(expected) * uint64(rounds+rowOverhead)
		total := memory.TotalMemory()
		if total > 0 && float64(estimate) > g.MaxMemoryFraction*float64(total) {
			return nil, fmt.Errorf("%w: %d combinations need ~%d bytes, over %.0f%% of system memory",
				common.ErrConfiguration, expected, estimate, g.MaxMemoryFraction*100)
		}
	}

	rows := make([]Combination, 0, expected)
	seen := make(map[uint64][]int, expected)
	var buf []byte
	add := func(c Combination) {
		buf = c.bytes(buf)
		h := xxhash.Sum64(buf)
		for _, idx := range seen[h] {
			if slices.Equal(rows[idx], c) {
				return
			}
		}
		seen[h] = append(seen[h], len(rows))
		rows = append(rows, slices.Clone(c))
	}

	toks := r.tokens()
	eligible := r.Flex.Eligible()
	row := make(Combination, len(toks))
	orderings := 0
	for ok := true; ok; ok = nextPermutation(toks) {
		orderings++
		var flexAt []int
		for i, t := range toks {
			if t == position.FLEX {
				flexAt = append(flexAt, i)
			}
		}
		if len(flexAt) == 0 {
			add(toks)
			continue
		}
		lens := make([]int, len(flexAt))
		for i := range lens {
			lens[i] = len(eligible)
		}
		for _, choice := range combin.Cartesian(lens) {
			copy(row, toks)
			for i, idx := range flexAt {
				row[idx] = eligible[choice[i]]
			}
			add(row)
		}
	}
	if len(rows) != expected {
		log.Warn().Int("expected", expected).Int("generated", len(rows)).
			Msg("combination-count-mismatch")
	}
	log.Debug().Int("orderings", orderings).Int("rows", len(rows)).
		Int("rounds", rounds).Msg("combination-table-generated")
	return newTable(rows, rounds), nil
}

// nextPermutation rearranges s into the lexicographically next ordering and
// reports whether there was one. Starting from sorted input, repeated calls
// visit each distinct ordering of a multiset exactly once.
func nextPermutation(s []position.Position) bool {
	i := len(s) - 2
	for i >= 0 && s[i] >= s[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(s) - 1
	for s[j] <= s[i] {
		j--
	}
	s[i], s[j] = s[j], s[i]
	slices.Reverse(s[i+1:])
	return true
}
