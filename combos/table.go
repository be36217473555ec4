package combos

import (
	"fmt"
	"slices"

	"github.com/zcuddihy/ff-draft-app/position"
)

// Table is a set of combinations. The generated rows are never modified or
// regenerated; filtering produces a new Table that retains a subset of the
// row indices.
type Table struct {
	rows   []Combination
	live   []int
	rounds int
}

func newTable(rows []Combination, rounds int) *Table {
	live := make([]int, len(rows))
	for i := range live {
		live[i] = i
	}
	return &Table{rows: rows, live: live, rounds: rounds}
}

// Rounds is the number of columns.
func (t *Table) Rounds() int {
	return t.rounds
}

// Len is the number of retained rows.
func (t *Table) Len() int {
	return len(t.live)
}

// Generated is the number of rows the table was generated with.
func (t *Table) Generated() int {
	return len(t.rows)
}

// Row returns the i-th retained row. The caller must not modify it.
func (t *Table) Row(i int) Combination {
	return t.rows[t.live[i]]
}

// Rows returns every retained row. The caller must not modify them.
func (t *Table) Rows() []Combination {
	out := make([]Combination, len(t.live))
	for i, idx := range t.live {
		out[i] = t.rows[idx]
	}
	return out
}

// At returns the position of row i in 1-based round r.
func (t *Table) At(i, round int) position.Position {
	return t.rows[t.live[i]][round-1]
}

// Contains reports whether c is one of the retained rows.
func (t *Table) Contains(c Combination) bool {
	for _, idx := range t.live {
		if slices.Equal(t.rows[idx], c) {
			return true
		}
	}
	return false
}

// Positions lists the distinct positions that retained rows take in the
// given round, in canonical order.
func (t *Table) Positions(round int) []position.Position {
	var seen [position.FLEX + 1]bool
	for _, idx := range t.live {
		seen[t.rows[idx][round-1]] = true
	}
	var out []position.Position
	for _, p := range position.Drafted {
		if seen[p] {
			out = append(out, p)
		}
	}
	return out
}

// Filter returns a table retaining only the rows whose entry in the given
// round is p. The receiver is left unchanged.
func (t *Table) Filter(round int, p position.Position) (*Table, error) {
	if round < 1 || round > t.rounds {
		return nil, fmt.Errorf("round %d out of range 1..%d", round, t.rounds)
	}
	live := make([]int, 0, len(t.live))
	for _, idx := range t.live {
		if t.rows[idx][round-1] == p {
			live = append(live, idx)
		}
	}
	return &Table{rows: t.rows, live: live, rounds: t.rounds}, nil
}
