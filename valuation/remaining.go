package valuation

import (
	"fmt"

	"github.com/zcuddihy/ff-draft-app/combos"
	"github.com/zcuddihy/ff-draft-app/position"
)

// Remaining is the best achievable value over the rest of the draft for
// each position the participant could take this round.
type Remaining struct {
	Round  int
	Values map[position.Position]float64
	Best   map[position.Position]BuildLine
}

// Value returns the remaining value for p and whether p is a legal choice
// this round.
func (r *Remaining) Value(p position.Position) (float64, bool) {
	v, ok := r.Values[p]
	return v, ok
}

// RemainingValue scores every retained combination by summing the round
// values of its positions over the future rounds, then keeps, for each
// position in the current round's column, the best total.
//
// This is a per-turn greedy bound. It does not model how later picks change
// availability; it is recomputed from scratch every turn instead.
func RemainingValue(rv RoundValues, table *combos.Table, round int) (*Remaining, error) {
	if round < 1 || round > table.Rounds() {
		return nil, fmt.Errorf("round %d out of range 1..%d", round, table.Rounds())
	}
	future := rv.Rounds()
	for _, r := range future {
		if r <= round || r > table.Rounds() {
			return nil, fmt.Errorf("round value for round %d is not a future round of %d", r, round)
		}
	}
	res := &Remaining{
		Round:  round,
		Values: make(map[position.Position]float64),
		Best:   make(map[position.Position]BuildLine),
	}
	for i := 0; i < table.Len(); i++ {
		total := 0.0
		for _, r := range future {
			total += rv.Value(r, table.At(i, r))
		}
		choice := table.At(i, round)
		if best, ok := res.Values[choice]; ok && best >= total {
			continue
		}
		res.Values[choice] = total
		res.Best[choice] = newBuildLine(table.Row(i), rv, round, total)
	}
	return res, nil
}
