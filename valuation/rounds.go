// Package valuation turns availability estimates into the value of each
// position choice over the rest of the draft.
package valuation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/zcuddihy/ff-draft-app/availability"
	"github.com/zcuddihy/ff-draft-app/player"
	"github.com/zcuddihy/ff-draft-app/position"
)

// RoundValues maps a 1-based round to the total dynamic value of each
// position at the participant's pick in that round.
type RoundValues map[int]map[position.Position]float64

// Rounds returns the rounds present, in increasing order.
func (rv RoundValues) Rounds() []int {
	rounds := lo.Keys(rv)
	slices.Sort(rounds)
	return rounds
}

// Value returns the value of p in round r. Positions with nobody left on
// the board are worth nothing.
func (rv RoundValues) Value(r int, p position.Position) float64 {
	return rv[r][p]
}

func (rv RoundValues) String() string {
	var sb strings.Builder
	for _, r := range rv.Rounds() {
		fmt.Fprintf(&sb, "round %d:", r)
		for _, p := range position.Drafted {
			if v, ok := rv[r][p]; ok {
				fmt.Fprintf(&sb, " %s=%.3f", p, v)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ByRound computes the value table for every participant pick strictly
// after activePick, from the players still undrafted now.
func ByRound(undrafted []*player.Player, picks []int, activePick int) (RoundValues, error) {
	rv := make(RoundValues)
	for idx, pick := range picks {
		if pick <= activePick {
			continue
		}
		ests, err := availability.AtPick(undrafted, pick)
		if err != nil {
			return nil, err
		}
		sums, err := availability.SumByPosition(ests)
		if err != nil {
			return nil, err
		}
		rv[idx+1] = sums
	}
	log.Debug().Int("active-pick", activePick).Int("future-rounds", len(rv)).
		Int("undrafted", len(undrafted)).Msg("round-values-computed")
	return rv, nil
}
