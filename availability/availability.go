// Package availability estimates, for a future pick, how likely each
// undrafted player is to still be on the board and to be the best player
// left at that position.
package availability

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/zcuddihy/ff-draft-app/common"
	"github.com/zcuddihy/ff-draft-app/player"
	"github.com/zcuddihy/ff-draft-app/position"
)

// Estimate is the availability of one player at one pick.
type Estimate struct {
	Player *player.Player
	// PAvailable is the probability the player is taken at or after the pick.
	PAvailable float64
	PTaken     float64
	// PBestAvailable is the probability the player is available and every
	// better player at the same position is not.
	PBestAvailable float64
	// DynamicValue is the static value weighted by PBestAvailable.
	DynamicValue float64
}

// PAvailable is 1 - Φ((pick - mean) / std) for the player's ADP.
func PAvailable(p *player.Player, pick int) (float64, error) {
	if !(p.ADPStd > 0) {
		return 0, fmt.Errorf("%w: player %s has ADP std %v; must be > 0",
			common.ErrDataIntegrity, p.Name, p.ADPStd)
	}
	dist := distuv.Normal{Mu: p.ADPMean, Sigma: p.ADPStd}
	return 1 - dist.CDF(float64(pick)), nil
}

// AtPick estimates every player's availability at the given pick. The
// result is grouped by position in canonical order; within a position,
// players are ordered by static value, best first, ties kept in input order.
func AtPick(players []*player.Player, pick int) ([]Estimate, error) {
	groups := lo.GroupBy(players, func(p *player.Player) position.Position {
		return p.Position
	})
	out := make([]Estimate, 0, len(players))
	for _, pos := range position.Drafted {
		group, ok := groups[pos]
		if !ok {
			continue
		}
		ests, err := groupAtPick(group, pick)
		if err != nil {
			return nil, err
		}
		out = append(out, ests...)
	}
	if len(out) != len(players) {
		return nil, fmt.Errorf("%w: %d players have no draftable position",
			common.ErrDataIntegrity, len(players)-len(out))
	}
	return out, nil
}

// groupAtPick handles a single position. The best-available probability of
// each player depends on every better player being gone, which is a running
// product of PTaken down the sorted group.
func groupAtPick(group []*player.Player, pick int) ([]Estimate, error) {
	sorted := slices.Clone(group)
	slices.SortStableFunc(sorted, func(a, b *player.Player) int {
		return cmp.Compare(b.Value, a.Value)
	})
	ests := make([]Estimate, len(sorted))
	allBetterTaken := 1.0
	for i, p := range sorted {
		pa, err := PAvailable(p, pick)
		if err != nil {
			return nil, err
		}
		pb := pa * allBetterTaken
		ests[i] = Estimate{
			Player:         p,
			PAvailable:     pa,
			PTaken:         1 - pa,
			PBestAvailable: pb,
			DynamicValue:   p.Value * pb,
		}
		allBetterTaken *= 1 - pa
	}
	return ests, nil
}

// SumByPosition adds up dynamic value per position. NaN sums are a data
// error rather than something to rank with.
func SumByPosition(ests []Estimate) (map[position.Position]float64, error) {
	sums := make(map[position.Position]float64)
	for _, e := range ests {
		sums[e.Player.Position] += e.DynamicValue
	}
	for p, v := range sums {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("%w: dynamic value for %v is NaN", common.ErrDataIntegrity, p)
		}
	}
	return sums, nil
}
