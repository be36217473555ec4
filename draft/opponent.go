package draft

import (
	"fmt"
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat/distuv"
	"lukechampine.com/frand"

	"github.com/zcuddihy/ff-draft-app/common"
	"github.com/zcuddihy/ff-draft-app/player"
)

// Opponent picks for every team other than the participant's. It is given
// the overall pick number and the players still on the board.
type Opponent interface {
	Select(pick int, undrafted []*player.Player) (*player.Player, error)
}

// OpponentFunc adapts a function to the Opponent interface.
type OpponentFunc func(pick int, undrafted []*player.Player) (*player.Player, error)

func (f OpponentFunc) Select(pick int, undrafted []*player.Player) (*player.Player, error) {
	return f(pick, undrafted)
}

var errPoolExhausted = fmt.Errorf("%w: no undrafted players left", common.ErrDataIntegrity)

// ADPOpponent always takes the consensus best player: the one with the
// lowest ADP mean. Ties go to the player listed first.
type ADPOpponent struct{}

func (ADPOpponent) Select(pick int, undrafted []*player.Player) (*player.Player, error) {
	if len(undrafted) == 0 {
		return nil, errPoolExhausted
	}
	return lo.MinBy(undrafted, func(a, b *player.Player) bool {
		return a.ADPMean < b.ADPMean
	}), nil
}

// SampledADPOpponent draws a draft position for every undrafted player from
// the player's ADP distribution and takes the player with the earliest draw. It
// makes mock drafts vary the way real ones do.
type SampledADPOpponent struct {
	// Uniform returns a number in [0, 1). Defaults to frand.Float64.
	Uniform func() float64
}

func (o SampledADPOpponent) Select(pick int, undrafted []*player.Player) (*player.Player, error) {
	if len(undrafted) == 0 {
		return nil, errPoolExhausted
	}
	uniform := o.Uniform
	if uniform == nil {
		uniform = frand.Float64
	}
	var best *player.Player
	bestDraw := math.Inf(1)
	for _, p := range undrafted {
		u := uniform()
		if u <= 0 {
			u = math.SmallestNonzeroFloat64
		}
		draw := distuv.Normal{Mu: p.ADPMean, Sigma: p.ADPStd}.Quantile(u)
		if draw < bestDraw {
			best, bestDraw = p, draw
		}
	}
	if best == nil {
		best = undrafted[0]
	}
	return best, nil
}
