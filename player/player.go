// Package player holds projected players and the pool of players that are
// still on the board during a draft.
package player

import (
	"fmt"
	"math"

	"github.com/zcuddihy/ff-draft-app/common"
	"github.com/zcuddihy/ff-draft-app/position"
)

// Player is one row of the season projections, plus the static value the
// replacement model assigned to it when the pool was built.
type Player struct {
	Name     string
	Team     string
	Position position.Position
	// Points is the projected season fantasy point total.
	Points float64
	// ADPMean and ADPStd parameterize the normal distribution of the pick
	// number at which this player is typically taken.
	ADPMean float64
	ADPStd  float64
	// Value is the wins-above-replacement style static value.
	Value float64
}

func (p *Player) String() string {
	return fmt.Sprintf("<%s %s %s pts=%.1f adp=%.1f±%.1f val=%.3f>",
		p.Name, p.Team, p.Position, p.Points, p.ADPMean, p.ADPStd, p.Value)
}

// Validate checks the fields the availability model depends on.
func (p *Player) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: player with no name", common.ErrDataIntegrity)
	}
	if !p.Position.Concrete() {
		return fmt.Errorf("%w: player %s has position %v", common.ErrDataIntegrity, p.Name, p.Position)
	}
	for _, f := range []float64{p.Points, p.ADPMean, p.ADPStd, p.Value} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: player %s has a non-numeric field", common.ErrDataIntegrity, p.Name)
		}
	}
	if p.ADPStd <= 0 {
		return fmt.Errorf("%w: player %s has ADP std %v; must be > 0",
			common.ErrDataIntegrity, p.Name, p.ADPStd)
	}
	return nil
}
