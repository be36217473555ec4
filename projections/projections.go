// Package projections reads season projections and the replacement-value
// model, and turns them into players ready for a draft.
package projections

import (
	"context"
	"fmt"

	"github.com/zcuddihy/ff-draft-app/common"
	"github.com/zcuddihy/ff-draft-app/player"
	"github.com/zcuddihy/ff-draft-app/position"
)

// Projection is one player's row from a projection source.
type Projection struct {
	Player  string
	Team    string
	Pos     position.Position
	Points  float64
	ADPMean float64
	ADPStd  float64
}

// Source supplies projections for a season.
type Source interface {
	Projections(ctx context.Context, season int) ([]Projection, error)
}

// Players applies the value model to every projection. The model is run
// exactly once per player, here, and never during the draft.
func Players(projs []Projection, model *ValueModel) ([]*player.Player, error) {
	players := make([]*player.Player, 0, len(projs))
	for _, pr := range projs {
		if !pr.Pos.Concrete() {
			return nil, fmt.Errorf("%w: player %s has position %v", common.ErrDataIntegrity, pr.Player, pr.Pos)
		}
		v, err := model.Value(pr.Pos, pr.Points)
		if err != nil {
			return nil, err
		}
		p := &player.Player{
			Name:     pr.Player,
			Team:     pr.Team,
			Position: pr.Pos,
			Points:   pr.Points,
			ADPMean:  pr.ADPMean,
			ADPStd:   pr.ADPStd,
			Value:    v,
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, nil
}
