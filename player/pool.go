package player

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/zcuddihy/ff-draft-app/common"
)

// Pool tracks which players have been taken. A player is drafted exactly
// once and never returns to the board.
type Pool struct {
	players []*Player
	index   map[string]int
	drafted []bool
	// order holds indices into players, in the order they were drafted.
	order []int
}

// NewPool validates every player and rejects duplicate names. The players
// themselves are shared, not copied; they must not be modified afterwards.
func NewPool(players []*Player) (*Pool, error) {
	p := &Pool{
		players: make([]*Player, 0, len(players)),
		index:   make(map[string]int, len(players)),
	}
	for _, pl := range players {
		if pl == nil {
			return nil, fmt.Errorf("%w: nil player", common.ErrDataIntegrity)
		}
		if err := pl.Validate(); err != nil {
			return nil, err
		}
		if _, ok := p.index[pl.Name]; ok {
			return nil, fmt.Errorf("%w: player %s appears twice", common.ErrDataIntegrity, pl.Name)
		}
		p.index[pl.Name] = len(p.players)
		p.players = append(p.players, pl)
	}
	p.drafted = make([]bool, len(p.players))
	log.Debug().Int("players", len(p.players)).Msg("player-pool-created")
	return p, nil
}

func (p *Pool) Len() int {
	return len(p.players)
}

func (p *Pool) NumUndrafted() int {
	return len(p.players) - len(p.order)
}

// Get looks a player up by name, drafted or not.
func (p *Pool) Get(name string) (*Player, bool) {
	idx, ok := p.index[name]
	if !ok {
		return nil, false
	}
	return p.players[idx], true
}

func (p *Pool) IsDrafted(name string) bool {
	idx, ok := p.index[name]
	return ok && p.drafted[idx]
}

// Undrafted returns the players still on the board, in their original order.
func (p *Pool) Undrafted() []*Player {
	return lo.Filter(p.players, func(_ *Player, i int) bool {
		return !p.drafted[i]
	})
}

// Drafted returns every drafted player, in draft order.
func (p *Pool) Drafted() []*Player {
	return lo.Map(p.order, func(idx int, _ int) *Player {
		return p.players[idx]
	})
}

// Draft removes a player from the board.
func (p *Pool) Draft(name string) error {
	idx, ok := p.index[name]
	if !ok {
		return fmt.Errorf("%w: unknown player %q", common.ErrDataIntegrity, name)
	}
	if p.drafted[idx] {
		return fmt.Errorf("%w: player %s was already drafted", common.ErrDataIntegrity, name)
	}
	p.drafted[idx] = true
	p.order = append(p.order, idx)
	return nil
}
