// Package testhelpers holds fixtures shared by the package tests.
package testhelpers

import (
	"fmt"

	"github.com/zcuddihy/ff-draft-app/config"
	"github.com/zcuddihy/ff-draft-app/league"
	"github.com/zcuddihy/ff-draft-app/player"
	"github.com/zcuddihy/ff-draft-app/position"
)

var DefaultConfig = config.DefaultConfig()

// Player builds a player with a made-up team and points equal to value.
func Player(name string, pos position.Position, value, adp, std float64) *player.Player {
	return &player.Player{
		Name:     name,
		Team:     "FA",
		Position: pos,
		Points:   value,
		ADPMean:  adp,
		ADPStd:   std,
		Value:    value,
	}
}

// Pool returns perPosition players at each of QB, RB, WR and TE. Within a
// position value falls and ADP rises with the index, and positions are
// interleaved in ADP so every position is drafted early and late.
func Pool(perPosition int) []*player.Player {
	build := []position.Position{position.QB, position.RB, position.WR, position.TE}
	// Base value and ADP offset per position.
	base := map[position.Position][2]float64{
		position.QB: {60, 3},
		position.RB: {90, 0},
		position.WR: {85, 1},
		position.TE: {50, 2},
	}
	var players []*player.Player
	for i := 0; i < perPosition; i++ {
		for _, pos := range build {
			b := base[pos]
			players = append(players, Player(
				fmt.Sprintf("%v%d", pos, i+1), pos,
				b[0]-float64(i)*b[0]/float64(perPosition+1),
				float64(i*len(build))+b[1]+1, 3))
		}
	}
	return players
}

// Settings returns validated snake-draft settings for the given starters.
func Settings(starters league.Starters, flex position.FlexPolicy, teams, firstPick int) *league.Settings {
	rounds := starters.Slots()
	picks, err := league.SnakePicks(teams, firstPick, rounds)
	if err != nil {
		panic(err)
	}
	s := &league.Settings{
		Starters: starters,
		Flex:     flex,
		Teams:    teams,
		Picks:    picks,
		Rounds:   rounds,
		Scoring:  league.PPR,
		Season:   2021,
	}
	if err := s.Validate(); err != nil {
		panic(err)
	}
	return s
}

// SmallLeague is a 1 QB, 1 RB, 1 WR, 1 FLEX league of four teams drafting
// second.
func SmallLeague() *league.Settings {
	return Settings(league.Starters{QB: 1, RB: 1, WR: 1, Flex: 1},
		position.StandardFlex, 4, 2)
}
