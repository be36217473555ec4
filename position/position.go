// Package position defines the roster positions of a fantasy football league
// and the policies that say which of them may fill a flex slot.
package position

import (
	"fmt"
	"strings"

	"github.com/zcuddihy/ff-draft-app/common"
)

type Position uint8

const (
	Unknown Position = iota
	QB
	RB
	WR
	TE
	K
	DST
	// FLEX is a lineup slot, never a player's position. It only appears in
	// starter counts and in the token multiset before flex resolution.
	FLEX
)

// Drafted lists every position a player can have, in canonical order.
var Drafted = []Position{QB, RB, WR, TE, K, DST}

var names = [...]string{
	Unknown: "??",
	QB:      "QB",
	RB:      "RB",
	WR:      "WR",
	TE:      "TE",
	K:       "K",
	DST:     "DST",
	FLEX:    "FLEX",
}

func (p Position) String() string {
	if int(p) >= len(names) {
		return names[Unknown]
	}
	return names[p]
}

// Concrete is true for positions a player can actually hold.
func (p Position) Concrete() bool {
	return p >= QB && p <= DST
}

// FromString parses a position code as it appears in projection files.
// FLEX is accepted since starter tables name it, but callers reading player
// rows must reject it themselves.
func FromString(s string) (Position, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "QB":
		return QB, nil
	case "RB":
		return RB, nil
	case "WR":
		return WR, nil
	case "TE":
		return TE, nil
	case "K", "PK":
		return K, nil
	case "DST", "D/ST", "DEF":
		return DST, nil
	case "FLEX":
		return FLEX, nil
	}
	return Unknown, fmt.Errorf("%w: unknown position %q", common.ErrDataIntegrity, s)
}

// FromStrings parses a list of concrete position codes.
func FromStrings(ss []string) ([]Position, error) {
	ps := make([]Position, 0, len(ss))
	for _, s := range ss {
		p, err := FromString(s)
		if err != nil {
			return nil, err
		}
		if !p.Concrete() {
			return nil, fmt.Errorf("%w: %v is not a player position", common.ErrDataIntegrity, p)
		}
		ps = append(ps, p)
	}
	return ps, nil
}
