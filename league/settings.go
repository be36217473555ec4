// Package league turns the options a participant chooses before a draft
// into validated, immutable draft settings.
package league

import (
	"fmt"
	"slices"
	"strings"

	"github.com/zcuddihy/ff-draft-app/common"
	"github.com/zcuddihy/ff-draft-app/position"
)

type Scoring string

const (
	PPR      Scoring = "PPR"
	HalfPPR  Scoring = "Half-PPR"
	Standard Scoring = "Standard"
)

func ParseScoring(s string) (Scoring, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ppr", "":
		return PPR, nil
	case "half-ppr", "half", "halfppr", "0.5ppr":
		return HalfPPR, nil
	case "standard", "std", "non-ppr":
		return Standard, nil
	}
	return "", fmt.Errorf("%w: unknown scoring mode %q", common.ErrConfiguration, s)
}

// Starters is the number of starting lineup slots per position.
type Starters struct {
	QB   int `yaml:"qb"`
	RB   int `yaml:"rb"`
	WR   int `yaml:"wr"`
	TE   int `yaml:"te"`
	Flex int `yaml:"flex"`
	K    int `yaml:"k"`
	DST  int `yaml:"dst"`
}

// Count returns the starter count for a position, FLEX included.
func (s Starters) Count(p position.Position) int {
	switch p {
	case position.QB:
		return s.QB
	case position.RB:
		return s.RB
	case position.WR:
		return s.WR
	case position.TE:
		return s.TE
	case position.FLEX:
		return s.Flex
	case position.K:
		return s.K
	case position.DST:
		return s.DST
	}
	return 0
}

// Slots is the number of lineup slots that take part in the build order:
// every starter except kickers and defenses.
func (s Starters) Slots() int {
	return s.QB + s.RB + s.WR + s.TE + s.Flex
}

func (s Starters) validate() error {
	for _, p := range []position.Position{position.QB, position.RB, position.WR,
		position.TE, position.FLEX, position.K, position.DST} {
		if s.Count(p) < 0 {
			return fmt.Errorf("%w: negative starter count %d for %v",
				common.ErrConfiguration, s.Count(p), p)
		}
	}
	return nil
}

// Settings are fixed for the lifetime of a draft.
type Settings struct {
	Starters Starters
	Flex     position.FlexPolicy
	Teams    int
	// Picks are the participant's overall pick numbers, one per round,
	// strictly increasing.
	Picks   []int
	Rounds  int
	Scoring Scoring
	Season  int
}

// TotalPicks is the number of picks in the whole draft, across all teams.
func (s *Settings) TotalPicks() int {
	return s.Rounds * s.Teams
}

// RoundOf returns the 1-based round in which the participant makes the
// given pick, and false if the pick is not the participant's.
func (s *Settings) RoundOf(pick int) (int, bool) {
	idx := slices.Index(s.Picks, pick)
	if idx < 0 {
		return 0, false
	}
	return idx + 1, true
}

func (s *Settings) IsParticipantPick(pick int) bool {
	_, ok := s.RoundOf(pick)
	return ok
}

// Clone returns a deep copy so a draft session can own its settings.
func (s *Settings) Clone() *Settings {
	c := *s
	c.Picks = slices.Clone(s.Picks)
	c.Flex.Custom = slices.Clone(s.Flex.Custom)
	return &c
}

// Validate rejects settings no draft can run with.
func (s *Settings) Validate() error {
	if err := s.Starters.validate(); err != nil {
		return err
	}
	if err := s.Flex.Validate(); err != nil {
		return err
	}
	if s.Starters.Flex > 0 && len(s.Flex.Eligible()) == 0 {
		return fmt.Errorf("%w: %d flex slots but no flex-eligible positions",
			common.ErrConfiguration, s.Starters.Flex)
	}
	if s.Teams < 1 {
		return fmt.Errorf("%w: need at least one team, got %d", common.ErrConfiguration, s.Teams)
	}
	if s.Rounds < 1 {
		return fmt.Errorf("%w: need at least one round", common.ErrConfiguration)
	}
	if s.Rounds != s.Starters.Slots() {
		return fmt.Errorf("%w: %d rounds but %d lineup slots to fill",
			common.ErrConfiguration, s.Rounds, s.Starters.Slots())
	}
	if len(s.Picks) != s.Rounds {
		return fmt.Errorf("%w: %d picks for %d rounds",
			common.ErrConfiguration, len(s.Picks), s.Rounds)
	}
	return validatePicks(s.Picks, s.TotalPicks())
}

func validatePicks(picks []int, total int) error {
	seen := make(map[int]bool, len(picks))
	for i, p := range picks {
		if p < 1 || p > total {
			return fmt.Errorf("%w: pick %d out of range 1..%d", common.ErrConfiguration, p, total)
		}
		if seen[p] {
			return fmt.Errorf("%w: duplicate pick %d", common.ErrConfiguration, p)
		}
		seen[p] = true
		if i > 0 && p < picks[i-1] {
			return fmt.Errorf("%w: picks must be in draft order, %d follows %d",
				common.ErrConfiguration, p, picks[i-1])
		}
	}
	return nil
}
