// Package combos enumerates every legal round-by-round order in which a
// participant can fill the starting lineup, and narrows that set as the
// participant makes picks.
package combos

import (
	"fmt"
	"slices"
	"strings"

	"github.com/zcuddihy/ff-draft-app/common"
	"github.com/zcuddihy/ff-draft-app/league"
	"github.com/zcuddihy/ff-draft-app/position"
)

// Combination is one feasible build order: element r-1 is the position the
// participant drafts in round r. It never contains FLEX.
type Combination []position.Position

func (c Combination) String() string {
	parts := make([]string, len(c))
	for i, p := range c {
		parts[i] = p.String()
	}
	return strings.Join(parts, "-")
}

func (c Combination) bytes(buf []byte) []byte {
	buf = buf[:0]
	for _, p := range c {
		buf = append(buf, byte(p))
	}
	return buf
}

// Requirements are the inputs to the generator: starter counts for the
// build-order positions, and how flex slots resolve.
type Requirements struct {
	Counts    map[position.Position]int
	FlexSlots int
	Flex      position.FlexPolicy
}

// buildPositions are the positions that take part in the build order.
// Kickers and defenses are drafted outside of it.
var buildPositions = []position.Position{position.QB, position.RB, position.WR, position.TE}

// RequirementsFrom extracts generator requirements from league settings.
func RequirementsFrom(s *league.Settings) Requirements {
	counts := make(map[position.Position]int, len(buildPositions))
	for _, p := range buildPositions {
		counts[p] = s.Starters.Count(p)
	}
	return Requirements{
		Counts:    counts,
		FlexSlots: s.Starters.Flex,
		Flex:      s.Flex,
	}
}

// Rounds is the length of every combination.
func (r Requirements) Rounds() int {
	n := r.FlexSlots
	for _, p := range buildPositions {
		n += r.Counts[p]
	}
	return n
}

func (r Requirements) validate() error {
	for p, c := range r.Counts {
		if c < 0 {
			return fmt.Errorf("%w: negative starter count %d for %v", common.ErrConfiguration, c, p)
		}
		if !slices.Contains(buildPositions, p) && c != 0 {
			return fmt.Errorf("%w: %v does not take part in the build order", common.ErrConfiguration, p)
		}
	}
	if r.FlexSlots < 0 {
		return fmt.Errorf("%w: negative flex slot count %d", common.ErrConfiguration, r.FlexSlots)
	}
	if r.FlexSlots > 0 {
		if err := r.Flex.Validate(); err != nil {
			return err
		}
		if len(r.Flex.Eligible()) == 0 {
			return fmt.Errorf("%w: %d flex slots but no flex-eligible positions",
				common.ErrConfiguration, r.FlexSlots)
		}
	}
	return nil
}

// tokens returns the multiset of slot tokens in sorted order, one FLEX
// token per flex slot.
func (r Requirements) tokens() []position.Position {
	toks := make([]position.Position, 0, r.Rounds())
	for _, p := range buildPositions {
		for i := 0; i < r.Counts[p]; i++ {
			toks = append(toks, p)
		}
	}
	for i := 0; i < r.FlexSlots; i++ {
		toks = append(toks, position.FLEX)
	}
	return toks
}
