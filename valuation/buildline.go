package valuation

import (
	"fmt"
	"strings"

	"github.com/zcuddihy/ff-draft-app/combos"
)

// BuildLine is the highest-valued retained build order for one choice in
// the current round, along with what each future round contributes.
type BuildLine struct {
	Positions combos.Combination
	// RoundValues holds each round's contribution; rounds up to and
	// including the current one contribute nothing.
	RoundValues []float64
	FromRound   int
	value       float64
}

func newBuildLine(c combos.Combination, rv RoundValues, round int, total float64) BuildLine {
	vals := make([]float64, len(c))
	for r := round + 1; r <= len(c); r++ {
		vals[r-1] = rv.Value(r, c[r-1])
	}
	return BuildLine{Positions: c, RoundValues: vals, FromRound: round, value: total}
}

func (b BuildLine) Value() float64 {
	return b.value
}

func (b BuildLine) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "build; val %.3f\n", b.value)
	for i, p := range b.Positions {
		fmt.Fprintf(&sb, "%d: %s", i+1, p)
		if i+1 > b.FromRound {
			fmt.Fprintf(&sb, " (%.3f)", b.RoundValues[i])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// NLBString is String without line breaks.
func (b BuildLine) NLBString() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "build; val %.3f; ", b.value)
	for i, p := range b.Positions {
		fmt.Fprintf(&sb, "%d: %s; ", i+1, p)
	}
	return sb.String()
}
