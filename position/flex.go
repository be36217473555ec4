package position

import (
	"fmt"
	"slices"
	"strings"

	"github.com/zcuddihy/ff-draft-app/common"
)

type FlexKind int

const (
	FlexNone FlexKind = iota
	FlexStandard
	FlexSuper
	FlexRBWR
	FlexCustom
)

// FlexPolicy says which positions may fill a FLEX slot.
type FlexPolicy struct {
	Kind FlexKind
	// Custom is only consulted when Kind is FlexCustom.
	Custom []Position
}

var (
	NoFlex       = FlexPolicy{Kind: FlexNone}
	StandardFlex = FlexPolicy{Kind: FlexStandard}
	SuperFlex    = FlexPolicy{Kind: FlexSuper}
	RBWRFlex     = FlexPolicy{Kind: FlexRBWR}
)

// CustomFlex builds a policy from an arbitrary set of concrete positions.
func CustomFlex(ps ...Position) FlexPolicy {
	return FlexPolicy{Kind: FlexCustom, Custom: ps}
}

// Eligible returns the flex-eligible positions in canonical order, with
// duplicates removed. It returns nil for FlexNone.
func (f FlexPolicy) Eligible() []Position {
	switch f.Kind {
	case FlexStandard:
		return []Position{RB, WR, TE}
	case FlexSuper:
		return []Position{QB, RB, WR, TE}
	case FlexRBWR:
		return []Position{RB, WR}
	case FlexCustom:
		out := slices.Clone(f.Custom)
		slices.Sort(out)
		return slices.Compact(out)
	}
	return nil
}

func (f FlexPolicy) Validate() error {
	if f.Kind < FlexNone || f.Kind > FlexCustom {
		return fmt.Errorf("%w: unknown flex policy %d", common.ErrConfiguration, f.Kind)
	}
	if f.Kind != FlexCustom {
		return nil
	}
	if len(f.Custom) == 0 {
		return fmt.Errorf("%w: custom flex policy has no positions", common.ErrConfiguration)
	}
	for _, p := range f.Custom {
		if !p.Concrete() {
			return fmt.Errorf("%w: %v cannot fill a flex slot", common.ErrConfiguration, p)
		}
	}
	return nil
}

func (f FlexPolicy) String() string {
	switch f.Kind {
	case FlexNone:
		return "none"
	case FlexStandard:
		return "standard"
	case FlexSuper:
		return "superflex"
	case FlexRBWR:
		return "rb/wr"
	}
	parts := make([]string, 0, len(f.Custom))
	for _, p := range f.Eligible() {
		parts = append(parts, p.String())
	}
	return "custom(" + strings.Join(parts, ",") + ")"
}

// ParseFlexPolicy accepts the policy names used by the settings form
// ("None", "Standard", "Super Flex", "RB/WR") as well as a comma-separated
// list of positions for a custom set.
func ParseFlexPolicy(s string) (FlexPolicy, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	switch norm {
	case "", "none":
		return NoFlex, nil
	case "standard":
		return StandardFlex, nil
	case "superflex", "super-flex":
		return SuperFlex, nil
	case "rb/wr", "rbwr":
		return RBWRFlex, nil
	}
	ps, err := FromStrings(strings.Split(s, ","))
	if err != nil {
		return FlexPolicy{}, fmt.Errorf("%w: bad flex policy %q", common.ErrConfiguration, s)
	}
	f := CustomFlex(ps...)
	return f, f.Validate()
}
