package league

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/zcuddihy/ff-draft-app/common"
	"github.com/zcuddihy/ff-draft-app/config"
	"github.com/zcuddihy/ff-draft-app/position"
)

type DraftOrder string

const (
	Snake  DraftOrder = "snake"
	Custom DraftOrder = "custom"
)

// Options is what a participant fills in before the draft. Resolve turns it
// into Settings.
type Options struct {
	Starters   Starters `yaml:"starters"`
	Flex       string   `yaml:"flex"`
	Teams      int      `yaml:"teams"`
	DraftOrder string   `yaml:"draft_order"`
	// FirstPick is the participant's slot in round one, used by snake drafts.
	FirstPick int `yaml:"first_pick"`
	// Picks lists every participant pick for custom draft orders.
	Picks   []int  `yaml:"picks,flow"`
	Scoring string `yaml:"scoring"`
	Season  int    `yaml:"season"`
}

// LoadOptions reads options from a YAML league file.
func LoadOptions(r io.Reader) (*Options, error) {
	opts := &Options{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(opts); err != nil {
		return nil, fmt.Errorf("%w: reading league file: %v", common.ErrConfiguration, err)
	}
	return opts, nil
}

// SetDefaults fills anything left unset from the configuration.
func (o *Options) SetDefaults(cfg *config.Config) {
	if o.Starters == (Starters{}) {
		o.Starters = Starters{
			QB:   cfg.GetInt(config.ConfigStartersQB),
			RB:   cfg.GetInt(config.ConfigStartersRB),
			WR:   cfg.GetInt(config.ConfigStartersWR),
			TE:   cfg.GetInt(config.ConfigStartersTE),
			Flex: cfg.GetInt(config.ConfigStartersFlex),
			K:    cfg.GetInt(config.ConfigStartersK),
			DST:  cfg.GetInt(config.ConfigStartersDST),
		}
		log.Info().Msgf("using default starters %+v", o.Starters)
	}
	if o.Flex == "" {
		o.Flex = cfg.GetString(config.ConfigFlexPolicy)
	}
	if o.Teams == 0 {
		o.Teams = cfg.GetInt(config.ConfigTeams)
	}
	if o.DraftOrder == "" {
		o.DraftOrder = cfg.GetString(config.ConfigDraftOrder)
	}
	if o.FirstPick == 0 && len(o.Picks) == 0 {
		o.FirstPick = cfg.GetInt(config.ConfigFirstPick)
	}
	if o.Scoring == "" {
		o.Scoring = cfg.GetString(config.ConfigScoring)
	}
	if o.Season == 0 {
		o.Season = cfg.GetInt(config.ConfigSeason)
	}
}

// Resolve validates the options and derives the participant's pick list.
func (o *Options) Resolve() (*Settings, error) {
	flex, err := position.ParseFlexPolicy(o.Flex)
	if err != nil {
		return nil, err
	}
	scoring, err := ParseScoring(o.Scoring)
	if err != nil {
		return nil, err
	}
	s := &Settings{
		Starters: o.Starters,
		Flex:     flex,
		Teams:    o.Teams,
		Rounds:   o.Starters.Slots(),
		Scoring:  scoring,
		Season:   o.Season,
	}
	switch DraftOrder(strings.ToLower(o.DraftOrder)) {
	case Snake, "":
		s.Picks, err = SnakePicks(o.Teams, o.FirstPick, s.Rounds)
		if err != nil {
			return nil, err
		}
	case Custom:
		s.Picks = append([]int(nil), o.Picks...)
	default:
		return nil, fmt.Errorf("%w: unknown draft order %q", common.ErrConfiguration, o.DraftOrder)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// SnakePicks returns the overall pick numbers of the team drafting from
// slot firstPick in a snake draft: order runs forward in odd rounds and
// backward in even ones.
func SnakePicks(teams, firstPick, rounds int) ([]int, error) {
	if teams < 1 {
		return nil, fmt.Errorf("%w: need at least one team, got %d", common.ErrConfiguration, teams)
	}
	if firstPick < 1 || firstPick > teams {
		return nil, fmt.Errorf("%w: first pick %d out of range 1..%d",
			common.ErrConfiguration, firstPick, teams)
	}
	picks := make([]int, rounds)
	for r := 0; r < rounds; r++ {
		if r%2 == 0 {
			picks[r] = r*teams + firstPick
		} else {
			picks[r] = r*teams + teams - firstPick + 1
		}
	}
	return picks, nil
}

// FromConfig resolves league settings from the configured league file, or
// from configuration values alone if there is none.
func FromConfig(cfg *config.Config) (*Settings, error) {
	opts := &Options{}
	if path := cfg.GetString(config.ConfigLeagueFile); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrConfiguration, err)
		}
		defer f.Close()
		if opts, err = LoadOptions(f); err != nil {
			return nil, err
		}
	}
	opts.SetDefaults(cfg)
	return opts.Resolve()
}
