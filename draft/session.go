// Package draft runs a draft from the first pick to the last, asking for the
// participant's selection on each of their picks and simulating everyone
// else's.
package draft

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zcuddihy/ff-draft-app/combos"
	"github.com/zcuddihy/ff-draft-app/common"
	"github.com/zcuddihy/ff-draft-app/league"
	"github.com/zcuddihy/ff-draft-app/player"
	"github.com/zcuddihy/ff-draft-app/valuation"
)

type State int

const (
	AwaitingParticipantPick State = iota
	SimulatingOpponentPick
	Finished
)

func (s State) String() string {
	switch s {
	case AwaitingParticipantPick:
		return "awaiting-participant-pick"
	case SimulatingOpponentPick:
		return "simulating-opponent-pick"
	}
	return "finished"
}

var (
	ErrDraftOver   = errors.New("the draft is over")
	ErrNotYourTurn = errors.New("it is not the participant's pick")
	ErrWrongTurn   = errors.New("it is the participant's pick")
)

// Candidate is an undrafted player ranked for the participant's current pick.
type Candidate struct {
	Player *player.Player
	// Fits is false when no retained build order has the player's position
	// this round. Such players rank after every player that fits, and
	// drafting one fails without changing the session.
	Fits bool
	// RemainingValue is the best value the rest of the draft can add if the
	// participant takes this player's position now. Zero if !Fits.
	RemainingValue float64
	// Score is the player's static value plus RemainingValue.
	Score float64
}

// Pick records one completed pick.
type Pick struct {
	Number      int
	Player      *player.Player
	Participant bool
}

type Option func(*Session)

// WithOpponent replaces the default lowest-ADP opponent model.
func WithOpponent(o Opponent) Option {
	return func(s *Session) {
		s.opponent = o
	}
}

// WithTable uses an already generated combination table. Tables are never
// mutated, so one generated table can seed many sessions.
func WithTable(t *combos.Table) Option {
	return func(s *Session) {
		s.table = t
	}
}

// WithCandidateLimit caps how many ranked candidates Recommend shows and
// the participant may choose from. Zero or less shows them all.
func WithCandidateLimit(n int) Option {
	return func(s *Session) {
		s.limit = max(n, 0)
	}
}

// WithGenerator sets the generator used to build the combination table.
func WithGenerator(g *combos.Generator) Option {
	return func(s *Session) {
		s.generator = g
	}
}

// Session owns the state of a single draft: the undrafted pool, the
// combination table and the active pick. It is not safe for concurrent use;
// every turn runs to completion before the next one starts.
type Session struct {
	id        string
	logger    zerolog.Logger
	settings  *league.Settings
	pool      *player.Pool
	table     *combos.Table
	generator *combos.Generator
	opponent  Opponent
	limit     int

	activePick int
	myTeam     []*player.Player
	history    []Pick

	// Ranking for the active pick, computed lazily.
	rankedFor int
	ranked    []Candidate
	remaining *valuation.Remaining
}

// NewSession validates the settings, builds the pool and, unless one was
// supplied, generates the combination table. Any error here is fatal to the
// draft.
func NewSession(settings *league.Settings, players []*player.Player, opts ...Option) (*Session, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no league settings", common.ErrConfiguration)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	pool, err := player.NewPool(players)
	if err != nil {
		return nil, err
	}
	s := &Session{
		id:         uuid.NewString(),
		settings:   settings.Clone(),
		pool:       pool,
		opponent:   ADPOpponent{},
		generator:  &combos.Generator{},
		activePick: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = log.With().Str("session", s.id).Logger()

	if s.table == nil {
		s.table, err = s.generator.Generate(combos.RequirementsFrom(s.settings))
		if err != nil {
			return nil, err
		}
	}
	if s.table.Rounds() != s.settings.Rounds {
		return nil, fmt.Errorf("%w: combination table has %d rounds, league has %d",
			common.ErrConfiguration, s.table.Rounds(), s.settings.Rounds)
	}
	if s.table.Len() == 0 {
		return nil, fmt.Errorf("%w: empty combination table", common.ErrConfiguration)
	}
	s.logger.Debug().Int("players", pool.Len()).Int("combinations", s.table.Len()).
		Ints("picks", s.settings.Picks).Int("total-picks", s.settings.TotalPicks()).
		Msg("draft-session-created")
	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

// Settings returns a copy of the session's settings.
func (s *Session) Settings() *league.Settings {
	return s.settings.Clone()
}

func (s *Session) ActivePick() int {
	return s.activePick
}

func (s *Session) State() State {
	switch {
	case s.activePick > s.settings.TotalPicks():
		return Finished
	case s.settings.IsParticipantPick(s.activePick):
		return AwaitingParticipantPick
	}
	return SimulatingOpponentPick
}

// Round returns the participant's current 1-based round. It is only
// meaningful while awaiting the participant's pick.
func (s *Session) Round() int {
	r, _ := s.settings.RoundOf(s.activePick)
	return r
}

// Table returns the current, filtered combination table.
func (s *Session) Table() *combos.Table {
	return s.table
}

func (s *Session) MyTeam() []*player.Player {
	return slices.Clone(s.myTeam)
}

func (s *Session) History() []Pick {
	return slices.Clone(s.history)
}

func (s *Session) Undrafted() []*player.Player {
	return s.pool.Undrafted()
}

// Remaining returns the valuation behind the current ranking, or nil if the
// participant's current pick has not been ranked yet.
func (s *Session) Remaining() *valuation.Remaining {
	if s.rankedFor != s.activePick {
		return nil
	}
	return s.remaining
}

// SetCandidateLimit changes how many candidates are shown and selectable,
// as WithCandidateLimit does.
func (s *Session) SetCandidateLimit(n int) {
	s.limit = max(n, 0)
}

// Recommend ranks the undrafted players for the participant's pick by
// static value plus the best remaining value for their position. Players
// whose position no retained combination allows this round follow on
// static value alone. At most the candidate limit is returned.
func (s *Session) Recommend() ([]Candidate, error) {
	if err := s.expect(AwaitingParticipantPick); err != nil {
		return nil, err
	}
	if s.rankedFor == s.activePick {
		return s.shown(), nil
	}
	undrafted := s.pool.Undrafted()
	rv, err := valuation.ByRound(undrafted, s.settings.Picks, s.activePick)
	if err != nil {
		return nil, err
	}
	rem, err := valuation.RemainingValue(rv, s.table, s.Round())
	if err != nil {
		return nil, err
	}
	ranked := make([]Candidate, 0, len(undrafted))
	fits := 0
	for _, p := range undrafted {
		c := Candidate{Player: p, Score: p.Value}
		if v, ok := rem.Value(p.Position); ok {
			c.Fits, c.RemainingValue, c.Score = true, v, p.Value+v
			fits++
		}
		ranked = append(ranked, c)
	}
	if fits == 0 {
		return nil, fmt.Errorf("%w: no undrafted player fits round %d",
			common.ErrDataIntegrity, s.Round())
	}
	slices.SortStableFunc(ranked, func(a, b Candidate) int {
		if a.Fits != b.Fits {
			if a.Fits {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.Score, a.Score)
	})
	s.rankedFor, s.ranked, s.remaining = s.activePick, ranked, rem
	s.logger.Debug().Int("pick", s.activePick).Int("round", s.Round()).
		Int("candidates", fits).Int("ranked", len(ranked)).Str("top", ranked[0].Player.Name).
		Msg("ranked-candidates")
	return s.shown(), nil
}

func (s *Session) shown() []Candidate {
	if s.limit > 0 && s.limit < len(s.ranked) {
		return slices.Clone(s.ranked[:s.limit])
	}
	return slices.Clone(s.ranked)
}

// Select drafts the named player for the participant. The player must be
// one of the candidates Recommend shows. On any error the session is
// unchanged.
func (s *Session) Select(name string) error {
	cands, err := s.Recommend()
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(cands, func(c Candidate) bool {
		return c.Player.Name == name
	})
	if idx < 0 {
		return fmt.Errorf("%w: %q is not an available candidate", common.ErrSelection, name)
	}
	return s.take(cands[idx].Player)
}

// SelectIndex drafts the i-th (1-based) ranked candidate.
func (s *Session) SelectIndex(i int) error {
	cands, err := s.Recommend()
	if err != nil {
		return err
	}
	if i < 1 || i > len(cands) {
		return fmt.Errorf("%w: candidate %d out of range 1..%d", common.ErrSelection, i, len(cands))
	}
	return s.take(cands[i-1].Player)
}

func (s *Session) take(p *player.Player) error {
	round := s.Round()
	filtered, err := s.table.Filter(round, p.Position)
	if err != nil {
		return err
	}
	if filtered.Len() == 0 {
		return fmt.Errorf("%w: no build order has %v in round %d",
			common.ErrConfiguration, p.Position, round)
	}
	if err := s.pool.Draft(p.Name); err != nil {
		return err
	}
	s.logger.Debug().Int("pick", s.activePick).Int("round", round).
		Str("player", p.Name).Stringer("position", p.Position).
		Int("combinations", filtered.Len()).Msg("participant-pick")
	s.table = filtered
	s.myTeam = append(s.myTeam, p)
	s.history = append(s.history, Pick{Number: s.activePick, Player: p, Participant: true})
	s.activePick++
	return nil
}

// OpponentPick lets the opponent model make the active pick.
func (s *Session) OpponentPick() (*player.Player, error) {
	if err := s.expect(SimulatingOpponentPick); err != nil {
		return nil, err
	}
	p, err := s.opponent.Select(s.activePick, s.pool.Undrafted())
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: opponent made no selection at pick %d",
			common.ErrDataIntegrity, s.activePick)
	}
	if err := s.pool.Draft(p.Name); err != nil {
		return nil, err
	}
	s.logger.Debug().Int("pick", s.activePick).Str("player", p.Name).
		Stringer("position", p.Position).Msg("opponent-pick")
	s.history = append(s.history, Pick{Number: s.activePick, Player: p})
	s.activePick++
	return p, nil
}

// AdvanceToParticipant simulates opponent picks until it is the
// participant's turn or the draft ends, and returns the players taken.
func (s *Session) AdvanceToParticipant() ([]*player.Player, error) {
	var taken []*player.Player
	for s.State() == SimulatingOpponentPick {
		p, err := s.OpponentPick()
		if err != nil {
			return taken, err
		}
		taken = append(taken, p)
	}
	return taken, nil
}

func (s *Session) expect(want State) error {
	switch got := s.State(); {
	case got == want:
		return nil
	case got == Finished:
		return ErrDraftOver
	case want == AwaitingParticipantPick:
		return ErrNotYourTurn
	default:
		return ErrWrongTurn
	}
}
