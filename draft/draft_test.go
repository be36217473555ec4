package draft

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/matryer/is"

	"github.com/zcuddihy/ff-draft-app/combos"
	"github.com/zcuddihy/ff-draft-app/common"
	"github.com/zcuddihy/ff-draft-app/league"
	"github.com/zcuddihy/ff-draft-app/player"
	"github.com/zcuddihy/ff-draft-app/position"
	"github.com/zcuddihy/ff-draft-app/testhelpers"
)

// twoRoundLeague is a 12-team snake draft picking third, with one QB and
// one RB to fill.
func twoRoundLeague() *league.Settings {
	return testhelpers.Settings(league.Starters{QB: 1, RB: 1}, position.NoFlex, 12, 3)
}

// twoRoundPlayers has the top QB and RB going first and second, then
// kickers with ADPs 4 through 23 to soak up opponent picks. QB B is
// normally gone well before pick 22.
func twoRoundPlayers() []*player.Player {
	players := []*player.Player{
		testhelpers.Player("QB A", position.QB, 50, 1, 1),
		testhelpers.Player("RB A", position.RB, 60, 2, 1),
		testhelpers.Player("QB B", position.QB, 20, 14.5, 3),
		testhelpers.Player("RB B", position.RB, 35, 40, 2),
		testhelpers.Player("QB C", position.QB, 5, 60, 2),
		testhelpers.Player("RB C", position.RB, 8, 60, 2),
	}
	for i := 1; i <= 20; i++ {
		players = append(players, testhelpers.Player(fmt.Sprintf("K%d", i), position.K, 1, float64(3+i), 1))
	}
	return players
}

func newTwoRoundSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s, err := NewSession(twoRoundLeague(), twoRoundPlayers(), opts...)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func names(ps []*player.Player) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestFullDraft(t *testing.T) {
	is := is.New(t)
	s := newTwoRoundSession(t)
	is.Equal(s.Settings().Picks, []int{3, 22})
	is.Equal(s.State(), SimulatingOpponentPick)
	is.Equal(s.Table().Len(), 2)

	taken, err := s.AdvanceToParticipant()
	is.NoErr(err)
	is.Equal(names(taken), []string{"QB A", "RB A"})
	is.Equal(s.State(), AwaitingParticipantPick)
	is.Equal(s.ActivePick(), 3)
	is.Equal(s.Round(), 1)

	cands, err := s.Recommend()
	is.NoErr(err)
	// Every undrafted player is ranked, but kickers are not part of any
	// build order, so they trail the four that fit.
	is.Equal(len(cands), 24)
	for i, c := range cands {
		is.Equal(c.Fits, i < 4)
		is.Equal(c.Score, c.Player.Value+c.RemainingValue)
		if !c.Fits {
			is.Equal(c.Player.Position, position.K)
			is.Equal(c.RemainingValue, 0.0)
		}
	}
	// QB B is unlikely to last to pick 22 but RB B is, so QB B goes first.
	is.Equal(cands[0].Player.Name, "QB B")
	for i := 1; i < len(cands); i++ {
		if cands[i-1].Fits == cands[i].Fits {
			is.True(cands[i-1].Score >= cands[i].Score)
		}
	}
	is.True(s.Remaining() != nil)

	is.NoErr(s.Select("RB B"))
	is.Equal(s.Table().Len(), 1)
	is.Equal(s.Table().Row(0).String(), "RB-QB")
	is.Equal(names(s.MyTeam()), []string{"RB B"})
	is.Equal(s.ActivePick(), 4)
	is.Equal(s.State(), SimulatingOpponentPick)
	is.True(s.Remaining() == nil)
	_, err = s.Recommend()
	is.True(errors.Is(err, ErrNotYourTurn))

	taken, err = s.AdvanceToParticipant()
	is.NoErr(err)
	is.Equal(len(taken), 18)
	is.Equal(s.ActivePick(), 22)
	is.Equal(s.Round(), 2)

	cands, err = s.Recommend()
	is.NoErr(err)
	// Only a QB fits round two, and QB B is gone. RB C and the last three
	// kickers are still ranked behind QB C.
	is.Equal(len(cands), 5)
	is.Equal(cands[0].Player.Name, "QB C")
	is.True(cands[0].Fits)
	is.Equal(cands[0].RemainingValue, 0.0)
	for _, c := range cands[1:] {
		is.True(!c.Fits)
	}

	is.NoErr(s.SelectIndex(1))
	_, err = s.AdvanceToParticipant()
	is.NoErr(err)
	is.Equal(s.State(), Finished)
	is.Equal(names(s.MyTeam()), []string{"RB B", "QB C"})
	is.Equal(len(s.History()), 24)
	is.Equal(len(s.Undrafted()), 2)

	_, err = s.Recommend()
	is.True(errors.Is(err, ErrDraftOver))
	_, err = s.OpponentPick()
	is.True(errors.Is(err, ErrDraftOver))
}

func TestSelectionErrorsLeaveStateUnchanged(t *testing.T) {
	is := is.New(t)
	s := newTwoRoundSession(t)
	_, err := s.AdvanceToParticipant()
	is.NoErr(err)
	before := s.Table().Len()

	for _, name := range []string{"QB A", "Nobody"} {
		is.True(errors.Is(s.Select(name), common.ErrSelection))
	}
	is.True(errors.Is(s.SelectIndex(0), common.ErrSelection))
	is.True(errors.Is(s.SelectIndex(25), common.ErrSelection))
	// A kicker is ranked but fits no build order.
	is.True(errors.Is(s.Select("K1"), common.ErrConfiguration))
	is.True(errors.Is(s.SelectIndex(24), common.ErrConfiguration))

	is.Equal(s.ActivePick(), 3)
	is.Equal(s.Table().Len(), before)
	is.Equal(len(s.MyTeam()), 0)
	is.Equal(len(s.Undrafted()), 24)
	is.Equal(s.State(), AwaitingParticipantPick)
}

func TestOpponentPickOnParticipantTurn(t *testing.T) {
	is := is.New(t)
	s := newTwoRoundSession(t)
	_, err := s.AdvanceToParticipant()
	is.NoErr(err)
	_, err = s.OpponentPick()
	is.True(errors.Is(err, ErrWrongTurn))
}

func TestEmptyFilterRollsBack(t *testing.T) {
	is := is.New(t)
	// A table that only allows RB in round one, paired with settings that
	// rank both positions, exercises the rollback path.
	full, err := combos.Generate(combos.RequirementsFrom(twoRoundLeague()))
	is.NoErr(err)
	rbFirst, err := full.Filter(1, position.RB)
	is.NoErr(err)
	s := newTwoRoundSession(t, WithTable(rbFirst))
	_, err = s.AdvanceToParticipant()
	is.NoErr(err)

	cands, err := s.Recommend()
	is.NoErr(err)
	for _, c := range cands {
		is.Equal(c.Fits, c.Player.Position == position.RB)
	}
	is.Equal(cands[0].Player.Position, position.RB)
	is.Equal(cands[1].Player.Position, position.RB)

	// QB B is ranked, but no retained build order starts with a QB.
	err = s.Select("QB B")
	is.True(errors.Is(err, common.ErrConfiguration))
	is.Equal(s.ActivePick(), 3)
	is.True(!s.pool.IsDrafted("QB B"))
	is.Equal(s.Table().Len(), 1)
	is.Equal(len(s.MyTeam()), 0)
	is.Equal(s.State(), AwaitingParticipantPick)

	// The session is still usable.
	is.NoErr(s.SelectIndex(1))
	is.Equal(s.Table().Row(0).String(), "RB-QB")
}

func TestCandidateLimit(t *testing.T) {
	is := is.New(t)
	s := newTwoRoundSession(t)
	_, err := s.AdvanceToParticipant()
	is.NoErr(err)
	all, err := s.Recommend()
	is.NoErr(err)
	is.Equal(len(all), 24)

	s.SetCandidateLimit(2)
	shown, err := s.Recommend()
	is.NoErr(err)
	is.Equal(len(shown), 2)
	is.Equal(shown[0].Player, all[0].Player)
	is.Equal(shown[1].Player, all[1].Player)

	// Only shown candidates can be chosen.
	is.True(errors.Is(s.Select(all[3].Player.Name), common.ErrSelection))
	is.True(errors.Is(s.SelectIndex(3), common.ErrSelection))
	is.Equal(s.ActivePick(), 3)

	s.SetCandidateLimit(-1)
	shown, err = s.Recommend()
	is.NoErr(err)
	is.Equal(len(shown), 24)

	limited := newTwoRoundSession(t, WithCandidateLimit(1))
	is.NoErr(limited.Run(context.Background(), BestChooser{}))
	is.Equal(limited.MyTeam()[0].Name, "QB B")
}

func TestNewSessionErrors(t *testing.T) {
	is := is.New(t)
	_, err := NewSession(nil, twoRoundPlayers())
	is.True(errors.Is(err, common.ErrConfiguration))

	bad := twoRoundLeague()
	bad.Picks = []int{22, 3}
	_, err = NewSession(bad, twoRoundPlayers())
	is.True(errors.Is(err, common.ErrConfiguration))

	players := twoRoundPlayers()
	players[0].ADPStd = 0
	_, err = NewSession(twoRoundLeague(), players)
	is.True(errors.Is(err, common.ErrDataIntegrity))

	other, err := combos.Generate(combos.RequirementsFrom(testhelpers.SmallLeague()))
	is.NoErr(err)
	_, err = NewSession(twoRoundLeague(), twoRoundPlayers(), WithTable(other))
	is.True(errors.Is(err, common.ErrConfiguration))
}

func TestOpponentMadeNoSelection(t *testing.T) {
	is := is.New(t)
	s := newTwoRoundSession(t, WithOpponent(OpponentFunc(
		func(int, []*player.Player) (*player.Player, error) { return nil, nil })))
	_, err := s.OpponentPick()
	is.True(errors.Is(err, common.ErrDataIntegrity))
	is.Equal(s.ActivePick(), 1)
}

func TestADPOpponent(t *testing.T) {
	is := is.New(t)
	players := []*player.Player{
		testhelpers.Player("late", position.QB, 1, 30, 1),
		testhelpers.Player("early", position.WR, 1, 3, 1),
		testhelpers.Player("early too", position.RB, 1, 3, 1),
	}
	p, err := ADPOpponent{}.Select(1, players)
	is.NoErr(err)
	is.Equal(p.Name, "early")

	_, err = ADPOpponent{}.Select(1, nil)
	is.True(errors.Is(err, common.ErrDataIntegrity))
}

func TestSampledADPOpponent(t *testing.T) {
	is := is.New(t)
	players := []*player.Player{
		testhelpers.Player("late", position.QB, 1, 30, 1),
		testhelpers.Player("early", position.WR, 1, 3, 1),
	}
	// The median draw is the mean, so the lowest mean wins.
	o := SampledADPOpponent{Uniform: func() float64 { return 0.5 }}
	p, err := o.Select(1, players)
	is.NoErr(err)
	is.Equal(p.Name, "early")

	// With wide distributions, a very late draw for the early player and a
	// very early one for the late player reverses the order.
	wide := []*player.Player{
		testhelpers.Player("early", position.WR, 1, 3, 10),
		testhelpers.Player("late", position.QB, 1, 30, 10),
	}
	draws := []float64{0.999999, 0.000001}
	i := 0
	o = SampledADPOpponent{Uniform: func() float64 { i++; return draws[i-1] }}
	p, err = o.Select(1, wide)
	is.NoErr(err)
	is.Equal(p.Name, "late")

	p, err = SampledADPOpponent{}.Select(1, players)
	is.NoErr(err)
	is.True(p != nil)
	_, err = SampledADPOpponent{}.Select(1, nil)
	is.True(errors.Is(err, common.ErrDataIntegrity))
}

func TestRun(t *testing.T) {
	is := is.New(t)
	s := newTwoRoundSession(t)
	is.NoErr(s.Run(context.Background(), BestChooser{}))
	is.Equal(s.State(), Finished)
	is.Equal(len(s.MyTeam()), 2)
	is.Equal(s.MyTeam()[0].Name, "QB B")
}

func TestRunRetriesBadSelections(t *testing.T) {
	is := is.New(t)
	s := newTwoRoundSession(t)
	calls := 0
	chooser := ChooserFunc(func(_ context.Context, _ *Session, cands []Candidate) (string, error) {
		calls++
		if calls%2 == 1 {
			return "Nobody", nil
		}
		return cands[0].Player.Name, nil
	})
	is.NoErr(s.Run(context.Background(), chooser))
	is.Equal(calls, 4)

	s = newTwoRoundSession(t)
	always := ChooserFunc(func(context.Context, *Session, []Candidate) (string, error) {
		return "Nobody", nil
	})
	err := s.Run(context.Background(), always)
	is.True(errors.Is(err, common.ErrSelection))
	is.Equal(s.ActivePick(), 3)
}

func TestRunCanceled(t *testing.T) {
	is := is.New(t)
	s := newTwoRoundSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	is.True(errors.Is(s.Run(ctx, BestChooser{}), context.Canceled))
	is.Equal(s.ActivePick(), 1)
}
