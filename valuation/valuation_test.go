package valuation

import (
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/zcuddihy/ff-draft-app/combos"
	"github.com/zcuddihy/ff-draft-app/player"
	"github.com/zcuddihy/ff-draft-app/position"
	"github.com/zcuddihy/ff-draft-app/testhelpers"
)

func qbRBTable(t *testing.T) *combos.Table {
	t.Helper()
	tbl, err := combos.Generate(combos.Requirements{
		Counts: map[position.Position]int{position.QB: 1, position.RB: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestByRound(t *testing.T) {
	is := is.New(t)
	players := []*player.Player{
		testhelpers.Player("QB", position.QB, 10, 22, 1),
		testhelpers.Player("RB", position.RB, 8, 1, 1),
	}
	rv, err := ByRound(players, []int{3, 22}, 3)
	is.NoErr(err)
	is.Equal(rv.Rounds(), []int{2})
	// Available at exactly the mean half the time.
	assert.InDelta(t, 5, rv.Value(2, position.QB), 1e-9)
	assert.InDelta(t, 0, rv.Value(2, position.RB), 1e-9)
	is.Equal(rv.Value(2, position.TE), 0.0)
	is.True(strings.HasPrefix(rv.String(), "round 2:"))

	rv, err = ByRound(players, []int{3, 22}, 22)
	is.NoErr(err)
	is.Equal(len(rv), 0)
}

func TestRemainingValueByHand(t *testing.T) {
	is := is.New(t)
	tbl := qbRBTable(t)
	rv := RoundValues{2: {position.QB: 5, position.RB: 3}}

	rem, err := RemainingValue(rv, tbl, 1)
	is.NoErr(err)
	// Taking the QB now leaves the RB for round two, and vice versa.
	v, ok := rem.Value(position.QB)
	is.True(ok)
	is.Equal(v, 3.0)
	v, ok = rem.Value(position.RB)
	is.True(ok)
	is.Equal(v, 5.0)
	_, ok = rem.Value(position.WR)
	is.True(!ok)

	bl := rem.Best[position.QB]
	is.Equal(bl.Positions.String(), "QB-RB")
	is.Equal(bl.Value(), 3.0)
	is.Equal(bl.RoundValues, []float64{0, 3})
	is.True(strings.HasPrefix(bl.String(), "build; val 3.000\n"))
	is.True(!strings.Contains(bl.NLBString(), "\n"))
}

func TestRemainingValueLastRound(t *testing.T) {
	is := is.New(t)
	tbl, err := qbRBTable(t).Filter(1, position.RB)
	is.NoErr(err)
	rem, err := RemainingValue(RoundValues{}, tbl, 2)
	is.NoErr(err)
	is.Equal(rem.Values, map[position.Position]float64{position.QB: 0})
}

func TestRemainingValueBestOfSeveral(t *testing.T) {
	is := is.New(t)
	tbl, err := combos.Generate(combos.Requirements{
		Counts: map[position.Position]int{position.QB: 1, position.RB: 1, position.WR: 1},
	})
	is.NoErr(err)
	rv := RoundValues{
		2: {position.QB: 1, position.RB: 4, position.WR: 2},
		3: {position.QB: 6, position.RB: 1, position.WR: 3},
	}
	rem, err := RemainingValue(rv, tbl, 1)
	is.NoErr(err)
	// WR now: RB-QB (4+6) beats QB-RB (1+1).
	is.Equal(rem.Values[position.WR], 10.0)
	is.Equal(rem.Best[position.WR].Positions.String(), "WR-RB-QB")
	// QB now: RB-WR (4+3) beats WR-RB (2+1).
	is.Equal(rem.Values[position.QB], 7.0)
	// RB now: WR-QB (2+6) beats QB-WR (1+3).
	is.Equal(rem.Values[position.RB], 8.0)
}

func TestRemainingValueRejectsBadRounds(t *testing.T) {
	is := is.New(t)
	tbl := qbRBTable(t)
	_, err := RemainingValue(RoundValues{}, tbl, 3)
	is.True(err != nil)
	_, err = RemainingValue(RoundValues{1: {}}, tbl, 1)
	is.True(err != nil)
}
