package player

import (
	"errors"
	"math"
	"testing"

	"github.com/matryer/is"

	"github.com/zcuddihy/ff-draft-app/common"
	"github.com/zcuddihy/ff-draft-app/position"
)

func mk(name string, pos position.Position, adp float64) *Player {
	return &Player{Name: name, Team: "KC", Position: pos, Points: 200,
		ADPMean: adp, ADPStd: 2, Value: 1}
}

func TestValidate(t *testing.T) {
	is := is.New(t)
	is.NoErr(mk("A", position.QB, 1).Validate())

	bad := []*Player{
		mk("", position.QB, 1),
		mk("B", position.FLEX, 1),
		mk("C", position.Unknown, 1),
		mk("D", position.RB, math.NaN()),
		{Name: "E", Position: position.WR, ADPMean: 3, ADPStd: 0},
		{Name: "F", Position: position.WR, ADPMean: 3, ADPStd: -1},
		{Name: "G", Position: position.WR, ADPMean: 3, ADPStd: 1, Value: math.Inf(1)},
	}
	for _, p := range bad {
		is.True(errors.Is(p.Validate(), common.ErrDataIntegrity))
	}
}

func TestNewPoolRejectsDuplicates(t *testing.T) {
	is := is.New(t)
	_, err := NewPool([]*Player{mk("A", position.QB, 1), mk("A", position.RB, 2)})
	is.True(errors.Is(err, common.ErrDataIntegrity))
	_, err = NewPool([]*Player{nil})
	is.True(errors.Is(err, common.ErrDataIntegrity))
}

func TestDraft(t *testing.T) {
	is := is.New(t)
	a, b, c := mk("A", position.QB, 1), mk("B", position.RB, 2), mk("C", position.WR, 3)
	pool, err := NewPool([]*Player{a, b, c})
	is.NoErr(err)
	is.Equal(pool.Len(), 3)

	is.NoErr(pool.Draft("C"))
	is.NoErr(pool.Draft("A"))
	is.Equal(pool.NumUndrafted(), 1)
	is.Equal(pool.Undrafted(), []*Player{b})
	is.Equal(pool.Drafted(), []*Player{c, a})
	is.True(pool.IsDrafted("A"))
	is.True(!pool.IsDrafted("B"))
	is.True(!pool.IsDrafted("Z"))

	got, ok := pool.Get("A")
	is.True(ok)
	is.Equal(got, a)

	is.True(errors.Is(pool.Draft("A"), common.ErrDataIntegrity))
	is.True(errors.Is(pool.Draft("Z"), common.ErrDataIntegrity))
	is.Equal(pool.NumUndrafted(), 1)
}
