package projections

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/zcuddihy/ff-draft-app/cache"
	"github.com/zcuddihy/ff-draft-app/common"
	"github.com/zcuddihy/ff-draft-app/config"
	"github.com/zcuddihy/ff-draft-app/position"
)

// Linear maps projected points to static value: Intercept + Slope*points.
type Linear struct {
	Intercept float64 `yaml:"intercept"`
	Slope     float64 `yaml:"slope"`
}

func (l Linear) Apply(points float64) float64 {
	return l.Intercept + l.Slope*points
}

// ValueModel is the replacement-value model: one linear fit per position.
type ValueModel struct {
	fits map[position.Position]Linear
}

type valueModelFile struct {
	Scoring   string            `yaml:"scoring,omitempty"`
	Positions map[string]Linear `yaml:"positions"`
}

// NewValueModel builds a model from per-position fits.
func NewValueModel(fits map[position.Position]Linear) *ValueModel {
	m := &ValueModel{fits: make(map[position.Position]Linear, len(fits))}
	for p, l := range fits {
		m.fits[p] = l
	}
	return m
}

// LoadValueModel reads a model of the form
//
//	positions:
//	  QB: {intercept: -1.2, slope: 0.004}
//	  RB: ...
func LoadValueModel(r io.Reader) (*ValueModel, error) {
	var f valueModelFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: reading value model: %v", common.ErrDataIntegrity, err)
	}
	if len(f.Positions) == 0 {
		return nil, fmt.Errorf("%w: value model has no positions", common.ErrDataIntegrity)
	}
	fits := make(map[position.Position]Linear, len(f.Positions))
	for name, l := range f.Positions {
		p, err := position.FromString(name)
		if err != nil {
			return nil, err
		}
		if !p.Concrete() {
			return nil, fmt.Errorf("%w: value model for %v", common.ErrDataIntegrity, p)
		}
		fits[p] = l
	}
	return NewValueModel(fits), nil
}

// WriteYAML writes the model in the format LoadValueModel reads.
func (m *ValueModel) WriteYAML(w io.Writer) error {
	f := valueModelFile{Positions: make(map[string]Linear, len(m.fits))}
	for p, l := range m.fits {
		f.Positions[p.String()] = l
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(f)
}

// Value returns the static value of a player at pos with the given points.
func (m *ValueModel) Value(pos position.Position, points float64) (float64, error) {
	l, ok := m.fits[pos]
	if !ok {
		return 0, fmt.Errorf("%w: no value model for %v", common.ErrDataIntegrity, pos)
	}
	return l.Apply(points), nil
}

func (m *ValueModel) Fit(pos position.Position) (Linear, bool) {
	l, ok := m.fits[pos]
	return l, ok
}

// Sample is one historical observation: a season's points and the value
// (wins above replacement) it was worth.
type Sample struct {
	Points float64
	Value  float64
}

// FitValueModel fits a least-squares line per position.
func FitValueModel(samples map[position.Position][]Sample) (*ValueModel, error) {
	fits := make(map[position.Position]Linear, len(samples))
	for p, ss := range samples {
		if len(ss) < 2 {
			return nil, fmt.Errorf("%w: need at least two samples to fit %v, have %d",
				common.ErrDataIntegrity, p, len(ss))
		}
		xs := make([]float64, len(ss))
		ys := make([]float64, len(ss))
		for i, s := range ss {
			xs[i], ys[i] = s.Points, s.Value
		}
		alpha, beta := stat.LinearRegression(xs, ys, nil, false)
		fits[p] = Linear{Intercept: alpha, Slope: beta}
		log.Debug().Stringer("position", p).Float64("intercept", alpha).
			Float64("slope", beta).Msg("fit-value-model")
	}
	return NewValueModel(fits), nil
}

// ValueModelCacheLoadFunc loads the model file named in the cache key
// "valuemodel:<path>".
func ValueModelCacheLoadFunc(cfg *config.Config, key string) (interface{}, error) {
	path, ok := strings.CutPrefix(key, "valuemodel:")
	if !ok {
		return nil, fmt.Errorf("bad value model cache key %q", key)
	}
	f, err := cache.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadValueModel(f)
}
