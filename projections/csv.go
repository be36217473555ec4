package projections

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/zcuddihy/ff-draft-app/cache"
	"github.com/zcuddihy/ff-draft-app/common"
	"github.com/zcuddihy/ff-draft-app/config"
	"github.com/zcuddihy/ff-draft-app/position"
)

// Column headers of the projections file.
const (
	ColPlayer  = "Player"
	ColTeam    = "Team"
	ColPos     = "Pos"
	ColPoints  = "FPTS"
	ColADPMean = "ADP Avg"
	ColADPStd  = "ADP Std"
)

var requiredColumns = []string{ColPlayer, ColTeam, ColPos, ColPoints, ColADPMean, ColADPStd}

// decoderFor returns a reader producing UTF-8 for the named encoding.
// Spreadsheet exports of projections are often Windows-1252.
func decoderFor(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.ReplaceAll(encoding, "_", "-")) {
	case "", "utf8", "utf-8":
		return r, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("%w: unsupported projections encoding %q", common.ErrConfiguration, encoding)
}

// ReadCSV parses a projections file. Extra columns are ignored; missing
// required columns or unparseable values are data errors.
func ReadCSV(r io.Reader, encoding string) ([]Projection, error) {
	dr, err := decoderFor(r, encoding)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(dr)
	cr.TrimLeadingSpace = true
	idx, err := readHeader(cr, "projections", requiredColumns)
	if err != nil {
		return nil, err
	}

	var projs []Projection
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", common.ErrDataIntegrity, line, err)
		}
		pr, err := parseRecord(record, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		projs = append(projs, pr)
	}
	log.Debug().Int("rows", len(projs)).Msg("read-projections-csv")
	return projs, nil
}

// readHeader maps each required column to its index. Headers match
// case-insensitively and a leading byte-order mark is ignored.
func readHeader(cr *csv.Reader, what string, required []string) (map[string]int, error) {
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s header: %v", common.ErrDataIntegrity, what, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	idx := make(map[string]int, len(required))
	for _, c := range required {
		i, ok := cols[strings.ToLower(c)]
		if !ok {
			return nil, fmt.Errorf("%w: %s file has no %q column", common.ErrDataIntegrity, what, c)
		}
		idx[c] = i
	}
	return idx, nil
}

// ColValue is the column of a samples file holding the value a season's
// points were worth.
const ColValue = "WAR"

// ReadSamples parses historical (position, points, value) observations for
// fitting a value model, from a CSV with Pos, FPTS and WAR columns.
func ReadSamples(r io.Reader, encoding string) (map[position.Position][]Sample, error) {
	dr, err := decoderFor(r, encoding)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(dr)
	cr.TrimLeadingSpace = true
	idx, err := readHeader(cr, "samples", []string{ColPos, ColPoints, ColValue})
	if err != nil {
		return nil, err
	}
	samples := map[position.Position][]Sample{}
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", common.ErrDataIntegrity, line, err)
		}
		pos, err := position.FromString(strings.TrimSpace(record[idx[ColPos]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if !pos.Concrete() {
			return nil, fmt.Errorf("%w: line %d: %s is not a player position",
				common.ErrDataIntegrity, line, pos)
		}
		var sm Sample
		for col, dst := range map[string]*float64{ColPoints: &sm.Points, ColValue: &sm.Value} {
			f, err := strconv.ParseFloat(strings.TrimSpace(record[idx[col]]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %s %q is not a number",
					common.ErrDataIntegrity, line, col, record[idx[col]])
			}
			*dst = f
		}
		samples[pos] = append(samples[pos], sm)
	}
	log.Debug().Int("rows", line-1).Int("positions", len(samples)).Msg("read-samples-csv")
	return samples, nil
}

func parseRecord(record []string, idx map[string]int) (Projection, error) {
	field := func(col string) string {
		return strings.TrimSpace(record[idx[col]])
	}
	number := func(col string) (float64, error) {
		s := field(col)
		if s == "" {
			return 0, fmt.Errorf("%w: missing %s", common.ErrDataIntegrity, col)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s %q is not a number", common.ErrDataIntegrity, col, s)
		}
		return f, nil
	}
	pr := Projection{Player: field(ColPlayer), Team: field(ColTeam)}
	if pr.Player == "" {
		return pr, fmt.Errorf("%w: missing %s", common.ErrDataIntegrity, ColPlayer)
	}
	var err error
	pr.Pos, err = position.FromString(field(ColPos))
	if err != nil {
		return pr, err
	}
	if !pr.Pos.Concrete() {
		return pr, fmt.Errorf("%w: %s is not a player position", common.ErrDataIntegrity, pr.Pos)
	}
	if pr.Points, err = number(ColPoints); err != nil {
		return pr, err
	}
	if pr.ADPMean, err = number(ColADPMean); err != nil {
		return pr, err
	}
	if pr.ADPStd, err = number(ColADPStd); err != nil {
		return pr, err
	}
	return pr, nil
}

// CSVSource reads projections from a file. The season is part of the path,
// so it is not consulted.
type CSVSource struct {
	Path     string
	Encoding string
}

func (s CSVSource) Projections(_ context.Context, _ int) ([]Projection, error) {
	f, err := cache.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, s.Encoding)
}

// CSVCacheLoadFunc loads the projections file named in the cache key
// "projections:<path>" with the configured encoding.
func CSVCacheLoadFunc(cfg *config.Config, key string) (interface{}, error) {
	path, ok := strings.CutPrefix(key, "projections:")
	if !ok {
		return nil, fmt.Errorf("bad projections cache key %q", key)
	}
	src := CSVSource{Path: path, Encoding: cfg.GetString(config.ConfigProjectionsEncoding)}
	return src.Projections(context.Background(), 0)
}
