package projections

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcuddihy/ff-draft-app/common"
	"github.com/zcuddihy/ff-draft-app/config"
	"github.com/zcuddihy/ff-draft-app/league"
	"github.com/zcuddihy/ff-draft-app/position"
)

const sampleCSV = "\ufeffPlayer,Team,Pos,FPTS,ADP Avg,ADP Std,Bye\n" +
	"Christian McCaffrey,CAR,RB,350.2,1.3,0.6,13\n" +
	"Patrick Mahomes,KC,QB,380.5,20.1,4.2,12\n" +
	"Travis Kelce,KC,TE,260.0,12.4,2.9,12\n"

const sampleModel = `
scoring: PPR
positions:
  QB: {intercept: -2, slope: 0.01}
  RB: {intercept: -1, slope: 0.02}
  WR: {intercept: -1, slope: 0.02}
  TE: {intercept: -0.5, slope: 0.015}
`

func TestReadCSV(t *testing.T) {
	is := is.New(t)
	projs, err := ReadCSV(strings.NewReader(sampleCSV), "utf8")
	is.NoErr(err)
	is.Equal(len(projs), 3)
	is.Equal(projs[0], Projection{
		Player: "Christian McCaffrey", Team: "CAR", Pos: position.RB,
		Points: 350.2, ADPMean: 1.3, ADPStd: 0.6,
	})
	is.Equal(projs[2].Pos, position.TE)
}

func TestReadCSVLatin1(t *testing.T) {
	is := is.New(t)
	data := []byte("player,team,pos,fpts,adp avg,adp std\nJos\xe9 Gonz\xe1lez,SEA,WR,150,90,8\n")
	projs, err := ReadCSV(bytes.NewReader(data), "latin1")
	is.NoErr(err)
	is.Equal(projs[0].Player, "José González")

	projs, err = ReadCSV(bytes.NewReader(data), "windows-1252")
	is.NoErr(err)
	is.Equal(projs[0].Player, "José González")

	_, err = ReadCSV(bytes.NewReader(data), "ebcdic")
	is.True(errors.Is(err, common.ErrConfiguration))
}

func TestReadCSVErrors(t *testing.T) {
	is := is.New(t)
	cases := []string{
		"",
		"Player,Team,Pos,FPTS,ADP Avg\nA,KC,QB,1,2\n",
		"Player,Team,Pos,FPTS,ADP Avg,ADP Std\nA,KC,QB,lots,2,1\n",
		"Player,Team,Pos,FPTS,ADP Avg,ADP Std\nA,KC,QB,100,,1\n",
		"Player,Team,Pos,FPTS,ADP Avg,ADP Std\nA,KC,FLEX,100,2,1\n",
		"Player,Team,Pos,FPTS,ADP Avg,ADP Std\nA,KC,LB,100,2,1\n",
		"Player,Team,Pos,FPTS,ADP Avg,ADP Std\n,KC,QB,100,2,1\n",
	}
	for _, c := range cases {
		_, err := ReadCSV(strings.NewReader(c), "")
		is.True(errors.Is(err, common.ErrDataIntegrity))
	}
}

func TestValueModel(t *testing.T) {
	is := is.New(t)
	m, err := LoadValueModel(strings.NewReader(sampleModel))
	is.NoErr(err)
	v, err := m.Value(position.RB, 300)
	is.NoErr(err)
	assert.InDelta(t, 5, v, 1e-12)
	_, err = m.Value(position.K, 100)
	is.True(errors.Is(err, common.ErrDataIntegrity))

	var buf bytes.Buffer
	is.NoErr(m.WriteYAML(&buf))
	again, err := LoadValueModel(&buf)
	is.NoErr(err)
	fit, ok := again.Fit(position.TE)
	is.True(ok)
	is.Equal(fit, Linear{Intercept: -0.5, Slope: 0.015})

	_, err = LoadValueModel(strings.NewReader("positions: {}\n"))
	is.True(errors.Is(err, common.ErrDataIntegrity))
	_, err = LoadValueModel(strings.NewReader("positions:\n  FLEX: {slope: 1}\n"))
	is.True(errors.Is(err, common.ErrDataIntegrity))
}

func TestFitValueModel(t *testing.T) {
	is := is.New(t)
	m, err := FitValueModel(map[position.Position][]Sample{
		position.WR: {{100, 1}, {200, 3}, {300, 5}},
	})
	is.NoErr(err)
	fit, ok := m.Fit(position.WR)
	is.True(ok)
	assert.InDelta(t, -1, fit.Intercept, 1e-9)
	assert.InDelta(t, 0.02, fit.Slope, 1e-12)

	_, err = FitValueModel(map[position.Position][]Sample{position.QB: {{100, 1}}})
	is.True(errors.Is(err, common.ErrDataIntegrity))
}

func TestPlayers(t *testing.T) {
	is := is.New(t)
	projs, err := ReadCSV(strings.NewReader(sampleCSV), "")
	is.NoErr(err)
	m, err := LoadValueModel(strings.NewReader(sampleModel))
	is.NoErr(err)
	players, err := Players(projs, m)
	is.NoErr(err)
	is.Equal(len(players), 3)
	assert.InDelta(t, 1.805, players[1].Value, 1e-9)

	projs[0].ADPStd = 0
	_, err = Players(projs, m)
	is.True(errors.Is(err, common.ErrDataIntegrity))
}

func TestSQLiteSource(t *testing.T) {
	ctx := context.Background()
	src, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "projections.db"))
	require.NoError(t, err)
	defer src.Close()

	projs, err := ReadCSV(strings.NewReader(sampleCSV), "")
	require.NoError(t, err)
	require.NoError(t, src.Import(ctx, 2021, projs))

	got, err := src.Projections(ctx, 2021)
	require.NoError(t, err)
	assert.Equal(t, projs, got)

	_, err = src.Projections(ctx, 2019)
	assert.ErrorIs(t, err, common.ErrDataIntegrity)

	// Re-importing replaces rows rather than duplicating them.
	projs[1].Points = 400
	require.NoError(t, src.Import(ctx, 2021, projs[1:2]))
	got, err = src.Projections(ctx, 2021)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func writeGzip(t *testing.T, path, data string) {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestLoadPlayersFromFiles(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "season_projections.csv.gz")
	modelPath := filepath.Join(dir, "PPR.yaml")
	writeGzip(t, csvPath, sampleCSV)
	is.NoErr(os.WriteFile(modelPath, []byte(sampleModel), 0o644))

	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigProjectionsFile, csvPath)
	cfg.Set(config.ConfigValueModelFile, modelPath)
	settings, err := league.FromConfig(cfg)
	is.NoErr(err)
	players, err := LoadPlayers(context.Background(), cfg, settings)
	is.NoErr(err)
	is.Equal(len(players), 3)
	is.Equal(players[0].Name, "Christian McCaffrey")
}

func TestLoadPlayersFollowsLeagueFile(t *testing.T) {
	is := is.New(t)
	dataPath := t.TempDir()
	is.NoErr(os.MkdirAll(filepath.Join(dataPath, "2023"), 0o755))
	is.NoErr(os.MkdirAll(filepath.Join(dataPath, "war_models"), 0o755))
	is.NoErr(os.WriteFile(filepath.Join(dataPath, "2023", "season_projections.csv"),
		[]byte(sampleCSV), 0o644))
	// Standard scoring values everyone at zero, so it is easy to tell
	// apart from the PPR model.
	is.NoErr(os.WriteFile(filepath.Join(dataPath, "war_models", "Standard.yaml"), []byte(`
scoring: Standard
positions:
  QB: {intercept: 0, slope: 0}
  RB: {intercept: 0, slope: 0}
  WR: {intercept: 0, slope: 0}
  TE: {intercept: 0, slope: 0}
`), 0o644))
	leagueFile := filepath.Join(t.TempDir(), "league.yaml")
	is.NoErr(os.WriteFile(leagueFile, []byte("season: 2023\nscoring: standard\n"), 0o644))

	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigDataPath, dataPath)
	cfg.Set(config.ConfigLeagueFile, leagueFile)
	settings, err := league.FromConfig(cfg)
	is.NoErr(err)
	is.Equal(settings.Season, 2023)
	is.Equal(settings.Scoring, league.Standard)

	// The configuration itself still says 2021 and PPR; neither file
	// exists under this data path.
	is.Equal(cfg.GetInt(config.ConfigSeason), 2021)
	players, err := LoadPlayers(context.Background(), cfg, settings)
	is.NoErr(err)
	is.Equal(len(players), 3)
	for _, p := range players {
		is.Equal(p.Value, 0.0)
	}
}

func TestScoringNamesOneModelFile(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	for _, raw := range []string{"ppr", "PPR", " Ppr "} {
		cfg.Set(config.ConfigScoring, raw)
		settings, err := league.FromConfig(cfg)
		is.NoErr(err)
		is.Equal(cfg.ValueModelFile(string(settings.Scoring)), "data/war_models/PPR.yaml")
	}
	cfg.Set(config.ConfigScoring, "half")
	settings, err := league.FromConfig(cfg)
	is.NoErr(err)
	is.Equal(cfg.ValueModelFile(string(settings.Scoring)), "data/war_models/Half-PPR.yaml")
}

func TestLoadPlayersFromSQLite(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "projections.db")
	modelPath := filepath.Join(dir, "PPR.yaml")
	is.NoErr(os.WriteFile(modelPath, []byte(sampleModel), 0o644))

	src, err := OpenSQLite(ctx, dbPath)
	is.NoErr(err)
	projs, err := ReadCSV(strings.NewReader(sampleCSV), "")
	is.NoErr(err)
	is.NoErr(src.Import(ctx, 2021, projs))
	is.NoErr(src.Close())

	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigProjectionsDB, dbPath)
	cfg.Set(config.ConfigValueModelFile, modelPath)
	settings, err := league.FromConfig(cfg)
	is.NoErr(err)
	players, err := LoadPlayers(ctx, cfg, settings)
	is.NoErr(err)
	is.Equal(len(players), 3)
}

func TestReadSamplesAndFit(t *testing.T) {
	is := is.New(t)
	const samples = "Season,Player,Pos,FPTS,WAR\n" +
		"2019,A,WR,100,1\n" +
		"2019,B,WR,200,3\n" +
		"2020,C,WR,300,5\n" +
		"2020,D,QB,300,0.5\n" +
		"2020,E,QB,400,1.5\n"
	got, err := ReadSamples(strings.NewReader(samples), "")
	is.NoErr(err)
	is.Equal(len(got[position.WR]), 3)
	is.Equal(got[position.QB][1], Sample{Points: 400, Value: 1.5})

	m, err := FitValueModel(got)
	is.NoErr(err)
	fit, ok := m.Fit(position.QB)
	is.True(ok)
	assert.InDelta(t, -2.5, fit.Intercept, 1e-9)
	assert.InDelta(t, 0.01, fit.Slope, 1e-12)

	for _, bad := range []string{
		"Pos,FPTS\nWR,100\n",
		"Pos,FPTS,WAR\nWR,lots,1\n",
		"Pos,FPTS,WAR\nFLEX,100,1\n",
	} {
		_, err := ReadSamples(strings.NewReader(bad), "")
		is.True(errors.Is(err, common.ErrDataIntegrity))
	}
}

func TestImportCSV(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "projections.csv.gz")
	dbPath := filepath.Join(dir, "projections.db")
	writeGzip(t, csvPath, sampleCSV)

	n, err := ImportCSV(ctx, dbPath, csvPath, "utf8", 2022)
	is.NoErr(err)
	is.Equal(n, 3)

	src, err := OpenSQLite(ctx, dbPath)
	is.NoErr(err)
	defer src.Close()
	projs, err := src.Projections(ctx, 2022)
	is.NoErr(err)
	is.Equal(len(projs), 3)
	is.Equal(projs[1].Player, "Patrick Mahomes")

	_, err = ImportCSV(ctx, dbPath, filepath.Join(dir, "missing.csv"), "utf8", 2022)
	is.True(errors.Is(err, os.ErrNotExist))
}
