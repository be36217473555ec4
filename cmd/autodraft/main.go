// autodraft runs a full draft without prompting, always taking the top
// recommendation, or simulates many such drafts. It also maintains the
// data those drafts read.
//
//	autodraft [--key=value ...] [draft|sim]
//	autodraft --projections-db=FILE [--season=Y] import PROJECTIONS.csv
//	autodraft fit SAMPLES.csv [MODEL.yaml]
//
// Flags go before the mode.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zcuddihy/ff-draft-app/cache"
	"github.com/zcuddihy/ff-draft-app/combos"
	"github.com/zcuddihy/ff-draft-app/common"
	"github.com/zcuddihy/ff-draft-app/config"
	"github.com/zcuddihy/ff-draft-app/draft"
	"github.com/zcuddihy/ff-draft-app/league"
	"github.com/zcuddihy/ff-draft-app/montecarlo"
	"github.com/zcuddihy/ff-draft-app/player"
	"github.com/zcuddihy/ff-draft-app/projections"
)

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("loading-config")
	}
	cfg.AdjustRelativePaths(filepath.Dir(ex))

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	mode, args := "draft", cfg.Args()
	if len(args) > 0 {
		mode, args = args[0], args[1:]
	}
	if err := run(ctx, cfg, mode, args); err != nil {
		log.Fatal().Err(err).Msg("autodraft-failed")
	}
}

func run(ctx context.Context, cfg *config.Config, mode string, args []string) error {
	settings, err := league.FromConfig(cfg)
	if err != nil {
		return err
	}
	switch mode {
	case "import":
		return runImport(ctx, cfg, settings, args)
	case "fit":
		return runFit(cfg, args)
	case "draft", "sim":
	default:
		return fmt.Errorf("unknown mode %q; use draft, sim, import or fit", mode)
	}

	players, err := projections.LoadPlayers(ctx, cfg, settings)
	if err != nil {
		return err
	}
	gen := &combos.Generator{
		MaxMemoryFraction: cfg.GetFloat64(config.ConfigMaxCombinationMemoryFraction),
	}
	if mode == "sim" {
		return runSim(ctx, cfg, settings, players, gen)
	}
	return runDraft(ctx, settings, players, gen)
}

func runImport(ctx context.Context, cfg *config.Config, settings *league.Settings, args []string) error {
	dbPath := cfg.GetString(config.ConfigProjectionsDB)
	if dbPath == "" {
		return fmt.Errorf("%w: import needs --%s", common.ErrConfiguration, config.ConfigProjectionsDB)
	}
	csvPath := cfg.ProjectionsFile(settings.Season)
	if len(args) > 0 {
		csvPath = args[0]
	}
	n, err := projections.ImportCSV(ctx, dbPath, csvPath,
		cfg.GetString(config.ConfigProjectionsEncoding), settings.Season)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d projections for %d into %s\n", n, settings.Season, dbPath)
	return nil
}

func runFit(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: fit needs a samples file", common.ErrConfiguration)
	}
	f, err := cache.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	samples, err := projections.ReadSamples(f, cfg.GetString(config.ConfigProjectionsEncoding))
	if err != nil {
		return err
	}
	model, err := projections.FitValueModel(samples)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return model.WriteYAML(os.Stdout)
	}
	out, err := os.Create(args[1])
	if err != nil {
		return err
	}
	if err := model.WriteYAML(out); err != nil {
		out.Close()
		return err
	}
	log.Info().Str("model", args[1]).Msg("wrote-value-model")
	return out.Close()
}

func runDraft(ctx context.Context, settings *league.Settings, players []*player.Player,
	gen *combos.Generator) error {

	sess, err := draft.NewSession(settings, players, draft.WithGenerator(gen))
	if err != nil {
		return err
	}
	if err := sess.Run(ctx, draft.BestChooser{}); err != nil {
		return err
	}
	var total float64
	for _, pk := range sess.History() {
		if !pk.Participant {
			continue
		}
		p := pk.Player
		total += p.Value
		fmt.Printf("%4d  %-26s%-6s%-5s%8.1f%8.2f\n", pk.Number, p.Name, p.Team, p.Position, p.Points, p.Value)
	}
	fmt.Printf("Total value: %.2f\n", total)
	return nil
}

func runSim(ctx context.Context, cfg *config.Config, settings *league.Settings,
	players []*player.Player, gen *combos.Generator) error {

	simmer, err := montecarlo.NewSimmer(settings, players, gen)
	if err != nil {
		return err
	}
	simmer.SetThreads(cfg.GetInt(config.ConfigSimThreads))
	if path := cfg.GetString(config.ConfigSimLogFile); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		simmer.SetLogStream(f)
	}
	if err := simmer.Simulate(ctx, cfg.GetInt(config.ConfigSimDrafts)); err != nil {
		return err
	}
	res := simmer.Results()
	fmt.Print(res.String())
	if res.Drafts > 0 {
		fmt.Println()
		return res.Histogram(os.Stdout)
	}
	return nil
}
