// shell is the interactive draft assistant. Any arguments after the flags
// are run as a single shell command, after which the program exits.
//
//	shell [--key=value ...] [command ...]
package main

import (
	_ "embed"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zcuddihy/ff-draft-app/config"
	"github.com/zcuddihy/ff-draft-app/shell"
)

var (
	GitVersion string
)

//go:embed ffdraft.txt
var banner string

func main() {
	ex, err := os.Executable()
	if err != nil {
		log.Fatal().Err(err).Msg("finding-executable")
	}
	exPath := filepath.Dir(ex)
	fmt.Println(banner)
	fmt.Println(GitVersion)

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("loading-config")
	}
	// Data files ship next to the binary unless configured elsewhere.
	cfg.AdjustRelativePaths(exPath)

	logger := newLogger(cfg.GetBool(config.ConfigDebug))
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	log.Debug().Str("exec-path", exPath).Interface("config", cfg.SanitizedSettings()).
		Msg("loaded-config")

	if path := cfg.GetString(config.ConfigCPUProfile); path != "" {
		stop, err := startCPUProfile(path)
		if err != nil {
			log.Fatal().Err(err).Msg("cpu-profile")
		}
		defer stop()
	}

	quit := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("got quit signal...")
		close(quit)
	}()

	sc := shell.NewShellController(cfg, exPath, GitVersion)
	if line := strings.TrimSpace(strings.Join(cfg.Args(), " ")); line == "" {
		go sc.Loop(sig)
	} else {
		sc.Execute(sig, line)
		sig <- syscall.SIGINT
	}

	<-quit

	if path := cfg.GetString(config.ConfigMemProfile); path != "" {
		if err := writeHeapProfile(path); err != nil {
			log.Error().Err(err).Msg("mem-profile")
		}
	}
	sc.Cleanup()
	log.Info().Msg("shutting down")
}

func newLogger(debug bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// startCPUProfile profiles until the returned function is called.
func startCPUProfile(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, err
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

// writeHeapProfile is mostly for checking how large combination tables get
// over a long session.
func writeHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	memstats := &runtime.MemStats{}
	runtime.ReadMemStats(memstats)
	log.Info().Uint64("heap-alloc", memstats.HeapAlloc).Uint32("num-gc", memstats.NumGC).
		Msg("memory-stats")
	if err := pprof.WriteHeapProfile(f); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("wrote-heap-profile")
	return nil
}
