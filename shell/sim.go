package shell

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zcuddihy/ff-draft-app/combos"
	"github.com/zcuddihy/ff-draft-app/config"
	"github.com/zcuddihy/ff-draft-app/montecarlo"
)

func (sc *ShellController) sim(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 {
		return sc.simControlArguments(cmd.args)
	}
	if sc.settings == nil {
		return nil, errNoSession
	}
	if sc.simmer != nil && sc.simmer.IsSimming() {
		return nil, errSimming
	}

	drafts := sc.config.GetInt(config.ConfigSimDrafts)
	threads := sc.config.GetInt(config.ConfigSimThreads)
	stoppingCondition := montecarlo.StopNone
	var err error
	for opt, val := range cmd.options {
		switch opt {
		case "n":
			if drafts, err = strconv.Atoi(val); err != nil {
				return nil, err
			}
		case "threads":
			if threads, err = strconv.Atoi(val); err != nil {
				return nil, err
			}
		case "stop":
			switch val {
			case "95":
				stoppingCondition = montecarlo.Stop95
			case "98":
				stoppingCondition = montecarlo.Stop98
			case "99":
				stoppingCondition = montecarlo.Stop99
			default:
				return nil, errors.New("only allowed values are 95, 98, and 99 for stopping condition")
			}
		default:
			return nil, errors.New("option " + opt + " not recognized")
		}
	}

	if sc.simmer == nil {
		gen := &combos.Generator{
			MaxMemoryFraction: sc.config.GetFloat64(config.ConfigMaxCombinationMemoryFraction),
		}
		if sc.simmer, err = montecarlo.NewSimmer(sc.settings, sc.players, gen); err != nil {
			return nil, err
		}
	}
	sc.simmer.Reset()
	sc.simmer.SetThreads(threads)
	sc.simmer.SetStoppingCondition(stoppingCondition)
	if path := sc.config.GetString(config.ConfigSimLogFile); path != "" && sc.simLogFile == nil {
		if sc.simLogFile, err = os.Create(path); err != nil {
			return nil, err
		}
		sc.simmer.SetLogStream(sc.simLogFile)
	}

	sc.simCtx, sc.simCancel = context.WithCancel(context.Background())
	sc.simTicker = time.NewTicker(15 * time.Second)
	sc.simTickerDone = make(chan bool)

	simmer, ticker, done := sc.simmer, sc.simTicker, sc.simTickerDone
	go func() {
		defer ticker.Stop()
		if err := simmer.Simulate(sc.simCtx, drafts); err != nil {
			log.Err(err).Msg("sim-error")
		}
		close(done)
	}()
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				log.Info().Msgf("Simmer is at %v drafts...", simmer.Iterations())
			}
		}
	}()
	return msg("Simulation started. Please do `sim show` to see the results so far."), nil
}

func (sc *ShellController) simControlArguments(args []string) (*Response, error) {
	if sc.simmer == nil {
		return nil, errors.New("no simulation has been run; do a `sim` first")
	}
	switch args[0] {
	case "stop":
		if !sc.simmer.IsSimming() {
			return nil, errors.New("no running sim to stop")
		}
		sc.stopSim()
		return msg(sc.simmer.Results().String()), nil
	case "show":
		return msg(sc.simmer.Results().String()), nil
	case "histogram", "hist":
		var sb strings.Builder
		if err := sc.simmer.Results().Histogram(&sb); err != nil {
			return nil, err
		}
		return msg(sb.String()), nil
	}
	return nil, errors.New("unrecognized sim argument " + args[0])
}

func (sc *ShellController) stopSim() {
	sc.simCancel()
	<-sc.simTickerDone
	if sc.simLogFile != nil {
		if err := sc.simLogFile.Close(); err != nil {
			log.Err(err).Msg("closing-sim-log")
		}
		sc.simLogFile = nil
		sc.simmer.SetLogStream(nil)
	}
}
