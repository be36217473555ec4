package montecarlo

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/zcuddihy/ff-draft-app/stats"
)

type StoppingCondition int

const (
	StopNone StoppingCondition = iota
	Stop95
	Stop98
	Stop99
)

const (
	// IterationsCutoff stops a sim with a stopping condition no matter how
	// wide the interval still is.
	IterationsCutoff = 5000
	// minDraftsBeforeStopping keeps the standard error meaningful.
	minDraftsBeforeStopping = 30
	// DefaultTolerance is the interval half-width, as a fraction of the mean
	// roster value, below which the sim stops.
	DefaultTolerance = 0.005
)

type autostopper struct {
	stoppingCondition          StoppingCondition
	stopConditionCheckInterval uint64
	tolerance                  float64
}

func (a *autostopper) reset() {
	a.stopConditionCheckInterval = 16
	if a.tolerance == 0 {
		a.tolerance = DefaultTolerance
	}
}

func (sc StoppingCondition) confidence() float64 {
	switch sc {
	case Stop95:
		return 95
	case Stop98:
		return 98
	case Stop99:
		return 99
	}
	return 0
}

// shouldStop reports whether the mean roster value is known precisely
// enough. The caller holds the lock protecting st.
func (a *autostopper) shouldStop(iterationCount uint64, st *stats.Statistic) bool {
	if a.stoppingCondition == StopNone {
		return false
	}
	if iterationCount > IterationsCutoff {
		return true
	}
	if st.Iterations() < minDraftsBeforeStopping {
		return false
	}
	halfWidth := st.ConfidenceInterval(a.stoppingCondition.confidence())
	limit := a.tolerance * math.Abs(st.Mean())
	log.Debug().Float64("half-width", halfWidth).Float64("limit", limit).
		Msg("checking-interval")
	return halfWidth <= limit
}
