// Package montecarlo runs many automated mock drafts to measure how well the
// recommendation strategy does against opponents who draft by sampled ADP.
// In other words, "simming".
package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/zcuddihy/ff-draft-app/combos"
	"github.com/zcuddihy/ff-draft-app/common"
	"github.com/zcuddihy/ff-draft-app/draft"
	"github.com/zcuddihy/ff-draft-app/league"
	"github.com/zcuddihy/ff-draft-app/player"
	"github.com/zcuddihy/ff-draft-app/stats"
)

// LogDraft is one simulated draft, serialized to the log stream.
type LogDraft struct {
	Iteration int       `yaml:"iteration"`
	Thread    int       `yaml:"thread"`
	Build     string    `yaml:"build"`
	Value     float64   `yaml:"value"`
	Points    float64   `yaml:"points"`
	Picks     []LogPick `yaml:"picks"`
}

type LogPick struct {
	Pick     int     `yaml:"pick"`
	Player   string  `yaml:"player"`
	Position string  `yaml:"position"`
	Value    float64 `yaml:"value"`
}

// Simmer runs mock drafts. The combination table is generated once and
// shared by every draft.
type Simmer struct {
	settings *league.Settings
	players  []*player.Player
	table    *combos.Table

	threads   int
	opponent  draft.Opponent
	chooser   draft.Chooser
	logStream io.Writer

	autostopper autostopper

	iterationCount atomic.Uint64

	mu        sync.Mutex
	value     stats.Statistic
	points    stats.Statistic
	values    []float64
	builds    map[string]int
	firstPick map[string]int
	simming   atomic.Bool
}

// NewSimmer validates the settings and generates the shared combination
// table.
func NewSimmer(settings *league.Settings, players []*player.Player, gen *combos.Generator) (*Simmer, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no league settings", common.ErrConfiguration)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if gen == nil {
		gen = &combos.Generator{}
	}
	table, err := gen.Generate(combos.RequirementsFrom(settings))
	if err != nil {
		return nil, err
	}
	s := &Simmer{
		settings: settings.Clone(),
		players:  players,
		table:    table,
		threads:  1,
		opponent: draft.SampledADPOpponent{},
		chooser:  draft.BestChooser{},
	}
	s.autostopper.reset()
	s.Reset()
	return s, nil
}

func (s *Simmer) SetThreads(threads int) {
	s.threads = max(1, threads)
}

func (s *Simmer) Threads() int {
	return s.threads
}

func (s *Simmer) SetOpponent(o draft.Opponent) {
	s.opponent = o
}

func (s *Simmer) SetChooser(c draft.Chooser) {
	s.chooser = c
}

// SetLogStream streams every finished draft to l as a YAML document.
func (s *Simmer) SetLogStream(l io.Writer) {
	s.logStream = l
}

func (s *Simmer) SetStoppingCondition(sc StoppingCondition) {
	s.autostopper.stoppingCondition = sc
}

func (s *Simmer) IsSimming() bool {
	return s.simming.Load()
}

// Reset clears the statistics from previous runs.
func (s *Simmer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = stats.Statistic{}
	s.points = stats.Statistic{}
	s.values = nil
	s.builds = map[string]int{}
	s.firstPick = map[string]int{}
	s.iterationCount.Store(0)
}

// Simulate runs up to drafts mock drafts, spread over the configured
// threads. It returns early, without error, when the context is canceled
// or the stopping condition is met. A non-positive drafts count runs until
// one of those happens.
func (s *Simmer) Simulate(ctx context.Context, drafts int) error {
	logger := zerolog.Ctx(ctx)
	if drafts <= 0 && s.autostopper.stoppingCondition == StopNone {
		return fmt.Errorf("%w: unbounded simulation needs a stopping condition",
			common.ErrConfiguration)
	}
	if !s.simming.CompareAndSwap(false, true) {
		return errors.New("a simulation is already running")
	}
	defer func() {
		s.simming.Store(false)
		logger.Info().Uint64("drafts", s.iterationCount.Load()).Msg("sim-ended")
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logChan := make(chan []byte)
	writerDone := make(chan struct{})
	if s.logStream != nil {
		go func() {
			defer close(writerDone)
			for bts := range logChan {
				if _, err := s.logStream.Write(bts); err != nil {
					logger.Err(err).Msg("sim-log-write")
				}
			}
		}()
	}

	tstart := time.Now()
	g := errgroup.Group{}
	for t := 0; t < s.threads; t++ {
		t := t
		g.Go(func() error {
			return s.worker(ctx, cancel, t, uint64(max(drafts, 0)), logChan)
		})
	}
	err := g.Wait()
	close(logChan)
	if s.logStream != nil {
		<-writerDone
	}

	elapsed := time.Since(tstart)
	logger.Info().Float64("seconds", elapsed.Seconds()).
		Int("drafts", s.Iterations()).Msg("sim-time")

	return err
}

func (s *Simmer) worker(ctx context.Context, cancel context.CancelFunc, thread int,
	limit uint64, logChan chan<- []byte) error {

	logger := zerolog.Ctx(ctx)
	for {
		if ctx.Err() != nil {
			return nil
		}
		n := s.iterationCount.Add(1)
		if limit > 0 && n > limit {
			s.iterationCount.Add(^uint64(0))
			return nil
		}
		err := s.simSingleDraft(ctx, thread, int(n-1), logChan)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.iterationCount.Add(^uint64(0))
			return nil
		}
		if err != nil {
			logger.Err(err).Int("thread", thread).Msg("error simming draft; canceling")
			cancel()
			return err
		}
		if s.autostopper.stoppingCondition != StopNone &&
			n%s.autostopper.stopConditionCheckInterval == 0 {

			s.mu.Lock()
			stop := s.autostopper.shouldStop(n, &s.value)
			s.mu.Unlock()
			if stop {
				logger.Info().Uint64("drafts", n).Msg("reached stopping condition")
				cancel()
			}
		}
	}
}

func (s *Simmer) simSingleDraft(ctx context.Context, thread, iteration int, logChan chan<- []byte) error {
	sess, err := draft.NewSession(s.settings, s.players,
		draft.WithTable(s.table), draft.WithOpponent(s.opponent))
	if err != nil {
		return err
	}
	if err := sess.Run(ctx, s.chooser); err != nil {
		return err
	}
	team := sess.MyTeam()
	var value, points float64
	build := make([]string, len(team))
	for i, p := range team {
		value += p.Value
		points += p.Points
		build[i] = p.Position.String()
	}
	buildStr := strings.Join(build, "-")

	s.mu.Lock()
	s.value.Push(value)
	s.points.Push(points)
	s.values = append(s.values, value)
	s.builds[buildStr]++
	if len(team) > 0 {
		s.firstPick[team[0].Name]++
	}
	s.mu.Unlock()

	if s.logStream == nil {
		return nil
	}
	ld := LogDraft{
		Iteration: iteration,
		Thread:    thread,
		Build:     buildStr,
		Value:     value,
		Points:    points,
	}
	for _, pk := range sess.History() {
		if !pk.Participant {
			continue
		}
		ld.Picks = append(ld.Picks, LogPick{
			Pick:     pk.Number,
			Player:   pk.Player.Name,
			Position: pk.Player.Position.String(),
			Value:    pk.Player.Value,
		})
	}
	out, err := yaml.Marshal([]LogDraft{ld})
	if err != nil {
		return err
	}
	select {
	case logChan <- out:
	case <-ctx.Done():
	}
	return nil
}

func (s *Simmer) Iterations() int {
	return int(s.iterationCount.Load())
}

// Results is a snapshot of the statistics gathered so far.
type Results struct {
	Drafts int
	Value  stats.Statistic
	Points stats.Statistic
	// Builds counts how often each position order was drafted.
	Builds map[string]int
	// FirstPicks counts how often each player was the first-round pick.
	FirstPicks map[string]int
	values     []float64
}

func (s *Simmer) Results() *Results {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &Results{
		Drafts:     s.value.Iterations(),
		Value:      s.value,
		Points:     s.points,
		Builds:     make(map[string]int, len(s.builds)),
		FirstPicks: make(map[string]int, len(s.firstPick)),
		values:     slices.Clone(s.values),
	}
	for k, v := range s.builds {
		r.Builds[k] = v
	}
	for k, v := range s.firstPick {
		r.FirstPicks[k] = v
	}
	return r
}

type count struct {
	key string
	n   int
}

func topCounts(m map[string]int, n int) []count {
	cs := make([]count, 0, len(m))
	for k, v := range m {
		cs = append(cs, count{k, v})
	}
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].n == cs[j].n {
			return cs[i].key < cs[j].key
		}
		return cs[i].n > cs[j].n
	})
	if len(cs) > n {
		cs = cs[:n]
	}
	return cs
}

// String summarizes the results for display.
func (r *Results) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Drafts simulated: %s\n", humanize.Comma(int64(r.Drafts)))
	if r.Drafts == 0 {
		return sb.String()
	}
	fmt.Fprintf(&sb, "%-8s%10s%10s%10s%10s%10s\n", "", "mean", "stdev", "stderr", "min", "max")
	for _, row := range []struct {
		name string
		st   *stats.Statistic
	}{{"value", &r.Value}, {"points", &r.Points}} {
		fmt.Fprintf(&sb, "%-8s%10.2f%10.2f%10.3f%10.2f%10.2f\n", row.name,
			row.st.Mean(), row.st.Stdev(), row.st.StandardError(), row.st.Min(), row.st.Max())
	}
	sb.WriteString("\nMost common builds:\n")
	for _, c := range topCounts(r.Builds, 5) {
		fmt.Fprintf(&sb, "%6.1f%%  %s\n", 100*float64(c.n)/float64(r.Drafts), c.key)
	}
	sb.WriteString("\nFirst-round picks:\n")
	for _, c := range topCounts(r.FirstPicks, 5) {
		fmt.Fprintf(&sb, "%6.1f%%  %s\n", 100*float64(c.n)/float64(r.Drafts), c.key)
	}
	return sb.String()
}

// Histogram writes a text histogram of per-draft roster value.
func (r *Results) Histogram(w io.Writer) error {
	if len(r.values) == 0 {
		return errors.New("no drafts simulated")
	}
	hist := histogram.Hist(15, r.values)
	return histogram.Fprint(w, hist, histogram.Linear(50))
}
