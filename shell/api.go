package shell

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"github.com/zcuddihy/ff-draft-app/combos"
	"github.com/zcuddihy/ff-draft-app/config"
	"github.com/zcuddihy/ff-draft-app/draft"
	"github.com/zcuddihy/ff-draft-app/league"
	"github.com/zcuddihy/ff-draft-app/player"
	"github.com/zcuddihy/ff-draft-app/projections"
	"github.com/zcuddihy/ff-draft-app/valuation"
)

type Response struct {
	message string
}

type CmdOptions map[string]string

func (c CmdOptions) String(key string) string {
	return c[key]
}

func (c CmdOptions) Int(key string) (int, error) {
	v, ok := c[key]
	if !ok {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v)
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v, ok := c[key]
	if !ok {
		return defaultI, nil
	}
	return strconv.Atoi(v)
}

func (c CmdOptions) Bool(key string) bool {
	return strings.ToLower(c[key]) == "true"
}

func msg(message string) *Response {
	return &Response{message: message}
}

// Options to `new` that override the loaded configuration.
var newDraftOverrides = map[string]string{
	"first-pick": config.ConfigFirstPick,
	"teams":      config.ConfigTeams,
	"flex":       config.ConfigFlexPolicy,
	"scoring":    config.ConfigScoring,
	"season":     config.ConfigSeason,
	"league":     config.ConfigLeagueFile,
}

func (sc *ShellController) newDraft(cmd *shellcmd) (*Response, error) {
	if sc.simmer != nil && sc.simmer.IsSimming() {
		return nil, errSimming
	}
	var opponent draft.Opponent = draft.ADPOpponent{}
	for opt, val := range cmd.options {
		if key, ok := newDraftOverrides[opt]; ok {
			sc.config.Set(key, val)
			continue
		}
		switch opt {
		case "opponent":
			switch val {
			case "adp":
			case "sampled":
				opponent = draft.SampledADPOpponent{}
			default:
				return nil, errors.New("opponent must be adp or sampled")
			}
		default:
			return nil, errors.New("option " + opt + " not recognized")
		}
	}

	settings, err := league.FromConfig(sc.config)
	if err != nil {
		return nil, err
	}
	players, err := projections.LoadPlayers(context.Background(), sc.config, settings)
	if err != nil {
		return nil, err
	}
	sess, err := sc.newSession(settings, players, opponent)
	if err != nil {
		return nil, err
	}
	sc.settings, sc.players, sc.session = settings, players, sess
	sc.simmer = nil

	var sb strings.Builder
	fmt.Fprintf(&sb, "New draft: %d teams, %d rounds, %s scoring, season %d\n",
		settings.Teams, settings.Rounds, settings.Scoring, settings.Season)
	fmt.Fprintf(&sb, "Your picks: %v\n", settings.Picks)
	fmt.Fprintf(&sb, "%s players, %s build orders\n",
		humanize.Comma(int64(len(players))), humanize.Comma(int64(sess.Table().Len())))
	if err := sc.advanceAndShow(&sb); err != nil {
		return nil, err
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) newSession(settings *league.Settings, players []*player.Player,
	opponent draft.Opponent) (*draft.Session, error) {

	gen := &combos.Generator{
		MaxMemoryFraction: sc.config.GetFloat64(config.ConfigMaxCombinationMemoryFraction),
	}
	return draft.NewSession(settings, players,
		draft.WithGenerator(gen), draft.WithOpponent(opponent),
		draft.WithCandidateLimit(sc.config.GetInt(config.ConfigCandidates)))
}

func (sc *ShellController) rank(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoSession
	}
	if len(cmd.args) > 0 {
		n, err := strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
		if n < 1 {
			return nil, errors.New("rank needs a positive number of candidates")
		}
		// The shown candidates are the ones `pick` accepts.
		sc.session.SetCandidateLimit(n)
	}
	var sb strings.Builder
	if err := sc.showCandidates(&sb); err != nil {
		return nil, err
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) pick(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoSession
	}
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: pick <#index|name>")
	}
	sel := strings.Join(cmd.args, " ")
	var err error
	if idx, ok := parseIndex(sel); ok {
		err = sc.session.SelectIndex(idx)
	} else {
		err = sc.session.Select(sel)
	}
	if err != nil {
		return nil, err
	}
	return sc.afterPick()
}

func (sc *ShellController) auto(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoSession
	}
	if err := sc.session.SelectIndex(1); err != nil {
		return nil, err
	}
	return sc.afterPick()
}

func (sc *ShellController) advance(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoSession
	}
	var sb strings.Builder
	if err := sc.advanceAndShow(&sb); err != nil {
		return nil, err
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) status(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoSession
	}
	s := sc.session
	var sb strings.Builder
	fmt.Fprintf(&sb, "Session:      %s\n", s.ID())
	fmt.Fprintf(&sb, "State:        %s\n", s.State())
	fmt.Fprintf(&sb, "Pick:         %d of %d\n", s.ActivePick(), sc.settings.TotalPicks())
	if s.State() == draft.AwaitingParticipantPick {
		fmt.Fprintf(&sb, "Round:        %d of %d\n", s.Round(), sc.settings.Rounds)
	}
	fmt.Fprintf(&sb, "Your picks:   %v\n", sc.settings.Picks)
	fmt.Fprintf(&sb, "Undrafted:    %s\n", humanize.Comma(int64(len(s.Undrafted()))))
	fmt.Fprintf(&sb, "Build orders: %s of %s\n",
		humanize.Comma(int64(s.Table().Len())), humanize.Comma(int64(s.Table().Generated())))
	return msg(sb.String()), nil
}

func (sc *ShellController) team(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoSession
	}
	team := sc.session.MyTeam()
	if len(team) == 0 {
		return msg("No players drafted yet."), nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-4s%-26s%-6s%-5s%8s%8s\n", "Rd", "Player", "Team", "Pos", "FPTS", "Value")
	for i, p := range team {
		fmt.Fprintf(&sb, "%-4d%-26s%-6s%-5s%8.1f%8.2f\n", i+1, p.Name, p.Team, p.Position, p.Points, p.Value)
	}
	fmt.Fprintf(&sb, "Total value: %.2f\n", lo.SumBy(team, func(p *player.Player) float64 {
		return p.Value
	}))
	return msg(sb.String()), nil
}

func (sc *ShellController) build(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoSession
	}
	if _, err := sc.session.Recommend(); err != nil {
		return nil, err
	}
	rem := sc.session.Remaining()
	lines := lo.Values(rem.Best)
	slices.SortFunc(lines, func(a, b valuation.BuildLine) int {
		return cmp.Compare(b.Value(), a.Value())
	})
	var sb strings.Builder
	fmt.Fprintf(&sb, "Best build orders from round %d:\n", rem.Round)
	for _, bl := range lines {
		fmt.Fprintf(&sb, "%-4s %s\n", bl.Positions[rem.Round-1], bl.NLBString())
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) combos(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoSession
	}
	n, err := cmd.options.IntDefault("n", 10)
	if err != nil {
		return nil, err
	}
	t := sc.session.Table()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s build orders remain\n", humanize.Comma(int64(t.Len())))
	for i := 0; i < min(n, t.Len()); i++ {
		fmt.Fprintf(&sb, "%s\n", t.Row(i))
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) afterPick() (*Response, error) {
	var sb strings.Builder
	hist := sc.session.History()
	last := hist[len(hist)-1]
	fmt.Fprintf(&sb, "You drafted %s (%s, %s) at pick %d\n",
		last.Player.Name, last.Player.Position, last.Player.Team, last.Number)
	if err := sc.advanceAndShow(&sb); err != nil {
		return nil, err
	}
	return msg(sb.String()), nil
}

// advanceAndShow simulates opponent picks up to the participant's next turn
// and writes what happened, followed by the new recommendations.
func (sc *ShellController) advanceAndShow(sb *strings.Builder) error {
	taken, err := sc.session.AdvanceToParticipant()
	hist := sc.session.History()
	for i, p := range taken {
		pk := hist[len(hist)-len(taken)+i]
		fmt.Fprintf(sb, "  pick %3d: %s (%s, %s)\n", pk.Number, p.Name, p.Position, p.Team)
	}
	if err != nil {
		return err
	}
	if sc.session.State() == draft.Finished {
		sb.WriteString("The draft is over. Use `team` to see your roster.\n")
		return nil
	}
	return sc.showCandidates(sb)
}

func (sc *ShellController) showCandidates(sb *strings.Builder) error {
	cands, err := sc.session.Recommend()
	if err != nil {
		return err
	}
	fmt.Fprintf(sb, "Pick %d (round %d):\n", sc.session.ActivePick(), sc.session.Round())
	fmt.Fprintf(sb, "%-4s%-26s%-6s%-5s%8s%8s%10s%9s\n",
		"#", "Player", "Team", "Pos", "FPTS", "Value", "Remaining", "Score")
	for i, c := range cands {
		p := c.Player
		remaining := "-"
		if c.Fits {
			remaining = strconv.FormatFloat(c.RemainingValue, 'f', 2, 64)
		}
		fmt.Fprintf(sb, "%-4d%-26s%-6s%-5s%8.1f%8.2f%10s%9.2f\n",
			i+1, p.Name, p.Team, p.Position, p.Points, p.Value, remaining, c.Score)
	}
	return nil
}

// parseIndex accepts "#3" or "3" as the third candidate.
func parseIndex(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil {
		return 0, false
	}
	return i, true
}
