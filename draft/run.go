package draft

import (
	"context"
	"errors"

	"github.com/zcuddihy/ff-draft-app/common"
)

// maxSelectionAttempts bounds how many invalid selections Run tolerates on
// a single pick before giving up.
const maxSelectionAttempts = 3

// Chooser makes the participant's selection from the ranked candidates and
// returns the chosen player's name.
type Chooser interface {
	Choose(ctx context.Context, s *Session, candidates []Candidate) (string, error)
}

// ChooserFunc adapts a function to the Chooser interface.
type ChooserFunc func(ctx context.Context, s *Session, candidates []Candidate) (string, error)

func (f ChooserFunc) Choose(ctx context.Context, s *Session, candidates []Candidate) (string, error) {
	return f(ctx, s, candidates)
}

// BestChooser always takes the top-ranked candidate.
type BestChooser struct{}

func (BestChooser) Choose(_ context.Context, _ *Session, candidates []Candidate) (string, error) {
	return candidates[0].Player.Name, nil
}

// Run plays the draft to the end. Opponent picks come from the session's
// opponent model and participant picks from the chooser. A selection error
// asks the chooser again; the context is checked between picks.
func (s *Session) Run(ctx context.Context, chooser Chooser) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch s.State() {
		case Finished:
			s.logger.Debug().Int("roster", len(s.myTeam)).Msg("draft-finished")
			return nil
		case SimulatingOpponentPick:
			if _, err := s.OpponentPick(); err != nil {
				return err
			}
		case AwaitingParticipantPick:
			if err := s.participantTurn(ctx, chooser); err != nil {
				return err
			}
		}
	}
}

func (s *Session) participantTurn(ctx context.Context, chooser Chooser) error {
	var err error
	for attempt := 0; attempt < maxSelectionAttempts; attempt++ {
		var cands []Candidate
		cands, err = s.Recommend()
		if err != nil {
			return err
		}
		var name string
		name, err = chooser.Choose(ctx, s, cands)
		if err != nil {
			return err
		}
		err = s.Select(name)
		if !errors.Is(err, common.ErrSelection) {
			return err
		}
		s.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("invalid-selection")
	}
	return err
}
