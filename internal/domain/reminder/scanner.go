// Package reminder implements the batch reminder scan over approved
// appointments.
package reminder

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/domain/appointment"
)

// DefaultLookahead is the scan window when no override is configured.
const DefaultLookahead = 24 * time.Hour

// Summary reports one scan run.
type Summary struct {
	Scanned time.Time `json:"scanned_at"`
	Checked int       `json:"checked"`
	Flagged int       `json:"flagged"`
	Skipped int       `json:"skipped"`
}

// Scanner flags approved, unreminded appointments that fall inside the
// lookahead window and emits a notification for each. It holds no timer
// state; callers decide when a scan runs.
type Scanner struct {
	svc       *appointment.Service
	repo      appointment.Repository
	loc       *time.Location
	lookahead time.Duration
	logger    zerolog.Logger
}

func NewScanner(svc *appointment.Service, repo appointment.Repository, loc *time.Location, lookahead time.Duration, logger zerolog.Logger) *Scanner {
	if loc == nil {
		loc = time.Local
	}
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}
	return &Scanner{
		svc:       svc,
		repo:      repo,
		loc:       loc,
		lookahead: lookahead,
		logger:    logger.With().Str("component", "reminder").Logger(),
	}
}

// Scan runs one pass as of now. An appointment is flagged when its slot is
// at or after now and no more than the lookahead away. Rows whose stored
// date or time does not parse are skipped, never fatal. Already-flagged
// rows drop out of the candidate set, so a rerun over the same window does
// nothing.
func (s *Scanner) Scan(ctx context.Context, now time.Time) (Summary, error) {
	sum := Summary{Scanned: now}

	candidates, err := s.repo.ListApprovedUnreminded(ctx)
	if err != nil {
		return sum, err
	}
	sum.Checked = len(candidates)

	for _, a := range candidates {
		at, err := a.ScheduledAt(s.loc)
		if err != nil {
			sum.Skipped++
			s.logger.Warn().
				Str("appointment_id", a.ID.String()).
				Str("date", a.Date).
				Str("time", a.Time).
				Msg("unparseable schedule, skipping")
			continue
		}

		until := at.Sub(now)
		if until < 0 || until > s.lookahead {
			continue
		}

		if err := s.remind(ctx, a); err != nil {
			sum.Skipped++
			s.logger.Error().Err(err).
				Str("appointment_id", a.ID.String()).
				Msg("reminder delivery failed")
			continue
		}
		sum.Flagged++
	}

	s.logger.Info().
		Int("checked", sum.Checked).
		Int("flagged", sum.Flagged).
		Int("skipped", sum.Skipped).
		Msg("reminder scan complete")
	return sum, nil
}

func (s *Scanner) remind(ctx context.Context, a *appointment.Appointment) error {
	if err := s.svc.Notify(ctx, a); err != nil {
		return err
	}
	return s.repo.MarkReminded(ctx, a.ID)
}
