package reminder

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Runner invokes the scanner on a cron schedule. The scanner stays
// stateless; the runner is just a clock.
type Runner struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

// NewRunner schedules the scanner at the given cron spec (standard 5-field
// syntax). Returns an error if the spec does not parse.
func NewRunner(scanner *Scanner, spec string, logger zerolog.Logger) (*Runner, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := scanner.Scan(ctx, time.Now()); err != nil {
			logger.Error().Err(err).Msg("scheduled reminder scan failed")
		}
	})
	if err != nil {
		return nil, err
	}
	return &Runner{cron: c, logger: logger}, nil
}

// Start begins running the schedule in its own goroutine.
func (r *Runner) Start() {
	r.cron.Start()
	r.logger.Info().Msg("reminder schedule started")
}

// Stop halts the schedule and waits for a running scan to finish.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}
