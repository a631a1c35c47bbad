// Package jobs tareas programadas del proceso API.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ExpiryReminder avisa de documentos que caducan dentro de days días.
type ExpiryReminder interface {
	SendExpiryReminders(ctx context.Context, days int) (int, error)
}

type Scheduler struct {
	cron     *cron.Cron
	reminder ExpiryReminder
	spec     string
	days     int
	timeout  time.Duration
	log      zerolog.Logger
}

// NewScheduler spec es una expresión cron con segundos (p. ej. "0 0 7 * * *").
func NewScheduler(reminder ExpiryReminder, spec string, days int, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		reminder: reminder,
		spec:     spec,
		days:     days,
		timeout:  5 * time.Minute,
		log:      log.With().Str("component", "jobs").Logger(),
	}
}

func (s *Scheduler) Start() error {
	if s.reminder == nil || s.spec == "" {
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, s.documentExpiry); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("spec", s.spec).Int("days", s.days).Msg("recordatorios de caducidad programados")
	return nil
}

// Stop espera a que termine el trabajo en curso o a que venza ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("tareas programadas sin terminar al apagar")
	}
}

func (s *Scheduler) documentExpiry() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	n, err := s.reminder.SendExpiryReminders(ctx, s.days)
	if err != nil {
		s.log.Error().Err(err).Msg("recordatorios de caducidad fallidos")
		return
	}
	s.log.Info().Int("sent", n).Dur("took", time.Since(start)).Msg("recordatorios de caducidad enviados")
}
