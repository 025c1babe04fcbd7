package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"skillswap/internal/adapters/persistence/repositories"
)

// ExpiryService sweeps open demands whose deadline has passed and moves
// them to expired, and purges refresh tokens past their expiry. Runs
// hourly; a sweep can also be triggered directly.
type ExpiryService struct {
	demandRepo       *repositories.DemandRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	logger           zerolog.Logger
	cron             *cron.Cron
}

// NewExpiryService creates a new expiry service
func NewExpiryService(demandRepo *repositories.DemandRepository, refreshTokenRepo repositories.RefreshTokenRepository, logger zerolog.Logger) *ExpiryService {
	return &ExpiryService{
		demandRepo:       demandRepo,
		refreshTokenRepo: refreshTokenRepo,
		logger:           logger.With().Str("component", "expiry").Logger(),
	}
}

// Start schedules the hourly sweep and runs one immediately so a restart
// never leaves stale demands waiting for the next tick.
func (s *ExpiryService) Start() error {
	s.cron = cron.New()

	_, err := s.cron.AddFunc("@hourly", func() {
		if _, err := s.Sweep(context.Background()); err != nil {
			s.logger.Error().Err(err).Msg("demand expiry sweep failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().Msg("demand expiry scheduler started")

	go func() {
		if _, err := s.Sweep(context.Background()); err != nil {
			s.logger.Error().Err(err).Msg("initial demand expiry sweep failed")
		}
	}()

	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish
func (s *ExpiryService) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		s.logger.Info().Msg("demand expiry scheduler stopped")
	}
}

// Sweep expires open demands past their deadline, returning how many rows
// were moved.
func (s *ExpiryService) Sweep(ctx context.Context) (int64, error) {
	expired, err := s.demandRepo.ExpirePastDeadline(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		s.logger.Info().Int64("expired", expired).Msg("demands moved to expired")
	}
	if s.refreshTokenRepo != nil {
		if err := s.refreshTokenRepo.DeleteExpired(ctx); err != nil {
			s.logger.Error().Err(err).Msg("refresh token purge failed")
		}
	}
	return expired, nil
}
