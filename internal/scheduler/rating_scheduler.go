package scheduler

import (
	"github.com/magicmenu/magicmenu-backend/internal/app/repository"
	"github.com/magicmenu/magicmenu-backend/internal/app/service"
	"github.com/magicmenu/magicmenu-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// RatingScheduler recomputes every restaurant's denormalized rating columns
// nightly. Review writes already update them transactionally; the sweep
// corrects any drift from out-of-band data changes. It also prunes expired
// password reset tokens.
type RatingScheduler struct {
	cron              *cron.Cron
	restaurantService service.RestaurantService
	passwordResets    repository.PasswordResetRepository
}

func NewRatingScheduler(restaurantService service.RestaurantService, passwordResets repository.PasswordResetRepository) *RatingScheduler {
	return &RatingScheduler{
		cron:              cron.New(),
		restaurantService: restaurantService,
		passwordResets:    passwordResets,
	}
}

// Start registers the nightly jobs and starts the cron loop.
func (s *RatingScheduler) Start() error {
	// Daily at 03:00: recompute rating aggregates.
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		logger.Info("Starting scheduled rating recompute", nil)

		count, err := s.restaurantService.RecomputeAllRatings()
		if err != nil {
			logger.Error("Failed to recompute restaurant ratings", err)
			return
		}

		logger.Info("Scheduled rating recompute finished", map[string]interface{}{
			"restaurants": count,
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for rating recompute", err)
		return err
	}

	// Daily at 03:30: drop expired password reset tokens.
	_, err = s.cron.AddFunc("30 3 * * *", func() {
		if err := s.passwordResets.DeleteExpired(); err != nil {
			logger.Error("Failed to delete expired password resets", err)
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for password reset cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Rating scheduler started successfully (daily at 3:00 AM)", nil)

	return nil
}

// Stop halts the cron loop.
func (s *RatingScheduler) Stop() {
	logger.Info("Stopping rating scheduler...", nil)
	s.cron.Stop()
	logger.Info("Rating scheduler stopped", nil)
}
