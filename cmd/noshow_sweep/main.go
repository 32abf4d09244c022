package main

import (
	"context"
	"os"
	"time"

	"pinkblueberry/internal/config"
	"pinkblueberry/internal/database"
	"pinkblueberry/internal/pkg/logger"
	"pinkblueberry/internal/repository"
)

// Sweeps confirmed bookings whose end time passed more than the grace period
// ago and flags them as no-shows. Meant to run from cron every few minutes.
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	grace := 15 * time.Minute
	if raw := os.Getenv("NOSHOW_GRACE"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatal().Str("value", raw).Msg("invalid NOSHOW_GRACE")
		}
		grace = parsed
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}

	bookings := repository.NewBookingRepository(db)
	ctx := context.Background()
	now := time.Now()

	overdue, err := bookings.FindOverdueConfirmed(ctx, now.Add(-grace))
	if err != nil {
		log.Fatal().Err(err).Msg("finding overdue bookings failed")
	}

	swept := 0
	for i := range overdue {
		b := &overdue[i]
		if err := b.MarkNoShow(now); err != nil {
			log.Warn().Err(err).Str("booking_id", b.ID.String()).Msg("skipping booking")
			continue
		}
		if err := bookings.Update(ctx, b); err != nil {
			log.Error().Err(err).Str("booking_id", b.ID.String()).Msg("update failed")
			continue
		}
		swept++
	}

	log.Info().Int("candidates", len(overdue)).Int("swept", swept).Msg("no-show sweep completed")
}
