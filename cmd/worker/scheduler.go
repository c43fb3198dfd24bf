package main

import (
	"log"

	"bogo-backend/internal/shared"

	"github.com/hibiken/asynq"
)

// asynqScheduler wraps asynq.Scheduler with additional functionality
type asynqScheduler struct {
	*asynq.Scheduler
}

// setupScheduler creates the scheduler and registers periodic jobs
func setupScheduler(cfg *Config) *asynqScheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword},
		nil,
	)

	// Nightly cleanup of expired carts
	if _, err := scheduler.Register(
		cfg.CleanupCron,
		asynq.NewTask(shared.TypeCleanupCarts, nil),
		asynq.Queue(shared.QueueLow),
	); err != nil {
		log.Fatalf("[Scheduler] Failed to register cleanup job: %v", err)
	}

	// Start scheduler in goroutine
	go func() {
		log.Println("[Scheduler] Starting...")
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[Scheduler] Failed: %v", err)
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

// Shutdown gracefully shuts down the scheduler
func (s *asynqScheduler) Shutdown() {
	log.Println("[Scheduler] Shutting down...")
	s.Scheduler.Shutdown()
	log.Println("[Scheduler] ✓ Stopped")
}
