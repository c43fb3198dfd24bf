package main

import (
	"log"

	"bogo-backend/internal/shared/utils"
)

// Config holds all configuration for the worker
type Config struct {
	RedisAddr     string
	RedisPassword string
	CleanupCron   string
}

// loadConfig loads configuration from environment variables
func loadConfig() *Config {
	cfg := &Config{
		RedisAddr:     utils.GetEnvVariable("REDIS_HOST", "localhost:6379"),
		RedisPassword: utils.GetEnvVariable("REDIS_PASSWORD", ""),
		CleanupCron:   utils.GetEnvVariable("CART_CLEANUP_CRON", "0 3 * * *"),
	}

	log.Printf("[Config] Redis: %s, Cleanup cron: %s", cfg.RedisAddr, cfg.CleanupCron)

	return cfg
}
