package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"shared-canvas/drawing"
	"shared-canvas/room"
)

type Config struct {
	Port           string
	DefaultRoom    string
	MaxHistory     int
	SendQueueSize  int
	AllowedOrigins []string
	RateLimit      int
	JwtSecret      string
	InviteTTL      time.Duration
	StatsInterval  time.Duration
	LogLevel       string
	LogPretty      bool
}

func MustLoadConfig() *Config {
	godotenv.Load()
	config, err := loadConfig(os.Getenv)
	if err != nil {
		panic(err)
	}
	return config
}

func loadConfig(getenv func(string) string) (*Config, error) {
	env := func(key, fallback string) string {
		if value := getenv(key); value != "" {
			return value
		}
		return fallback
	}
	config := &Config{
		Port:           env("PORT", "3000"),
		DefaultRoom:    env("DEFAULT_ROOM", room.DefaultID),
		AllowedOrigins: strings.Split(env("ALLOWED_ORIGINS", "*"), ","),
		JwtSecret:      getenv("JWT_SECRET"),
		LogLevel:       env("LOG_LEVEL", "info"),
		LogPretty:      getenv("LOG_PRETTY") == "true",
	}
	var err error
	if config.MaxHistory, err = positiveInt("MAX_HISTORY", env("MAX_HISTORY", strconv.Itoa(drawing.DefaultMaxHistory))); err != nil {
		return nil, err
	}
	if config.SendQueueSize, err = positiveInt("SEND_QUEUE_SIZE", env("SEND_QUEUE_SIZE", "256")); err != nil {
		return nil, err
	}
	if config.RateLimit, err = positiveInt("RATE_LIMIT", env("RATE_LIMIT", "60")); err != nil {
		return nil, err
	}
	if config.InviteTTL, err = positiveDuration("INVITE_TTL", env("INVITE_TTL", "24h")); err != nil {
		return nil, err
	}
	if config.StatsInterval, err = positiveDuration("STATS_INTERVAL", env("STATS_INTERVAL", "5s")); err != nil {
		return nil, err
	}
	return config, nil
}

func positiveInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, value)
	}
	return n, nil
}

func positiveDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, value)
	}
	return d, nil
}
