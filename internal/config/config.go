package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the bot.
type Config struct {
	TelegramToken string
	DatabaseURL   string
	TimerDuration time.Duration
	AgendaTime    string
	Location      *time.Location
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := Config{
		TelegramToken: get("TELEGRAM_TOKEN"),
		DatabaseURL:   get("DATABASE_URL"),
		TimerDuration: parseMinutes(get("TIMER_MINUTES")),
		AgendaTime:    "08:00",
		Location:      time.Local,
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "study_planner.db"
	}
	if cfg.TimerDuration == 0 {
		cfg.TimerDuration = 25 * time.Minute
	}
	// An explicitly empty AGENDA_TIME turns the daily agenda off.
	if raw, ok := lookup("AGENDA_TIME"); ok {
		cfg.AgendaTime = strings.TrimSpace(raw)
	}
	if tz := get("TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return cfg, fmt.Errorf("TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	return cfg, nil
}

func parseMinutes(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}
