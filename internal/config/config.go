package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config carries everything the pipeline needs, credentials included, so
// the pipeline itself never reads the environment.
type Config struct {
	FREDAPIKey         string
	AlphaVantageAPIKey string

	SnapshotPath string
	RedisURL     string

	EconSeriesLimit int
	HistoryMonths   int
	HistoryDays     int
	HTTPTimeoutSecs int
	RunTimeoutSecs  int
}

func Load() *Config {
	cfg := &Config{
		FREDAPIKey:         strings.TrimSpace(os.Getenv("FRED_API_KEY")),
		AlphaVantageAPIKey: strings.TrimSpace(os.Getenv("ALPHAVANTAGE_API_KEY")),
		RedisURL:           strings.TrimSpace(os.Getenv("REDIS_URL")),
	}

	if cfg.FREDAPIKey == "" {
		log.Println("Warning: FRED_API_KEY not set, economic series will be absent")
	}
	if cfg.AlphaVantageAPIKey == "" {
		log.Println("Warning: ALPHAVANTAGE_API_KEY not set, gold history will be absent")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, snapshot mirroring disabled")
	}

	cfg.SnapshotPath = strings.TrimSpace(os.Getenv("SNAPSHOT_PATH"))
	if cfg.SnapshotPath == "" {
		cfg.SnapshotPath = "data/snapshot.json"
	}

	cfg.EconSeriesLimit = 300
	if v := strings.TrimSpace(os.Getenv("ECON_SERIES_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.EconSeriesLimit = n
		}
	}

	cfg.HistoryMonths = 60
	if v := strings.TrimSpace(os.Getenv("HISTORY_MONTHS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HistoryMonths = n
		}
	}

	cfg.HistoryDays = 365
	if v := strings.TrimSpace(os.Getenv("HISTORY_DAYS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HistoryDays = n
		}
	}

	cfg.HTTPTimeoutSecs = 20
	if v := strings.TrimSpace(os.Getenv("HTTP_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPTimeoutSecs = n
		}
	}

	cfg.RunTimeoutSecs = 120
	if v := strings.TrimSpace(os.Getenv("RUN_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RunTimeoutSecs = n
		}
	}

	return cfg
}
