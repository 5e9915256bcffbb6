package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

func (c *Config) normalize() error {
	// A .env alongside the working directory may carry the ntfy topic and
	// owner so they stay out of the committed config file.
	_ = godotenv.Load()

	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTracker()
	c.normalizeStaleness()
	c.normalizeDispatcher()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTracker() {
	c.Tracker.DefaultOwner = strings.TrimSpace(c.Tracker.DefaultOwner)
	if c.Tracker.DefaultOwner == "" {
		if value, ok := os.LookupEnv("HUNT_OWNER"); ok {
			c.Tracker.DefaultOwner = strings.TrimSpace(value)
		}
	}
	if c.Tracker.DefaultOwner == "" {
		if value, ok := os.LookupEnv("USER"); ok {
			c.Tracker.DefaultOwner = strings.TrimSpace(value)
		}
	}
	c.Tracker.DefaultSeason = strings.TrimSpace(c.Tracker.DefaultSeason)
	if c.Tracker.DefaultSeason == "" {
		c.Tracker.DefaultSeason = defaultSeason
	}
}

func (c *Config) normalizeStaleness() {
	if c.Staleness.ThresholdDays <= 0 {
		c.Staleness.ThresholdDays = defaultStalenessThresholdDays
	}
}

func (c *Config) normalizeDispatcher() {
	if c.Dispatcher.PollInterval <= 0 {
		c.Dispatcher.PollInterval = defaultPollInterval
	}
	if c.Dispatcher.ErrorRetryInterval <= 0 {
		c.Dispatcher.ErrorRetryInterval = defaultErrorRetryInterval
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("HUNT_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
	if c.Notifications.RatePerMinute < 0 {
		c.Notifications.RatePerMinute = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
