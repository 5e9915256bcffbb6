package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hunt/internal/ipc"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// resolveApplication turns a CLI argument into an application. Numeric
// arguments are ids; anything else is treated as a company name for the
// given owner.
func resolveApplication(ctx context.Context, api trackerAPI, owner, arg string) (ipc.ApplicationSummary, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return ipc.ApplicationSummary{}, errors.New("application id or company is required")
	}
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		if id < 1 {
			return ipc.ApplicationSummary{}, fmt.Errorf("invalid application id: %d", id)
		}
		return api.Lookup(ctx, id, "", "")
	}
	return api.Lookup(ctx, 0, owner, arg)
}

func (c *commandContext) ownerOrDefault(flagValue string) string {
	if owner := strings.TrimSpace(flagValue); owner != "" {
		return owner
	}
	if cfg := c.configValue(); cfg != nil {
		return cfg.Tracker.DefaultOwner
	}
	return ""
}

// parseWhen accepts a date or a date with minutes, interpreted in local time.
func parseWhen(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("time value is required")
	}
	if t, err := time.ParseInLocation(dateTimeLayout, value, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(dateLayout, value, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q (use %s or %q)", value, dateLayout, dateTimeLayout)
}

// parseDelay accepts Go duration syntax plus a whole-day suffix, so both
// "36h" and "3d" work.
func parseDelay(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.New("duration value is required")
	}
	if strings.HasSuffix(value, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(value, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q (use forms like 90m, 36h, or 3d)", value)
	}
	return d, nil
}
