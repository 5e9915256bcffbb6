package logging

import (
	"log/slog"
	"strconv"
	"strings"
	"time"
)

type infoField struct {
	label string
	value string
}

const infoAttrLimit = 8

var infoHighlightKeys = []string{
	FieldAlert,
	FieldEventType,
	"company",
	"role",
	FieldStage,
	"season",
	"owner",
	"due_at",
	"due_in",
	"reminder_id",
	"stale_for",
	"error_message",
	FieldErrorHint,
	"applications",
	"reminders",
	"dispatched",
	"failed",
	"removed",
	"threshold_days",
	"poll_interval",
	"reason",
}

// selectInfoFields returns formatted info-level fields and a count of hidden entries.
// limit=0 means no limit. includeDebug controls whether debug-only keys are allowed.
func selectInfoFields(attrs []kv, limit int, includeDebug bool) ([]infoField, int) {
	if len(attrs) == 0 {
		return nil, 0
	}
	if limit < 0 {
		limit = 0
	}
	used := make([]bool, len(attrs))
	formatted := make([]string, len(attrs))
	formattedSet := make([]bool, len(attrs))
	ensureValue := func(idx int) string {
		if !formattedSet[idx] {
			formatted[idx] = formatValueForKey(attrs[idx].key, attrs[idx].value)
			formattedSet[idx] = true
		}
		return formatted[idx]
	}
	result := make([]infoField, 0, infoAttrLimit)
	hidden := 0

	for _, key := range infoHighlightKeys {
		if limit > 0 && len(result) >= limit {
			break
		}
		for idx, attr := range attrs {
			if used[idx] || attr.key != key {
				continue
			}
			used[idx] = true
			if skipInfoKey(attr.key) {
				break
			}
			if !includeDebug && isDebugOnlyKey(attr.key) {
				hidden++
				break
			}
			val := ensureValue(idx)
			if !includeDebug && shouldHideInfoValue(attr.key, val) {
				hidden++
				break
			}
			result = append(result, infoField{label: displayLabel(attr.key), value: val})
			break
		}
	}

	for idx, attr := range attrs {
		if used[idx] {
			continue
		}
		used[idx] = true
		if skipInfoKey(attr.key) {
			continue
		}
		if !includeDebug && isDebugOnlyKey(attr.key) {
			hidden++
			continue
		}
		val := ensureValue(idx)
		if !includeDebug && shouldHideInfoValue(attr.key, val) {
			hidden++
			continue
		}
		if limit <= 0 || len(result) < limit {
			result = append(result, infoField{label: displayLabel(attr.key), value: val})
		} else if limit > 0 {
			hidden++
		}
	}

	return result, hidden
}

// formatValueForKey applies smart formatting based on the key name.
func formatValueForKey(key string, v slog.Value) string {
	v = v.Resolve()

	if isDurationKey(key) && v.Kind() == slog.KindDuration {
		return formatDurationHuman(v.Duration())
	}

	if v.Kind() == slog.KindBool {
		if v.Bool() {
			return "yes"
		}
		return "no"
	}

	value := formatValue(v)
	if key == "error" || key == "error_message" {
		value = truncateErrorValue(value)
	}
	return value
}

// isDurationKey returns true if the key represents a duration.
func isDurationKey(key string) bool {
	return strings.HasSuffix(key, "_duration") ||
		strings.HasSuffix(key, "_elapsed") ||
		strings.HasSuffix(key, "_for") ||
		strings.HasSuffix(key, "_in") ||
		key == "elapsed" ||
		key == "duration" ||
		key == "uptime" ||
		key == "backoff"
}

func truncateErrorValue(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	const maxLen = 200
	if len(value) > maxLen {
		value = value[:maxLen] + "…"
	}
	return value
}

func skipInfoKey(key string) bool {
	switch key {
	case "", FieldAppID, FieldStage, FieldComponent:
		return true
	default:
		return false
	}
}

func isDebugOnlyKey(key string) bool {
	if key == "" {
		return true
	}
	switch key {
	case FieldCorrelationID, "socket", "pid", "lock_path":
		return true
	}
	if strings.Contains(key, "correlation") {
		return true
	}
	if strings.HasSuffix(key, "_fold") {
		return true
	}
	if strings.HasSuffix(key, "_id") && key != FieldAppID && key != "reminder_id" {
		return true
	}
	if strings.Contains(key, "_path") || strings.Contains(key, "_dir") {
		return true
	}
	return false
}

func shouldHideInfoValue(key, value string) bool {
	switch key {
	case "error_message", "error", "reason":
		return false
	}
	return len(value) > 120
}

func displayLabel(key string) string {
	switch key {
	case FieldAlert:
		return "Alert"
	case FieldEventType:
		return "Event"
	case FieldErrorHint:
		return "Hint"
	case FieldAppID:
		return "App"
	case FieldStage:
		return "Stage"
	case "company":
		return "Company"
	case "role":
		return "Role"
	case "season":
		return "Season"
	case "owner":
		return "Owner"
	case "due_at":
		return "Due"
	case "due_in":
		return "Due In"
	case "reminder_id":
		return "Reminder"
	case "stale_for":
		return "Stale For"
	case "error_message":
		return "Error"
	case "applications":
		return "Applications"
	case "reminders":
		return "Reminders"
	case "dispatched":
		return "Dispatched"
	case "failed":
		return "Failed"
	case "removed":
		return "Removed"
	case "threshold_days":
		return "Threshold"
	case "poll_interval":
		return "Poll Interval"
	case "reason":
		return "Reason"
	default:
		return titleizeKey(key)
	}
}

func titleizeKey(key string) string {
	if key == "" {
		return ""
	}
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-'
	})
	if len(parts) == 0 {
		return strings.ToUpper(key[:1]) + strings.ToLower(key[1:])
	}
	for i, part := range parts {
		parts[i] = capitalizeASCII(part)
	}
	return strings.Join(parts, " ")
}

func capitalizeASCII(value string) string {
	switch len(value) {
	case 0:
		return ""
	case 1:
		return strings.ToUpper(value)
	default:
		lower := strings.ToLower(value)
		return strings.ToUpper(lower[:1]) + lower[1:]
	}
}

func infoSummaryKey(component, appID string, attrs []kv) string {
	appID = strings.TrimSpace(appID)
	if appID == "" {
		if company := attrValue(attrs, "company"); company != "" {
			appID = "company:" + company
		} else if component != "" {
			appID = component
		}
	}
	return appID
}

func attrValue(attrs []kv, key string) string {
	for _, kv := range attrs {
		if kv.key == key {
			return attrString(kv.value)
		}
	}
	return ""
}

// formatDurationHuman renders durations at day, hour, minute, and second
// granularity without sub-second noise, e.g. "3d 4h" or "12m 5s".
func formatDurationHuman(d time.Duration) string {
	if d < 0 {
		return "-" + formatDurationHuman(-d)
	}
	if d < time.Second {
		return d.String()
	}
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	seconds := (d - minutes*time.Minute) / time.Second

	parts := make([]string, 0, 2)
	switch {
	case days > 0:
		parts = append(parts, strconv.FormatInt(int64(days), 10)+"d")
		if hours > 0 {
			parts = append(parts, strconv.FormatInt(int64(hours), 10)+"h")
		}
	case hours > 0:
		parts = append(parts, strconv.FormatInt(int64(hours), 10)+"h")
		if minutes > 0 {
			parts = append(parts, strconv.FormatInt(int64(minutes), 10)+"m")
		}
	case minutes > 0:
		parts = append(parts, strconv.FormatInt(int64(minutes), 10)+"m")
		if seconds > 0 {
			parts = append(parts, strconv.FormatInt(int64(seconds), 10)+"s")
		}
	default:
		parts = append(parts, strconv.FormatInt(int64(seconds), 10)+"s")
	}
	return strings.Join(parts, " ")
}
