package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"hunt/internal/ipc"
	"hunt/internal/stage"
)

func buildApplicationRows(apps []ipc.ApplicationSummary) [][]string {
	rows := make([][]string, 0, len(apps))
	for _, app := range apps {
		rows = append(rows, []string{
			fmt.Sprintf("%d", app.ID),
			app.Company,
			app.Role,
			app.Season,
			app.Stage,
			formatDisplayTime(app.StageAt),
		})
	}
	return rows
}

func buildStaleRows(apps []ipc.ApplicationSummary, now time.Time) [][]string {
	rows := make([][]string, 0, len(apps))
	for _, app := range apps {
		rows = append(rows, []string{
			fmt.Sprintf("%d", app.ID),
			app.Company,
			app.Role,
			app.Stage,
			formatDisplayTime(app.StageAt),
			formatIdle(app.StageAt, now),
		})
	}
	return rows
}

func buildReminderRows(reminders []ipc.ReminderSummary) [][]string {
	rows := make([][]string, 0, len(reminders))
	for _, reminder := range reminders {
		rows = append(rows, []string{
			fmt.Sprintf("%d", reminder.ID),
			fmt.Sprintf("%d", reminder.ApplicationID),
			reminder.Company,
			reminder.Role,
			formatDisplayTime(reminder.DueAt),
			yesNo(reminder.Sent),
		})
	}
	return rows
}

// buildStatsRows orders counts by pipeline position rather than
// alphabetically; unknown labels sort after the known stages.
func buildStatsRows(counts map[string]int) [][]string {
	if len(counts) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(counts))
	rows := make([][]string, 0, len(counts))
	for _, st := range stage.All() {
		label := st.String()
		if count, ok := counts[label]; ok {
			rows = append(rows, []string{label, fmt.Sprintf("%d", count)})
			seen[label] = true
		}
	}
	extras := make([]string, 0)
	for label := range counts {
		if !seen[label] {
			extras = append(extras, label)
		}
	}
	sort.Strings(extras)
	for _, label := range extras {
		rows = append(rows, []string{label, fmt.Sprintf("%d", counts[label])})
	}
	return rows
}

func buildHistoryRows(entries []ipc.StageEntrySummary) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			formatDisplayTime(entry.OccurredAt),
			entry.Stage,
		})
	}
	return rows
}

func formatDisplayTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format("2006-01-02 15:04")
}

// formatIdle renders the time since the last stage entry in whole days,
// falling back to hours for anything under a day.
func formatIdle(since time.Time, now time.Time) string {
	if since.IsZero() {
		return "-"
	}
	idle := now.Sub(since)
	if idle < 0 {
		idle = 0
	}
	if idle < 24*time.Hour {
		return fmt.Sprintf("%dh", int(idle.Hours()))
	}
	return fmt.Sprintf("%dd", int(idle.Hours()/24))
}

func formatApplicationLabel(app ipc.ApplicationSummary) string {
	label := strings.TrimSpace(app.Company)
	if role := strings.TrimSpace(app.Role); role != "" {
		label = fmt.Sprintf("%s / %s", label, role)
	}
	return label
}
