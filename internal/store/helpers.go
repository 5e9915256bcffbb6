package store

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"hunt/internal/stage"
)

// timeLayout is fixed width so stored timestamps sort lexicographically in
// chronological order. All writes format UTC values with it.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const applicationColumns = "id, owner_id, company, role, season, created_at"

const stageEntryColumns = "id, application_id, stage, occurred_at"

const reminderColumns = "id, application_id, due_at, sent, created_at"

func formatTime(value time.Time) string {
	return value.UTC().Format(timeLayout)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

// foldKey produces the case-insensitive comparison form of user text. Unicode
// case folding keeps lookups stable for non-ASCII company names.
func foldKey(value string) string {
	return cases.Fold().String(strings.TrimSpace(value))
}

func scanApplication(scanner interface{ Scan(dest ...any) error }) (*Application, error) {
	var (
		id         int64
		ownerID    string
		company    string
		role       string
		seasonStr  string
		createdRaw string
	)
	if err := scanner.Scan(&id, &ownerID, &company, &role, &seasonStr, &createdRaw); err != nil {
		return nil, err
	}

	app := &Application{
		ID:      id,
		OwnerID: ownerID,
		Company: company,
		Role:    role,
		Season:  stage.Season(seasonStr),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		app.CreatedAt = created
	}
	return app, nil
}

func scanStageEntry(scanner interface{ Scan(dest ...any) error }) (*StageEntry, error) {
	var (
		id          int64
		appID       int64
		stageStr    string
		occurredRaw string
	)
	if err := scanner.Scan(&id, &appID, &stageStr, &occurredRaw); err != nil {
		return nil, err
	}

	entry := &StageEntry{
		ID:            id,
		ApplicationID: appID,
		Stage:         stage.Stage(stageStr),
	}
	if occurred, err := parseTimeString(occurredRaw); err == nil {
		entry.OccurredAt = occurred
	}
	return entry, nil
}

func scanReminder(scanner interface{ Scan(dest ...any) error }) (*Reminder, error) {
	var (
		id         int64
		appID      int64
		dueRaw     string
		sentInt    int64
		createdRaw string
	)
	if err := scanner.Scan(&id, &appID, &dueRaw, &sentInt, &createdRaw); err != nil {
		return nil, err
	}

	reminder := &Reminder{
		ID:            id,
		ApplicationID: appID,
		Sent:          sentInt != 0,
	}
	if due, err := parseTimeString(dueRaw); err == nil {
		reminder.DueAt = due
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		reminder.CreatedAt = created
	}
	return reminder, nil
}

func scanDueReminder(scanner interface{ Scan(dest ...any) error }) (*DueReminder, error) {
	var (
		id         int64
		appID      int64
		dueRaw     string
		sentInt    int64
		createdRaw string
		ownerID    string
		company    string
		role       string
	)
	if err := scanner.Scan(&id, &appID, &dueRaw, &sentInt, &createdRaw, &ownerID, &company, &role); err != nil {
		return nil, err
	}

	reminder := &DueReminder{
		Reminder: Reminder{
			ID:            id,
			ApplicationID: appID,
			Sent:          sentInt != 0,
		},
		OwnerID: ownerID,
		Company: company,
		Role:    role,
	}
	if due, err := parseTimeString(dueRaw); err == nil {
		reminder.DueAt = due
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		reminder.CreatedAt = created
	}
	return reminder, nil
}

func scanApplicationStatus(scanner interface{ Scan(dest ...any) error }) (*ApplicationStatus, error) {
	var (
		id         int64
		ownerID    string
		company    string
		role       string
		seasonStr  string
		createdRaw string
		stageStr   string
		stageRaw   string
	)
	if err := scanner.Scan(&id, &ownerID, &company, &role, &seasonStr, &createdRaw, &stageStr, &stageRaw); err != nil {
		return nil, err
	}

	status := &ApplicationStatus{
		Application: Application{
			ID:      id,
			OwnerID: ownerID,
			Company: company,
			Role:    role,
			Season:  stage.Season(seasonStr),
		},
		Stage: stage.Stage(stageStr),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		status.CreatedAt = created
	}
	if stageAt, err := parseTimeString(stageRaw); err == nil {
		status.StageAt = stageAt
	}
	return status, nil
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
