package store

import (
	"time"

	"hunt/internal/stage"
)

// Application represents a tracked job application.
type Application struct {
	ID        int64
	OwnerID   string
	Company   string
	Role      string
	Season    stage.Season
	CreatedAt time.Time
}

// StageEntry is one append-only record in an application's stage ledger.
type StageEntry struct {
	ID            int64
	ApplicationID int64
	Stage         stage.Stage
	OccurredAt    time.Time
}

// Reminder is a scheduled follow-up tied to an application.
type Reminder struct {
	ID            int64
	ApplicationID int64
	DueAt         time.Time
	Sent          bool
	CreatedAt     time.Time
}

// DueReminder joins a reminder with the application details needed to
// compose a notification.
type DueReminder struct {
	Reminder
	OwnerID string
	Company string
	Role    string
}

// ApplicationStatus pairs an application with its latest ledger entry.
type ApplicationStatus struct {
	Application
	Stage   stage.Stage
	StageAt time.Time
}

// ApplicationFilter narrows application listings. Zero values match everything.
type ApplicationFilter struct {
	Stage  stage.Stage
	Season stage.Season
	Limit  int
	Offset int
}

// DatabaseHealth captures diagnostic information about the tracker database.
type DatabaseHealth struct {
	DBPath            string
	DatabaseExists    bool
	DatabaseReadable  bool
	SchemaVersion     string
	TableExists       bool
	ColumnsPresent    []string
	MissingColumns    []string
	IntegrityCheck    bool
	TotalApplications int
	Error             string
}
