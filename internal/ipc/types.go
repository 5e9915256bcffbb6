package ipc

import "time"

// StartRequest triggers daemon startup.
type StartRequest struct{}

// StartResponse indicates whether the daemon was started.
type StartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// StopRequest stops the daemon.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// DispatcherStatus mirrors the reminder dispatcher snapshot for IPC callers.
type DispatcherStatus struct {
	Running    bool      `json:"running"`
	State      string    `json:"state"`
	LastTick   time.Time `json:"last_tick"`
	Dispatched int64     `json:"dispatched"`
	Failed     int64     `json:"failed"`
	LastError  string    `json:"last_error"`
}

// StatusResponse represents combined daemon and dispatcher status.
type StatusResponse struct {
	Running          bool             `json:"running"`
	Dispatcher       DispatcherStatus `json:"dispatcher"`
	ApplicationStats map[string]int   `json:"application_stats"`
	DBPath           string           `json:"db_path"`
	LockPath         string           `json:"lock_path"`
	PID              int              `json:"pid"`
}

// ApplicationSummary is the wire representation of an application and its
// current stage.
type ApplicationSummary struct {
	ID        int64     `json:"id"`
	Owner     string    `json:"owner"`
	Company   string    `json:"company"`
	Role      string    `json:"role"`
	Season    string    `json:"season"`
	Stage     string    `json:"stage"`
	StageAt   time.Time `json:"stage_at"`
	CreatedAt time.Time `json:"created_at"`
}

// StageEntrySummary is one ledger entry on the wire.
type StageEntrySummary struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"application_id"`
	Stage         string    `json:"stage"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// ReminderSummary is a reminder joined with its application details.
type ReminderSummary struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"application_id"`
	Owner         string    `json:"owner"`
	Company       string    `json:"company"`
	Role          string    `json:"role"`
	DueAt         time.Time `json:"due_at"`
	Sent          bool      `json:"sent"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateApplicationRequest tracks a new application.
type CreateApplicationRequest struct {
	Owner   string `json:"owner"`
	Company string `json:"company"`
	Role    string `json:"role"`
	Season  string `json:"season"`
}

// CreateApplicationResponse returns the created application.
type CreateApplicationResponse struct {
	Application ApplicationSummary `json:"application"`
}

// GetApplicationRequest fetches one application by id, or by owner and
// company when ID is zero.
type GetApplicationRequest struct {
	ID      int64  `json:"id"`
	Owner   string `json:"owner"`
	Company string `json:"company"`
}

// GetApplicationResponse returns the matched application.
type GetApplicationResponse struct {
	Application ApplicationSummary `json:"application"`
}

// ListApplicationsRequest filters application listings. Empty strings match
// everything; Limit zero means no window.
type ListApplicationsRequest struct {
	Owner  string `json:"owner"`
	Stage  string `json:"stage"`
	Season string `json:"season"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// ListApplicationsResponse contains the page and the unwindowed total.
type ListApplicationsResponse struct {
	Applications []ApplicationSummary `json:"applications"`
	Total        int                  `json:"total"`
}

// RemoveApplicationRequest deletes an application and its history.
type RemoveApplicationRequest struct {
	ID int64 `json:"id"`
}

// RemoveApplicationResponse reports whether a row was removed.
type RemoveApplicationResponse struct {
	Removed bool `json:"removed"`
}

// RecordStageRequest appends a ledger entry. A nil OccurredAt defaults the
// timestamp on the daemon side.
type RecordStageRequest struct {
	ID         int64      `json:"id"`
	Stage      string     `json:"stage"`
	OccurredAt *time.Time `json:"occurred_at"`
}

// RecordStageResponse returns the stored entry.
type RecordStageResponse struct {
	Entry StageEntrySummary `json:"entry"`
}

// StageHistoryRequest fetches an application's full ledger.
type StageHistoryRequest struct {
	ID int64 `json:"id"`
}

// StageHistoryResponse contains the ledger in chronological order.
type StageHistoryResponse struct {
	Entries []StageEntrySummary `json:"entries"`
}

// ScheduleReminderRequest creates a follow-up reminder.
type ScheduleReminderRequest struct {
	ID    int64     `json:"id"`
	DueAt time.Time `json:"due_at"`
}

// ScheduleReminderResponse returns the stored reminder.
type ScheduleReminderResponse struct {
	Reminder ReminderSummary `json:"reminder"`
}

// ListRemindersRequest lists reminders for an owner. IncludeSent widens the
// listing past pending reminders.
type ListRemindersRequest struct {
	Owner       string `json:"owner"`
	IncludeSent bool   `json:"include_sent"`
}

// ListRemindersResponse contains reminders ordered by due time.
type ListRemindersResponse struct {
	Reminders []ReminderSummary `json:"reminders"`
}

// MarkReminderSentRequest marks a reminder delivered.
type MarkReminderSentRequest struct {
	ID int64 `json:"id"`
}

// MarkReminderSentResponse confirms the mark.
type MarkReminderSentResponse struct {
	Marked bool `json:"marked"`
}

// DeleteReminderRequest removes a reminder.
type DeleteReminderRequest struct {
	ID int64 `json:"id"`
}

// DeleteReminderResponse reports whether a row was removed.
type DeleteReminderResponse struct {
	Deleted bool `json:"deleted"`
}

// StaleApplicationsRequest lists applications without recent activity.
// ThresholdDays zero uses the configured staleness threshold.
type StaleApplicationsRequest struct {
	Owner         string `json:"owner"`
	ThresholdDays int    `json:"threshold_days"`
}

// StaleApplicationsResponse contains stale applications, oldest first.
type StaleApplicationsResponse struct {
	Applications []ApplicationSummary `json:"applications"`
}

// StatsRequest fetches per-stage application counts. Empty owner means all
// owners.
type StatsRequest struct {
	Owner string `json:"owner"`
}

// StatsResponse maps stage labels to application counts.
type StatsResponse struct {
	Counts map[string]int `json:"counts"`
}

// ActiveCompaniesRequest lists companies with at least one non-rejected
// application.
type ActiveCompaniesRequest struct {
	Owner string `json:"owner"`
}

// ActiveCompaniesResponse contains company names in fold order.
type ActiveCompaniesResponse struct {
	Companies []string `json:"companies"`
}

// DatabaseHealthRequest fetches detailed database diagnostics.
type DatabaseHealthRequest struct{}

// DatabaseHealthResponse reports database health information.
type DatabaseHealthResponse struct {
	DBPath            string   `json:"db_path"`
	DatabaseExists    bool     `json:"database_exists"`
	DatabaseReadable  bool     `json:"database_readable"`
	SchemaVersion     string   `json:"schema_version"`
	TableExists       bool     `json:"table_exists"`
	ColumnsPresent    []string `json:"columns_present"`
	MissingColumns    []string `json:"missing_columns"`
	IntegrityCheck    bool     `json:"integrity_check"`
	TotalApplications int      `json:"total_applications"`
	Error             string   `json:"error"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}

// LogTailRequest fetches log lines based on offset and follow semantics.
type LogTailRequest struct {
	Offset     int64 `json:"offset"`
	Limit      int   `json:"limit"`
	Follow     bool  `json:"follow"`
	WaitMillis int   `json:"wait_millis"`
}

// LogTailResponse returns log lines and the next offset.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}
