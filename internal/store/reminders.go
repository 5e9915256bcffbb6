package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"hunt/internal/faults"
)

// ScheduleReminder creates a follow-up reminder for the application. The due
// time must lie strictly after now, which the caller supplies so the check
// and the scheduling decision share one clock reading.
func (s *Store) ScheduleReminder(ctx context.Context, appID int64, dueAt, now time.Time) (*Reminder, error) {
	ctx = ensureContext(ctx)
	if err := s.applicationExists(ctx, appID); err != nil {
		return nil, err
	}
	if !dueAt.After(now) {
		return nil, faults.Wrap(faults.ErrInvalidInput, "store", "schedule reminder",
			fmt.Sprintf("due time %s is not in the future", dueAt.UTC().Format(time.RFC3339)), nil)
	}

	res, err := s.execWithRetry(ctx,
		`INSERT INTO reminders (application_id, due_at, sent, created_at) VALUES (?, ?, 0, ?)`,
		appID, formatTime(dueAt), formatTime(now),
	)
	if err != nil {
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "schedule reminder", "", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "schedule reminder", "last insert id", err)
	}
	return s.GetReminder(ctx, id)
}

// GetReminder fetches a reminder by identifier.
func (s *Store) GetReminder(ctx context.Context, id int64) (*Reminder, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id)
	reminder, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, faults.Wrap(faults.ErrNotFound, "store", "get reminder", fmt.Sprintf("reminder %d", id), nil)
	}
	if err != nil {
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "get reminder", "", err)
	}
	return reminder, nil
}

// DueReminders returns every unsent reminder whose due time is at or before
// now, soonest first, joined with the application it belongs to.
func (s *Store) DueReminders(ctx context.Context, now time.Time) ([]*DueReminder, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.application_id, r.due_at, r.sent, r.created_at, a.owner_id, a.company, a.role
         FROM reminders r
         JOIN applications a ON a.id = r.application_id
         WHERE r.sent = 0 AND r.due_at <= ?
         ORDER BY r.due_at ASC, r.id ASC`,
		formatTime(now),
	)
	if err != nil {
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "due reminders", "", err)
	}
	defer rows.Close()

	var due []*DueReminder
	for rows.Next() {
		reminder, err := scanDueReminder(rows)
		if err != nil {
			return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "due reminders", "scan row", err)
		}
		due = append(due, reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "due reminders", "", err)
	}
	return due, nil
}

// ListReminders returns the owner's reminders joined with their applications,
// soonest due first. Sent reminders are included only when includeSent is set.
func (s *Store) ListReminders(ctx context.Context, ownerID string, includeSent bool) ([]*DueReminder, error) {
	ctx = ensureContext(ctx)
	query := `SELECT r.id, r.application_id, r.due_at, r.sent, r.created_at, a.owner_id, a.company, a.role
        FROM reminders r
        JOIN applications a ON a.id = r.application_id
        WHERE a.owner_id = ?`
	args := []any{strings.TrimSpace(ownerID)}
	if !includeSent {
		query += ` AND r.sent = 0`
	}
	query += ` ORDER BY r.due_at ASC, r.id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "list reminders", "", err)
	}
	defer rows.Close()

	var reminders []*DueReminder
	for rows.Next() {
		reminder, err := scanDueReminder(rows)
		if err != nil {
			return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "list reminders", "scan row", err)
		}
		reminders = append(reminders, reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "list reminders", "", err)
	}
	return reminders, nil
}

// MarkReminderSent flags a reminder as dispatched. Marking an already-sent
// reminder succeeds again; SQLite counts the matched row either way, so only
// an id that never existed reports not found.
func (s *Store) MarkReminderSent(ctx context.Context, id int64) error {
	res, err := s.execWithRetry(ctx, `UPDATE reminders SET sent = 1 WHERE id = ?`, id)
	if err != nil {
		return faults.Wrap(faults.ErrStoreUnavailable, "store", "mark reminder sent", "", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return faults.Wrap(faults.ErrStoreUnavailable, "store", "mark reminder sent", "rows affected", err)
	}
	if affected == 0 {
		return faults.Wrap(faults.ErrNotFound, "store", "mark reminder sent", fmt.Sprintf("reminder %d", id), nil)
	}
	return nil
}

// DeleteReminder removes a reminder. Deleting an unknown id is not an error;
// the bool reports whether a row was deleted.
func (s *Store) DeleteReminder(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return false, faults.Wrap(faults.ErrStoreUnavailable, "store", "delete reminder", "", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, faults.Wrap(faults.ErrStoreUnavailable, "store", "delete reminder", "rows affected", err)
	}
	return affected > 0, nil
}
