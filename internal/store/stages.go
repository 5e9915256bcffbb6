package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"hunt/internal/faults"
	"hunt/internal/stage"
)

// RecordStage appends a ledger entry for the application. A nil occurredAt
// means "now"; when the newest existing entry is already at or past the
// current clock the timestamp is bumped to one second after it so defaulted
// entries never land behind the ledger head. Explicit timestamps are stored
// exactly as given, including backdates.
func (s *Store) RecordStage(ctx context.Context, appID int64, st stage.Stage, occurredAt *time.Time) (*StageEntry, error) {
	ctx = ensureContext(ctx)
	if !st.Valid() {
		return nil, faults.Wrap(faults.ErrInvalidInput, "store", "record stage", fmt.Sprintf("unknown stage %q", string(st)), nil)
	}
	if err := s.applicationExists(ctx, appID); err != nil {
		return nil, err
	}

	var ts time.Time
	if occurredAt != nil {
		ts = occurredAt.UTC()
	} else {
		now := time.Now().UTC()
		latest, ok, err := s.latestEntryTime(ctx, appID)
		if err != nil {
			return nil, err
		}
		if ok && !latest.Before(now) {
			now = latest.Add(time.Second)
		}
		ts = now
	}

	res, err := s.execWithRetry(ctx,
		`INSERT INTO stage_entries (application_id, stage, occurred_at) VALUES (?, ?, ?)`,
		appID, string(st), formatTime(ts),
	)
	if err != nil {
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "record stage", "", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "record stage", "last insert id", err)
	}
	return s.getStageEntry(ctx, id)
}

// CurrentStage returns the application's newest ledger entry. Entries sharing
// an occurred_at resolve to the one recorded later.
func (s *Store) CurrentStage(ctx context.Context, appID int64) (*StageEntry, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+stageEntryColumns+` FROM stage_entries
         WHERE application_id = ?
         ORDER BY occurred_at DESC, id DESC LIMIT 1`,
		appID,
	)
	entry, err := scanStageEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, faults.Wrap(faults.ErrNotFound, "store", "current stage", fmt.Sprintf("application %d has no stage history", appID), nil)
	}
	if err != nil {
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "current stage", "", err)
	}
	return entry, nil
}

// StageHistory returns every ledger entry for the application in
// chronological order.
func (s *Store) StageHistory(ctx context.Context, appID int64) ([]*StageEntry, error) {
	ctx = ensureContext(ctx)
	if err := s.applicationExists(ctx, appID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+stageEntryColumns+` FROM stage_entries
         WHERE application_id = ?
         ORDER BY occurred_at ASC, id ASC`,
		appID,
	)
	if err != nil {
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "stage history", "", err)
	}
	defer rows.Close()

	var entries []*StageEntry
	for rows.Next() {
		entry, err := scanStageEntry(rows)
		if err != nil {
			return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "stage history", "scan row", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "stage history", "", err)
	}
	return entries, nil
}

// StaleApplications returns the owner's applications whose current stage was
// recorded strictly before the cutoff, oldest first. Stages in excluded never
// count as stale. An entry exactly at the cutoff is not stale.
func (s *Store) StaleApplications(ctx context.Context, ownerID string, cutoff time.Time, excluded []stage.Stage) ([]*ApplicationStatus, error) {
	ctx = ensureContext(ctx)
	query := `SELECT a.id, a.owner_id, a.company, a.role, a.season, a.created_at, se.stage, se.occurred_at
        FROM applications a` + latestEntryJoin + `
        WHERE a.owner_id = ? AND se.occurred_at < ?`
	args := []any{strings.TrimSpace(ownerID), formatTime(cutoff)}
	if len(excluded) > 0 {
		query += ` AND se.stage NOT IN (` + makePlaceholders(len(excluded)) + `)`
		for _, st := range excluded {
			args = append(args, string(st))
		}
	}
	query += ` ORDER BY se.occurred_at ASC, a.id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "stale applications", "", err)
	}
	defer rows.Close()

	var statuses []*ApplicationStatus
	for rows.Next() {
		status, err := scanApplicationStatus(rows)
		if err != nil {
			return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "stale applications", "scan row", err)
		}
		statuses = append(statuses, status)
	}
	if err := rows.Err(); err != nil {
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "stale applications", "", err)
	}
	return statuses, nil
}

func (s *Store) latestEntryTime(ctx context.Context, appID int64) (time.Time, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT occurred_at FROM stage_entries
         WHERE application_id = ?
         ORDER BY occurred_at DESC, id DESC LIMIT 1`,
		appID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, faults.Wrap(faults.ErrStoreUnavailable, "store", "record stage", "read latest entry", err)
	}
	ts, err := parseTimeString(raw)
	if err != nil {
		return time.Time{}, false, faults.Wrap(faults.ErrStoreUnavailable, "store", "record stage", "parse latest entry", err)
	}
	return ts, true, nil
}

func (s *Store) getStageEntry(ctx context.Context, id int64) (*StageEntry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+stageEntryColumns+` FROM stage_entries WHERE id = ?`, id)
	entry, err := scanStageEntry(row)
	if err != nil {
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "get stage entry", "", err)
	}
	return entry, nil
}
