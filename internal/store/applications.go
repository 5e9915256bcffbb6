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

var errDuplicateApplication = errors.New("duplicate application")

// latestEntryJoin attaches each application's most recent ledger entry.
// Ties on occurred_at resolve to the higher entry id.
const latestEntryJoin = ` JOIN stage_entries se ON se.id = (
        SELECT se2.id FROM stage_entries se2
        WHERE se2.application_id = a.id
        ORDER BY se2.occurred_at DESC, se2.id DESC
        LIMIT 1
    )`

// CreateApplication registers a new application and its initial Applied entry
// in a single transaction. Duplicate (owner, company, role) combinations are
// rejected regardless of letter case.
func (s *Store) CreateApplication(ctx context.Context, ownerID, company, role string, season stage.Season) (*Application, error) {
	ctx = ensureContext(ctx)
	ownerID = strings.TrimSpace(ownerID)
	company = strings.TrimSpace(company)
	role = strings.TrimSpace(role)
	if ownerID == "" {
		return nil, faults.Wrap(faults.ErrInvalidInput, "store", "create application", "owner is required", nil)
	}
	if company == "" {
		return nil, faults.Wrap(faults.ErrInvalidInput, "store", "create application", "company is required", nil)
	}
	if role == "" {
		return nil, faults.Wrap(faults.ErrInvalidInput, "store", "create application", "role is required", nil)
	}
	if !season.Valid() {
		return nil, faults.Wrap(faults.ErrInvalidInput, "store", "create application", fmt.Sprintf("unknown season %q", string(season)), nil)
	}

	timestamp := formatTime(time.Now())
	companyFold := foldKey(company)
	roleFold := foldKey(role)

	var id int64
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var existing int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM applications WHERE owner_id = ? AND company_fold = ? AND role_fold = ?`,
			ownerID, companyFold, roleFold,
		).Scan(&existing); err != nil {
			return fmt.Errorf("check duplicate: %w", err)
		}
		if existing > 0 {
			return errDuplicateApplication
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO applications (owner_id, company, role, season, company_fold, role_fold, created_at)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ownerID, company, role, string(season), companyFold, roleFold, timestamp,
		)
		if err != nil {
			return fmt.Errorf("insert application: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}

		// The Applied entry lands in the same transaction so an application
		// can never exist without a current stage.
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO stage_entries (application_id, stage, occurred_at) VALUES (?, ?, ?)`,
			id, string(stage.Applied), timestamp,
		); err != nil {
			return fmt.Errorf("insert initial stage: %w", err)
		}
		return tx.Commit()
	})
	switch {
	case errors.Is(err, errDuplicateApplication) || isSQLiteConstraint(err):
		return nil, faults.Wrap(faults.ErrInvalidInput, "store", "create application",
			fmt.Sprintf("%s / %s is already tracked for %s", company, role, ownerID), nil)
	case err != nil:
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "create application", "", err)
	}

	return s.GetApplication(ctx, id)
}

// GetApplication fetches an application by identifier.
func (s *Store) GetApplication(ctx context.Context, id int64) (*Application, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id)
	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, faults.Wrap(faults.ErrNotFound, "store", "get application", fmt.Sprintf("application %d", id), nil)
	}
	if err != nil {
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "get application", "", err)
	}
	return app, nil
}

// FindByCompany returns the owner's most recently created application whose
// company matches ignoring case. Lookups never match substrings.
func (s *Store) FindByCompany(ctx context.Context, ownerID, company string) (*Application, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications
         WHERE owner_id = ? AND company_fold = ?
         ORDER BY created_at DESC, id DESC LIMIT 1`,
		strings.TrimSpace(ownerID), foldKey(company),
	)
	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, faults.Wrap(faults.ErrNotFound, "store", "find by company", fmt.Sprintf("no application for %q", strings.TrimSpace(company)), nil)
	}
	if err != nil {
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "find by company", "", err)
	}
	return app, nil
}

// ListApplications returns the owner's applications paired with their current
// stage, newest first. The filter narrows by stage, season, and page window.
func (s *Store) ListApplications(ctx context.Context, ownerID string, filter ApplicationFilter) ([]*ApplicationStatus, error) {
	ctx = ensureContext(ctx)
	query := `SELECT a.id, a.owner_id, a.company, a.role, a.season, a.created_at, se.stage, se.occurred_at
        FROM applications a` + latestEntryJoin + ` WHERE a.owner_id = ?`
	args := []any{strings.TrimSpace(ownerID)}
	if filter.Stage != "" {
		query += ` AND se.stage = ?`
		args = append(args, string(filter.Stage))
	}
	if filter.Season != "" {
		query += ` AND a.season = ?`
		args = append(args, string(filter.Season))
	}
	query += ` ORDER BY a.created_at DESC, a.id DESC`
	switch {
	case filter.Limit > 0:
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, max(filter.Offset, 0))
	case filter.Offset > 0:
		query += ` LIMIT -1 OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "list applications", "", err)
	}
	defer rows.Close()

	var statuses []*ApplicationStatus
	for rows.Next() {
		status, err := scanApplicationStatus(rows)
		if err != nil {
			return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "list applications", "scan row", err)
		}
		statuses = append(statuses, status)
	}
	if err := rows.Err(); err != nil {
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "list applications", "", err)
	}
	return statuses, nil
}

// CountApplications returns the total matching a filter, ignoring the page window.
func (s *Store) CountApplications(ctx context.Context, ownerID string, filter ApplicationFilter) (int, error) {
	ctx = ensureContext(ctx)
	query := `SELECT COUNT(1) FROM applications a` + latestEntryJoin + ` WHERE a.owner_id = ?`
	args := []any{strings.TrimSpace(ownerID)}
	if filter.Stage != "" {
		query += ` AND se.stage = ?`
		args = append(args, string(filter.Stage))
	}
	if filter.Season != "" {
		query += ` AND a.season = ?`
		args = append(args, string(filter.Season))
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, faults.Wrap(faults.ErrStoreUnavailable, "store", "count applications", "", err)
	}
	return count, nil
}

// RemoveApplication deletes an application. Stage entries and reminders go
// with it through the foreign key cascade. Removing an unknown id is not an
// error; the bool reports whether a row was deleted.
func (s *Store) RemoveApplication(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM applications WHERE id = ?`, id)
	if err != nil {
		return false, faults.Wrap(faults.ErrStoreUnavailable, "store", "remove application", "", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, faults.Wrap(faults.ErrStoreUnavailable, "store", "remove application", "rows affected", err)
	}
	return affected > 0, nil
}

// ActiveCompanies lists the distinct companies the owner still has an open
// relationship with, meaning the current stage is anything but Rejected.
func (s *Store) ActiveCompanies(ctx context.Context, ownerID string) ([]string, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT MIN(a.company) FROM applications a`+latestEntryJoin+`
         WHERE a.owner_id = ? AND se.stage != ?
         GROUP BY a.company_fold
         ORDER BY a.company_fold`,
		strings.TrimSpace(ownerID), string(stage.Rejected),
	)
	if err != nil {
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "active companies", "", err)
	}
	defer rows.Close()

	var companies []string
	for rows.Next() {
		var company string
		if err := rows.Scan(&company); err != nil {
			return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "active companies", "scan row", err)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "active companies", "", err)
	}
	return companies, nil
}

func (s *Store) applicationExists(ctx context.Context, id int64) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM applications WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return faults.Wrap(faults.ErrNotFound, "store", "lookup application", fmt.Sprintf("application %d", id), nil)
	}
	if err != nil {
		return faults.Wrap(faults.ErrStoreUnavailable, "store", "lookup application", "", err)
	}
	return nil
}
