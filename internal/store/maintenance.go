package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"hunt/internal/faults"
	"hunt/internal/stage"
)

// Stats returns a count of the owner's applications grouped by current stage.
// An empty owner counts across all owners.
func (s *Store) Stats(ctx context.Context, ownerID string) (map[stage.Stage]int, error) {
	ctx = ensureContext(ctx)
	ownerID = strings.TrimSpace(ownerID)
	query := `SELECT se.stage, COUNT(1) FROM applications a` + latestEntryJoin
	var args []any
	if ownerID != "" {
		query += ` WHERE a.owner_id = ?`
		args = append(args, ownerID)
	}
	query += ` GROUP BY se.stage`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "stats", "", err)
	}
	defer rows.Close()

	stats := make(map[stage.Stage]int)
	for rows.Next() {
		var stageStr string
		var count int
		if err := rows.Scan(&stageStr, &count); err != nil {
			return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "stats", "scan row", err)
		}
		stats[stage.Stage(stageStr)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, faults.Wrap(faults.ErrStoreUnavailable, "store", "stats", "", err)
	}
	return stats, nil
}

// CheckHealth returns diagnostic information about the tracker database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{
		DBPath:        s.path,
		SchemaVersion: "current",
	}

	if s.path == "" {
		return health, errors.New("tracker database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			health.DatabaseExists = false
			return health, nil
		}
		return health, fmt.Errorf("stat tracker database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("tracker database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	if s.db == nil {
		return health, errors.New("tracker database connection unavailable")
	}

	connCtx, cancel := context.WithTimeout(ensureContext(ctx), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping tracker database: %w", err)
	}
	health.DatabaseReadable = true

	var tableName string
	row := s.db.QueryRowContext(connCtx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'applications'")
	if err := row.Scan(&tableName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			health.TableExists = false
		} else {
			health.Error = err.Error()
			return health, fmt.Errorf("query table info: %w", err)
		}
	} else {
		health.TableExists = true
	}

	if health.TableExists {
		colsRows, err := s.db.QueryContext(connCtx, "PRAGMA table_info(applications)")
		if err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("table info: %w", err)
		}
		defer colsRows.Close()

		var columns []string
		for colsRows.Next() {
			var (
				cid     int
				name    string
				typeStr string
				notNull int
				dflt    any
				pk      int
			)
			if err := colsRows.Scan(&cid, &name, &typeStr, &notNull, &dflt, &pk); err != nil {
				health.Error = err.Error()
				return health, fmt.Errorf("scan table info: %w", err)
			}
			columns = append(columns, name)
		}
		if err := colsRows.Err(); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("iterate table info: %w", err)
		}
		health.ColumnsPresent = append(health.ColumnsPresent, columns...)

		expected := []string{
			"id",
			"owner_id",
			"company",
			"role",
			"season",
			"company_fold",
			"role_fold",
			"created_at",
		}
		missingMap := make(map[string]struct{}, len(expected))
		for _, col := range expected {
			missingMap[col] = struct{}{}
		}
		for _, col := range columns {
			delete(missingMap, col)
		}
		for col := range missingMap {
			health.MissingColumns = append(health.MissingColumns, col)
		}

		row = s.db.QueryRowContext(connCtx, "SELECT COUNT(*) FROM applications")
		if err := row.Scan(&health.TotalApplications); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("count applications: %w", err)
		}
	}

	row = s.db.QueryRowContext(connCtx, "PRAGMA integrity_check")
	var integrityResult string
	if err := row.Scan(&integrityResult); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrityResult, "ok")

	return health, nil
}
