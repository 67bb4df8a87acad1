package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/subtally/subtally/internal/model"
)

// ImportRecord is one completed statement import.
type ImportRecord struct {
	CreatedAt      time.Time
	JobID          string
	FileName       string
	Currency       string
	ID             int64
	ImportedCount  int
	SkippedCount   int
	DuplicateCount int
}

// RecordImport stores the outcome of a confirmed import.
func (s *SQLiteStorage) RecordImport(ctx context.Context, jobID, fileName, currency string, result model.ImportResult) (int64, error) {
	if jobID == "" {
		return 0, fmt.Errorf("jobID cannot be empty")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO imports (job_id, file_name, currency, imported_count, skipped_count, duplicate_count)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		jobID, fileName, currency, result.ImportedCount, result.SkippedCount, result.DuplicateCount)
	if err != nil {
		return 0, fmt.Errorf("failed to record import: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import id: %w", err)
	}
	return id, nil
}

// ListImports returns the most recent imports, newest first.
func (s *SQLiteStorage) ListImports(ctx context.Context, limit int) ([]ImportRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, job_id, file_name, currency, imported_count, skipped_count, duplicate_count, created_at
		 FROM imports
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []ImportRecord
	for rows.Next() {
		var r ImportRecord
		if err := rows.Scan(&r.ID, &r.JobID, &r.FileName, &r.Currency,
			&r.ImportedCount, &r.SkippedCount, &r.DuplicateCount, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate import records: %w", err)
	}

	return records, nil
}
