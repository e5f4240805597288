package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sales-inventory/internal/domain"

	"github.com/google/uuid"
)

// ReportRepository stores generated reports, one row per key.
type ReportRepository interface {
	Upsert(ctx context.Context, report *domain.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	List(ctx context.Context) ([]*domain.Report, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const reportColumns = `id, key, type, name, data, created_at, updated_at`

type reportRepository struct {
	db DBTX
}

// NewReportRepository creates a new instance of ReportRepository
func NewReportRepository(db DBTX) ReportRepository {
	return &reportRepository{db: db}
}

func scanReport(row rowScanner) (*domain.Report, error) {
	report := &domain.Report{}
	var data []byte
	err := row.Scan(
		&report.ID,
		&report.Key,
		&report.Type,
		&report.Name,
		&data,
		&report.CreatedAt,
		&report.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	report.Data = data
	return report, nil
}

// Upsert inserts the report or overwrites the existing row with the same
// key. On return report holds the stored id and created_at.
func (r *reportRepository) Upsert(ctx context.Context, report *domain.Report) error {
	query := `
		INSERT INTO reports (id, key, type, name, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (key) DO UPDATE
		SET name = EXCLUDED.name, data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
		RETURNING ` + reportColumns

	stored, err := scanReport(r.db.QueryRowContext(
		ctx,
		query,
		report.ID,
		report.Key,
		report.Type,
		report.Name,
		[]byte(report.Data),
		report.CreatedAt,
		report.UpdatedAt,
	))
	if err != nil {
		return fmt.Errorf("failed to upsert report: %w", err)
	}

	*report = *stored
	return nil
}

// FindByID retrieves a report by ID
func (r *reportRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	report, err := scanReport(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFound("report", id.String())
		}
		return nil, fmt.Errorf("failed to find report by ID: %w", err)
	}
	return report, nil
}

// List retrieves every report, most recently generated first
func (r *reportRepository) List(ctx context.Context) ([]*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports ORDER BY updated_at DESC, key`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := []*domain.Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}

	return reports, nil
}

// Delete removes a report by ID
func (r *reportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewNotFound("report", id.String())
	}

	return nil
}
