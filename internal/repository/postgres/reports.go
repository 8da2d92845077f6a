package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
	"github.com/RaoufAlaadin/MedicaRental/internal/core/port"
	"github.com/RaoufAlaadin/MedicaRental/internal/repository"
)

var reportColumns = []string{
	"id",
	"reporter_id",
	"report_type",
	"target_id",
	"reason",
	"created_at",
}

// ReportRepository implements port.ReportRepository using PostgreSQL.
type ReportRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewReportRepository wires a PostgreSQL-backed report repository.
func NewReportRepository(exec pgExecutor) *ReportRepository {
	return &ReportRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create persists a user-submitted report.
func (r *ReportRepository) Create(ctx context.Context, report domain.Report) error {
	stmt, args, err := r.builder.Insert("rental.reports").
		Columns(reportColumns...).
		Values(
			report.ID,
			report.ReporterID,
			string(report.Type),
			report.TargetID,
			report.Reason,
			report.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert report sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	return nil
}

// GetByID retrieves one report by identifier.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	stmt, args, err := r.builder.
		Select(reportColumns...).
		From("rental.reports").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select report sql: %w", err)
	}

	var (
		report     domain.Report
		reportType string
	)
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&report.ID,
		&report.ReporterID,
		&reportType,
		&report.TargetID,
		&report.Reason,
		&report.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan report: %w", err)
	}
	report.Type = domain.ReportType(reportType)

	return &report, nil
}

// ListByType returns all reports filed against the given surface, newest first.
func (r *ReportRepository) ListByType(ctx context.Context, reportType domain.ReportType) ([]domain.Report, error) {
	stmt, args, err := r.builder.
		Select(reportColumns...).
		From("rental.reports").
		Where(squirrel.Eq{"report_type": string(reportType)}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select reports sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		var (
			report  domain.Report
			rawType string
		)
		if err := rows.Scan(
			&report.ID,
			&report.ReporterID,
			&rawType,
			&report.TargetID,
			&report.Reason,
			&report.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		report.Type = domain.ReportType(rawType)
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}

	return reports, nil
}

// DeleteByID removes a report by identifier.
func (r *ReportRepository) DeleteByID(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("rental.reports").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete report sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.ReportRepository = (*ReportRepository)(nil)
