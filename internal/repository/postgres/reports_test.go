package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
	"github.com/RaoufAlaadin/MedicaRental/internal/repository"
)

func TestReportRepository_CreateAndGet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewReportRepository(mock)

	createdAt := time.Now().UTC()
	report := domain.Report{
		ID:         "report-1",
		ReporterID: "client-1",
		Type:       domain.ReportTypeItem,
		TargetID:   "item-1",
		Reason:     "misleading listing photos",
		CreatedAt:  createdAt,
	}

	mock.ExpectExec(`INSERT INTO rental\.reports`).
		WithArgs(report.ID, report.ReporterID, "item", report.TargetID, report.Reason, report.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), report); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	rows := pgxmock.NewRows([]string{
		"id", "reporter_id", "report_type", "target_id", "reason", "created_at",
	}).AddRow(report.ID, report.ReporterID, "item", report.TargetID, report.Reason, createdAt)

	mock.ExpectQuery(`SELECT .*FROM rental\.reports`).
		WithArgs("report-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "report-1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.Type != domain.ReportTypeItem {
		t.Fatalf("expected item report, got %s", got.Type)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReportRepository_ListByType(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewReportRepository(mock)

	createdAt := time.Now().UTC()

	rows := pgxmock.NewRows([]string{
		"id", "reporter_id", "report_type", "target_id", "reason", "created_at",
	}).
		AddRow("report-1", "client-1", "chat", "seller-1", "harassment", createdAt).
		AddRow("report-2", "client-2", "chat", "seller-2", "spam", createdAt.Add(-time.Hour))

	mock.ExpectQuery(`SELECT .*FROM rental\.reports`).
		WithArgs("chat").
		WillReturnRows(rows)

	reports, err := repo.ListByType(context.Background(), domain.ReportTypeChat)
	if err != nil {
		t.Fatalf("ListByType returned error: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].Type != domain.ReportTypeChat {
		t.Fatalf("expected chat report, got %s", reports[0].Type)
	}
}

func TestReportRepository_DeleteByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewReportRepository(mock)

	mock.ExpectExec(`DELETE FROM rental\.reports`).
		WithArgs("report-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	if err := repo.DeleteByID(context.Background(), "report-1"); err != nil {
		t.Fatalf("DeleteByID returned error: %v", err)
	}

	mock.ExpectExec(`DELETE FROM rental\.reports`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.DeleteByID(context.Background(), "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
