package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
	"github.com/RaoufAlaadin/MedicaRental/internal/core/port"
	"github.com/RaoufAlaadin/MedicaRental/internal/repository"
)

var (
	// ErrReportNotFound indicates the referenced report does not exist.
	ErrReportNotFound = errors.New("report not found")
	// ErrInvalidReportType indicates an unrecognized report type.
	ErrInvalidReportType = errors.New("invalid report type")
)

// ReportInput carries the fields of a new report.
type ReportInput struct {
	ReporterID string
	Type       domain.ReportType
	TargetID   string
	Reason     string
}

// ReportService manages user-submitted reports for moderation review.
type ReportService struct {
	reports port.ReportRepository
	now     func() time.Time
}

// NewReportService constructs a ReportService instance.
func NewReportService(reports port.ReportRepository) *ReportService {
	return &ReportService{reports: reports, now: time.Now}
}

// WithClock overrides the time source. Intended for tests.
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// GetChatReports lists all reports filed against chats.
func (s *ReportService) GetChatReports(ctx context.Context) ([]domain.Report, error) {
	return s.listByType(ctx, domain.ReportTypeChat)
}

// GetReviewReports lists all reports filed against reviews.
func (s *ReportService) GetReviewReports(ctx context.Context) ([]domain.Report, error) {
	return s.listByType(ctx, domain.ReportTypeReview)
}

// GetItemReports lists all reports filed against items.
func (s *ReportService) GetItemReports(ctx context.Context) ([]domain.Report, error) {
	return s.listByType(ctx, domain.ReportTypeItem)
}

// GetByID returns one report.
func (s *ReportService) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("load report: %w", err)
	}
	return report, nil
}

// Insert files a new report and returns it with its assigned id.
func (s *ReportService) Insert(ctx context.Context, input ReportInput) (*domain.Report, error) {
	switch input.Type {
	case domain.ReportTypeChat, domain.ReportTypeReview, domain.ReportTypeItem:
	default:
		return nil, ErrInvalidReportType
	}

	report := domain.Report{
		ID:         uuid.NewString(),
		ReporterID: input.ReporterID,
		Type:       input.Type,
		TargetID:   input.TargetID,
		Reason:     input.Reason,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}

	return &report, nil
}

// Delete removes a report.
func (s *ReportService) Delete(ctx context.Context, id string) error {
	if err := s.reports.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReportNotFound
		}
		return fmt.Errorf("delete report: %w", err)
	}
	return nil
}

func (s *ReportService) listByType(ctx context.Context, reportType domain.ReportType) ([]domain.Report, error) {
	reports, err := s.reports.ListByType(ctx, reportType)
	if err != nil {
		return nil, fmt.Errorf("load %s reports: %w", reportType, err)
	}
	return reports, nil
}
