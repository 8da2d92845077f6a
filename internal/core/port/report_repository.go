package port

import (
	"context"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
)

// ReportRepository provides access to user-submitted reports.
type ReportRepository interface {
	Create(ctx context.Context, report domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	ListByType(ctx context.Context, reportType domain.ReportType) ([]domain.Report, error)
	// DeleteByID removes a report, returning repository.ErrNotFound when the
	// id does not exist.
	DeleteByID(ctx context.Context, id string) error
}
