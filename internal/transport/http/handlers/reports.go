package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
	"github.com/RaoufAlaadin/MedicaRental/internal/transport/http/middleware"
	"github.com/RaoufAlaadin/MedicaRental/internal/usecase"
)

// ReportsHandler exposes moderation report endpoints.
type ReportsHandler struct {
	reports  *usecase.ReportService
	accounts *usecase.AccountService
}

// NewReportsHandler constructs ReportsHandler.
func NewReportsHandler(reports *usecase.ReportService, accounts *usecase.AccountService) *ReportsHandler {
	return &ReportsHandler{reports: reports, accounts: accounts}
}

// RegisterRoutes binds report routes. Filing needs any authenticated user;
// listing, reading, and removal are admin operations.
func (h *ReportsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.Use(middleware.RequireAuth(h.accounts))

	r.POST("/InsertReport", h.insert)

	admin := r.Group("", middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/AllChatsReports", h.listChatReports)
	admin.GET("/AllReviewReports", h.listReviewReports)
	admin.GET("/AllItemsReports", h.listItemReports)
	admin.GET("/:id", h.getByID)
	admin.DELETE("/:id", h.delete)
}

func (h *ReportsHandler) listChatReports(c *gin.Context) {
	h.respondList(c, h.reports.GetChatReports)
}

func (h *ReportsHandler) listReviewReports(c *gin.Context) {
	h.respondList(c, h.reports.GetReviewReports)
}

func (h *ReportsHandler) listItemReports(c *gin.Context) {
	h.respondList(c, h.reports.GetItemReports)
}

func (h *ReportsHandler) respondList(c *gin.Context, load func(ctx context.Context) ([]domain.Report, error)) {
	reports, err := load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load reports"))
		return
	}

	views := make([]ReportView, 0, len(reports))
	for _, r := range reports {
		views = append(views, NewReportView(r))
	}

	c.JSON(http.StatusOK, views)
}

func (h *ReportsHandler) getByID(c *gin.Context) {
	report, err := h.reports.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrReportNotFound, Status: http.StatusNotFound, Message: "report not found"},
		}, http.StatusInternalServerError, "failed to load report")
		return
	}

	c.JSON(http.StatusOK, NewReportView(*report))
}

func (h *ReportsHandler) insert(c *gin.Context) {
	var req InsertReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		return
	}

	report, err := h.reports.Insert(c.Request.Context(), usecase.ReportInput{
		ReporterID: middleware.AuthenticatedUserID(c),
		Type:       domain.ReportType(req.Type),
		TargetID:   req.TargetID,
		Reason:     req.Reason,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidReportType, Status: http.StatusBadRequest, Message: "invalid report type"},
		}, http.StatusBadRequest, "failed to insert report")
		return
	}

	c.Header("Location", fmt.Sprintf("/api/reports/%s", report.ID))
	c.JSON(http.StatusCreated, NewReportView(*report))
}

func (h *ReportsHandler) delete(c *gin.Context) {
	if err := h.reports.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrReportNotFound, Status: http.StatusBadRequest, Message: "failed to delete report"},
		}, http.StatusInternalServerError, "failed to delete report")
		return
	}

	c.Status(http.StatusNoContent)
}
