package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"transparency-backend/auth"
	"transparency-backend/service"

	"github.com/gin-gonic/gin"
)

// ReportService is the part of the service layer the report endpoints use
type ReportService interface {
	ListReports(ctx context.Context, req service.ListReportsRequest) (*service.ListReportsResult, error)
	GetReportDetail(ctx context.Context, req service.GetReportDetailRequest) (*service.GetReportDetailResult, error)
	DeleteReport(ctx context.Context, req service.DeleteReportRequest) (*service.DeleteReportResult, error)
	ExportReportPDF(ctx context.Context, req service.ExportReportPDFRequest, w io.Writer) (*service.ExportReportPDFResult, error)
}

// ReportHandler handles HTTP requests for stored reports
type ReportHandler struct {
	reportService ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// ListRecents handles GET /api/recents
func (h *ReportHandler) ListRecents(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		respondError(c, auth.ErrUnauthenticated)
		return
	}

	result, err := h.reportService.ListReports(c.Request.Context(), service.ListReportsRequest{UserID: userID})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Recents,
	})
}

// GetReport handles GET /api/recent/:chatId
func (h *ReportHandler) GetReport(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		respondError(c, auth.ErrUnauthenticated)
		return
	}

	result, err := h.reportService.GetReportDetail(c.Request.Context(), service.GetReportDetailRequest{
		UserID: userID,
		ChatID: c.Param("chatId"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Detail,
	})
}

// DownloadReport handles GET /api/recent/:chatId/pdf
func (h *ReportHandler) DownloadReport(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		respondError(c, auth.ErrUnauthenticated)
		return
	}

	// Render fully before writing so failures still get a JSON error
	var buf bytes.Buffer
	result, err := h.reportService.ExportReportPDF(c.Request.Context(), service.ExportReportPDFRequest{
		UserID: userID,
		ChatID: c.Param("chatId"),
	}, &buf)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(result.FileName)))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// DeleteReport handles DELETE /api/recent/:chatId
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		respondError(c, auth.ErrUnauthenticated)
		return
	}

	_, err := h.reportService.DeleteReport(c.Request.Context(), service.DeleteReportRequest{
		UserID: userID,
		ChatID: c.Param("chatId"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": "Deleted Successfully",
		},
	})
}
