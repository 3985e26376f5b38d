package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sekolahku/rekod-api/internal/service"
	"github.com/sekolahku/rekod-api/pkg/response"
)

// ReportHandler exposes the bulk report and download endpoints.
type ReportHandler struct {
	reports *service.ReportService
	audit   *service.AuditService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService, audit *service.AuditService) *ReportHandler {
	return &ReportHandler{reports: reports, audit: audit}
}

// EnqueueProfiles godoc
// @Summary Queue a bulk profile-book PDF
// @Description Renders one profile page per student in the background. Poll the job status for the signed download link.
// @Tags Reports
// @Produce json
// @Param class query string false "Scope to one class"
// @Success 202 {object} response.Envelope
// @Router /reports/profiles [post]
func (h *ReportHandler) EnqueueProfiles(c *gin.Context) {
	job, err := h.reports.EnqueueProfileBook(c.Query("class"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, job)
}

// JobStatus godoc
// @Summary Get report job status
// @Tags Reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /reports/profiles/{id} [get]
func (h *ReportHandler) JobStatus(c *gin.Context) {
	job, err := h.reports.Status(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download a generated report
// @Description Serves the file referenced by a signed download token. Tokens expire; expired or tampered tokens are rejected.
// @Tags Reports
// @Produce application/pdf
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Router /export/{token} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	file, err := h.reports.ResolveDownload(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.File.Close()

	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(file.Filename))
	c.Header("Content-Type", file.ContentType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file.File)
}

// AuditTrail godoc
// @Summary List recent audit entries
// @Tags Audit
// @Produce json
// @Param limit query int false "Max entries" default(50)
// @Success 200 {object} response.Envelope
// @Router /audit [get]
func (h *ReportHandler) AuditTrail(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := h.audit.Recent(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
