package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sekolahku/rekod-api/internal/middleware"
	"github.com/sekolahku/rekod-api/internal/models"
	"github.com/sekolahku/rekod-api/internal/service"
	appErrors "github.com/sekolahku/rekod-api/pkg/errors"
	"github.com/sekolahku/rekod-api/pkg/response"
)

// AttendanceHandler exposes roll-call endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
	exports    *service.ExportService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService, exports *service.ExportService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, exports: exports}
}

// List godoc
// @Summary List attendance journal entries
// @Tags Attendance
// @Produce json
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Param class query string false "Filter by class"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	filter, err := attendanceFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	entries, err := h.attendance.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// RollCall godoc
// @Summary Submit one class's daily roll call
// @Description Appends one journal row per student. Resubmitting the same day appends corrected rows; earlier rows are kept.
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.RollCallRequest true "Roll-call payload"
// @Success 201 {object} response.Envelope
// @Router /attendance/rollcall [post]
func (h *AttendanceHandler) RollCall(c *gin.Context) {
	var req service.RollCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.attendance.SubmitRollCall(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Set(middleware.ContextRecordKey, result.Date+"/"+result.Class)
	response.Created(c, result)
}

// Summary godoc
// @Summary Summarize one day's roll call
// @Description Aggregates the latest journal entry per student for the date. Earlier entries from resubmitted roll calls are reported as superseded.
// @Tags Attendance
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param class query string false "Filter by class"
// @Success 200 {object} response.Envelope
// @Router /attendance/summary [get]
func (h *AttendanceHandler) Summary(c *gin.Context) {
	summary, err := h.attendance.Summary(c.Request.Context(), c.Query("date"), c.Query("class"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Export godoc
// @Summary Export attendance journal entries
// @Tags Attendance
// @Produce text/csv
// @Produce application/pdf
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Param class query string false "Filter by class"
// @Param status query string false "Filter by status"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /attendance/export [get]
func (h *AttendanceHandler) Export(c *gin.Context) {
	filter, err := attendanceFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.ExportAttendance(c.Request.Context(), filter, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

func attendanceFilter(c *gin.Context) (models.AttendanceFilter, error) {
	filter := models.AttendanceFilter{
		Date:  c.Query("date"),
		Class: c.Query("class"),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.AttendanceStatus(raw)
		if !status.Valid() {
			return filter, appErrors.Clone(appErrors.ErrValidation, "unknown attendance status "+raw)
		}
		filter.Status = &status
	}
	return filter, nil
}
