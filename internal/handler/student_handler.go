package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sekolahku/rekod-api/internal/middleware"
	"github.com/sekolahku/rekod-api/internal/models"
	"github.com/sekolahku/rekod-api/internal/service"
	appErrors "github.com/sekolahku/rekod-api/pkg/errors"
	"github.com/sekolahku/rekod-api/pkg/response"
)

// StudentHandler exposes roster endpoints.
type StudentHandler struct {
	students *service.StudentService
	exports  *service.ExportService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService, exports *service.ExportService) *StudentHandler {
	return &StudentHandler{students: students, exports: exports}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param search query string false "Substring match over every field"
// @Param class query string false "Filter by class"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	var filter models.StudentFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Class = c.Query("class")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = size
	}

	students, pagination, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Get godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Param mykid path string true "MyKid number"
// @Success 200 {object} response.Envelope
// @Router /students/{mykid} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("mykid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Upsert godoc
// @Summary Create or update a student
// @Description Stores the full record keyed by MyKid number. Responds 201 when a new row was appended, 200 when an existing row was overwritten.
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.UpsertStudentRequest true "Student payload"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Router /students [put]
func (h *StudentHandler) Upsert(c *gin.Context) {
	var req service.UpsertStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, outcome, err := h.students.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Set(middleware.ContextRecordKey, student.MyKid)
	c.Set(middleware.ContextOutcomeKey, string(outcome))

	meta := map[string]interface{}{"outcome": string(outcome)}
	if outcome == models.OutcomeCreated {
		response.JSON(c, http.StatusCreated, student, nil, meta)
		return
	}
	response.JSON(c, http.StatusOK, student, nil, meta)
}

// Export godoc
// @Summary Export the roster
// @Tags Students
// @Produce text/csv
// @Produce application/pdf
// @Param class query string false "Filter by class"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /students/export [get]
func (h *StudentHandler) Export(c *gin.Context) {
	file, err := h.exports.ExportStudents(c.Request.Context(), c.Query("class"), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

// Profile godoc
// @Summary Download one student's profile as PDF
// @Tags Students
// @Produce application/pdf
// @Param mykid path string true "MyKid number"
// @Success 200 {file} file
// @Router /students/{mykid}/profile.pdf [get]
func (h *StudentHandler) Profile(c *gin.Context) {
	file, err := h.exports.StudentProfile(c.Request.Context(), c.Param("mykid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

func serveFile(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
