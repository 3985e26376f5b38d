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

// IncomeHandler exposes guardian-income endpoints.
type IncomeHandler struct {
	income  *service.IncomeService
	exports *service.ExportService
}

// NewIncomeHandler constructs IncomeHandler.
func NewIncomeHandler(income *service.IncomeService, exports *service.ExportService) *IncomeHandler {
	return &IncomeHandler{income: income, exports: exports}
}

// List godoc
// @Summary List income records
// @Tags Income
// @Produce json
// @Param search query string false "Substring match over every field"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /income [get]
func (h *IncomeHandler) List(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	records, pagination, err := h.income.List(c.Request.Context(), search, page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Get godoc
// @Summary Get one income record
// @Tags Income
// @Produce json
// @Param mykid path string true "MyKid number"
// @Success 200 {object} response.Envelope
// @Router /income/{mykid} [get]
func (h *IncomeHandler) Get(c *gin.Context) {
	record, err := h.income.Get(c.Request.Context(), c.Param("mykid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Upsert godoc
// @Summary Create or update an income record
// @Description Stores the full record keyed by MyKid number. Amounts are stored as the literal text submitted.
// @Tags Income
// @Accept json
// @Produce json
// @Param payload body service.UpsertIncomeRequest true "Income payload"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Router /income [put]
func (h *IncomeHandler) Upsert(c *gin.Context) {
	var req service.UpsertIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, outcome, err := h.income.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Set(middleware.ContextRecordKey, record.MyKid)
	c.Set(middleware.ContextOutcomeKey, string(outcome))

	meta := map[string]interface{}{"outcome": string(outcome)}
	if outcome == models.OutcomeCreated {
		response.JSON(c, http.StatusCreated, record, nil, meta)
		return
	}
	response.JSON(c, http.StatusOK, record, nil, meta)
}

// Export godoc
// @Summary Export income records
// @Tags Income
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /income/export [get]
func (h *IncomeHandler) Export(c *gin.Context) {
	file, err := h.exports.ExportIncome(c.Request.Context(), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}
