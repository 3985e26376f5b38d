package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahku/rekod-api/internal/models"
	"github.com/sekolahku/rekod-api/internal/service"
)

type stubStudentRepo struct {
	students []models.Student
	outcome  models.UpsertOutcome
}

func (s *stubStudentRepo) List(context.Context) ([]models.Student, error) {
	return s.students, nil
}

func (s *stubStudentRepo) Upsert(_ context.Context, student models.Student) (models.UpsertOutcome, error) {
	return s.outcome, nil
}

type envelope struct {
	Data       map[string]interface{} `json:"data"`
	Meta       map[string]interface{} `json:"meta"`
	Pagination *models.Pagination     `json:"pagination"`
	Error      map[string]interface{} `json:"error"`
}

func newStudentHandlerForTest(repo *stubStudentRepo) *StudentHandler {
	svc := service.NewStudentService(repo, nil, 0, nil, nil)
	return NewStudentHandler(svc, nil)
}

func TestStudentHandlerUpsertCreatedResponds201(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newStudentHandlerForTest(&stubStudentRepo{outcome: models.OutcomeCreated})

	body, _ := json.Marshal(service.UpsertStudentRequest{Name: "Alice Tan", Class: "4A", MyKid: "0012345"})
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPut, "/students", bytes.NewReader(body))

	h.Upsert(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "created", env.Meta["outcome"])
	assert.Equal(t, "0012345", env.Data["mykid"])
}

func TestStudentHandlerUpsertUpdatedResponds200(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newStudentHandlerForTest(&stubStudentRepo{outcome: models.OutcomeUpdated})

	body, _ := json.Marshal(service.UpsertStudentRequest{Name: "Alice Tan", Class: "4A", MyKid: "0012345"})
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPut, "/students", bytes.NewReader(body))

	h.Upsert(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "updated", env.Meta["outcome"])
}

func TestStudentHandlerUpsertRejectsBadPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newStudentHandlerForTest(&stubStudentRepo{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPut, "/students", bytes.NewReader([]byte(`{not json`)))

	h.Upsert(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStudentHandlerListPassesFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newStudentHandlerForTest(&stubStudentRepo{students: []models.Student{
		{Name: "Alice Tan", Class: "4A", MyKid: "0012345"},
		{Name: "Bala Kumar", Class: "4B", MyKid: "090202-02-0002"},
	}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/students?class=4A", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data       []models.Student   `json:"data"`
		Pagination *models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)
	assert.Equal(t, "Alice Tan", env.Data[0].Name)
	assert.Equal(t, 1, env.Pagination.TotalCount)
}

func TestStudentHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newStudentHandlerForTest(&stubStudentRepo{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/students/999", nil)
	c.Params = gin.Params{{Key: "mykid", Value: "999"}}

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
