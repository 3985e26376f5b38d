package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahku/rekod-api/internal/models"
	appErrors "github.com/sekolahku/rekod-api/pkg/errors"
)

type fakeStudentRepo struct {
	students []models.Student
	outcome  models.UpsertOutcome
	upserted *models.Student
	listErr  error
}

func (f *fakeStudentRepo) List(context.Context) ([]models.Student, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.students, nil
}

func (f *fakeStudentRepo) Upsert(_ context.Context, student models.Student) (models.UpsertOutcome, error) {
	f.upserted = &student
	return f.outcome, nil
}

func rosterFixture() []models.Student {
	return []models.Student{
		{Name: "Alice Tan", Class: "4A", MyKid: "090101-01-0001"},
		{Name: "Bala Kumar", Class: "4B", MyKid: "090202-02-0002"},
		{Name: "Chong Wei", Class: "4A", MyKid: "090303-03-0003"},
	}
}

func TestStudentServiceListFiltersByClassAndSearch(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{students: rosterFixture()}, nil, 0, nil, nil)

	students, pagination, err := svc.List(context.Background(), models.StudentFilter{Class: "4A"})
	require.NoError(t, err)
	assert.Len(t, students, 2)
	assert.Equal(t, 2, pagination.TotalCount)

	students, _, err = svc.List(context.Background(), models.StudentFilter{Search: "bala"})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Bala Kumar", students[0].Name)
}

func TestStudentServiceListEmptySearchReturnsEverything(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{students: rosterFixture()}, nil, 0, nil, nil)

	students, _, err := svc.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, students, 3)
}

func TestStudentServiceListPreservesSheetOrder(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{students: rosterFixture()}, nil, 0, nil, nil)

	students, _, err := svc.List(context.Background(), models.StudentFilter{Class: "4A"})
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Alice Tan", students[0].Name)
	assert.Equal(t, "Chong Wei", students[1].Name)
}

func TestStudentServiceGetNormalizesKey(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{students: rosterFixture()}, nil, 0, nil, nil)

	student, err := svc.Get(context.Background(), "  090202-02-0002 ")
	require.NoError(t, err)
	assert.Equal(t, "Bala Kumar", student.Name)

	_, err = svc.Get(context.Background(), "999999-99-9999")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceUpsertTrimsKeyAndReportsOutcome(t *testing.T) {
	repo := &fakeStudentRepo{outcome: models.OutcomeCreated}
	svc := NewStudentService(repo, nil, 0, nil, nil)

	student, outcome, err := svc.Upsert(context.Background(), UpsertStudentRequest{
		Name:  "Alice Tan",
		Class: "4A",
		MyKid: " 090101-01-0001 ",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeCreated, outcome)
	assert.Equal(t, "090101-01-0001", student.MyKid)
	require.NotNil(t, repo.upserted)
	assert.Equal(t, "090101-01-0001", repo.upserted.MyKid)
}

func TestStudentServiceUpsertRejectsWhitespaceKey(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{}, nil, 0, nil, nil)

	_, _, err := svc.Upsert(context.Background(), UpsertStudentRequest{
		Name:  "Alice Tan",
		Class: "4A",
		MyKid: "   ",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceUpsertValidatesRequiredFields(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{}, nil, 0, nil, nil)

	_, _, err := svc.Upsert(context.Background(), UpsertStudentRequest{Name: "Alice Tan"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceListPaginates(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{students: rosterFixture()}, nil, 0, nil, nil)

	students, pagination, err := svc.List(context.Background(), models.StudentFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Chong Wei", students[0].Name)
	assert.Equal(t, 3, pagination.TotalCount)
}
