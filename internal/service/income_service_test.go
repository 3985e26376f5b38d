package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahku/rekod-api/internal/models"
	appErrors "github.com/sekolahku/rekod-api/pkg/errors"
)

func TestIncomeServiceListDecoratesHouseholdTotal(t *testing.T) {
	repo := &fakeIncomeRepo{records: []models.IncomeRecord{
		{MyKid: "0012345", StudentName: "Alice Tan", FatherIncome: "RM1,250.00", MotherIncome: "800"},
		{MyKid: "090202-02-0002", StudentName: "Bala Kumar", GuardianIncome: "tiada"},
	}}
	svc := NewIncomeService(repo, nil, 0, nil, nil)

	records, pagination, err := svc.List(context.Background(), "", 1, 50)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2, pagination.TotalCount)

	assert.InDelta(t, 2050.0, records[0].HouseholdTotal, 1e-9)
	// Unparseable text contributes zero but is stored verbatim.
	assert.InDelta(t, 0.0, records[1].HouseholdTotal, 1e-9)
	assert.Equal(t, "tiada", records[1].GuardianIncome)
}

func TestIncomeServiceListSearches(t *testing.T) {
	repo := &fakeIncomeRepo{records: []models.IncomeRecord{
		{MyKid: "0012345", StudentName: "Alice Tan"},
		{MyKid: "090202-02-0002", StudentName: "Bala Kumar"},
	}}
	svc := NewIncomeService(repo, nil, 0, nil, nil)

	records, _, err := svc.List(context.Background(), "bala", 1, 50)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Bala Kumar", records[0].StudentName)
}

func TestIncomeServiceUpsertKeepsAmountTextVerbatim(t *testing.T) {
	repo := &fakeIncomeRepo{outcome: models.OutcomeUpdated}
	svc := NewIncomeService(repo, nil, 0, nil, nil)

	record, outcome, err := svc.Upsert(context.Background(), UpsertIncomeRequest{
		MyKid:        " 0012345 ",
		StudentName:  "Alice Tan",
		FatherIncome: "0012345",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeUpdated, outcome)
	assert.Equal(t, "0012345", record.MyKid)
	// The amount is not reformatted.
	assert.Equal(t, "0012345", record.FatherIncome)
}

func TestIncomeServiceUpsertRejectsMissingKey(t *testing.T) {
	svc := NewIncomeService(&fakeIncomeRepo{}, nil, 0, nil, nil)

	_, _, err := svc.Upsert(context.Background(), UpsertIncomeRequest{StudentName: "Alice Tan"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestIncomeServiceGetByNormalizedKey(t *testing.T) {
	repo := &fakeIncomeRepo{records: []models.IncomeRecord{
		{MyKid: " 0012345 ", StudentName: "Alice Tan"},
	}}
	svc := NewIncomeService(repo, nil, 0, nil, nil)

	record, err := svc.Get(context.Background(), "0012345")
	require.NoError(t, err)
	assert.Equal(t, "Alice Tan", record.StudentName)
}
