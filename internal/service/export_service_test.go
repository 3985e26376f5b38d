package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahku/rekod-api/internal/models"
	appErrors "github.com/sekolahku/rekod-api/pkg/errors"
)

type fakeIncomeRepo struct {
	records []models.IncomeRecord
	outcome models.UpsertOutcome
}

func (f *fakeIncomeRepo) List(context.Context) ([]models.IncomeRecord, error) {
	return f.records, nil
}

func (f *fakeIncomeRepo) Upsert(context.Context, models.IncomeRecord) (models.UpsertOutcome, error) {
	return f.outcome, nil
}

func newExportServiceForTest() *ExportService {
	students := &fakeStudentRepo{students: []models.Student{
		{Name: "Alice Tan", Class: "4A", MyKid: "0012345", GuardianName: "Tan Ah Kow"},
		{Name: "Bala Kumar", Class: "4B", MyKid: "090202-02-0002"},
	}}
	income := &fakeIncomeRepo{records: []models.IncomeRecord{
		{MyKid: "0012345", StudentName: "Alice Tan", FatherIncome: "RM1,250.00", MotherIncome: "800", Dependents: "3"},
	}}
	attendance := &fakeAttendanceRepo{entries: []models.AttendanceEntry{
		{Date: "2026-03-02", Class: "4A", StudentName: "Alice Tan", MyKid: "0012345", Status: models.AttendancePresent},
	}}
	return NewExportService(students, income, attendance, nil)
}

func TestExportServiceStudentsCSVKeepsLiteralKeys(t *testing.T) {
	svc := newExportServiceForTest()

	file, err := svc.ExportStudents(context.Background(), "", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))

	body := string(file.Data)
	assert.Contains(t, body, "Name,Class,MyKid")
	// Leading zeros survive the export untouched.
	assert.Contains(t, body, "0012345")
	assert.Contains(t, body, "Bala Kumar")
}

func TestExportServiceStudentsCSVFiltersByClass(t *testing.T) {
	svc := newExportServiceForTest()

	file, err := svc.ExportStudents(context.Background(), "4A", "csv")
	require.NoError(t, err)
	body := string(file.Data)
	assert.Contains(t, body, "Alice Tan")
	assert.NotContains(t, body, "Bala Kumar")
}

func TestExportServiceIncomeCSVAppendsHouseholdTotal(t *testing.T) {
	svc := newExportServiceForTest()

	file, err := svc.ExportIncome(context.Background(), "csv")
	require.NoError(t, err)
	body := string(file.Data)
	assert.Contains(t, body, "Household Total")
	// Stored text is verbatim; the derived column is parsed.
	assert.Contains(t, body, `RM1,250.00`)
	assert.Contains(t, body, "2050.00")
}

func TestExportServiceAttendancePDF(t *testing.T) {
	svc := newExportServiceForTest()

	file, err := svc.ExportAttendance(context.Background(), models.AttendanceFilter{Date: "2026-03-02"}, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Greater(t, len(file.Data), 0)
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := newExportServiceForTest()

	_, err := svc.ExportStudents(context.Background(), "", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServiceBuildProfilesJoinsIncomeByKey(t *testing.T) {
	svc := newExportServiceForTest()

	profiles, err := svc.BuildProfiles(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	var labels []string
	for _, f := range profiles[0].Fields {
		labels = append(labels, f.Label)
	}
	assert.Contains(t, labels, "Father Income")
	assert.Contains(t, labels, "Household Total")

	// No income record for the second student, so only roster fields.
	labels = labels[:0]
	for _, f := range profiles[1].Fields {
		labels = append(labels, f.Label)
	}
	assert.NotContains(t, labels, "Father Income")
}

func TestExportServiceStudentProfilePDF(t *testing.T) {
	svc := newExportServiceForTest()

	file, err := svc.StudentProfile(context.Background(), " 0012345 ")
	require.NoError(t, err)
	assert.Equal(t, "profile_0012345.pdf", file.Filename)
	assert.Greater(t, len(file.Data), 0)
}

func TestExportServiceStudentProfileUnknownKey(t *testing.T) {
	svc := newExportServiceForTest()

	_, err := svc.StudentProfile(context.Background(), "999")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
