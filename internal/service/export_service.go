package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sekolahku/rekod-api/internal/models"
	appErrors "github.com/sekolahku/rekod-api/pkg/errors"
	"github.com/sekolahku/rekod-api/pkg/export"
)

// Export formats accepted by the download endpoints.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders roster, income and attendance data into
// downloadable files. It reads the repositories directly so exports
// always cover the full dataset, not one page of it.
type ExportService struct {
	students   studentRepository
	income     incomeRepository
	attendance attendanceRepository
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	logger     *zap.Logger
	now        func() time.Time
}

// NewExportService constructs the export service.
func NewExportService(students studentRepository, income incomeRepository, attendance attendanceRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		students:   students,
		income:     income,
		attendance: attendance,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		logger:     logger,
		now:        time.Now,
	}
}

// ExportStudents renders the roster, optionally scoped to one class.
func (s *ExportService) ExportStudents(ctx context.Context, class, format string) (*ExportFile, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]string, 0, len(students))
	for _, st := range students {
		if class != "" && st.Class != class {
			continue
		}
		rows = append(rows, zipRow(models.StudentColumns, st.Row()))
	}
	data := export.Dataset{Headers: models.StudentColumns, Rows: rows}
	return s.render(data, "Senarai Murid", "students", format)
}

// ExportIncome renders the guardian-income worksheet with the parsed
// household total appended as a derived column.
func (s *ExportService) ExportIncome(ctx context.Context, format string) (*ExportFile, error) {
	records, err := s.income.List(ctx)
	if err != nil {
		return nil, err
	}
	headers := append(append([]string{}, models.IncomeColumns...), "Household Total")
	rows := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		row := zipRow(models.IncomeColumns, rec.Row())
		row["Household Total"] = fmt.Sprintf("%.2f", rec.HouseholdIncome())
		rows = append(rows, row)
	}
	data := export.Dataset{Headers: headers, Rows: rows}
	return s.render(data, "Pendapatan Penjaga", "income", format)
}

// ExportAttendance renders journal entries matching the filter in
// journal order.
func (s *ExportService) ExportAttendance(ctx context.Context, filter models.AttendanceFilter, format string) (*ExportFile, error) {
	entries, err := s.attendance.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]string, 0, len(entries))
	for _, e := range entries {
		if filter.Date != "" && e.Date != filter.Date {
			continue
		}
		if filter.Class != "" && e.Class != filter.Class {
			continue
		}
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		rows = append(rows, zipRow(models.AttendanceColumns, e.Row()))
	}
	data := export.Dataset{Headers: models.AttendanceColumns, Rows: rows}
	return s.render(data, "Rekod Kehadiran", "attendance", format)
}

// StudentProfile renders one student's roster and income details as a
// single-page PDF.
func (s *ExportService) StudentProfile(ctx context.Context, mykid string) (*ExportFile, error) {
	key := models.NormalizeKey(mykid)
	if key == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "mykid is required")
	}
	profiles, err := s.BuildProfiles(ctx, "", key)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	payload, err := s.pdf.RenderProfiles(profiles[:1])
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render profile")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("profile_%s.pdf", key),
		ContentType: "application/pdf",
		Data:        payload,
	}, nil
}

// BuildProfiles assembles labelled profile pages for the bulk report
// job. Scope by class, by one MyKid number, or neither for the whole
// roster. Income details are joined by normalized key when present.
func (s *ExportService) BuildProfiles(ctx context.Context, class, mykid string) ([]export.Profile, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.income.List(ctx)
	if err != nil {
		return nil, err
	}
	incomeByKey := make(map[string]models.IncomeRecord, len(records))
	for _, rec := range records {
		key := models.NormalizeKey(rec.MyKid)
		if _, seen := incomeByKey[key]; !seen {
			incomeByKey[key] = rec
		}
	}

	profiles := make([]export.Profile, 0, len(students))
	for _, st := range students {
		if class != "" && st.Class != class {
			continue
		}
		key := models.NormalizeKey(st.MyKid)
		if mykid != "" && key != mykid {
			continue
		}
		fields := []export.ProfileField{
			{Label: "Name", Value: st.Name},
			{Label: "Class", Value: st.Class},
			{Label: "MyKid", Value: st.MyKid},
			{Label: "Gender", Value: st.Gender},
			{Label: "Guardian Name", Value: st.GuardianName},
			{Label: "Guardian Phone", Value: st.GuardianPhone},
			{Label: "Address", Value: st.Address},
		}
		if rec, ok := incomeByKey[key]; ok {
			fields = append(fields,
				export.ProfileField{Label: "Father Name", Value: rec.FatherName},
				export.ProfileField{Label: "Father Income", Value: rec.FatherIncome},
				export.ProfileField{Label: "Mother Name", Value: rec.MotherName},
				export.ProfileField{Label: "Mother Income", Value: rec.MotherIncome},
				export.ProfileField{Label: "Guardian Income", Value: rec.GuardianIncome},
				export.ProfileField{Label: "Dependents", Value: rec.Dependents},
				export.ProfileField{Label: "Household Total", Value: fmt.Sprintf("%.2f", rec.HouseholdIncome())},
			)
		}
		profiles = append(profiles, export.Profile{Title: "Profil Murid: " + st.Name, Fields: fields})
	}
	return profiles, nil
}

// RenderProfiles renders assembled profile pages into one PDF book.
func (s *ExportService) RenderProfiles(profiles []export.Profile) ([]byte, error) {
	payload, err := s.pdf.RenderProfiles(profiles)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render profile book")
	}
	return payload, nil
}

func (s *ExportService) render(data export.Dataset, title, name, format string) (*ExportFile, error) {
	stamp := s.now().UTC().Format("20060102_150405")
	switch format {
	case FormatCSV, "":
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("%s_%s.csv", name, stamp),
			ContentType: "text/csv",
			Data:        payload,
		}, nil
	case FormatPDF:
		payload, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("%s_%s.pdf", name, stamp),
			ContentType: "application/pdf",
			Data:        payload,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func zipRow(headers, values []string) map[string]string {
	row := make(map[string]string, len(headers))
	for i, header := range headers {
		if i < len(values) {
			row[header] = values[i]
		} else {
			row[header] = ""
		}
	}
	return row
}
