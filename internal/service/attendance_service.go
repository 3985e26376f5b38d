package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sekolahku/rekod-api/internal/models"
	appErrors "github.com/sekolahku/rekod-api/pkg/errors"
)

type attendanceRepository interface {
	List(ctx context.Context) ([]models.AttendanceEntry, error)
	Append(ctx context.Context, entries []models.AttendanceEntry) error
}

// RollCallEntry is one student's line on the roll-call form.
type RollCallEntry struct {
	StudentName string `json:"student_name" validate:"required"`
	MyKid       string `json:"mykid"`
	Status      string `json:"status" validate:"required"`
	Remark      string `json:"remark"`
}

// RollCallRequest is one class's roll call for one day. Submission
// appends to the journal; resubmitting the same day appends corrected
// rows rather than rewriting earlier ones.
type RollCallRequest struct {
	Date    string          `json:"date" validate:"required"`
	Class   string          `json:"class" validate:"required"`
	Entries []RollCallEntry `json:"entries" validate:"required,min=1,dive"`
}

// RollCallResult reports how many journal rows were written.
type RollCallResult struct {
	Date     string `json:"date"`
	Class    string `json:"class"`
	Recorded int    `json:"recorded"`
}

// AttendanceService handles the daily roll-call journal.
type AttendanceService struct {
	repo      attendanceRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// SubmitRollCall validates and appends one class's roll call in a
// single store call.
func (s *AttendanceService) SubmitRollCall(ctx context.Context, req RollCallRequest) (*RollCallResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid roll-call payload")
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	for _, entry := range req.Entries {
		if !models.AttendanceStatus(entry.Status).Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown attendance status "+entry.Status)
		}
	}

	recordedAt := s.now().UTC().Format(time.RFC3339)
	entries := make([]models.AttendanceEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, models.AttendanceEntry{
			Date:        req.Date,
			Class:       req.Class,
			StudentName: e.StudentName,
			MyKid:       models.NormalizeKey(e.MyKid),
			Status:      models.AttendanceStatus(e.Status),
			Remark:      e.Remark,
			RecordedAt:  recordedAt,
		})
	}
	if err := s.repo.Append(ctx, entries); err != nil {
		return nil, err
	}
	s.logger.Info("roll call recorded",
		zap.String("date", req.Date),
		zap.String("class", req.Class),
		zap.Int("entries", len(entries)),
	)
	return &RollCallResult{Date: req.Date, Class: req.Class, Recorded: len(entries)}, nil
}

// List returns journal entries matching the filter in journal order.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceEntry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]models.AttendanceEntry, 0, len(entries))
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
		filtered = append(filtered, e)
	}
	return filtered, nil
}

// Summary aggregates one day's roll call. When a student appears more
// than once for the date (a resubmitted roll call), the latest journal
// row wins and earlier ones are counted as superseded.
func (s *AttendanceService) Summary(ctx context.Context, date, class string) (*models.AttendanceSummary, error) {
	if date == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date is required")
	}
	entries, err := s.List(ctx, models.AttendanceFilter{Date: date, Class: class})
	if err != nil {
		return nil, err
	}

	latest := make(map[string]models.AttendanceEntry, len(entries))
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		key := e.MyKid
		if key == "" {
			key = e.Class + "|" + e.StudentName
		}
		if _, seen := latest[key]; !seen {
			order = append(order, key)
		}
		latest[key] = e
	}

	summary := &models.AttendanceSummary{
		Date:     date,
		Class:    class,
		Counts:   make(map[models.AttendanceStatus]int),
		Total:    len(latest),
		Resubmit: len(entries) - len(latest),
	}
	attending := 0
	for _, key := range order {
		e := latest[key]
		summary.Counts[e.Status]++
		switch e.Status {
		case models.AttendancePresent, models.AttendanceLate, models.AttendanceSchoolRep:
			attending++
		}
	}
	if summary.Total > 0 {
		summary.Rate = float64(attending) / float64(summary.Total)
	}
	return summary, nil
}
