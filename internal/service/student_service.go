package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sekolahku/rekod-api/internal/models"
	appErrors "github.com/sekolahku/rekod-api/pkg/errors"
)

const studentCacheKey = "rekod:students"

type studentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
	Upsert(ctx context.Context, student models.Student) (models.UpsertOutcome, error)
}

type listCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// UpsertStudentRequest is the full-row submission from the entry form.
// There is no partial update: every upsert rewrites the whole record.
type UpsertStudentRequest struct {
	Name          string `json:"name" validate:"required"`
	Class         string `json:"class" validate:"required"`
	MyKid         string `json:"mykid" validate:"required"`
	Gender        string `json:"gender"`
	GuardianName  string `json:"guardian_name"`
	GuardianPhone string `json:"guardian_phone"`
	Address       string `json:"address"`
}

// StudentService handles roster use-cases.
type StudentService struct {
	repo      studentRepository
	cache     listCache
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the roster service. The cache may be
// nil; every read then goes straight to the record store.
func NewStudentService(repo studentRepository, cache listCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns roster records matching the filter with pagination
// metadata. Search is a case-insensitive substring match over every
// field, preserving sheet order.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, err := s.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	filtered := make([]models.Student, 0, len(students))
	for _, st := range students {
		if filter.Class != "" && st.Class != filter.Class {
			continue
		}
		if filter.Search != "" && !models.MatchesTerm(st.Row(), filter.Search) {
			continue
		}
		filtered = append(filtered, st)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: len(filtered)}

	start := (page - 1) * size
	if start >= len(filtered) {
		return []models.Student{}, pagination, nil
	}
	end := start + size
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], pagination, nil
}

// Get returns the roster record for one MyKid number. With duplicate
// keys already in the sheet, the first match wins.
func (s *StudentService) Get(ctx context.Context, mykid string) (*models.Student, error) {
	key := models.NormalizeKey(mykid)
	if key == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "mykid is required")
	}
	students, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, st := range students {
		if models.NormalizeKey(st.MyKid) == key {
			found := st
			return &found, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
}

// Upsert stores the submitted record keyed by MyKid and reports which
// branch was taken so the caller can surface created vs updated.
func (s *StudentService) Upsert(ctx context.Context, req UpsertStudentRequest) (*models.Student, models.UpsertOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student := models.Student{
		Name:          req.Name,
		Class:         req.Class,
		MyKid:         models.NormalizeKey(req.MyKid),
		Gender:        req.Gender,
		GuardianName:  req.GuardianName,
		GuardianPhone: req.GuardianPhone,
		Address:       req.Address,
	}
	if student.MyKid == "" {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "mykid is required")
	}

	outcome, err := s.repo.Upsert(ctx, student)
	if err != nil {
		return nil, "", err
	}
	s.invalidate(ctx)
	s.logger.Info("student upserted",
		zap.String("mykid", student.MyKid),
		zap.String("outcome", string(outcome)),
	)
	return &student, outcome, nil
}

func (s *StudentService) load(ctx context.Context) ([]models.Student, error) {
	if s.cache != nil {
		var cached []models.Student
		if err := s.cache.Get(ctx, studentCacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("roster cache read failed", zap.Error(err))
		}
	}
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, studentCacheKey, students, s.cacheTTL); err != nil {
			s.logger.Warn("roster cache write failed", zap.Error(err))
		}
	}
	return students, nil
}

func (s *StudentService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, studentCacheKey); err != nil {
		s.logger.Warn("roster cache invalidation failed", zap.Error(err))
	}
}
