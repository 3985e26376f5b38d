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

const incomeCacheKey = "rekod:income"

type incomeRepository interface {
	List(ctx context.Context) ([]models.IncomeRecord, error)
	Upsert(ctx context.Context, record models.IncomeRecord) (models.UpsertOutcome, error)
}

// UpsertIncomeRequest is the guardian-income submission used for
// subsidy applications. Amounts travel as text so entries like
// "0012345" or "1,250.00" are stored exactly as typed.
type UpsertIncomeRequest struct {
	MyKid          string `json:"mykid" validate:"required"`
	StudentName    string `json:"student_name" validate:"required"`
	FatherName     string `json:"father_name"`
	FatherIncome   string `json:"father_income"`
	MotherName     string `json:"mother_name"`
	MotherIncome   string `json:"mother_income"`
	GuardianIncome string `json:"guardian_income"`
	Dependents     string `json:"dependents"`
	Notes          string `json:"notes"`
}

// IncomeRecordView decorates a stored record with the parsed household
// total for the subsidy screens. The stored text is untouched.
type IncomeRecordView struct {
	models.IncomeRecord
	HouseholdTotal float64 `json:"household_total"`
}

// IncomeService handles guardian-income use-cases.
type IncomeService struct {
	repo      incomeRepository
	cache     listCache
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewIncomeService constructs the income service.
func NewIncomeService(repo incomeRepository, cache listCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *IncomeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IncomeService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns income records matching the search term in sheet order.
func (s *IncomeService) List(ctx context.Context, search string, page, pageSize int) ([]IncomeRecordView, *models.Pagination, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	filtered := make([]IncomeRecordView, 0, len(records))
	for _, rec := range records {
		if search != "" && !models.MatchesTerm(rec.Row(), search) {
			continue
		}
		filtered = append(filtered, IncomeRecordView{IncomeRecord: rec, HouseholdTotal: rec.HouseholdIncome()})
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}
	pagination := &models.Pagination{Page: page, PageSize: pageSize, TotalCount: len(filtered)}

	start := (page - 1) * pageSize
	if start >= len(filtered) {
		return []IncomeRecordView{}, pagination, nil
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], pagination, nil
}

// Get returns the income record for one MyKid number, first match wins.
func (s *IncomeService) Get(ctx context.Context, mykid string) (*IncomeRecordView, error) {
	key := models.NormalizeKey(mykid)
	if key == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "mykid is required")
	}
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if models.NormalizeKey(rec.MyKid) == key {
			return &IncomeRecordView{IncomeRecord: rec, HouseholdTotal: rec.HouseholdIncome()}, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "income record not found")
}

// Upsert stores the submitted record keyed by MyKid.
func (s *IncomeService) Upsert(ctx context.Context, req UpsertIncomeRequest) (*models.IncomeRecord, models.UpsertOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid income payload")
	}
	record := models.IncomeRecord{
		MyKid:          models.NormalizeKey(req.MyKid),
		StudentName:    req.StudentName,
		FatherName:     req.FatherName,
		FatherIncome:   req.FatherIncome,
		MotherName:     req.MotherName,
		MotherIncome:   req.MotherIncome,
		GuardianIncome: req.GuardianIncome,
		Dependents:     req.Dependents,
		Notes:          req.Notes,
	}
	if record.MyKid == "" {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "mykid is required")
	}

	outcome, err := s.repo.Upsert(ctx, record)
	if err != nil {
		return nil, "", err
	}
	s.invalidate(ctx)
	s.logger.Info("income record upserted",
		zap.String("mykid", record.MyKid),
		zap.String("outcome", string(outcome)),
	)
	return &record, outcome, nil
}

func (s *IncomeService) load(ctx context.Context) ([]models.IncomeRecord, error) {
	if s.cache != nil {
		var cached []models.IncomeRecord
		if err := s.cache.Get(ctx, incomeCacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("income cache read failed", zap.Error(err))
		}
	}
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, incomeCacheKey, records, s.cacheTTL); err != nil {
			s.logger.Warn("income cache write failed", zap.Error(err))
		}
	}
	return records, nil
}

func (s *IncomeService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, incomeCacheKey); err != nil {
		s.logger.Warn("income cache invalidation failed", zap.Error(err))
	}
}
