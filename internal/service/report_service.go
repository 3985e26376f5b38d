package service

import (
	"context"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/sekolahku/rekod-api/pkg/errors"
	"github.com/sekolahku/rekod-api/pkg/export"
	"github.com/sekolahku/rekod-api/pkg/jobs"
	"github.com/sekolahku/rekod-api/pkg/storage"
)

// Report job states.
const (
	ReportStatusQueued    = "queued"
	ReportStatusRunning   = "running"
	ReportStatusCompleted = "completed"
	ReportStatusFailed    = "failed"
)

const jobTypeProfileBook = "profile_book"

// ReportJob tracks one bulk profile-book request through the queue.
type ReportJob struct {
	ID          string     `json:"id"`
	Class       string     `json:"class,omitempty"`
	Status      string     `json:"status"`
	Error       string     `json:"error,omitempty"`
	FilePath    string     `json:"-"`
	DownloadURL string     `json:"download_url,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	RequestedAt time.Time  `json:"requested_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type profileBuilder interface {
	BuildProfiles(ctx context.Context, class, mykid string) ([]export.Profile, error)
	RenderProfiles(profiles []export.Profile) ([]byte, error)
}

// ReportService generates bulk profile-book PDFs in the background and
// hands out signed download tokens for the results.
type ReportService struct {
	exports profileBuilder
	store   *storage.LocalStorage
	signer  *storage.SignedURLSigner
	queue   *jobs.Queue
	logger  *zap.Logger

	mu      sync.RWMutex
	entries map[string]*ReportJob
}

// ReportQueueConfig bounds the background worker pool.
type ReportQueueConfig struct {
	Workers    int
	MaxRetries int
}

// NewReportService constructs the report service and its job queue.
// Start must be called before enqueuing work.
func NewReportService(exports profileBuilder, store *storage.LocalStorage, signer *storage.SignedURLSigner, cfg ReportQueueConfig, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ReportService{
		exports: exports,
		store:   store,
		signer:  signer,
		logger:  logger,
		entries: make(map[string]*ReportJob),
	}
	s.queue = jobs.NewQueue("reports", s.process, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the queue workers.
func (s *ReportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the queue workers.
func (s *ReportService) Stop() {
	s.queue.Stop()
}

// EnqueueProfileBook queues a bulk profile-book render, optionally
// scoped to one class.
func (s *ReportService) EnqueueProfileBook(class string) (*ReportJob, error) {
	job := &ReportJob{
		ID:          uuid.NewString(),
		Class:       class,
		Status:      ReportStatusQueued,
		RequestedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.entries[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: jobTypeProfileBook, Payload: class}); err != nil {
		s.mu.Lock()
		delete(s.entries, job.ID)
		s.mu.Unlock()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue report")
	}
	return s.snapshot(job.ID), nil
}

// Status returns the current state of a report job.
func (s *ReportService) Status(jobID string) (*ReportJob, error) {
	job := s.snapshot(jobID)
	if job == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
	}
	return job, nil
}

// ResolveDownload validates a signed token and opens the stored file.
func (s *ReportService) ResolveDownload(token string) (*storage.DownloadFile, error) {
	jobID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}
	s.mu.RLock()
	job, ok := s.entries[jobID]
	s.mu.RUnlock()
	if !ok || job.FilePath != relPath {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report file not found")
	}
	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report file not found")
	}
	return &storage.DownloadFile{File: file, Filename: path.Base(relPath), ContentType: "application/pdf"}, nil
}

// Cleanup removes report files older than the TTL and drops their
// finished job entries.
func (s *ReportService) Cleanup(ttl time.Duration) {
	deleted, err := s.store.CleanupOlderThan(ttl)
	if err != nil {
		s.logger.Warn("report cleanup failed", zap.Error(err))
		return
	}
	if len(deleted) == 0 {
		return
	}
	removed := make(map[string]bool, len(deleted))
	for _, rel := range deleted {
		removed[rel] = true
	}
	s.mu.Lock()
	for id, job := range s.entries {
		if job.FilePath != "" && removed[job.FilePath] {
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()
	s.logger.Info("report files cleaned up", zap.Int("deleted", len(deleted)))
}

func (s *ReportService) process(ctx context.Context, job jobs.Job) error {
	class, _ := job.Payload.(string)
	s.setStatus(job.ID, ReportStatusRunning, "")

	profiles, err := s.exports.BuildProfiles(ctx, class, "")
	if err != nil {
		s.setStatus(job.ID, ReportStatusFailed, err.Error())
		return err
	}
	if len(profiles) == 0 {
		s.setStatus(job.ID, ReportStatusFailed, "no matching students")
		return nil
	}
	payload, err := s.exports.RenderProfiles(profiles)
	if err != nil {
		s.setStatus(job.ID, ReportStatusFailed, err.Error())
		return err
	}

	relPath := fmt.Sprintf("reports/%s.pdf", job.ID)
	if _, err := s.store.Save(relPath, payload); err != nil {
		s.setStatus(job.ID, ReportStatusFailed, err.Error())
		return err
	}
	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		s.setStatus(job.ID, ReportStatusFailed, err.Error())
		return err
	}

	now := time.Now().UTC()
	s.mu.Lock()
	if entry, ok := s.entries[job.ID]; ok {
		entry.Status = ReportStatusCompleted
		entry.Error = ""
		entry.FilePath = relPath
		entry.DownloadURL = "/api/v1/export/" + token
		entry.ExpiresAt = &expiresAt
		entry.CompletedAt = &now
	}
	s.mu.Unlock()

	s.logger.Info("profile book generated",
		zap.String("job_id", job.ID),
		zap.String("class", class),
		zap.Int("profiles", len(profiles)),
	)
	return nil
}

func (s *ReportService) setStatus(jobID, status, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[jobID]; ok {
		entry.Status = status
		entry.Error = errMsg
	}
}

func (s *ReportService) snapshot(jobID string) *ReportJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[jobID]
	if !ok {
		return nil
	}
	copied := *entry
	return &copied
}
