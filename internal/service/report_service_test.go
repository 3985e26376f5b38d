package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/sekolahku/rekod-api/pkg/errors"
	"github.com/sekolahku/rekod-api/pkg/storage"
)

func newReportServiceForTest(t *testing.T) *ReportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	svc := NewReportService(newExportServiceForTest(), store, signer, ReportQueueConfig{Workers: 1}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)
	t.Cleanup(func() {
		cancel()
		svc.Stop()
	})
	return svc
}

func TestReportServiceProfileBookLifecycle(t *testing.T) {
	svc := newReportServiceForTest(t)

	job, err := svc.EnqueueProfileBook("")
	require.NoError(t, err)
	assert.Equal(t, ReportStatusQueued, job.Status)

	require.Eventually(t, func() bool {
		status, err := svc.Status(job.ID)
		return err == nil && status.Status == ReportStatusCompleted
	}, 5*time.Second, 10*time.Millisecond)

	status, err := svc.Status(job.ID)
	require.NoError(t, err)
	require.NotEmpty(t, status.DownloadURL)
	require.NotNil(t, status.ExpiresAt)

	token := status.DownloadURL[len("/api/v1/export/"):]
	file, err := svc.ResolveDownload(token)
	require.NoError(t, err)
	defer file.File.Close() //nolint:errcheck
	assert.Equal(t, "application/pdf", file.ContentType)
}

func TestReportServiceFailsWhenNoStudentsMatch(t *testing.T) {
	svc := newReportServiceForTest(t)

	job, err := svc.EnqueueProfileBook("9Z")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		status, err := svc.Status(job.ID)
		return err == nil && status.Status == ReportStatusFailed
	}, 5*time.Second, 10*time.Millisecond)
}

func TestReportServiceStatusUnknownJob(t *testing.T) {
	svc := newReportServiceForTest(t)

	_, err := svc.Status("missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestReportServiceRejectsForgedDownloadToken(t *testing.T) {
	svc := newReportServiceForTest(t)

	_, err := svc.ResolveDownload("abc.123.def.badsig")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
