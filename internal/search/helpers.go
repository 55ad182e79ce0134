package search

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
	"github.com/veridex/evidenceAPI/internal/domain/jobModel"
	"github.com/veridex/evidenceAPI/internal/extract"
	"github.com/veridex/evidenceAPI/internal/metrics"
	"github.com/veridex/evidenceAPI/internal/search/chunker"
	"github.com/veridex/evidenceAPI/pkg/logger_i"
)

func completeJob(job jobModel.Job) jobModel.Job {
	job.CurrentStep = jobModel.Complete
	return job
}

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("ProcessIndexJob", "Current Status", job.CurrentStep)
	return job
}

func (s *service) jobError(job jobModel.Job, err error, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "error", err)

	code := http.StatusInternalServerError
	outMessage := "Internal Server Error"
	var validation *evidenceModel.ValidationError
	if errors.As(err, &validation) {
		code = http.StatusBadRequest
		outMessage = validation.Reason
	}

	job.Error = jobModel.JobError{
		Code:    code,
		Message: outMessage,
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	return job
}

// retryable reports whether re-submitting the same job could help. Point ids
// are deterministic, so a retry after a store failure overwrites instead of
// duplicating.
func retryable(err error) bool {
	var validation *evidenceModel.ValidationError
	return !errors.As(err, &validation)
}

// executeExtractStep pulls text and page items out of an uploaded file. Jobs
// carrying structured payloads (transcripts, threads, inline text) skip it.
func (s *service) executeExtractStep(log *logger_i.Logger, job *jobModel.Job) error {
	path := job.JobPayload.UploadPath
	if job.JobType != jobModel.JobTypeIndexDocument || path == "" {
		return nil
	}
	*job = logOutput(*job, jobModel.ExtractCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("extraction", time.Since(start)) }()

	pages, items, err := extract.File(path)
	if err != nil {
		return err
	}

	job.JobPayload.Text = extract.Text(pages)
	if len(job.JobPayload.Items) == 0 {
		job.JobPayload.Items = items
	}
	if job.JobPayload.Metadata.DocumentType == "" {
		job.JobPayload.Metadata.DocumentType = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	// the upload served its purpose
	if err := os.Remove(path); err != nil {
		log.Warn("Could not remove upload", "path", path, "err", err)
	}
	return nil
}

func (s *service) executeChunkStep(log *logger_i.Logger, job *jobModel.Job) (chunker.Hierarchy, error) {
	*job = logOutput(*job, jobModel.ChunkerCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("chunking", time.Since(start)) }()

	payload := job.JobPayload
	switch job.JobType {
	case jobModel.JobTypeIndexDocument:
		return s.chunker.ChunkDocument(payload.Text, payload.Items, payload.Metadata), nil
	case jobModel.JobTypeIndexTranscript:
		return s.chunker.ChunkTranscript(payload.Segments, payload.Metadata), nil
	case jobModel.JobTypeIndexCommunication:
		return s.chunker.ChunkCommunications(payload.Messages, payload.Metadata), nil
	}
	return chunker.Hierarchy{}, &evidenceModel.ValidationError{Reason: "unknown job type " + string(job.JobType)}
}

func (s *service) executeIndexStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, chunks []evidenceModel.Chunk) (evidenceModel.IndexReport, error) {
	*job = logOutput(*job, jobModel.IndexerCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("index_job", time.Since(start)) }()

	return s.indexer.Index(ctx, job.JobPayload.Owner, chunks)
}

func (s *service) executeReceiptStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, report evidenceModel.IndexReport) {
	*job = logOutput(*job, jobModel.ReceiptCall, log)

	receipt := evidenceModel.IndexReceipt{
		Owner:         job.JobPayload.Owner,
		PointCount:    report.IndexedCount,
		FailedCount:   report.FailedCount,
		LastIndexedAt: time.Now().UTC(),
	}
	if err := s.receipts.SaveReceipt(ctx, receipt); err != nil {
		// the evidence stays indexed either way, a lost receipt only
		// costs bookkeeping
		log.Error("Failed to save receipt", "err", err)
	}
	job.JobPayload.Receipt = &receipt
}
