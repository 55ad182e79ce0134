package search

import (
	"context"
	"time"

	"github.com/veridex/evidenceAPI/internal/config"
	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
	"github.com/veridex/evidenceAPI/internal/domain/jobModel"
	"github.com/veridex/evidenceAPI/internal/metrics"
	"github.com/veridex/evidenceAPI/internal/search/chunker"
	"github.com/veridex/evidenceAPI/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------

1. Service (Interface):
  - This is the PUBLIC contract.
  - Handlers and the worker only ever see this; they never learn which
    stores sit underneath.

2. service (Private Struct):
  - This is the PRIVATE implementation.
  - It holds the chunker, the dual-store indexer, the hybrid engine and
    the receipt store.
  - It is lowercase so no external package can reach past the contract
    and poke the stores directly.

3. Pointer Receiver (*service):
  - Methods on (*service) make the struct satisfy Service implicitly.
  - if it quacks like a duck, it's a duck

4. Dependency Injection (NewService):
  - Lets tests swap the real indexer and engine for mocks without
    touching the worker or the handlers.
*/

// Indexer is the write path: embed chunks and commit them to both stores.
type Indexer interface {
	Index(ctx context.Context, owner evidenceModel.OwnerRef, chunks []evidenceModel.Chunk) (evidenceModel.IndexReport, error)
	Delete(ctx context.Context, owner evidenceModel.OwnerRef) error
}

// Searcher is the read path.
type Searcher interface {
	Search(ctx context.Context, request evidenceModel.SearchRequest) (evidenceModel.SearchResponse, error)
}

// DeleteOutcome is what a caller gets back from DeleteEvidence. Receipt is
// the last index receipt the owner had before the purge, if any existed.
type DeleteOutcome struct {
	Deleted bool                        `json:"deleted"`
	Receipt *evidenceModel.IndexReceipt `json:"receipt,omitempty"`
}

// Service is the only thing the worker and the handlers call.
type Service interface {
	ProcessIndexJob(ctx context.Context, job jobModel.Job) jobModel.Job
	Search(ctx context.Context, request evidenceModel.SearchRequest) (evidenceModel.SearchResponse, error)
	DeleteEvidence(ctx context.Context, owner evidenceModel.OwnerRef) (DeleteOutcome, error)
}

type service struct {
	chunker  *chunker.Chunker
	indexer  Indexer
	searcher Searcher
	receipts jobModel.ReceiptStore
	logger   *logger_i.Logger
}

// NewService constructor
func NewService(ch *chunker.Chunker, ix Indexer, searcher Searcher, receipts jobModel.ReceiptStore) Service {
	return &service{
		chunker:  ch,
		indexer:  ix,
		searcher: searcher,
		receipts: receipts,
		logger:   logger_i.NewLogger("Search Service :"),
	}
}

func (s *service) ProcessIndexJob(ctx context.Context, job jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", job.Id)

	processContext, cancel := context.WithTimeout(ctx, config.IndexJobTimeout)
	defer cancel()

	// Extraction (uploads only; transcripts and threads arrive structured)
	if err := s.executeExtractStep(inMethodLogger, &job); err != nil {
		return s.jobError(job, err, "EXTRACTION_FAILURE", false)
	}

	// Chunking
	hierarchy, err := s.executeChunkStep(inMethodLogger, &job)
	if err != nil {
		return s.jobError(job, err, "CHUNKING_FAILURE", false)
	}
	if hierarchy.Empty() {
		inMethodLogger.Info("Nothing to index", "owner", job.JobPayload.Owner.OwnerID)
		job.JobPayload.Report = &evidenceModel.IndexReport{}
		return completeJob(job)
	}

	// Embedding + dual-store write
	report, err := s.executeIndexStep(processContext, inMethodLogger, &job, hierarchy.All())
	job.JobPayload.Report = &report
	if err != nil {
		return s.jobError(job, err, "INDEXING_FAILURE", retryable(err))
	}

	// Receipt
	s.executeReceiptStep(processContext, inMethodLogger, &job, report)

	return completeJob(job)
}

func (s *service) Search(ctx context.Context, request evidenceModel.SearchRequest) (evidenceModel.SearchResponse, error) {
	searchContext, cancel := context.WithTimeout(ctx, config.SearchCallTimeout)
	defer cancel()

	s.logger.Debug("Search request",
		"traceId", ctx.Value(config.TRACE_ID_KEY),
		"queryLen", len(request.Query),
		"keyword", request.UseKeyword, "dense", request.UseDense)

	return s.searcher.Search(searchContext, request)
}

func (s *service) DeleteEvidence(ctx context.Context, owner evidenceModel.OwnerRef) (DeleteOutcome, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "owner", owner.OwnerID, "case", owner.CaseID)
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("evidence_delete", time.Since(start)) }()

	outcome := DeleteOutcome{}
	if owner.OwnerID != "" {
		if receipt, found := s.receipts.GetReceipt(ctx, owner); found {
			outcome.Receipt = &receipt
		}
	}

	if err := s.indexer.Delete(ctx, owner); err != nil {
		// a partial delete is retried by the caller, both stores treat
		// repeat deletes as no-ops
		return outcome, err
	}
	outcome.Deleted = true
	log.Info("Evidence deleted from both stores")

	if owner.OwnerID != "" {
		if err := s.receipts.DeleteReceipt(ctx, owner); err != nil {
			log.Error("Failed to clear receipt", "err", err)
		}
	}
	return outcome, nil
}
