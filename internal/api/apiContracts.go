package api

import (
	"time"

	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
)

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

// IndexResult carries the counts the indexer reported for one finished job.
type IndexResult struct {
	IndexedCount int      `json:"indexed_count" example:"48"`
	FailedCount  int      `json:"failed_count" example:"0"`
	FailedIDs    []string `json:"failed_ids,omitempty"`
}

type ReceiptResponse struct {
	CaseID        string    `json:"case_id" example:"case-19"`
	OwnerID       string    `json:"owner_id" example:"doc-7"`
	EvidenceType  string    `json:"evidence_type" example:"documents"`
	PointCount    int       `json:"point_count" example:"48"`
	FailedCount   int       `json:"failed_count,omitempty" example:"0"`
	LastIndexedAt time.Time `json:"last_indexed_at"`
}

type Result struct {
	Status  string           `json:"status"`
	Report  *IndexResult     `json:"report,omitempty"`
	Receipt *ReceiptResponse `json:"receipt,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type DeleteEvidenceResponse struct {
	Deleted bool             `json:"deleted"`
	Receipt *ReceiptResponse `json:"receipt,omitempty"`
}

// requests---------------------

// IndexEvidenceRequest is the JSON body of the index endpoint. Transcripts
// send segments, communications send messages, documents send text plus
// optional page items. File uploads use the multipart form instead.
type IndexEvidenceRequest struct {
	EvidenceType string                               `json:"evidence_type" validate:"required" example:"transcripts"`
	CaseID       string                               `json:"case_id" validate:"required" example:"case-19"`
	OwnerID      string                               `json:"owner_id" validate:"required" example:"transcript-3"`
	Text         string                               `json:"text,omitempty"`
	Items        []evidenceModel.PageItem             `json:"items,omitempty"`
	Segments     []evidenceModel.TranscriptSegment    `json:"segments,omitempty"`
	Messages     []evidenceModel.CommunicationMessage `json:"messages,omitempty"`
	Metadata     evidenceModel.ChunkMetadata          `json:"metadata,omitempty"`
}

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}
