package jobModel

import (
	"context"
	"time"

	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	IndexInit   InternalStatus = "Init"
	ExtractCall InternalStatus = "Extract"
	ChunkerCall InternalStatus = "Chunking"
	IndexerCall InternalStatus = "Indexing"
	ReceiptCall InternalStatus = "Receipt"
	Error       InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeIndexDocument      JobType = "IndexDocument"
	JobTypeIndexTranscript    JobType = "IndexTranscript"
	JobTypeIndexCommunication JobType = "IndexCommunication"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

// JobPayload carries the evidence to index on the way in and the outcome on
// the way out. Exactly one of UploadPath, Text, Segments or Messages is set,
// matching the job type.
type JobPayload struct {
	Owner evidenceModel.OwnerRef `json:"owner"`

	UploadPath string                               `json:"upload_path,omitempty"`
	Text       string                               `json:"text,omitempty"`
	Items      []evidenceModel.PageItem             `json:"items,omitempty"`
	Segments   []evidenceModel.TranscriptSegment    `json:"segments,omitempty"`
	Messages   []evidenceModel.CommunicationMessage `json:"messages,omitempty"`
	Metadata   evidenceModel.ChunkMetadata          `json:"metadata,omitempty"`

	Report  *evidenceModel.IndexReport  `json:"report,omitempty"`
	Receipt *evidenceModel.IndexReceipt `json:"receipt,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

type ReceiptStore interface {
	GetReceipt(ctx context.Context, owner evidenceModel.OwnerRef) (evidenceModel.IndexReceipt, bool)
	SaveReceipt(ctx context.Context, receipt evidenceModel.IndexReceipt) error
	DeleteReceipt(ctx context.Context, owner evidenceModel.OwnerRef) error
}
