package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/veridex/evidenceAPI/internal/api"
	"github.com/veridex/evidenceAPI/internal/config"
	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
	"github.com/veridex/evidenceAPI/internal/domain/jobModel"
	"github.com/veridex/evidenceAPI/internal/job"
	"github.com/veridex/evidenceAPI/internal/metrics"
	"github.com/veridex/evidenceAPI/internal/search"
	"github.com/veridex/evidenceAPI/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service *job.Service
	search  search.Service
}

func InitJobHandler(jobService *job.Service, searchService search.Service) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService, search: searchService}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})

}

func CreateNewJob(newJob newJobData) {
	logJH.With("traceId", newJob.traceId, "job id", newJob.id)
	logJH.Info("To create new job")
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

// SearchEvidence runs the synchronous hybrid search path, no job involved.
func SearchEvidence(ctx context.Context, request evidenceModel.SearchRequest) (evidenceModel.SearchResponse, error) {
	if handlerInstance == nil {
		return evidenceModel.SearchResponse{}, &evidenceModel.ValidationError{Reason: "service not ready"}
	}
	return handlerInstance.search.Search(ctx, request)
}

// DeleteEvidence removes one owner or a whole case from both stores.
func DeleteEvidence(ctx context.Context, owner evidenceModel.OwnerRef) (search.DeleteOutcome, error) {
	if handlerInstance == nil {
		return search.DeleteOutcome{}, &evidenceModel.ValidationError{Reason: "service not ready"}
	}
	return handlerInstance.search.DeleteEvidence(ctx, owner)
}

func ValidateIndexRequest(indexReq api.IndexEvidenceRequest) bool {
	if handlerInstance == nil {
		return false
	}
	logJH.Debug(" Validating index request ", "ownerId :", indexReq.OwnerID)
	owner := evidenceModel.OwnerRef{
		CaseID:       indexReq.CaseID,
		OwnerID:      indexReq.OwnerID,
		EvidenceType: evidenceModel.EvidenceType(indexReq.EvidenceType),
	}
	if indexReq.OwnerID == "" || owner.Validate() != nil {
		return false
	}
	switch owner.EvidenceType {
	case evidenceModel.EvidenceTranscripts:
		return len(indexReq.Segments) > 0
	case evidenceModel.EvidenceCommunications:
		return len(indexReq.Messages) > 0
	default:
		return indexReq.Text != "" || len(indexReq.Items) > 0
	}
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {

	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobModel.JobStatusQueued
	_job.JobType = newJob.jobType
	_job.CurrentStep = jobModel.IndexInit
	_job.JobPayload.Owner = newJob.owner
	_job.JobPayload.UploadPath = newJob.uploadPath
	_job.JobPayload.Text = newJob.text
	_job.JobPayload.Items = newJob.items
	_job.JobPayload.Segments = newJob.segments
	_job.JobPayload.Messages = newJob.messages
	_job.JobPayload.Metadata = newJob.metadata

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //this is a blocking send to prevent the system from being overwhelmed
	logJH.Info("Created new job")

	//we will start a new worker every 10 requests - can also be configured
	// or
	//for performance - a new worker is added for an uploaded document job
	//extraction involves page by page processing which might take time
	//worker will be removed if it has idle time - so it should be ok
	//this also allows us to only keep 1 worker running at most times therefore cutting resource spend

	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1) //after sending a request increment counter
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || newJob.uploadPath != "" {
		metrics.StartDispatcherSignalCount() //metrics
		logJH.Debug("Worker count ", accurateCount)
		h.service.DispatcherChannel <- true
	}
}
