package adapter

import (
	"fmt"
	"time"

	"github.com/veridex/evidenceAPI/internal/api"
	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
	"github.com/veridex/evidenceAPI/internal/domain/jobModel"
	"github.com/veridex/evidenceAPI/internal/search"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id), //pass "status/job.Id"
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:  string(job.Status),
		Report:  ToIndexResult(job.JobPayload.Report),
		Receipt: ToReceiptResponse(job.JobPayload.Receipt),
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToIndexResult(report *evidenceModel.IndexReport) *api.IndexResult {
	if report == nil {
		return nil
	}

	return &api.IndexResult{
		IndexedCount: report.IndexedCount,
		FailedCount:  report.FailedCount,
		FailedIDs:    report.FailedIDs,
	}
}

func ToReceiptResponse(receipt *evidenceModel.IndexReceipt) *api.ReceiptResponse {
	if receipt == nil {
		return nil
	}

	return &api.ReceiptResponse{
		CaseID:        receipt.Owner.CaseID,
		OwnerID:       receipt.Owner.OwnerID,
		EvidenceType:  string(receipt.Owner.EvidenceType),
		PointCount:    receipt.PointCount,
		FailedCount:   receipt.FailedCount,
		LastIndexedAt: receipt.LastIndexedAt,
	}
}

func ToDeleteResponse(outcome search.DeleteOutcome) api.DeleteEvidenceResponse {
	return api.DeleteEvidenceResponse{
		Deleted: outcome.Deleted,
		Receipt: ToReceiptResponse(outcome.Receipt),
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
