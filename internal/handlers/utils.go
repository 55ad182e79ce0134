package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/veridex/evidenceAPI/internal/adapter"
	"github.com/veridex/evidenceAPI/internal/adapter/utils"
	"github.com/veridex/evidenceAPI/internal/config"
	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
	"github.com/veridex/evidenceAPI/internal/domain/jobModel"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response: %v", err)
	}
}

func validateId(id string, traceId string) (result jobModel.Job, isFound bool) {
	if id == "" {
		logRH.Warn("Empty Job ID")
		return jobModel.Job{}, false
	}
	return GetJobStatus(id, traceId)
}

func validateContext(ctx context.Context) bool {
	logRH.With("traceId:", ctx.Value(config.TRACE_ID_KEY).(string))
	if ctx.Err() != nil {
		logRH.Warn("context error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true

	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

// writeDomainError maps engine errors onto the wire: caller mistakes are 400,
// everything else stays a 500.
func writeDomainError(w http.ResponseWriter, id string, err error) {
	var validation *evidenceModel.ValidationError
	if errors.As(err, &validation) {
		WriteErrorResponse(w, http.StatusBadRequest, id, validation.Reason)
		return
	}
	logRH.Error("Request failed :", "err", err)
	WriteErrorResponse(w, http.StatusInternalServerError, id, "Internal Server Error")
}

func getTargetDirectory() (string, string) {
	root, err := os.Getwd()
	if err != nil {
		return "", "Storage Error"
	}

	targetDir := filepath.Join(root, "temporary_data")
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return "", "Storage Error"
	}
	return targetDir, ""
}

func jobTypeFor(evidenceType evidenceModel.EvidenceType) jobModel.JobType {
	switch evidenceType {
	case evidenceModel.EvidenceTranscripts:
		return jobModel.JobTypeIndexTranscript
	case evidenceModel.EvidenceCommunications:
		return jobModel.JobTypeIndexCommunication
	default:
		return jobModel.JobTypeIndexDocument
	}
}

func queueIndexJob(request *http.Request, w http.ResponseWriter, data newJobData) {
	data.id = utils.GetNewUUID()
	data.traceId = request.Context().Value(config.TRACE_ID_KEY).(string)
	CreateNewJob(data)
	res := adapter.ToInitJobResponse(data.id)
	writeJsonResponse(w, http.StatusAccepted, res)

}
