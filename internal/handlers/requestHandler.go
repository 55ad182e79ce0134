package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/veridex/evidenceAPI/internal/adapter"
	"github.com/veridex/evidenceAPI/internal/adapter/utils"
	"github.com/veridex/evidenceAPI/internal/api"
	"github.com/veridex/evidenceAPI/internal/config"
	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
	"github.com/veridex/evidenceAPI/internal/domain/jobModel"
	"github.com/veridex/evidenceAPI/pkg/logger_i"
)

var logRH *logger_i.Logger

// technically i dont need this
// but i want to eventually remove jobHandler from handlers and set it in another package
// so in anticipation for that this struct exists
type newJobData struct {
	id         string
	traceId    string
	jobType    jobModel.JobType
	owner      evidenceModel.OwnerRef
	uploadPath string
	text       string
	items      []evidenceModel.PageItem
	segments   []evidenceModel.TranscriptSegment
	messages   []evidenceModel.CommunicationMessage
	metadata   evidenceModel.ChunkMetadata
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// SearchHandler godoc
// @Summary      Hybrid search over indexed evidence
// @Description  Runs keyword and dense retrieval in parallel, fuses the ranked lists with reciprocal rank fusion, and returns the top results.
// @Tags         Search
// @Accept       json
// @Produce      json
// @Param        request  body      evidenceModel.SearchRequest   true  "Query text, filters and fusion settings"
// @Success      200      {object}  evidenceModel.SearchResponse  "Fused result page"
// @Failure      400      {object}  api.JobResponse  "Invalid request data"
// @Failure      500      {object}  api.JobResponse  "Search failure"
// @Router       /search [post]
func SearchHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData evidenceModel.SearchRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the Search handler reader :", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil {
			logRH.Warn("Bad Search Request: ", "error:", err)
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}

		response, err := SearchEvidence(request.Context(), requestData)
		if err != nil {
			writeDomainError(w, "", err)
			return
		}
		writeJsonResponse(w, http.StatusOK, response)
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.JobResponse   "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// PostIndexHandler queues indexing of new evidence and returns a job ID.
// @Summary      Index evidence
// @Description  Accepts a JSON body with segments, messages or extracted text, or a multipart form (fields case_id, document_id, document_type and file field document) for document uploads. Either way the work runs in the background and the returned job ID tracks it.
// @Tags         Indexing
// @Accept       json
// @Produce      json
// @Param        request  body      api.IndexEvidenceRequest  true  "Owner reference plus the evidence payload"
// @Success      202  {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400  {object}  api.JobResponse  "Bad Request - Missing fields or file too large"
// @Failure      500  {object}  api.JobResponse  "Internal Server Error - Storage or Write Error"
// @Router       /evidence/index [post]
func PostIndexHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			postDocumentUpload(w, r)
			return
		}
		postJsonEvidence(w, r)
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

func postDocumentUpload(w http.ResponseWriter, r *http.Request) {
	targetDir, errString := getTargetDirectory()

	if errString != "" {
		logRH.Error("Couldn't get target directory :", "err", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
		return
	}

	const maxUploadSize = 32 << 20 //32mb
	err := r.ParseMultipartForm(maxUploadSize)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	//process request
	caseId := r.FormValue("case_id")
	documentId := r.FormValue("document_id")
	if caseId == "" || documentId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, documentId, "case_id and document_id are required")
		return
	}

	//get the document the user uploads
	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, documentId, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
	tempFilePath := filepath.Join(targetDir, filename)
	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, documentId, "Storage error")
		return
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, documentId, "Write error")
		return
	}

	queueIndexJob(r, w, newJobData{
		jobType: jobModel.JobTypeIndexDocument,
		owner: evidenceModel.OwnerRef{
			CaseID:       caseId,
			OwnerID:      documentId,
			EvidenceType: evidenceModel.EvidenceDocuments,
		},
		uploadPath: tempFilePath,
		metadata:   evidenceModel.ChunkMetadata{DocumentType: r.FormValue("document_type")},
	})
}

func postJsonEvidence(w http.ResponseWriter, r *http.Request) {
	var requestData api.IndexEvidenceRequest
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logRH.Error("Couldn't close the Index handler reader :", err)
		}
	}(r.Body)
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || !ValidateIndexRequest(requestData) {
		logRH.Warn("Bad Index Request: ", "error:", err, "owner:", requestData.OwnerID)
		WriteErrorResponse(w, http.StatusBadRequest, requestData.OwnerID, "Bad Request")
		return
	}

	owner := evidenceModel.OwnerRef{
		CaseID:       requestData.CaseID,
		OwnerID:      requestData.OwnerID,
		EvidenceType: evidenceModel.EvidenceType(requestData.EvidenceType),
	}
	queueIndexJob(r, w, newJobData{
		jobType:  jobTypeFor(owner.EvidenceType),
		owner:    owner,
		text:     requestData.Text,
		items:    requestData.Items,
		segments: requestData.Segments,
		messages: requestData.Messages,
		metadata: requestData.Metadata,
	})
}

// DeleteEvidenceHandler godoc
// @Summary      Delete indexed evidence
// @Description  Removes every indexed chunk for one owner, or for a whole case when only case_id is given. Runs synchronously against both stores.
// @Tags         Evidence
// @Produce      json
// @Param        case_id        query  string  false  "Case to purge"
// @Param        owner_id       query  string  false  "Document, transcript or communication id"
// @Param        evidence_type  query  string  false  "documents, transcripts or communications"
// @Success      200  {object}  api.DeleteEvidenceResponse  "Whether anything was deleted plus the last index receipt"
// @Failure      400  {object}  api.JobResponse  "Missing case_id and owner_id"
// @Failure      500  {object}  api.JobResponse  "Store failure, safe to retry"
// @Router       /evidence [delete]
func DeleteEvidenceHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		owner := evidenceModel.OwnerRef{
			CaseID:       r.URL.Query().Get("case_id"),
			OwnerID:      r.URL.Query().Get("owner_id"),
			EvidenceType: evidenceModel.EvidenceType(r.URL.Query().Get("evidence_type")),
		}
		if err := owner.Validate(); err != nil {
			logRH.Warn("Bad Delete Request: ", "error:", err)
			WriteErrorResponse(w, http.StatusBadRequest, owner.OwnerID, err.Error())
			return
		}

		outcome, err := DeleteEvidence(r.Context(), owner)
		if err != nil {
			writeDomainError(w, owner.OwnerID, err)
			return
		}
		writeJsonResponse(w, http.StatusOK, adapter.ToDeleteResponse(outcome))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}
