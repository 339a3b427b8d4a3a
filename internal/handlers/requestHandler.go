package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/FinalGuardian/internal/adapter"
	"github.com/akolanti/FinalGuardian/internal/api"
	"github.com/akolanti/FinalGuardian/internal/config"
	"github.com/akolanti/FinalGuardian/internal/domain/appErrors"
	"github.com/akolanti/FinalGuardian/internal/rag"
	"github.com/akolanti/FinalGuardian/internal/rag/ingest"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
)

const chatRateLimitedReply = "Rate limit exceeded. Please wait and try again."

type RequestHandler struct {
	service   rag.Service
	uploadDir string
	logger    *logger_i.Logger
}

// NewRequestHandler keeps uploads under uploadDir only while they are parsed.
func NewRequestHandler(service rag.Service, uploadDir string) *RequestHandler {
	if uploadDir == "" {
		uploadDir = config.UploadTempDir
	}
	return &RequestHandler{
		service:   service,
		uploadDir: uploadDir,
		logger:    logger_i.NewLogger("RequestHandler"),
	}
}

// PingHandler godoc
// @Summary      Liveness probe
// @Tags         Health
// @Produce      json
// @Success      200  {object}  api.MessageResponse
// @Router       /ping [get]
func (h *RequestHandler) PingHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.MessageResponse{Message: "pong"})
}

// UploadHandler godoc
// @Summary      Upload study notes
// @Description  Splits the file into chunks and indexes the ones that were never uploaded before.
// @Tags         Notes
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "PDF, DOCX, ODT, RTF, TXT or MD file"
// @Success      200  {object}  api.UploadResponse
// @Failure      400  {object}  api.ErrorResponse  "Missing file, unsupported type or empty document"
// @Failure      500  {object}  api.ErrorResponse  "Ledger or index failure"
// @Router       /upload [post]
func (h *RequestHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context(), h.logger) {
		return
	}
	log := h.logger.WithTrace(r.Context())

	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteFailure(w, http.StatusBadRequest, appErrors.KindBadRequest, "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("file")
	if err != nil {
		WriteFailure(w, http.StatusBadRequest, appErrors.KindBadRequest, "No file uploaded.")
		return
	}
	defer fileReader.Close()

	name := filepath.Base(fileMetadata.Filename)
	tempFilePath, err := h.saveTemp(fileReader, name)
	if err != nil {
		log.Error("Could not store upload", "file", name, "error", err)
		WriteFailure(w, http.StatusInternalServerError, appErrors.KindInternal, "Storage error")
		return
	}
	defer func() {
		if err := os.Remove(tempFilePath); err != nil {
			log.Warn("Could not remove temp upload", "path", tempFilePath, "error", err)
		}
	}()

	doc, err := ingest.Load(tempFilePath, name)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}

	report, err := h.service.HandleUpload(r.Context(), doc)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToUploadResponse(report))
}

// GenerateQuizHandler godoc
// @Summary      Generate a quiz
// @Description  Looks up the notes closest to the topic and writes three questions with answers.
// @Tags         Quiz
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        topic  formData  string  true  "Topic keyword"
// @Success      200  {object}  api.QuizResponse
// @Failure      400  {object}  api.ErrorResponse  "No notes for the topic"
// @Failure      429  {object}  api.ErrorResponse  "Generative service rate limit"
// @Failure      502  {object}  api.ErrorResponse  "Generation failed"
// @Router       /generate-quiz [post]
func (h *RequestHandler) GenerateQuizHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context(), h.logger) {
		return
	}

	result, err := h.service.HandleQuizRequest(r.Context(), r.FormValue("topic"))
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToQuizResponse(result))
}

// EvaluateAllHandler godoc
// @Summary      Grade answers
// @Description  Grades every answer against its reference. Results keep the request order.
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Param        request  body      api.EvaluateRequest  true  "Answers to grade"
// @Success      200      {object}  api.EvaluationResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      429      {object}  api.ErrorResponse
// @Router       /evaluate-all [post]
func (h *RequestHandler) EvaluateAllHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context(), h.logger) {
		return
	}

	var requestData api.EvaluateRequest
	if err := decodeBody(r.Body, &requestData); err != nil {
		h.logger.WithTrace(r.Context()).Warn("Bad evaluate request", "error", err)
		WriteFailure(w, http.StatusBadRequest, appErrors.KindBadRequest, "Bad Request")
		return
	}

	results, err := h.service.HandleEvaluationBatch(r.Context(), adapter.ToSubmissions(requestData))
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToEvaluationResponse(results))
}

// ChatHandler godoc
// @Summary      Chat with the tutor
// @Description  Answers from the notes, or writes a practice question when asked for one.
// @Tags         Tutor
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChatRequest  true  "User message"
// @Success      200      {object}  api.ChatResponse
// @Failure      400      {object}  api.ErrorResponse  "Missing user input"
// @Failure      500      {object}  api.ErrorResponse
// @Router       /chat [post]
func (h *RequestHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context(), h.logger) {
		return
	}

	var requestData api.ChatRequest
	if err := decodeBody(r.Body, &requestData); err != nil {
		WriteFailure(w, http.StatusBadRequest, appErrors.KindBadRequest, "Missing user input.")
		return
	}

	answer, err := h.service.HandleChat(r.Context(), requestData.Message)
	if err != nil {
		// the chat surface reports quota errors in band
		if appErrors.KindOf(err) == appErrors.KindRateLimited {
			writeJsonResponse(w, http.StatusOK, api.ChatResponse{Response: chatRateLimitedReply})
			return
		}
		WriteErrorResponse(w, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, api.ChatResponse{Response: answer})
}

func (h *RequestHandler) saveTemp(src io.Reader, name string) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o750); err != nil {
		return "", err
	}

	// the extension is kept, extraction picks the reader from it
	tempFilePath := filepath.Join(h.uploadDir, fmt.Sprintf("%d-%s", time.Now().UnixNano(), name))
	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		return "", err
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, src); err != nil {
		_ = os.Remove(tempFilePath)
		return "", err
	}
	return tempFilePath, nil
}

func decodeBody(body io.ReadCloser, into any) error {
	defer body.Close()
	return json.NewDecoder(body).Decode(into)
}
