package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/akolanti/FinalGuardian/internal/adapter"
	"github.com/akolanti/FinalGuardian/internal/api"
	"github.com/akolanti/FinalGuardian/internal/domain/appErrors"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are already out
		logger_i.NewLogger("ResponseWriter").Error("Error encoding response", "error", err)
	}
}

func validateContext(ctx context.Context, log *logger_i.Logger) bool {
	if err := ctx.Err(); err != nil {
		log.WithTrace(ctx).Warn("context error", "error", err)
		return false
	}
	return true
}

// WriteErrorResponse maps a pipeline error to its status and {error, code} body.
func WriteErrorResponse(w http.ResponseWriter, err error) {
	writeJsonResponse(w, appErrors.HTTPStatus(err), adapter.ToErrorResponse(err))
}

func WriteFailure(w http.ResponseWriter, httpCode int, kind appErrors.Kind, message string) {
	writeJsonResponse(w, httpCode, api.ErrorResponse{Error: message, Code: string(kind)})
}
