package middleware

import (
	"fmt"
	"net/http"

	"github.com/akolanti/FinalGuardian/internal/config"
	"github.com/getsentry/sentry-go"
)

// Sentry opens one transaction per request and reports panics and 5xx
// responses. Without sentry.Init the hub has no client and nothing is sent.
func Sentry(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub := sentry.GetHubFromContext(r.Context())
		if hub == nil {
			hub = sentry.CurrentHub().Clone()
		}

		transaction := sentry.StartTransaction(r.Context(), fmt.Sprintf("%s %s", r.Method, r.URL.Path),
			sentry.WithOpName("http.server"),
			sentry.WithTransactionSource(sentry.SourceURL),
		)
		defer transaction.Finish()

		ctx := sentry.SetHubOnContext(transaction.Context(), hub)
		r = r.WithContext(ctx)

		defer func() {
			if err := recover(); err != nil {
				transaction.Status = sentry.SpanStatusInternalError
				hub.RecoverWithContext(r.Context(), err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()

		rec := &sentryResponseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		// the trace id is set by the handler chain, read it back off the response
		if trace := rec.Header().Get("X-Trace-Id"); trace != "" {
			hub.Scope().SetTag(config.TRACE_ID_KEY, trace)
		}
		transaction.SetData("http.response.status_code", rec.status)
		if rec.status >= http.StatusInternalServerError {
			transaction.Status = sentry.SpanStatusInternalError
			hub.CaptureMessage(fmt.Sprintf("HTTP %d: %s %s", rec.status, r.Method, r.URL.Path))
		} else {
			transaction.Status = sentry.SpanStatusOK
		}
	})
}

type sentryResponseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *sentryResponseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
