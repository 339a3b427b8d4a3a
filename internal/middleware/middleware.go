package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/FinalGuardian/internal/metrics"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

type Options struct {
	// empty token disables bearer auth
	AuthToken string
	Limiter   *IPRateLimiter
}

// Chain runs trace injection, auth and the per-IP limiter in front of a handler.
type Chain struct {
	authToken string
	limiter   *IPRateLimiter
	logger    *logger_i.Logger
}

func New(opts Options) *Chain {
	if opts.Limiter == nil {
		opts.Limiter = NewDefaultIPRateLimiter()
	}
	return &Chain{
		authToken: opts.AuthToken,
		limiter:   opts.Limiter,
		logger:    logger_i.NewLogger("middleware"),
	}
}

func (c *Chain) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		defer func() {
			metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc()
		}()

		re := c.processRequest(requestResponseStruct{req: r, writer: rec, logger: c.logger})
		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)
	}
}

func (c *Chain) processRequest(re requestResponseStruct) requestResponseStruct {
	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re.logger.Debug("New request received", "path", re.req.URL.Path)
	re = c.authenticate(re)
	if re.badRequest.isBadRequest {
		return re
	}
	return c.rateLimiter(re)
}
