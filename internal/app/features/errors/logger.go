// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/trainhub/internal/app/system/apperr"
	"go.uber.org/zap"
)

// ErrorLogger pairs structured logging with envelope rendering so handlers
// never respond to a server error without a log line carrying the cause.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger around the app logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogServerError logs err with request context and writes a 500 envelope
// with the caller-safe message.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.log.Error(logMsg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	Render(w, http.StatusInternalServerError, userMsg)
}

// LogAppError logs err at a level matching its kind and writes the mapped
// envelope. Business errors (validation/not-found/forbidden/conflict) are
// expected outcomes and log at debug; everything else logs as a server error.
func (e *ErrorLogger) LogAppError(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	if _, classified := apperr.KindOf(err); classified {
		e.log.Debug(logMsg,
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))
		RenderAppError(w, err)
		return
	}
	e.LogServerError(w, r, logMsg, err, "An unexpected error occurred.")
}
