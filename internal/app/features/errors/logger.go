package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger logs a failure with request context and then renders the
// matching error page, so handlers report and respond in one call.
type ErrorLogger struct {
	log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
}

// LogServerError logs msg at error level and renders a 500 page showing userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Error(msg, e.fields(r, err)...)
	RenderServerError(w, r, userMsg, backURL)
}

// LogBadRequest logs msg at warn level and renders a 400 page showing userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Warn(msg, e.fields(r, err)...)
	RenderBadRequest(w, r, userMsg, backURL)
}
