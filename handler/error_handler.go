package handler

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"net/http"

	"github.com/dmitrymomot/wirekit/pkg/logger"
	"github.com/dmitrymomot/wirekit/pkg/multipart"
	"github.com/dmitrymomot/wirekit/pkg/requestid"
	"github.com/dmitrymomot/wirekit/store"
	"github.com/dmitrymomot/wirekit/wire"
)

// ErrorHandler turns an error into the response sent to the client.
type ErrorHandler func(ctx *Context, err error) *wire.Response

// ErrorInfo is the classified form of an error.
type ErrorInfo struct {
	Status   int
	Code     string
	Message  string
	Details  map[string][]string
	LogLevel slog.Level
}

func isClientError(status int) bool {
	return status >= http.StatusBadRequest && status < http.StatusInternalServerError
}

func logLevel(status int) slog.Level {
	if isClientError(status) {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// Classify maps err onto the HTTP error taxonomy. Validation errors win over
// HTTPError, which wins over the package sentinels of the wire, multipart and
// store layers. Anything unrecognized is a 500 whose message is not exposed.
func Classify(err error) ErrorInfo {
	info := ErrorInfo{
		Status:  http.StatusInternalServerError,
		Code:    ErrInternalServerError.Key,
		Message: "internal server error",
	}

	var (
		validationErr ValidationError
		httpErr       HTTPError
	)
	switch {
	case errors.As(err, &validationErr):
		info.Status = http.StatusUnprocessableEntity
		info.Code = "validation_failed"
		info.Message = validationErr.Error()
		if len(validationErr) > 0 {
			info.Details = make(map[string][]string, len(validationErr))
			maps.Copy(info.Details, validationErr)
		}
	case errors.As(err, &httpErr):
		info.Status = httpErr.Code
		info.Code = httpErr.Key
		info.Message = httpErr.Message
		if info.Message == "" {
			info.Message = wire.StatusText(httpErr.Code)
		}
	case errors.Is(err, wire.ErrBodyTooLarge):
		info.Status = ErrPayloadTooLarge.Code
		info.Code = ErrPayloadTooLarge.Key
		info.Message = err.Error()
	case errors.Is(err, wire.ErrBadRequest),
		errors.Is(err, ErrExtraction),
		errors.Is(err, multipart.ErrMissingField):
		info.Status = ErrBadRequest.Code
		info.Code = ErrBadRequest.Key
		info.Message = err.Error()
	case errors.Is(err, store.ErrNotFound):
		info.Status = ErrNotFound.Code
		info.Code = ErrNotFound.Key
		info.Message = wire.StatusText(http.StatusNotFound)
	case errors.Is(err, store.ErrConflict):
		info.Status = ErrConflict.Code
		info.Code = ErrConflict.Key
		info.Message = wire.StatusText(http.StatusConflict)
	case errors.Is(err, context.DeadlineExceeded):
		info.Status = ErrGatewayTimeout.Code
		info.Code = ErrGatewayTimeout.Key
		info.Message = wire.StatusText(http.StatusGatewayTimeout)
	case errors.Is(err, context.Canceled):
		info.Status = ErrServiceUnavailable.Code
		info.Code = ErrServiceUnavailable.Key
		info.Message = wire.StatusText(http.StatusServiceUnavailable)
	}

	info.LogLevel = logLevel(info.Status)
	return info
}

// ErrorResponse renders info as a JSON error envelope.
func ErrorResponse(info ErrorInfo) *wire.Response {
	r := &jsonResponse{
		status: info.Status,
		body: JSONResponse{Error: &ErrorDetail{
			Code:    info.Code,
			Message: info.Message,
			Details: info.Details,
		}},
	}
	resp, err := r.Render(nil)
	if err != nil {
		return wire.Empty(info.Status)
	}
	return resp
}

// NewErrorHandler classifies, logs and renders errors. Client errors are
// logged at warn level, server errors at error level.
func NewErrorHandler(log *slog.Logger) ErrorHandler {
	return func(ctx *Context, err error) *wire.Response {
		info := Classify(err)
		l := log
		if l == nil {
			l = ctx.Logger()
		}
		l.LogAttrs(ctx, info.LogLevel, "request error",
			logger.RequestID(requestid.FromContext(ctx)),
			logger.Error(err),
			logger.Status(info.Status),
			logger.Component("handler"),
		)
		return ErrorResponse(info)
	}
}

// DefaultErrorHandler logs through the Context logger.
func DefaultErrorHandler(ctx *Context, err error) *wire.Response {
	return NewErrorHandler(nil)(ctx, err)
}
