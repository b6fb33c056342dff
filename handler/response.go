package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/wirekit/pkg/cookie"
	"github.com/dmitrymomot/wirekit/wire"
)

// Response renders itself into a wire response. A render error is passed to
// the endpoint's error handler.
type Response interface {
	Render(ctx *Context) (*wire.Response, error)
}

// ResponseFunc adapts a function to Response.
type ResponseFunc func(ctx *Context) (*wire.Response, error)

func (f ResponseFunc) Render(ctx *Context) (*wire.Response, error) {
	return f(ctx)
}

// JSONResponse is the envelope of every JSON body.
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

const mediaJSON = "application/json; charset=utf-8"

type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j *jsonResponse) Render(*Context) (*wire.Response, error) {
	data, err := json.Marshal(j.body)
	if err != nil {
		return nil, fmt.Errorf("handler: encode json response: %w", err)
	}
	return wire.NewResponse(j.status, mediaJSON, data), nil
}

// JSONOption configures a JSON response.
type JSONOption func(*jsonResponse)

// WithJSONStatus overrides the 200 default.
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// WithJSONMeta attaches metadata next to the data.
func WithJSONMeta(meta map[string]any) JSONOption {
	return func(r *jsonResponse) {
		r.body.Meta = meta
	}
}

// JSON wraps v in the {"data": ...} envelope. A JSONResponse is sent as is
// and an error is routed through the error handler.
func JSON(v any, opts ...JSONOption) Response {
	if err, ok := v.(error); ok {
		return Error(err)
	}
	r := &jsonResponse{status: http.StatusOK}
	if env, ok := v.(JSONResponse); ok {
		r.body = env
	} else {
		r.body.Data = v
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type staticResponse struct {
	status      int
	contentType string
	body        []byte
}

func (s staticResponse) Render(*Context) (*wire.Response, error) {
	if s.contentType == "" {
		return wire.Empty(s.status), nil
	}
	return wire.NewResponse(s.status, s.contentType, s.body), nil
}

// Empty answers 204 No Content.
func Empty() Response {
	return staticResponse{status: http.StatusNoContent}
}

// EmptyWithStatus answers status without a body.
func EmptyWithStatus(status int) Response {
	return staticResponse{status: status}
}

// Text answers 200 with a plain-text body.
func Text(s string) Response {
	return staticResponse{status: http.StatusOK, contentType: "text/plain; charset=utf-8", body: []byte(s)}
}

// HTML answers 200 with an HTML body.
func HTML(s string) Response {
	return staticResponse{status: http.StatusOK, contentType: "text/html; charset=utf-8", body: []byte(s)}
}

// Bytes answers 200 with raw bytes of contentType.
func Bytes(contentType string, b []byte) Response {
	if contentType == "" {
		contentType = wire.MediaOctetStream
	}
	return staticResponse{status: http.StatusOK, contentType: contentType, body: b}
}

type errorResponse struct {
	err error
}

func (e errorResponse) Render(*Context) (*wire.Response, error) {
	return nil, e.err
}

// Error defers to the endpoint's error handler.
func Error(err error) Response {
	if err == nil {
		err = ErrInternalServerError
	}
	return errorResponse{err: err}
}

// Result returns resp, or an error response when err is set.
func Result(resp Response, err error) Response {
	if err != nil {
		return Error(err)
	}
	return resp
}

// Async runs fn on its own goroutine with a cloned Context. The calling
// connection waits for the result or for its context to end.
func Async(fn func(ctx *Context) Response) Response {
	return ResponseFunc(func(ctx *Context) (*wire.Response, error) {
		type outcome struct {
			resp *wire.Response
			err  error
		}
		done := make(chan outcome, 1)
		clone := ctx.Clone()

		go func() {
			defer func() {
				if rec := recover(); rec != nil {
					done <- outcome{err: fmt.Errorf("%w: %v", ErrPanic, rec)}
				}
			}()
			r := fn(clone)
			if r == nil {
				done <- outcome{err: ErrNilResponse}
				return
			}
			resp, err := r.Render(clone)
			done <- outcome{resp: resp, err: err}
		}()

		select {
		case out := <-done:
			return out.resp, out.err
		case <-ctx.Done():
			return nil, fmt.Errorf("handler: async response abandoned: %w", ctx.Err())
		}
	})
}

// WithHeader sets a header on the rendered response.
func WithHeader(r Response, name, value string) Response {
	return ResponseFunc(func(ctx *Context) (*wire.Response, error) {
		resp, err := r.Render(ctx)
		if err != nil {
			return nil, err
		}
		resp.Header.Set(name, value)
		return resp, nil
	})
}

// WithCookie adds a Set-Cookie header to the rendered response.
func WithCookie(r Response, c cookie.Cookie) Response {
	return WithHeader(r, "Set-Cookie", c.String())
}
