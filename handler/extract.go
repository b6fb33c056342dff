package handler

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrymomot/wirekit/file"
	"github.com/dmitrymomot/wirekit/pkg/account"
	"github.com/dmitrymomot/wirekit/pkg/multipart"
	"github.com/dmitrymomot/wirekit/pkg/session"
	"github.com/dmitrymomot/wirekit/store"
	"github.com/dmitrymomot/wirekit/wire"
)

// FromRequest builds a typed handler argument from the raw request.
type FromRequest[R any] func(req *wire.Request) (R, error)

// FromContext builds a typed handler argument from the request Context.
type FromContext[D any] func(ctx *Context) (D, error)

func extractionError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrExtraction, fmt.Sprintf(format, args...))
}

// JSON decodes a JSON body into T. When T (or *T) implements Validator the
// decoded value is validated as well.
func JSON[T any]() FromRequest[T] {
	return func(req *wire.Request) (T, error) {
		var v T
		if req.Body.Kind != wire.BodyJSON {
			return v, extractionError("expected a json body, got %s", req.Body.Kind)
		}
		if err := json.Unmarshal([]byte(req.Body.Text), &v); err != nil {
			return v, errors.Join(extractionError("invalid json"), err)
		}
		if err := validate(&v); err != nil {
			return v, err
		}
		return v, nil
	}
}

func validate(v any) error {
	if val, ok := v.(Validator); ok {
		return val.Validate()
	}
	return nil
}

// Raw passes the request through unchanged.
func Raw() FromRequest[*wire.Request] {
	return func(req *wire.Request) (*wire.Request, error) {
		return req, nil
	}
}

// Multipart returns the decoded form of a multipart body.
func Multipart() FromRequest[multipart.Form] {
	return func(req *wire.Request) (multipart.Form, error) {
		if req.Body.Kind != wire.BodyMultipart {
			return multipart.Form{}, extractionError("expected a multipart body, got %s", req.Body.Kind)
		}
		return multipart.NewForm(req.Body.Parts), nil
	}
}

// Text returns a textual body (json, html or raw bytes) as a string.
func Text() FromRequest[string] {
	return func(req *wire.Request) (string, error) {
		switch req.Body.Kind {
		case wire.BodyJSON, wire.BodyHTML:
			return req.Body.Text, nil
		case wire.BodyBytes:
			return string(req.Body.Bytes), nil
		case wire.BodyNone:
			return "", nil
		default:
			return "", extractionError("body of kind %s has no text form", req.Body.Kind)
		}
	}
}

// Accounts returns the account repository.
func Accounts() FromContext[store.Repository[account.Account]] {
	return func(ctx *Context) (store.Repository[account.Account], error) {
		if ctx.res.Accounts == nil {
			return nil, fmt.Errorf("%w: accounts", ErrNoResource)
		}
		return ctx.res.Accounts, nil
	}
}

// Sessions returns the session repository.
func Sessions() FromContext[store.Repository[session.Session]] {
	return func(ctx *Context) (store.Repository[session.Session], error) {
		if ctx.res.Sessions == nil {
			return nil, fmt.Errorf("%w: sessions", ErrNoResource)
		}
		return ctx.res.Sessions, nil
	}
}

// Tasks returns the background task enqueuer.
func Tasks() FromContext[Enqueuer] {
	return func(ctx *Context) (Enqueuer, error) {
		if ctx.res.Tasks == nil {
			return nil, fmt.Errorf("%w: tasks", ErrNoResource)
		}
		return ctx.res.Tasks, nil
	}
}

// Files returns the upload storage.
func Files() FromContext[file.Storage] {
	return func(ctx *Context) (file.Storage, error) {
		if ctx.res.Files == nil {
			return nil, fmt.Errorf("%w: files", ErrNoResource)
		}
		return ctx.res.Files, nil
	}
}

// Self passes the Context itself.
func Self() FromContext[*Context] {
	return func(ctx *Context) (*Context, error) {
		return ctx, nil
	}
}

// CurrentSession returns the attached session or ErrUnauthorized.
func CurrentSession() FromContext[session.Session] {
	return func(ctx *Context) (session.Session, error) {
		s, ok := ctx.Session()
		if !ok {
			return session.Session{}, ErrUnauthorized
		}
		return s, nil
	}
}

// CurrentAccount loads the account owning the attached session.
func CurrentAccount() FromContext[account.Account] {
	return func(ctx *Context) (account.Account, error) {
		s, ok := ctx.Session()
		if !ok {
			return account.Account{}, ErrUnauthorized
		}
		repo, err := Accounts()(ctx)
		if err != nil {
			return account.Account{}, err
		}
		a, err := repo.Get(ctx, store.By("id", s.AccountID.String()))
		if errors.Is(err, store.ErrNotFound) {
			return account.Account{}, ErrUnauthorized.WithMessage("account no longer exists")
		}
		return a, err
	}
}

// Pair holds two context-extracted values.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Both composes two context extractors. Nest it for more than two values.
func Both[A, B any](a FromContext[A], b FromContext[B]) FromContext[Pair[A, B]] {
	return func(ctx *Context) (Pair[A, B], error) {
		first, err := a(ctx)
		if err != nil {
			return Pair[A, B]{}, err
		}
		second, err := b(ctx)
		if err != nil {
			return Pair[A, B]{}, err
		}
		return Pair[A, B]{First: first, Second: second}, nil
	}
}
