package account

import (
	"errors"
	"log/slog"
	"net/http"
	"path"

	"github.com/dmitrymomot/wirekit/file"
	"github.com/dmitrymomot/wirekit/handler"
	"github.com/dmitrymomot/wirekit/pkg/multipart"
	"github.com/dmitrymomot/wirekit/pkg/queue"
)

// UploadsDir is the storage directory uploads are grouped under, one
// subdirectory per account.
const UploadsDir = "uploads"

// StoredFile pairs a stored object with the ticket of its follow-up task.
type StoredFile struct {
	File   file.Object  `json:"file"`
	Ticket queue.Ticket `json:"ticket"`
}

type uploadResources = handler.Pair[file.Storage, handler.Enqueuer]

func uploadDeps() handler.FromContext[uploadResources] {
	return handler.Both(handler.Files(), handler.Tasks())
}

// upload stores every file part of the form and enqueues one FileUploaded
// task per stored file. Parts are checked before anything is written.
func (m *Module) upload(ctx *handler.Context, form multipart.Form, deps uploadResources) handler.Response {
	s, ok := ctx.Session()
	if !ok {
		return handler.Error(handler.ErrUnauthorized)
	}

	var files []multipart.Part
	for _, p := range form.Parts {
		if !p.IsFile() {
			continue
		}
		if err := file.ValidateSize(p, m.maxFileBytes); err != nil {
			return handler.Error(uploadError(err))
		}
		if err := file.ValidateType(p, m.allowedTypes...); err != nil {
			return handler.Error(uploadError(err))
		}
		files = append(files, p)
	}
	if len(files) == 0 {
		verr := handler.NewValidationError()
		verr.Add("file", "at least one file part is required")
		return handler.Error(verr)
	}

	storage, tasks := deps.First, deps.Second
	dir := path.Join(UploadsDir, s.AccountID.String())
	out := make([]StoredFile, 0, len(files))
	for _, p := range files {
		obj, err := storage.Save(ctx, p, dir)
		if err != nil {
			return handler.Error(uploadError(err))
		}
		ticket, err := tasks.Enqueue(ctx, FileUploaded{
			AccountID:   s.AccountID.String(),
			Field:       p.FormName(),
			Path:        obj.Path,
			Name:        obj.Name,
			ContentType: obj.ContentType,
			Size:        obj.Size,
			SHA256:      obj.SHA256,
		}, queue.WithQueue(m.fileQueue))
		if err != nil {
			return handler.Error(err)
		}
		out = append(out, StoredFile{File: obj, Ticket: ticket})
	}

	ctx.Logger().InfoContext(ctx, "files stored", slog.Int("count", len(out)))
	return handler.JSON(out, handler.WithJSONStatus(http.StatusCreated))
}

func uploadError(err error) error {
	switch {
	case errors.Is(err, file.ErrFileTooLarge):
		return handler.ErrPayloadTooLarge.WithMessage(err.Error())
	case errors.Is(err, file.ErrTypeNotAllowed):
		return handler.ErrUnsupportedMediaType.WithMessage(err.Error())
	case errors.Is(err, file.ErrInvalidPath), errors.Is(err, file.ErrNotAFile):
		return handler.ErrBadRequest.WithMessage(err.Error())
	default:
		return err
	}
}
