package account

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/wirekit/file"
	"github.com/dmitrymomot/wirekit/handler"
	"github.com/dmitrymomot/wirekit/pkg/account"
	"github.com/dmitrymomot/wirekit/pkg/logger"
	"github.com/dmitrymomot/wirekit/pkg/queue"
)

// Queue names used by the module.
const (
	FileQueue    = "files"
	AccountQueue = "accounts"
)

// FileUploaded is enqueued for every stored upload.
type FileUploaded struct {
	AccountID   string `json:"account_id"`
	Field       string `json:"field"`
	Path        string `json:"path"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	SHA256      string `json:"sha256"`
}

// AccountRegistered is enqueued after a successful registration.
type AccountRegistered struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

// ErrUploadMissing is returned by the FileUploaded handler when the stored
// object is gone before the task runs.
var ErrUploadMissing = errors.New("account: uploaded file no longer exists")

// FileUploadedHandler confirms that the stored object still exists. A missing
// object fails the task so it is retried.
func FileUploadedHandler(storage file.Storage, log *slog.Logger) queue.Handler {
	log = log.With(logger.Component("account.files"))
	return queue.NewTaskHandler(func(ctx context.Context, ev FileUploaded) error {
		ok, err := storage.Exists(ctx, ev.Path)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUploadMissing
		}
		log.InfoContext(ctx, "upload processed",
			logger.AccountID(ev.AccountID),
			slog.String("path", ev.Path),
			slog.Int64("size", ev.Size),
		)
		return nil
	})
}

// AnnounceRegistration returns a registration hook that enqueues an
// AccountRegistered task. Enqueue failures are logged and do not fail the
// registration.
func AnnounceRegistration(tasks handler.Enqueuer, log *slog.Logger) func(context.Context, account.Account) {
	return func(ctx context.Context, a account.Account) {
		ev := AccountRegistered{AccountID: a.ID.String(), Email: a.Email}
		if _, err := tasks.Enqueue(ctx, ev, queue.WithQueue(AccountQueue)); err != nil {
			log.WarnContext(ctx, "registration event not enqueued",
				logger.AccountID(ev.AccountID), logger.Error(err))
		}
	}
}

// AccountRegisteredHandler records new accounts.
func AccountRegisteredHandler(log *slog.Logger) queue.Handler {
	log = log.With(logger.Component("account.events"))
	return queue.NewTaskHandler(func(ctx context.Context, ev AccountRegistered) error {
		log.InfoContext(ctx, "account registered", logger.AccountID(ev.AccountID))
		return nil
	})
}
