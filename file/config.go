package file

import "context"

// Storage drivers.
const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// Config selects and configures the upload storage backend.
type Config struct {
	Driver       string `env:"FILE_DRIVER" envDefault:"local"`
	LocalRoot    string `env:"FILE_LOCAL_ROOT" envDefault:"./uploads"`
	LocalBaseURL string `env:"FILE_LOCAL_BASE_URL" envDefault:"/uploads/"`
	MaxBytes     int64  `env:"FILE_MAX_BYTES" envDefault:"5242880"`
	S3           S3Config
}

// S3Config holds the bucket settings for the s3 driver.
type S3Config struct {
	Bucket         string `env:"S3_BUCKET"`
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	Endpoint       string `env:"S3_ENDPOINT"`
	BaseURL        string `env:"S3_BASE_URL"`
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`
}

// New returns the Storage named by cfg.Driver.
func New(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Driver {
	case DriverLocal, "":
		return NewLocalStorage(cfg.LocalRoot, cfg.LocalBaseURL)
	case DriverS3:
		return NewS3Storage(ctx, cfg.S3)
	default:
		return nil, ErrUnknownDriver
	}
}
