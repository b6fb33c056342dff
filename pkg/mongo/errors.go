package mongo

import (
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

var (
	ErrConnect            = errors.New("mongo: failed to connect")
	ErrEmptyConnectionURL = errors.New("mongo: empty connection url, set MONGODB_URL")
	ErrHealthcheckFailed  = errors.New("mongo: healthcheck failed")
)

// IsDuplicateKeyError reports a unique index violation.
func IsDuplicateKeyError(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsNotFoundError reports an empty single-document result.
func IsNotFoundError(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
