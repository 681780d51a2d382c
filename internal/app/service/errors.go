package service

import (
	"errors"
	"fmt"

	"github.com/rotaguide/rota-backend/pkg/logger"
)

var (
	ErrPlaceNotFound      = errors.New("place not found")
	ErrPlaceAccessDenied  = errors.New("place access denied")
	ErrReviewNotFound     = errors.New("review not found")
	ErrReviewAccessDenied = errors.New("review access denied")
	ErrAdminOnly          = errors.New("admin capability required")

	// ErrPersistence hides storage failures from callers; details are logged.
	ErrPersistence = errors.New("persistence failure")
)

// persistenceError logs the storage error and returns a generic ErrPersistence.
func persistenceError(op string, err error, fields map[string]interface{}) error {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["operation"] = op
	logger.Error("Persistence operation failed", err, fields)
	return fmt.Errorf("%w: %s", ErrPersistence, op)
}
