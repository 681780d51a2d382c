package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrorInfo is the client-safe rendering of an internal error.
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

// Postgres SQLSTATE codes we translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ParseError converts a storage or transport error into a status, code and
// message that reveal nothing about the schema. resource names what the
// request was about ("place", "review", ...).
func ParseError(err error, resource string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: "Internal server error"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(resource)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrorInfo{Status: http.StatusConflict, Code: ResourceAlreadyExists, Message: "Resource already exists"}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fromPgError(pgErr, resource)
	}

	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "duplicate key"), strings.Contains(lower, "unique constraint"):
		return ErrorInfo{Status: http.StatusConflict, Code: ResourceAlreadyExists, Message: "Resource already exists"}
	case strings.Contains(lower, "foreign key constraint"):
		return ErrorInfo{Status: http.StatusConflict, Code: ResourceConflict, Message: "Referenced data does not exist or is still in use"}
	case strings.Contains(lower, "connection refused"),
		strings.Contains(lower, "no such host"),
		strings.Contains(lower, "timeout"):
		return ErrorInfo{Status: http.StatusBadGateway, Code: InternalExternalAPI, Message: "Upstream service unavailable, please retry later"}
	}

	return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: "Internal server error"}
}

func fromPgError(pgErr *pgconn.PgError, resource string) ErrorInfo {
	constraint := strings.ToLower(pgErr.ConstraintName)

	switch pgErr.Code {
	case pgUniqueViolation:
		switch {
		case strings.Contains(constraint, "idx_favorite_user_place"):
			return ErrorInfo{Status: http.StatusConflict, Code: ResourceAlreadyExists, Message: "Place is already a favorite"}
		case strings.Contains(constraint, "image_url"):
			return ErrorInfo{Status: http.StatusConflict, Code: PlaceInvalidImage, Message: "Duplicate image URL"}
		}
		return ErrorInfo{Status: http.StatusConflict, Code: ResourceAlreadyExists, Message: "Resource already exists"}
	case pgForeignKeyViolation:
		return ErrorInfo{Status: http.StatusConflict, Code: ResourceConflict, Message: "Referenced data does not exist or is still in use"}
	case pgNotNullViolation:
		return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationRequired, Message: "Missing required field: " + pgErr.ColumnName}
	case pgCheckViolation:
		if strings.Contains(constraint, "rating") {
			return ErrorInfo{Status: http.StatusBadRequest, Code: ReviewInvalidRating, Message: "Rating must be between 1 and 5"}
		}
		return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationInvalidInput, Message: "Invalid input"}
	}

	return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalDatabaseError, Message: "Database error while handling " + resourceOrDefault(resource)}
}

func notFound(resource string) ErrorInfo {
	switch strings.ToLower(resource) {
	case "place":
		return ErrorInfo{Status: http.StatusNotFound, Code: PlaceNotFound, Message: "Place not found"}
	case "review":
		return ErrorInfo{Status: http.StatusNotFound, Code: ReviewNotFound, Message: "Review not found"}
	}
	return ErrorInfo{Status: http.StatusNotFound, Code: ResourceNotFound, Message: "Requested " + resourceOrDefault(resource) + " not found"}
}

func resourceOrDefault(resource string) string {
	if resource == "" {
		return "resource"
	}
	return resource
}
