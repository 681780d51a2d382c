package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/rotaguide/rota-backend/internal/app/service"
	apperrors "github.com/rotaguide/rota-backend/internal/errors"
	"github.com/rotaguide/rota-backend/internal/middleware"
)

// respondServiceError maps service errors onto the HTTP error contract:
// validation 400, access 403, missing 404, everything else 500.
func respondServiceError(c *gin.Context, err error, resource string) {
	log := middleware.GetLoggerFromContext(c)

	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		code := apperrors.ValidationInvalidInput
		switch verr.Field {
		case "images":
			code = apperrors.PlaceInvalidImage
		case "rating":
			code = apperrors.ReviewInvalidRating
		}
		apperrors.RespondWithFieldError(c, code, verr.Field, verr.Error())
	case errors.Is(err, service.ErrAdminOnly):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAdminOnly, "Admin access required")
	case errors.Is(err, service.ErrPlaceAccessDenied), errors.Is(err, service.ErrReviewAccessDenied):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAccessDenied, err.Error())
	case errors.Is(err, service.ErrPlaceNotFound):
		apperrors.NotFound(c, apperrors.PlaceNotFound, "Place not found")
	case errors.Is(err, service.ErrReviewNotFound):
		apperrors.NotFound(c, apperrors.ReviewNotFound, "Review not found")
	case errors.Is(err, service.ErrPersistence):
		log.Error("Persistence failure", err, map[string]interface{}{
			"resource": resource,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.InternalDatabaseError, "Storage error, please retry later")
	default:
		log.Error("Unhandled service error", err, map[string]interface{}{
			"resource": resource,
		})
		apperrors.RespondWithParsed(c, err, resource)
	}
}

// parseIDParam reads a positive numeric path parameter and answers 400 otherwise.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// requireActor returns the authenticated caller or answers 401.
func requireActor(c *gin.Context) (model.Actor, bool) {
	actor := middleware.GetActor(c)
	if actor.UserID == 0 {
		apperrors.Unauthorized(c, "")
		return actor, false
	}
	return actor, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data: "+err.Error())
		return false
	}
	return true
}
