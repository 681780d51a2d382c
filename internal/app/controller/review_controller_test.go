package controller

import (
	"net/http"
	"testing"

	apperrors "github.com/rotaguide/rota-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewController_Lifecycle(t *testing.T) {
	env := setupControllerTest(t)
	place := env.seedPlace(t, cafe("Kahve", "Izmir"), true)
	reviewsPath := pathID("/places/", place.ID, "/reviews")

	w := env.do(t, http.MethodPost, reviewsPath, 0, map[string]interface{}{"rating": 5})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, reviewsPath, strangerUser.ID, map[string]interface{}{"rating": 9})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, apperrors.ReviewInvalidRating, body["error"])
	assert.Equal(t, "rating", body["field"])

	w = env.do(t, http.MethodPost, reviewsPath, strangerUser.ID, map[string]interface{}{
		"rating":  4,
		"comment": "  güzel  ",
		"images":  []string{"https://cdn.example.com/r1.jpg"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	review := decode(t, w)["review"].(map[string]interface{})
	assert.Equal(t, "güzel", review["comment"])
	reviewID := uint(review["id"].(float64))
	reviewPath := pathID("/reviews/", reviewID, "")

	w = env.do(t, http.MethodGet, reviewsPath, 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["count"])

	w = env.do(t, http.MethodPut, reviewPath, ownerUser.ID, map[string]interface{}{"rating": 1})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperrors.AuthzAccessDenied, decode(t, w)["error"])

	w = env.do(t, http.MethodPut, reviewPath, strangerUser.ID, map[string]interface{}{"rating": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 3, decode(t, w)["review"].(map[string]interface{})["rating"])

	w = env.do(t, http.MethodGet, "/me/reviews", strangerUser.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["count"])

	w = env.do(t, http.MethodDelete, reviewPath, ownerUser.ID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodDelete, reviewPath, adminUser.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, reviewPath, adminUser.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.ReviewNotFound, decode(t, w)["error"])
}

func TestReviewController_PendingPlace(t *testing.T) {
	env := setupControllerTest(t)
	pending := env.seedPlace(t, cafe("Bekleyen", "Izmir"), false)

	w := env.do(t, http.MethodPost, pathID("/places/", pending.ID, "/reviews"), strangerUser.ID, map[string]interface{}{"rating": 5})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.PlaceNotFound, decode(t, w)["error"])
}
