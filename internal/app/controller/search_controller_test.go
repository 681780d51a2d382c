package controller

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/rotaguide/rota-backend/internal/app/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchController_Suggestions(t *testing.T) {
	env := setupControllerTest(t)
	env.seedPlace(t, cafe("Çay Bahçesi", "İstanbul"), true)
	env.seedPlace(t, cafe("Gizli Çay", "İstanbul"), false)

	w := env.do(t, http.MethodGet, "/search/suggestions?q=cay", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got service.Suggestions
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Places, 1)
	assert.Equal(t, "Çay Bahçesi", got.Places[0].Title)

	w = env.do(t, http.MethodGet, "/search/suggestions?q=i", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cities":[],"categories":[],"places":[]}`, w.Body.String())
}
