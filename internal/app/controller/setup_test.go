package controller

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/rotaguide/rota-backend/internal/app/repository"
	"github.com/rotaguide/rota-backend/internal/app/service"
	"github.com/rotaguide/rota-backend/internal/db"
	"github.com/rotaguide/rota-backend/internal/middleware"
	"github.com/stretchr/testify/require"
)

const testUserHeader = "X-Test-User"

var (
	ownerUser    = model.User{ID: 1, Email: "owner@example.com", Name: "Owner", Role: model.RoleUser}
	strangerUser = model.User{ID: 2, Email: "stranger@example.com", Name: "Stranger", Role: model.RoleUser}
	adminUser    = model.User{ID: 99, Email: "admin@example.com", Name: "Admin", Role: model.RoleAdmin}
)

type controllerEnv struct {
	router *gin.Engine
	places service.PlaceService
	users  map[uint]model.User
}

// setupControllerTest mounts every controller on a bare engine. The caller is
// chosen per request through testUserHeader; requests without it are guests.
func setupControllerTest(t *testing.T) *controllerEnv {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	placeRepo := repository.NewPlaceRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)
	favoriteRepo := repository.NewFavoriteRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)

	placeService := service.NewPlaceService(testDB, placeRepo, repository.NewPlaceImageRepository(testDB), reviewRepo, favoriteRepo, service.CatalogOptions{})
	reviewService := service.NewReviewService(testDB, reviewRepo, repository.NewReviewImageRepository(testDB), placeRepo, service.DefaultMaxImages)

	env := &controllerEnv{
		places: placeService,
		users:  map[uint]model.User{},
	}
	for _, u := range []model.User{ownerUser, strangerUser, adminUser} {
		u := u
		require.NoError(t, userRepo.Upsert(&u))
		env.users[u.ID] = u
	}

	pc := NewPlaceController(placeService)
	rc := NewReviewController(reviewService)
	fc := NewFavoriteController(service.NewFavoriteService(favoriteRepo, placeRepo))
	sc := NewSearchController(service.NewSearchService(placeRepo, service.DefaultSuggestMinQueryLen))
	ac := NewAdminController(service.NewAdminService(placeService, placeRepo, reviewRepo, userRepo))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id, err := strconv.ParseUint(c.GetHeader(testUserHeader), 10, 64); err == nil {
			u := env.users[uint(id)]
			c.Set(middleware.UserIDKey, u.ID)
			c.Set(middleware.UserRoleKey, u.Role)
		}
		c.Next()
	})

	r.GET("/places", pc.ListPlaces)
	r.GET("/places/categories", pc.CategoryCounts)
	r.GET("/places/schema", pc.AttributeSchema)
	r.GET("/places/check", pc.CheckExistence)
	r.GET("/places/:id", pc.GetPlace)
	r.POST("/places", pc.CreatePlace)
	r.PATCH("/places/:id", pc.UpdatePlace)
	r.DELETE("/places/:id", pc.DeletePlace)
	r.GET("/places/:id/reviews", rc.ListPlaceReviews)
	r.POST("/places/:id/reviews", rc.CreateReview)
	r.PUT("/reviews/:id", rc.UpdateReview)
	r.DELETE("/reviews/:id", rc.DeleteReview)
	r.GET("/me/places", pc.MyPlaces)
	r.GET("/me/reviews", rc.MyReviews)
	r.POST("/favorites", fc.ToggleFavorite)
	r.GET("/favorites", fc.ListFavorites)
	r.GET("/search/suggestions", sc.Suggestions)
	r.GET("/admin/places", ac.ListPlaces)
	r.PATCH("/admin/places/:id/approve", ac.ApprovePlace)
	r.GET("/admin/stats", ac.Stats)

	env.router = r
	return env
}

// do sends a request as the given user; a zero user id means a guest.
func (e *controllerEnv) do(t *testing.T, method, path string, userID uint, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		req.Header.Set(testUserHeader, strconv.FormatUint(uint64(userID), 10))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *controllerEnv) seedPlace(t *testing.T, draft model.PlaceDraft, approved bool) *model.Place {
	t.Helper()
	place, err := e.places.CreatePlace(model.Actor{UserID: ownerUser.ID, Role: ownerUser.Role}, draft)
	require.NoError(t, err)
	if approved {
		require.NoError(t, e.places.SetApproval(model.Actor{UserID: adminUser.ID, Role: model.RoleAdmin}, place.ID, true))
	}
	return place
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func pathID(prefix string, id uint, suffix string) string {
	return prefix + strconv.FormatUint(uint64(id), 10) + suffix
}
