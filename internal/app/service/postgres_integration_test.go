//go:build integration

package service

import (
	"sync"
	"testing"

	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/rotaguide/rota-backend/internal/app/repository"
	"github.com/rotaguide/rota-backend/internal/db"
	apperrors "github.com/rotaguide/rota-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPostgresServiceTest(t *testing.T) *testEnv {
	t.Helper()
	conn := db.SetupPostgresTestDB(t)

	env := &testEnv{
		db:           conn,
		placeRepo:    repository.NewPlaceRepository(conn),
		imageRepo:    repository.NewPlaceImageRepository(conn),
		reviewRepo:   repository.NewReviewRepository(conn),
		reviewImages: repository.NewReviewImageRepository(conn),
		favoriteRepo: repository.NewFavoriteRepository(conn),
		userRepo:     repository.NewUserRepository(conn),
	}
	env.places = NewPlaceService(conn, env.placeRepo, env.imageRepo, env.reviewRepo, env.favoriteRepo, CatalogOptions{})
	env.reviews = NewReviewService(conn, env.reviewRepo, env.reviewImages, env.placeRepo, DefaultMaxImages)
	env.favorites = NewFavoriteService(env.favoriteRepo, env.placeRepo)
	env.search = NewSearchService(env.placeRepo, DefaultSuggestMinQueryLen)
	env.admin = NewAdminService(env.places, env.placeRepo, env.reviewRepo, env.userRepo)
	env.reconciler = NewImageReconciler(conn, env.imageRepo, DefaultMaxImages)

	for _, u := range []model.User{
		{ID: owner.UserID, Email: "owner@example.com", Name: "Owner", Role: model.RoleUser},
		{ID: stranger.UserID, Email: "stranger@example.com", Name: "Stranger", Role: model.RoleUser},
		{ID: admin.UserID, Email: "admin@example.com", Name: "Admin", Role: model.RoleAdmin},
	} {
		u := u
		require.NoError(t, env.userRepo.Upsert(&u))
	}
	return env
}

func TestPostgres_ReconcilePreservesRows(t *testing.T) {
	env := setupPostgresServiceTest(t)
	draft := cafeDraft("Kahve", "Izmir")
	draft.Images = []string{imgA, imgB, imgC, imgD}
	place := env.createPlace(t, draft, true)

	before := imageRows(t, env.db, place.ID)

	result, err := env.reconciler.ReconcilePlace(place.ID, []string{imgB, imgC, imgE})
	require.NoError(t, err)
	assert.True(t, result.Changed())

	after := imageRows(t, env.db, place.ID)
	assert.Len(t, after, 3)
	assert.Equal(t, before[imgB], after[imgB])
	assert.Equal(t, before[imgC], after[imgC])
	assert.NotContains(t, after, imgA)
}

func TestPostgres_ConcurrentFavoriteSet(t *testing.T) {
	env := setupPostgresServiceTest(t)
	place := env.createPlace(t, cafeDraft("Kahve", "Izmir"), true)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, err := env.favorites.Set(stranger, place.ID, true)
			assert.NoError(t, err)
			assert.True(t, state)
		}()
	}
	wg.Wait()

	count, err := env.favoriteRepo.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestPostgres_DuplicateImageMapsToConflict(t *testing.T) {
	env := setupPostgresServiceTest(t)
	place := env.createPlace(t, cafeDraft("Kahve", "Izmir"), true)

	require.NoError(t, env.imageRepo.InsertURLs(place.ID, []string{imgA}))
	err := env.imageRepo.InsertURLs(place.ID, []string{imgA})
	require.Error(t, err)
	assert.True(t, repository.IsUniqueViolation(err))

	info := apperrors.ParseError(err, "place")
	assert.Equal(t, 409, info.Status)
}
