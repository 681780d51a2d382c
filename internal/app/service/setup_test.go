package service

import (
	"testing"
	"time"

	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/rotaguide/rota-backend/internal/app/repository"
	"github.com/rotaguide/rota-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	owner    = model.Actor{UserID: 1, Role: model.RoleUser}
	stranger = model.Actor{UserID: 2, Role: model.RoleUser}
	admin    = model.Actor{UserID: 99, Role: model.RoleAdmin}
	guest    = model.Actor{}
)

type testEnv struct {
	db           *gorm.DB
	placeRepo    repository.PlaceRepository
	imageRepo    repository.PlaceImageRepository
	reviewRepo   repository.ReviewRepository
	reviewImages repository.ReviewImageRepository
	favoriteRepo repository.FavoriteRepository
	userRepo     repository.UserRepository

	places     PlaceService
	reviews    ReviewService
	favorites  FavoriteService
	search     SearchService
	admin      AdminService
	reconciler ImageReconciler
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	env := &testEnv{
		db:           testDB,
		placeRepo:    repository.NewPlaceRepository(testDB),
		imageRepo:    repository.NewPlaceImageRepository(testDB),
		reviewRepo:   repository.NewReviewRepository(testDB),
		reviewImages: repository.NewReviewImageRepository(testDB),
		favoriteRepo: repository.NewFavoriteRepository(testDB),
		userRepo:     repository.NewUserRepository(testDB),
	}
	env.places = NewPlaceService(testDB, env.placeRepo, env.imageRepo, env.reviewRepo, env.favoriteRepo, CatalogOptions{})
	env.reviews = NewReviewService(testDB, env.reviewRepo, env.reviewImages, env.placeRepo, DefaultMaxImages)
	env.favorites = NewFavoriteService(env.favoriteRepo, env.placeRepo)
	env.search = NewSearchService(env.placeRepo, DefaultSuggestMinQueryLen)
	env.admin = NewAdminService(env.places, env.placeRepo, env.reviewRepo, env.userRepo)
	env.reconciler = NewImageReconciler(testDB, env.imageRepo, DefaultMaxImages)

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

func cafeDraft(title, city string) model.PlaceDraft {
	return model.PlaceDraft{Title: title, Category: "CAFE", City: city, District: "Merkez"}
}

// createPlace stores a place through the service and optionally approves it.
func (e *testEnv) createPlace(t *testing.T, draft model.PlaceDraft, approved bool) *model.Place {
	t.Helper()
	place, err := e.places.CreatePlace(owner, draft)
	require.NoError(t, err)
	if approved {
		require.NoError(t, e.places.SetApproval(admin, place.ID, true))
		place.IsApproved = true
	}
	return place
}

// backdate moves a place's creation time so ordering tests do not depend on clock resolution.
func (e *testEnv) backdate(t *testing.T, placeID uint, d time.Duration) {
	t.Helper()
	require.NoError(t, e.db.Model(&model.Place{}).Where("id = ?", placeID).
		UpdateColumn("created_at", time.Now().Add(-d)).Error)
}

func imageRows(t *testing.T, conn *gorm.DB, placeID uint) map[string]uint {
	t.Helper()
	var images []model.PlaceImage
	require.NoError(t, conn.Where("place_id = ?", placeID).Order("id ASC").Find(&images).Error)
	rows := make(map[string]uint, len(images))
	for _, img := range images {
		rows[img.URL] = img.ID
	}
	return rows
}

func ptr[T any](v T) *T { return &v }
