package repository

import (
	"testing"

	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestReviewRepository_CRUD(t *testing.T) {
	testDB := setupRepositoryTest(t)
	p := insertPlace(t, NewPlaceRepository(testDB), model.Place{Title: "Kahve", City: "Izmir", IsApproved: true})
	repo := NewReviewRepository(testDB)
	images := NewReviewImageRepository(testDB)

	review := &model.Review{PlaceID: p.ID, UserID: 2, Rating: 4, Comment: "iyi"}
	require.NoError(t, repo.Create(review))
	require.NotZero(t, review.ID)

	require.NoError(t, images.InsertURLs(review.ID, []string{"https://cdn.example.com/b.jpg", "https://cdn.example.com/a.jpg"}))
	require.NoError(t, images.Reorder(review.ID, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}))

	require.NoError(t, repo.UpdateFields(review.ID, 2, "idare eder"))

	found, err := repo.FindByID(review.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.Rating)
	assert.Equal(t, "idare eder", found.Comment)
	require.NotNil(t, found.User)
	assert.Equal(t, "Mehmet", found.User.Name)
	require.Len(t, found.Images, 2)
	assert.Equal(t, "https://cdn.example.com/a.jpg", found.Images[0].URL)

	byPlace, err := repo.FindByPlace(p.ID)
	require.NoError(t, err)
	assert.Len(t, byPlace, 1)

	byUser, err := repo.FindByUser(2)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	require.NoError(t, repo.Delete(review.ID))
	_, err = repo.FindByID(review.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReviewRepository_RatingSummaries(t *testing.T) {
	testDB := setupRepositoryTest(t)
	places := NewPlaceRepository(testDB)
	a := insertPlace(t, places, model.Place{Title: "A", City: "Izmir", IsApproved: true})
	b := insertPlace(t, places, model.Place{Title: "B", City: "Izmir", IsApproved: true})
	repo := NewReviewRepository(testDB)

	for _, rating := range []int{5, 4} {
		require.NoError(t, repo.Create(&model.Review{PlaceID: a.ID, UserID: 1, Rating: rating}))
	}

	summaries, err := repo.RatingSummaries([]uint{a.ID, b.ID})
	require.NoError(t, err)
	assert.InDelta(t, 4.5, summaries[a.ID].Average, 1e-9)
	assert.EqualValues(t, 2, summaries[a.ID].Count)
	assert.Equal(t, model.RatingSummary{}, summaries[b.ID])

	empty, err := repo.RatingSummaries(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestReviewRepository_Search(t *testing.T) {
	testDB := setupRepositoryTest(t)
	places := NewPlaceRepository(testDB)
	kahve := insertPlace(t, places, model.Place{Title: "Kahve Evi", City: "Izmir", IsApproved: true})
	muze := insertPlace(t, places, model.Place{Title: "Muze", City: "Ankara", IsApproved: true})
	repo := NewReviewRepository(testDB)

	require.NoError(t, repo.Create(&model.Review{PlaceID: kahve.ID, UserID: 1, Rating: 5, Comment: "great coffee"}))
	require.NoError(t, repo.Create(&model.Review{PlaceID: muze.ID, UserID: 2, Rating: 3, Comment: "crowded"}))

	tests := []struct {
		term string
		want int
	}{
		{"", 2},
		{"COFFEE", 1},
		{"mehmet@", 1},
		{"kahve", 1},
		{"nothing", 0},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			reviews, err := repo.Search(tt.term, 10)
			require.NoError(t, err)
			assert.Len(t, reviews, tt.want)
		})
	}

	limited, err := repo.Search("", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
