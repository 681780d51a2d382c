package repository

import (
	"testing"

	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_Upsert(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewUserRepository(testDB)

	require.NoError(t, repo.Upsert(&model.User{ID: 1, Email: "ayse@rota.example", Name: "Ayşe Y.", Role: model.RoleAdmin}))

	user, err := repo.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, "ayse@rota.example", user.Email)
	assert.Equal(t, "Ayşe Y.", user.Name)
	assert.True(t, user.IsAdmin())

	count, err := repo.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count, "upsert must not add a row")

	_, err = repo.FindByID(404)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_ListWithCounts(t *testing.T) {
	testDB := setupRepositoryTest(t)
	places := NewPlaceRepository(testDB)
	reviews := NewReviewRepository(testDB)
	favorites := NewFavoriteRepository(testDB)
	repo := NewUserRepository(testDB)

	a := insertPlace(t, places, model.Place{Title: "A", City: "Izmir", OwnerID: 1, IsApproved: true})
	insertPlace(t, places, model.Place{Title: "B", City: "Izmir", OwnerID: 1})
	require.NoError(t, reviews.Create(&model.Review{PlaceID: a.ID, UserID: 2, Rating: 5}))
	_, err := favorites.Insert(2, a.ID)
	require.NoError(t, err)

	users, err := repo.ListWithCounts(0)
	require.NoError(t, err)
	require.Len(t, users, 2)

	byID := map[uint]model.UserSummary{}
	for _, u := range users {
		byID[u.ID] = u
	}
	assert.EqualValues(t, 2, byID[1].PlaceCount)
	assert.EqualValues(t, 0, byID[1].ReviewCount)
	assert.EqualValues(t, 1, byID[2].ReviewCount)
	assert.EqualValues(t, 1, byID[2].FavoriteCount)
	assert.Equal(t, "mehmet@example.com", byID[2].Email)

	limited, err := repo.ListWithCounts(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
