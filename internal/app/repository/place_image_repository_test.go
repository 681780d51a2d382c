package repository

import (
	"testing"

	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceImageRepository(t *testing.T) {
	testDB := setupRepositoryTest(t)
	p := insertPlace(t, NewPlaceRepository(testDB), model.Place{Title: "Kahve", City: "Izmir"})
	repo := NewPlaceImageRepository(testDB)

	urls := []string{"https://cdn.example.com/c.jpg", "https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}
	require.NoError(t, repo.InsertURLs(p.ID, urls))
	require.NoError(t, repo.InsertURLs(p.ID, nil))

	current, err := repo.CurrentURLs(p.ID)
	require.NoError(t, err)
	assert.Equal(t, urls, current, "persisted order is insertion order")

	removed, err := repo.DeleteURLs(p.ID, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/missing.jpg"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	images, err := repo.FindByPlace(p.ID)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "https://cdn.example.com/c.jpg", images[0].URL)

	err = repo.InsertURLs(p.ID, []string{"https://cdn.example.com/c.jpg"})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestPlaceImageRepository_WithTxRollback(t *testing.T) {
	testDB := setupRepositoryTest(t)
	p := insertPlace(t, NewPlaceRepository(testDB), model.Place{Title: "Kahve", City: "Izmir"})
	repo := NewPlaceImageRepository(testDB)

	tx := testDB.Begin()
	require.NoError(t, repo.WithTx(tx).InsertURLs(p.ID, []string{"https://cdn.example.com/a.jpg"}))
	require.NoError(t, tx.Rollback().Error)

	current, err := repo.CurrentURLs(p.ID)
	require.NoError(t, err)
	assert.Empty(t, current)
}
