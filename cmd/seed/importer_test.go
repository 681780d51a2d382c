package main

import (
	"testing"

	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/rotaguide/rota-backend/internal/app/repository"
	"github.com/rotaguide/rota-backend/internal/app/service"
	"github.com/rotaguide/rota-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	sheet := f.GetSheetName(0)
	header := []interface{}{"title", "category", "city", "district", "address", "lat", "lng", "description", "images"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cellName, &r))
	}
	return f
}

func TestReadDrafts(t *testing.T) {
	f := buildWorkbook(t, [][]interface{}{
		{"Kahve Durağı", "CAFE", "Izmir", "Konak", "Kordon 1", "38,42", "27.14", "sea view",
			"https://cdn.example.com/a.jpg; https://cdn.example.com/b.jpg;"},
		{"Short row", "CAFE"},
		{"Bad coords", "CAFE", "Izmir", "Konak", "", "north", "27.1"},
		{"No coords", "MUSEUM", "Ankara", "Ulus"},
	})

	drafts, lines, skipped, err := readDrafts(f)
	require.NoError(t, err)

	require.Len(t, drafts, 2)
	assert.Equal(t, []int{2, 5}, lines)

	first := drafts[0]
	assert.Equal(t, "Kahve Durağı", first.Title)
	assert.Equal(t, "Konak", first.District)
	require.NotNil(t, first.Latitude)
	assert.InDelta(t, 38.42, *first.Latitude, 1e-9)
	assert.InDelta(t, 27.14, *first.Longitude, 1e-9)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}, first.Images)

	assert.Nil(t, drafts[1].Latitude)
	assert.Empty(t, drafts[1].Images)

	require.Len(t, skipped, 2)
	assert.Equal(t, 3, skipped[0].Row)
	assert.Equal(t, "row 4: invalid coordinates", skipped[1].String())
}

func TestReadDrafts_HeaderOnly(t *testing.T) {
	f := buildWorkbook(t, nil)
	_, _, _, err := readDrafts(f)
	assert.Error(t, err)
}

func TestImportDrafts(t *testing.T) {
	conn, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(conn) })

	users := repository.NewUserRepository(conn)
	require.NoError(t, users.Upsert(&model.User{ID: seedUserID, Email: seedUserEmail, Role: model.RoleAdmin}))

	places := service.NewPlaceService(conn,
		repository.NewPlaceRepository(conn),
		repository.NewPlaceImageRepository(conn),
		repository.NewReviewRepository(conn),
		repository.NewFavoriteRepository(conn),
		service.CatalogOptions{},
	)
	actor := model.Actor{UserID: seedUserID, Role: model.RoleAdmin}

	drafts := []model.PlaceDraft{
		{Title: "Kahve Durağı", Category: "CAFE", City: "Izmir", District: "Konak"},
		{Title: "Nowhere", Category: "SPACESHIP", City: "Izmir", District: "Konak"},
		{Title: "Kahve Durağı", Category: "CAFE", City: "Izmir", District: "Bornova"},
	}

	summary, err := importDrafts(places, actor, drafts, []int{2, 3, 4}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Duplicates)
	require.Len(t, summary.Rejected, 1)
	assert.Equal(t, 3, summary.Rejected[0].Row)

	listed, err := places.ListPlaces(model.Actor{}, model.PlaceFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].IsApproved)

	// a second run only finds duplicates
	summary, err = importDrafts(places, actor, drafts[:1], []int{2}, false)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 1, summary.Duplicates)
}
