package repository

import (
	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/rotaguide/rota-backend/pkg/logger"
	"gorm.io/gorm"
)

// PlaceImageRepository stores a place's photo set. Its URL methods take the
// place ID as owner so the image reconciler can drive it.
type PlaceImageRepository interface {
	WithTx(tx *gorm.DB) PlaceImageRepository
	CurrentURLs(placeID uint) ([]string, error)
	DeleteURLs(placeID uint, urls []string) (int64, error)
	InsertURLs(placeID uint, urls []string) error
	FindByPlace(placeID uint) ([]model.PlaceImage, error)
}

type placeImageRepository struct {
	db *gorm.DB
}

func NewPlaceImageRepository(db *gorm.DB) PlaceImageRepository {
	return &placeImageRepository{db: db}
}

func (r *placeImageRepository) WithTx(tx *gorm.DB) PlaceImageRepository {
	return &placeImageRepository{db: tx}
}

func (r *placeImageRepository) CurrentURLs(placeID uint) ([]string, error) {
	var urls []string
	if err := r.db.Model(&model.PlaceImage{}).
		Where("place_id = ?", placeID).
		Order("id ASC").
		Pluck("url", &urls).Error; err != nil {
		logger.Error("Failed to read place image urls", err, map[string]interface{}{
			"place_id": placeID,
		})
		return nil, err
	}
	return urls, nil
}

func (r *placeImageRepository) DeleteURLs(placeID uint, urls []string) (int64, error) {
	if len(urls) == 0 {
		return 0, nil
	}
	result := r.db.Where("place_id = ? AND url IN ?", placeID, urls).Delete(&model.PlaceImage{})
	if result.Error != nil {
		logger.Error("Failed to delete place images", result.Error, map[string]interface{}{
			"place_id": placeID,
			"count":    len(urls),
		})
		return 0, result.Error
	}
	logger.Debug("Place images deleted", map[string]interface{}{
		"place_id": placeID,
		"deleted":  result.RowsAffected,
	})
	return result.RowsAffected, nil
}

// InsertURLs inserts rows in the given order, so ids follow submission order.
func (r *placeImageRepository) InsertURLs(placeID uint, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	images := make([]model.PlaceImage, len(urls))
	for i, u := range urls {
		images[i] = model.PlaceImage{PlaceID: placeID, URL: u}
	}
	if err := r.db.Create(&images).Error; err != nil {
		logger.Error("Failed to insert place images", err, map[string]interface{}{
			"place_id": placeID,
			"count":    len(urls),
		})
		return err
	}
	logger.Debug("Place images inserted", map[string]interface{}{
		"place_id": placeID,
		"inserted": len(images),
	})
	return nil
}

func (r *placeImageRepository) FindByPlace(placeID uint) ([]model.PlaceImage, error) {
	var images []model.PlaceImage
	if err := r.db.Where("place_id = ?", placeID).Order("id ASC").Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}
