package repository

import (
	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/rotaguide/rota-backend/pkg/logger"
	"gorm.io/gorm"
)

// ReviewImageRepository stores a review's ordered photo set.
type ReviewImageRepository interface {
	WithTx(tx *gorm.DB) ReviewImageRepository
	CurrentURLs(reviewID uint) ([]string, error)
	DeleteURLs(reviewID uint, urls []string) (int64, error)
	InsertURLs(reviewID uint, urls []string) error
	Reorder(reviewID uint, urls []string) error
}

type reviewImageRepository struct {
	db *gorm.DB
}

func NewReviewImageRepository(db *gorm.DB) ReviewImageRepository {
	return &reviewImageRepository{db: db}
}

func (r *reviewImageRepository) WithTx(tx *gorm.DB) ReviewImageRepository {
	return &reviewImageRepository{db: tx}
}

func (r *reviewImageRepository) CurrentURLs(reviewID uint) ([]string, error) {
	var urls []string
	err := r.db.Model(&model.ReviewImage{}).
		Where("review_id = ?", reviewID).
		Order("position ASC").
		Order("id ASC").
		Pluck("url", &urls).Error
	return urls, err
}

func (r *reviewImageRepository) DeleteURLs(reviewID uint, urls []string) (int64, error) {
	if len(urls) == 0 {
		return 0, nil
	}
	result := r.db.Where("review_id = ? AND url IN ?", reviewID, urls).Delete(&model.ReviewImage{})
	return result.RowsAffected, result.Error
}

func (r *reviewImageRepository) InsertURLs(reviewID uint, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	images := make([]model.ReviewImage, len(urls))
	for i, u := range urls {
		images[i] = model.ReviewImage{ReviewID: reviewID, URL: u, Position: i}
	}
	if err := r.db.Create(&images).Error; err != nil {
		logger.Error("Failed to insert review images", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return err
	}
	return nil
}

// Reorder rewrites positions in place to match urls; rows are never recreated.
func (r *reviewImageRepository) Reorder(reviewID uint, urls []string) error {
	for i, u := range urls {
		if err := r.db.Model(&model.ReviewImage{}).
			Where("review_id = ? AND url = ?", reviewID, u).
			UpdateColumn("position", i).Error; err != nil {
			logger.Error("Failed to reorder review images", err, map[string]interface{}{
				"review_id": reviewID,
			})
			return err
		}
	}
	return nil
}
