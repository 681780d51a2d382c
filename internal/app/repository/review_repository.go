package repository

import (
	"strings"

	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/rotaguide/rota-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	WithTx(tx *gorm.DB) ReviewRepository
	Create(review *model.Review) error
	UpdateFields(id uint, rating int, comment string) error
	Delete(id uint) error
	FindByID(id uint) (*model.Review, error)
	FindByPlace(placeID uint) ([]model.Review, error)
	FindByUser(userID uint) ([]model.Review, error)
	Search(term string, limit int) ([]model.Review, error)
	RatingSummaries(placeIDs []uint) (map[uint]model.RatingSummary, error)
	Count() (int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) WithTx(tx *gorm.DB) ReviewRepository {
	return &reviewRepository{db: tx}
}

func (r *reviewRepository) Create(review *model.Review) error {
	logger.Debug("Creating review in database", map[string]interface{}{
		"place_id": review.PlaceID,
		"user_id":  review.UserID,
		"rating":   review.Rating,
	})

	if err := r.db.Omit("Images", "Place", "User").Create(review).Error; err != nil {
		logger.Error("Failed to create review in database", err, map[string]interface{}{
			"place_id": review.PlaceID,
			"user_id":  review.UserID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) UpdateFields(id uint, rating int, comment string) error {
	if err := r.db.Model(&model.Review{}).Where("id = ?", id).Updates(map[string]interface{}{
		"rating":  rating,
		"comment": comment,
	}).Error; err != nil {
		logger.Error("Failed to update review in database", err, map[string]interface{}{
			"review_id": id,
		})
		return err
	}
	return nil
}

// Delete removes the review and its images in one transaction.
func (r *reviewRepository) Delete(id uint) error {
	logger.Debug("Deleting review from database", map[string]interface{}{
		"review_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", id).Delete(&model.ReviewImage{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Review{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *reviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	if err := r.withAssociations(r.db).First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByPlace(placeID uint) ([]model.Review, error) {
	var reviews []model.Review
	if err := r.withAssociations(r.db).
		Where("place_id = ?", placeID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		logger.Error("Failed to find reviews by place", err, map[string]interface{}{
			"place_id": placeID,
		})
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) FindByUser(userID uint) ([]model.Review, error) {
	var reviews []model.Review
	if err := r.withAssociations(r.db).
		Preload("Place").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		logger.Error("Failed to find reviews by user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return reviews, nil
}

// Search matches term against the comment, the author's name or email and the place title.
func (r *reviewRepository) Search(term string, limit int) ([]model.Review, error) {
	query := r.withAssociations(r.db.Model(&model.Review{})).Preload("Place")

	if term = strings.TrimSpace(term); term != "" {
		like := likePattern(term)
		query = query.
			Joins("LEFT JOIN users ON users.id = reviews.user_id").
			Joins("LEFT JOIN places ON places.id = reviews.place_id").
			Where(
				r.db.Where("LOWER(reviews.comment) LIKE ? ESCAPE '\\'", like).
					Or("LOWER(users.name) LIKE ? ESCAPE '\\'", like).
					Or("LOWER(users.email) LIKE ? ESCAPE '\\'", like).
					Or("LOWER(places.title) LIKE ? ESCAPE '\\'", like),
			)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var reviews []model.Review
	if err := query.Order("reviews.created_at DESC").Find(&reviews).Error; err != nil {
		logger.Error("Failed to search reviews", err, map[string]interface{}{
			"term": term,
		})
		return nil, err
	}
	return reviews, nil
}

type ratingRow struct {
	PlaceID uint
	Average float64
	Count   int64
}

// RatingSummaries aggregates ratings for all given places in one grouped query.
// Places without reviews are absent from the map.
func (r *reviewRepository) RatingSummaries(placeIDs []uint) (map[uint]model.RatingSummary, error) {
	summaries := make(map[uint]model.RatingSummary, len(placeIDs))
	if len(placeIDs) == 0 {
		return summaries, nil
	}

	var rows []ratingRow
	if err := r.db.Model(&model.Review{}).
		Select("place_id, AVG(rating) AS average, COUNT(*) AS count").
		Where("place_id IN ?", placeIDs).
		Group("place_id").
		Scan(&rows).Error; err != nil {
		logger.Error("Failed to aggregate ratings", err, map[string]interface{}{
			"place_count": len(placeIDs),
		})
		return nil, err
	}

	for _, row := range rows {
		summaries[row.PlaceID] = model.RatingSummary{Average: row.Average, Count: row.Count}
	}
	return summaries, nil
}

func (r *reviewRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Review{}).Count(&count).Error
	return count, err
}

func (r *reviewRepository) withAssociations(query *gorm.DB) *gorm.DB {
	return query.
		Preload("User").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC").Order("id ASC")
		})
}
