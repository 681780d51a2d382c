package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/rotaguide/rota-backend/internal/app/repository"
	"github.com/rotaguide/rota-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewService interface {
	CreateReview(actor model.Actor, placeID uint, input model.CreateReviewInput) (*model.Review, error)
	UpdateReview(actor model.Actor, reviewID uint, input model.UpdateReviewInput) (*model.Review, error)
	DeleteReview(actor model.Actor, reviewID uint) error
	ListByPlace(viewer model.Actor, placeID uint) ([]model.Review, error)
	ListByUser(userID uint) ([]model.Review, error)
}

type reviewService struct {
	db        *gorm.DB
	reviews   repository.ReviewRepository
	images    repository.ReviewImageRepository
	places    repository.PlaceRepository
	maxImages int
}

func NewReviewService(
	db *gorm.DB,
	reviews repository.ReviewRepository,
	images repository.ReviewImageRepository,
	places repository.PlaceRepository,
	maxImages int,
) ReviewService {
	if maxImages <= 0 {
		maxImages = DefaultMaxImages
	}
	return &reviewService{db: db, reviews: reviews, images: images, places: places, maxImages: maxImages}
}

// CreateReview accepts reviews on approved places; the owner and admins may
// also review a place that is still pending.
func (s *reviewService) CreateReview(actor model.Actor, placeID uint, input model.CreateReviewInput) (*model.Review, error) {
	logger.Info("Creating review", map[string]interface{}{
		"place_id": placeID,
		"user_id":  actor.UserID,
		"rating":   input.Rating,
	})

	if _, err := s.visiblePlace(actor, placeID); err != nil {
		return nil, err
	}
	if !model.ValidRating(input.Rating) {
		return nil, model.NewValidationError("rating", fmt.Sprintf("must be between %d and %d", model.MinRating, model.MaxRating))
	}
	images, err := PrepareImageList(input.Images, s.maxImages)
	if err != nil {
		return nil, err
	}

	review := &model.Review{
		PlaceID: placeID,
		UserID:  actor.UserID,
		Rating:  input.Rating,
		Comment: strings.TrimSpace(input.Comment),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.reviews.WithTx(tx).Create(review); err != nil {
			return err
		}
		return s.images.WithTx(tx).InsertURLs(review.ID, images)
	})
	if err != nil {
		return nil, persistenceError("create review", err, map[string]interface{}{"place_id": placeID})
	}

	return s.reload(review.ID)
}

// UpdateReview is restricted to the author. Rating, comment and image changes
// commit together.
func (s *reviewService) UpdateReview(actor model.Actor, reviewID uint, input model.UpdateReviewInput) (*model.Review, error) {
	review, err := s.findReview(reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != actor.UserID {
		logger.Warn("Review update denied", map[string]interface{}{
			"review_id": reviewID,
			"actor_id":  actor.UserID,
		})
		return nil, ErrReviewAccessDenied
	}

	rating, comment := review.Rating, review.Comment
	if input.Rating != nil {
		if !model.ValidRating(*input.Rating) {
			return nil, model.NewValidationError("rating", fmt.Sprintf("must be between %d and %d", model.MinRating, model.MaxRating))
		}
		rating = *input.Rating
	}
	if input.Comment != nil {
		comment = strings.TrimSpace(*input.Comment)
	}

	var images []string
	if input.Images != nil {
		if images, err = PrepareImageList(*input.Images, s.maxImages); err != nil {
			return nil, err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.reviews.WithTx(tx).UpdateFields(reviewID, rating, comment); err != nil {
			return err
		}
		if input.Images == nil {
			return nil
		}
		_, err := ApplyImageSet(s.images.WithTx(tx), reviewID, images)
		return err
	})
	if err != nil {
		return nil, persistenceError("update review", err, map[string]interface{}{"review_id": reviewID})
	}

	logger.Info("Review updated", map[string]interface{}{
		"review_id": reviewID,
	})
	return s.reload(reviewID)
}

func (s *reviewService) DeleteReview(actor model.Actor, reviewID uint) error {
	review, err := s.findReview(reviewID)
	if err != nil {
		return err
	}
	if !actor.CanModify(review.UserID) {
		return ErrReviewAccessDenied
	}

	if err := s.reviews.Delete(reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return persistenceError("delete review", err, map[string]interface{}{"review_id": reviewID})
	}

	logger.Info("Review deleted", map[string]interface{}{
		"review_id": reviewID,
		"actor_id":  actor.UserID,
	})
	return nil
}

func (s *reviewService) ListByPlace(viewer model.Actor, placeID uint) ([]model.Review, error) {
	if _, err := s.visiblePlace(viewer, placeID); err != nil {
		return nil, err
	}
	reviews, err := s.reviews.FindByPlace(placeID)
	if err != nil {
		return nil, persistenceError("list reviews", err, map[string]interface{}{"place_id": placeID})
	}
	return reviews, nil
}

func (s *reviewService) ListByUser(userID uint) ([]model.Review, error) {
	reviews, err := s.reviews.FindByUser(userID)
	if err != nil {
		return nil, persistenceError("list user reviews", err, map[string]interface{}{"user_id": userID})
	}
	return reviews, nil
}

func (s *reviewService) visiblePlace(viewer model.Actor, placeID uint) (*model.Place, error) {
	place, err := s.places.FindByID(placeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlaceNotFound
		}
		return nil, persistenceError("find place", err, map[string]interface{}{"place_id": placeID})
	}
	if !place.IsApproved && !viewer.CanModify(place.OwnerID) {
		return nil, ErrPlaceNotFound
	}
	return place, nil
}

func (s *reviewService) findReview(id uint) (*model.Review, error) {
	review, err := s.reviews.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, persistenceError("find review", err, map[string]interface{}{"review_id": id})
	}
	return review, nil
}

func (s *reviewService) reload(id uint) (*model.Review, error) {
	review, err := s.reviews.FindByID(id)
	if err != nil {
		return nil, persistenceError("reload review", err, map[string]interface{}{"review_id": id})
	}
	return review, nil
}
