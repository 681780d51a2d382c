package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/rotaguide/rota-backend/internal/app/service"
	"github.com/rotaguide/rota-backend/internal/middleware"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

// ListPlaceReviews GET /api/v1/places/:id/reviews
func (ctrl *ReviewController) ListPlaceReviews(c *gin.Context) {
	placeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reviews, err := ctrl.reviewService.ListByPlace(middleware.GetActor(c), placeID)
	if err != nil {
		respondServiceError(c, err, "review")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// CreateReview POST /api/v1/places/:id/reviews
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	placeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input model.CreateReviewInput
	if !bindJSON(c, &input) {
		return
	}

	review, err := ctrl.reviewService.CreateReview(actor, placeID, input)
	if err != nil {
		respondServiceError(c, err, "review")
		return
	}

	log.Info("Review created", map[string]interface{}{
		"review_id": review.ID,
		"place_id":  placeID,
		"user_id":   actor.UserID,
	})
	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// UpdateReview PUT /api/v1/reviews/:id
func (ctrl *ReviewController) UpdateReview(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input model.UpdateReviewInput
	if !bindJSON(c, &input) {
		return
	}

	review, err := ctrl.reviewService.UpdateReview(actor, reviewID, input)
	if err != nil {
		respondServiceError(c, err, "review")
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": review})
}

// DeleteReview DELETE /api/v1/reviews/:id
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.reviewService.DeleteReview(actor, reviewID); err != nil {
		respondServiceError(c, err, "review")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}

// MyReviews GET /api/v1/me/reviews
func (ctrl *ReviewController) MyReviews(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	reviews, err := ctrl.reviewService.ListByUser(actor.UserID)
	if err != nil {
		respondServiceError(c, err, "review")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}
