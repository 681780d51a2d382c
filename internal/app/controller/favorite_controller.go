package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rotaguide/rota-backend/internal/app/service"
	"github.com/rotaguide/rota-backend/internal/middleware"
)

type FavoriteController struct {
	favoriteService service.FavoriteService
}

func NewFavoriteController(favoriteService service.FavoriteService) *FavoriteController {
	return &FavoriteController{favoriteService: favoriteService}
}

// FavoriteRequest toggles when Favorite is omitted and sets the state otherwise.
type FavoriteRequest struct {
	PlaceID  uint  `json:"place_id" binding:"required"`
	Favorite *bool `json:"favorite"`
}

// ToggleFavorite POST /api/v1/favorites
func (ctrl *FavoriteController) ToggleFavorite(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req FavoriteRequest
	if !bindJSON(c, &req) {
		return
	}

	var (
		state bool
		err   error
	)
	if req.Favorite == nil {
		state, err = ctrl.favoriteService.Toggle(actor, req.PlaceID)
	} else {
		state, err = ctrl.favoriteService.Set(actor, req.PlaceID, *req.Favorite)
	}
	if err != nil {
		respondServiceError(c, err, "place")
		return
	}

	log.Info("Favorite updated", map[string]interface{}{
		"user_id":  actor.UserID,
		"place_id": req.PlaceID,
		"favorite": state,
	})
	c.JSON(http.StatusOK, gin.H{
		"place_id":    req.PlaceID,
		"is_favorite": state,
	})
}

// ListFavorites GET /api/v1/favorites
func (ctrl *FavoriteController) ListFavorites(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	favorites, err := ctrl.favoriteService.ListByUser(actor.UserID)
	if err != nil {
		respondServiceError(c, err, "favorite")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"favorites": favorites,
		"count":     len(favorites),
	})
}
