package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rotaguide/rota-backend/internal/app/service"
)

type SearchController struct {
	searchService service.SearchService
}

func NewSearchController(searchService service.SearchService) *SearchController {
	return &SearchController{searchService: searchService}
}

// Suggestions returns city, category and place suggestions for a partial query.
// Short queries yield empty buckets, not an error.
// GET /api/v1/search/suggestions?q=
func (ctrl *SearchController) Suggestions(c *gin.Context) {
	suggestions, err := ctrl.searchService.Suggest(c.Query("q"))
	if err != nil {
		respondServiceError(c, err, "suggestion")
		return
	}
	c.JSON(http.StatusOK, suggestions)
}
