package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/rotaguide/rota-backend/internal/app/service"
	apperrors "github.com/rotaguide/rota-backend/internal/errors"
	"github.com/rotaguide/rota-backend/internal/middleware"
)

type PlaceController struct {
	placeService service.PlaceService
}

func NewPlaceController(placeService service.PlaceService) *PlaceController {
	return &PlaceController{placeService: placeService}
}

const (
	defaultRadiusKm = 10.0
	maxRadiusKm     = 200.0
)

// filterFromQuery reads the listing filter parameters shared by the public and
// admin listings. It answers 400 and returns false on a malformed near/radius.
func filterFromQuery(c *gin.Context) (model.PlaceFilter, bool) {
	filter := model.PlaceFilter{
		City:       c.Query("city"),
		Category:   c.Query("category"),
		Query:      c.Query("q"),
		PriceRange: c.Query("price"),
		Meals:      model.ParseMeals(c.Query("meals")),
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}

	if near := c.Query("near"); near != "" {
		radius, err := parseNear(near, c.Query("radius_km"))
		if err != nil {
			apperrors.RespondWithFieldError(c, apperrors.ValidationInvalidRange, "near", err.Error())
			return filter, false
		}
		filter.Near = radius
	}
	return filter, true
}

// parseNear reads "lat,lng" and an optional radius in kilometres.
func parseNear(near, radius string) (*model.GeoRadius, error) {
	parts := strings.Split(near, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("near must be \"lat,lng\"")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, fmt.Errorf("latitude must be between -90 and 90")
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("longitude must be between -180 and 180")
	}

	geo := &model.GeoRadius{Latitude: lat, Longitude: lng, RadiusKm: defaultRadiusKm}
	if radius != "" {
		r, err := strconv.ParseFloat(radius, 64)
		if err != nil || r <= 0 || r > maxRadiusKm {
			return nil, fmt.Errorf("radius_km must be in (0, %g]", maxRadiusKm)
		}
		geo.RadiusKm = r
	}
	return geo, nil
}

// ListPlaces returns approved places matching the filter
// GET /api/v1/places
func (ctrl *PlaceController) ListPlaces(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	filter, ok := filterFromQuery(c)
	if !ok {
		return
	}

	listings, err := ctrl.placeService.ListPlaces(middleware.GetActor(c), filter)
	if err != nil {
		respondServiceError(c, err, "place")
		return
	}

	log.Debug("Places listed", map[string]interface{}{
		"count":    len(listings),
		"city":     filter.City,
		"category": filter.Category,
	})

	c.JSON(http.StatusOK, gin.H{
		"places": listings,
		"count":  len(listings),
	})
}

// GetPlace returns one place with images, rating summary and favorite flag
// GET /api/v1/places/:id
func (ctrl *PlaceController) GetPlace(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	listing, err := ctrl.placeService.GetPlace(middleware.GetActor(c), id)
	if err != nil {
		respondServiceError(c, err, "place")
		return
	}
	c.JSON(http.StatusOK, gin.H{"place": listing})
}

// CategoryCounts GET /api/v1/places/categories
func (ctrl *PlaceController) CategoryCounts(c *gin.Context) {
	counts, err := ctrl.placeService.CategoryCounts()
	if err != nil {
		respondServiceError(c, err, "place")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": counts})
}

type categorySchema struct {
	Category   model.Category       `json:"category"`
	Attributes []model.AttributeKey `json:"attributes"`
}

// AttributeSchema lists the attribute keys each category accepts, for form rendering.
// GET /api/v1/places/schema
func (ctrl *PlaceController) AttributeSchema(c *gin.Context) {
	schema := make([]categorySchema, 0, len(model.AllCategories))
	for _, category := range model.AllCategories {
		schema = append(schema, categorySchema{
			Category:   category,
			Attributes: model.ApplicableKeys(category),
		})
	}
	c.JSON(http.StatusOK, gin.H{"categories": schema})
}

// CheckExistence reports whether a place with the same title and city is already registered
// GET /api/v1/places/check?title=&city=
func (ctrl *PlaceController) CheckExistence(c *gin.Context) {
	title := strings.TrimSpace(c.Query("title"))
	city := strings.TrimSpace(c.Query("city"))
	if title == "" || city == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "title and city are required")
		return
	}

	place, err := ctrl.placeService.CheckExistence(title, city)
	if err != nil {
		respondServiceError(c, err, "place")
		return
	}
	if place == nil {
		c.JSON(http.StatusOK, gin.H{"exists": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"exists":   true,
		"place_id": place.ID,
	})
}

// CreatePlace submits a place for review
// POST /api/v1/places
func (ctrl *PlaceController) CreatePlace(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var draft model.PlaceDraft
	if !bindJSON(c, &draft) {
		return
	}

	place, err := ctrl.placeService.CreatePlace(actor, draft)
	if err != nil {
		respondServiceError(c, err, "place")
		return
	}

	log.Info("Place submitted", map[string]interface{}{
		"place_id": place.ID,
		"user_id":  actor.UserID,
	})
	c.JSON(http.StatusCreated, gin.H{"place": place})
}

// UpdatePlace PATCH /api/v1/places/:id
func (ctrl *PlaceController) UpdatePlace(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch model.PlacePatch
	if !bindJSON(c, &patch) {
		return
	}

	place, err := ctrl.placeService.UpdatePlace(actor, id, patch)
	if err != nil {
		respondServiceError(c, err, "place")
		return
	}
	c.JSON(http.StatusOK, gin.H{"place": place})
}

// DeletePlace DELETE /api/v1/places/:id
func (ctrl *PlaceController) DeletePlace(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.placeService.DeletePlace(actor, id); err != nil {
		respondServiceError(c, err, "place")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Place deleted"})
}

// MyPlaces lists the caller's submissions, pending ones included
// GET /api/v1/me/places
func (ctrl *PlaceController) MyPlaces(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	listings, err := ctrl.placeService.ListByOwner(actor.UserID)
	if err != nil {
		respondServiceError(c, err, "place")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"places": listings,
		"count":  len(listings),
	})
}
