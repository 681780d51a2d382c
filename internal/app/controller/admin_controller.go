package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rotaguide/rota-backend/internal/app/service"
	"github.com/rotaguide/rota-backend/internal/middleware"
)

type AdminController struct {
	adminService service.AdminService
}

func NewAdminController(adminService service.AdminService) *AdminController {
	return &AdminController{adminService: adminService}
}

// ListPlaces returns every place, pending ones included
// GET /api/v1/admin/places
func (ctrl *AdminController) ListPlaces(c *gin.Context) {
	filter, ok := filterFromQuery(c)
	if !ok {
		return
	}
	listings, err := ctrl.adminService.ListAllPlaces(middleware.GetActor(c), filter)
	if err != nil {
		respondServiceError(c, err, "place")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"places": listings,
		"count":  len(listings),
	})
}

type ApprovalRequest struct {
	Approved *bool `json:"approved"`
}

// ApprovePlace sets the approval flag; an empty body approves.
// PATCH /api/v1/admin/places/:id/approve
func (ctrl *AdminController) ApprovePlace(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	actor := middleware.GetActor(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	approved := true
	if c.Request.ContentLength > 0 {
		var req ApprovalRequest
		if !bindJSON(c, &req) {
			return
		}
		if req.Approved != nil {
			approved = *req.Approved
		}
	}

	if err := ctrl.adminService.SetApproval(actor, id, approved); err != nil {
		respondServiceError(c, err, "place")
		return
	}

	log.Info("Place approval updated", map[string]interface{}{
		"place_id": id,
		"approved": approved,
		"admin_id": actor.UserID,
	})
	c.JSON(http.StatusOK, gin.H{
		"place_id":    id,
		"is_approved": approved,
	})
}

// Stats GET /api/v1/admin/stats
func (ctrl *AdminController) Stats(c *gin.Context) {
	stats, err := ctrl.adminService.Stats(middleware.GetActor(c))
	if err != nil {
		respondServiceError(c, err, "stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// SearchReviews GET /api/v1/admin/reviews?q=
func (ctrl *AdminController) SearchReviews(c *gin.Context) {
	reviews, err := ctrl.adminService.SearchReviews(middleware.GetActor(c), c.Query("q"))
	if err != nil {
		respondServiceError(c, err, "review")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// ListUsers GET /api/v1/admin/users
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	users, err := ctrl.adminService.ListUsers(middleware.GetActor(c))
	if err != nil {
		respondServiceError(c, err, "user")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}
