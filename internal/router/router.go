package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/rotaguide/rota-backend/config"
	"github.com/rotaguide/rota-backend/internal/app/controller"
	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/rotaguide/rota-backend/internal/middleware"
)

// Controllers groups the HTTP handlers the router mounts.
type Controllers struct {
	Place    *controller.PlaceController
	Review   *controller.ReviewController
	Favorite *controller.FavoriteController
	Search   *controller.SearchController
	Admin    *controller.AdminController
	Upload   *controller.UploadController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	userSyncer     middleware.UserSyncer
	config         *config.Config
}

func NewRouter(
	controllers Controllers,
	authMiddleware *middleware.AuthMiddleware,
	userSyncer middleware.UserSyncer,
	cfg *config.Config,
) *Router {
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		userSyncer:     userSyncer,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(cors.New(corsConfig(r.config.CORS.AllowedOrigins)))

	if r.config.Server.EnablePprof {
		pprof.Register(router)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Rota API is running",
		})
	})

	optional := r.authMiddleware.OptionalAuthenticate()
	authed := r.authenticated()
	admin := r.authenticated(r.authMiddleware.RequireRole(model.RoleAdmin))

	v1 := router.Group("/api/v1")
	{
		places := v1.Group("/places")
		{
			pc, rc := r.controllers.Place, r.controllers.Review

			places.GET("", optional, pc.ListPlaces)
			places.GET("/categories", pc.CategoryCounts)
			places.GET("/schema", pc.AttributeSchema)
			places.GET("/check", pc.CheckExistence)
			places.GET("/:id", optional, pc.GetPlace)
			places.POST("", r.authenticated(pc.CreatePlace)...)
			places.PATCH("/:id", r.authenticated(pc.UpdatePlace)...)
			places.DELETE("/:id", r.authenticated(pc.DeletePlace)...)

			places.GET("/:id/reviews", optional, rc.ListPlaceReviews)
			places.POST("/:id/reviews", r.authenticated(rc.CreateReview)...)
		}

		reviews := v1.Group("/reviews", authed...)
		{
			reviews.PUT("/:id", r.controllers.Review.UpdateReview)
			reviews.DELETE("/:id", r.controllers.Review.DeleteReview)
		}

		v1.GET("/search/suggestions", r.controllers.Search.Suggestions)

		favorites := v1.Group("/favorites", authed...)
		{
			favorites.POST("", r.controllers.Favorite.ToggleFavorite)
			favorites.GET("", r.controllers.Favorite.ListFavorites)
		}

		me := v1.Group("/me", authed...)
		{
			me.GET("/places", r.controllers.Place.MyPlaces)
			me.GET("/reviews", r.controllers.Review.MyReviews)
		}

		v1.POST("/upload/presigned-url", r.authenticated(r.controllers.Upload.GeneratePresignedURL)...)

		adminGroup := v1.Group("/admin", admin...)
		{
			ac := r.controllers.Admin
			adminGroup.GET("/places", ac.ListPlaces)
			adminGroup.PATCH("/places/:id/approve", ac.ApprovePlace)
			adminGroup.GET("/stats", ac.Stats)
			adminGroup.GET("/reviews", ac.SearchReviews)
			adminGroup.GET("/users", ac.ListUsers)
		}
	}

	return router
}

// authenticated prefixes handlers with token validation and the user mirror sync.
func (r *Router) authenticated(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{r.authMiddleware.Authenticate(), middleware.SyncUser(r.userSyncer)}
	return append(chain, handlers...)
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "Cache-Control", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			// credentials cannot be combined with a literal wildcard
			cfg.AllowOriginFunc = func(string) bool { return true }
			return cfg
		}
	}
	cfg.AllowOrigins = allowedOrigins
	return cfg
}
