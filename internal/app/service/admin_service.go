package service

import (
	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/rotaguide/rota-backend/internal/app/repository"
	"github.com/rotaguide/rota-backend/pkg/logger"
)

const adminListLimit = 200

type AdminStats struct {
	TotalPlaces   int64 `json:"total_places"`
	PendingPlaces int64 `json:"pending_places"`
	TotalUsers    int64 `json:"total_users"`
	TotalReviews  int64 `json:"total_reviews"`
}

type AdminService interface {
	ListAllPlaces(actor model.Actor, filter model.PlaceFilter) ([]model.PlaceListing, error)
	SetApproval(actor model.Actor, placeID uint, approved bool) error
	Stats(actor model.Actor) (*AdminStats, error)
	SearchReviews(actor model.Actor, term string) ([]model.Review, error)
	ListUsers(actor model.Actor) ([]model.UserSummary, error)
}

type adminService struct {
	places  PlaceService
	placeDB repository.PlaceRepository
	reviews repository.ReviewRepository
	users   repository.UserRepository
}

func NewAdminService(
	places PlaceService,
	placeRepo repository.PlaceRepository,
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
) AdminService {
	return &adminService{places: places, placeDB: placeRepo, reviews: reviewRepo, users: userRepo}
}

// ListAllPlaces includes pending places, newest first.
func (s *adminService) ListAllPlaces(actor model.Actor, filter model.PlaceFilter) ([]model.PlaceListing, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	filter.IncludeUnapproved = true
	if filter.Limit <= 0 {
		filter.Limit = adminListLimit
	}
	return s.places.ListPlaces(actor, filter)
}

func (s *adminService) SetApproval(actor model.Actor, placeID uint, approved bool) error {
	return s.places.SetApproval(actor, placeID, approved)
}

func (s *adminService) Stats(actor model.Actor) (*AdminStats, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}

	var (
		stats AdminStats
		err   error
	)
	if stats.TotalPlaces, err = s.placeDB.Count(false); err != nil {
		return nil, persistenceError("count places", err, nil)
	}
	if stats.PendingPlaces, err = s.placeDB.Count(true); err != nil {
		return nil, persistenceError("count pending places", err, nil)
	}
	if stats.TotalUsers, err = s.users.Count(); err != nil {
		return nil, persistenceError("count users", err, nil)
	}
	if stats.TotalReviews, err = s.reviews.Count(); err != nil {
		return nil, persistenceError("count reviews", err, nil)
	}

	logger.Debug("Admin stats computed", map[string]interface{}{
		"total_places":   stats.TotalPlaces,
		"pending_places": stats.PendingPlaces,
	})
	return &stats, nil
}

func (s *adminService) SearchReviews(actor model.Actor, term string) ([]model.Review, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	reviews, err := s.reviews.Search(term, adminListLimit)
	if err != nil {
		return nil, persistenceError("search reviews", err, nil)
	}
	return reviews, nil
}

func (s *adminService) ListUsers(actor model.Actor) ([]model.UserSummary, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	users, err := s.users.ListWithCounts(adminListLimit)
	if err != nil {
		return nil, persistenceError("list users", err, nil)
	}
	return users, nil
}
