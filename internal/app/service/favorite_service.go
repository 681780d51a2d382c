package service

import (
	"errors"

	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/rotaguide/rota-backend/internal/app/repository"
	"github.com/rotaguide/rota-backend/pkg/logger"
	"gorm.io/gorm"
)

type FavoriteService interface {
	Toggle(actor model.Actor, placeID uint) (bool, error)
	Set(actor model.Actor, placeID uint, favorite bool) (bool, error)
	ListByUser(userID uint) ([]model.Favorite, error)
}

type favoriteService struct {
	favorites repository.FavoriteRepository
	places    repository.PlaceRepository
}

func NewFavoriteService(favorites repository.FavoriteRepository, places repository.PlaceRepository) FavoriteService {
	return &favoriteService{favorites: favorites, places: places}
}

// Toggle flips the favorite state and returns the new state. The existence
// check is only a hint: the (user, place) unique index decides, and losing a
// race counts as having reached the desired state.
func (s *favoriteService) Toggle(actor model.Actor, placeID uint) (bool, error) {
	if err := s.ensurePlace(actor, placeID); err != nil {
		return false, err
	}

	exists, err := s.favorites.Exists(actor.UserID, placeID)
	if err != nil {
		return false, persistenceError("check favorite", err, map[string]interface{}{"place_id": placeID})
	}
	return s.apply(actor.UserID, placeID, !exists)
}

// Set drives the favorite to the wanted state; repeating it is a no-op.
func (s *favoriteService) Set(actor model.Actor, placeID uint, favorite bool) (bool, error) {
	if err := s.ensurePlace(actor, placeID); err != nil {
		return false, err
	}
	return s.apply(actor.UserID, placeID, favorite)
}

func (s *favoriteService) apply(userID, placeID uint, favorite bool) (bool, error) {
	if favorite {
		created, err := s.favorites.Insert(userID, placeID)
		if err != nil {
			return false, persistenceError("add favorite", err, map[string]interface{}{"place_id": placeID})
		}
		logger.Info("Place favorited", map[string]interface{}{
			"user_id":  userID,
			"place_id": placeID,
			"created":  created,
		})
		return true, nil
	}

	removed, err := s.favorites.Delete(userID, placeID)
	if err != nil {
		return false, persistenceError("remove favorite", err, map[string]interface{}{"place_id": placeID})
	}
	logger.Info("Place unfavorited", map[string]interface{}{
		"user_id":  userID,
		"place_id": placeID,
		"removed":  removed,
	})
	return false, nil
}

func (s *favoriteService) ListByUser(userID uint) ([]model.Favorite, error) {
	favorites, err := s.favorites.FindByUser(userID)
	if err != nil {
		return nil, persistenceError("list favorites", err, map[string]interface{}{"user_id": userID})
	}
	return favorites, nil
}

func (s *favoriteService) ensurePlace(actor model.Actor, placeID uint) error {
	place, err := s.places.FindByID(placeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlaceNotFound
		}
		return persistenceError("find place", err, map[string]interface{}{"place_id": placeID})
	}
	if !place.IsApproved && !actor.CanModify(place.OwnerID) {
		return ErrPlaceNotFound
	}
	return nil
}
