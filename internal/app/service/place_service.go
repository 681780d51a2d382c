package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/rotaguide/rota-backend/internal/app/repository"
	"github.com/rotaguide/rota-backend/pkg/logger"
	"github.com/rotaguide/rota-backend/pkg/util"
	"gorm.io/gorm"
)

const DefaultPublicListLimit = 50

type CatalogOptions struct {
	PublicListLimit int
	MaxImages       int
}

type PlaceService interface {
	CreatePlace(actor model.Actor, draft model.PlaceDraft) (*model.Place, error)
	UpdatePlace(actor model.Actor, id uint, patch model.PlacePatch) (*model.Place, error)
	DeletePlace(actor model.Actor, id uint) error
	SetApproval(actor model.Actor, id uint, approved bool) error
	ListPlaces(viewer model.Actor, filter model.PlaceFilter) ([]model.PlaceListing, error)
	GetPlace(viewer model.Actor, id uint) (*model.PlaceListing, error)
	RatingSummary(placeID uint) (model.RatingSummary, error)
	CheckExistence(title, city string) (*model.Place, error)
	CategoryCounts() ([]model.CategoryCount, error)
	ListByOwner(ownerID uint) ([]model.PlaceListing, error)
}

type placeService struct {
	db           *gorm.DB
	placeRepo    repository.PlaceRepository
	imageRepo    repository.PlaceImageRepository
	reviewRepo   repository.ReviewRepository
	favoriteRepo repository.FavoriteRepository
	opts         CatalogOptions
}

func NewPlaceService(
	db *gorm.DB,
	placeRepo repository.PlaceRepository,
	imageRepo repository.PlaceImageRepository,
	reviewRepo repository.ReviewRepository,
	favoriteRepo repository.FavoriteRepository,
	opts CatalogOptions,
) PlaceService {
	if opts.PublicListLimit <= 0 {
		opts.PublicListLimit = DefaultPublicListLimit
	}
	if opts.MaxImages <= 0 {
		opts.MaxImages = DefaultMaxImages
	}
	return &placeService{
		db:           db,
		placeRepo:    placeRepo,
		imageRepo:    imageRepo,
		reviewRepo:   reviewRepo,
		favoriteRepo: favoriteRepo,
		opts:         opts,
	}
}

// CreatePlace validates the draft and stores it unapproved together with its images.
func (s *placeService) CreatePlace(actor model.Actor, draft model.PlaceDraft) (*model.Place, error) {
	logger.Info("Creating place", map[string]interface{}{
		"owner_id": actor.UserID,
		"title":    draft.Title,
		"category": draft.Category,
	})

	draft, err := model.Validate(draft)
	if err != nil {
		logger.Warn("Place draft rejected", map[string]interface{}{
			"owner_id": actor.UserID,
			"reason":   err.Error(),
		})
		return nil, err
	}
	images, err := PrepareImageList(draft.Images, s.opts.MaxImages)
	if err != nil {
		return nil, err
	}

	place := &model.Place{OwnerID: actor.UserID, IsApproved: false}
	applyDraft(place, draft)

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during place creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"owner_id": actor.UserID,
			})
		}
	}()

	if err := s.placeRepo.WithTx(tx).Create(place); err != nil {
		tx.Rollback()
		return nil, persistenceError("create place", err, map[string]interface{}{"owner_id": actor.UserID})
	}
	if err := s.imageRepo.WithTx(tx).InsertURLs(place.ID, images); err != nil {
		tx.Rollback()
		return nil, persistenceError("create place images", err, map[string]interface{}{"place_id": place.ID})
	}
	if err := tx.Commit().Error; err != nil {
		return nil, persistenceError("commit place creation", err, map[string]interface{}{"place_id": place.ID})
	}

	logger.Info("Place created", map[string]interface{}{
		"place_id": place.ID,
		"owner_id": actor.UserID,
		"images":   len(images),
	})
	return s.reload(place.ID)
}

// UpdatePlace merges the patch, re-validates the result and, when the patch
// carries an image list, reconciles the photo set in the same transaction.
func (s *placeService) UpdatePlace(actor model.Actor, id uint, patch model.PlacePatch) (*model.Place, error) {
	logger.Info("Updating place", map[string]interface{}{
		"place_id": id,
		"actor_id": actor.UserID,
	})

	place, err := s.findPlace(id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(place.OwnerID) {
		logger.Warn("Place update denied", map[string]interface{}{
			"place_id": id,
			"actor_id": actor.UserID,
			"owner_id": place.OwnerID,
		})
		return nil, ErrPlaceAccessDenied
	}

	var images []string
	if patch.Images != nil {
		if images, err = PrepareImageList(*patch.Images, s.opts.MaxImages); err != nil {
			return nil, err
		}
	}

	draft, err := model.Validate(mergePatch(draftFromPlace(place), patch))
	if err != nil {
		logger.Warn("Place patch rejected", map[string]interface{}{
			"place_id": id,
			"reason":   err.Error(),
		})
		return nil, err
	}
	applyDraft(place, draft)

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during place update, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"place_id": id,
			})
		}
	}()

	if err := s.placeRepo.WithTx(tx).Save(place); err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlaceNotFound
		}
		return nil, persistenceError("update place", err, map[string]interface{}{"place_id": id})
	}
	if patch.Images != nil {
		result, err := ApplyImageSet(s.imageRepo.WithTx(tx), id, images)
		if err != nil {
			tx.Rollback()
			return nil, persistenceError("reconcile place images", err, map[string]interface{}{"place_id": id})
		}
		logger.Debug("Place images reconciled", map[string]interface{}{
			"place_id": id,
			"added":    len(result.Added),
			"removed":  len(result.Removed),
		})
	}
	if err := tx.Commit().Error; err != nil {
		return nil, persistenceError("commit place update", err, map[string]interface{}{"place_id": id})
	}

	logger.Info("Place updated", map[string]interface{}{
		"place_id": id,
	})
	return s.reload(id)
}

func (s *placeService) DeletePlace(actor model.Actor, id uint) error {
	place, err := s.findPlace(id)
	if err != nil {
		return err
	}
	if !actor.CanModify(place.OwnerID) {
		logger.Warn("Place delete denied", map[string]interface{}{
			"place_id": id,
			"actor_id": actor.UserID,
		})
		return ErrPlaceAccessDenied
	}

	if err := s.placeRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlaceNotFound
		}
		return persistenceError("delete place", err, map[string]interface{}{"place_id": id})
	}

	logger.Info("Place deleted", map[string]interface{}{
		"place_id": id,
		"actor_id": actor.UserID,
	})
	return nil
}

func (s *placeService) SetApproval(actor model.Actor, id uint, approved bool) error {
	if !actor.IsAdmin() {
		return ErrAdminOnly
	}

	affected, err := s.placeRepo.SetApproval(id, approved)
	if err != nil {
		return persistenceError("set place approval", err, map[string]interface{}{"place_id": id})
	}
	if affected == 0 {
		return ErrPlaceNotFound
	}

	logger.Info("Place approval changed", map[string]interface{}{
		"place_id": id,
		"approved": approved,
		"admin_id": actor.UserID,
	})
	return nil
}

// ListPlaces applies the filter. Only admins may see unapproved places, and
// non-admin results are capped at the public limit.
func (s *placeService) ListPlaces(viewer model.Actor, filter model.PlaceFilter) ([]model.PlaceListing, error) {
	if !viewer.IsAdmin() {
		filter.IncludeUnapproved = false
		if filter.Limit <= 0 || filter.Limit > s.opts.PublicListLimit {
			filter.Limit = s.opts.PublicListLimit
		}
	}

	places, err := s.placeRepo.FindAll(filter)
	if err != nil {
		return nil, persistenceError("list places", err, nil)
	}
	if filter.Near == nil {
		return s.decorate(viewer, places)
	}

	places, distances := withinRadius(places, *filter.Near, filter.Limit)
	listings, err := s.decorate(viewer, places)
	if err != nil {
		return nil, err
	}
	for i := range listings {
		d := distances[i]
		listings[i].DistanceKm = &d
	}
	return listings, nil
}

// withinRadius keeps places inside the radius, preserving their order, and
// truncates to limit when it is positive.
func withinRadius(places []model.Place, near model.GeoRadius, limit int) ([]model.Place, []float64) {
	kept := places[:0]
	var distances []float64
	for _, p := range places {
		if p.Latitude == nil || p.Longitude == nil {
			continue
		}
		d := util.DistanceKm(near.Latitude, near.Longitude, *p.Latitude, *p.Longitude)
		if d > near.RadiusKm {
			continue
		}
		kept = append(kept, p)
		distances = append(distances, math.Round(d*100)/100)
		if limit > 0 && len(kept) == limit {
			break
		}
	}
	return kept, distances
}

// GetPlace returns the place with its rating. Unapproved places are visible
// only to their owner and admins; others get ErrPlaceNotFound.
func (s *placeService) GetPlace(viewer model.Actor, id uint) (*model.PlaceListing, error) {
	place, err := s.findPlace(id)
	if err != nil {
		return nil, err
	}
	if !place.IsApproved && !viewer.CanModify(place.OwnerID) {
		return nil, ErrPlaceNotFound
	}

	listings, err := s.decorate(viewer, []model.Place{*place})
	if err != nil {
		return nil, err
	}
	return &listings[0], nil
}

func (s *placeService) RatingSummary(placeID uint) (model.RatingSummary, error) {
	summaries, err := s.reviewRepo.RatingSummaries([]uint{placeID})
	if err != nil {
		return model.RatingSummary{}, persistenceError("rating summary", err, map[string]interface{}{"place_id": placeID})
	}
	return summaries[placeID], nil
}

// CheckExistence returns the first place with the same title and city, or nil.
func (s *placeService) CheckExistence(title, city string) (*model.Place, error) {
	place, err := s.placeRepo.FindByTitleAndCity(title, city)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, persistenceError("check place existence", err, nil)
	}
	return place, nil
}

func (s *placeService) CategoryCounts() ([]model.CategoryCount, error) {
	counts, err := s.placeRepo.CategoryCounts()
	if err != nil {
		return nil, persistenceError("category counts", err, nil)
	}
	return counts, nil
}

func (s *placeService) ListByOwner(ownerID uint) ([]model.PlaceListing, error) {
	places, err := s.placeRepo.FindByOwner(ownerID)
	if err != nil {
		return nil, persistenceError("list places by owner", err, map[string]interface{}{"owner_id": ownerID})
	}
	return s.decorate(model.Actor{UserID: ownerID}, places)
}

func (s *placeService) findPlace(id uint) (*model.Place, error) {
	place, err := s.placeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Place not found", map[string]interface{}{
				"place_id": id,
			})
			return nil, ErrPlaceNotFound
		}
		return nil, persistenceError("find place", err, map[string]interface{}{"place_id": id})
	}
	return place, nil
}

func (s *placeService) reload(id uint) (*model.Place, error) {
	place, err := s.placeRepo.FindByID(id)
	if err != nil {
		return nil, persistenceError("reload place", err, map[string]interface{}{"place_id": id})
	}
	return place, nil
}

// decorate attaches rating summaries and the viewer's favorites with one query each.
func (s *placeService) decorate(viewer model.Actor, places []model.Place) ([]model.PlaceListing, error) {
	ids := make([]uint, len(places))
	for i, p := range places {
		ids[i] = p.ID
	}

	ratings, err := s.reviewRepo.RatingSummaries(ids)
	if err != nil {
		return nil, persistenceError("rating summaries", err, nil)
	}
	favorites, err := s.favoriteRepo.FavoritePlaceIDs(viewer.UserID, ids)
	if err != nil {
		return nil, persistenceError("favorite lookup", err, nil)
	}

	listings := make([]model.PlaceListing, len(places))
	for i, p := range places {
		listings[i] = model.PlaceListing{
			Place:      p,
			Rating:     ratings[p.ID],
			IsFavorite: favorites[p.ID],
		}
	}
	return listings, nil
}

func draftFromPlace(p *model.Place) model.PlaceDraft {
	return model.PlaceDraft{
		Title:           p.Title,
		Description:     p.Description,
		Category:        string(p.Category),
		City:            p.City,
		District:        p.District,
		Address:         p.Address,
		Latitude:        p.Latitude,
		Longitude:       p.Longitude,
		EditorNote:      p.EditorNote,
		PlaceAttributes: p.PlaceAttributes,
	}
}

func mergePatch(d model.PlaceDraft, patch model.PlacePatch) model.PlaceDraft {
	if patch.Title != nil {
		d.Title = *patch.Title
	}
	if patch.Description != nil {
		d.Description = *patch.Description
	}
	if patch.Category != nil {
		d.Category = *patch.Category
	}
	if patch.City != nil {
		d.City = *patch.City
	}
	if patch.District != nil {
		d.District = *patch.District
	}
	if patch.Address != nil {
		d.Address = *patch.Address
	}
	if patch.Latitude != nil {
		d.Latitude = patch.Latitude
	}
	if patch.Longitude != nil {
		d.Longitude = patch.Longitude
	}
	if patch.EditorNote != nil {
		d.EditorNote = *patch.EditorNote
	}
	if patch.PlaceAttributes != nil {
		d.PlaceAttributes = *patch.PlaceAttributes
	}
	return d
}

func applyDraft(p *model.Place, d model.PlaceDraft) {
	p.Title = d.Title
	p.Description = d.Description
	p.Category = model.Category(d.Category)
	p.City = d.City
	p.District = d.District
	p.Address = d.Address
	p.Latitude = d.Latitude
	p.Longitude = d.Longitude
	p.EditorNote = d.EditorNote
	p.PlaceAttributes = d.PlaceAttributes
}
