package repository

import (
	"strings"

	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/rotaguide/rota-backend/pkg/logger"
	"github.com/rotaguide/rota-backend/pkg/util"
	"gorm.io/gorm"
)

// SuggestionEntry is the projection of an approved place scanned by the suggestion engine.
type SuggestionEntry struct {
	ID       uint
	Title    string
	City     string
	Category model.Category
}

type PlaceRepository interface {
	WithTx(tx *gorm.DB) PlaceRepository
	Create(place *model.Place) error
	Save(place *model.Place) error
	Delete(id uint) error
	FindByID(id uint) (*model.Place, error)
	FindAll(filter model.PlaceFilter) ([]model.Place, error)
	FindByOwner(ownerID uint) ([]model.Place, error)
	FindByTitleAndCity(title, city string) (*model.Place, error)
	ListApprovedEntries() ([]SuggestionEntry, error)
	SetApproval(id uint, approved bool) (int64, error)
	CategoryCounts() ([]model.CategoryCount, error)
	Count(onlyPending bool) (int64, error)
}

type placeRepository struct {
	db *gorm.DB
}

func NewPlaceRepository(db *gorm.DB) PlaceRepository {
	return &placeRepository{db: db}
}

func (r *placeRepository) WithTx(tx *gorm.DB) PlaceRepository {
	return &placeRepository{db: tx}
}

func (r *placeRepository) Create(place *model.Place) error {
	logger.Debug("Creating place in database", map[string]interface{}{
		"title":    place.Title,
		"category": place.Category,
		"owner_id": place.OwnerID,
	})

	// images are written by the image set repository
	if err := r.db.Omit("Images", "Owner").Create(place).Error; err != nil {
		logger.Error("Failed to create place in database", err, map[string]interface{}{
			"title":    place.Title,
			"owner_id": place.OwnerID,
		})
		return err
	}

	logger.Debug("Place created in database", map[string]interface{}{
		"place_id": place.ID,
	})
	return nil
}

func (r *placeRepository) Save(place *model.Place) error {
	logger.Debug("Updating place in database", map[string]interface{}{
		"place_id": place.ID,
	})

	// Never inserts: a missing row reports gorm.ErrRecordNotFound.
	result := r.db.Model(&model.Place{}).
		Where("id = ?", place.ID).
		Select("*").
		Omit("ID", "Images", "Owner", "CreatedAt").
		Updates(place)
	if result.Error != nil {
		logger.Error("Failed to update place in database", result.Error, map[string]interface{}{
			"place_id": place.ID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		logger.Warn("Place vanished before update", map[string]interface{}{
			"place_id": place.ID,
		})
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the place together with its images, reviews, review images
// and favorites in one transaction.
func (r *placeRepository) Delete(id uint) error {
	logger.Debug("Deleting place from database", map[string]interface{}{
		"place_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("place_id = ?", id).Delete(&model.Favorite{}).Error; err != nil {
			return err
		}
		reviewIDs := tx.Model(&model.Review{}).Select("id").Where("place_id = ?", id)
		if err := tx.Where("review_id IN (?)", reviewIDs).Delete(&model.ReviewImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("place_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("place_id = ?", id).Delete(&model.PlaceImage{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Place{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to delete place from database", err, map[string]interface{}{
			"place_id": id,
		})
		return err
	}

	logger.Debug("Place deleted from database", map[string]interface{}{
		"place_id": id,
	})
	return nil
}

func (r *placeRepository) FindByID(id uint) (*model.Place, error) {
	var place model.Place
	if err := r.withImages(r.db).Preload("Owner").First(&place, id).Error; err != nil {
		logger.Debug("Place lookup failed", map[string]interface{}{
			"place_id": id,
			"error":    err.Error(),
		})
		return nil, err
	}
	return &place, nil
}

func (r *placeRepository) FindAll(filter model.PlaceFilter) ([]model.Place, error) {
	logger.Debug("Finding places", map[string]interface{}{
		"city":        filter.City,
		"category":    filter.Category,
		"query":       filter.Query,
		"price_range": filter.PriceRange,
		"meals":       filter.Meals,
		"unapproved":  filter.IncludeUnapproved,
	})

	query := r.withImages(r.db.Model(&model.Place{}))

	if !filter.IncludeUnapproved {
		query = query.Where("is_approved = ?", true)
	}
	if city := strings.TrimSpace(filter.City); city != "" {
		query = query.Where("LOWER(city) LIKE ? ESCAPE '\\'", likePattern(city))
	}
	// unknown categories are ignored rather than rejected
	if category, ok := model.ParseCategory(filter.Category); ok {
		query = query.Where("category = ?", category)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := likePattern(q)
		query = query.Where(
			r.db.Where("LOWER(title) LIKE ? ESCAPE '\\'", like).
				Or("LOWER(description) LIKE ? ESCAPE '\\'", like).
				Or("LOWER(city) LIKE ? ESCAPE '\\'", like),
		)
	}
	for _, meal := range filter.Meals {
		query = query.Where(r.db.NamingStrategy.ColumnName("", string(meal))+" = ?", true)
	}
	if price := strings.TrimSpace(filter.PriceRange); price != "" {
		query = query.Where("price_range = ?", strings.ToUpper(price))
	}
	// the box is coarse; exact distance and the limit are applied by the caller
	if near := filter.Near; near != nil {
		minLat, maxLat, minLng, maxLng := util.BoundingBox(near.Latitude, near.Longitude, near.RadiusKm)
		query = query.
			Where("latitude BETWEEN ? AND ?", minLat, maxLat).
			Where("longitude BETWEEN ? AND ?", minLng, maxLng)
	} else if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var places []model.Place
	if err := query.Order("created_at DESC").Order("id DESC").Find(&places).Error; err != nil {
		logger.Error("Failed to find places", err, map[string]interface{}{
			"city":     filter.City,
			"category": filter.Category,
		})
		return nil, err
	}

	logger.Debug("Places found", map[string]interface{}{
		"count": len(places),
	})
	return places, nil
}

func (r *placeRepository) FindByOwner(ownerID uint) ([]model.Place, error) {
	var places []model.Place
	if err := r.withImages(r.db).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&places).Error; err != nil {
		logger.Error("Failed to find places by owner", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		return nil, err
	}
	return places, nil
}

// FindByTitleAndCity matches both fields case-insensitively, ignoring approval.
func (r *placeRepository) FindByTitleAndCity(title, city string) (*model.Place, error) {
	var place model.Place
	err := r.db.
		Where("LOWER(title) = ?", strings.ToLower(strings.TrimSpace(title))).
		Where("LOWER(city) = ?", strings.ToLower(strings.TrimSpace(city))).
		Order("id ASC").
		First(&place).Error
	if err != nil {
		return nil, err
	}
	return &place, nil
}

// ListApprovedEntries returns approved places newest first; the order is the
// suggestion scan order.
func (r *placeRepository) ListApprovedEntries() ([]SuggestionEntry, error) {
	var entries []SuggestionEntry
	if err := r.db.Model(&model.Place{}).
		Select("id, title, city, category").
		Where("is_approved = ?", true).
		Order("created_at DESC").
		Order("id DESC").
		Scan(&entries).Error; err != nil {
		logger.Error("Failed to list approved places for suggestions", err)
		return nil, err
	}
	return entries, nil
}

func (r *placeRepository) SetApproval(id uint, approved bool) (int64, error) {
	logger.Debug("Setting place approval", map[string]interface{}{
		"place_id": id,
		"approved": approved,
	})

	result := r.db.Model(&model.Place{}).Where("id = ?", id).UpdateColumn("is_approved", approved)
	if result.Error != nil {
		logger.Error("Failed to set place approval", result.Error, map[string]interface{}{
			"place_id": id,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *placeRepository) CategoryCounts() ([]model.CategoryCount, error) {
	var counts []model.CategoryCount
	if err := r.db.Model(&model.Place{}).
		Select("category, COUNT(*) AS count").
		Where("is_approved = ?", true).
		Group("category").
		Order("count DESC").
		Order("category ASC").
		Scan(&counts).Error; err != nil {
		logger.Error("Failed to count places by category", err)
		return nil, err
	}
	return counts, nil
}

func (r *placeRepository) Count(onlyPending bool) (int64, error) {
	query := r.db.Model(&model.Place{})
	if onlyPending {
		query = query.Where("is_approved = ?", false)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// withImages preloads images in persisted order, so the first one is the cover.
func (r *placeRepository) withImages(query *gorm.DB) *gorm.DB {
	return query.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a lowercase substring pattern for LOWER(column) LIKE ?.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
