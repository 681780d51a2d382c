package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/rotaguide/rota-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepository interface {
	Exists(userID, placeID uint) (bool, error)
	Insert(userID, placeID uint) (bool, error)
	Delete(userID, placeID uint) (int64, error)
	FindByUser(userID uint) ([]model.Favorite, error)
	FavoritePlaceIDs(userID uint, placeIDs []uint) (map[uint]bool, error)
	Count() (int64, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Exists(userID, placeID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Favorite{}).
		Where("user_id = ? AND place_id = ?", userID, placeID).
		Count(&count).Error; err != nil {
		logger.Error("Failed to check favorite", err, map[string]interface{}{
			"user_id":  userID,
			"place_id": placeID,
		})
		return false, err
	}
	return count > 0, nil
}

// Insert adds the (user, place) row unless it already exists. It reports
// whether this call created the row; a concurrent insert that wins the
// unique index is not an error.
func (r *favoriteRepository) Insert(userID, placeID uint) (bool, error) {
	fav := model.Favorite{UserID: userID, PlaceID: placeID}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "place_id"}},
		DoNothing: true,
	}).Omit("Place").Create(&fav)

	if result.Error != nil {
		if IsUniqueViolation(result.Error) {
			logger.Debug("Favorite already exists", map[string]interface{}{
				"user_id":  userID,
				"place_id": placeID,
			})
			return false, nil
		}
		logger.Error("Failed to insert favorite", result.Error, map[string]interface{}{
			"user_id":  userID,
			"place_id": placeID,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *favoriteRepository) Delete(userID, placeID uint) (int64, error) {
	result := r.db.Where("user_id = ? AND place_id = ?", userID, placeID).Delete(&model.Favorite{})
	if result.Error != nil {
		logger.Error("Failed to delete favorite", result.Error, map[string]interface{}{
			"user_id":  userID,
			"place_id": placeID,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *favoriteRepository) FindByUser(userID uint) ([]model.Favorite, error) {
	var favorites []model.Favorite
	if err := r.db.
		Preload("Place").
		Preload("Place.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error; err != nil {
		logger.Error("Failed to find favorites", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return favorites, nil
}

func (r *favoriteRepository) FavoritePlaceIDs(userID uint, placeIDs []uint) (map[uint]bool, error) {
	set := make(map[uint]bool)
	if userID == 0 || len(placeIDs) == 0 {
		return set, nil
	}
	var ids []uint
	if err := r.db.Model(&model.Favorite{}).
		Where("user_id = ? AND place_id IN ?", userID, placeIDs).
		Pluck("place_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *favoriteRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Favorite{}).Count(&count).Error
	return count, err
}

// IsUniqueViolation reports whether err comes from a unique index, across the
// gorm translation, the pgx error and the sqlite driver message.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
