package repository

import (
	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/rotaguide/rota-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Upsert(user *model.User) error
	FindByID(id uint) (*model.User, error)
	ListWithCounts(limit int) ([]model.UserSummary, error)
	Count() (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Upsert inserts the mirrored identity or refreshes its email, name and role.
func (r *userRepository) Upsert(user *model.User) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "role", "updated_at"}),
	}).Create(user).Error; err != nil {
		logger.Error("Failed to upsert user", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListWithCounts(limit int) ([]model.UserSummary, error) {
	logger.Debug("Listing users with activity counts", map[string]interface{}{
		"limit": limit,
	})

	query := r.db.Model(&model.User{}).
		Select(`users.*,
			(SELECT COUNT(*) FROM places WHERE places.owner_id = users.id) AS place_count,
			(SELECT COUNT(*) FROM reviews WHERE reviews.user_id = users.id) AS review_count,
			(SELECT COUNT(*) FROM favorites WHERE favorites.user_id = users.id) AS favorite_count`).
		Order("users.created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var users []model.UserSummary
	if err := query.Scan(&users).Error; err != nil {
		logger.Error("Failed to list users", err)
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Count(&count).Error
	return count, err
}
