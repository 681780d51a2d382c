package model

import (
	"time"
)

// Favorite joins a user and a place; (user_id, place_id) is unique.
type Favorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_place" json:"user_id"`
	PlaceID   uint      `gorm:"not null;uniqueIndex:idx_favorite_user_place;index" json:"place_id"`
	Place     *Place    `gorm:"foreignKey:PlaceID" json:"place,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}
