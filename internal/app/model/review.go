package model

import (
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	PlaceID uint   `gorm:"not null;index" json:"place_id"`
	Place   *Place `gorm:"foreignKey:PlaceID" json:"place,omitempty"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Rating  int    `gorm:"not null" json:"rating"`
	Comment string `gorm:"type:text" json:"comment"`

	Images []ReviewImage `gorm:"foreignKey:ReviewID" json:"images"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewImage keeps the submitted order of a review's photos in Position.
type ReviewImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ReviewID  uint      `gorm:"not null;uniqueIndex:idx_review_image_url" json:"review_id"`
	URL       string    `gorm:"type:varchar(1024);not null;uniqueIndex:idx_review_image_url" json:"url"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func (ReviewImage) TableName() string {
	return "review_images"
}

type CreateReviewInput struct {
	Rating  int      `json:"rating"`
	Comment string   `json:"comment"`
	Images  []string `json:"images"`
}

// UpdateReviewInput leaves nil fields unchanged; a non-nil Images is reconciled.
type UpdateReviewInput struct {
	Rating  *int      `json:"rating"`
	Comment *string   `json:"comment"`
	Images  *[]string `json:"images"`
}

func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
