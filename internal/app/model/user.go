package model

import (
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User mirrors an identity issued by the external auth provider. Rows are
// upserted from token claims; the catalog never stores credentials.
type User struct {
	ID        uint      `gorm:"primarykey;autoIncrement:false" json:"id"`
	Email     string    `gorm:"index" json:"email"`
	Name      string    `json:"name"`
	Role      UserRole  `gorm:"type:varchar(20);default:'user'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Actor is the authenticated caller of a mutating operation.
type Actor struct {
	UserID uint
	Role   UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanModify reports whether the actor may change a resource owned by ownerID.
func (a Actor) CanModify(ownerID uint) bool {
	return a.IsAdmin() || (a.UserID != 0 && a.UserID == ownerID)
}

// UserSummary is a user row with activity counts for the admin user list.
type UserSummary struct {
	User
	PlaceCount    int64 `json:"place_count"`
	ReviewCount   int64 `json:"review_count"`
	FavoriteCount int64 `json:"favorite_count"`
}
