package model

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryCafe       Category = "CAFE"
	CategoryRestaurant Category = "RESTAURANT"
	CategoryMuseum     Category = "MUSEUM"
	CategoryHotel      Category = "HOTEL"
	CategoryMall       Category = "MALL"
	CategoryPark       Category = "PARK"
	CategoryBeach      Category = "BEACH"
	CategoryCamping    Category = "CAMPING"
	CategoryActivity   Category = "ACTIVITY"
	CategoryBar        Category = "BAR"
	CategoryClub       Category = "CLUB"
	CategoryOther      Category = "OTHER"
)

// AllCategories lists the enumeration in display order.
var AllCategories = []Category{
	CategoryCafe, CategoryRestaurant, CategoryMuseum, CategoryHotel,
	CategoryMall, CategoryPark, CategoryBeach, CategoryCamping,
	CategoryActivity, CategoryBar, CategoryClub, CategoryOther,
}

// ParseCategory accepts any letter case and reports whether s names a known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllCategories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

type PriceRange string

const (
	PriceCheap         PriceRange = "CHEAP"
	PriceModerate      PriceRange = "MODERATE"
	PriceExpensive     PriceRange = "EXPENSIVE"
	PriceVeryExpensive PriceRange = "VERY_EXPENSIVE"
)

type AlcoholStatus string

const (
	AlcoholNone      AlcoholStatus = "NONE"
	AlcoholAlcoholic AlcoholStatus = "ALCOHOLIC"
	AlcoholBoth      AlcoholStatus = "BOTH"
)

type NoiseLevel string

const (
	NoiseQuiet    NoiseLevel = "QUIET"
	NoiseModerate NoiseLevel = "MODERATE"
	NoiseLoud     NoiseLevel = "LOUD"
)

// PlaceAttributes holds every category-scoped attribute. The json tag of each
// field is its attribute key; the zero value of each field is its default.
type PlaceAttributes struct {
	// food
	PriceRange     *PriceRange `gorm:"type:varchar(20);index" json:"priceRange" validate:"omitempty,oneof=CHEAP MODERATE EXPENSIVE VERY_EXPENSIVE"`
	Breakfast      bool        `gorm:"default:false" json:"breakfast"`
	Lunch          bool        `gorm:"default:false" json:"lunch"`
	Dinner         bool        `gorm:"default:false" json:"dinner"`
	Dessert        bool        `gorm:"default:false" json:"dessert"`
	Snack          bool        `gorm:"default:false" json:"snack"`
	VeganOption    bool        `gorm:"default:false" json:"veganOption"`
	OutdoorSeating bool        `gorm:"default:false" json:"outdoorSeating"`

	// family / smoking / alcohol
	IsFamilyFriendly bool           `gorm:"default:false" json:"isFamilyFriendly"`
	HasSmokingArea   bool           `gorm:"default:false" json:"hasSmokingArea"`
	AlcoholStatus    *AlcoholStatus `gorm:"type:varchar(20)" json:"alcoholStatus" validate:"omitempty,oneof=NONE ALCOHOLIC BOTH"`

	// beach
	BlueFlag bool `gorm:"default:false" json:"blueFlag"`
	Sunbed   bool `gorm:"default:false" json:"sunbed"`
	Shower   bool `gorm:"default:false" json:"shower"`

	// paid entry
	IsPaid      bool   `gorm:"default:false" json:"isPaid"`
	EntranceFee string `gorm:"type:varchar(100)" json:"entranceFee"`

	// camping
	TentRental    bool `gorm:"default:false" json:"tentRental"`
	Electricity   bool `gorm:"default:false" json:"electricity"`
	FireAllowed   bool `gorm:"default:false" json:"fireAllowed"`
	CaravanAccess bool `gorm:"default:false" json:"caravanAccess"`

	// visit
	MuseumCardAccepted bool `gorm:"default:false" json:"museumCardAccepted"`
	Photography        bool `gorm:"default:false" json:"photography"`

	// park
	PetFriendly bool `gorm:"default:false" json:"petFriendly"`
	Playground  bool `gorm:"default:false" json:"playground"`
	LargeArea   bool `gorm:"default:false" json:"largeArea"`
	FreeEntry   bool `gorm:"default:false" json:"freeEntry"`

	// hotel
	Pool       bool        `gorm:"default:false" json:"pool"`
	Gym        bool        `gorm:"default:false" json:"gym"`
	NoiseLevel *NoiseLevel `gorm:"type:varchar(20)" json:"noiseLevel" validate:"omitempty,oneof=QUIET MODERATE LOUD"`

	// hotel / mall
	Parking bool `gorm:"default:false" json:"parking"`
	Wifi    bool `gorm:"default:false" json:"wifi"`

	// mall
	FoodCourt bool `gorm:"default:false" json:"foodCourt"`
	BabyCare  bool `gorm:"default:false" json:"babyCare"`

	// activity
	Duration            string `gorm:"type:varchar(100)" json:"duration"`
	ReservationRequired bool   `gorm:"default:false" json:"reservationRequired"`
	BestTime            string `gorm:"type:varchar(100)" json:"bestTime"`

	// nightlife
	MusicType  string `gorm:"type:varchar(100)" json:"musicType"`
	DamAllowed bool   `gorm:"default:false" json:"damAllowed"`
}

type Place struct {
	ID          uint     `gorm:"primarykey" json:"id"`
	Title       string   `gorm:"not null;index" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	Category    Category `gorm:"type:varchar(20);not null;index" json:"category"`
	City        string   `gorm:"not null;index" json:"city"`
	District    string   `gorm:"not null" json:"district"`
	Address     string   `gorm:"type:text" json:"address"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	OwnerID     uint     `gorm:"not null;index" json:"owner_id"`
	Owner       *User    `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	IsApproved  bool     `gorm:"default:false;index" json:"is_approved"`
	EditorNote  string   `gorm:"type:text" json:"editor_note"`

	PlaceAttributes `gorm:"embedded"`

	Images []PlaceImage `gorm:"foreignKey:PlaceID" json:"images"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Place) TableName() string {
	return "places"
}

// CoverURL returns the URL rendered first for the place, or "" when it has no images.
// Images are expected in persisted order (ascending id).
func (p *Place) CoverURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// PlaceImage is one member of a place's photo set; (place_id, url) is unique.
type PlaceImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	PlaceID   uint      `gorm:"not null;uniqueIndex:idx_place_image_url" json:"place_id"`
	URL       string    `gorm:"type:varchar(1024);not null;uniqueIndex:idx_place_image_url" json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

func (PlaceImage) TableName() string {
	return "place_images"
}

// PlaceDraft is the mutation payload for creating a place. Attribute keys are
// flattened into the payload.
type PlaceDraft struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" validate:"required,category"`
	City        string   `json:"city" validate:"required"`
	District    string   `json:"district" validate:"required"`
	Address     string   `json:"address"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
	EditorNote  string   `json:"editorNote"`
	Images      []string `json:"images"`

	PlaceAttributes
}

// PlacePatch carries an update. Nil fields keep the stored value. The embedded
// attributes are allocated as soon as the payload names any attribute key, and
// then replace the whole stored set. A non-nil Images triggers reconciliation.
type PlacePatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	City        *string   `json:"city"`
	District    *string   `json:"district"`
	Address     *string   `json:"address"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	EditorNote  *string   `json:"editorNote"`
	Images      *[]string `json:"images"`

	*PlaceAttributes
}

// RatingSummary is the aggregate of a place's reviews. Average is 0 when Count is 0.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// PlaceListing is a place as shown in listings and detail pages.
type PlaceListing struct {
	Place
	Rating     RatingSummary `json:"rating"`
	IsFavorite bool          `json:"is_favorite"`
	DistanceKm *float64      `json:"distance_km,omitempty"`
}

// PlaceFilter composes listing predicates; empty fields are not applied.
type PlaceFilter struct {
	City              string
	Category          string
	Query             string
	PriceRange        string
	Meals             []AttributeKey
	Near              *GeoRadius
	IncludeUnapproved bool
	Limit             int
}

// GeoRadius keeps places whose coordinates lie within RadiusKm of the point.
// Places without coordinates never match.
type GeoRadius struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
}

// CategoryCount is one row of the approved-place histogram by category.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int64    `json:"count"`
}
