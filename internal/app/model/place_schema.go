package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// AttributeKey names a category-scoped attribute; it equals the attribute's json key.
type AttributeKey string

const (
	AttrPriceRange          AttributeKey = "priceRange"
	AttrBreakfast           AttributeKey = "breakfast"
	AttrLunch               AttributeKey = "lunch"
	AttrDinner              AttributeKey = "dinner"
	AttrDessert             AttributeKey = "dessert"
	AttrSnack               AttributeKey = "snack"
	AttrVeganOption         AttributeKey = "veganOption"
	AttrOutdoorSeating      AttributeKey = "outdoorSeating"
	AttrIsFamilyFriendly    AttributeKey = "isFamilyFriendly"
	AttrHasSmokingArea      AttributeKey = "hasSmokingArea"
	AttrAlcoholStatus       AttributeKey = "alcoholStatus"
	AttrBlueFlag            AttributeKey = "blueFlag"
	AttrSunbed              AttributeKey = "sunbed"
	AttrShower              AttributeKey = "shower"
	AttrIsPaid              AttributeKey = "isPaid"
	AttrEntranceFee         AttributeKey = "entranceFee"
	AttrTentRental          AttributeKey = "tentRental"
	AttrElectricity         AttributeKey = "electricity"
	AttrFireAllowed         AttributeKey = "fireAllowed"
	AttrCaravanAccess       AttributeKey = "caravanAccess"
	AttrMuseumCardAccepted  AttributeKey = "museumCardAccepted"
	AttrPhotography         AttributeKey = "photography"
	AttrPetFriendly         AttributeKey = "petFriendly"
	AttrPlayground          AttributeKey = "playground"
	AttrLargeArea           AttributeKey = "largeArea"
	AttrFreeEntry           AttributeKey = "freeEntry"
	AttrPool                AttributeKey = "pool"
	AttrGym                 AttributeKey = "gym"
	AttrNoiseLevel          AttributeKey = "noiseLevel"
	AttrParking             AttributeKey = "parking"
	AttrWifi                AttributeKey = "wifi"
	AttrFoodCourt           AttributeKey = "foodCourt"
	AttrBabyCare            AttributeKey = "babyCare"
	AttrDuration            AttributeKey = "duration"
	AttrReservationRequired AttributeKey = "reservationRequired"
	AttrBestTime            AttributeKey = "bestTime"
	AttrMusicType           AttributeKey = "musicType"
	AttrDamAllowed          AttributeKey = "damAllowed"
)

// MealKeys are the attribute keys accepted by the listing meals filter.
var MealKeys = []AttributeKey{AttrBreakfast, AttrLunch, AttrDinner, AttrDessert, AttrSnack}

// attributeGroup binds a set of attribute keys to the categories where they are meaningful.
// A key may appear in several groups; its applicability is the union.
type attributeGroup struct {
	name       string
	keys       []AttributeKey
	categories []Category
}

var attributeGroups = []attributeGroup{
	{
		name:       "food",
		keys:       []AttributeKey{AttrPriceRange, AttrBreakfast, AttrLunch, AttrDinner, AttrDessert, AttrSnack, AttrVeganOption, AttrOutdoorSeating},
		categories: []Category{CategoryRestaurant, CategoryCafe},
	},
	{
		name:       "family",
		keys:       []AttributeKey{AttrIsFamilyFriendly, AttrHasSmokingArea},
		categories: []Category{CategoryRestaurant, CategoryCafe, CategoryMall, CategoryBeach},
	},
	{
		name:       "alcohol",
		keys:       []AttributeKey{AttrAlcoholStatus},
		categories: []Category{CategoryRestaurant, CategoryCafe, CategoryBeach},
	},
	{
		name:       "beach",
		keys:       []AttributeKey{AttrBlueFlag, AttrSunbed, AttrShower},
		categories: []Category{CategoryBeach},
	},
	{
		name:       "paid_entry",
		keys:       []AttributeKey{AttrIsPaid, AttrEntranceFee},
		categories: []Category{CategoryBeach, CategoryMuseum, CategoryOther, CategoryBar, CategoryClub},
	},
	{
		name:       "camping",
		keys:       []AttributeKey{AttrTentRental, AttrElectricity, AttrFireAllowed, AttrCaravanAccess},
		categories: []Category{CategoryCamping},
	},
	{
		name:       "visit",
		keys:       []AttributeKey{AttrMuseumCardAccepted, AttrPhotography},
		categories: []Category{CategoryMuseum, CategoryOther},
	},
	{
		name:       "park",
		keys:       []AttributeKey{AttrPetFriendly, AttrPlayground, AttrLargeArea, AttrFreeEntry},
		categories: []Category{CategoryPark},
	},
	{
		name:       "hotel",
		keys:       []AttributeKey{AttrPool, AttrGym, AttrNoiseLevel},
		categories: []Category{CategoryHotel},
	},
	{
		name:       "amenities",
		keys:       []AttributeKey{AttrParking, AttrWifi},
		categories: []Category{CategoryHotel, CategoryMall},
	},
	{
		name:       "mall",
		keys:       []AttributeKey{AttrFoodCourt, AttrBabyCare},
		categories: []Category{CategoryMall},
	},
	{
		name:       "activity",
		keys:       []AttributeKey{AttrDuration, AttrReservationRequired, AttrBestTime},
		categories: []Category{CategoryActivity},
	},
	{
		name:       "nightlife",
		keys:       []AttributeKey{AttrMusicType, AttrDamAllowed},
		categories: []Category{CategoryBar, CategoryClub},
	},
}

type attributeField struct {
	key   AttributeKey
	index int
}

var (
	registryOnce   sync.Once
	attrFields     []attributeField
	fieldByKey     map[AttributeKey]int
	applicable     map[Category]map[AttributeKey]struct{}
	draftValidator *validator.Validate
)

func loadRegistry() {
	registryOnce.Do(func() {
		t := reflect.TypeOf(PlaceAttributes{})
		fieldByKey = make(map[AttributeKey]int, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			key := AttributeKey(strings.Split(t.Field(i).Tag.Get("json"), ",")[0])
			attrFields = append(attrFields, attributeField{key: key, index: i})
			fieldByKey[key] = i
		}

		applicable = make(map[Category]map[AttributeKey]struct{}, len(AllCategories))
		for _, c := range AllCategories {
			applicable[c] = map[AttributeKey]struct{}{}
		}
		for _, g := range attributeGroups {
			for _, k := range g.keys {
				if _, ok := fieldByKey[k]; !ok {
					panic(fmt.Sprintf("attribute group %q names unknown key %q", g.name, k))
				}
				for _, c := range g.categories {
					applicable[c][k] = struct{}{}
				}
			}
		}

		draftValidator = validator.New()
		draftValidator.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.Split(f.Tag.Get("json"), ",")[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = draftValidator.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			_, ok := ParseCategory(fl.Field().String())
			return ok
		})
	})
}

// AllAttributeKeys returns every attribute key in declaration order.
func AllAttributeKeys() []AttributeKey {
	loadRegistry()
	keys := make([]AttributeKey, len(attrFields))
	for i, f := range attrFields {
		keys[i] = f.key
	}
	return keys
}

// ApplicableKeys returns the attribute keys meaningful for category, in declaration order.
// Unknown categories have none.
func ApplicableKeys(category Category) []AttributeKey {
	loadRegistry()
	set := applicable[category]
	keys := make([]AttributeKey, 0, len(set))
	for _, f := range attrFields {
		if _, ok := set[f.key]; ok {
			keys = append(keys, f.key)
		}
	}
	return keys
}

func IsApplicable(category Category, key AttributeKey) bool {
	loadRegistry()
	_, ok := applicable[category][key]
	return ok
}

// IsAttributeKey reports whether s names a known attribute.
func IsAttributeKey(s string) bool {
	loadRegistry()
	_, ok := fieldByKey[AttributeKey(s)]
	return ok
}

// Sanitize returns attrs with every key not applicable to category reset to its default.
// It never fails.
func Sanitize(category Category, attrs PlaceAttributes) PlaceAttributes {
	loadRegistry()
	set := applicable[category]
	v := reflect.ValueOf(&attrs).Elem()
	for _, f := range attrFields {
		if _, ok := set[f.key]; ok {
			continue
		}
		fv := v.Field(f.index)
		fv.Set(reflect.Zero(fv.Type()))
	}
	return attrs
}

// IsDefault reports whether the attribute named key holds its default in attrs.
func IsDefault(attrs PlaceAttributes, key AttributeKey) bool {
	loadRegistry()
	i, ok := fieldByKey[key]
	if !ok {
		return true
	}
	return reflect.ValueOf(attrs).Field(i).IsZero()
}

// ValidationError is a rejected mutation with a caller-visible reason.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Validate sanitizes the draft's attributes for its category and then checks it,
// returning the first violated constraint. The returned draft is trimmed and
// carries the canonical upper-case category.
func Validate(draft PlaceDraft) (PlaceDraft, error) {
	loadRegistry()

	draft.Title = strings.TrimSpace(draft.Title)
	draft.City = strings.TrimSpace(draft.City)
	draft.District = strings.TrimSpace(draft.District)
	draft.Category = strings.TrimSpace(draft.Category)
	draft.PlaceAttributes = clearEmptyEnums(draft.PlaceAttributes)

	if category, ok := ParseCategory(draft.Category); ok {
		draft.Category = string(category)
		draft.PlaceAttributes = Sanitize(category, draft.PlaceAttributes)
	}

	if err := draftValidator.Struct(draft); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return draft, fieldError(verrs[0])
		}
		return draft, NewValidationError("", err.Error())
	}
	return draft, nil
}

// clearEmptyEnums treats an empty enum value as unset.
func clearEmptyEnums(attrs PlaceAttributes) PlaceAttributes {
	if attrs.PriceRange != nil && *attrs.PriceRange == "" {
		attrs.PriceRange = nil
	}
	if attrs.AlcoholStatus != nil && *attrs.AlcoholStatus == "" {
		attrs.AlcoholStatus = nil
	}
	if attrs.NoiseLevel != nil && *attrs.NoiseLevel == "" {
		attrs.NoiseLevel = nil
	}
	return attrs
}

func fieldError(fe validator.FieldError) *ValidationError {
	switch fe.Tag() {
	case "required":
		return NewValidationError(fe.Field(), "is required")
	case "oneof":
		return NewValidationError(fe.Field(), fmt.Sprintf("must be one of [%s]", fe.Param()))
	case "category":
		return NewValidationError(fe.Field(), fmt.Sprintf("unknown category %q", fe.Value()))
	case "latitude", "longitude":
		return NewValidationError(fe.Field(), "is out of range")
	default:
		return NewValidationError(fe.Field(), fmt.Sprintf("failed %s check", fe.Tag()))
	}
}

// ParseMeals splits a comma-separated meals parameter, keeping only known meal keys.
func ParseMeals(csv string) []AttributeKey {
	var meals []AttributeKey
	seen := map[AttributeKey]bool{}
	for _, part := range strings.Split(csv, ",") {
		key := AttributeKey(strings.TrimSpace(part))
		if seen[key] {
			continue
		}
		for _, m := range MealKeys {
			if key == m {
				meals = append(meals, key)
				seen[key] = true
				break
			}
		}
	}
	return meals
}
