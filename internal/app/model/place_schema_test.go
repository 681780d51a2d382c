package model

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// everything returns an attribute set with every key at a non-default value.
func everything() PlaceAttributes {
	return PlaceAttributes{
		PriceRange: ptr(PriceExpensive), Breakfast: true, Lunch: true, Dinner: true, Dessert: true,
		Snack: true, VeganOption: true, OutdoorSeating: true,
		IsFamilyFriendly: true, HasSmokingArea: true, AlcoholStatus: ptr(AlcoholBoth),
		BlueFlag: true, Sunbed: true, Shower: true,
		IsPaid: true, EntranceFee: "100 TL",
		TentRental: true, Electricity: true, FireAllowed: true, CaravanAccess: true,
		MuseumCardAccepted: true, Photography: true,
		PetFriendly: true, Playground: true, LargeArea: true, FreeEntry: true,
		Pool: true, Gym: true, NoiseLevel: ptr(NoiseLoud),
		Parking: true, Wifi: true, FoodCourt: true, BabyCare: true,
		Duration: "2h", ReservationRequired: true, BestTime: "sunset",
		MusicType: "jazz", DamAllowed: true,
	}
}

func TestEverythingCoversAllKeys(t *testing.T) {
	all := everything()
	for _, key := range AllAttributeKeys() {
		assert.False(t, IsDefault(all, key), "fixture leaves %s at default", key)
	}
}

func TestSanitize_ClearsNonApplicableKeys(t *testing.T) {
	for _, category := range AllCategories {
		t.Run(string(category), func(t *testing.T) {
			got := Sanitize(category, everything())
			for _, key := range AllAttributeKeys() {
				if IsApplicable(category, key) {
					assert.False(t, IsDefault(got, key), "%s should be kept for %s", key, category)
				} else {
					assert.True(t, IsDefault(got, key), "%s should be cleared for %s", key, category)
				}
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	for _, category := range AllCategories {
		once := Sanitize(category, everything())
		twice := Sanitize(category, once)
		assert.True(t, reflect.DeepEqual(once, twice), "sanitize not idempotent for %s", category)
	}
}

func TestSanitize_UnknownCategoryClearsEverything(t *testing.T) {
	assert.Equal(t, PlaceAttributes{}, Sanitize(Category("SPACESHIP"), everything()))
}

func TestApplicableKeys(t *testing.T) {
	tests := []struct {
		category Category
		include  []AttributeKey
		exclude  []AttributeKey
	}{
		{CategoryRestaurant, []AttributeKey{AttrPriceRange, AttrBreakfast, AttrAlcoholStatus, AttrIsFamilyFriendly}, []AttributeKey{AttrIsPaid, AttrParking}},
		{CategoryMall, []AttributeKey{AttrFoodCourt, AttrParking, AttrWifi, AttrHasSmokingArea}, []AttributeKey{AttrAlcoholStatus, AttrPriceRange}},
		{CategoryBeach, []AttributeKey{AttrBlueFlag, AttrIsPaid, AttrAlcoholStatus, AttrIsFamilyFriendly}, []AttributeKey{AttrPool}},
		{CategoryMuseum, []AttributeKey{AttrMuseumCardAccepted, AttrIsPaid, AttrEntranceFee}, []AttributeKey{AttrMusicType}},
		{CategoryHotel, []AttributeKey{AttrPool, AttrGym, AttrNoiseLevel, AttrParking}, []AttributeKey{AttrFoodCourt}},
		{CategoryClub, []AttributeKey{AttrMusicType, AttrDamAllowed, AttrIsPaid}, []AttributeKey{AttrPhotography}},
		{CategoryActivity, []AttributeKey{AttrDuration, AttrReservationRequired, AttrBestTime}, []AttributeKey{AttrIsPaid}},
		{CategoryPark, []AttributeKey{AttrPetFriendly, AttrFreeEntry}, []AttributeKey{AttrParking}},
		{CategoryCamping, []AttributeKey{AttrTentRental, AttrCaravanAccess}, []AttributeKey{AttrShower}},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			keys := ApplicableKeys(tt.category)
			for _, k := range tt.include {
				assert.Contains(t, keys, k)
			}
			for _, k := range tt.exclude {
				assert.NotContains(t, keys, k)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory(" cafe ")
	assert.True(t, ok)
	assert.Equal(t, CategoryCafe, c)

	_, ok = ParseCategory("Spaceport")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	valid := PlaceDraft{Title: " Kahve Durağı ", Category: "cafe", City: "İstanbul", District: "Kadıköy"}

	t.Run("normalizes and sanitizes", func(t *testing.T) {
		draft := valid
		draft.PlaceAttributes = everything()

		got, err := Validate(draft)
		require.NoError(t, err)
		assert.Equal(t, "Kahve Durağı", got.Title)
		assert.Equal(t, "CAFE", got.Category)
		assert.True(t, got.Breakfast)
		assert.False(t, got.Pool)
		assert.Nil(t, got.NoiseLevel)
	})

	tests := []struct {
		name   string
		mutate func(d *PlaceDraft)
		field  string
	}{
		{"missing title", func(d *PlaceDraft) { d.Title = "  " }, "title"},
		{"missing category", func(d *PlaceDraft) { d.Category = "" }, "category"},
		{"unknown category", func(d *PlaceDraft) { d.Category = "spaceport" }, "category"},
		{"missing city", func(d *PlaceDraft) { d.City = "" }, "city"},
		{"missing district", func(d *PlaceDraft) { d.District = "" }, "district"},
		{"bad price range", func(d *PlaceDraft) { d.PriceRange = ptr(PriceRange("FREE")) }, "priceRange"},
		{"bad alcohol status", func(d *PlaceDraft) { d.AlcoholStatus = ptr(AlcoholStatus("SOMETIMES")) }, "alcoholStatus"},
		{"bad latitude", func(d *PlaceDraft) { d.Latitude = ptr(123.0) }, "latitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := valid
			tt.mutate(&draft)

			_, err := Validate(draft)
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	t.Run("returns first violation only", func(t *testing.T) {
		_, err := Validate(PlaceDraft{})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title", verr.Field)
	})

	t.Run("bad enum on non-applicable key is cleared, not rejected", func(t *testing.T) {
		draft := valid
		draft.Category = "PARK"
		draft.NoiseLevel = ptr(NoiseLevel("DEAFENING"))

		got, err := Validate(draft)
		require.NoError(t, err)
		assert.Nil(t, got.NoiseLevel)
	})

	t.Run("empty enum means unset", func(t *testing.T) {
		draft := valid
		draft.PriceRange = ptr(PriceRange(""))
		draft.AlcoholStatus = ptr(AlcoholStatus(""))

		got, err := Validate(draft)
		require.NoError(t, err)
		assert.Nil(t, got.PriceRange)
		assert.Nil(t, got.AlcoholStatus)

		hotel := valid
		hotel.Category = "HOTEL"
		hotel.NoiseLevel = ptr(NoiseLevel(""))
		got, err = Validate(hotel)
		require.NoError(t, err)
		assert.Nil(t, got.NoiseLevel)
	})
}

func TestParseMeals(t *testing.T) {
	assert.Equal(t, []AttributeKey{AttrBreakfast, AttrDinner}, ParseMeals("breakfast, dinner,breakfast,pool,"))
	assert.Empty(t, ParseMeals(""))
}

func TestActorCanModify(t *testing.T) {
	assert.True(t, Actor{UserID: 3}.CanModify(3))
	assert.False(t, Actor{UserID: 4}.CanModify(3))
	assert.True(t, Actor{UserID: 4, Role: RoleAdmin}.CanModify(3))
	assert.False(t, Actor{}.CanModify(0))
}
