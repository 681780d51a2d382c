package service

import (
	"strings"
	"unicode/utf8"

	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/rotaguide/rota-backend/internal/app/repository"
	"github.com/rotaguide/rota-backend/pkg/logger"
	"github.com/rotaguide/rota-backend/pkg/util"
)

const (
	DefaultSuggestMinQueryLen = 2
	maxCitySuggestions        = 3
	maxCategorySuggestions    = 3
	maxPlaceSuggestions       = 5
)

type PlaceSuggestion struct {
	ID       uint           `json:"id"`
	Title    string         `json:"title"`
	City     string         `json:"city"`
	Category model.Category `json:"category"`
}

type Suggestions struct {
	Cities     []string          `json:"cities"`
	Categories []model.Category  `json:"categories"`
	Places     []PlaceSuggestion `json:"places"`
}

func emptySuggestions() *Suggestions {
	return &Suggestions{
		Cities:     []string{},
		Categories: []model.Category{},
		Places:     []PlaceSuggestion{},
	}
}

// Suggest buckets entries whose title, city or category contains the folded
// query. Buckets fill in scan order; cities and categories are deduplicated,
// place titles are not.
func Suggest(query string, entries []repository.SuggestionEntry, minQueryLen int) *Suggestions {
	out := emptySuggestions()

	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minQueryLen {
		return out
	}
	q := util.Normalize(query)

	seenCities := map[string]bool{}
	seenCategories := map[model.Category]bool{}

	for _, e := range entries {
		if len(out.Cities) < maxCitySuggestions && util.ContainsFolded(e.City, q) {
			key := util.Normalize(e.City)
			if !seenCities[key] {
				seenCities[key] = true
				out.Cities = append(out.Cities, e.City)
			}
		}
		if len(out.Categories) < maxCategorySuggestions && util.ContainsFolded(string(e.Category), q) {
			if !seenCategories[e.Category] {
				seenCategories[e.Category] = true
				out.Categories = append(out.Categories, e.Category)
			}
		}
		if len(out.Places) < maxPlaceSuggestions && util.ContainsFolded(e.Title, q) {
			out.Places = append(out.Places, PlaceSuggestion{ID: e.ID, Title: e.Title, City: e.City, Category: e.Category})
		}

		if len(out.Cities) == maxCitySuggestions &&
			len(out.Categories) == maxCategorySuggestions &&
			len(out.Places) == maxPlaceSuggestions {
			break
		}
	}
	return out
}

type SearchService interface {
	Suggest(query string) (*Suggestions, error)
}

type searchService struct {
	places      repository.PlaceRepository
	minQueryLen int
}

func NewSearchService(places repository.PlaceRepository, minQueryLen int) SearchService {
	if minQueryLen <= 0 {
		minQueryLen = DefaultSuggestMinQueryLen
	}
	return &searchService{places: places, minQueryLen: minQueryLen}
}

// Suggest reads the approved catalog on every call; nothing is cached between requests.
func (s *searchService) Suggest(query string) (*Suggestions, error) {
	if utf8.RuneCountInString(strings.TrimSpace(query)) < s.minQueryLen {
		return emptySuggestions(), nil
	}

	entries, err := s.places.ListApprovedEntries()
	if err != nil {
		return nil, persistenceError("load suggestion entries", err, nil)
	}

	result := Suggest(query, entries, s.minQueryLen)
	logger.Debug("Suggestions computed", map[string]interface{}{
		"query":      query,
		"scanned":    len(entries),
		"cities":     len(result.Cities),
		"categories": len(result.Categories),
		"places":     len(result.Places),
	})
	return result, nil
}
