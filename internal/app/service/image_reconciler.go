package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/rotaguide/rota-backend/internal/app/repository"
	"github.com/rotaguide/rota-backend/pkg/logger"
	"gorm.io/gorm"
)

const DefaultMaxImages = 4

// ImageSet is a persisted set of image URLs belonging to one owner row.
// Implementations must be bound to the transaction the reconciliation runs in.
type ImageSet interface {
	CurrentURLs(ownerID uint) ([]string, error)
	DeleteURLs(ownerID uint, urls []string) (int64, error)
	InsertURLs(ownerID uint, urls []string) error
}

// orderedImageSet is implemented by sets that persist the submitted order.
type orderedImageSet interface {
	Reorder(ownerID uint, urls []string) error
}

type ReconcileResult struct {
	Kept    []string `json:"kept"`
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

func (r ReconcileResult) Changed() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0
}

var urlValidator = validator.New()

// PrepareImageList trims the submitted URLs, drops blanks and duplicates
// (keeping first occurrences) and rejects non-http(s) URLs or more than max
// distinct entries.
func PrepareImageList(urls []string, max int) ([]string, error) {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, raw := range urls {
		u := strings.TrimSpace(raw)
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		if err := urlValidator.Var(u, "http_url"); err != nil {
			return nil, model.NewValidationError("images", fmt.Sprintf("%q is not an http(s) URL", u))
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	if len(out) > max {
		return nil, model.NewValidationError("images", fmt.Sprintf("at most %d images are allowed, got %d", max, len(out)))
	}
	return out, nil
}

// ApplyImageSet diffs desired against the persisted set and applies the difference.
// desired must already be prepared. Rows whose URL is in both sets are not touched.
func ApplyImageSet(set ImageSet, ownerID uint, desired []string) (*ReconcileResult, error) {
	current, err := set.CurrentURLs(ownerID)
	if err != nil {
		return nil, err
	}

	want := make(map[string]struct{}, len(desired))
	for _, u := range desired {
		want[u] = struct{}{}
	}
	have := make(map[string]struct{}, len(current))
	for _, u := range current {
		have[u] = struct{}{}
	}

	result := &ReconcileResult{}
	for _, u := range current {
		if _, ok := want[u]; ok {
			result.Kept = append(result.Kept, u)
		} else {
			result.Removed = append(result.Removed, u)
		}
	}
	for _, u := range desired {
		if _, ok := have[u]; !ok {
			result.Added = append(result.Added, u)
		}
	}

	deleted, err := set.DeleteURLs(ownerID, result.Removed)
	if err != nil {
		return nil, err
	}
	if deleted != int64(len(result.Removed)) {
		return nil, fmt.Errorf("image set changed concurrently: expected %d deletions, got %d", len(result.Removed), deleted)
	}
	if err := set.InsertURLs(ownerID, result.Added); err != nil {
		return nil, err
	}
	if ordered, ok := set.(orderedImageSet); ok {
		if err := ordered.Reorder(ownerID, desired); err != nil {
			return nil, err
		}
	}
	return result, nil
}

type ImageReconciler interface {
	ReconcilePlace(placeID uint, urls []string) (*ReconcileResult, error)
}

type imageReconciler struct {
	db        *gorm.DB
	images    repository.PlaceImageRepository
	maxImages int
}

func NewImageReconciler(db *gorm.DB, images repository.PlaceImageRepository, maxImages int) ImageReconciler {
	if maxImages <= 0 {
		maxImages = DefaultMaxImages
	}
	return &imageReconciler{db: db, images: images, maxImages: maxImages}
}

// ReconcilePlace replaces the place's photo set with urls in one transaction.
// An invalid list is rejected before any row is read or written.
func (s *imageReconciler) ReconcilePlace(placeID uint, urls []string) (*ReconcileResult, error) {
	desired, err := PrepareImageList(urls, s.maxImages)
	if err != nil {
		logger.Warn("Image list rejected", map[string]interface{}{
			"place_id": placeID,
			"reason":   err.Error(),
		})
		return nil, err
	}

	var result *ReconcileResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Place{}).Where("id = ?", placeID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrPlaceNotFound
		}
		result, err = ApplyImageSet(s.images.WithTx(tx), placeID, desired)
		return err
	})
	if err != nil {
		if err == ErrPlaceNotFound {
			return nil, err
		}
		return nil, persistenceError("reconcile place images", err, map[string]interface{}{
			"place_id": placeID,
		})
	}

	logger.Info("Place images reconciled", map[string]interface{}{
		"place_id": placeID,
		"kept":     len(result.Kept),
		"added":    len(result.Added),
		"removed":  len(result.Removed),
	})
	return result, nil
}
