package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/rotaguide/rota-backend/internal/app/service"
	"github.com/rotaguide/rota-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// Column order of the import sheet. The first row is a header.
const (
	colTitle = iota
	colCategory
	colCity
	colDistrict
	colAddress
	colLatitude
	colLongitude
	colDescription
	colImages
	minColumns = colDistrict + 1
)

type rowError struct {
	Row    int
	Reason string
}

func (e rowError) String() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// readDrafts turns the first sheet into drafts. Rows that cannot be parsed are
// reported and skipped; semantic validation is left to the catalog service.
func readDrafts(f *excelize.File) ([]model.PlaceDraft, []int, []rowError, error) {
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil, nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil, nil, fmt.Errorf("no data rows in sheet %q", sheet)
	}

	var (
		drafts  []model.PlaceDraft
		lines   []int
		skipped []rowError
	)
	for i, row := range rows[1:] {
		line := i + 2
		if len(row) < minColumns {
			skipped = append(skipped, rowError{line, "missing required columns"})
			continue
		}

		draft := model.PlaceDraft{
			Title:       cell(row, colTitle),
			Category:    cell(row, colCategory),
			City:        cell(row, colCity),
			District:    cell(row, colDistrict),
			Address:     cell(row, colAddress),
			Description: cell(row, colDescription),
		}

		lat, latErr := parseCoordinate(cell(row, colLatitude))
		lng, lngErr := parseCoordinate(cell(row, colLongitude))
		if latErr != nil || lngErr != nil {
			skipped = append(skipped, rowError{line, "invalid coordinates"})
			continue
		}
		draft.Latitude, draft.Longitude = lat, lng

		for _, u := range strings.Split(cell(row, colImages), ";") {
			if u = strings.TrimSpace(u); u != "" {
				draft.Images = append(draft.Images, u)
			}
		}

		drafts = append(drafts, draft)
		lines = append(lines, line)
	}
	return drafts, lines, skipped, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseCoordinate treats an empty cell as unknown and accepts a decimal comma.
func parseCoordinate(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

type importSummary struct {
	Created    int
	Duplicates int
	Rejected   []rowError
}

// importDrafts creates each draft through the catalog service, skipping
// title and city pairs that already exist.
func importDrafts(places service.PlaceService, owner model.Actor, drafts []model.PlaceDraft, lines []int, approve bool) (importSummary, error) {
	var summary importSummary
	for i, draft := range drafts {
		existing, err := places.CheckExistence(draft.Title, draft.City)
		if err != nil {
			return summary, err
		}
		if existing != nil {
			summary.Duplicates++
			continue
		}

		place, err := places.CreatePlace(owner, draft)
		if err != nil {
			var verr *model.ValidationError
			if errors.As(err, &verr) {
				summary.Rejected = append(summary.Rejected, rowError{lines[i], verr.Error()})
				continue
			}
			return summary, err
		}
		if approve {
			if err := places.SetApproval(owner, place.ID, true); err != nil {
				return summary, err
			}
		}
		summary.Created++
	}

	logger.Info("Import finished", map[string]interface{}{
		"created":    summary.Created,
		"duplicates": summary.Duplicates,
		"rejected":   len(summary.Rejected),
	})
	return summary, nil
}
