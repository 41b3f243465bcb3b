package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ratewise/biz-trust-meter/internal/errors"
	"github.com/ratewise/biz-trust-meter/internal/types"
)

// Accepted date layouts, tried in order. The dataset format promises ISO-8601
// or at least a parseable date string.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDataset decodes a JSON array of businesses from r and validates it into
// the immutable in-memory form the scoring pipeline consumes.
func ParseDataset(r io.Reader) ([]types.Business, error) {
	var raw []types.RawBusiness
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.NewValidationError("dataset is not valid JSON", err.Error())
	}
	return ConvertBusinesses(raw)
}

// ConvertBusinesses validates already-decoded raw businesses. All validation
// failures are collected per field so a bad dataset is reported in one pass.
func ConvertBusinesses(raw []types.RawBusiness) ([]types.Business, error) {
	fieldErrors := make(map[string]string)
	seen := make(map[string]bool, len(raw))
	businesses := make([]types.Business, 0, len(raw))

	for i, rb := range raw {
		name := strings.TrimSpace(rb.Name)
		key := fmt.Sprintf("businesses[%d]", i)

		if name == "" {
			fieldErrors[key+".name"] = "name is required"
			continue
		}
		if seen[name] {
			fieldErrors[key+".name"] = fmt.Sprintf("duplicate business name %q", name)
			continue
		}
		seen[name] = true

		b := types.Business{
			Name:     name,
			Category: strings.TrimSpace(rb.Category),
			Ratings:  make([]types.Rating, 0, len(rb.Ratings)),
		}

		for j, rr := range rb.Ratings {
			ratingKey := fmt.Sprintf("%s.ratings[%d]", key, j)

			if rr.Score < 1 || rr.Score > 5 {
				fieldErrors[ratingKey+".score"] = fmt.Sprintf("score %d outside 1-5", rr.Score)
				continue
			}

			date, err := parseDate(rr.Date)
			if err != nil {
				fieldErrors[ratingKey+".date"] = err.Error()
				continue
			}

			b.Ratings = append(b.Ratings, types.Rating{Score: rr.Score, Date: date})
		}

		businesses = append(businesses, b)
	}

	if len(fieldErrors) > 0 {
		return nil, errors.NewValidationErrorWithMap("dataset validation failed", fieldErrors)
	}

	return businesses, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
