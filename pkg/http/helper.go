package http

import (
	"net/http"
	"strconv"
	"time"

	"hotelbooking/pkg/config"
	apperrors "hotelbooking/pkg/errors"
)

const dateLayout = "2006-01-02"

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = v
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns the calendar date at
// UTC midnight.
func ParseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, apperrors.InvalidInput(field + " is required")
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("invalid " + field + " format, must be YYYY-MM-DD or RFC3339")
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
