package http

import (
	"net/http"
	"strconv"

	"cafebook/internal/slots"
	"cafebook/pkg/config"
	apperrors "cafebook/pkg/errors"
)

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

	var offset int64
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = v
	}

	return config.NormalizePaginationLimit(limit), config.NormalizeOffset(offset), nil
}

// ExtractDate reads and validates the required ?date=YYYY-MM-DD parameter.
func ExtractDate(r *http.Request) (string, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return "", apperrors.InvalidInput("date query parameter is required")
	}
	date, err := slots.ParseDateKey(raw)
	if err != nil {
		return "", apperrors.InvalidInput("date must be a valid YYYY-MM-DD date: " + raw)
	}
	return date.String(), nil
}

// ExtractOptionalDate is like ExtractDate but tolerates a missing parameter.
func ExtractOptionalDate(r *http.Request) (string, error) {
	if r.URL.Query().Get("date") == "" {
		return "", nil
	}
	return ExtractDate(r)
}
