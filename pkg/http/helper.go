package http

import (
	"net/http"
	"strconv"

	"salonhub/pkg/config"
	apperrors "salonhub/pkg/errors"
)

// ExtractLimitOffset reads the limit and offset query parameters and
// clamps them to the configured pagination bounds. Absent parameters
// fall back to the defaults.
func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	limit, err := queryInt64(r, "limit")
	if err != nil {
		return 0, 0, err
	}
	offset, err := queryInt64(r, "offset")
	if err != nil {
		return 0, 0, err
	}
	return config.NormalizePaginationLimit(int(limit)), config.NormalizeOffset(offset), nil
}

func queryInt64(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid " + name + " parameter: " + raw)
	}
	return v, nil
}
