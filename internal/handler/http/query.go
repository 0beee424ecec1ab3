package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/sitecrew/sitecrew-backend-go/internal/pkg/validator"
)

// optionalQuery returns a pointer to the trimmed query value, or nil when the
// parameter is absent or blank.
func optionalQuery(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil
	}
	return &v
}

// pagination reads page and limit. Malformed values are reported as
// validation errors rather than silently defaulted.
func pagination(r *http.Request) (page, limit int, err error) {
	var errs validator.ValidationErrors
	q := r.URL.Query()

	if v := q.Get("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil || page < 0 {
			errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a non-negative integer"})
		}
	}
	if v := q.Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a non-negative integer"})
		}
	}

	if len(errs) > 0 {
		return 0, 0, errs
	}
	return page, limit, nil
}
