package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"

	"github.com/Jawed-lol/inkwell-sub000/internal/store"
)

// decodeBody unmarshals the request body into v using json/v2.
func decodeBody(r *http.Request, v any) error {
	return json.UnmarshalRead(r.Body, v)
}

// paginationFromQuery reads page/limit query parameters, falling back to the
// defaults and clamping out-of-range values.
func paginationFromQuery(r *http.Request) store.PaginationParams {
	params := store.DefaultPaginationParams()

	if raw := r.URL.Query().Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			params.Page = page
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			params.Limit = limit
		}
	}

	params.Validate()
	return params
}
