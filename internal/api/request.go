package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"clubhub-backend-go/internal/db"
	"clubhub-backend-go/internal/models"
)

// decodeJSON reads the request body into dst, rejecting unknown fields and
// trailing data. Patch bodies rely on this: a misspelt field must fail with
// 400 rather than be silently ignored.
func decodeJSON(c *gin.Context, dst any) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return models.NewValidationError("body", "is required")
		}
		return models.NewValidationError("body", err.Error())
	}
	if dec.More() {
		return models.NewValidationError("body", "must hold a single JSON object")
	}
	return nil
}

type filterKind int

const (
	filterString filterKind = iota
	filterBool
	filterInt
)

// filters names the query parameters a list endpoint turns into equality
// filters, with the type each value is parsed as.
type filters map[string]filterKind

// listOptions builds db.ListOptions from orderBy, direction, limit,
// startAfter and the endpoint's equality filters. Field names are checked
// again by the repository.
func listOptions(c *gin.Context, allowed filters) (db.ListOptions, error) {
	var opts db.ListOptions
	for field, kind := range allowed {
		raw, ok := c.GetQuery(field)
		if !ok {
			continue
		}
		value, err := parseFilterValue(field, raw, kind)
		if err != nil {
			return db.ListOptions{}, err
		}
		opts.Where = append(opts.Where, db.Filter{Field: field, Op: "==", Value: value})
	}

	if orderBy := c.Query("orderBy"); orderBy != "" {
		desc := false
		switch strings.ToLower(c.DefaultQuery("direction", "asc")) {
		case "asc":
		case "desc":
			desc = true
		default:
			return db.ListOptions{}, models.NewValidationError("direction", "must be asc or desc")
		}
		opts.OrderBy = []db.Order{{Field: orderBy, Desc: desc}}
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return db.ListOptions{}, models.NewValidationError("limit", "must be an integer")
		}
		opts.Limit = limit
	}
	// startAfter is the ID of the last item of the previous page, as returned
	// in ListResponse.nextStartAfter.
	opts.StartAfter = c.Query("startAfter")
	return opts, nil
}

func parseFilterValue(field, raw string, kind filterKind) (any, error) {
	switch kind {
	case filterBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, models.NewValidationError(field, "must be true or false")
		}
		return v, nil
	case filterInt:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, models.NewValidationError(field, fmt.Sprintf("must be an integer, got %q", raw))
		}
		return v, nil
	default:
		return raw, nil
	}
}

// page wraps items in a ListResponse, pointing at the last ID when the page
// filled the requested limit.
func page[T any](items []T, limit int, id func(T) string) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	resp := ListResponse[T]{Items: items}
	if limit > 0 && len(items) == limit {
		resp.NextStartAfter = id(items[len(items)-1])
	}
	return resp
}
