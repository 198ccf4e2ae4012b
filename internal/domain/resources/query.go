package resources

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"vet-practice/internal/dataprovider"
)

var ErrInvalidQuery = errors.New("invalid query")

// parseListParams lee page, page_size (máximo dataprovider.MaxPageSize), sort=f:asc,g:desc y filter=f:op:v (repetible).
// Operadores desconocidos pasan tal cual: el provider los ignora.
func parseListParams(q url.Values) (dataprovider.Pagination, []dataprovider.Filter, []dataprovider.Sorter, error) {
	var p dataprovider.Pagination

	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, nil, nil, fmt.Errorf("%w: page must be a positive integer", ErrInvalidQuery)
		}
		p.Current = n
	}
	if raw := strings.TrimSpace(q.Get("page_size")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, nil, nil, fmt.Errorf("%w: page_size must be a positive integer", ErrInvalidQuery)
		}
		if n > dataprovider.MaxPageSize {
			return p, nil, nil, fmt.Errorf("%w: page_size must be at most %d", ErrInvalidQuery, dataprovider.MaxPageSize)
		}
		p.PageSize = n
	}

	sorters, err := parseSorters(q.Get("sort"))
	if err != nil {
		return p, nil, nil, err
	}

	filters := make([]dataprovider.Filter, 0, len(q["filter"]))
	for _, raw := range q["filter"] {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) != 3 || strings.TrimSpace(parts[0]) == "" {
			return p, nil, nil, fmt.Errorf("%w: filter %q must be field:operator:value", ErrInvalidQuery, raw)
		}
		filters = append(filters, dataprovider.Filter{
			Field:    strings.TrimSpace(parts[0]),
			Operator: dataprovider.Operator(strings.ToLower(strings.TrimSpace(parts[1]))),
			Value:    parts[2],
		})
	}

	return p, filters, sorters, nil
}

func parseSorters(raw string) ([]dataprovider.Sorter, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	out := make([]dataprovider.Sorter, 0)
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		field, order, _ := strings.Cut(item, ":")
		field = strings.TrimSpace(field)
		if field == "" {
			return nil, fmt.Errorf("%w: empty sort field", ErrInvalidQuery)
		}

		o := dataprovider.Asc
		switch strings.ToLower(strings.TrimSpace(order)) {
		case "", "asc":
		case "desc":
			o = dataprovider.Desc
		default:
			return nil, fmt.Errorf("%w: sort order %q must be asc or desc", ErrInvalidQuery, order)
		}
		out = append(out, dataprovider.Sorter{Field: field, Order: o})
	}
	return out, nil
}
