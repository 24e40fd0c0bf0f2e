package handler

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"shopit/storefront-service/internal/app/storefront/entity"
	"shopit/storefront-service/internal/app/storefront/service"
)

const maxPageSize = 100

// ParseProductFilter разбирает параметры каталога: keyword, category,
// price[gte|gt|lte|lt], ratings[...], page, limit. Остальные ключи игнорируются.
func ParseProductFilter(values url.Values, defaultPageSize int) (entity.ProductFilter, error) {
	filter := entity.ProductFilter{
		Keyword:  strings.TrimSpace(values.Get("keyword")),
		Category: strings.TrimSpace(values.Get("category")),
		Page:     1,
		PageSize: defaultPageSize,
	}

	var err error
	if filter.Price, err = parseRange(values, "price"); err != nil {
		return entity.ProductFilter{}, err
	}
	if filter.Ratings, err = parseRange(values, "ratings"); err != nil {
		return entity.ProductFilter{}, err
	}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return entity.ProductFilter{}, fmt.Errorf("%w: page must be a positive integer", service.ErrValidation)
		}
		filter.Page = page
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxPageSize {
			return entity.ProductFilter{}, fmt.Errorf("%w: limit must be between 1 and %d", service.ErrValidation, maxPageSize)
		}
		filter.PageSize = limit
	}

	return filter, nil
}

func parseRange(values url.Values, field string) (entity.NumberRange, error) {
	var r entity.NumberRange
	targets := map[string]**float64{
		"gte": &r.Gte,
		"gt":  &r.Gt,
		"lte": &r.Lte,
		"lt":  &r.Lt,
	}

	for op, target := range targets {
		raw := values.Get(field + "[" + op + "]")
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return entity.NumberRange{}, fmt.Errorf("%w: %s[%s] must be a number", service.ErrValidation, field, op)
		}
		*target = &v
	}

	return r, nil
}
