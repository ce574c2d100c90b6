package handlers

import (
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
)

// pagination carries the parsed page/limit/sort query parameters shared by
// the listing endpoints.
type pagination struct {
	Page  int64
	Limit int64
	Sort  string
	Order int // 1 ascending, -1 descending
}

func parsePagination(r *http.Request, defaultSort string) pagination {
	p := pagination{Page: 1, Limit: 10, Sort: defaultSort, Order: -1}

	q := r.URL.Query()
	if v, err := strconv.ParseInt(q.Get("page"), 10, 64); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.ParseInt(q.Get("limit"), 10, 64); err == nil && v > 0 && v <= 100 {
		p.Limit = v
	}
	if s := q.Get("sort"); s != "" {
		p.Sort = s
	}
	if q.Get("order") == "asc" {
		p.Order = 1
	}
	return p
}

func (p pagination) SortSpec() bson.D {
	return bson.D{{Key: p.Sort, Value: p.Order}}
}

func (p pagination) Skip() int64 {
	return (p.Page - 1) * p.Limit
}

func totalPages(total, limit int64) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// priceRange builds a $gte/$lte filter from minPrice/maxPrice query params.
func priceRange(r *http.Request, field string, filter bson.M) {
	rangeFilter := bson.M{}
	if v, err := strconv.ParseFloat(r.URL.Query().Get("minPrice"), 64); err == nil {
		rangeFilter["$gte"] = v
	}
	if v, err := strconv.ParseFloat(r.URL.Query().Get("maxPrice"), 64); err == nil {
		rangeFilter["$lte"] = v
	}
	if len(rangeFilter) > 0 {
		filter[field] = rangeFilter
	}
}
