package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want pagination
	}{
		{"defaults", "/api/trips", pagination{Page: 1, Limit: 10, Sort: "created_at", Order: -1}},
		{"explicit", "/api/trips?page=3&limit=25&sort=price&order=asc", pagination{Page: 3, Limit: 25, Sort: "price", Order: 1}},
		{"limit capped", "/api/trips?limit=5000", pagination{Page: 1, Limit: 10, Sort: "created_at", Order: -1}},
		{"garbage ignored", "/api/trips?page=abc&limit=-1&order=desc", pagination{Page: 1, Limit: 10, Sort: "created_at", Order: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			assert.Equal(t, tt.want, parsePagination(r, "created_at"))
		})
	}
}

func TestPaginationSkipAndPages(t *testing.T) {
	p := pagination{Page: 3, Limit: 10}
	assert.Equal(t, int64(20), p.Skip())

	assert.Equal(t, int64(0), totalPages(0, 10))
	assert.Equal(t, int64(1), totalPages(10, 10))
	assert.Equal(t, int64(2), totalPages(11, 10))
}

func TestPriceRange(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/trips?minPrice=100&maxPrice=250.5", nil)
	filter := bson.M{}
	priceRange(r, "price", filter)
	assert.Equal(t, bson.M{"price": bson.M{"$gte": 100.0, "$lte": 250.5}}, filter)

	r = httptest.NewRequest("GET", "/api/trips", nil)
	filter = bson.M{}
	priceRange(r, "price", filter)
	assert.Empty(t, filter)
}
