package repository

import (
	"testing"

	"shopit/storefront-service/internal/app/storefront/entity"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ptr(v float64) *float64 { return &v }

func TestBuildProductFilter_Empty(t *testing.T) {
	filter := BuildProductFilter(entity.ProductFilter{Page: 1, PageSize: 4})

	assert.Empty(t, filter)
}

func TestBuildProductFilter_KeywordIsQuotedAndCaseInsensitive(t *testing.T) {
	// Act
	filter := BuildProductFilter(entity.ProductFilter{Keyword: "USB-C (2m)"})

	// Assert
	regex, ok := filter["name"].(primitive.Regex)
	assert.True(t, ok)
	assert.Equal(t, `USB-C \(2m\)`, regex.Pattern)
	assert.Equal(t, "i", regex.Options)
}

func TestBuildProductFilter_RangesAndCategory(t *testing.T) {
	// Arrange
	f := entity.ProductFilter{
		Category: "Laptops",
		Price:    entity.NumberRange{Gte: ptr(1), Lt: ptr(200)},
		Ratings:  entity.NumberRange{Gt: ptr(3)},
	}

	// Act
	filter := BuildProductFilter(f)

	// Assert
	assert.Equal(t, bson.M{
		"category": "Laptops",
		"price":    bson.M{"$gte": 1.0, "$lt": 200.0},
		"ratings":  bson.M{"$gt": 3.0},
	}, filter)
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		page, size  int
		skip, limit int64
	}{
		{1, 4, 0, 4},
		{2, 4, 4, 4},
		{3, 10, 20, 10},
		{100, 4, 396, 4},
		{0, 4, 0, 4},
	}

	for _, tt := range tests {
		skip, limit := PageWindow(tt.page, tt.size)
		assert.Equal(t, tt.skip, skip, "page %d", tt.page)
		assert.Equal(t, tt.limit, limit, "page %d", tt.page)
	}
}

func TestBuildProductFindOptions(t *testing.T) {
	opts := BuildProductFindOptions(entity.ProductFilter{Page: 3, PageSize: 4})

	assert.Equal(t, int64(8), *opts.Skip)
	assert.Equal(t, int64(4), *opts.Limit)
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, opts.Sort)
}
