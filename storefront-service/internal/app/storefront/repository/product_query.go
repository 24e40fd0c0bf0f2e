package repository

import (
	"regexp"

	"shopit/storefront-service/internal/app/storefront/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BuildProductFilter собирает условие выборки каталога.
// keyword ищется подстрокой в name без учета регистра, остальные условия объединяются через AND.
func BuildProductFilter(f entity.ProductFilter) bson.M {
	filter := bson.M{}

	if f.Keyword != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Keyword), Options: "i"}
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if cond := rangeCondition(f.Price); cond != nil {
		filter["price"] = cond
	}
	if cond := rangeCondition(f.Ratings); cond != nil {
		filter["ratings"] = cond
	}

	return filter
}

func rangeCondition(r entity.NumberRange) bson.M {
	if r.IsEmpty() {
		return nil
	}

	cond := bson.M{}
	if r.Gte != nil {
		cond["$gte"] = *r.Gte
	}
	if r.Gt != nil {
		cond["$gt"] = *r.Gt
	}
	if r.Lte != nil {
		cond["$lte"] = *r.Lte
	}
	if r.Lt != nil {
		cond["$lt"] = *r.Lt
	}
	return cond
}

// PageWindow возвращает skip и limit для страницы (нумерация с 1)
func PageWindow(page, pageSize int) (skip, limit int64) {
	if page < 1 {
		page = 1
	}
	return int64(page-1) * int64(pageSize), int64(pageSize)
}

// BuildProductFindOptions - окно пагинации и стабильный порядок для каталога
func BuildProductFindOptions(f entity.ProductFilter) *options.FindOptions {
	skip, limit := PageWindow(f.Page, f.PageSize)
	return options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: "_id", Value: 1}})
}
