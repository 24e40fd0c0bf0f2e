package entity

import "go.mongodb.org/mongo-driver/bson/primitive"

// UpsertReview добавляет отзыв или заменяет существующий отзыв того же пользователя.
// Возвращает true, если отзыв был заменен.
func (p *Product) UpsertReview(review Review) bool {
	replaced := false
	for i := range p.Reviews {
		if p.Reviews[i].UserID == review.UserID {
			review.ID = p.Reviews[i].ID
			p.Reviews[i] = review
			replaced = true
			break
		}
	}

	if !replaced {
		if review.ID.IsZero() {
			review.ID = primitive.NewObjectID()
		}
		p.Reviews = append(p.Reviews, review)
	}

	p.RecalculateRatings()
	return replaced
}

// FindReview ищет отзыв по ID
func (p *Product) FindReview(id primitive.ObjectID) (*Review, bool) {
	for i := range p.Reviews {
		if p.Reviews[i].ID == id {
			return &p.Reviews[i], true
		}
	}
	return nil, false
}

// RemoveReview удаляет отзыв и пересчитывает рейтинг
func (p *Product) RemoveReview(id primitive.ObjectID) bool {
	for i := range p.Reviews {
		if p.Reviews[i].ID == id {
			p.Reviews = append(p.Reviews[:i], p.Reviews[i+1:]...)
			p.RecalculateRatings()
			return true
		}
	}
	return false
}

// RecalculateRatings: ratings - среднее по отзывам (0 без отзывов), num_of_reviews - их количество
func (p *Product) RecalculateRatings() {
	if p.Reviews == nil {
		p.Reviews = []Review{}
	}

	p.NumOfReviews = len(p.Reviews)
	if p.NumOfReviews == 0 {
		p.Ratings = 0
		return
	}

	var sum float64
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Ratings = sum / float64(p.NumOfReviews)
}
