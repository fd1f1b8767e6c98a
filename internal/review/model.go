package review

import "time"

type Review struct {
	ID        uint       `json:"id"`
	UserID    uint       `json:"user_id"`
	Username  string     `json:"username,omitempty"`
	ProductID uint       `json:"product_id"`
	Rating    int        `json:"rating"`
	Comment   *string    `json:"comment,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type NewReview struct {
	ProductID uint    `json:"product_id"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment,omitempty"`
}

type UpdateReview struct {
	Rating  *int    `json:"rating,omitempty"`
	Comment *string `json:"comment,omitempty"`
}

// ProductSummary aggregates a product's reviews for listing endpoints.
type ProductSummary struct {
	ProductID     uint    `json:"-"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}
