package product

import "time"

type Product struct {
	ID            uint       `json:"id"`
	Name          string     `json:"name"`
	Description   *string    `json:"description,omitempty"`
	OriginalPrice float64    `json:"original_price"`
	DiscountPrice *float64   `json:"discount_price,omitempty"`
	StockQuantity int        `json:"stock_quantity"`
	Category      *string    `json:"category,omitempty"`
	Tags          *string    `json:"tags,omitempty"`
	Colors        *string    `json:"colors,omitempty"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// EffectivePrice is the price a purchaser actually pays: the discount
// price when one is set and lower than the original price.
func (p *Product) EffectivePrice() float64 {
	if p.DiscountPrice != nil && *p.DiscountPrice < p.OriginalPrice {
		return *p.DiscountPrice
	}
	return p.OriginalPrice
}

type ListOptions struct {
	Category   *string
	Search     *string
	OnlyActive bool
	Limit      int32
	Offset     int32
}

type NewProduct struct {
	Name          string   `json:"name"`
	Description   *string  `json:"description"`
	OriginalPrice float64  `json:"original_price"`
	DiscountPrice *float64 `json:"discount_price"`
	StockQuantity int      `json:"stock_quantity"`
	Category      *string  `json:"category"`
	Tags          *string  `json:"tags"`
	Colors        *string  `json:"colors"`
}

type UpdateProduct struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	OriginalPrice *float64 `json:"original_price"`
	DiscountPrice *float64 `json:"discount_price"`
	StockQuantity *int     `json:"stock_quantity"`
	Category      *string  `json:"category"`
	Tags          *string  `json:"tags"`
	Colors        *string  `json:"colors"`
	IsActive      *bool    `json:"is_active"`
}
