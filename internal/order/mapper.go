package order

import "time"

type ItemResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

type Response struct {
	ID                  uint           `json:"id"`
	UserID              *uint          `json:"user_id,omitempty"`
	TotalAmount         float64        `json:"total_amount"`
	Status              OrderStatus    `json:"status"`
	ShippingAddress     string         `json:"shipping_address"`
	ContactName         string         `json:"contact_name"`
	ContactEmail        string         `json:"contact_email"`
	ContactPhone        *string        `json:"contact_phone,omitempty"`
	PaymentMethod       PaymentMethod  `json:"payment_method"`
	SpecialInstructions *string        `json:"special_instructions,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           *time.Time     `json:"updated_at,omitempty"`
	Items               []ItemResponse `json:"items"`
}

func ToResponse(o *Order) *Response {
	items := make([]ItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, ItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}

	return &Response{
		ID:                  o.ID,
		UserID:              o.UserID,
		TotalAmount:         o.TotalAmount,
		Status:              o.Status,
		ShippingAddress:     o.ShippingAddress,
		ContactName:         o.ContactName,
		ContactEmail:        o.ContactEmail,
		ContactPhone:        o.ContactPhone,
		PaymentMethod:       o.PaymentMethod,
		SpecialInstructions: o.SpecialInstructions,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
		Items:               items,
	}
}

func ToResponseList(orders []*Order) []*Response {
	out := make([]*Response, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToResponse(o))
	}
	return out
}
