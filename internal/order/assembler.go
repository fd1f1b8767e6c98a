package order

import "time"

// AssembleOrder builds the in-memory Order aggregate from validated
// line items and checkout metadata. Pure computation: nothing is
// persisted and no stock is touched here.
func AssembleOrder(resolved []ResolvedItem, input CheckoutInput) (*Order, error) {
	if len(resolved) == 0 {
		return nil, ErrEmptyOrder
	}
	if !input.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	items := make([]OrderItem, 0, len(resolved))
	var total float64

	for _, ri := range resolved {
		lineTotal := ri.UnitPrice * float64(ri.Quantity)
		total += lineTotal

		items = append(items, OrderItem{
			ProductID:   ri.Product.ID,
			ProductName: ri.Product.Name,
			Quantity:    ri.Quantity,
			UnitPrice:   ri.UnitPrice,
			TotalPrice:  lineTotal,
		})
	}

	return &Order{
		UserID:              input.UserID,
		TotalAmount:         total,
		Status:              StatusPending,
		ShippingAddress:     input.ShippingAddress,
		ContactName:         input.ContactName,
		ContactEmail:        input.ContactEmail,
		ContactPhone:        input.ContactPhone,
		PaymentMethod:       input.PaymentMethod,
		SpecialInstructions: input.SpecialInstructions,
		CreatedAt:           time.Now(),
		Items:               items,
	}, nil
}
