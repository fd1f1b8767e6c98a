package order

import (
	"time"

	"storefront-be/internal/product"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every status in lifecycle order.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		StatusPending,
		StatusConfirmed,
		StatusShipped,
		StatusDelivered,
		StatusCancelled,
	}
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCreditCard     PaymentMethod = "credit_card"
	PaymentDebitCard      PaymentMethod = "debit_card"
	PaymentPaypal         PaymentMethod = "paypal"
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
)

func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		PaymentCreditCard,
		PaymentDebitCard,
		PaymentPaypal,
		PaymentCashOnDelivery,
		PaymentBankTransfer,
	}
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentDebitCard, PaymentPaypal, PaymentCashOnDelivery, PaymentBankTransfer:
		return true
	}
	return false
}

// Order is the aggregate root. UserID is nil for guest checkouts.
type Order struct {
	ID                  uint
	UserID              *uint
	TotalAmount         float64
	Status              OrderStatus
	ShippingAddress     string
	ContactName         string
	ContactEmail        string
	ContactPhone        *string
	PaymentMethod       PaymentMethod
	SpecialInstructions *string
	CreatedAt           time.Time
	UpdatedAt           *time.Time
	Items               []OrderItem
}

// OrderItem carries the unit price snapshot taken at placement time; it
// never changes even if the product is later repriced or deleted.
type OrderItem struct {
	ID          uint
	OrderID     uint
	ProductID   uint
	ProductName string
	Quantity    int
	UnitPrice   float64
	TotalPrice  float64
}

type LineItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// ResolvedItem is the validator's output: a product joined with the
// effective unit price observed at validation time.
type ResolvedItem struct {
	Product   product.Product
	UnitPrice float64
	Quantity  int
}

type CheckoutInput struct {
	Items               []LineItemInput
	ShippingAddress     string
	ContactName         string
	ContactEmail        string
	ContactPhone        *string
	PaymentMethod       PaymentMethod
	SpecialInstructions *string
	UserID              *uint
	IdempotencyKey      *string
	CouponCode          *string
}
