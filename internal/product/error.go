package product

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPrice    = errors.New("price must be greater than zero")
	ErrInvalidStock    = errors.New("stock quantity must not be negative")
	ErrUnauthorized    = errors.New("unauthorized")
)
