package model

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductOutOfStock = errors.New("product is out of stock")
)
