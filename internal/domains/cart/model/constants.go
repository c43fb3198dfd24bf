package model

// Cart business constraints
const (
	// MaxItemsPerProduct is the maximum quantity allowed for a single product in cart
	MaxItemsPerProduct = 100

	// DefaultCartExpirationDays is the default number of days before a cart expires
	DefaultCartExpirationDays = 30
)

// Notice types raised by promotion passes
const (
	NoticeTypeSuccess = "success"
	NoticeTypeNotice  = "notice"
	NoticeTypeError   = "error"
)
