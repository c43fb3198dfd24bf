package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddToCartRequest represents request to add item to cart
type AddToCartRequest struct {
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id"`
	Quantity  int        `json:"quantity"`
}

// Validate validates AddToCartRequest
func (r AddToCartRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID,
			validation.By(requiredProductID),
		),
		validation.Field(&r.Quantity,
			validation.Required.Error("quantity must be >= 1"),
			validation.Min(1).Error("quantity must be >= 1"),
			validation.Max(MaxItemsPerProduct).Error("quantity exceeds the per-product limit"),
		),
	)
}

// requiredProductID rejects the zero UUID, which ozzo's Required lets
// through for array-backed types
func requiredProductID(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return errors.New("product_id is required")
	}
	return nil
}

// UpdateCartLineRequest represents request to update cart line quantity
type UpdateCartLineRequest struct {
	Quantity int `json:"quantity"`
}

// Validate validates UpdateCartLineRequest
func (r UpdateCartLineRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Quantity,
			validation.Required.Error("quantity must be >= 1"),
			validation.Min(1).Error("quantity must be >= 1"),
			validation.Max(MaxItemsPerProduct).Error("quantity exceeds the per-product limit"),
		),
	)
}

// CheckoutRequest represents request to finalize a cart into an order
type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// Validate validates CheckoutRequest
func (r CheckoutRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PaymentMethod,
			validation.Required.Error("payment_method is required"),
			validation.In("cod", "card", "bank_transfer").Error("unsupported payment method"),
		),
	)
}

// CartLineResponse represents a cart line with product details
type CartLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	VariantID   *uuid.UUID      `json:"variant_id,omitempty"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`

	// Free item fields, present only on promotional lines
	IsFree             bool             `json:"is_free"`
	FreeLabel          *string          `json:"free_label,omitempty"`
	CouponCode         *string          `json:"coupon_code,omitempty"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage,omitempty"`
}

// CartResponse represents the full cart response with lines and totals
type CartResponse struct {
	ID             uuid.UUID          `json:"id"`
	UserID         *uuid.UUID         `json:"user_id,omitempty"`
	Lines          []CartLineResponse `json:"lines"`
	ItemsCount     int                `json:"items_count"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	Discount       decimal.Decimal    `json:"discount"`
	Total          decimal.Decimal    `json:"total"`
	AppliedCoupons []string           `json:"applied_coupons"`
	Notices        []NoticeResponse   `json:"notices,omitempty"`
	ExpiresAt      time.Time          `json:"expires_at"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// NoticeResponse carries a user-facing message raised by a cart pass
type NoticeResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// CheckoutResponse represents the order summary returned on checkout
type CheckoutResponse struct {
	OrderID        uuid.UUID       `json:"order_id"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	Total          decimal.Decimal `json:"total"`
	AppliedCoupons []string        `json:"applied_coupons"`
	PaymentMethod  string          `json:"payment_method"`
	CreatedAt      time.Time       `json:"created_at"`
}
