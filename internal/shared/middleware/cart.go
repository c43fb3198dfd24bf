package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartServiceInterface defines the minimal interface for cart resolution.
// Kept here to avoid a circular dependency on the cart domain.
type CartServiceInterface interface {
	GetOrCreateCartForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	GetOrCreateCartBySession(ctx context.Context, sessionID string) (uuid.UUID, error)
}

const (
	SessionCookieName = "session_id"
	SessionMaxAge     = 60 * 60 * 24 * 30 // 30 days in seconds

	ContextKeyCartID          = "cart_id"
	ContextKeyIsAnonymousCart = "is_anonymous_cart"
	ContextKeySessionID       = "session_id"
)

// CartMiddlewareConfig holds configuration for cart middleware
type CartMiddlewareConfig struct {
	CartService    CartServiceInterface
	CookieDomain   string // "" for current domain
	CookiePath     string
	CookieSecure   bool // true for HTTPS only
	CookieSameSite http.SameSite
}

// DefaultCartMiddlewareConfig returns secure default configuration
func DefaultCartMiddlewareConfig(cartService CartServiceInterface) CartMiddlewareConfig {
	return CartMiddlewareConfig{
		CartService:    cartService,
		CookieDomain:   "",
		CookiePath:     "/",
		CookieSecure:   true, // set false for localhost dev
		CookieSameSite: http.SameSiteLaxMode,
	}
}

// CartMiddleware resolves the cart for the current actor.
//
// Flow:
// 1. Authenticated (user_id set by OptionalAuthMiddleware) -> user's cart
// 2. Anonymous -> session_id cookie; generated and set when absent
// 3. Sets cart_id, is_anonymous_cart, session_id in the gin context
func CartMiddleware(config CartMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Step 1: Authenticated user -> user cart
		if userID, isAuth := GetAuthenticatedUserID(c); isAuth && userID != nil {
			cartID, err := config.CartService.GetOrCreateCartForUser(c.Request.Context(), *userID)
			if err == nil && cartID != uuid.Nil {
				c.Set(ContextKeyCartID, cartID)
				c.Set(ContextKeyIsAnonymousCart, false)
				c.Next()
				return
			}
		}

		// Step 2: Anonymous -> session cookie
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || sessionID == "" {
			sessionID = uuid.New().String()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sessionID,
				Path:     config.CookiePath,
				Domain:   config.CookieDomain,
				MaxAge:   SessionMaxAge,
				Secure:   config.CookieSecure,
				HttpOnly: true,
				SameSite: config.CookieSameSite,
			})
		}

		cartID, err := config.CartService.GetOrCreateCartBySession(c.Request.Context(), sessionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve cart"})
			c.Abort()
			return
		}

		c.Set(ContextKeyCartID, cartID)
		c.Set(ContextKeyIsAnonymousCart, true)
		c.Set(ContextKeySessionID, sessionID)

		c.Next()
	}
}

// GetCartID returns the cart id resolved by CartMiddleware
func GetCartID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ContextKeyCartID)
	if !exists {
		return uuid.Nil, false
	}
	cartID, ok := value.(uuid.UUID)
	return cartID, ok
}
