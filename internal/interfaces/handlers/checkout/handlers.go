package checkout

import (
	cartsvc "unimarket-backend/internal/application/cart"
	checkoutsvc "unimarket-backend/internal/application/checkout"
	"unimarket-backend/internal/middleware"
	"unimarket-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Handlers holds the checkout flow dependencies.
type Handlers struct {
	Cart     *cartsvc.Service
	Checkout *checkoutsvc.Service
}

// CreateSession POST /checkout-session — serialize the session user's cart
// into line items and request a hosted payment session. Returns {"id": ...};
// the client redirects to the hosted page. Never retried.
func (h *Handlers) CreateSession(c *fiber.Ctx) error {
	m, ok := middleware.GetUser(c).(map[string]interface{})
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	uid, _ := m["user_id"].(string)
	userID, err := uuid.Parse(uid)
	if err != nil {
		return response.Unauthorized(c, "Authentication required")
	}

	cart, err := h.Cart.Get(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}

	sessionID, err := h.Checkout.CreateSession(cart.Items)
	if err != nil {
		if err == checkoutsvc.ErrEmptyCart {
			return response.Error(c, err.Error(), fiber.StatusBadRequest)
		}
		log.Error().Err(err).Str("user_id", uid).Msg("Stripe Checkout Error")
		return response.ErrorWithDetails(c, "Internal Server Error", fiber.StatusInternalServerError, err.Error())
	}

	return response.JSON(c, fiber.Map{"id": sessionID})
}
