package sellers

import (
	sellersvc "unimarket-backend/internal/application/sellers"
	"unimarket-backend/internal/middleware"
	"unimarket-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Handlers holds the onboarding flow dependencies.
type Handlers struct {
	Service *sellersvc.Service
}

func sessionUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	m, ok := middleware.GetUser(c).(map[string]interface{})
	if !ok {
		return uuid.Nil, false
	}
	uid, _ := m["user_id"].(string)
	id, err := uuid.Parse(uid)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// CreateConnectedAccount POST /connected-account — create (or reuse) the
// identity's Stripe connected account and return {"accountId": ...}.
func (h *Handlers) CreateConnectedAccount(c *fiber.Ctx) error {
	userID, ok := sessionUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	accountID, err := h.Service.EnsureAccount(c.Context(), userID)
	if err != nil {
		if err == sellersvc.ErrUserNotFound {
			return response.Error(c, err.Error(), fiber.StatusBadRequest)
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("connected account creation failed")
		return response.Error(c, err.Error(), fiber.StatusInternalServerError)
	}
	return response.JSON(c, fiber.Map{"accountId": accountID})
}

// CreateOnboardingLink POST /onboarding-link — return {"url": ...} for the
// hosted onboarding page. Creates the account first if none is stored.
func (h *Handlers) CreateOnboardingLink(c *fiber.Ctx) error {
	userID, ok := sessionUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	accountID, err := h.Service.EnsureAccount(c.Context(), userID)
	if err != nil {
		if err == sellersvc.ErrUserNotFound {
			return response.Error(c, err.Error(), fiber.StatusBadRequest)
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("connected account lookup failed")
		return response.Error(c, err.Error(), fiber.StatusInternalServerError)
	}

	url, err := h.Service.OnboardingLink(accountID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("onboarding link creation failed")
		return response.Error(c, err.Error(), fiber.StatusInternalServerError)
	}
	return response.JSON(c, fiber.Map{"url": url})
}

// SellerStatus GET /seller-status?userId= — status callback after the hosted
// onboarding returns. Flips the seller flag only when Stripe reports the
// transfers capability active; any failure leaves it unchanged.
func (h *Handlers) SellerStatus(c *fiber.Ctx) error {
	uid := c.Query("userId")
	if uid == "" {
		return response.Error(c, "Missing userId", fiber.StatusBadRequest)
	}
	userID, err := uuid.Parse(uid)
	if err != nil {
		return response.Error(c, "Invalid userId", fiber.StatusBadRequest)
	}

	if err := h.Service.ConfirmSellerStatus(c.Context(), userID); err != nil {
		switch err {
		case sellersvc.ErrUserNotFound, sellersvc.ErrNoStripeAccount, sellersvc.ErrNotFullyOnboarded:
			return response.Error(c, err.Error(), fiber.StatusBadRequest)
		default:
			return response.Error(c, err.Error(), fiber.StatusInternalServerError)
		}
	}
	return response.JSON(c, fiber.Map{"message": "Seller status updated successfully!"})
}
