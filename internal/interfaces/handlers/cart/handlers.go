package cart

import (
	"fmt"

	cartsvc "unimarket-backend/internal/application/cart"
	catsvc "unimarket-backend/internal/application/catalog"
	"unimarket-backend/internal/middleware"
	"unimarket-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers holds the cart store and the catalog (for add-time snapshots).
type Handlers struct {
	Cart    *cartsvc.Service
	Catalog *catsvc.Service
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

// Get GET /cart — the cart document plus its recomputed total, rendered with
// two decimals.
func (h *Handlers) Get(c *fiber.Ctx) error {
	userID, ok := sessionUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	cart, err := h.Cart.Get(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.JSON(c, fiber.Map{
		"items": cart.Items,
		"total": fmt.Sprintf("%.2f", cart.Items.Total()),
	})
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
}

// AddItem POST /cart/items — snapshot the listing into the cart. A repeated
// product id becomes a second line; lines are never merged.
func (h *Handlers) AddItem(c *fiber.Ctx) error {
	userID, ok := sessionUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Missing product_id", fiber.StatusBadRequest)
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return response.Error(c, "Invalid product_id", fiber.StatusBadRequest)
	}

	product, err := h.Catalog.GetByID(c.Context(), productID)
	if err != nil {
		if err == catsvc.ErrNotFound {
			return response.Error(c, err.Error(), fiber.StatusNotFound)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}

	cart, err := h.Cart.AddItem(c.Context(), userID, product)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.JSON(c, fiber.Map{
		"items": cart.Items,
		"total": fmt.Sprintf("%.2f", cart.Items.Total()),
	})
}

// RemoveItem DELETE /cart/items/:product_id — drop every matching line.
func (h *Handlers) RemoveItem(c *fiber.Ctx) error {
	userID, ok := sessionUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	productID := c.Params("product_id")
	if productID == "" {
		return response.Error(c, "Missing product_id", fiber.StatusBadRequest)
	}

	cart, err := h.Cart.RemoveItem(c.Context(), userID, productID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.JSON(c, fiber.Map{
		"items": cart.Items,
		"total": fmt.Sprintf("%.2f", cart.Items.Total()),
	})
}
