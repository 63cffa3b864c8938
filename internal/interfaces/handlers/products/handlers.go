package products

import (
	catsvc "unimarket-backend/internal/application/catalog"
	sellsvc "unimarket-backend/internal/application/selling"
	"unimarket-backend/internal/middleware"
	"unimarket-backend/internal/pkg/response"
	"unimarket-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers holds the catalog store and the authoring flow.
type Handlers struct {
	Catalog *catsvc.Service
	Flow    *sellsvc.Flow
}

type actor struct {
	UserID   string
	Fullname string
	Email    string
	Seller   bool
}

func getActor(c *fiber.Ctx) *actor {
	m, ok := middleware.GetUser(c).(map[string]interface{})
	if !ok {
		return nil
	}
	uid, _ := m["user_id"].(string)
	if uid == "" {
		return nil
	}
	name, _ := m["fullname"].(string)
	email, _ := m["email"].(string)
	seller, _ := m["seller"].(bool)
	return &actor{UserID: uid, Fullname: name, Email: email, Seller: seller}
}

// List GET /products — full catalog, optionally narrowed by ?category= and
// ?bracket=. Unknown filters are the identity.
func (h *Handlers) List(c *fiber.Ctx) error {
	products := h.Catalog.ListAll(c.Context())
	category := c.Query("category")
	bracket := catsvc.PriceBracket(c.Query("bracket"))
	if category != "" || bracket != "" {
		products = catsvc.Filter(products, category, bracket)
	}
	return response.JSON(c, fiber.Map{"products": products})
}

// GetByID GET /products/:product_id
func (h *Handlers) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("product_id"))
	if err != nil {
		return response.Error(c, "Invalid product id", fiber.StatusBadRequest)
	}
	p, err := h.Catalog.GetByID(c.Context(), id)
	if err != nil {
		if err == catsvc.ErrNotFound {
			return response.Error(c, err.Error(), fiber.StatusNotFound)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.JSON(c, fiber.Map{"product": p})
}

// Mine GET /products/mine — the session user's own listings.
func (h *Handlers) Mine(c *fiber.Ctx) error {
	a := getActor(c)
	if a == nil {
		return response.Unauthorized(c, "Authentication required")
	}
	ownerID, err := uuid.Parse(a.UserID)
	if err != nil {
		return response.Unauthorized(c, "Authentication required")
	}
	products, err := h.Catalog.ListByOwner(c.Context(), ownerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.JSON(c, fiber.Map{"products": products})
}

// Events GET /products/:product_id/events — the listing's audit trail, owner only.
func (h *Handlers) Events(c *fiber.Ctx) error {
	a := getActor(c)
	if a == nil {
		return response.Unauthorized(c, "Authentication required")
	}
	id, err := uuid.Parse(c.Params("product_id"))
	if err != nil {
		return response.Error(c, "Invalid product id", fiber.StatusBadRequest)
	}
	ownerID, err := uuid.Parse(a.UserID)
	if err != nil {
		return response.Unauthorized(c, "Authentication required")
	}
	p, err := h.Catalog.GetByID(c.Context(), id)
	if err != nil {
		if err == catsvc.ErrNotFound {
			return response.Error(c, err.Error(), fiber.StatusNotFound)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	if p.OwnerID != ownerID {
		return response.Error(c, catsvc.ErrNotOwner.Error(), fiber.StatusForbidden)
	}
	events, err := h.Catalog.Events(c.Context(), id)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.JSON(c, fiber.Map{"events": events})
}

type createRequest struct {
	Title         string      `json:"title"`
	Price         interface{} `json:"price"`
	Description   string      `json:"description"`
	ImageURL      string      `json:"imageUrl"`
	Location      string      `json:"location"`
	Category      string      `json:"category"`
	Condition     string      `json:"condition"`
	ConditionNote string      `json:"condition_note"`
}

// Create POST /products — write a listing referencing an already-uploaded
// image URL. Seller-gated by the router.
func (h *Handlers) Create(c *fiber.Ctx) error {
	a := getActor(c)
	if a == nil {
		return response.Unauthorized(c, "Authentication required")
	}
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest)
	}
	price, ok := validation.ParsePrice(req.Price)
	if !ok {
		return response.Error(c, "Price must be a non-negative number", fiber.StatusBadRequest)
	}
	ownerID, err := uuid.Parse(a.UserID)
	if err != nil {
		return response.Unauthorized(c, "Authentication required")
	}

	p, err := h.Catalog.Create(c.Context(), catsvc.CreateInput{
		Title:         req.Title,
		Price:         price,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		Location:      req.Location,
		Category:      req.Category,
		Condition:     req.Condition,
		ConditionNote: req.ConditionNote,
		OwnerID:       ownerID,
		OwnerName:     a.Fullname,
		OwnerEmail:    a.Email,
	})
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest)
	}

	return response.Created(c, fiber.Map{
		"message":   "Product created successfully",
		"productId": p.ProductID.String(),
	})
}

// Publish POST /products/publish — multipart one-shot: image upload then
// document write, via the authoring flow.
func (h *Handlers) Publish(c *fiber.Ctx) error {
	a := getActor(c)
	if a == nil {
		return response.Unauthorized(c, "Authentication required")
	}

	price, ok := validation.ParsePrice(c.FormValue("price"))
	if !ok {
		return response.Error(c, "Price must be a non-negative number", fiber.StatusBadRequest)
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.Error(c, "Missing required fields: image", fiber.StatusBadRequest)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, "upload failed", fiber.StatusBadRequest)
	}
	defer file.Close()

	p, err := h.Flow.Publish(c.Context(), sellsvc.Seller{
		ID:       a.UserID,
		Name:     a.Fullname,
		Email:    a.Email,
		Eligible: a.Seller,
	}, sellsvc.ListingForm{
		Title:         c.FormValue("title"),
		Price:         price,
		Description:   c.FormValue("description"),
		Location:      c.FormValue("location"),
		Category:      c.FormValue("category"),
		Condition:     c.FormValue("condition"),
		ConditionNote: c.FormValue("condition_note"),
	}, fileHeader.Filename, file)
	if err != nil {
		switch err {
		case sellsvc.ErrNotSeller:
			return response.Error(c, err.Error(), fiber.StatusForbidden)
		case sellsvc.ErrUploadFailed:
			return response.Error(c, err.Error(), fiber.StatusBadGateway)
		case sellsvc.ErrBusy:
			return response.Error(c, err.Error(), fiber.StatusConflict)
		default:
			return response.Error(c, err.Error(), fiber.StatusBadRequest)
		}
	}

	return response.Created(c, fiber.Map{
		"message":   "Product created successfully",
		"productId": p.ProductID.String(),
	})
}

type updateRequest struct {
	Title       string      `json:"title"`
	Price       interface{} `json:"price"`
	Description string      `json:"description"`
	ImageURL    string      `json:"imageUrl"`
}

// Update PUT /products/:product_id — owner-only full-field overwrite.
func (h *Handlers) Update(c *fiber.Ctx) error {
	a := getActor(c)
	if a == nil {
		return response.Unauthorized(c, "Authentication required")
	}
	id, err := uuid.Parse(c.Params("product_id"))
	if err != nil {
		return response.Error(c, "Invalid product id", fiber.StatusBadRequest)
	}
	ownerID, err := uuid.Parse(a.UserID)
	if err != nil {
		return response.Unauthorized(c, "Authentication required")
	}
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest)
	}
	price, ok := validation.ParsePrice(req.Price)
	if !ok {
		return response.Error(c, "Price must be a non-negative number", fiber.StatusBadRequest)
	}

	p, err := h.Catalog.Update(c.Context(), id, ownerID, catsvc.UpdateInput{
		Title:       req.Title,
		Price:       price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		switch err {
		case catsvc.ErrNotFound:
			return response.Error(c, err.Error(), fiber.StatusNotFound)
		case catsvc.ErrNotOwner:
			return response.Error(c, err.Error(), fiber.StatusForbidden)
		default:
			return response.Error(c, err.Error(), fiber.StatusBadRequest)
		}
	}
	return response.JSON(c, fiber.Map{"message": "Product updated", "product": p})
}

// Delete DELETE /products/:product_id — owner-only.
func (h *Handlers) Delete(c *fiber.Ctx) error {
	a := getActor(c)
	if a == nil {
		return response.Unauthorized(c, "Authentication required")
	}
	id, err := uuid.Parse(c.Params("product_id"))
	if err != nil {
		return response.Error(c, "Invalid product id", fiber.StatusBadRequest)
	}
	ownerID, err := uuid.Parse(a.UserID)
	if err != nil {
		return response.Unauthorized(c, "Authentication required")
	}
	if err := h.Catalog.Remove(c.Context(), id, ownerID); err != nil {
		switch err {
		case catsvc.ErrNotFound:
			return response.Error(c, err.Error(), fiber.StatusNotFound)
		case catsvc.ErrNotOwner:
			return response.Error(c, err.Error(), fiber.StatusForbidden)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
		}
	}
	return response.JSON(c, fiber.Map{"message": "Product deleted"})
}
