package cart

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	cartsvc "unimarket-backend/internal/application/cart"
	catsvc "unimarket-backend/internal/application/catalog"
	"unimarket-backend/internal/domain"
	"unimarket-backend/internal/middleware"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartApp(t *testing.T, userID uuid.UUID) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Product{}, &domain.Cart{}))

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"user_id": userID.String()})
		return c.Next()
	})

	h := &Handlers{
		Cart:    &cartsvc.Service{DB: db},
		Catalog: &catsvc.Service{DB: db},
	}
	g := app.Group("/cart")
	g.Get("/", h.Get)
	g.Post("/items", h.AddItem)
	g.Delete("/items/:product_id", h.RemoveItem)
	return app, db
}

func seedListing(t *testing.T, db *gorm.DB, title string, price float64) *domain.Product {
	p := &domain.Product{
		Title:       title,
		Price:       price,
		Description: "desc",
		ImageURL:    "https://res.cloudinary.com/demo/image/upload/item.jpg",
		Location:    "East Halls",
		Category:    "furniture",
		Condition:   domain.ConditionOkay,
		OwnerID:     uuid.New(),
		OwnerName:   "Someone Else",
		OwnerEmail:  "other@psu.edu",
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func addToCart(t *testing.T, app *fiber.App, productID string) *http.Response {
	b, _ := json.Marshal(map[string]string{"product_id": productID})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func cartBody(t *testing.T, resp *http.Response) (items []interface{}, total string) {
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	items, _ = body["items"].([]interface{})
	total, _ = body["total"].(string)
	return items, total
}

func TestGet_EmptyCart(t *testing.T) {
	app, _ := setupCartApp(t, uuid.New())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/cart/", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	items, total := cartBody(t, resp)
	assert.Empty(t, items)
	assert.Equal(t, "0.00", total)
}

func TestAddItem_SnapshotsListing(t *testing.T) {
	app, db := setupCartApp(t, uuid.New())
	p := seedListing(t, db, "Desk Lamp", 19.99)

	resp := addToCart(t, app, p.ProductID.String())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	items, total := cartBody(t, resp)
	require.Len(t, items, 1)
	line, _ := items[0].(map[string]interface{})
	assert.Equal(t, "Desk Lamp", line["title"])
	assert.Equal(t, 19.99, line["price"])
	assert.Equal(t, float64(1), line["quantity"])
	assert.Equal(t, "19.99", total)
}

func TestAddItem_RepeatAddsSecondLine(t *testing.T) {
	app, db := setupCartApp(t, uuid.New())
	p := seedListing(t, db, "Desk Lamp", 20)

	resp := addToCart(t, app, p.ProductID.String())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = addToCart(t, app, p.ProductID.String())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	items, total := cartBody(t, resp)
	assert.Len(t, items, 2)
	assert.Equal(t, "40.00", total)
}

func TestAddItem_UnknownListing(t *testing.T) {
	app, _ := setupCartApp(t, uuid.New())

	resp := addToCart(t, app, uuid.NewString())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRemoveItem_DropsAllMatchingLines(t *testing.T) {
	app, db := setupCartApp(t, uuid.New())
	lamp := seedListing(t, db, "Desk Lamp", 20)
	chair := seedListing(t, db, "Chair", 15)

	addToCart(t, app, lamp.ProductID.String())
	addToCart(t, app, lamp.ProductID.String())
	addToCart(t, app, chair.ProductID.String())

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/cart/items/"+lamp.ProductID.String(), nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	items, total := cartBody(t, resp)
	require.Len(t, items, 1)
	line, _ := items[0].(map[string]interface{})
	assert.Equal(t, "Chair", line["title"])
	assert.Equal(t, "15.00", total)
}

func TestRemoveItem_AbsentProductIsNoop(t *testing.T) {
	app, db := setupCartApp(t, uuid.New())
	lamp := seedListing(t, db, "Desk Lamp", 20)
	addToCart(t, app, lamp.ProductID.String())

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/cart/items/"+uuid.NewString(), nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	items, total := cartBody(t, resp)
	assert.Len(t, items, 1)
	assert.Equal(t, "20.00", total)
}

func TestCart_Unauthenticated(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Cart{}))

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	h := &Handlers{Cart: &cartsvc.Service{DB: db}, Catalog: &catsvc.Service{DB: db}}
	app.Get("/cart/", h.Get)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/cart/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
