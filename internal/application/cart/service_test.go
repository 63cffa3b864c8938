package cart

import (
	"context"
	"testing"

	"unimarket-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartTest(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Cart{}))
	return &Service{DB: db}
}

func product(title string, price float64) *domain.Product {
	return &domain.Product{
		ProductID: uuid.New(),
		Title:     title,
		Price:     price,
		ImageURL:  "https://res.cloudinary.com/demo/image/upload/x.jpg",
	}
}

func TestGet_EmptyCart(t *testing.T) {
	svc := setupCartTest(t)
	c, err := svc.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.Equal(t, 0.0, c.Items.Total())
}

func TestAddItem_RequiresIdentity(t *testing.T) {
	svc := setupCartTest(t)
	_, err := svc.AddItem(context.Background(), uuid.Nil, product("Lamp", 10))
	assert.Equal(t, ErrAuthRequired, err)
}

func TestAddItem_SnapshotsListing(t *testing.T) {
	svc := setupCartTest(t)
	user := uuid.New()
	p := product("Desk Lamp", 19.99)

	c, err := svc.AddItem(context.Background(), user, p)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, p.ProductID.String(), c.Items[0].ProductID)
	assert.Equal(t, "Desk Lamp", c.Items[0].Title)
	assert.Equal(t, 19.99, c.Items[0].Price)
	assert.Equal(t, 1, c.Items[0].Quantity)

	// Persisted: a fresh read sees the same line
	again, err := svc.Get(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, again.Items, 1)
}

func TestAddItem_DuplicatesAreSeparateLines(t *testing.T) {
	svc := setupCartTest(t)
	user := uuid.New()
	p := product("PS5 Console", 500)

	_, err := svc.AddItem(context.Background(), user, p)
	require.NoError(t, err)
	c, err := svc.AddItem(context.Background(), user, p)
	require.NoError(t, err)

	require.Len(t, c.Items, 2)
	assert.Equal(t, c.Items[0].ProductID, c.Items[1].ProductID)
	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, 1, c.Items[1].Quantity)
}

func TestRemoveItem_DropsAllMatchingLines(t *testing.T) {
	svc := setupCartTest(t)
	user := uuid.New()
	p := product("MacBook Pro", 1200)
	other := product("Textbook", 50)

	_, err := svc.AddItem(context.Background(), user, p)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), user, p)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), user, other)
	require.NoError(t, err)

	c, err := svc.RemoveItem(context.Background(), user, p.ProductID.String())
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, other.ProductID.String(), c.Items[0].ProductID)
}

func TestRemoveItem_Idempotent(t *testing.T) {
	svc := setupCartTest(t)
	user := uuid.New()
	p := product("Bike", 150)

	_, err := svc.AddItem(context.Background(), user, p)
	require.NoError(t, err)

	c1, err := svc.RemoveItem(context.Background(), user, p.ProductID.String())
	require.NoError(t, err)
	c2, err := svc.RemoveItem(context.Background(), user, p.ProductID.String())
	require.NoError(t, err)

	assert.Equal(t, c1.Items, c2.Items)
	assert.Empty(t, c2.Items)
}

func TestRemoveItem_AbsentIDIsNoOpOnTotal(t *testing.T) {
	svc := setupCartTest(t)
	user := uuid.New()
	_, err := svc.AddItem(context.Background(), user, product("Chair", 40))
	require.NoError(t, err)

	before, err := svc.Total(context.Background(), user)
	require.NoError(t, err)

	_, err = svc.RemoveItem(context.Background(), user, uuid.New().String())
	require.NoError(t, err)

	after, err := svc.Total(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestTotal_PriceTimesQuantity(t *testing.T) {
	// Cart {price 20 x1, price 15 x2} totals 50.00. Quantity >1 lines can
	// only come from pre-existing documents; the store itself always adds x1.
	svc := setupCartTest(t)
	user := uuid.New()

	c := &domain.Cart{UserID: user, Items: domain.CartItems{
		{ProductID: uuid.New().String(), Title: "A", Price: 20, Quantity: 1},
		{ProductID: uuid.New().String(), Title: "B", Price: 15, Quantity: 2},
	}}
	require.NoError(t, svc.DB.Create(c).Error)

	total, err := svc.Total(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, 50.0, total)
}

func TestTotal_RecomputedAfterEveryMutation(t *testing.T) {
	svc := setupCartTest(t)
	user := uuid.New()
	a := product("A", 20)
	b := product("B", 15)

	_, err := svc.AddItem(context.Background(), user, a)
	require.NoError(t, err)
	total, _ := svc.Total(context.Background(), user)
	assert.Equal(t, 20.0, total)

	_, err = svc.AddItem(context.Background(), user, b)
	require.NoError(t, err)
	total, _ = svc.Total(context.Background(), user)
	assert.Equal(t, 35.0, total)

	_, err = svc.RemoveItem(context.Background(), user, a.ProductID.String())
	require.NoError(t, err)
	total, _ = svc.Total(context.Background(), user)
	assert.Equal(t, 15.0, total)
}
