package catalog

import (
	"testing"

	"unimarket-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func productsWithPrices(prices ...float64) []domain.Product {
	out := make([]domain.Product, 0, len(prices))
	for _, p := range prices {
		out = append(out, domain.Product{Price: p, Category: "misc"})
	}
	return out
}

func pricesOf(products []domain.Product) []float64 {
	out := make([]float64, 0, len(products))
	for _, p := range products {
		out = append(out, p.Price)
	}
	return out
}

func TestFilter_BracketEndpoints(t *testing.T) {
	all := productsWithPrices(0, 49.99, 50, 100, 100.01, 200, 200.01, 500, 500.01, 1200)

	cases := []struct {
		bracket PriceBracket
		want    []float64
	}{
		{BracketUnder50, []float64{0, 49.99}},
		{Bracket50To100, []float64{50, 100}},
		{Bracket100To200, []float64{100, 100.01, 200}},
		{Bracket200To500, []float64{200, 200.01, 500}},
		{BracketOver500, []float64{500.01, 1200}},
	}
	for _, tc := range cases {
		t.Run(string(tc.bracket), func(t *testing.T) {
			got := Filter(all, "", tc.bracket)
			assert.Equal(t, tc.want, pricesOf(got))
		})
	}
}

func TestFilter_Under50ExcludesExactly50(t *testing.T) {
	got := Filter(productsWithPrices(50), "", BracketUnder50)
	assert.Empty(t, got)
}

func TestFilter_EmptyIsIdentity(t *testing.T) {
	all := productsWithPrices(10, 75, 600)
	got := Filter(all, "", "")
	assert.Equal(t, all, got)
}

func TestFilter_UnknownBracketIsIdentity(t *testing.T) {
	all := productsWithPrices(10, 75, 600)
	got := Filter(all, "", PriceBracket("free-stuff"))
	assert.Equal(t, all, got)
}

func TestFilter_Category(t *testing.T) {
	all := []domain.Product{
		{Category: "books", Price: 20},
		{Category: "electronics", Price: 20},
	}
	got := Filter(all, "books", "")
	assert.Len(t, got, 1)
	assert.Equal(t, "books", got[0].Category)
}

func TestFilter_CategoryAndBracket(t *testing.T) {
	all := []domain.Product{
		{Category: "books", Price: 20},
		{Category: "books", Price: 80},
		{Category: "electronics", Price: 20},
	}
	got := Filter(all, "books", BracketUnder50)
	assert.Len(t, got, 1)
	assert.Equal(t, 20.0, got[0].Price)
}
