package catalog

import "unimarket-backend/internal/domain"

// PriceBracket names one of the fixed browse brackets.
type PriceBracket string

const (
	BracketUnder50  PriceBracket = "under-50"
	Bracket50To100  PriceBracket = "50-100"
	Bracket100To200 PriceBracket = "100-200"
	Bracket200To500 PriceBracket = "200-500"
	BracketOver500  PriceBracket = "over-500"
)

// matches reports whether price falls in the bracket. under-50 excludes 50;
// the middle brackets include both endpoints.
func (b PriceBracket) matches(price float64) bool {
	switch b {
	case BracketUnder50:
		return price < 50
	case Bracket50To100:
		return price >= 50 && price <= 100
	case Bracket100To200:
		return price >= 100 && price <= 200
	case Bracket200To500:
		return price >= 200 && price <= 500
	case BracketOver500:
		return price > 500
	}
	return true
}

// Filter narrows an already-fetched set by category and/or price bracket.
// Empty or unknown values are the identity (no narrowing).
func Filter(products []domain.Product, category string, bracket PriceBracket) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if !bracket.matches(p.Price) {
			continue
		}
		out = append(out, p)
	}
	return out
}
