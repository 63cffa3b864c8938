package checkout

import (
	"errors"
	"math"

	"unimarket-backend/internal/domain"

	"github.com/stripe/stripe-go/v76"
	checkoutsession "github.com/stripe/stripe-go/v76/checkout/session"
)

var ErrEmptyCart = errors.New("Cart cannot be empty")

// LineItem is one hosted-checkout line derived from a cart entry.
type LineItem struct {
	Name       string
	ImageURL   string
	UnitAmount int64 // minor currency units
	Quantity   int64
}

// SessionCreator abstracts Stripe hosted Checkout Session creation for
// testability.
type SessionCreator interface {
	Create(lineItems []LineItem, successURL, cancelURL string) (string, error)
}

// StripeSessionCreator uses the Stripe Go SDK.
type StripeSessionCreator struct {
	SecretKey string
}

func (r *StripeSessionCreator) Create(lineItems []LineItem, successURL, cancelURL string) (string, error) {
	if r.SecretKey == "" {
		return "", errors.New("Stripe is not configured")
	}
	stripe.Key = r.SecretKey

	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(lineItems))
	for _, li := range lineItems {
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(string(stripe.CurrencyUSD)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:   stripe.String(li.Name),
					Images: stripe.StringSlice([]string{li.ImageURL}),
				},
				UnitAmount: stripe.Int64(li.UnitAmount),
			},
			Quantity: stripe.Int64(li.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          items,
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(successURL),
		CancelURL:          stripe.String(cancelURL),
	}
	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", err
	}
	return sess.ID, nil
}

// Service turns a cart into a hosted payment session.
type Service struct {
	Creator    SessionCreator
	SuccessURL string
	CancelURL  string
}

// BuildLineItems serializes cart lines for Stripe. Unit amount is the listing
// price rounded to cents. Line quantity is pinned to 1 per entry; the stored
// cart quantity is not forwarded.
func BuildLineItems(items domain.CartItems) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, LineItem{
			Name:       it.Title,
			ImageURL:   it.ImageURL,
			UnitAmount: int64(math.Round(it.Price * 100)),
			Quantity:   1,
		})
	}
	return out
}

// CreateSession requests a hosted Checkout Session for the cart and returns
// the opaque session id. An empty cart is refused before any Stripe call.
func (s *Service) CreateSession(items domain.CartItems) (string, error) {
	if len(items) == 0 {
		return "", ErrEmptyCart
	}
	return s.Creator.Create(BuildLineItems(items), s.SuccessURL, s.CancelURL)
}
