package cart

import (
	"context"
	"errors"

	"unimarket-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAuthRequired = errors.New("Authentication required")

// Service is the per-identity cart store. One cart document per user, keyed
// by user id; lines are add-time snapshots.
type Service struct {
	DB *gorm.DB
}

// Get returns the user's cart, or an empty one if none exists yet.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	if userID == uuid.Nil {
		return nil, ErrAuthRequired
	}
	var c domain.Cart
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &domain.Cart{UserID: userID, Items: domain.CartItems{}}, nil
		}
		return nil, err
	}
	if c.Items == nil {
		c.Items = domain.CartItems{}
	}
	return &c, nil
}

// AddItem appends a snapshot line with quantity 1. A listing already in the
// cart gets a second line; lines are never merged or incremented.
func (s *Service) AddItem(ctx context.Context, userID uuid.UUID, p *domain.Product) (*domain.Cart, error) {
	if userID == uuid.Nil {
		return nil, ErrAuthRequired
	}
	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Items = append(c.Items, domain.CartItem{
		ProductID: p.ProductID.String(),
		Title:     p.Title,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
		Quantity:  1,
	})
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem filters out every line matching productID. Removing an absent
// id is a no-op, so repeated calls are equivalent to one.
func (s *Service) RemoveItem(ctx context.Context, userID uuid.UUID, productID string) (*domain.Cart, error) {
	if userID == uuid.Nil {
		return nil, ErrAuthRequired
	}
	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	kept := make(domain.CartItems, 0, len(c.Items))
	for _, it := range c.Items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	c.Items = kept
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Total recomputes the cart sum (price x quantity over all lines).
func (s *Service) Total(ctx context.Context, userID uuid.UUID) (float64, error) {
	c, err := s.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return c.Items.Total(), nil
}

// save upserts the whole cart document (last write wins).
func (s *Service) save(ctx context.Context, c *domain.Cart) error {
	var existing domain.Cart
	err := s.DB.WithContext(ctx).Where("user_id = ?", c.UserID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return s.DB.WithContext(ctx).Create(c).Error
	}
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(&domain.Cart{}).Where("user_id = ?", c.UserID).Update("items", c.Items).Error
}
