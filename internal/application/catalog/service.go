package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"unimarket-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("Product not found")
	ErrNotOwner     = errors.New("Only the owner can modify this listing")
	ErrMissingField = errors.New("Missing required fields")
)

// Service is the catalog store over listing documents.
type Service struct {
	DB *gorm.DB
}

// CreateInput carries all listing fields. Owner fields are denormalized from
// the session profile at create time.
type CreateInput struct {
	Title         string
	Price         float64
	Description   string
	ImageURL      string
	Location      string
	Category      string
	Condition     string
	ConditionNote string
	OwnerID       uuid.UUID
	OwnerName     string
	OwnerEmail    string
}

func (in CreateInput) validate() error {
	missing := []string{}
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(in.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(in.ImageURL) == "" {
		missing = append(missing, "image")
	}
	if strings.TrimSpace(in.Location) == "" {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(in.Category) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(in.Condition) == "" {
		missing = append(missing, "condition")
	}
	if len(missing) > 0 {
		return fmt.Errorf("Missing required fields: %s", strings.Join(missing, ", "))
	}
	if in.Price < 0 {
		return errors.New("Price must be a non-negative number")
	}
	if !domain.ValidCondition(in.Condition) {
		return errors.New("Condition must be one of: poor, okay, excellent")
	}
	if in.OwnerID == uuid.Nil {
		return errors.New("Missing owner")
	}
	return nil
}

// Create validates all required fields, then writes the listing document and
// assigns id + timestamp.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := &domain.Product{
		Title:         strings.TrimSpace(in.Title),
		Price:         in.Price,
		Description:   in.Description,
		ImageURL:      in.ImageURL,
		Location:      in.Location,
		Category:      in.Category,
		Condition:     domain.Condition(in.Condition),
		ConditionNote: in.ConditionNote,
		OwnerID:       in.OwnerID,
		OwnerName:     in.OwnerName,
		OwnerEmail:    in.OwnerEmail,
	}
	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Create(p).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("Error creating product: %v", err)
	}
	if err := tx.Create(productEvent(p, "CREATED", in.OwnerID)).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("Error creating product: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("Error creating product: %v", err)
	}
	return p, nil
}

func productEvent(p *domain.Product, eventType string, actorID uuid.UUID) *domain.ProductEvent {
	eventDataBytes, _ := json.Marshal(map[string]interface{}{
		"title": p.Title,
		"price": p.Price,
	})
	return &domain.ProductEvent{
		ProductID: p.ProductID,
		EventType: eventType,
		EventData: datatypes.JSON(eventDataBytes),
		ActorID:   actorID,
	}
}

// ListAll returns every listing. A read error logs and yields the empty set
// so browsing never hard-fails.
func (s *Service) ListAll(ctx context.Context) []domain.Product {
	var products []domain.Product
	if err := s.DB.WithContext(ctx).Order(`"createdAt" DESC`).Find(&products).Error; err != nil {
		log.Error().Err(err).Msg("Failed to fetch products; returning empty catalog")
		return []domain.Product{}
	}
	return products
}

// GetByID returns one listing.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var p domain.Product
	if err := s.DB.WithContext(ctx).Where("product_id = ?", id).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListByOwner returns the owner's listings, newest first.
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Product, error) {
	var products []domain.Product
	if err := s.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Order(`"createdAt" DESC`).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Remove deletes a listing; only its owner may do so.
func (s *Service) Remove(ctx context.Context, id, ownerID uuid.UUID) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.OwnerID != ownerID {
		return ErrNotOwner
	}
	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Delete(&domain.Product{}, "product_id = ?", id).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Create(productEvent(p, "DELETED", ownerID)).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// UpdateInput carries the editable listing fields (full-field overwrite; a
// missing image keeps the stored URL).
type UpdateInput struct {
	Title       string
	Price       float64
	Description string
	ImageURL    string
}

// Update overwrites a listing's editable fields; only its owner may do so.
func (s *Service) Update(ctx context.Context, id, ownerID uuid.UUID, in UpdateInput) (*domain.Product, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, ErrMissingField
	}
	if in.Price < 0 {
		return nil, errors.New("Price must be a non-negative number")
	}
	p.Title = strings.TrimSpace(in.Title)
	p.Price = in.Price
	p.Description = in.Description
	if strings.TrimSpace(in.ImageURL) != "" {
		p.ImageURL = in.ImageURL
	}
	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Save(p).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Create(productEvent(p, "UPDATED", ownerID)).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Events returns a listing's audit trail, oldest first.
func (s *Service) Events(ctx context.Context, productID uuid.UUID) ([]domain.ProductEvent, error) {
	var events []domain.ProductEvent
	if err := s.DB.WithContext(ctx).Where("product_id = ?", productID).
		Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
