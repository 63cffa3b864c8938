package sellers

import (
	"context"
	"errors"

	"unimarket-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/account"
	"github.com/stripe/stripe-go/v76/accountlink"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("User not found.")
	ErrNoStripeAccount   = errors.New("Stripe account not found.")
	ErrNotFullyOnboarded = errors.New("Stripe account is not fully onboarded yet.")
)

// AccountClient abstracts the Stripe connected-account calls for testability.
type AccountClient interface {
	CreateAccount(email string) (string, error)
	CreateOnboardingLink(accountID, refreshURL, returnURL string) (string, error)
	TransfersActive(accountID string) (bool, error)
}

// StripeAccountClient uses the Stripe Go SDK.
type StripeAccountClient struct {
	SecretKey string
}

func (r *StripeAccountClient) CreateAccount(email string) (string, error) {
	if r.SecretKey == "" {
		return "", errors.New("Stripe is not configured")
	}
	stripe.Key = r.SecretKey
	acct, err := account.New(&stripe.AccountParams{
		Type:    stripe.String(string(stripe.AccountTypeExpress)),
		Country: stripe.String("US"),
		Email:   stripe.String(email),
		Capabilities: &stripe.AccountCapabilitiesParams{
			Transfers: &stripe.AccountCapabilitiesTransfersParams{
				Requested: stripe.Bool(true),
			},
		},
	})
	if err != nil {
		return "", err
	}
	return acct.ID, nil
}

func (r *StripeAccountClient) CreateOnboardingLink(accountID, refreshURL, returnURL string) (string, error) {
	if r.SecretKey == "" {
		return "", errors.New("Stripe is not configured")
	}
	stripe.Key = r.SecretKey
	link, err := accountlink.New(&stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(refreshURL),
		ReturnURL:  stripe.String(returnURL),
		Type:       stripe.String("account_onboarding"),
	})
	if err != nil {
		return "", err
	}
	return link.URL, nil
}

func (r *StripeAccountClient) TransfersActive(accountID string) (bool, error) {
	if r.SecretKey == "" {
		return false, errors.New("Stripe is not configured")
	}
	stripe.Key = r.SecretKey
	acct, err := account.GetByID(accountID, nil)
	if err != nil {
		return false, err
	}
	return acct.Capabilities != nil && acct.Capabilities.Transfers == stripe.AccountCapabilityStatusActive, nil
}

// Service drives the connected-account onboarding flow. Failure at any step
// leaves the seller flag unchanged (fails closed).
type Service struct {
	DB         *gorm.DB
	Client     AccountClient
	RefreshURL string
	ReturnURL  string
}

// EnsureAccount looks up the identity's stored account reference, creating a
// new connected account and persisting the reference if absent.
func (s *Service) EnsureAccount(ctx context.Context, userID uuid.UUID) (string, error) {
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", ErrUserNotFound
		}
		return "", err
	}
	if u.StripeAccountID != nil && *u.StripeAccountID != "" {
		return *u.StripeAccountID, nil
	}

	accountID, err := s.Client.CreateAccount(u.Email)
	if err != nil {
		return "", err
	}
	if err := s.DB.WithContext(ctx).Model(&domain.User{}).Where("user_id = ?", userID).
		Update("stripe_account_id", accountID).Error; err != nil {
		return "", err
	}
	return accountID, nil
}

// OnboardingLink requests a hosted onboarding link for the account.
func (s *Service) OnboardingLink(accountID string) (string, error) {
	if accountID == "" {
		return "", ErrNoStripeAccount
	}
	return s.Client.CreateOnboardingLink(accountID, s.RefreshURL, s.ReturnURL)
}

// ConfirmSellerStatus checks the account's transfers capability and flips the
// profile's seller flag only when Stripe reports it active.
func (s *Service) ConfirmSellerStatus(ctx context.Context, userID uuid.UUID) error {
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrUserNotFound
		}
		return err
	}
	if u.StripeAccountID == nil || *u.StripeAccountID == "" {
		return ErrNoStripeAccount
	}

	active, err := s.Client.TransfersActive(*u.StripeAccountID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Stripe account retrieve failed; seller flag unchanged")
		return err
	}
	if !active {
		return ErrNotFullyOnboarded
	}
	return s.DB.WithContext(ctx).Model(&domain.User{}).Where("user_id = ?", userID).
		Update("seller", true).Error
}
