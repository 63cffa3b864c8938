package sellers

import (
	"context"
	"errors"
	"testing"

	"unimarket-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAccountClient struct {
	createCalls   int
	accountID     string
	linkURL       string
	active        bool
	createErr     error
	linkErr       error
	retrieveErr   error
	lastRefresh   string
	lastReturn    string
	lastAccountID string
}

func (f *fakeAccountClient) CreateAccount(email string) (string, error) {
	f.createCalls++
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.accountID, nil
}

func (f *fakeAccountClient) CreateOnboardingLink(accountID, refreshURL, returnURL string) (string, error) {
	f.lastAccountID = accountID
	f.lastRefresh = refreshURL
	f.lastReturn = returnURL
	if f.linkErr != nil {
		return "", f.linkErr
	}
	return f.linkURL, nil
}

func (f *fakeAccountClient) TransfersActive(accountID string) (bool, error) {
	f.lastAccountID = accountID
	if f.retrieveErr != nil {
		return false, f.retrieveErr
	}
	return f.active, nil
}

func setupSellersTest(t *testing.T, client AccountClient) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	return &Service{
		DB:         db,
		Client:     client,
		RefreshURL: "http://localhost:3000/profile/retry",
		ReturnURL:  "http://localhost:3000/profile",
	}, db
}

func seedUser(t *testing.T, db *gorm.DB, accountID *string) *domain.User {
	u := &domain.User{
		Fullname:        "Test Student",
		Email:           "student@psu.edu",
		PasswordHash:    "x",
		Seller:          false,
		StripeAccountID: accountID,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestEnsureAccount_CreatesAndPersistsReference(t *testing.T) {
	client := &fakeAccountClient{accountID: "acct_123"}
	svc, db := setupSellersTest(t, client)
	u := seedUser(t, db, nil)

	id, err := svc.EnsureAccount(context.Background(), u.UserID)
	require.NoError(t, err)
	assert.Equal(t, "acct_123", id)
	assert.Equal(t, 1, client.createCalls)

	var reloaded domain.User
	require.NoError(t, db.Where("user_id = ?", u.UserID).First(&reloaded).Error)
	require.NotNil(t, reloaded.StripeAccountID)
	assert.Equal(t, "acct_123", *reloaded.StripeAccountID)
}

func TestEnsureAccount_ReusesStoredReference(t *testing.T) {
	client := &fakeAccountClient{accountID: "acct_new"}
	svc, db := setupSellersTest(t, client)
	existing := "acct_old"
	u := seedUser(t, db, &existing)

	id, err := svc.EnsureAccount(context.Background(), u.UserID)
	require.NoError(t, err)
	assert.Equal(t, "acct_old", id)
	assert.Equal(t, 0, client.createCalls)
}

func TestEnsureAccount_UnknownUser(t *testing.T) {
	svc, _ := setupSellersTest(t, &fakeAccountClient{})
	_, err := svc.EnsureAccount(context.Background(), uuid.New())
	assert.Equal(t, ErrUserNotFound, err)
}

func TestOnboardingLink_UsesFixedRedirectTargets(t *testing.T) {
	client := &fakeAccountClient{linkURL: "https://connect.stripe.com/setup/x"}
	svc, _ := setupSellersTest(t, client)

	url, err := svc.OnboardingLink("acct_123")
	require.NoError(t, err)
	assert.Equal(t, "https://connect.stripe.com/setup/x", url)
	assert.Equal(t, "acct_123", client.lastAccountID)
	assert.Equal(t, "http://localhost:3000/profile/retry", client.lastRefresh)
	assert.Equal(t, "http://localhost:3000/profile", client.lastReturn)
}

func TestConfirmSellerStatus_ActiveFlipsFlag(t *testing.T) {
	client := &fakeAccountClient{active: true}
	svc, db := setupSellersTest(t, client)
	acct := "acct_123"
	u := seedUser(t, db, &acct)

	require.NoError(t, svc.ConfirmSellerStatus(context.Background(), u.UserID))

	var reloaded domain.User
	require.NoError(t, db.Where("user_id = ?", u.UserID).First(&reloaded).Error)
	assert.True(t, reloaded.Seller)
}

func TestConfirmSellerStatus_InactiveLeavesFlagFalse(t *testing.T) {
	client := &fakeAccountClient{active: false}
	svc, db := setupSellersTest(t, client)
	acct := "acct_123"
	u := seedUser(t, db, &acct)

	err := svc.ConfirmSellerStatus(context.Background(), u.UserID)
	assert.Equal(t, ErrNotFullyOnboarded, err)

	var reloaded domain.User
	require.NoError(t, db.Where("user_id = ?", u.UserID).First(&reloaded).Error)
	assert.False(t, reloaded.Seller)
}

func TestConfirmSellerStatus_RetrieveErrorFailsClosed(t *testing.T) {
	client := &fakeAccountClient{retrieveErr: errors.New("stripe down")}
	svc, db := setupSellersTest(t, client)
	acct := "acct_123"
	u := seedUser(t, db, &acct)

	err := svc.ConfirmSellerStatus(context.Background(), u.UserID)
	require.Error(t, err)

	var reloaded domain.User
	require.NoError(t, db.Where("user_id = ?", u.UserID).First(&reloaded).Error)
	assert.False(t, reloaded.Seller)
}

func TestLinkRequestedAloneDoesNotFlipFlag(t *testing.T) {
	// Account creation plus an onboarding link, with no confirmation step,
	// must leave the profile a non-seller — even across "reloads" (fresh reads).
	client := &fakeAccountClient{accountID: "acct_123", linkURL: "https://connect.stripe.com/setup/x"}
	svc, db := setupSellersTest(t, client)
	u := seedUser(t, db, nil)

	id, err := svc.EnsureAccount(context.Background(), u.UserID)
	require.NoError(t, err)
	_, err = svc.OnboardingLink(id)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		var reloaded domain.User
		require.NoError(t, db.Where("user_id = ?", u.UserID).First(&reloaded).Error)
		assert.False(t, reloaded.Seller)
	}
}

func TestConfirmSellerStatus_NoStoredAccount(t *testing.T) {
	svc, db := setupSellersTest(t, &fakeAccountClient{active: true})
	u := seedUser(t, db, nil)

	err := svc.ConfirmSellerStatus(context.Background(), u.UserID)
	assert.Equal(t, ErrNoStripeAccount, err)
}
