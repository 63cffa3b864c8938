package auth

import (
	"context"
	"errors"
	"strings"

	"unimarket-backend/internal/domain"
	"unimarket-backend/internal/pkg/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service handles sign-up and sign-in against the profile store.
type Service struct {
	DB *gorm.DB
	// AllowedEmailDomain is the institutional suffix (e.g. "@psu.edu").
	// Accounts outside it are rejected before any document write.
	AllowedEmailDomain string
}

// SignupInput for registration.
type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates the identity profile document (name, email, seller=false).
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("Name is required")
	}
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !validation.IsValidEmail(email) {
		return nil, errors.New("Invalid email format")
	}
	if !validation.IsInstitutionalEmail(email, s.AllowedEmailDomain) {
		return nil, ErrNotInstitutional
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, errors.New("Password must be at least 8 characters")
	}

	var existing domain.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Fullname:     strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Seller:       false,
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// LoginInput for login request body.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login finds the user by email and verifies the password. Non-institutional
// emails are refused even with correct credentials.
func (s *Service) Login(ctx context.Context, in LoginInput) (*domain.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, ErrEmailPasswordRequired
	}
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if !validation.IsInstitutionalEmail(email, s.AllowedEmailDomain) {
		return nil, ErrNotInstitutional
	}
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidEmail
		}
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, ErrInvalidEmail
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return &u, nil
}

// SessionUserShape is the object stored in session and returned by /auth/me.
type SessionUserShape struct {
	UserID   string `json:"user_id"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Seller   bool   `json:"seller"`
}

// VerifyUser validates the session user blob and returns the /me shape.
func VerifyUser(sessionUser interface{}) (*SessionUserShape, error) {
	if sessionUser == nil {
		return nil, ErrNotAuthenticated
	}
	m, ok := sessionUser.(map[string]interface{})
	if !ok {
		return nil, ErrNotAuthenticated
	}
	userID, _ := m["user_id"].(string)
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	seller, _ := m["seller"].(bool)
	return &SessionUserShape{
		UserID:   userID,
		Fullname: str(m["fullname"]),
		Email:    str(m["email"]),
		Seller:   seller,
	}, nil
}

func str(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
