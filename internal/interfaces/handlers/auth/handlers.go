package auth

import (
	"context"

	authsvc "unimarket-backend/internal/application/auth"
	"unimarket-backend/internal/middleware"
	"unimarket-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Service *authsvc.Service
	Rdb     *redis.Client
	Config  middleware.SessionConfig
}

// Signup POST /auth/signup — create the profile document and start a session.
// Non-institutional emails are rejected before any write.
func (h *Handlers) Signup(c *fiber.Ctx) error {
	var req authsvc.SignupInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}

	user, err := h.Service.Signup(c.Context(), req)
	if err != nil {
		switch err {
		case authsvc.ErrNotInstitutional:
			return response.Error(c, err.Error(), fiber.StatusForbidden)
		case authsvc.ErrEmailTaken:
			return response.Error(c, err.Error(), fiber.StatusConflict)
		default:
			return response.Error(c, err.Error(), fiber.StatusBadRequest)
		}
	}

	h.startSession(c, middleware.SessionUser{
		UserID:   user.UserID.String(),
		Fullname: user.Fullname,
		Email:    user.Email,
		Seller:   user.Seller,
	})

	return response.Created(c, fiber.Map{
		"message": "Account created successfully",
		"user": fiber.Map{
			"user_id":  user.UserID.String(),
			"fullname": user.Fullname,
			"email":    user.Email,
			"seller":   user.Seller,
		},
	})
}

// Login POST /auth/login — authenticate, create session, set cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req authsvc.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest)
	}
	if req.Email == "" || req.Password == "" {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest)
	}

	user, err := h.Service.Login(c.Context(), req)
	if err != nil {
		switch err {
		case authsvc.ErrEmailPasswordRequired:
			return response.Error(c, err.Error(), fiber.StatusBadRequest)
		case authsvc.ErrNotInstitutional:
			// Forced sign-out: whatever session existed is gone.
			middleware.DestroySession(c)
			return response.Error(c, err.Error(), fiber.StatusForbidden)
		case authsvc.ErrInvalidEmail, authsvc.ErrIncorrectPassword:
			return response.Unauthorized(c, err.Error())
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
		}
	}

	h.startSession(c, middleware.SessionUser{
		UserID:   user.UserID.String(),
		Fullname: user.Fullname,
		Email:    user.Email,
		Seller:   user.Seller,
	})

	return response.JSON(c, fiber.Map{
		"user": fiber.Map{
			"user_id":  user.UserID.String(),
			"fullname": user.Fullname,
			"email":    user.Email,
			"seller":   user.Seller,
		},
	})
}

func (h *Handlers) startSession(c *fiber.Ctx, user middleware.SessionUser) {
	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, user)

	if h.Rdb != nil {
		if err := h.Rdb.SAdd(context.Background(), userSessionsPrefix+user.UserID, sessionID).Err(); err != nil {
			log.Warn().Err(err).Msg("failed to track session for user")
		}
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)
}

// Me GET /auth/me — return the current session user.
func (h *Handlers) Me(c *fiber.Ctx) error {
	user, err := authsvc.VerifyUser(middleware.GetUser(c))
	if err != nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	return response.JSON(c, fiber.Map{"user": user})
}

// Logout DELETE /auth/logout — drop the session and clear the cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	sessionUser := middleware.GetUser(c)

	ctx := context.Background()
	if h.Rdb != nil && sessionID != "" {
		if m, ok := sessionUser.(map[string]interface{}); ok {
			if uid, _ := m["user_id"].(string); uid != "" {
				h.Rdb.SRem(ctx, userSessionsPrefix+uid, sessionID)
			}
		}
		h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID)
	}

	middleware.DestroySession(c)
	c.Locals("session_id", "")

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.JSON(c, fiber.Map{"message": "Logged out"})
}
