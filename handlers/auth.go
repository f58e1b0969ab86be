package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/eshop-labs/eshop-backend-go/config"
	"github.com/eshop-labs/eshop-backend-go/models"
	"github.com/eshop-labs/eshop-backend-go/store"
	"github.com/eshop-labs/eshop-backend-go/utils"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Login upserts the user record and issues a session token. Two paths:
//
//   - Federated login: the frontend sends the identity-provider uid, email
//     and name of an already-verified user.
//   - Admin credential login: email plus password, checked against
//     ADMIN_EMAIL / ADMIN_PASSWORD_HASH.
//
// The admin flag is always re-derived from the trusted-email match; it can
// never be set from the request body.
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email is required"})
	}

	adminEmail := strings.TrimSpace(strings.ToLower(config.GetEnv("ADMIN_EMAIL", "")))
	isAdmin := adminEmail != "" && email == adminEmail

	uid := req.UID
	if req.Password != "" {
		// Credential login is reserved for the configured admin account.
		hash := config.GetEnv("ADMIN_PASSWORD_HASH", "")
		if !isAdmin || hash == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
		if uid == "" {
			uid = "admin"
		}
	}
	if uid == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "UID is required"})
	}

	ctx := c.Request().Context()
	user, err := h.stores.Users.FindByUID(ctx, uid)
	switch {
	case errors.Is(err, store.ErrNotFound):
		user, err = h.stores.Users.Create(ctx, models.User{
			UID:     uid,
			Email:   email,
			Name:    req.Name,
			IsAdmin: isAdmin,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create user"})
		}
	case err != nil:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to look up user"})
	default:
		user, err = h.stores.Users.Update(ctx, user.ID, store.Doc{
			"email":   email,
			"name":    req.Name,
			"isAdmin": isAdmin,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update user"})
		}
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate token"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// Session returns the identity claims of the current token.
func (h *Handler) Session(c echo.Context) error {
	claims, ok := c.Get("claims").(*utils.Claims)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"uid":     claims.UID,
		"email":   claims.Email,
		"name":    claims.Name,
		"isAdmin": claims.IsAdmin,
	})
}
