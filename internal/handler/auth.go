package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/union-raid-tracker/internal/model"
	"github.com/iliyamo/union-raid-tracker/internal/repository"
	"github.com/iliyamo/union-raid-tracker/internal/utils"
)

// UnionAuthStore is the slice of the union repository the login handler
// needs.
type UnionAuthStore interface {
	GetActiveByName(ctx context.Context, name string) (*model.Union, error)
}

// AuthHandler implements the shared-secret tenant login. No session token
// is issued: the client persists the returned identity and resends the
// union id with every call, and every data handler re-checks ownership
// against that id.
type AuthHandler struct {
	Unions UnionAuthStore
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(unions UnionAuthStore) *AuthHandler {
	return &AuthHandler{Unions: unions}
}

// ----- DTOs -----

type loginReq struct {
	UnionName string `json:"unionName" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

type loginResp struct {
	Success   bool   `json:"success"`
	UnionID   int64  `json:"unionId"`
	UnionName string `json:"unionName"`
	IsAdmin   bool   `json:"isAdmin"`
}

// Login handles POST /auth. The supplied password is compared against the
// union's admin secret first, then the member secret; which one matched
// decides the admin flag. Both secrets are stored as bcrypt hashes and
// verified in constant time.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if !bindAndValidate(c, &req) {
		return nil
	}
	req.UnionName = strings.TrimSpace(req.UnionName)
	if req.UnionName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unionName is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Unions.GetActiveByName(ctx, req.UnionName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "union not found"})
		}
		return repoError(c, err)
	}

	isAdmin := false
	switch {
	case utils.VerifySecret(u.AdminPassword, req.Password):
		isAdmin = true
	case utils.VerifySecret(u.UserPassword, req.Password):
		isAdmin = false
	default:
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	return c.JSON(http.StatusOK, loginResp{
		Success:   true,
		UnionID:   u.ID,
		UnionName: u.Name,
		IsAdmin:   isAdmin,
	})
}
