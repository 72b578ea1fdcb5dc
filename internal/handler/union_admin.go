package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/union-raid-tracker/internal/model"
	"github.com/iliyamo/union-raid-tracker/internal/utils"
)

// UnionAdminStore is the management slice of the union repository.
type UnionAdminStore interface {
	List(ctx context.Context) ([]model.Union, error)
	Create(ctx context.Context, u *model.Union) error
	Update(ctx context.Context, id int64, name *string, isActive *bool, userPassword, adminPassword *string) error
	Delete(ctx context.Context, id int64) error
}

// UnionAdminHandler serves the super-admin console. The router mounts every
// route behind the bearer-password middleware; nothing here is reachable by
// regular tenants.
type UnionAdminHandler struct {
	Unions     UnionAdminStore
	BcryptCost int
}

// NewUnionAdminHandler constructs a UnionAdminHandler.
func NewUnionAdminHandler(unions UnionAdminStore, bcryptCost int) *UnionAdminHandler {
	return &UnionAdminHandler{Unions: unions, BcryptCost: bcryptCost}
}

// List handles GET /unions.
func (h *UnionAdminHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	unions, err := h.Unions.List(ctx)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"unions": unions})
}

type createUnionReq struct {
	Name          string `json:"name" validate:"required"`
	UserPassword  string `json:"userPassword" validate:"required,min=4"`
	AdminPassword string `json:"adminPassword" validate:"required,min=4"`
}

// Create handles POST /unions. Both shared secrets are hashed before they
// reach the store; the clear text never leaves this handler.
func (h *UnionAdminHandler) Create(c echo.Context) error {
	var req createUnionReq
	if !bindAndValidate(c, &req) {
		return nil
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	userHash, err := utils.HashSecret(req.UserPassword, h.BcryptCost)
	if err != nil {
		return repoError(c, err)
	}
	adminHash, err := utils.HashSecret(req.AdminPassword, h.BcryptCost)
	if err != nil {
		return repoError(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u := &model.Union{Name: req.Name, UserPassword: userHash, AdminPassword: adminHash}
	if err := h.Unions.Create(ctx, u); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "union": u})
}

type updateUnionReq struct {
	ID            int64   `json:"id" validate:"required,gt=0"`
	Name          *string `json:"name"`
	IsActive      *bool   `json:"isActive"`
	UserPassword  *string `json:"userPassword"`
	AdminPassword *string `json:"adminPassword"`
}

// Update handles PUT /unions. Absent fields stay untouched; password fields,
// when present, are re-hashed.
func (h *UnionAdminHandler) Update(c echo.Context) error {
	var req updateUnionReq
	if !bindAndValidate(c, &req) {
		return nil
	}

	var userHash, adminHash *string
	if req.UserPassword != nil {
		hash, err := utils.HashSecret(*req.UserPassword, h.BcryptCost)
		if err != nil {
			return repoError(c, err)
		}
		userHash = &hash
	}
	if req.AdminPassword != nil {
		hash, err := utils.HashSecret(*req.AdminPassword, h.BcryptCost)
		if err != nil {
			return repoError(c, err)
		}
		adminHash = &hash
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Unions.Update(ctx, req.ID, req.Name, req.IsActive, userHash, adminHash); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Delete handles DELETE /unions?id=. The seasons cascade takes every domain
// row the union owned with it.
func (h *UnionAdminHandler) Delete(c echo.Context) error {
	id, ok := queryID(c, "id")
	if !ok {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Unions.Delete(ctx, id); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
