package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/union-raid-tracker/internal/model"
	"github.com/iliyamo/union-raid-tracker/internal/queue"
)

// MemberStore is the roster slice of the member repository.
type MemberStore interface {
	Create(ctx context.Context, m *model.Member, unionID int64) error
	ListBySeason(ctx context.Context, seasonID int64) ([]model.Member, error)
	SoftDelete(ctx context.Context, id, unionID int64) error
}

// MemberHandler manages season rosters.
type MemberHandler struct {
	Members MemberStore
	Events  EventPublisher
}

// NewMemberHandler constructs a MemberHandler.
func NewMemberHandler(members MemberStore, events EventPublisher) *MemberHandler {
	return &MemberHandler{Members: members, Events: events}
}

type addMemberReq struct {
	UnionID  int64  `json:"unionId" validate:"required,gt=0"`
	SeasonID int64  `json:"seasonId" validate:"required,gt=0"`
	Name     string `json:"name" validate:"required"`
}

// Add handles POST /members. Names are unique within the live roster of a
// season; the insert and the uniqueness check are one statement, so a
// duplicate comes back as a conflict rather than a second row. The response
// carries the refreshed roster because the add form shows the full list.
func (h *MemberHandler) Add(c echo.Context) error {
	var req addMemberReq
	if !bindAndValidate(c, &req) {
		return nil
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m := &model.Member{SeasonID: req.SeasonID, Name: req.Name}
	if err := h.Members.Create(ctx, m, req.UnionID); err != nil {
		return repoError(c, err)
	}
	publishRow(h.Events, req.UnionID, req.SeasonID, queue.EntityMember, queue.ActionInsert, m.ID, m)

	members, err := h.Members.ListBySeason(ctx, req.SeasonID)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "member": m, "members": members})
}

// Remove handles DELETE /members?id=&unionId=. Members are soft-deleted so
// battle records that reference them by name keep rendering; their schedule
// rows retire in the same transaction.
func (h *MemberHandler) Remove(c echo.Context) error {
	id, ok := queryID(c, "id")
	if !ok {
		return nil
	}
	unionID, ok := queryID(c, "unionId")
	if !ok {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Members.SoftDelete(ctx, id, unionID); err != nil {
		return repoError(c, err)
	}
	publishRow(h.Events, unionID, 0, queue.EntityMember, queue.ActionDelete, id, nil)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
