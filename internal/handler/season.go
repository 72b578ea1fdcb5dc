package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/union-raid-tracker/internal/model"
	"github.com/iliyamo/union-raid-tracker/internal/queue"
)

// SeasonStore is the mutating slice of the season repository.
type SeasonStore interface {
	Create(ctx context.Context, s *model.Season, copyFromSeason int64) error
	Activate(ctx context.Context, id, unionID int64) error
	Deactivate(ctx context.Context, id, unionID int64) error
	Delete(ctx context.Context, id, unionID int64) error
}

// SeasonHandler manages season lifecycle for admins.
type SeasonHandler struct {
	Seasons SeasonStore
	Events  EventPublisher
}

// NewSeasonHandler constructs a SeasonHandler.
func NewSeasonHandler(seasons SeasonStore, events EventPublisher) *SeasonHandler {
	return &SeasonHandler{Seasons: seasons, Events: events}
}

type createSeasonReq struct {
	UnionID        int64  `json:"unionId" validate:"required,gt=0"`
	Name           string `json:"name" validate:"required"`
	Date           string `json:"date" validate:"required"`
	CopyFromSeason int64  `json:"copyFromSeason"`
}

// Create handles POST /seasons. A non-zero copyFromSeason seeds the new
// roster with the member names of that earlier season; the source must
// belong to the same union.
func (h *SeasonHandler) Create(c echo.Context) error {
	var req createSeasonReq
	if !bindAndValidate(c, &req) {
		return nil
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s := &model.Season{UnionID: req.UnionID, Name: req.Name, Date: req.Date}
	if err := h.Seasons.Create(ctx, s, req.CopyFromSeason); err != nil {
		return repoError(c, err)
	}
	publishRow(h.Events, req.UnionID, s.ID, queue.EntitySeason, queue.ActionInsert, s.ID, s)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "season": s})
}

type updateSeasonReq struct {
	UnionID  int64 `json:"unionId" validate:"required,gt=0"`
	SeasonID int64 `json:"seasonId" validate:"required,gt=0"`
	IsActive bool  `json:"isActive"`
}

// Update handles PUT /seasons and only toggles the active flag. Activation
// flips every season of the union in one statement, so the union always has
// exactly one active season afterwards.
func (h *SeasonHandler) Update(c echo.Context) error {
	var req updateSeasonReq
	if !bindAndValidate(c, &req) {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	var err error
	if req.IsActive {
		err = h.Seasons.Activate(ctx, req.SeasonID, req.UnionID)
	} else {
		err = h.Seasons.Deactivate(ctx, req.SeasonID, req.UnionID)
	}
	if err != nil {
		return repoError(c, err)
	}
	// Activation can change the flag on sibling seasons too, so the event
	// carries no row body; subscribers refetch the season list.
	publishRow(h.Events, req.UnionID, req.SeasonID, queue.EntitySeason, queue.ActionUpdate, req.SeasonID, nil)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Delete handles DELETE /seasons?id=&unionId=. Seasons are the one entity
// removed for real; child rows go through the schema's delete cascade.
func (h *SeasonHandler) Delete(c echo.Context) error {
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

	if err := h.Seasons.Delete(ctx, id, unionID); err != nil {
		return repoError(c, err)
	}
	publishRow(h.Events, unionID, id, queue.EntitySeason, queue.ActionDelete, id, nil)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
