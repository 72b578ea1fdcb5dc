package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/union-raid-tracker/internal/model"
	"github.com/iliyamo/union-raid-tracker/internal/queue"
)

// BossStore is the mutating slice of the boss repository.
type BossStore interface {
	BulkReplace(ctx context.Context, seasonID, unionID int64, bosses []model.Boss) ([]model.Boss, error)
	UpdateHPMechanic(ctx context.Context, id, unionID, hp int64, mechanic string) (*model.Boss, error)
}

// BossHandler manages the per-season boss grid.
type BossHandler struct {
	Bosses BossStore
	Events EventPublisher
}

// NewBossHandler constructs a BossHandler.
func NewBossHandler(bosses BossStore, events EventPublisher) *BossHandler {
	return &BossHandler{Bosses: bosses, Events: events}
}

type bossRowReq struct {
	Name      string `json:"name" validate:"required"`
	Attribute string `json:"attribute" validate:"required"`
	Level     int    `json:"level" validate:"required"`
	HP        int64  `json:"hp" validate:"gte=0"`
	Mechanic  string `json:"mechanic"`
	SortOrder int    `json:"order"`
}

type saveBossesReq struct {
	UnionID  int64        `json:"unionId" validate:"required,gt=0"`
	SeasonID int64        `json:"seasonId" validate:"required,gt=0"`
	Bosses   []bossRowReq `json:"bosses" validate:"required"`
}

// gridSize is the complete boss grid: one row per (attribute, level) pair.
var gridSize = len(model.Attributes) * len(model.BossLevels)

// Save handles POST /bosses: a whole-grid replace of the season's boss
// settings. The submission must contain exactly one row per (attribute,
// level) pair; partial grids are rejected before anything is written. The
// infinite tier has no defeat condition, so its hp is forced to zero
// whatever the client sent.
func (h *BossHandler) Save(c echo.Context) error {
	var req saveBossesReq
	if !bindAndValidate(c, &req) {
		return nil
	}

	if len(req.Bosses) != gridSize {
		return c.JSON(http.StatusBadRequest,
			echo.Map{"error": fmt.Sprintf("expected %d boss rows, got %d", gridSize, len(req.Bosses))})
	}
	seen := make(map[string]bool, gridSize)
	rows := make([]model.Boss, 0, gridSize)
	for _, b := range req.Bosses {
		if strings.TrimSpace(b.Name) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "boss name is required"})
		}
		if !model.ValidAttribute(b.Attribute) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid attribute: " + b.Attribute})
		}
		if !model.ValidLevel(b.Level) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("invalid level: %d", b.Level)})
		}
		key := fmt.Sprintf("%s/%d", b.Attribute, b.Level)
		if seen[key] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate boss slot: " + key})
		}
		seen[key] = true

		hp := b.HP
		if b.Level == model.LevelInfinite {
			hp = 0
		}
		rows = append(rows, model.Boss{
			SeasonID:  req.SeasonID,
			Name:      strings.TrimSpace(b.Name),
			Attribute: b.Attribute,
			Level:     b.Level,
			HP:        hp,
			Mechanic:  b.Mechanic,
			SortOrder: b.SortOrder,
		})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	inserted, err := h.Bosses.BulkReplace(ctx, req.SeasonID, req.UnionID, rows)
	if err != nil {
		return repoError(c, err)
	}
	// Bosses change as a grid, so one event carries the full new set and
	// subscribers swap their boss collection instead of merging per row.
	publishRow(h.Events, req.UnionID, req.SeasonID, queue.EntityBoss, queue.ActionUpdate, 0, inserted)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "bosses": inserted})
}

type patchBossReq struct {
	UnionID  int64  `json:"unionId" validate:"required,gt=0"`
	BossID   int64  `json:"bossId" validate:"required,gt=0"`
	HP       int64  `json:"hp" validate:"gte=0"`
	Mechanic string `json:"mechanic"`
}

// Patch handles PUT /bosses: the in-place edit of a single boss's hp and
// mechanic notes from the dashboard.
func (h *BossHandler) Patch(c echo.Context) error {
	var req patchBossReq
	if !bindAndValidate(c, &req) {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Bosses.UpdateHPMechanic(ctx, req.BossID, req.UnionID, req.HP, req.Mechanic)
	if err != nil {
		return repoError(c, err)
	}
	// A single-row patch publishes just that row; with a non-zero row id
	// subscribers merge it by id rather than swapping the grid.
	publishRow(h.Events, req.UnionID, b.SeasonID, queue.EntityBoss, queue.ActionUpdate, b.ID, b)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "boss": b})
}
