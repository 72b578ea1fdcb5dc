package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/union-raid-tracker/internal/model"
	"github.com/iliyamo/union-raid-tracker/internal/queue"
)

// MemberChecker re-validates the member reference carried in battle
// submissions. Battles store the member by name, so the server confirms the
// name is on the live roster before accepting the record.
type MemberChecker interface {
	ExistsByName(ctx context.Context, seasonID int64, name string) (bool, error)
}

// MockBattleStore is the mutating slice for practice records.
type MockBattleStore interface {
	Create(ctx context.Context, b *model.MockBattle, unionID int64) error
	SoftDelete(ctx context.Context, id, unionID int64) error
}

// RaidBattleStore is the mutating slice for real attempts.
type RaidBattleStore interface {
	Create(ctx context.Context, b *model.RaidBattle, unionID int64, at time.Time) error
	SoftDelete(ctx context.Context, id, unionID int64) error
}

// MockBattleHandler records practice attempts. Unlimited per member.
type MockBattleHandler struct {
	Battles MockBattleStore
	Members MemberChecker
	Seasons SeasonOwnerChecker
	Events  EventPublisher
}

// NewMockBattleHandler constructs a MockBattleHandler.
func NewMockBattleHandler(battles MockBattleStore, members MemberChecker, seasons SeasonOwnerChecker, events EventPublisher) *MockBattleHandler {
	return &MockBattleHandler{Battles: battles, Members: members, Seasons: seasons, Events: events}
}

type mockBattleReq struct {
	UnionID         int64  `json:"unionId" validate:"required,gt=0"`
	SeasonID        int64  `json:"seasonId" validate:"required,gt=0"`
	MemberName      string `json:"memberName" validate:"required"`
	BossID          int64  `json:"bossId" validate:"required,gt=0"`
	DeckComposition string `json:"deckComposition"`
	Damage          int64  `json:"damage" validate:"required,gt=0"`
}

// Record handles POST /mock-battles.
func (h *MockBattleHandler) Record(c echo.Context) error {
	var req mockBattleReq
	if !bindAndValidate(c, &req) {
		return nil
	}
	req.MemberName = strings.TrimSpace(req.MemberName)

	ctx, cancel := reqCtx(c)
	defer cancel()

	// Ownership resolves before the roster lookup so a foreign season id
	// cannot probe another union's member names.
	if err := h.Seasons.CheckOwner(ctx, req.SeasonID, req.UnionID); err != nil {
		return repoError(c, err)
	}
	if ok, err := memberOnRoster(ctx, c, h.Members, req.SeasonID, req.MemberName); !ok {
		return err
	}

	b := &model.MockBattle{
		SeasonID:        req.SeasonID,
		MemberName:      req.MemberName,
		BossID:          req.BossID,
		DeckComposition: req.DeckComposition,
		Damage:          req.Damage,
	}
	if err := h.Battles.Create(ctx, b, req.UnionID); err != nil {
		return repoError(c, err)
	}
	publishRow(h.Events, req.UnionID, req.SeasonID, queue.EntityMockBattle, queue.ActionInsert, b.ID, b)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "battle": b})
}

// Remove handles DELETE /mock-battles?id=&unionId=.
func (h *MockBattleHandler) Remove(c echo.Context) error {
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

	if err := h.Battles.SoftDelete(ctx, id, unionID); err != nil {
		return repoError(c, err)
	}
	publishRow(h.Events, unionID, 0, queue.EntityMockBattle, queue.ActionDelete, id, nil)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// RaidBattleHandler records real attempts against the per-member deck
// budget. Loc is the event timezone attempt timestamps are recorded in.
type RaidBattleHandler struct {
	Battles RaidBattleStore
	Members MemberChecker
	Seasons SeasonOwnerChecker
	Events  EventPublisher
	Loc     *time.Location
}

// NewRaidBattleHandler constructs a RaidBattleHandler.
func NewRaidBattleHandler(battles RaidBattleStore, members MemberChecker, seasons SeasonOwnerChecker, events EventPublisher, loc *time.Location) *RaidBattleHandler {
	return &RaidBattleHandler{Battles: battles, Members: members, Seasons: seasons, Events: events, Loc: loc}
}

type raidBattleReq struct {
	UnionID         int64  `json:"unionId" validate:"required,gt=0"`
	SeasonID        int64  `json:"seasonId" validate:"required,gt=0"`
	MemberName      string `json:"memberName" validate:"required"`
	Level           int    `json:"level" validate:"required"`
	BossID          int64  `json:"bossId" validate:"required,gt=0"`
	DeckComposition string `json:"deckComposition"`
	Damage          int64  `json:"damage" validate:"required,gt=0"`
}

// Record handles POST /raid-battles. The store enforces the deck budget
// under a per-member lock, so concurrent submissions for one member can
// never overshoot the cap; a spent budget comes back as a conflict.
func (h *RaidBattleHandler) Record(c echo.Context) error {
	var req raidBattleReq
	if !bindAndValidate(c, &req) {
		return nil
	}
	req.MemberName = strings.TrimSpace(req.MemberName)
	if !model.ValidLevel(req.Level) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid level"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Seasons.CheckOwner(ctx, req.SeasonID, req.UnionID); err != nil {
		return repoError(c, err)
	}
	if ok, err := memberOnRoster(ctx, c, h.Members, req.SeasonID, req.MemberName); !ok {
		return err
	}

	b := &model.RaidBattle{
		SeasonID:        req.SeasonID,
		MemberName:      req.MemberName,
		Level:           req.Level,
		BossID:          req.BossID,
		DeckComposition: req.DeckComposition,
		Damage:          req.Damage,
	}
	if err := h.Battles.Create(ctx, b, req.UnionID, time.Now().In(h.Loc)); err != nil {
		return repoError(c, err)
	}
	publishRow(h.Events, req.UnionID, req.SeasonID, queue.EntityRaidBattle, queue.ActionInsert, b.ID, b)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "battle": b})
}

// Remove handles DELETE /raid-battles?id=&unionId=. Soft delete, which also
// refunds the member's deck slot.
func (h *RaidBattleHandler) Remove(c echo.Context) error {
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

	if err := h.Battles.SoftDelete(ctx, id, unionID); err != nil {
		return repoError(c, err)
	}
	publishRow(h.Events, unionID, 0, queue.EntityRaidBattle, queue.ActionDelete, id, nil)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// memberOnRoster checks the battle's member reference against the live
// roster. A false return means the response has already been written; the
// accompanying error is the handler's return value.
func memberOnRoster(ctx context.Context, c echo.Context, members MemberChecker, seasonID int64, name string) (bool, error) {
	exists, err := members.ExistsByName(ctx, seasonID, name)
	if err != nil {
		return false, repoError(c, err)
	}
	if !exists {
		return false, c.JSON(http.StatusNotFound, echo.Map{"error": "member not found"})
	}
	return true, nil
}
