package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/union-raid-tracker/internal/model"
	"github.com/iliyamo/union-raid-tracker/internal/queue"
	"github.com/iliyamo/union-raid-tracker/internal/utils"
)

// ScheduleStore is the schedule slice of the repository layer.
type ScheduleStore interface {
	ListBySeason(ctx context.Context, seasonID int64) ([]model.MemberSchedule, error)
	Upsert(ctx context.Context, s *model.MemberSchedule, unionID int64) error
	SoftDelete(ctx context.Context, id, unionID int64) error
}

// ScheduleHandler manages member availability schedules.
type ScheduleHandler struct {
	Schedules ScheduleStore
	Seasons   SeasonOwnerChecker
	Events    EventPublisher
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(schedules ScheduleStore, seasons SeasonOwnerChecker, events EventPublisher) *ScheduleHandler {
	return &ScheduleHandler{Schedules: schedules, Seasons: seasons, Events: events}
}

// List handles GET /member-schedules?unionId=&seasonId=.
func (h *ScheduleHandler) List(c echo.Context) error {
	unionID, ok := queryID(c, "unionId")
	if !ok {
		return nil
	}
	seasonID, ok := queryID(c, "seasonId")
	if !ok {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Seasons.CheckOwner(ctx, seasonID, unionID); err != nil {
		return repoError(c, err)
	}
	schedules, err := h.Schedules.ListBySeason(ctx, seasonID)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"memberSchedules": schedules})
}

type saveScheduleReq struct {
	UnionID   int64  `json:"unionId" validate:"required,gt=0"`
	SeasonID  int64  `json:"seasonId" validate:"required,gt=0"`
	MemberID  int64  `json:"memberId" validate:"required,gt=0"`
	TimeSlots string `json:"timeSlots"`
}

// Save handles POST and PUT /member-schedules. One schedule row exists per
// (member, season); saving again overwrites it, and re-saving after a delete
// revives the row. An empty timeSlots string is a valid cleared schedule.
func (h *ScheduleHandler) Save(c echo.Context) error {
	var req saveScheduleReq
	if !bindAndValidate(c, &req) {
		return nil
	}
	if _, err := utils.ParseTimeSlots(req.TimeSlots); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s := &model.MemberSchedule{MemberID: req.MemberID, SeasonID: req.SeasonID, TimeSlots: req.TimeSlots}
	if err := h.Schedules.Upsert(ctx, s, req.UnionID); err != nil {
		return repoError(c, err)
	}
	publishRow(h.Events, req.UnionID, req.SeasonID, queue.EntitySchedule, queue.ActionUpdate, s.ID, s)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "schedule": s})
}

// Remove handles DELETE /member-schedules?id=&unionId=.
func (h *ScheduleHandler) Remove(c echo.Context) error {
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

	if err := h.Schedules.SoftDelete(ctx, id, unionID); err != nil {
		return repoError(c, err)
	}
	publishRow(h.Events, unionID, 0, queue.EntitySchedule, queue.ActionDelete, id, nil)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
