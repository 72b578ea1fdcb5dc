package handler // handler defines http handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/union-raid-tracker/internal/logger"
	"github.com/iliyamo/union-raid-tracker/internal/queue"
	"github.com/iliyamo/union-raid-tracker/internal/repository"
)

// validate is the shared request validator. DTO structs carry `validate`
// tags for the structural rules; relational rules (boss grid shape, member
// existence) stay in the handlers.
var validate = validator.New()

// dbTimeout bounds every database call made on behalf of a request so a
// stuck store surfaces as a retryable error instead of a hung handler.
const dbTimeout = 5 * time.Second

// reqCtx derives a bounded context from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// bindAndValidate decodes the JSON body into dst and runs the validator.
// A false return means the response has already been written.
func bindAndValidate(c echo.Context, dst any) bool {
	if err := c.Bind(dst); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid field: " + verrs[0].Field()})
			return false
		}
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
		return false
	}
	return true
}

// queryID parses a required numeric query parameter. A false return means
// the response has already been written.
func queryID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.QueryParam(name), 10, 64)
	if err != nil || id <= 0 {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": name + " is required"})
		return 0, false
	}
	return id, true
}

// repoError translates repository sentinel errors into HTTP responses.
// Ownership failures stay opaque: the 403 body never says whether the row
// exists, and store failures surface as a generic 500 while the cause goes
// to the log.
func repoError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already exists"})
	case errors.Is(err, repository.ErrDeckLimit):
		return c.JSON(http.StatusConflict, echo.Map{"error": "deck limit reached"})
	default:
		logger.Get().Sugar().Errorf("store error on %s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}

// EventPublisher pushes row-change events toward the realtime feed. Nil is
// a valid publisher: realtime then degrades to poll-only.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.RowChangeEvent) error
}

// publishRow marshals the row and publishes a change event, best effort.
// The request has already been answered by the time this runs; publish
// failures only cost realtime latency, so they are logged by the publisher
// and otherwise ignored.
func publishRow(events EventPublisher, unionID, seasonID int64, entity, action string, rowID int64, row any) {
	if events == nil {
		return
	}
	ev := queue.RowChangeEvent{
		UnionID:  unionID,
		SeasonID: seasonID,
		Entity:   entity,
		Action:   action,
		RowID:    rowID,
	}
	if row != nil {
		if body, err := json.Marshal(row); err == nil {
			ev.Row = body
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()
	_ = events.Publish(ctx, ev)
}
