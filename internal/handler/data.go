package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/union-raid-tracker/internal/metrics"
	"github.com/iliyamo/union-raid-tracker/internal/model"
)

// SeasonOwnerChecker resolves whether a season belongs to a union. Handlers
// that read season-scoped rows run this before touching any other store.
type SeasonOwnerChecker interface {
	CheckOwner(ctx context.Context, seasonID, unionID int64) error
}

// DataSeasonStore is the season slice the data endpoint needs: the annotated
// season list plus the ownership check for the other two modes.
type DataSeasonStore interface {
	SeasonOwnerChecker
	ListByUnion(ctx context.Context, unionID int64) ([]model.Season, error)
}

// SyncStore serves snapshots and deltas for one season.
type SyncStore interface {
	Snapshot(ctx context.Context, seasonID int64) (*model.SnapshotPayload, error)
	Delta(ctx context.Context, seasonID int64, lastSync time.Time) (*model.DeltaPayload, error)
}

// DataHandler implements the incremental sync endpoint.
type DataHandler struct {
	Seasons DataSeasonStore
	Sync    SyncStore
}

// NewDataHandler constructs a DataHandler.
func NewDataHandler(seasons DataSeasonStore, sync SyncStore) *DataHandler {
	return &DataHandler{Seasons: seasons, Sync: sync}
}

// Fetch handles GET /data. The endpoint has three modes keyed on the query:
//
//	unionId only                -> season list with member counts
//	unionId + seasonId          -> full snapshot of the season
//	unionId + seasonId + lastSync -> delta since lastSync
//
// Snapshot and delta responses carry a timestamp the client must echo back
// as lastSync on its next call; omitting it falls back to a full snapshot.
func (h *DataHandler) Fetch(c echo.Context) error {
	unionID, ok := queryID(c, "unionId")
	if !ok {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if c.QueryParam("seasonId") == "" {
		seasons, err := h.Seasons.ListByUnion(ctx, unionID)
		if err != nil {
			return repoError(c, err)
		}
		metrics.SyncPayloads.WithLabelValues("seasons").Inc()
		return c.JSON(http.StatusOK, model.SeasonListPayload{Seasons: seasons})
	}

	seasonID, ok := queryID(c, "seasonId")
	if !ok {
		return nil
	}
	if err := h.Seasons.CheckOwner(ctx, seasonID, unionID); err != nil {
		return repoError(c, err)
	}

	if raw := c.QueryParam("lastSync"); raw != "" {
		lastSync, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "lastSync must be RFC 3339"})
		}
		delta, err := h.Sync.Delta(ctx, seasonID, lastSync)
		if err != nil {
			return repoError(c, err)
		}
		metrics.SyncPayloads.WithLabelValues("delta").Inc()
		return c.JSON(http.StatusOK, delta)
	}

	snap, err := h.Sync.Snapshot(ctx, seasonID)
	if err != nil {
		return repoError(c, err)
	}
	metrics.SyncPayloads.WithLabelValues("snapshot").Inc()
	return c.JSON(http.StatusOK, snap)
}
