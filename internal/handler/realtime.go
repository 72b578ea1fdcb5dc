package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/union-raid-tracker/internal/logger"
	"github.com/iliyamo/union-raid-tracker/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from arbitrary origins in self-hosted
	// deployments; identity is carried by the union id, not the origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RealtimeHandler upgrades GET /realtime?unionId= to a websocket and
// subscribes the connection to its union's row-change feed.
type RealtimeHandler struct {
	Hub *realtime.Hub
}

// NewRealtimeHandler constructs a RealtimeHandler.
func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{Hub: hub}
}

// Subscribe upgrades the connection and runs the read/write pumps until the
// peer disconnects.
func (h *RealtimeHandler) Subscribe(c echo.Context) error {
	unionID, ok := queryID(c, "unionId")
	if !ok {
		return nil
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Sugar().Warnf("realtime: upgrade failed: %v", err)
		return nil // Upgrade already wrote the error response
	}

	client := realtime.NewClient(unionID, conn)
	h.Hub.Register(client)
	go client.WritePump()
	client.ReadPump(func() { h.Hub.Unregister(client) })
	return nil
}
