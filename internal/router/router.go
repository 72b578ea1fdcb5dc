package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/union-raid-tracker/internal/handler"
	"github.com/iliyamo/union-raid-tracker/internal/middleware"
)

// Handlers bundles every API handler so registration stays one call in main.
type Handlers struct {
	Auth        *handler.AuthHandler
	Data        *handler.DataHandler
	Seasons     *handler.SeasonHandler
	Bosses      *handler.BossHandler
	Members     *handler.MemberHandler
	Schedules   *handler.ScheduleHandler
	MockBattles *handler.MockBattleHandler
	RaidBattles *handler.RaidBattleHandler
	Realtime    *handler.RealtimeHandler
}

// RegisterRoutes registers the operational endpoints that carry no tenant
// data: the health check for load balancers and the Prometheus scrape
// target.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAPI registers the tenant-facing endpoints. Every data route does
// its own union-id scoping; there is no session middleware by design. The
// optional cache middleware is applied only to the GET routes whose
// responses are safe to replay (keyed per union and per sync cursor).
func RegisterAPI(e *echo.Echo, h Handlers, cache echo.MiddlewareFunc) {
	get := func(path string, fn echo.HandlerFunc) {
		if cache != nil {
			e.GET(path, fn, cache)
			return
		}
		e.GET(path, fn)
	}

	// Login and the sync endpoint.
	e.POST("/auth", h.Auth.Login)
	get("/data", h.Data.Fetch)

	// Season lifecycle.
	e.POST("/seasons", h.Seasons.Create)
	e.PUT("/seasons", h.Seasons.Update)
	e.DELETE("/seasons", h.Seasons.Delete)

	// Boss grid.
	e.POST("/bosses", h.Bosses.Save)
	e.PUT("/bosses", h.Bosses.Patch)

	// Roster.
	e.POST("/members", h.Members.Add)
	e.DELETE("/members", h.Members.Remove)

	// Availability schedules.
	get("/member-schedules", h.Schedules.List)
	e.POST("/member-schedules", h.Schedules.Save)
	e.PUT("/member-schedules", h.Schedules.Save)
	e.DELETE("/member-schedules", h.Schedules.Remove)

	// Battle records.
	e.POST("/mock-battles", h.MockBattles.Record)
	e.DELETE("/mock-battles", h.MockBattles.Remove)
	e.POST("/raid-battles", h.RaidBattles.Record)
	e.DELETE("/raid-battles", h.RaidBattles.Remove)

	// Realtime change feed (websocket; bypasses the cache on purpose).
	e.GET("/realtime", h.Realtime.Subscribe)
}

// RegisterAdmin registers the super-admin console behind the bearer-password
// check. These routes manage tenants themselves and are never exposed to
// union members.
func RegisterAdmin(e *echo.Echo, u *handler.UnionAdminHandler, superAdminPassword string) {
	g := e.Group("/unions")
	g.Use(middleware.RequireSuperAdmin(superAdminPassword))
	g.GET("", u.List)
	g.POST("", u.Create)
	g.PUT("", u.Update)
	g.DELETE("", u.Delete)
}
