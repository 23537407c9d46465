package api

import (
	"github.com/gin-gonic/gin"

	"github.com/T4ya/appasistencia/internal/live"
	"github.com/T4ya/appasistencia/internal/sheets"
	"github.com/T4ya/appasistencia/internal/store"
)

// Handler bundles the API dependencies: the authoritative store, the
// spreadsheet mirror pipeline and the live feed hub.
type Handler struct {
	store      *store.Store
	reconciler *sheets.Reconciler
	client     sheets.Client
	groups     []sheets.Group
	hub        *live.Hub
}

// NewHandler creates the API handler.
func NewHandler(st *store.Store, rec *sheets.Reconciler, client sheets.Client, groups []sheets.Group, hub *live.Hub) *Handler {
	return &Handler{
		store:      st,
		reconciler: rec,
		client:     client,
		groups:     groups,
		hub:        hub,
	}
}

// RegisterRoutes registers the API routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// registration
	router.POST("/attendance", h.RegisterAttendance)
	router.POST("/attendance/sheet", h.RegisterAttendanceSheet)

	// spreadsheet connectivity probe
	router.GET("/sheets/check", h.CheckSheets)

	// events
	router.POST("/events", h.CreateEvent)
	router.GET("/events", h.ListEvents)
	router.GET("/events/:id", h.GetEvent)
	router.GET("/events/:id/attendances", h.ListEventAttendances)
	router.GET("/events/:id/live", h.LiveFeed)

	// students
	router.GET("/students/:documentId", h.GetStudent)
}
