package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/T4ya/appasistencia/internal/store"
)

// CreateEventRequest is the event creation payload.
type CreateEventRequest struct {
	Title       string `json:"title" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Description string `json:"description"`
	CreatedBy   string `json:"created_by"`
}

// CreateEvent creates an event.
// POST /api/events
func (h *Handler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud inválida"})
		return
	}

	event, err := h.store.CreateEvent(req.Title, req.Date, req.Description, req.CreatedBy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, event)
}

// ListEvents lists all events, newest first.
// GET /api/events
func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.store.ListEvents()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// GetEvent fetches one event.
// GET /api/events/:id
func (h *Handler) GetEvent(c *gin.Context) {
	event, err := h.store.GetEvent(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Evento no encontrado"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, event)
}

// ListEventAttendances lists the students registered for an event, newest
// first, for the organizer's scan screen.
// GET /api/events/:id/attendances
func (h *Handler) ListEventAttendances(c *gin.Context) {
	eventID := c.Param("id")
	if _, err := h.store.GetEvent(eventID); errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Evento no encontrado"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	attendances, err := h.store.ListEventAttendances(eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendances": attendances})
}

// LiveFeed upgrades to a websocket pushing each new registration for the
// event to watching clients.
// GET /api/events/:id/live
func (h *Handler) LiveFeed(c *gin.Context) {
	eventID := c.Param("id")
	if _, err := h.store.GetEvent(eventID); errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Evento no encontrado"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.hub.Subscribe(eventID, c.Writer, c.Request); err != nil {
		// Upgrade failures have already written a response.
		return
	}
}
