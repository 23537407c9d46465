package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/T4ya/appasistencia/internal/live"
	"github.com/T4ya/appasistencia/internal/model"
	"github.com/T4ya/appasistencia/internal/sheets"
	"github.com/T4ya/appasistencia/internal/store"
)

// RegisterAttendanceRequest is the self-registration payload.
type RegisterAttendanceRequest struct {
	EventID    string `json:"eventId" binding:"required"`
	DocumentID string `json:"documentId" binding:"required"`
	VerifiedBy string `json:"verifiedBy"`
}

// RegisterAttendance registers a student's attendance: the relational insert
// is authoritative, the spreadsheet mirror is a best-effort enrichment whose
// failure never surfaces to the student.
// POST /api/attendance
func (h *Handler) RegisterAttendance(c *gin.Context) {
	var req RegisterAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud inválida"})
		return
	}

	event, err := h.store.GetEvent(req.EventID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Evento no encontrado"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	student, err := h.store.GetStudentByDocument(req.DocumentID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Estudiante no encontrado"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	exists, err := h.store.HasAttendance(event.ID, student.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ya registraste tu asistencia para este evento"})
		return
	}

	if _, err := h.store.CreateAttendance(event.ID, student.ID, req.VerifiedBy); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Best-effort mirror: outcome is logged inside, never gates the response.
	h.reconciler.Mirror(c.Request.Context(), model.AttendanceRecord{
		DocumentID: student.DocumentID,
		EventID:    event.ID,
		EventTitle: event.Title,
		EventDate:  localeDate(event.Date),
	})

	h.hub.Broadcast(event.ID, live.Message{
		Event: "ATTENDANCE_REGISTERED",
		Data: map[string]interface{}{
			"full_name":   student.FullName,
			"document_id": student.DocumentID,
			"program":     student.Program,
			"code":        student.Code,
		},
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Asistencia registrada correctamente",
		"student": gin.H{
			"full_name":   student.FullName,
			"document_id": student.DocumentID,
		},
	})
}

// RegisterAttendanceSheetRequest is the direct spreadsheet write payload.
type RegisterAttendanceSheetRequest struct {
	EventID     string `json:"eventId" binding:"required"`
	DocumentID  string `json:"documentId" binding:"required"`
	StudentName string `json:"studentName"`
}

// RegisterAttendanceSheet performs the dual-group reconciliation
// synchronously, without touching the relational store. Used to repair the
// mirror when the best-effort path was skipped.
// POST /api/attendance/sheet
func (h *Handler) RegisterAttendanceSheet(c *gin.Context) {
	var req RegisterAttendanceSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud inválida"})
		return
	}

	rec := model.AttendanceRecord{
		DocumentID: req.DocumentID,
		EventID:    req.EventID,
		EventDate:  localeDate(""),
	}
	if event, err := h.store.GetEvent(req.EventID); err == nil {
		rec.EventTitle = event.Title
		rec.EventDate = localeDate(event.Date)
	}

	result, err := h.reconciler.Reconcile(c.Request.Context(), rec)
	if errors.Is(err, sheets.ErrNotFoundAnywhere) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": fmt.Sprintf("Estudiante con documento %s no encontrado en ninguna hoja", req.DocumentID),
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	name := req.StudentName
	if name == "" {
		name = "estudiante"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  fmt.Sprintf("Asistencia registrada para %s en %s", name, result.Group),
		"location": result.Location,
	})
}

// localeDate renders a stored ISO date (or today when empty/unparseable) in
// the d/m/yyyy form the roster sheets use.
func localeDate(isoDate string) string {
	if t, err := time.Parse("2006-01-02", isoDate); err == nil {
		return t.Format("2/1/2006")
	}
	return time.Now().Format("2/1/2006")
}
