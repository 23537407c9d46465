package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/T4ya/appasistencia/internal/store"
)

// GetStudent looks a student up by document id, for the scan screen's
// pre-registration check.
// GET /api/students/:documentId
func (h *Handler) GetStudent(c *gin.Context) {
	student, err := h.store.GetStudentByDocument(c.Param("documentId"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Estudiante no encontrado"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, student)
}
