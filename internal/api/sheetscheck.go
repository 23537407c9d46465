package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// groupAccess reports whether one group's spreadsheet is reachable.
type groupAccess struct {
	Access bool     `json:"access"`
	Sheets []string `json:"sheets,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// CheckSheets probes every configured group's spreadsheet with the service
// credential and reports which are reachable and their worksheet titles.
// GET /api/sheets/check
func (h *Handler) CheckSheets(c *gin.Context) {
	result := make(map[string]groupAccess, len(h.groups))
	ok := true

	for _, g := range h.groups {
		if g.SheetID == "" {
			result[g.Name] = groupAccess{Error: "spreadsheet id not configured"}
			ok = false
			continue
		}
		titles, err := h.client.SheetTitles(c.Request.Context(), g.SheetID)
		if err != nil {
			result[g.Name] = groupAccess{Error: err.Error()}
			ok = false
			continue
		}
		result[g.Name] = groupAccess{Access: true, Sheets: titles}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": ok,
		"groups":  result,
	})
}
