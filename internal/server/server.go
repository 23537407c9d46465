package server

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/T4ya/appasistencia/internal/api"
	"github.com/T4ya/appasistencia/internal/config"
	"github.com/T4ya/appasistencia/internal/live"
	"github.com/T4ya/appasistencia/internal/sheets"
	"github.com/T4ya/appasistencia/internal/store"
)

// Server is the HTTP server shell.
type Server struct {
	router *gin.Engine
	store  *store.Store
	api    *api.Handler
}

// NewServer wires the store, the spreadsheet mirror and the API together.
func NewServer(cfg *config.AppConfig) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, "asistencia.db")

	sqliteStore, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	client, err := newSheetClient(cfg)
	if err != nil {
		return nil, err
	}

	groups := make([]sheets.Group, 0, len(cfg.Sheets.Groups))
	for _, g := range cfg.Sheets.Groups {
		groups = append(groups, sheets.Group{Name: g.Name, SheetID: g.SheetID})
	}

	reconciler := sheets.NewReconciler(client, layoutFromConfig(cfg.Layout), groups, cfg.Sheets.ScanAllGroups)
	hub := live.NewHub()

	s := &Server{
		router: gin.Default(),
		store:  sqliteStore,
		api:    api.NewHandler(sqliteStore, reconciler, client, groups, hub),
	}
	s.setupRoutes()
	return s, nil
}

// newSheetClient picks the spreadsheet backend: the remote Google API in
// production, local workbooks for offline/dev deployments.
func newSheetClient(cfg *config.AppConfig) (sheets.Client, error) {
	switch cfg.Sheets.Backend {
	case "workbook":
		log.Printf("sheets: using local workbook backend")
		return sheets.NewWorkbookClient(), nil
	case "google", "":
		client, err := sheets.NewGoogleClient(context.Background(), cfg.Sheets.ClientEmail, cfg.Sheets.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("initialize sheets client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown sheets backend %q", cfg.Sheets.Backend)
	}
}

func layoutFromConfig(lc config.LayoutConfig) sheets.Layout {
	return sheets.Layout{
		Worksheet:          lc.Worksheet,
		HeaderRows:         lc.HeaderRows,
		DateRow:            lc.DateRow,
		DataStartRow:       lc.DataStartRow,
		DocumentCol:        lc.DocumentCol,
		MinEventCol:        lc.MinEventCol,
		AttendanceFirstCol: lc.AttendanceFirstCol,
		AttendanceLastCol:  lc.AttendanceLastCol,
		TotalCol:           lc.TotalCol,
	}
}

func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}
}

// Run starts the server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close releases the store.
func (s *Server) Close() error {
	return s.store.Close()
}

// GetStore exposes the store for tests.
func (s *Server) GetStore() *store.Store {
	return s.store
}
