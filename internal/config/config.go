package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig is the application configuration, loaded from config.toml next to
// the executable with environment overrides for secrets.
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Sheets SheetsConfig `toml:"sheets"`
	Layout LayoutConfig `toml:"layout"`
}

// ServerConfig HTTP server settings.
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig local data directory settings.
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// GroupConfig maps one roster group to its spreadsheet.
type GroupConfig struct {
	Name    string `toml:"name"`
	SheetID string `toml:"sheet_id"`
}

// SheetsConfig spreadsheet mirror settings. Backend is "google" (remote API)
// or "workbook" (local .xlsx files, sheet ids are file paths).
type SheetsConfig struct {
	Backend       string        `toml:"backend"`
	ClientEmail   string        `toml:"client_email"`
	PrivateKey    string        `toml:"private_key"`
	ScanAllGroups bool          `toml:"scan_all_groups"`
	Groups        []GroupConfig `toml:"groups"`
}

// LayoutConfig structural worksheet conventions. These drifted across sheet
// revisions, so they are configuration, not constants. All columns 0-based,
// rows 1-based.
type LayoutConfig struct {
	Worksheet          string `toml:"worksheet"`
	HeaderRows         int    `toml:"header_rows"`
	DateRow            int    `toml:"date_row"`
	DataStartRow       int    `toml:"data_start_row"`
	DocumentCol        int    `toml:"document_col"`
	MinEventCol        int    `toml:"min_event_col"`
	AttendanceFirstCol int    `toml:"attendance_first_col"`
	AttendanceLastCol  int    `toml:"attendance_last_col"`
	TotalCol           int    `toml:"total_col"`
}

// DefaultConfig returns the defaults matching the historical roster sheets.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    8080,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Sheets: SheetsConfig{
			Backend: "google",
			Groups: []GroupConfig{
				{Name: "GRUPO1"},
				{Name: "GRUPO2"},
			},
		},
		Layout: LayoutConfig{
			Worksheet:          "ASISTENCIA",
			HeaderRows:         10,
			DateRow:            7,
			DataStartRow:       8,
			DocumentCol:        3,
			MinEventCol:        5,
			AttendanceFirstCol: 6,
			AttendanceLastCol:  19,
			TotalCol:           20,
		},
	}
}

// GetExeDir returns the directory of the running executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig loads config.toml from the executable directory, falling back to
// defaults when the file is absent, then applies environment overrides.
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	config.applyEnv()
	return config, nil
}

// applyEnv overlays credentials and per-group sheet ids from the environment:
// GOOGLE_CLIENT_EMAIL, GOOGLE_PRIVATE_KEY (newline-escaped) and one
// GOOGLE_SHEET_ID_<GROUP> per configured group.
func (c *AppConfig) applyEnv() {
	if v := os.Getenv("GOOGLE_CLIENT_EMAIL"); v != "" {
		c.Sheets.ClientEmail = v
	}
	if v := os.Getenv("GOOGLE_PRIVATE_KEY"); v != "" {
		c.Sheets.PrivateKey = v
	}
	for i := range c.Sheets.Groups {
		key := "GOOGLE_SHEET_ID_" + strings.ToUpper(c.Sheets.Groups[i].Name)
		if v := os.Getenv(key); v != "" {
			c.Sheets.Groups[i].SheetID = v
		}
	}
}

// Validate checks that every configured group has a spreadsheet id. Absence
// is a configuration error, never silently tolerated.
func (c *AppConfig) Validate() error {
	for _, g := range c.Sheets.Groups {
		if g.SheetID == "" {
			return fmt.Errorf("group %s: spreadsheet id not configured (set GOOGLE_SHEET_ID_%s)",
				g.Name, strings.ToUpper(g.Name))
		}
	}
	if c.Sheets.Backend == "google" && (c.Sheets.ClientEmail == "" || c.Sheets.PrivateKey == "") {
		return fmt.Errorf("google sheets credentials not configured")
	}
	return nil
}

// EnsureDataDir creates the data directory next to the executable.
func EnsureDataDir(config *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	dataDir := filepath.Join(exeDir, config.Data.DataDir)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}
