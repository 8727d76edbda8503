package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	RosterSourceFile     = "file"
	RosterSourcePostgres = "postgres"

	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Config is the resolved runtime configuration.
//
// Load applies, in order: defaults, the optional YAML file, environment variables.
// CLI flags are applied on top by the caller.
type Config struct {
	ExportPath string `yaml:"export_path"`
	OutputDir  string `yaml:"output_dir"`

	Roster RosterConfig `yaml:"roster"`
	Report ReportConfig `yaml:"report"`
	HTTP   HTTPConfig   `yaml:"http"`
	Log    LogConfig    `yaml:"log"`
}

type RosterConfig struct {
	// Source is "file" or "postgres".
	Source      string `yaml:"source"`
	Path        string `yaml:"path"`
	DatabaseURL string `yaml:"database_url"`
}

type ReportConfig struct {
	// Format is "xlsx" or "csv".
	Format        string        `yaml:"format"`
	SheetName     string        `yaml:"sheet_name"`
	NameWidth     float64       `yaml:"name_width"`
	ResponseWidth float64       `yaml:"response_width"`
	Palette       PaletteConfig `yaml:"palette"`
}

// PaletteConfig holds hex RGB fills without '#'. Empty fields keep the renderer defaults.
type PaletteConfig struct {
	Header     string `yaml:"header"`
	Yes        string `yaml:"yes"`
	Maybe      string `yaml:"maybe"`
	No         string `yaml:"no"`
	NoResponse string `yaml:"no_response"`
}

type HTTPConfig struct {
	Port     int    `yaml:"port"`
	APIToken string `yaml:"api_token"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		ExportPath: "attendance_export.csv",
		OutputDir:  ".",
		Roster: RosterConfig{
			Source: RosterSourceFile,
			Path:   "roster.yaml",
		},
		Report: ReportConfig{
			Format:        FormatXLSX,
			SheetName:     "Audit Results",
			NameWidth:     25,
			ResponseWidth: 15,
		},
		HTTP: HTTPConfig{Port: 8080},
		Log:  LogConfig{Level: "info", Format: "json"},
	}
}

// Load resolves the configuration. path may be empty; a named file that does
// not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	str := map[string]*string{
		"AUDIT_EXPORT_PATH":   &cfg.ExportPath,
		"AUDIT_OUTPUT_DIR":    &cfg.OutputDir,
		"AUDIT_ROSTER_SOURCE": &cfg.Roster.Source,
		"AUDIT_ROSTER_PATH":   &cfg.Roster.Path,
		"DATABASE_URL":        &cfg.Roster.DatabaseURL,
		"AUDIT_REPORT_FORMAT": &cfg.Report.Format,
		"AUDIT_SHEET_NAME":    &cfg.Report.SheetName,
		"AUDIT_API_TOKEN":     &cfg.HTTP.APIToken,
		"LOG_LEVEL":           &cfg.Log.Level,
		"LOG_FORMAT":          &cfg.Log.Format,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT must be an integer: %w", err)
		}
		cfg.HTTP.Port = port
	}
	return nil
}

// Validate checks enumerated values and required combinations.
func (c Config) Validate() error {
	var errs []error

	switch c.Roster.Source {
	case RosterSourceFile:
		if c.Roster.Path == "" {
			errs = append(errs, errors.New("AUDIT_ROSTER_PATH is required when AUDIT_ROSTER_SOURCE=file"))
		}
	case RosterSourcePostgres:
		// DATABASE_URL is checked when the pool is opened, so that
		// commands that never touch the roster do not need it.
	default:
		errs = append(errs, fmt.Errorf("AUDIT_ROSTER_SOURCE must be %q or %q, got %q", RosterSourceFile, RosterSourcePostgres, c.Roster.Source))
	}

	switch c.Report.Format {
	case FormatXLSX, FormatCSV:
	default:
		errs = append(errs, fmt.Errorf("AUDIT_REPORT_FORMAT must be %q or %q, got %q", FormatXLSX, FormatCSV, c.Report.Format))
	}
	if strings.TrimSpace(c.Report.SheetName) == "" {
		errs = append(errs, errors.New("AUDIT_SHEET_NAME must not be empty"))
	}
	if c.Report.NameWidth < 0 || c.Report.ResponseWidth < 0 {
		errs = append(errs, errors.New("report column widths must not be negative"))
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.HTTP.Port))
	}
	return errors.Join(errs...)
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.HTTP.Port)
}
