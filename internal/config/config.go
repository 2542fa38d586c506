package config

import (
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/aggregate"
	apperrors "github.com/ejcacciatore/sapinover-overnight-dashboard/internal/errors"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/pkg/contracts/domain"
)

const (
	// EnvPrefix namespaces every environment variable
	EnvPrefix = "OVERNIGHT"
	// ConfigFileEnv names the YAML file when no path is passed to Load
	ConfigFileEnv = EnvPrefix + "_CONFIG_FILE"
)

// Config represents the complete report configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/overnight-report.log" validate:"required_unless=Output console"`
}

// SlogLevel maps Level onto slog levels, defaulting to info
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// AnalysisConfig controls the analytics computed for a report
type AnalysisConfig struct {
	Winsorized bool          `yaml:"winsorized" envconfig:"WINSORIZED" default:"true"`
	Filter     domain.Filter `yaml:"filter" envconfig:"FILTER"`

	ClusterK             int      `yaml:"cluster_k" envconfig:"CLUSTER_K" default:"4" validate:"min=2,max=8"`
	ClusterFeatures      []string `yaml:"cluster_features" envconfig:"CLUSTER_FEATURES" default:"capturedAlpha,refGap,notional" validate:"min=2,dive,required"`
	ClusterMaxIterations int      `yaml:"cluster_max_iterations" envconfig:"CLUSTER_MAX_ITERATIONS" default:"50" validate:"min=1,max=1000"`
	ClusterSeed          int64    `yaml:"cluster_seed" envconfig:"CLUSTER_SEED" default:"1"`

	RegimeWindow    int     `yaml:"regime_window" envconfig:"REGIME_WINDOW" default:"10" validate:"min=3,max=20"`
	ConfidenceLevel float64 `yaml:"confidence_level" envconfig:"CONFIDENCE_LEVEL" default:"95" validate:"gt=0,lt=100"`

	ScreenerMinObs   int        `yaml:"screener_min_obs" envconfig:"SCREENER_MIN_OBS" default:"3" validate:"min=1"`
	ScreenerSort     SortConfig `yaml:"screener_sort" envconfig:"SCREENER_SORT"`
	SectorRiskMinObs int        `yaml:"sector_risk_min_obs" envconfig:"SECTOR_RISK_MIN_OBS" default:"10" validate:"min=1"`
	TopSectors       int        `yaml:"top_sectors" envconfig:"TOP_SECTORS" default:"15" validate:"min=1"`
	Watchlist        []string   `yaml:"watchlist" envconfig:"WATCHLIST" validate:"max=6,dive,required"`
}

// Mode returns the display mode selected by Winsorized
func (a AnalysisConfig) Mode() domain.DisplayMode {
	return domain.ModeFor(a.Winsorized)
}

// SortConfig selects the screener ordering
type SortConfig struct {
	Column    string `yaml:"column" envconfig:"COLUMN" default:"avgCapturedAlpha" validate:"required"`
	Ascending bool   `yaml:"ascending" envconfig:"ASCENDING"`
}

// TelemetryConfig contains tracing and metrics output configuration
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME" default:"overnight-report" validate:"required"`
	EnableTracing bool   `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"stdout" validate:"oneof=stdout none"`
	MetricsFile   string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// PathsConfig contains input and output locations
type PathsConfig struct {
	DataFile   string `yaml:"data_file" envconfig:"DATA_FILE" default:"data.json" validate:"required"`
	OutputFile string `yaml:"output_file" envconfig:"OUTPUT_FILE"`
}

// Load resolves the configuration. path names a YAML file; when empty the
// file comes from OVERNIGHT_CONFIG_FILE, then the first default location
// that exists. An explicitly named file must exist.
func Load(path string) (*Config, error) {
	var envCfg Config
	if err := envconfig.Process(EnvPrefix, &envCfg); err != nil {
		return nil, apperrors.NewConfigError("load config from env", err)
	}
	cfg := envCfg

	explicit := path != ""
	if !explicit {
		path = os.Getenv(ConfigFileEnv)
		explicit = path != ""
	}
	if !explicit {
		path = findConfigFile()
	}

	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("load config file %s", path), err)
		}
		// environment variables win over the file
		overlayEnv(EnvPrefix, reflect.ValueOf(&cfg).Elem(), reflect.ValueOf(&envCfg).Elem())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section against its validate tags
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	if !slices.Contains(aggregate.SortColumns(), c.Analysis.ScreenerSort.Column) {
		return apperrors.NewConfigError("config validation failed",
			fmt.Errorf("unknown screener sort column %q", c.Analysis.ScreenerSort.Column))
	}
	return nil
}

// loadFromFile overlays the YAML document at path onto cfg. Keys absent
// from the document keep their current value.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// findConfigFile returns the first default config location that exists
func findConfigFile() string {
	locations := []string{
		"overnight-report.yaml",
		"configs/overnight-report.yaml",
		"../configs/overnight-report.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// overlayEnv copies into dst every leaf field of src whose environment
// variable is explicitly set. Keys follow envconfig naming.
func overlayEnv(prefix string, dst, src reflect.Value) {
	t := dst.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("envconfig")
		if tag == "" {
			tag = field.Name
		}
		key := prefix + "_" + strings.ToUpper(tag)

		if field.Type.Kind() == reflect.Struct {
			overlayEnv(key, dst.Field(i), src.Field(i))
			continue
		}
		if _, set := os.LookupEnv(key); set {
			dst.Field(i).Set(src.Field(i))
		}
	}
}
