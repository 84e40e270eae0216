package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	StackExchange StackExchangeConfig `yaml:"stackexchange"`
	HTTP          HTTPConfig          `yaml:"http"`
	Detector      DetectorConfig      `yaml:"detector"`
	Annotation    AnnotationConfig    `yaml:"annotation"`
	Pipeline      PipelineConfig      `yaml:"pipeline"`
	Web           WebConfig           `yaml:"web"`
	Log           LogConfig           `yaml:"log"`
}

type StackExchangeConfig struct {
	URL         string `yaml:"url"`          // users listing endpoint
	MaxProfiles int    `yaml:"max_profiles"` // top-N cutoff
}

type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout"` // per request
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	UserAgent         string        `yaml:"user_agent"`
}

type DetectorConfig struct {
	CascadePath          string  `yaml:"cascade_path"` // pigo facefinder file, empty = embedded
	MinSize              int     `yaml:"min_size"`
	MaxSize              int     `yaml:"max_size"`
	ShiftFactor          float64 `yaml:"shift_factor"`
	ScaleFactor          float64 `yaml:"scale_factor"`
	BaseThreshold        float64 `yaml:"base_threshold"`
	ConfidenceAdjustment float64 `yaml:"confidence_adjustment"` // negative relaxes detection
	IoUThreshold         float64 `yaml:"iou_threshold"`
}

type AnnotationConfig struct {
	BoxWidth    int    `yaml:"box_width"`
	BoxColor    string `yaml:"box_color"` // #rrggbb
	JPEGQuality int    `yaml:"jpeg_quality"`
}

type PipelineConfig struct {
	Concurrency int `yaml:"concurrency"` // 1 = strictly sequential
}

type WebConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"` // CORS whitelist, localhost is always allowed
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable as a float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return defaultVal
}

// envDuration reads an environment variable as a positive time.Duration ("10s").
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// envList reads a comma-separated environment variable, dropping empty entries.
func envList(key string, defaultVal []string) []string {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	var out []string
	for item := range strings.SplitSeq(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Defaults returns the compiled-in configuration without environment overrides.
func Defaults() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}
	return &cfg
}

func Load() *Config {
	cfg := Defaults()

	cfg.StackExchange.URL = envString("STACKEXCHANGE_URL", cfg.StackExchange.URL)
	cfg.StackExchange.MaxProfiles = envInt("MAX_PROFILES", cfg.StackExchange.MaxProfiles)

	cfg.HTTP.Timeout = envDuration("REQUEST_TIMEOUT", cfg.HTTP.Timeout)
	cfg.HTTP.RequestsPerSecond = envFloat("REQUESTS_PER_SECOND", cfg.HTTP.RequestsPerSecond)
	cfg.HTTP.Burst = envInt("REQUEST_BURST", cfg.HTTP.Burst)

	cfg.Pipeline.Concurrency = envInt("CONCURRENCY", cfg.Pipeline.Concurrency)

	cfg.Detector.CascadePath = envString("FACEFINDER_CASCADE", cfg.Detector.CascadePath)
	cfg.Detector.ConfidenceAdjustment = envFloat("DETECTOR_CONFIDENCE_ADJUSTMENT", cfg.Detector.ConfidenceAdjustment)

	cfg.Web.Host = envString("WEB_HOST", cfg.Web.Host)
	cfg.Web.Port = envInt("WEB_PORT", cfg.Web.Port)
	cfg.Web.AllowedOrigins = envList("WEB_ALLOWED_ORIGINS", cfg.Web.AllowedOrigins)

	cfg.Log.Level = envString("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = envString("LOG_FORMAT", cfg.Log.Format)

	return cfg
}

// Color parses BoxColor.
func (c *AnnotationConfig) Color() (color.RGBA, error) {
	return ParseHexColor(c.BoxColor)
}

// ParseHexColor parses "#rrggbb" (the leading # is optional) into an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: expected #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
