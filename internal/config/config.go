// Package config holds the immutable settings passed to the extractor and
// the transports.
//
// A Config is built once at startup (defaults, then an optional YAML file,
// then environment overrides), validated, and passed by value. Nothing in the
// module reads environment variables or package globals after that.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/rect-coords/internal/imaging"
)

// Environment variables read by ApplyEnv.
const (
	EnvPort       = "RECT_COORDS_PORT"
	EnvLegacyPort = "FLASK_PORT"
	EnvLogLevel   = "RECT_COORDS_LOG_LEVEL"
	EnvTempDir    = "RECT_COORDS_TEMP_DIR"
)

// DefaultThreshold is the binarization threshold: luminance at or below it
// is foreground.
const DefaultThreshold = 128

// Config is the complete runtime configuration.
type Config struct {
	// Threshold is the largest 8-bit luminance counted as foreground (0-254).
	Threshold int `yaml:"threshold"`

	// AcceptedFormats lists the raster formats accepted for upload, by
	// decoder name ("png", "jpeg", "gif", "bmp", "tiff", "webp").
	AcceptedFormats []string `yaml:"accepted_formats"`

	// VerifyContent also checks the sniffed header format, not only the
	// file name extension.
	VerifyContent bool `yaml:"verify_content"`

	// TempDir is where uploaded bytes are staged while being processed.
	TempDir string `yaml:"temp_dir"`

	// Workers bounds how many batch items are processed concurrently.
	Workers int `yaml:"workers"`

	// Port is the HTTP listen port.
	Port int `yaml:"port"`

	// Host is the HTTP listen host; empty means all interfaces.
	Host string `yaml:"host"`

	// MaxConnections caps simultaneous HTTP connections (0 = unlimited).
	MaxConnections int `yaml:"max_connections"`

	// MaxUploadBytes caps the size of one HTTP request body.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// LogLevel is "info" or "debug".
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
//
// Workers defaults to the number of logical CPUs.
func Default() Config {
	return Config{
		Threshold:       DefaultThreshold,
		AcceptedFormats: []string{"png"},
		TempDir:         os.TempDir(),
		Workers:         logicalCPUs(),
		Port:            5001,
		MaxConnections:  64,
		MaxUploadBytes:  32 << 20,
		LogLevel:        "info",
	}
}

func logicalCPUs() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv returns a copy of c with environment overrides applied.
//
// RECT_COORDS_PORT takes precedence over the legacy FLASK_PORT.
func (c Config) ApplyEnv(getenv func(string) string) (Config, error) {
	for _, key := range []string{EnvLegacyPort, EnvPort} {
		if v := getenv(key); v != "" {
			port, err := strconv.Atoi(v)
			if err != nil {
				return c, fmt.Errorf("invalid %s %q: %w", key, v, err)
			}
			c.Port = port
		}
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := getenv(EnvTempDir); v != "" {
		c.TempDir = v
	}
	return c, nil
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error

	if c.Threshold < 0 || c.Threshold > 254 {
		errs = append(errs, fmt.Errorf("threshold %d out of range 0-254", c.Threshold))
	}
	if len(c.AcceptedFormats) == 0 {
		errs = append(errs, errors.New("accepted_formats must not be empty"))
	}
	for _, f := range c.AcceptedFormats {
		if !imaging.KnownFormat(strings.ToLower(f)) {
			errs = append(errs, fmt.Errorf("unknown format %q", f))
		}
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.MaxConnections < 0 {
		errs = append(errs, fmt.Errorf("max_connections must not be negative, got %d", c.MaxConnections))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes))
	}
	switch c.LogLevel {
	case "info", "debug":
	default:
		errs = append(errs, fmt.Errorf("log_level must be info or debug, got %q", c.LogLevel))
	}

	return errors.Join(errs...)
}

// Addr returns the HTTP listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool {
	return c.LogLevel == "debug"
}
