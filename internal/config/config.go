package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath     = "qrdrop.yaml"
	DefaultListen   = "127.0.0.1:5000"
	DefaultBaseURL  = "http://localhost:5000"
	DefaultMaxBytes = 32 << 20

	BackendLocal = "local"
	BackendGCS   = "gcs"
)

type Config struct {
	Listen    string    `yaml:"listen"`
	Root      string    `yaml:"root"`
	BaseURL   string    `yaml:"base_url,omitempty"` // empty -> derived from each request
	Debug     bool      `yaml:"debug"`
	LogLevel  string    `yaml:"log_level"`
	CSRFKey   string    `yaml:"csrf_key,omitempty"` // 32 bytes; enables CSRF protection on POST
	Audit     bool      `yaml:"audit"`
	QR        QR        `yaml:"qr"`
	Upload    Upload    `yaml:"upload"`
	Telemetry Telemetry `yaml:"telemetry"`
}

type QR struct {
	ModulePixels int `yaml:"module_pixels"`
}

type Upload struct {
	MaxBytes int64  `yaml:"max_bytes"`
	Backend  string `yaml:"backend"`
	GCS      GCS    `yaml:"gcs,omitempty"`
}

type GCS struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix,omitempty"`
}

type Telemetry struct {
	ServiceName  string `yaml:"service_name"`
	OTLPEndpoint string `yaml:"otlp_endpoint,omitempty"`
}

func Default() *Config {
	return &Config{
		Listen:   DefaultListen,
		Root:     ".",
		LogLevel: "info",
		Audit:    true,
		QR:       QR{ModulePixels: 10},
		Upload: Upload{
			MaxBytes: DefaultMaxBytes,
			Backend:  BackendLocal,
		},
		Telemetry: Telemetry{ServiceName: "qrdrop"},
	}
}

// Load reads path on top of the defaults. A missing file is only an error
// when required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	if c.Root == "" {
		return fmt.Errorf("root required")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("base_url must be an absolute http(s) URL")
		}
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.CSRFKey != "" && len(c.CSRFKey) != 32 {
		return fmt.Errorf("csrf_key must be 32 bytes")
	}
	if c.QR.ModulePixels <= 0 {
		return fmt.Errorf("qr.module_pixels must be positive")
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload.max_bytes must be positive")
	}
	switch c.Upload.Backend {
	case BackendLocal:
	case BackendGCS:
		if c.Upload.GCS.Bucket == "" {
			return fmt.Errorf("upload.gcs.bucket required for gcs backend")
		}
	default:
		return fmt.Errorf("upload.backend %q unknown", c.Upload.Backend)
	}
	return nil
}
