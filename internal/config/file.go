package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
	"k8s.io/client-go/util/homedir"

	"github.com/ytget/tokbulk/internal/download"
	"github.com/ytget/tokbulk/internal/model"
	"github.com/ytget/tokbulk/internal/platform"
)

// Environment variables overriding the config file
const (
	EnvDownloadDir  = "TOKBULK_DOWNLOAD_DIR"
	EnvMaxParallel  = "TOKBULK_MAX_PARALLEL"
	EnvQuality      = "TOKBULK_QUALITY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvAPIKey       = "API_KEY"
)

// DefaultConfigPath returns the config file used when none is given.
func DefaultConfigPath() string {
	return filepath.Join(homedir.HomeDir(), ".tokbulk", "config.yaml")
}

// File is the configuration of the command line application.
type File struct {
	DownloadDir    string        `yaml:"download_dir"`
	MaxParallel    int           `yaml:"max_parallel"`
	Quality        string        `yaml:"quality"`
	AutoReveal     bool          `yaml:"auto_reveal"`
	GeminiAPIKey   string        `yaml:"gemini_api_key"`
	GeminiModel    string        `yaml:"gemini_model"`
	OEmbedEndpoint string        `yaml:"oembed_endpoint"`
	CaptionTimeout time.Duration `yaml:"caption_timeout"`
}

// Load reads the configuration from a YAML file and environment variables.
// A missing file is not an error.
func Load(path string) (*File, error) {
	cfg := &File{}

	f, err := os.Open(path)
	if err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	if val := os.Getenv(EnvDownloadDir); val != "" {
		cfg.DownloadDir = val
	}
	if val := os.Getenv(EnvMaxParallel); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvMaxParallel, err)
		}
		cfg.MaxParallel = n
	}
	if val := os.Getenv(EnvQuality); val != "" {
		cfg.Quality = val
	}
	if val := os.Getenv(EnvGeminiAPIKey); val != "" {
		cfg.GeminiAPIKey = val
	} else if val := os.Getenv(EnvAPIKey); val != "" && cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = val
	}

	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *File) defaults() error {
	if c.DownloadDir == "" {
		dir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			return err
		}
		c.DownloadDir = dir
	}

	if c.MaxParallel == 0 {
		c.MaxParallel = download.DefaultMaxParallel
	}
	c.MaxParallel = download.ClampMaxParallel(c.MaxParallel)

	if c.Quality == "" {
		c.Quality = string(model.DefaultQuality)
	}
	q, err := model.ParseQuality(c.Quality)
	if err != nil {
		return err
	}
	c.Quality = string(q)

	if c.CaptionTimeout < 0 {
		return fmt.Errorf("caption timeout can't be negative")
	}

	return nil
}

// VideoQuality returns the parsed quality.
func (c *File) VideoQuality() model.VideoQuality {
	return model.VideoQuality(c.Quality)
}
