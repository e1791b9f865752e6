package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/tokbulk/internal/config"
	"github.com/ytget/tokbulk/internal/model"
)

func TestLoad(t *testing.T) {
	tests := map[string]struct {
		file   string
		env    map[string]string
		exp    config.File
		expErr bool
	}{
		"A missing file should use defaults.": {
			env: map[string]string{config.EnvDownloadDir: "/dl"},
			exp: config.File{DownloadDir: "/dl", MaxParallel: 10, Quality: "720p"},
		},
		"An empty file should use defaults.": {
			file: " ",
			env:  map[string]string{config.EnvDownloadDir: "/dl"},
			exp:  config.File{DownloadDir: "/dl", MaxParallel: 10, Quality: "720p"},
		},
		"File values should be loaded and normalized.": {
			file: `
download_dir: /videos
max_parallel: 25
quality: "1080"
auto_reveal: true
gemini_api_key: file-key
caption_timeout: 5s
`,
			exp: config.File{
				DownloadDir:    "/videos",
				MaxParallel:    10,
				Quality:        "1080p",
				AutoReveal:     true,
				GeminiAPIKey:   "file-key",
				CaptionTimeout: 5 * time.Second,
			},
		},
		"Env should override the file.": {
			file: "download_dir: /videos\nmax_parallel: 2\n",
			env: map[string]string{
				config.EnvDownloadDir:  "/env",
				config.EnvMaxParallel:  "4",
				config.EnvQuality:      "max",
				config.EnvGeminiAPIKey: "env-key",
			},
			exp: config.File{DownloadDir: "/env", MaxParallel: 4, Quality: "Highest Quality", GeminiAPIKey: "env-key"},
		},
		"API_KEY should be used when no Gemini key is set.": {
			env: map[string]string{config.EnvDownloadDir: "/dl", config.EnvAPIKey: "fallback-key"},
			exp: config.File{DownloadDir: "/dl", MaxParallel: 10, Quality: "720p", GeminiAPIKey: "fallback-key"},
		},
		"An invalid quality should fail.": {
			file:   "quality: 8k\n",
			expErr: true,
		},
		"An invalid max parallel env should fail.": {
			env:    map[string]string{config.EnvMaxParallel: "many"},
			expErr: true,
		},
		"Invalid YAML should fail.": {
			file:   "max_parallel: [",
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			for _, k := range []string{config.EnvDownloadDir, config.EnvMaxParallel, config.EnvQuality, config.EnvGeminiAPIKey, config.EnvAPIKey} {
				t.Setenv(k, "")
			}
			for k, v := range test.env {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), "config.yaml")
			if test.file != "" {
				require.NoError(t, os.WriteFile(path, []byte(test.file), 0o600))
			}

			got, err := config.Load(path)
			if test.expErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.exp, *got)
		})
	}
}

func TestFileVideoQuality(t *testing.T) {
	f := config.File{Quality: "1080p"}
	assert.Equal(t, model.QualityFHD1080, f.VideoQuality())
}

func TestDefaultConfigPath(t *testing.T) {
	assert.Equal(t, "config.yaml", filepath.Base(config.DefaultConfigPath()))
}
