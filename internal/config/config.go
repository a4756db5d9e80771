package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"chapterize/internal/fileutil"
	"chapterize/internal/language"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ModelDir string `toml:"model_dir"`
	CacheDir string `toml:"cache_dir"`
	LogDir   string `toml:"log_dir"`
}

// Tools names the external binaries the pipeline invokes.
type Tools struct {
	FFmpeg      string `toml:"ffmpeg"`
	FFprobe     string `toml:"ffprobe"`
	Transcriber string `toml:"transcriber"`
}

// Transcription configures the speech-to-text step.
type Transcription struct {
	Language       string `toml:"language"`
	ModelSize      string `toml:"model_size"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	CacheEnabled   bool   `toml:"cache_enabled"`
}

// Detection configures chapter-marker matching.
type Detection struct {
	MergeWindowSeconds int      `toml:"merge_window_seconds"`
	ExtraMarkers       []string `toml:"extra_markers"`
	ExtraExcluded      []string `toml:"extra_excluded"`
}

// CueSheet configures the editable boundary override file.
type CueSheet struct {
	Generate bool   `toml:"generate"`
	Path     string `toml:"path"`
}

// Metadata configures tag merging.
type Metadata struct {
	DefaultGenre string `toml:"default_genre"`
	Strict       bool   `toml:"strict"`
}

// Split configures segmentation execution.
type Split struct {
	Workers               int  `toml:"workers"`
	ChapterTimeoutSeconds int  `toml:"chapter_timeout_seconds"`
	FallbackWholeFile     bool `toml:"fallback_whole_file"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config is the one configuration value object, constructed at startup
// and passed into each component; nothing reads ambient global state.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Tools         Tools         `toml:"tools"`
	Transcription Transcription `toml:"transcription"`
	Detection     Detection     `toml:"detection"`
	CueSheet      CueSheet      `toml:"cue_sheet"`
	Metadata      Metadata      `toml:"metadata"`
	Split         Split         `toml:"split"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the conventional config location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "chapterize", "config.toml"), nil
}

// Load reads the config file at path, or the default location when path
// is empty. A missing file yields the defaults. The resolved path is
// returned alongside the config.
func Load(path string) (*Config, string, error) {
	resolved := strings.TrimSpace(path)
	if resolved == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, "", err
		}
		resolved = defaultPath
	}
	resolved = fileutil.ExpandPath(resolved)

	cfg := Default()
	data, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Defaults only; an explicit path that does not exist is an error.
		if strings.TrimSpace(path) != "" {
			return nil, "", fmt.Errorf("config file %s does not exist", resolved)
		}
	case err != nil:
		return nil, "", fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, resolved, nil
}

// WriteSample writes the embedded sample config to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	if _, err := file.WriteString(sampleConfig); err != nil {
		file.Close()
		return fmt.Errorf("write config file: %w", err)
	}
	return file.Close()
}

// EnsureDirectories creates the configured directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ModelDir, c.Paths.CacheDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// TranscriptionTimeout returns the configured transcription bound.
func (c *Config) TranscriptionTimeout() time.Duration {
	return time.Duration(c.Transcription.TimeoutSeconds) * time.Second
}

// ChapterTimeout returns the per-chapter external operation bound.
func (c *Config) ChapterTimeout() time.Duration {
	return time.Duration(c.Split.ChapterTimeoutSeconds) * time.Second
}

// MergeWindow returns the detector's candidate coalescing window.
func (c *Config) MergeWindow() time.Duration {
	return time.Duration(c.Detection.MergeWindowSeconds) * time.Second
}

func (c *Config) normalize() {
	c.Paths.ModelDir = fileutil.ExpandPath(strings.TrimSpace(c.Paths.ModelDir))
	c.Paths.CacheDir = fileutil.ExpandPath(strings.TrimSpace(c.Paths.CacheDir))
	c.Paths.LogDir = fileutil.ExpandPath(strings.TrimSpace(c.Paths.LogDir))
	c.CueSheet.Path = fileutil.ExpandPath(strings.TrimSpace(c.CueSheet.Path))
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	c.Tools.Transcriber = strings.TrimSpace(c.Tools.Transcriber)
	c.Transcription.Language = strings.ToLower(strings.TrimSpace(c.Transcription.Language))
	if code, ok := language.Resolve(c.Transcription.Language); ok {
		c.Transcription.Language = code
	}
	c.Transcription.ModelSize = strings.ToLower(strings.TrimSpace(c.Transcription.ModelSize))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
}
