package config

import (
	"fmt"

	"chapterize/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateSplit(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if c.Transcription.Language == "" {
		return fmt.Errorf("transcription.language must not be empty")
	}
	if _, ok := language.Resolve(c.Transcription.Language); !ok {
		return fmt.Errorf("transcription.language %q is not a supported language; run 'chapterize languages'", c.Transcription.Language)
	}
	switch c.Transcription.ModelSize {
	case "small", "large":
	default:
		return fmt.Errorf("transcription.model_size must be \"small\" or \"large\", got %q", c.Transcription.ModelSize)
	}
	if c.Transcription.TimeoutSeconds < 0 {
		return fmt.Errorf("transcription.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateSplit() error {
	if c.Split.Workers < 1 {
		return fmt.Errorf("split.workers must be at least 1, got %d", c.Split.Workers)
	}
	if c.Split.ChapterTimeoutSeconds < 0 {
		return fmt.Errorf("split.chapter_timeout_seconds must not be negative")
	}
	if c.Detection.MergeWindowSeconds < 0 {
		return fmt.Errorf("detection.merge_window_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not a log level", c.Logging.Level)
	}
	return nil
}
