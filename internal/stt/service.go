package stt

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"chapterize/internal/logging"
)

// Transcriber produces a timed-text transcript for an audio file. The
// engine itself is a black box; only the file contract matters here.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, destPath string) error
}

// Service invokes an external vosk-transcriber process.
type Service struct {
	Binary    string
	ModelDir  string
	Language  string
	ModelSize string // "small" or "large"
	Timeout   time.Duration

	logger *slog.Logger
}

// NewService builds a transcription service around the external binary.
func NewService(binary, modelDir, language, modelSize string, timeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		Binary:    binary,
		ModelDir:  modelDir,
		Language:  language,
		ModelSize: modelSize,
		Timeout:   timeout,
		logger:    logging.NewComponentLogger(logger, "stt"),
	}
}

// Transcribe runs the engine against audioPath and writes an SRT file at
// destPath. A locally downloaded model is preferred; otherwise the engine
// is pointed at the language code and resolves a model itself.
func (s *Service) Transcribe(ctx context.Context, audioPath, destPath string) error {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	args := []string{
		"-i", audioPath,
		"-t", "srt",
		"-o", destPath,
	}
	if modelPath, err := FindModel(s.ModelDir, s.Language, s.ModelSize); err == nil {
		s.logger.Info("using local speech model", logging.String("model", modelPath))
		args = append(args, "-m", modelPath)
	} else {
		s.logger.Warn("no local speech model, engine will resolve one",
			logging.String("language", s.Language), logging.Error(err))
		args = append(args, "-l", s.Language)
	}

	started := time.Now()
	cmd := exec.CommandContext(ctx, binary(s.Binary), args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		os.Remove(destPath)
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("transcribe %s: timed out after %s", filepath.Base(audioPath), s.Timeout)
		}
		return fmt.Errorf("transcribe %s: %w: %s", filepath.Base(audioPath), err, strings.TrimSpace(string(output)))
	}

	info, err := os.Stat(destPath)
	if err != nil || info.Size() == 0 {
		os.Remove(destPath)
		return fmt.Errorf("transcribe %s: engine produced no transcript", filepath.Base(audioPath))
	}
	s.logger.Info("transcript generated",
		logging.String("transcript", destPath),
		logging.Duration("elapsed", time.Since(started)))
	return nil
}

// FindModel locates a downloaded model directory for the language,
// preferring the requested size when several are present.
func FindModel(modelDir, language, size string) (string, error) {
	entries, err := os.ReadDir(modelDir)
	if err != nil {
		return "", fmt.Errorf("read model directory: %w", err)
	}
	var matches []string
	for _, entry := range entries {
		if entry.IsDir() && strings.Contains(entry.Name(), language) {
			matches = append(matches, entry.Name())
		}
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no model for language %q in %s", language, modelDir)
	}
	name := matches[0]
	if len(matches) > 1 {
		for _, candidate := range matches {
			if size == "small" && strings.Contains(candidate, "small") {
				name = candidate
				break
			}
			if size != "small" && !strings.Contains(candidate, "small") {
				name = candidate
				break
			}
		}
	}
	return filepath.Join(modelDir, name), nil
}

// TranscriptPath is the default transcript location: next to the audio,
// with the extension swapped for .srt.
func TranscriptPath(audioPath string) string {
	ext := filepath.Ext(audioPath)
	return strings.TrimSuffix(audioPath, ext) + ".srt"
}

func binary(value string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return "vosk-transcriber"
}
