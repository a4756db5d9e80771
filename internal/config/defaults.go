package config

import "runtime"

const (
	defaultModelDir              = "~/.local/share/chapterize/models"
	defaultCacheDir              = "~/.local/share/chapterize/cache"
	defaultLogDir                = "~/.local/share/chapterize/logs"
	defaultFFmpeg                = "ffmpeg"
	defaultFFprobe               = "ffprobe"
	defaultTranscriber           = "vosk-transcriber"
	defaultLanguage              = "en-us"
	defaultModelSize             = "small"
	defaultTranscriptionTimeout  = 3600
	defaultMergeWindowSeconds    = 3
	defaultGenre                 = "Audiobook"
	defaultChapterTimeoutSeconds = 600
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ModelDir: defaultModelDir,
			CacheDir: defaultCacheDir,
			LogDir:   defaultLogDir,
		},
		Tools: Tools{
			FFmpeg:      defaultFFmpeg,
			FFprobe:     defaultFFprobe,
			Transcriber: defaultTranscriber,
		},
		Transcription: Transcription{
			Language:       defaultLanguage,
			ModelSize:      defaultModelSize,
			TimeoutSeconds: defaultTranscriptionTimeout,
			CacheEnabled:   true,
		},
		Detection: Detection{
			MergeWindowSeconds: defaultMergeWindowSeconds,
		},
		Metadata: Metadata{
			DefaultGenre: defaultGenre,
		},
		Split: Split{
			Workers:               runtime.NumCPU(),
			ChapterTimeoutSeconds: defaultChapterTimeoutSeconds,
			FallbackWholeFile:     false,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
