package chapterize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"chapterize/internal/chapter"
	"chapterize/internal/config"
	"chapterize/internal/cuesheet"
	"chapterize/internal/deps"
	"chapterize/internal/logging"
	"chapterize/internal/markers"
	"chapterize/internal/media/ffmpeg"
	"chapterize/internal/media/ffprobe"
	"chapterize/internal/metadata"
	"chapterize/internal/stt"
	"chapterize/internal/transcache"
	"chapterize/internal/transcript"
)

// ErrLocked indicates another run already holds the audiobook's lock file.
var ErrLocked = errors.New("audiobook is locked by another run")

// RunOptions carries per-invocation inputs on top of the loaded config.
type RunOptions struct {
	Audio      string
	Transcript string // replaces the transcription step only
	Cue        string // explicit cue sheet, supersedes detection
	IgnoreCue  bool   // skip sibling/config cue sheets and always detect
	WriteCue   bool
	CueOut     string // cue sheet destination, defaults next to the audiobook
	OutputDir  string // defaults to the audiobook's directory
	Supplied   metadata.Set
	Language   string // overrides config when non-empty
	Workers    int    // overrides config when positive
	OnResult   func(ChapterResult)
}

// Pipeline drives one full run from audiobook to tagged chapter files.
// The external-tool fields are settable so tests can substitute fakes.
type Pipeline struct {
	Transcriber stt.Transcriber
	Cutter      Cutter
	Tagger      Tagger
	Probe       func(ctx context.Context, path string) (ffprobe.Result, error)

	cfg    *config.Config
	logger *slog.Logger
}

// NewPipeline wires the default external tools from config.
func NewPipeline(cfg *config.Config, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		Transcriber: stt.NewService(
			cfg.Tools.Transcriber,
			cfg.Paths.ModelDir,
			cfg.Transcription.Language,
			cfg.Transcription.ModelSize,
			cfg.TranscriptionTimeout(),
			logger,
		),
		Cutter: ffmpeg.Splitter{Binary: cfg.Tools.FFmpeg},
		Tagger: ffmpeg.Tagger{Binary: cfg.Tools.FFmpeg},
		Probe: func(ctx context.Context, path string) (ffprobe.Result, error) {
			return ffprobe.Inspect(ctx, cfg.Tools.FFprobe, path)
		},
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run executes the whole conversion. Parse and validation failures abort
// before any chapter file is produced; per-chapter cut/tag failures are
// isolated in the returned report. When no boundaries are found and no
// fallback is configured, the error wraps chapter.ErrNoBoundaries.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	if _, err := os.Stat(opts.Audio); err != nil {
		return nil, fmt.Errorf("audiobook: %w", err)
	}

	lock := flock.New(lockPath(opts.Audio))
	held, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !held {
		return nil, fmt.Errorf("%w: %s", ErrLocked, opts.Audio)
	}
	defer func() {
		lock.Unlock()
		os.Remove(lock.Path())
	}()

	if err := p.preflight(opts); err != nil {
		return nil, err
	}

	probe, err := p.Probe(ctx, opts.Audio)
	if err != nil {
		return nil, fmt.Errorf("inspect audiobook: %w", err)
	}
	if !probe.HasAudio() {
		return nil, fmt.Errorf("audiobook %s has no audio stream", opts.Audio)
	}
	total, err := probe.Duration()
	if err != nil {
		return nil, fmt.Errorf("audiobook duration: %w", err)
	}

	report := &Report{RunID: uuid.NewString(), Source: opts.Audio}
	p.logger.Info("run started",
		logging.String("run_id", report.RunID),
		logging.String("audiobook", opts.Audio),
		logging.Duration("duration", total))

	boundaries, err := p.boundaries(ctx, opts)
	if err != nil {
		return nil, err
	}

	resolved, err := chapter.Resolve(boundaries, chapter.ResolveOptions{
		Total:             total,
		FallbackWholeFile: p.cfg.Split.FallbackWholeFile,
		FallbackLabel:     deriveTitle(opts),
	})
	if err != nil {
		if errors.Is(err, chapter.ErrNoBoundaries) {
			return report, fmt.Errorf("%s: %w", opts.Audio, err)
		}
		return nil, err
	}
	p.logger.Info("boundaries resolved", logging.Int("chapters", len(resolved)))

	if opts.WriteCue || p.cfg.CueSheet.Generate {
		cuePath := p.cueOutPath(opts)
		if err := cuesheet.WriteFile(cuePath, filepath.Base(opts.Audio), resolved); err != nil {
			p.logger.Warn("cue sheet not written", logging.String("path", cuePath), logging.Error(err))
		} else {
			p.logger.Info("cue sheet written", logging.String("path", cuePath))
		}
	}

	jobs, err := p.buildJobs(ctx, opts, resolved)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers < 1 {
		workers = p.cfg.Split.Workers
	}
	orch := NewOrchestrator(p.Cutter, p.Tagger, workers, p.cfg.ChapterTimeout(), p.logger)
	orch.OnResult = opts.OnResult
	report.Chapters = orch.Run(ctx, opts.Audio, jobs)

	p.logger.Info("run finished",
		logging.String("run_id", report.RunID),
		logging.String("outcome", report.Outcome().String()),
		logging.Int("succeeded", len(report.Succeeded())),
		logging.Int("failed", len(report.Failed())))
	return report, nil
}

// Preview resolves the boundary list without cutting anything. The cue
// subcommand uses it to emit an editable sheet for a later run.
func (p *Pipeline) Preview(ctx context.Context, opts RunOptions) ([]chapter.Boundary, error) {
	if _, err := os.Stat(opts.Audio); err != nil {
		return nil, fmt.Errorf("audiobook: %w", err)
	}
	if err := p.preflight(opts); err != nil {
		return nil, err
	}

	probe, err := p.Probe(ctx, opts.Audio)
	if err != nil {
		return nil, fmt.Errorf("inspect audiobook: %w", err)
	}
	total, err := probe.Duration()
	if err != nil {
		return nil, fmt.Errorf("audiobook duration: %w", err)
	}

	boundaries, err := p.boundaries(ctx, opts)
	if err != nil {
		return nil, err
	}
	return chapter.Resolve(boundaries, chapter.ResolveOptions{
		Total:             total,
		FallbackWholeFile: p.cfg.Split.FallbackWholeFile,
		FallbackLabel:     deriveTitle(opts),
	})
}

func (p *Pipeline) preflight(opts RunOptions) error {
	transcriberOptional := opts.Transcript != "" || p.cuePath(opts) != ""
	statuses := deps.CheckBinaries(deps.Required(
		p.cfg.Tools.FFmpeg,
		p.cfg.Tools.FFprobe,
		p.cfg.Tools.Transcriber,
		transcriberOptional,
	))
	if missing, ok := deps.FirstMissing(statuses); ok {
		return fmt.Errorf("required tool %s not found: %s", missing.Name, missing.Detail)
	}
	return nil
}

// cuePath returns the cue sheet to honor for this run, or "". An explicit
// flag wins over the config path, which wins over an implicit sibling file.
// IgnoreCue disables all three so regeneration runs detection instead of
// reading back the sheet it is about to replace.
func (p *Pipeline) cuePath(opts RunOptions) string {
	if opts.IgnoreCue {
		return ""
	}
	if opts.Cue != "" {
		return opts.Cue
	}
	if p.cfg.CueSheet.Path != "" {
		return p.cfg.CueSheet.Path
	}
	sibling := cuesheet.DefaultPath(opts.Audio)
	if _, err := os.Stat(sibling); err == nil {
		return sibling
	}
	return ""
}

// cueOutPath is where a generated cue sheet lands: the explicit destination
// when given, a sibling of the audiobook otherwise.
func (p *Pipeline) cueOutPath(opts RunOptions) string {
	if opts.CueOut != "" {
		return opts.CueOut
	}
	return cuesheet.DefaultPath(opts.Audio)
}

// boundaries produces the unresolved boundary list. A cue sheet supersedes
// detection entirely; otherwise the transcript is obtained and scanned.
func (p *Pipeline) boundaries(ctx context.Context, opts RunOptions) ([]chapter.Boundary, error) {
	if cuePath := p.cuePath(opts); cuePath != "" {
		p.logger.Info("using cue sheet", logging.String("path", cuePath))
		return cuesheet.Parse(cuePath)
	}

	srtPath, err := p.obtainTranscript(ctx, opts)
	if err != nil {
		return nil, err
	}
	cues, err := transcript.Load(srtPath)
	if err != nil {
		return nil, err
	}
	p.logger.Info("transcript loaded",
		logging.String("path", srtPath),
		logging.Int("cues", len(cues)))

	rules, err := markers.RulesFor(
		p.language(opts),
		p.cfg.Detection.ExtraMarkers,
		p.cfg.Detection.ExtraExcluded,
		p.cfg.MergeWindow(),
	)
	if err != nil {
		return nil, err
	}
	found := markers.Detect(cues, rules)
	p.logger.Info("markers detected", logging.Int("boundaries", len(found)))
	return found, nil
}

// obtainTranscript locates or generates the SRT for the audiobook:
// explicit flag, sibling .srt, cache hit, then transcription in that order.
func (p *Pipeline) obtainTranscript(ctx context.Context, opts RunOptions) (string, error) {
	if opts.Transcript != "" {
		if _, err := os.Stat(opts.Transcript); err != nil {
			return "", fmt.Errorf("transcript: %w", err)
		}
		return opts.Transcript, nil
	}

	sibling := stt.TranscriptPath(opts.Audio)
	if _, err := os.Stat(sibling); err == nil {
		p.logger.Info("reusing existing transcript", logging.String("path", sibling))
		return sibling, nil
	}

	lang := p.language(opts)
	var cache *transcache.Store
	var audioHash string
	if p.cfg.Transcription.CacheEnabled && p.cfg.Paths.CacheDir != "" {
		hash, err := transcache.HashFile(opts.Audio)
		if err != nil {
			return "", fmt.Errorf("hash audiobook: %w", err)
		}
		audioHash = hash
		store, err := transcache.Open(filepath.Join(p.cfg.Paths.CacheDir, "transcripts.db"))
		if err != nil {
			p.logger.Warn("transcript cache unavailable", logging.Error(err))
		} else {
			cache = store
			defer cache.Close()
			if path, ok, err := cache.Lookup(ctx, audioHash, lang); err == nil && ok {
				p.logger.Info("transcript cache hit", logging.String("path", path))
				return path, nil
			}
		}
	}

	p.logger.Info("transcribing audiobook",
		logging.String("language", lang),
		logging.String("output", sibling))
	if err := p.Transcriber.Transcribe(ctx, opts.Audio, sibling); err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	if cache != nil {
		if err := cache.Record(ctx, audioHash, lang, sibling); err != nil {
			p.logger.Warn("transcript cache not updated", logging.Error(err))
		}
	}
	return sibling, nil
}

// buildJobs merges metadata for every boundary and assigns output paths.
func (p *Pipeline) buildJobs(ctx context.Context, opts RunOptions, resolved []chapter.Boundary) ([]Job, error) {
	embedded, err := p.embeddedMetadata(ctx, opts)
	if err != nil {
		return nil, err
	}

	supplied := opts.Supplied
	if len(supplied.Genres) == 0 && p.cfg.Metadata.DefaultGenre != "" && len(embedded.Genres) == 0 {
		supplied.Genres = []string{p.cfg.Metadata.DefaultGenre}
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(opts.Audio)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	jobs := make([]Job, 0, len(resolved))
	for _, b := range resolved {
		meta, err := metadata.Merge(embedded, supplied, b, p.cfg.Metadata.Strict)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, Job{
			Boundary: b,
			Meta:     meta,
			Output:   OutputPath(outputDir, opts.Audio, b.Ordinal, b.Label),
		})
	}
	return jobs, nil
}

// embeddedMetadata reads the source file's tags and cover art. Absence of
// either is not an error.
func (p *Pipeline) embeddedMetadata(ctx context.Context, opts RunOptions) (metadata.Set, error) {
	embedded, err := ffmpeg.ExportMetadata(ctx, p.cfg.Tools.FFmpeg, opts.Audio)
	if err != nil {
		p.logger.Warn("embedded metadata unavailable", logging.Error(err))
		embedded = metadata.Set{}
	}

	if opts.Supplied.CoverArt == "" {
		coverDest := coverPath(opts.Audio)
		cover, err := ffmpeg.ExportCover(ctx, p.cfg.Tools.FFmpeg, opts.Audio, coverDest)
		if err != nil {
			p.logger.Warn("cover art not extracted", logging.Error(err))
		} else if cover != "" {
			embedded.CoverArt = cover
		}
	}
	return embedded, nil
}

func (p *Pipeline) language(opts RunOptions) string {
	if opts.Language != "" {
		return opts.Language
	}
	return p.cfg.Transcription.Language
}

// deriveTitle names the whole-file fallback chapter after the book.
func deriveTitle(opts RunOptions) string {
	if opts.Supplied.Album != "" {
		return opts.Supplied.Album
	}
	base := filepath.Base(opts.Audio)
	return base[:len(base)-len(filepath.Ext(base))]
}

func lockPath(audioPath string) string {
	return audioPath + ".lock"
}

func coverPath(audioPath string) string {
	ext := filepath.Ext(audioPath)
	return audioPath[:len(audioPath)-len(ext)] + ".jpg"
}
