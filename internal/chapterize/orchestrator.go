package chapterize

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"chapterize/internal/chapter"
	"chapterize/internal/logging"
	"chapterize/internal/metadata"
)

// Cutter copies one chapter's span of the source audio to a new file.
type Cutter interface {
	Cut(ctx context.Context, source, dest string, start, end time.Duration) error
}

// Tagger writes a metadata set onto a finished chapter file.
type Tagger interface {
	Tag(ctx context.Context, path string, set metadata.Set, track, total int) error
}

// Job pairs one resolved boundary with its merged metadata and target path.
type Job struct {
	Boundary chapter.Boundary
	Meta     metadata.Set
	Output   string
}

// Orchestrator runs cut and tag operations for every chapter on a bounded
// worker pool. A chapter failure is recorded and never aborts the run;
// context cancellation stops new chapters from starting but does not touch
// files already written.
type Orchestrator struct {
	Cutter         Cutter
	Tagger         Tagger
	Workers        int
	ChapterTimeout time.Duration

	// OnResult, when set, observes each result as it completes. It is
	// called from worker goroutines and must be safe for concurrent use.
	OnResult func(ChapterResult)

	logger *slog.Logger
}

// NewOrchestrator wires an orchestrator with sane defaults for zero values.
func NewOrchestrator(cutter Cutter, tagger Tagger, workers int, timeout time.Duration, logger *slog.Logger) *Orchestrator {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Orchestrator{
		Cutter:         cutter,
		Tagger:         tagger,
		Workers:        workers,
		ChapterTimeout: timeout,
		logger:         logging.NewComponentLogger(logger, "orchestrator"),
	}
}

// Run processes every job and returns one result per job, sorted by
// ordinal. Jobs not started before cancellation are reported as failed
// with the context error.
func (o *Orchestrator) Run(ctx context.Context, source string, jobs []Job) []ChapterResult {
	workers := o.Workers
	if workers < 1 {
		workers = 1
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]ChapterResult, 0, len(jobs))
		sem     = make(chan struct{}, workers)
	)

	record := func(res ChapterResult) {
		mu.Lock()
		results = append(results, res)
		mu.Unlock()
		if o.OnResult != nil {
			o.OnResult(res)
		}
	}

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			record(ChapterResult{
				Boundary:   job.Boundary,
				OutputPath: job.Output,
				Err:        &ExternalError{Ordinal: job.Boundary.Ordinal, Op: "cut", Err: err},
			})
			continue
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(job Job) {
			defer wg.Done()
			defer func() { <-sem }()
			record(o.process(ctx, source, job, len(jobs)))
		}(job)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].Boundary.Ordinal < results[j].Boundary.Ordinal
	})
	return results
}

func (o *Orchestrator) process(ctx context.Context, source string, job Job, total int) ChapterResult {
	res := ChapterResult{Boundary: job.Boundary, OutputPath: job.Output}

	opCtx := ctx
	cancel := context.CancelFunc(func() {})
	if o.ChapterTimeout > 0 {
		opCtx, cancel = context.WithTimeout(ctx, o.ChapterTimeout)
	}
	defer cancel()

	if err := o.Cutter.Cut(opCtx, source, job.Output, job.Boundary.Start, job.Boundary.End); err != nil {
		res.Err = &ExternalError{Ordinal: job.Boundary.Ordinal, Op: "cut", Err: err}
		o.logger.Error("chapter cut failed",
			logging.Int("ordinal", job.Boundary.Ordinal),
			logging.String("label", job.Boundary.Label),
			logging.Error(err))
		return res
	}

	if err := o.Tagger.Tag(opCtx, job.Output, job.Meta, job.Boundary.Ordinal, total); err != nil {
		res.Err = &ExternalError{Ordinal: job.Boundary.Ordinal, Op: "tag", Err: err}
		o.logger.Error("chapter tag failed",
			logging.Int("ordinal", job.Boundary.Ordinal),
			logging.String("label", job.Boundary.Label),
			logging.Error(err))
		return res
	}

	o.logger.Info("chapter written",
		logging.Int("ordinal", job.Boundary.Ordinal),
		logging.String("output", job.Output),
		logging.Duration("length", job.Boundary.End-job.Boundary.Start))
	return res
}

// OutputPath derives the chapter file name from the source stem, ordinal,
// and label, mirroring "<stem> 03 - <label>.mp3".
func OutputPath(dir, source string, ordinal int, label string) string {
	base := filepath.Base(source)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = ".mp3"
	}

	label = sanitizeLabel(label)
	var name string
	if label == "" {
		name = fmt.Sprintf("%s - %02d%s", stem, ordinal, ext)
	} else {
		name = fmt.Sprintf("%s %02d - %s%s", stem, ordinal, label, ext)
	}
	return filepath.Join(dir, name)
}

func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", "\x00", "")
	return replacer.Replace(label)
}
