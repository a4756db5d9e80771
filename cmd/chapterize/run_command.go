package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"chapterize/internal/chapter"
	"chapterize/internal/chapterize"
	"chapterize/internal/fileutil"
	"chapterize/internal/metadata"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		transcriptFlag string
		cueFlag        string
		writeCue       bool
		cueOut         string
		languageFlag   string
		outputDir      string
		workers        int

		author      string
		title       string
		narrator    string
		genre       string
		year        string
		comment     string
		description string
		coverArt    string
	)

	cmd := &cobra.Command{
		Use:   "run <audiobook>",
		Short: "Detect chapters and split the audiobook",
		Long: "Transcribes the audiobook (or reuses a transcript), detects spoken " +
			"chapter markers, and cuts one tagged file per chapter. A cue sheet " +
			"next to the audiobook, or one named with --cue, overrides detection.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			colorize := writerIsTerminal(out)

			pipeline := chapterize.NewPipeline(cfg, logger)
			report, err := pipeline.Run(runCtx, chapterize.RunOptions{
				Audio:      fileutil.ExpandPath(args[0]),
				Transcript: fileutil.ExpandPath(transcriptFlag),
				Cue:        fileutil.ExpandPath(cueFlag),
				WriteCue:   writeCue || cueOut != "",
				CueOut:     fileutil.ExpandPath(cueOut),
				OutputDir:  fileutil.ExpandPath(outputDir),
				Language:   languageFlag,
				Workers:    workers,
				Supplied: metadata.Set{
					Author:      author,
					Album:       title,
					Narrator:    narrator,
					Genres:      metadata.SplitGenres(genre),
					Year:        year,
					Comment:     comment,
					Description: description,
					CoverArt:    fileutil.ExpandPath(coverArt),
				},
				OnResult: func(res chapterize.ChapterResult) {
					printChapterResult(out, res, colorize)
				},
			})
			if err != nil {
				if errors.Is(err, chapter.ErrNoBoundaries) {
					return &exitError{code: exitNoBoundaries, err: fmt.Errorf(
						"%v; edit a cue sheet next to the audiobook or enable split.fallback_whole_file", err)}
				}
				return err
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, renderReport(report))
			return reportExitError(report)
		},
	}

	cmd.Flags().StringVar(&transcriptFlag, "transcript", "", "Use an existing SRT transcript instead of transcribing")
	cmd.Flags().StringVar(&cueFlag, "cue", "", "Read chapter boundaries from this cue sheet")
	cmd.Flags().BoolVar(&writeCue, "write-cue", false, "Also write a cue sheet next to the audiobook")
	cmd.Flags().StringVar(&cueOut, "cue-out", "", "Write the cue sheet to this path (implies --write-cue)")
	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Spoken language of the audiobook")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for chapter files (default: next to the audiobook)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent chapter operations (default: from config)")

	cmd.Flags().StringVar(&author, "author", "", "Author tag for every chapter")
	cmd.Flags().StringVar(&title, "title", "", "Book title, written as the album tag on every chapter")
	cmd.Flags().StringVar(&narrator, "narrator", "", "Narrator (composer) tag")
	cmd.Flags().StringVar(&genre, "genre", "", "Genre list, semicolon separated")
	cmd.Flags().StringVar(&year, "year", "", "Release year tag")
	cmd.Flags().StringVar(&comment, "comment", "", "Comment tag")
	cmd.Flags().StringVar(&description, "description", "", "Description tag")
	cmd.Flags().StringVar(&coverArt, "cover-art", "", "Cover image to embed in every chapter")

	return cmd
}

// reportExitError maps the run outcome onto the documented exit statuses.
func reportExitError(report *chapterize.Report) error {
	switch report.Outcome() {
	case chapterize.OutcomeSuccess:
		return nil
	case chapterize.OutcomePartial:
		return &exitError{code: exitPartial, err: fmt.Errorf(
			"%d of %d chapters failed", len(report.Failed()), len(report.Chapters))}
	case chapterize.OutcomeNoBoundaries:
		return &exitError{code: exitNoBoundaries, err: errors.New("no chapter boundaries found")}
	default:
		return &exitError{code: exitAllFailed, err: errors.New("every chapter failed")}
	}
}
