package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"chapterize/internal/chapterize"
	"chapterize/internal/cuesheet"
	"chapterize/internal/fileutil"
)

func newCueCommand(ctx *commandContext) *cobra.Command {
	var (
		transcriptFlag string
		languageFlag   string
		outputFlag     string
		force          bool
	)

	cmd := &cobra.Command{
		Use:   "cue <audiobook>",
		Short: "Detect chapters and write an editable cue sheet without splitting",
		Long: "Runs detection only and writes the boundaries to a cue sheet next " +
			"to the audiobook. Edit the sheet, then `chapterize run` picks it up " +
			"instead of detecting again.",
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

			audio := fileutil.ExpandPath(args[0])
			cuePath := fileutil.ExpandPath(outputFlag)
			if cuePath == "" {
				cuePath = cuesheet.DefaultPath(audio)
			}
			if !force {
				if _, err := os.Stat(cuePath); err == nil {
					return fmt.Errorf("cue sheet already exists at %s (use --force to replace it)", cuePath)
				}
			}

			pipeline := chapterize.NewPipeline(cfg, logger)
			boundaries, err := pipeline.Preview(cmd.Context(), chapterize.RunOptions{
				Audio:      audio,
				Transcript: fileutil.ExpandPath(transcriptFlag),
				Language:   languageFlag,
				IgnoreCue:  true,
			})
			if err != nil {
				return err
			}

			// The old sheet survives until detection has something to
			// replace it with.
			if force {
				if err := os.Remove(cuePath); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("replace cue sheet: %w", err)
				}
			}
			if err := cuesheet.WriteFile(cuePath, filepath.Base(audio), boundaries); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderBoundaries(boundaries))
			fmt.Fprintf(out, "\nWrote cue sheet to %s\n", cuePath)
			fmt.Fprintln(out, "Edit it as needed, then run `chapterize run` to split.")
			return nil
		},
	}

	cmd.Flags().StringVar(&transcriptFlag, "transcript", "", "Use an existing SRT transcript instead of transcribing")
	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Spoken language of the audiobook")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the cue sheet here instead of next to the audiobook")
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing cue sheet")

	return cmd
}
