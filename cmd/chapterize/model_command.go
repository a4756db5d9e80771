package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/spf13/cobra"

	"chapterize/internal/language"
	"chapterize/internal/models"
)

func newModelCommand(ctx *commandContext) *cobra.Command {
	modelCmd := &cobra.Command{
		Use:   "model",
		Short: "Manage local transcription models",
	}

	modelCmd.AddCommand(newModelDownloadCommand(ctx))
	modelCmd.AddCommand(newModelListCommand(ctx))

	return modelCmd
}

func newModelDownloadCommand(ctx *commandContext) *cobra.Command {
	var sizeFlag string

	cmd := &cobra.Command{
		Use:   "download [language]",
		Short: "Download a transcription model",
		Long: "Fetches the model archive for a language and unpacks it into the " +
			"model directory. Without an argument the configured default language " +
			"is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			langValue := cfg.Transcription.Language
			if len(args) == 1 {
				langValue = args[0]
			}
			code, ok := language.Resolve(langValue)
			if !ok {
				return fmt.Errorf("unknown language %q; run 'chapterize languages'", langValue)
			}

			size := strings.ToLower(strings.TrimSpace(sizeFlag))
			if size == "" {
				size = cfg.Transcription.ModelSize
			}

			name, err := models.Resolve(code, size)
			if err != nil {
				return err
			}
			if models.Downloaded(cfg.Paths.ModelDir, name) {
				fmt.Fprintf(cmd.OutOrStdout(), "Model %s is already downloaded\n", name)
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Downloading %s\n", models.ArchiveURL(name))

			pw := progress.NewWriter()
			pw.SetOutputWriter(out)
			pw.SetUpdateFrequency(250 * time.Millisecond)
			pw.SetTrackerLength(40)
			pw.Style().Visibility.ETA = writerIsTerminal(out)
			go pw.Render()

			tracker := &progress.Tracker{
				Message: name,
				Units:   progress.UnitsBytes,
			}
			pw.AppendTracker(tracker)

			err = models.Download(cmd.Context(), http.DefaultClient, name, cfg.Paths.ModelDir, tracker)
			pw.Stop()
			for pw.IsRenderInProgress() {
				time.Sleep(10 * time.Millisecond)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Unpacked %s into %s\n", name, cfg.Paths.ModelDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&sizeFlag, "size", "", "Model size, small or large (default: from config)")
	return cmd
}

func newModelListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List downloaded models",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			entries, err := os.ReadDir(cfg.Paths.ModelDir)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Fprintln(cmd.OutOrStdout(), "No models downloaded yet")
					return nil
				}
				return fmt.Errorf("read model directory: %w", err)
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				if !entry.IsDir() {
					continue
				}
				rows = append(rows, []string{entry.Name()})
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No models downloaded yet")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Model"},
				rows,
				[]columnAlignment{alignLeft},
			))
			return nil
		},
	}
}
