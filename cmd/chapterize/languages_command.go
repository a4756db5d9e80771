package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chapterize/internal/language"
	"chapterize/internal/models"
)

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "languages",
		Short:       "List supported transcription languages",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0)
			for _, entry := range language.Supported() {
				code, name := entry[0], entry[1]
				markers := "-"
				if features, ok := language.FeaturesFor(code); ok && len(features.Markers) > 0 {
					markers = "yes"
				}
				sizes := modelSizes(code)
				rows = append(rows, []string{name, code, sizes, markers})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Language", "Code", "Models", "Chapter markers"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func modelSizes(code string) string {
	var sizes string
	if _, err := models.Resolve(code, "small"); err == nil {
		sizes = "small"
	}
	if _, err := models.Resolve(code, "large"); err == nil {
		if sizes != "" {
			sizes += ", "
		}
		sizes += "large"
	}
	if sizes == "" {
		return "-"
	}
	return sizes
}
