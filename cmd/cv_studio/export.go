package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jonathan/cv-studio/internal/documents"
	"github.com/jonathan/cv-studio/internal/export"
	"github.com/jonathan/cv-studio/internal/observability"
	"github.com/jonathan/cv-studio/internal/preview"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <cv.json|cv.yaml>",
	Short: "Export a CV file as an A4 PNG",
	Long:  "Renders a CV document and captures it with headless Chrome as a 2x A4 PNG image.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var (
	exportTheme      string
	exportLanguage   string
	exportOutput     string
	exportChromePath string
	exportTimeout    time.Duration
)

func init() {
	exportCmd.Flags().StringVarP(&exportTheme, "theme", "t", "", "Theme key: modern, minimal or professional")
	exportCmd.Flags().StringVarP(&exportLanguage, "language", "l", "", "Label language: tr or en")
	exportCmd.Flags().StringVarP(&exportOutput, "out", "o", export.Filename, "Output PNG file")
	exportCmd.Flags().StringVar(&exportChromePath, "chrome", "", "Chrome/Chromium binary")
	exportCmd.Flags().DurationVar(&exportTimeout, "timeout", 0, "Capture timeout (default from config)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	def, lang, err := presentation(cfg, exportTheme, exportLanguage)
	if err != nil {
		return err
	}
	if exportChromePath != "" {
		cfg.ChromePath = exportChromePath
	}
	timeout := cfg.ExportTimeoutDuration()
	if exportTimeout > 0 {
		timeout = exportTimeout
	}

	doc, err := documents.Load(args[0])
	if err != nil {
		return err
	}

	exporter := export.New(newCapturer(cfg.ChromePath, cfg.Verbose), export.Options{Timeout: timeout, Retries: 1})
	res, err := exporter.Export(cmd.Context(), export.Request{
		Node:     preview.Render(doc, def, lang),
		Theme:    def,
		Language: lang,
	})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if err := os.WriteFile(exportOutput, res.PNG, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	if cfg.Verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintExport(res, exportOutput)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s (%dx%d)\n", args[0], exportOutput, res.Width, res.Height)
	}
	return nil
}
