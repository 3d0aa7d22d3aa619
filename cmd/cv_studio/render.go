package main

import (
	"fmt"
	"os"

	"github.com/jonathan/cv-studio/internal/config"
	"github.com/jonathan/cv-studio/internal/documents"
	"github.com/jonathan/cv-studio/internal/i18n"
	"github.com/jonathan/cv-studio/internal/observability"
	"github.com/jonathan/cv-studio/internal/preview"
	"github.com/jonathan/cv-studio/internal/themes"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <cv.json|cv.yaml>",
	Short: "Render a CV file to a standalone HTML page",
	Long:  "Projects a CV document through the preview renderer and writes a standalone HTML page sized to one A4 sheet.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

var (
	renderTheme    string
	renderLanguage string
	renderOutput   string
)

func init() {
	renderCmd.Flags().StringVarP(&renderTheme, "theme", "t", "", "Theme key: modern, minimal or professional")
	renderCmd.Flags().StringVarP(&renderLanguage, "language", "l", "", "Label language: tr or en")
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "", "Output HTML file (stdout when empty)")

	rootCmd.AddCommand(renderCmd)
}

// presentation resolves the theme and language flags against the config defaults.
func presentation(cfg config.Config, themeFlag, languageFlag string) (themes.Definition, i18n.Language, error) {
	key := cfg.Theme()
	if themeFlag != "" {
		k, err := themes.ParseKey(themeFlag)
		if err != nil {
			return themes.Definition{}, "", err
		}
		key = k
	}

	lang := cfg.Language()
	if languageFlag != "" {
		l, err := i18n.ParseLanguage(languageFlag)
		if err != nil {
			return themes.Definition{}, "", err
		}
		lang = l
	}
	return themes.Resolve(key), lang, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	def, lang, err := presentation(cfg, renderTheme, renderLanguage)
	if err != nil {
		return err
	}

	doc, err := documents.Load(args[0])
	if err != nil {
		return err
	}
	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintDocument(doc)
	}

	page, err := preview.Page(preview.Render(doc, def, lang), def, lang)
	if err != nil {
		return fmt.Errorf("failed to render preview: %w", err)
	}

	if renderOutput == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), page)
		return err
	}
	if err := os.WriteFile(renderOutput, []byte(page), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s (%s, %s) to %s\n", args[0], def.Key, lang, renderOutput)
	return nil
}
