package main

import (
	"encoding/json"

	"github.com/jonathan/cv-studio/internal/i18n"
	"github.com/jonathan/cv-studio/internal/observability"
	"github.com/jonathan/cv-studio/internal/themes"
	"github.com/spf13/cobra"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the built-in themes",
	Args:  cobra.NoArgs,
	RunE:  runThemes,
}

var (
	themesLanguage string
	themesJSON     bool
)

func init() {
	themesCmd.Flags().StringVarP(&themesLanguage, "language", "l", string(i18n.Default), "Language of the theme names: tr or en")
	themesCmd.Flags().BoolVar(&themesJSON, "json", false, "Print the theme definitions as JSON")
	rootCmd.AddCommand(themesCmd)
}

func runThemes(cmd *cobra.Command, _ []string) error {
	lang, err := i18n.ParseLanguage(themesLanguage)
	if err != nil {
		return err
	}

	if themesJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(themes.All())
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintThemes(themes.All(), lang)
	return nil
}
