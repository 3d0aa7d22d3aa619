package main

import (
	"fmt"

	"github.com/jonathan/cv-studio/internal/documents"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Convert a CV file between JSON and YAML",
	Long:  "Loads and validates a CV document, then writes it in the format given by the output extension (.json, .yaml or .yml).",
	Args:  cobra.ExactArgs(2),
	RunE:  runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	doc, err := documents.Load(args[0])
	if err != nil {
		return err
	}
	if err := documents.Save(args[1], doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Converted %s to %s\n", args[0], args[1])
	return nil
}
