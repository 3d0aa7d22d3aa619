package main

import (
	"errors"
	"fmt"

	"github.com/jonathan/cv-studio/internal/documents"
	"github.com/jonathan/cv-studio/internal/observability"
	"github.com/jonathan/cv-studio/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <cv.json|cv.yaml>",
	Short: "Validate a CV file against the CV document schema",
	Long:  "Checks a CV document against the embedded JSON Schema and the photo constraint. With --schema, validates any JSON file against the given schema instead.",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var validateSchemaPath string

func init() {
	validateCmd.Flags().StringVar(&validateSchemaPath, "schema", "", "Validate against this JSON Schema file instead of the CV schema")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]

	var err error
	if validateSchemaPath != "" {
		err = schemas.ValidateJSON(validateSchemaPath, path)
	} else {
		_, err = documents.Load(path)
	}

	if err != nil {
		var verr *schemas.ValidationError
		if errors.As(err, &verr) {
			observability.NewPrinter(cmd.OutOrStdout()).PrintValidationErrors(path, verr)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Validation passed: %s\n", path)
	return nil
}
