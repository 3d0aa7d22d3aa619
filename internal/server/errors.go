// Package server provides the HTTP editor and JSON API of cv-studio.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/cv-studio/internal/documents"
	"github.com/jonathan/cv-studio/internal/export"
	"github.com/jonathan/cv-studio/internal/i18n"
	"github.com/jonathan/cv-studio/internal/photo"
	"github.com/jonathan/cv-studio/internal/schemas"
	"github.com/jonathan/cv-studio/internal/themes"
	"github.com/jonathan/cv-studio/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		fieldErr      *types.UnknownFieldError
		schemaErr     *schemas.ValidationError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &fieldErr),
		errors.Is(err, themes.ErrUnknownTheme), errors.Is(err, i18n.ErrUnknownLanguage),
		errors.Is(err, photo.ErrEmpty), errors.Is(err, documents.ErrMalformed):
		return http.StatusBadRequest
	case errors.As(err, &schemaErr), errors.Is(err, documents.ErrConstraint):
		return http.StatusUnprocessableEntity
	case errors.Is(err, photo.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, photo.ErrNotImage):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, export.ErrExportInProgress):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
