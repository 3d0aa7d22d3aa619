package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/cv-studio/internal/documents"
	"github.com/jonathan/cv-studio/internal/export"
	"github.com/jonathan/cv-studio/internal/i18n"
	"github.com/jonathan/cv-studio/internal/photo"
	"github.com/jonathan/cv-studio/internal/schemas"
	"github.com/jonathan/cv-studio/internal/themes"
	"github.com/jonathan/cv-studio/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &ErrValidation{Field: "op", Message: "required"}, http.StatusBadRequest},
		{"unknown field", &types.UnknownFieldError{Kind: "scalar", Name: "age"}, http.StatusBadRequest},
		{"unknown theme", fmt.Errorf("%w: %q", themes.ErrUnknownTheme, "neon"), http.StatusBadRequest},
		{"unknown language", fmt.Errorf("%w: %q", i18n.ErrUnknownLanguage, "de"), http.StatusBadRequest},
		{"empty photo", photo.ErrEmpty, http.StatusBadRequest},
		{"malformed document", fmt.Errorf("%w: invalid json", documents.ErrMalformed), http.StatusBadRequest},
		{"document constraint", fmt.Errorf("%w: photo", documents.ErrConstraint), http.StatusUnprocessableEntity},
		{"schema", fmt.Errorf("decode: %w", &schemas.ValidationError{}), http.StatusUnprocessableEntity},
		{"photo too large", &photo.DecodeError{Message: "read", Cause: photo.ErrTooLarge}, http.StatusRequestEntityTooLarge},
		{"not an image", photo.ErrNotImage, http.StatusUnsupportedMediaType},
		{"export busy", export.ErrExportInProgress, http.StatusConflict},
		{"export timeout", &export.CaptureError{Attempt: 1, Cause: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{"capture failure", &export.CaptureError{Attempt: 2, Cause: errors.New("target closed")}, http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
