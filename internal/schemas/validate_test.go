package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDocumentFile(t *testing.T) {
	tests := []struct {
		name      string
		jsonFile  string
		wantError bool
		wantField string
	}{
		{
			name:     "valid document",
			jsonFile: "valid_document.json",
		},
		{
			name:      "unknown property",
			jsonFile:  "unknown_field.json",
			wantError: true,
			wantField: "(root)",
		},
		{
			name:      "wrong type",
			jsonFile:  "wrong_type.json",
			wantError: true,
			wantField: "skills",
		},
		{
			name:      "photo is not a data URI",
			jsonFile:  "bad_photo.json",
			wantError: true,
			wantField: "photo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocumentFile(filepath.Join("testdata", tt.jsonFile))
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			validationErr, ok := err.(*ValidationError)
			require.True(t, ok, "expected ValidationError, got %T: %v", err, err)
			require.NotEmpty(t, validationErr.Errors)

			var fields []string
			for _, fe := range validationErr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestValidateDocument_NestedFieldPath(t *testing.T) {
	err := ValidateDocument([]byte(`{"education": [{"school": "MIT", "year": 2020}]}`))
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	require.Len(t, validationErr.Errors, 1)
	assert.Equal(t, "education.0.year", validationErr.Errors[0].Field)
}

func TestValidateDocument_EmptyAndNullCollections(t *testing.T) {
	assert.NoError(t, ValidateDocument([]byte(`{}`)))
	assert.NoError(t, ValidateDocument([]byte(`{"skills": null, "education": []}`)))
	assert.NoError(t, ValidateDocument([]byte(`{"photo": ""}`)))
	assert.NoError(t, ValidateDocument([]byte(`{"photo": "data:image/png;base64,iVBORw0KGgo="}`)))
}

func TestValidateDocument_Malformed(t *testing.T) {
	err := ValidateDocument([]byte("{ invalid json }"))
	require.Error(t, err)
}

func TestValidateDocumentFile_Missing(t *testing.T) {
	err := ValidateDocumentFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateJSON_Files(t *testing.T) {
	schemaPath := filepath.Join("testdata", "simple_schema.json")

	assert.NoError(t, ValidateJSON(schemaPath, filepath.Join("testdata", "simple_valid.json")))

	err := ValidateJSON(schemaPath, filepath.Join("testdata", "simple_invalid.json"))
	require.Error(t, err)
	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
}

func TestValidateJSON_FileNotFound(t *testing.T) {
	err := ValidateJSON("nonexistent.json", filepath.Join("testdata", "simple_valid.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema file not found")

	err = ValidateJSON(filepath.Join("testdata", "simple_schema.json"), "nonexistent.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON file not found")
}

func TestValidateJSON_InvalidSchema(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "broken.schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{"type": 12}`), 0o644))

	err := ValidateJSON(schemaPath, filepath.Join("testdata", "simple_valid.json"))
	require.Error(t, err)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
	assert.Equal(t, schemaPath, loadErr.Path)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "fullName", Message: "Invalid type. Expected: string, given: integer"},
			{Field: "skills", Message: "Invalid type. Expected: array, given: string"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "1. fullName")
	assert.Contains(t, errorMsg, "2. skills")
}

func TestSchemaLoadError_Unwrap(t *testing.T) {
	cause := os.ErrNotExist
	err := &SchemaLoadError{Path: "x.json", Message: "missing", Cause: cause}
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "x.json")
}
