// Package documents reads and writes CV documents as JSON or YAML files.
package documents

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/cv-studio/internal/schemas"
	"github.com/jonathan/cv-studio/internal/types"
	"gopkg.in/yaml.v3"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	// ErrMalformed is returned when the input is not parseable JSON or YAML.
	ErrMalformed = errors.New("malformed document")
	// ErrConstraint is returned when a schema-valid document breaks a field
	// constraint, such as a photo that is not a base64 data URI.
	ErrConstraint = errors.New("document constraint violated")
)

// LoadError reports a document that could not be read or did not validate.
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("load %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// FormatFor picks the encoding from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported document extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Load reads, validates and decodes the document at path.
func Load(path string) (types.CvDocument, error) {
	format, err := FormatFor(path)
	if err != nil {
		return types.CvDocument{}, &LoadError{Path: path, Message: "unknown format", Cause: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return types.CvDocument{}, &LoadError{Path: path, Message: "read failed", Cause: err}
	}

	doc, err := Decode(data, format)
	if err != nil {
		return types.CvDocument{}, &LoadError{Path: path, Message: "invalid document", Cause: err}
	}
	return doc, nil
}

// Decode validates data against the CV document schema and decodes it.
// Missing collections decode as empty.
func Decode(data []byte, format Format) (types.CvDocument, error) {
	jsonData, err := toJSON(data, format)
	if err != nil {
		return types.CvDocument{}, err
	}

	if err := schemas.ValidateDocument(jsonData); err != nil {
		return types.CvDocument{}, err
	}

	var doc types.CvDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return types.CvDocument{}, fmt.Errorf("decode document: %w", err)
	}
	doc = doc.Clone()

	if err := doc.Validate(); err != nil {
		return types.CvDocument{}, fmt.Errorf("%w: %v", ErrConstraint, err)
	}
	return doc, nil
}

// Encode renders doc in the given format.
func Encode(doc types.CvDocument, format Format) ([]byte, error) {
	doc = doc.Clone()
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// Save writes doc to path, choosing the encoding from the extension.
func Save(path string, doc types.CvDocument) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := Encode(doc, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// toJSON normalizes YAML input to JSON so both formats share one schema.
func toJSON(data []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		if !json.Valid(data) {
			return nil, fmt.Errorf("%w: invalid json", ErrMalformed)
		}
		return data, nil
	case FormatYAML:
		var v interface{}
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("%w: parse yaml: %v", ErrMalformed, err)
		}
		if v == nil {
			v = map[string]interface{}{}
		}
		out, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("convert yaml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
