// Package types provides type definitions for structured data used throughout the cv-studio system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"slices"

	"github.com/go-playground/validator/v10"
)

// CvDocument is the full set of user-entered CV fields and collections.
// Records in each collection are addressed by their position.
type CvDocument struct {
	FullName   string       `json:"fullName" yaml:"fullName"`
	Job        string       `json:"job" yaml:"job"`
	Email      string       `json:"email" yaml:"email"`
	Phone      string       `json:"phone" yaml:"phone"`
	Profile    string       `json:"profile" yaml:"profile"`
	Skills     []string     `json:"skills" yaml:"skills"`
	Education  []Education  `json:"education" yaml:"education" validate:"dive"`
	Experience []Experience `json:"experience" yaml:"experience" validate:"dive"`
	References []Reference  `json:"references" yaml:"references" validate:"dive"`
	Photo      string       `json:"photo,omitempty" yaml:"photo,omitempty" validate:"omitempty,datauri,startswith=data:image/"`
}

// Education is a single school entry.
type Education struct {
	School string `json:"school" yaml:"school"`
	Degree string `json:"degree" yaml:"degree"`
	Year   string `json:"year" yaml:"year"`
}

// Experience is a single work history entry.
type Experience struct {
	Company     string `json:"company" yaml:"company"`
	Position    string `json:"position" yaml:"position"`
	Year        string `json:"year" yaml:"year"`
	Description string `json:"description" yaml:"description"`
}

// Reference is a single professional reference.
type Reference struct {
	Name     string `json:"name" yaml:"name"`
	Position string `json:"position" yaml:"position"`
	Contact  string `json:"contact" yaml:"contact"`
}

// NewCvDocument returns an empty document with non-nil collections so that
// JSON output always carries arrays rather than nulls.
func NewCvDocument() CvDocument {
	return CvDocument{
		Skills:     []string{},
		Education:  []Education{},
		Experience: []Experience{},
		References: []Reference{},
	}
}

// Clone returns a deep copy of the document. Collections in the copy never
// alias the receiver's backing arrays.
func (d CvDocument) Clone() CvDocument {
	out := d
	out.Skills = cloneOrEmpty(d.Skills)
	out.Education = cloneOrEmpty(d.Education)
	out.Experience = cloneOrEmpty(d.Experience)
	out.References = cloneOrEmpty(d.References)
	return out
}

// HasPhoto reports whether a photo payload is set.
func (d CvDocument) HasPhoto() bool {
	return d.Photo != ""
}

// PhotoRule is the validator rule a photo value must satisfy: empty, or an
// image data URI. It matches the Photo struct tag.
const PhotoRule = "omitempty,datauri,startswith=data:image/"

var validate = validator.New()

// Validate checks the structural constraints of an imported document.
// Text fields are free-form; only the photo payload has a required shape.
func (d *CvDocument) Validate() error {
	return validate.Struct(d)
}

// ValidatePhoto checks a single photo value against PhotoRule.
func ValidatePhoto(value string) error {
	return validate.Var(value, PhotoRule)
}

func cloneOrEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return slices.Clone(s)
}
