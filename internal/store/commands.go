package store

import (
	"strings"

	"github.com/jonathan/cv-studio/internal/types"
)

// Command is a single editing action. Apply turns the current document and a
// command into the next document.
type Command interface {
	apply(doc types.CvDocument) (types.CvDocument, int, bool)
}

// SetScalar replaces one top-level text field.
type SetScalar struct {
	Field types.ScalarField
	Value string
}

// AddSkill appends a skill. Values are trimmed and blank values are ignored.
type AddSkill struct {
	Value string
}

// UpdateSkill replaces the skill at Index.
type UpdateSkill struct {
	Index int
	Value string
}

// RemoveSkill removes the skill at Index.
type RemoveSkill struct {
	Index int
}

// AddEducation appends an empty education record.
type AddEducation struct{}

// UpdateEducation replaces one field of the education record at Index.
type UpdateEducation struct {
	Index int
	Field types.EducationField
	Value string
}

// RemoveEducation removes the education record at Index.
type RemoveEducation struct {
	Index int
}

// AddExperience appends an empty experience record.
type AddExperience struct{}

// UpdateExperience replaces one field of the experience record at Index.
type UpdateExperience struct {
	Index int
	Field types.ExperienceField
	Value string
}

// RemoveExperience removes the experience record at Index.
type RemoveExperience struct {
	Index int
}

// AddReference appends an empty reference record.
type AddReference struct{}

// UpdateReference replaces one field of the reference record at Index.
type UpdateReference struct {
	Index int
	Field types.ReferenceField
	Value string
}

// RemoveReference removes the reference record at Index.
type RemoveReference struct {
	Index int
}

// Replace swaps the whole document, used when importing a saved file.
type Replace struct {
	Doc types.CvDocument
}

// Apply computes the next document for cmd. It returns the affected index
// (-1 when none) and whether the document changed. doc is never modified.
func Apply(doc types.CvDocument, cmd Command) (types.CvDocument, int, bool) {
	if cmd == nil {
		return doc, -1, false
	}
	return cmd.apply(doc)
}

func (c SetScalar) apply(doc types.CvDocument) (types.CvDocument, int, bool) {
	if doc.Scalar(c.Field) == c.Value {
		return doc, -1, false
	}
	return doc.WithScalar(c.Field, c.Value), -1, true
}

func (c AddSkill) apply(doc types.CvDocument) (types.CvDocument, int, bool) {
	v := strings.TrimSpace(c.Value)
	if v == "" {
		return doc, -1, false
	}
	var i int
	doc.Skills, i = appendItem(doc.Skills, v)
	return doc, i, true
}

func (c UpdateSkill) apply(doc types.CvDocument) (types.CvDocument, int, bool) {
	skills, ok := updateItem(doc.Skills, c.Index, func(string) string { return c.Value })
	if !ok {
		return doc, -1, false
	}
	doc.Skills = skills
	return doc, c.Index, true
}

func (c RemoveSkill) apply(doc types.CvDocument) (types.CvDocument, int, bool) {
	skills, ok := removeItem(doc.Skills, c.Index)
	if !ok {
		return doc, -1, false
	}
	doc.Skills = skills
	return doc, c.Index, true
}

func (AddEducation) apply(doc types.CvDocument) (types.CvDocument, int, bool) {
	var i int
	doc.Education, i = appendItem(doc.Education, types.Education{})
	return doc, i, true
}

func (c UpdateEducation) apply(doc types.CvDocument) (types.CvDocument, int, bool) {
	records, ok := updateItem(doc.Education, c.Index, func(e types.Education) types.Education {
		return e.With(c.Field, c.Value)
	})
	if !ok {
		return doc, -1, false
	}
	doc.Education = records
	return doc, c.Index, true
}

func (c RemoveEducation) apply(doc types.CvDocument) (types.CvDocument, int, bool) {
	records, ok := removeItem(doc.Education, c.Index)
	if !ok {
		return doc, -1, false
	}
	doc.Education = records
	return doc, c.Index, true
}

func (AddExperience) apply(doc types.CvDocument) (types.CvDocument, int, bool) {
	var i int
	doc.Experience, i = appendItem(doc.Experience, types.Experience{})
	return doc, i, true
}

func (c UpdateExperience) apply(doc types.CvDocument) (types.CvDocument, int, bool) {
	records, ok := updateItem(doc.Experience, c.Index, func(e types.Experience) types.Experience {
		return e.With(c.Field, c.Value)
	})
	if !ok {
		return doc, -1, false
	}
	doc.Experience = records
	return doc, c.Index, true
}

func (c RemoveExperience) apply(doc types.CvDocument) (types.CvDocument, int, bool) {
	records, ok := removeItem(doc.Experience, c.Index)
	if !ok {
		return doc, -1, false
	}
	doc.Experience = records
	return doc, c.Index, true
}

func (AddReference) apply(doc types.CvDocument) (types.CvDocument, int, bool) {
	var i int
	doc.References, i = appendItem(doc.References, types.Reference{})
	return doc, i, true
}

func (c UpdateReference) apply(doc types.CvDocument) (types.CvDocument, int, bool) {
	records, ok := updateItem(doc.References, c.Index, func(r types.Reference) types.Reference {
		return r.With(c.Field, c.Value)
	})
	if !ok {
		return doc, -1, false
	}
	doc.References = records
	return doc, c.Index, true
}

func (c RemoveReference) apply(doc types.CvDocument) (types.CvDocument, int, bool) {
	records, ok := removeItem(doc.References, c.Index)
	if !ok {
		return doc, -1, false
	}
	doc.References = records
	return doc, c.Index, true
}

func (c Replace) apply(types.CvDocument) (types.CvDocument, int, bool) {
	return c.Doc.Clone(), -1, true
}
