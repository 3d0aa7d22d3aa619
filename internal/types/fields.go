package types

import "fmt"

// ScalarField names a free-text top-level field of a CvDocument.
type ScalarField string

// Scalar fields settable through the store.
const (
	FieldFullName ScalarField = "fullName"
	FieldJob      ScalarField = "job"
	FieldEmail    ScalarField = "email"
	FieldPhone    ScalarField = "phone"
	FieldProfile  ScalarField = "profile"
	FieldPhoto    ScalarField = "photo"
)

// ParseScalarField converts a field name into a ScalarField.
func ParseScalarField(name string) (ScalarField, error) {
	switch f := ScalarField(name); f {
	case FieldFullName, FieldJob, FieldEmail, FieldPhone, FieldProfile, FieldPhoto:
		return f, nil
	}
	return "", &UnknownFieldError{Kind: "scalar", Name: name}
}

// EducationField names a field of an Education record.
type EducationField string

// Education record fields.
const (
	EducationSchool EducationField = "school"
	EducationDegree EducationField = "degree"
	EducationYear   EducationField = "year"
)

// EducationFields lists the fields in form order.
var EducationFields = []EducationField{EducationSchool, EducationDegree, EducationYear}

// ParseEducationField converts a field name into an EducationField.
func ParseEducationField(name string) (EducationField, error) {
	switch f := EducationField(name); f {
	case EducationSchool, EducationDegree, EducationYear:
		return f, nil
	}
	return "", &UnknownFieldError{Kind: "education", Name: name}
}

// ExperienceField names a field of an Experience record.
type ExperienceField string

// Experience record fields.
const (
	ExperienceCompany     ExperienceField = "company"
	ExperiencePosition    ExperienceField = "position"
	ExperienceYear        ExperienceField = "year"
	ExperienceDescription ExperienceField = "description"
)

// ExperienceFields lists the fields in form order.
var ExperienceFields = []ExperienceField{ExperienceCompany, ExperiencePosition, ExperienceYear, ExperienceDescription}

// ParseExperienceField converts a field name into an ExperienceField.
func ParseExperienceField(name string) (ExperienceField, error) {
	switch f := ExperienceField(name); f {
	case ExperienceCompany, ExperiencePosition, ExperienceYear, ExperienceDescription:
		return f, nil
	}
	return "", &UnknownFieldError{Kind: "experience", Name: name}
}

// ReferenceField names a field of a Reference record.
type ReferenceField string

// Reference record fields.
const (
	ReferenceName     ReferenceField = "name"
	ReferencePosition ReferenceField = "position"
	ReferenceContact  ReferenceField = "contact"
)

// ReferenceFields lists the fields in form order.
var ReferenceFields = []ReferenceField{ReferenceName, ReferencePosition, ReferenceContact}

// ParseReferenceField converts a field name into a ReferenceField.
func ParseReferenceField(name string) (ReferenceField, error) {
	switch f := ReferenceField(name); f {
	case ReferenceName, ReferencePosition, ReferenceContact:
		return f, nil
	}
	return "", &UnknownFieldError{Kind: "reference", Name: name}
}

// UnknownFieldError is returned when a field name is outside the closed set for its kind.
type UnknownFieldError struct {
	Kind string
	Name string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown %s field: %q", e.Kind, e.Name)
}

// With returns a copy of the record with the named field replaced.
func (e Education) With(field EducationField, value string) Education {
	switch field {
	case EducationSchool:
		e.School = value
	case EducationDegree:
		e.Degree = value
	case EducationYear:
		e.Year = value
	}
	return e
}

// Get returns the value of the named field.
func (e Education) Get(field EducationField) string {
	switch field {
	case EducationSchool:
		return e.School
	case EducationDegree:
		return e.Degree
	case EducationYear:
		return e.Year
	}
	return ""
}

// With returns a copy of the record with the named field replaced.
func (e Experience) With(field ExperienceField, value string) Experience {
	switch field {
	case ExperienceCompany:
		e.Company = value
	case ExperiencePosition:
		e.Position = value
	case ExperienceYear:
		e.Year = value
	case ExperienceDescription:
		e.Description = value
	}
	return e
}

// Get returns the value of the named field.
func (e Experience) Get(field ExperienceField) string {
	switch field {
	case ExperienceCompany:
		return e.Company
	case ExperiencePosition:
		return e.Position
	case ExperienceYear:
		return e.Year
	case ExperienceDescription:
		return e.Description
	}
	return ""
}

// With returns a copy of the record with the named field replaced.
func (r Reference) With(field ReferenceField, value string) Reference {
	switch field {
	case ReferenceName:
		r.Name = value
	case ReferencePosition:
		r.Position = value
	case ReferenceContact:
		r.Contact = value
	}
	return r
}

// Get returns the value of the named field.
func (r Reference) Get(field ReferenceField) string {
	switch field {
	case ReferenceName:
		return r.Name
	case ReferencePosition:
		return r.Position
	case ReferenceContact:
		return r.Contact
	}
	return ""
}

// Scalar returns the value of a top-level scalar field.
func (d CvDocument) Scalar(field ScalarField) string {
	switch field {
	case FieldFullName:
		return d.FullName
	case FieldJob:
		return d.Job
	case FieldEmail:
		return d.Email
	case FieldPhone:
		return d.Phone
	case FieldProfile:
		return d.Profile
	case FieldPhoto:
		return d.Photo
	}
	return ""
}

// WithScalar returns a copy of the document with a scalar field replaced.
// Collections are shared with the receiver; callers that need isolation clone first.
func (d CvDocument) WithScalar(field ScalarField, value string) CvDocument {
	switch field {
	case FieldFullName:
		d.FullName = value
	case FieldJob:
		d.Job = value
	case FieldEmail:
		d.Email = value
	case FieldPhone:
		d.Phone = value
	case FieldProfile:
		d.Profile = value
	case FieldPhoto:
		d.Photo = value
	}
	return d
}
