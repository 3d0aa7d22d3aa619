package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScalarField(t *testing.T) {
	for _, name := range []string{"fullName", "job", "email", "phone", "profile", "photo"} {
		f, err := ParseScalarField(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, string(f))
	}

	_, err := ParseScalarField("age")
	var ufe *UnknownFieldError
	require.ErrorAs(t, err, &ufe)
	assert.Equal(t, "scalar", ufe.Kind)
	assert.Equal(t, `unknown scalar field: "age"`, err.Error())
}

func TestParseRecordFields(t *testing.T) {
	for _, f := range EducationFields {
		got, err := ParseEducationField(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	for _, f := range ExperienceFields {
		got, err := ParseExperienceField(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	for _, f := range ReferenceFields {
		got, err := ParseReferenceField(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := ParseEducationField("company")
	assert.Error(t, err)
	_, err = ParseExperienceField("school")
	assert.Error(t, err)
	_, err = ParseReferenceField("Name")
	assert.Error(t, err)
}

func TestEducation_WithTouchesOnlyNamedField(t *testing.T) {
	e := Education{School: "MIT", Degree: "BSc", Year: "2020"}

	got := e.With(EducationDegree, "MSc")

	assert.Equal(t, Education{School: "MIT", Degree: "MSc", Year: "2020"}, got)
	assert.Equal(t, "BSc", e.Degree)
	assert.Equal(t, "MSc", got.Get(EducationDegree))
}

func TestExperience_WithAndGet(t *testing.T) {
	var e Experience
	for _, f := range ExperienceFields {
		e = e.With(f, string(f)+"-value")
	}
	for _, f := range ExperienceFields {
		assert.Equal(t, string(f)+"-value", e.Get(f))
	}
	assert.Empty(t, e.Get("salary"))
}

func TestReference_WithAndGet(t *testing.T) {
	r := Reference{Name: "Charles Babbage"}.With(ReferenceContact, "charles@example.com")

	assert.Equal(t, "Charles Babbage", r.Get(ReferenceName))
	assert.Equal(t, "charles@example.com", r.Get(ReferenceContact))
	assert.Empty(t, r.Get(ReferencePosition))
}

func TestWithScalar(t *testing.T) {
	doc := NewCvDocument()

	updated := doc.WithScalar(FieldJob, "Analyst")

	assert.Equal(t, "Analyst", updated.Scalar(FieldJob))
	assert.Empty(t, doc.Job)
	assert.Empty(t, updated.Scalar(FieldPhoto))
	assert.Empty(t, updated.Scalar("age"))
}
