package server

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/cv-studio/internal/store"
	"github.com/jonathan/cv-studio/internal/types"
)

// Command ops accepted by POST /api/commands.
const (
	OpSet    = "set"
	OpAdd    = "add"
	OpUpdate = "update"
	OpRemove = "remove"
)

// CommandRequest is a single editing command in JSON form.
type CommandRequest struct {
	Op     string `json:"op" validate:"required,oneof=set add update remove"`
	Target string `json:"target" validate:"required,oneof=field skills education experience references"`
	Index  *int   `json:"index,omitempty" validate:"omitempty,min=0"`
	Field  string `json:"field,omitempty"`
	Value  string `json:"value"`
}

var validate = validator.New()

// collection binds a record list of CvDocument to its store commands.
type collection struct {
	name   string
	fields []string
	add    func(value string) store.Command
	update func(index int, field, value string) (store.Command, error)
	remove func(index int) store.Command
}

var collections = map[string]collection{
	"skills": {
		name:   "skills",
		fields: []string{"value"},
		add:    func(v string) store.Command { return store.AddSkill{Value: v} },
		update: func(i int, _ string, v string) (store.Command, error) {
			return store.UpdateSkill{Index: i, Value: v}, nil
		},
		remove: func(i int) store.Command { return store.RemoveSkill{Index: i} },
	},
	"education": {
		name:   "education",
		fields: fieldNames(types.EducationFields),
		add:    func(string) store.Command { return store.AddEducation{} },
		update: func(i int, f, v string) (store.Command, error) {
			field, err := types.ParseEducationField(f)
			if err != nil {
				return nil, err
			}
			return store.UpdateEducation{Index: i, Field: field, Value: v}, nil
		},
		remove: func(i int) store.Command { return store.RemoveEducation{Index: i} },
	},
	"experience": {
		name:   "experience",
		fields: fieldNames(types.ExperienceFields),
		add:    func(string) store.Command { return store.AddExperience{} },
		update: func(i int, f, v string) (store.Command, error) {
			field, err := types.ParseExperienceField(f)
			if err != nil {
				return nil, err
			}
			return store.UpdateExperience{Index: i, Field: field, Value: v}, nil
		},
		remove: func(i int) store.Command { return store.RemoveExperience{Index: i} },
	},
	"references": {
		name:   "references",
		fields: fieldNames(types.ReferenceFields),
		add:    func(string) store.Command { return store.AddReference{} },
		update: func(i int, f, v string) (store.Command, error) {
			field, err := types.ParseReferenceField(f)
			if err != nil {
				return nil, err
			}
			return store.UpdateReference{Index: i, Field: field, Value: v}, nil
		},
		remove: func(i int) store.Command { return store.RemoveReference{Index: i} },
	},
}

func fieldNames[F ~string](fields []F) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}

// Build validates the request and turns it into a store command.
func (c CommandRequest) Build() (store.Command, error) {
	if err := validate.Struct(c); err != nil {
		return nil, validationError(err)
	}

	if c.Target == "field" {
		if c.Op != OpSet {
			return nil, &ErrValidation{Field: "op", Message: fmt.Sprintf("fields only support %q", OpSet)}
		}
		field, err := types.ParseScalarField(c.Field)
		if err != nil {
			return nil, err
		}
		if field == types.FieldPhoto {
			if err := types.ValidatePhoto(c.Value); err != nil {
				return nil, &ErrValidation{Field: "value", Message: "photo must be a base64 image data URI"}
			}
		}
		return store.SetScalar{Field: field, Value: c.Value}, nil
	}

	coll := collections[c.Target]
	switch c.Op {
	case OpAdd:
		return coll.add(c.Value), nil
	case OpUpdate:
		if c.Index == nil {
			return nil, &ErrValidation{Field: "index", Message: "required for update"}
		}
		return coll.update(*c.Index, c.Field, c.Value)
	case OpRemove:
		if c.Index == nil {
			return nil, &ErrValidation{Field: "index", Message: "required for remove"}
		}
		return coll.remove(*c.Index), nil
	default:
		return nil, &ErrValidation{Field: "op", Message: fmt.Sprintf("%q is not supported for %s", c.Op, c.Target)}
	}
}

func validationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return &ErrValidation{Field: "request", Message: err.Error()}
	}
	fe := verrs[0]
	return &ErrValidation{
		Field:   strings.ToLower(fe.Field()),
		Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
	}
}
