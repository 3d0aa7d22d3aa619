package store

import (
	"math/rand"
	"testing"

	"github.com/jonathan/cv-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_EmptyDocument(t *testing.T) {
	s := Empty()
	doc := s.Snapshot()

	assert.Empty(t, doc.FullName)
	assert.Empty(t, doc.Skills)
	assert.NotNil(t, doc.Education)
	assert.False(t, doc.HasPhoto())
	assert.Equal(t, uint64(0), s.Version())
}

func TestStore_SetScalar(t *testing.T) {
	s := Empty()

	res := s.Dispatch(SetScalar{Field: types.FieldFullName, Value: "Ada Lovelace"})
	assert.True(t, res.Changed)
	assert.Equal(t, -1, res.Index)
	assert.Equal(t, "Ada Lovelace", res.Doc.FullName)
	assert.Equal(t, uint64(1), res.Version)

	// Same value again is not a change.
	res = s.Dispatch(SetScalar{Field: types.FieldFullName, Value: "Ada Lovelace"})
	assert.False(t, res.Changed)
	assert.Equal(t, uint64(1), res.Version)
}

func TestStore_SetScalar_KeepsTextVerbatim(t *testing.T) {
	s := Empty()
	profile := "  line one\nline two\n\n  <b>not html</b>  "

	res := s.Dispatch(SetScalar{Field: types.FieldProfile, Value: profile})
	assert.Equal(t, profile, res.Doc.Profile)
}

func TestStore_AddSkill_TrimsAndIgnoresBlank(t *testing.T) {
	s := Empty()

	res := s.Dispatch(AddSkill{Value: "  Go  "})
	assert.True(t, res.Changed)
	assert.Equal(t, 0, res.Index)

	res = s.Dispatch(AddSkill{Value: "   "})
	assert.False(t, res.Changed)
	assert.Equal(t, -1, res.Index)

	res = s.Dispatch(AddSkill{Value: "Go"})
	assert.Equal(t, 1, res.Index)
	assert.Equal(t, []string{"Go", "Go"}, res.Doc.Skills, "duplicates are allowed")
}

func TestStore_EducationAddRemoveScenario(t *testing.T) {
	s := Empty()

	res := s.Dispatch(AddEducation{})
	require.Equal(t, 0, res.Index)
	s.Dispatch(UpdateEducation{Index: 0, Field: types.EducationSchool, Value: "MIT"})
	s.Dispatch(UpdateEducation{Index: 0, Field: types.EducationDegree, Value: "BSc"})
	res = s.Dispatch(UpdateEducation{Index: 0, Field: types.EducationYear, Value: "2020"})
	require.Equal(t, []types.Education{{School: "MIT", Degree: "BSc", Year: "2020"}}, res.Doc.Education)

	res = s.Dispatch(RemoveEducation{Index: 0})
	assert.True(t, res.Changed)
	assert.Empty(t, res.Doc.Education)
	assert.Empty(t, s.Snapshot().Education)
}

func TestStore_UpdateTouchesOnlyNamedField(t *testing.T) {
	s := Empty()
	s.Dispatch(AddExperience{})
	s.Dispatch(AddExperience{})
	s.Dispatch(UpdateExperience{Index: 0, Field: types.ExperienceCompany, Value: "Acme"})
	s.Dispatch(UpdateExperience{Index: 0, Field: types.ExperienceYear, Value: "2019"})
	s.Dispatch(UpdateExperience{Index: 1, Field: types.ExperienceCompany, Value: "Globex"})

	before := s.Snapshot()
	res := s.Dispatch(UpdateExperience{Index: 0, Field: types.ExperienceDescription, Value: "a\nb"})

	assert.Equal(t, "Acme", res.Doc.Experience[0].Company)
	assert.Equal(t, "2019", res.Doc.Experience[0].Year)
	assert.Equal(t, "a\nb", res.Doc.Experience[0].Description)
	assert.Equal(t, before.Experience[1], res.Doc.Experience[1])
}

func TestStore_RemovePreservesOrder(t *testing.T) {
	s := Empty()
	for _, name := range []string{"A", "B", "C", "D"} {
		r := s.Dispatch(AddReference{})
		s.Dispatch(UpdateReference{Index: r.Index, Field: types.ReferenceName, Value: name})
	}

	res := s.Dispatch(RemoveReference{Index: 1})
	require.Len(t, res.Doc.References, 3)
	assert.Equal(t, "A", res.Doc.References[0].Name)
	assert.Equal(t, "C", res.Doc.References[1].Name)
	assert.Equal(t, "D", res.Doc.References[2].Name)
}

func TestStore_OutOfRangeIndexIsNoOp(t *testing.T) {
	s := Empty()
	s.Dispatch(AddSkill{Value: "Go"})

	tests := []struct {
		name string
		cmd  Command
	}{
		{"update skill", UpdateSkill{Index: 5, Value: "x"}},
		{"remove skill", RemoveSkill{Index: -1}},
		{"update education", UpdateEducation{Index: 0, Field: types.EducationSchool, Value: "x"}},
		{"remove experience", RemoveExperience{Index: 0}},
		{"update reference", UpdateReference{Index: 3, Field: types.ReferenceName, Value: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := s.Snapshot()
			res := s.Dispatch(tt.cmd)
			assert.False(t, res.Changed)
			assert.Equal(t, -1, res.Index)
			assert.Equal(t, before, s.Snapshot())
		})
	}
}

func TestStore_SnapshotsAreIsolated(t *testing.T) {
	s := Empty()
	s.Dispatch(AddSkill{Value: "Go"})

	snap := s.Snapshot()
	snap.Skills[0] = "mutated"

	assert.Equal(t, "Go", s.Snapshot().Skills[0])

	res := s.Dispatch(AddSkill{Value: "Rust"})
	assert.Equal(t, "mutated", snap.Skills[0], "earlier snapshot must not change")
	assert.Len(t, snap.Skills, 1)
	assert.Len(t, res.Doc.Skills, 2)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	doc := types.NewCvDocument()
	doc.Education = []types.Education{{School: "MIT"}, {School: "ETH"}}

	next, _, changed := Apply(doc, UpdateEducation{Index: 1, Field: types.EducationSchool, Value: "EPFL"})
	require.True(t, changed)
	assert.Equal(t, "ETH", doc.Education[1].School)
	assert.Equal(t, "EPFL", next.Education[1].School)

	next, _, _ = Apply(doc, RemoveEducation{Index: 0})
	assert.Equal(t, "MIT", doc.Education[0].School)
	assert.Len(t, next.Education, 1)
}

func TestApply_NilCommand(t *testing.T) {
	doc := types.NewCvDocument()
	next, index, changed := Apply(doc, nil)
	assert.False(t, changed)
	assert.Equal(t, -1, index)
	assert.Equal(t, doc, next)
}

func TestStore_Replace(t *testing.T) {
	s := Empty()
	imported := types.NewCvDocument()
	imported.FullName = "Grace Hopper"
	imported.Skills = []string{"COBOL"}

	res := s.Dispatch(Replace{Doc: imported})
	assert.True(t, res.Changed)
	assert.Equal(t, "Grace Hopper", res.Doc.FullName)

	imported.Skills[0] = "changed"
	assert.Equal(t, "COBOL", s.Snapshot().Skills[0])
}

// TestStore_RandomSequencesKeepLengthAndOrder runs random add/remove sequences
// against a reference slice and checks length and relative order.
func TestStore_RandomSequencesKeepLengthAndOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		s := Empty()
		var model []string
		adds, removes := 0, 0

		for step := 0; step < 40; step++ {
			if len(model) == 0 || rng.Intn(3) > 0 {
				label := string(rune('a' + rng.Intn(26)))
				res := s.Dispatch(AddReference{})
				s.Dispatch(UpdateReference{Index: res.Index, Field: types.ReferenceName, Value: label})
				model = append(model, label)
				adds++
				continue
			}
			i := rng.Intn(len(model))
			s.Dispatch(RemoveReference{Index: i})
			model = append(model[:i], model[i+1:]...)
			removes++
		}

		doc := s.Snapshot()
		require.Len(t, doc.References, adds-removes)
		for i, ref := range doc.References {
			assert.Equal(t, model[i], ref.Name)
		}
	}
}

func TestStore_Subscribe(t *testing.T) {
	s := Empty()
	ch, cancel := s.Subscribe()
	defer cancel()

	s.Dispatch(AddSkill{Value: "Go"})
	s.Dispatch(AddSkill{Value: "Rust"})

	// Only the latest pending version is kept.
	v := <-ch
	assert.Equal(t, uint64(2), v)

	select {
	case extra := <-ch:
		t.Fatalf("unexpected pending version %d", extra)
	default:
	}
}

func TestStore_SubscribeCancelClosesChannel(t *testing.T) {
	s := Empty()
	ch, cancel := s.Subscribe()
	cancel()
	cancel() // idempotent

	_, ok := <-ch
	assert.False(t, ok)

	// Dispatch after cancel must not panic on a closed channel.
	s.Dispatch(AddSkill{Value: "Go"})
}

func TestStore_NoOpDoesNotNotify(t *testing.T) {
	s := Empty()
	ch, cancel := s.Subscribe()
	defer cancel()

	s.Dispatch(RemoveSkill{Index: 0})

	select {
	case v := <-ch:
		t.Fatalf("unexpected notification %d", v)
	default:
	}
}
