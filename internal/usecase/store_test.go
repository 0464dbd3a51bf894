package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"resume-builder/internal/adapter/repository"
	"resume-builder/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// failingKV wraps a MemoryKV and fails writes on demand.
type failingKV struct {
	*repository.MemoryKV
	failSet bool
	failGet bool
}

func newFailingKV() *failingKV { return &failingKV{MemoryKV: repository.NewMemoryKV()} }

func (f *failingKV) Get(ctx context.Context, key string) (string, error) {
	if f.failGet {
		return "", errors.New("storage offline")
	}
	return f.MemoryKV.Get(ctx, key)
}

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errors.New("quota exceeded")
	}
	return f.MemoryKV.Set(ctx, key, value)
}

func storedDoc(t *testing.T, kv repository.KV) model.Resume {
	t.Helper()
	raw, err := kv.Get(context.Background(), repository.KeyResumeData)
	require.NoError(t, err)
	var d model.Resume
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	return d
}

func TestNewDocumentStoreDefaults(t *testing.T) {
	s := NewDocumentStore(context.Background(), repository.NewMemoryKV(), zap.NewNop())
	assert.Equal(t, model.DefaultResume(), s.Document())
}

func TestNewDocumentStoreFallsBackOnBadData(t *testing.T) {
	ctx := context.Background()
	for name, raw := range map[string]string{
		"malformed": "{not json",
		"schema":    `{"skills":"Go"}`,
	} {
		t.Run(name, func(t *testing.T) {
			kv := repository.NewMemoryKV()
			require.NoError(t, kv.Set(ctx, repository.KeyResumeData, raw))
			assert.Equal(t, model.DefaultResume(), NewDocumentStore(ctx, kv, zap.NewNop()).Document())
		})
	}

	kv := newFailingKV()
	kv.failGet = true
	assert.Equal(t, model.DefaultResume(), NewDocumentStore(ctx, kv, zap.NewNop()).Document())
}

func TestNewDocumentStoreUpgradesLegacyData(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, repository.KeyResumeData, `{"title":"Old","personal":{"name":"Jane"},"skills":["Go"]}`))

	d := NewDocumentStore(ctx, kv, zap.NewNop()).Document()
	assert.Equal(t, "Old", d.Title)
	assert.Equal(t, "Jane", d.Personal.Name)
	assert.Equal(t, model.DefaultTheme(), d.Theme)
	assert.NotNil(t, d.Experience)
	assert.Empty(t, d.Experience)
}

func TestMutationsPersistAndRestore(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKV()
	s := NewDocumentStore(ctx, kv, zap.NewNop())

	require.NoError(t, s.UpdateTitle(ctx, "Backend Resume"))
	require.NoError(t, s.UpdateSummary(ctx, "Builds things."))
	require.NoError(t, s.UpdatePersonalField(ctx, model.FieldEmail, "jane@example.com"))
	require.NoError(t, s.UpdateThemeField(ctx, model.FieldPrimaryColor, "#059669"))
	require.NoError(t, s.SetSkills(ctx, []string{"Go", "SQL"}))
	require.NoError(t, s.UpdateExperienceField(ctx, 0, model.FieldCompany, "Acme"))
	require.NoError(t, s.SetExperiencePoints(ctx, 0, []string{"Shipped"}))
	require.NoError(t, s.UpdateEducationField(ctx, 0, model.FieldSchool, "State U"))

	assert.Equal(t, s.Document(), storedDoc(t, kv))

	restored := NewDocumentStore(ctx, kv, zap.NewNop()).Document()
	assert.Equal(t, "Backend Resume", restored.Title)
	assert.Equal(t, "jane@example.com", restored.Personal.Email)
	assert.Equal(t, "#059669", restored.Theme.PrimaryColor)
	assert.Equal(t, []string{"Go", "SQL"}, restored.Skills)
	assert.Equal(t, "Acme", restored.Experience[0].Company)
	assert.Equal(t, []string{"Shipped"}, restored.Experience[0].Points)
	assert.Equal(t, "State U", restored.Education[0].School)
}

func TestAddEntriesUseUniqueIDs(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentStore(ctx, repository.NewMemoryKV(), zap.NewNop())

	a, err := s.AddExperience(ctx)
	require.NoError(t, err)
	b, err := s.AddExperience(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, model.NewExperienceEntry(a.ID), a)

	d := s.Document()
	require.Len(t, d.Experience, 3)
	assert.Equal(t, a.ID, d.Experience[1].ID)
	assert.Equal(t, b.ID, d.Experience[2].ID)

	ed, err := s.AddEducation(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Degree / Major", ed.Degree)
	assert.NotEqual(t, "1", ed.ID)
}

func TestRemoveIsPositional(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentStore(ctx, repository.NewMemoryKV(), zap.NewNop())
	a, _ := s.AddExperience(ctx)
	b, _ := s.AddExperience(ctx)

	require.NoError(t, s.RemoveExperienceAt(ctx, 1))
	d := s.Document()
	require.Len(t, d.Experience, 2)
	assert.Equal(t, "1", d.Experience[0].ID)
	assert.Equal(t, b.ID, d.Experience[1].ID)
	assert.NotEqual(t, a.ID, d.Experience[1].ID)
}

func TestAddRemoveSequencesKeepOrder(t *testing.T) {
	// ops: "a" adds an entry, a digit removes at that index
	cases := map[string][]string{
		"adds only":         {"a", "a", "a"},
		"remove head":       {"a", "a", "a", "0"},
		"remove tail":       {"a", "a", "a", "2"},
		"interleaved":       {"a", "a", "1", "a", "0", "a", "1"},
		"drain and refill":  {"a", "0", "a", "a", "0", "0", "a"},
		"remove everything": {"a", "a", "a", "1", "1", "0"},
	}
	for name, ops := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := NewDocumentStore(ctx, repository.NewMemoryKV(), zap.NewNop())
			require.NoError(t, s.Replace(ctx, model.Resume{}))

			var want []string
			adds, removes := 0, 0
			for _, op := range ops {
				if op == "a" {
					e, err := s.AddExperience(ctx)
					require.NoError(t, err)
					want = append(want, e.ID)
					adds++
					continue
				}
				i := int(op[0] - '0')
				require.NoError(t, s.RemoveExperienceAt(ctx, i))
				want = append(want[:i], want[i+1:]...)
				removes++
			}

			got := s.Document().Experience
			require.Len(t, got, adds-removes)
			for i, e := range got {
				assert.Equal(t, want[i], e.ID)
			}
		})
	}
}

func TestRemoveTwiceAfterSingleAdd(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKV()
	s := NewDocumentStore(ctx, kv, zap.NewNop())
	require.NoError(t, s.Replace(ctx, model.Resume{}))

	_, err := s.AddExperience(ctx)
	require.NoError(t, err)
	require.NoError(t, s.RemoveExperienceAt(ctx, 0))
	assert.Empty(t, s.Document().Experience)

	err = s.RemoveExperienceAt(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidIndex)
	assert.Empty(t, s.Document().Experience)
	assert.Empty(t, storedDoc(t, kv).Experience)
}

func TestInvalidIndexLeavesDocumentUnchanged(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKV()
	s := NewDocumentStore(ctx, kv, zap.NewNop())
	require.NoError(t, s.RemoveEducationAt(ctx, 0))
	before := s.Document()

	checks := []error{
		s.RemoveEducationAt(ctx, 0),
		s.RemoveExperienceAt(ctx, 5),
		s.RemoveExperienceAt(ctx, -1),
		s.UpdateExperienceField(ctx, 1, model.FieldRole, "x"),
		s.UpdateEducationField(ctx, 0, model.FieldDegree, "x"),
		s.SetExperiencePoints(ctx, 9, nil),
	}
	for _, err := range checks {
		assert.ErrorIs(t, err, ErrInvalidIndex)
		var ie *IndexError
		assert.ErrorAs(t, err, &ie)
	}
	assert.Equal(t, before, s.Document())
	assert.Equal(t, before, storedDoc(t, kv))
}

func TestUnknownFieldRejected(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentStore(ctx, repository.NewMemoryKV(), zap.NewNop())
	before := s.Document()

	assert.ErrorIs(t, s.UpdatePersonalField(ctx, "age", "40"), ErrUnknownField)
	assert.ErrorIs(t, s.UpdateExperienceField(ctx, 0, "id", "x"), ErrUnknownField)
	assert.ErrorIs(t, s.UpdateThemeField(ctx, "accent", "red"), ErrUnknownField)
	assert.Equal(t, before, s.Document())
}

func TestPersistFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	kv := newFailingKV()
	s := NewDocumentStore(ctx, kv, zap.NewNop())
	kv.failSet = true

	err := s.UpdateTitle(ctx, "Unsaved")
	assert.ErrorIs(t, err, ErrPersist)
	var pe *PersistError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, repository.KeyResumeData, pe.Key)
	assert.Equal(t, "Unsaved", s.Document().Title)
}

func TestDocumentIsACopy(t *testing.T) {
	s := NewDocumentStore(context.Background(), repository.NewMemoryKV(), zap.NewNop())
	d := s.Document()
	d.Skills[0] = "mutated"
	d.Experience[0].Points[0] = "mutated"
	assert.NotEqual(t, "mutated", s.Document().Skills[0])
	assert.NotEqual(t, "mutated", s.Document().Experience[0].Points[0])
}

func TestReplaceNormalizes(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentStore(ctx, repository.NewMemoryKV(), zap.NewNop())
	require.NoError(t, s.Replace(ctx, model.Resume{Title: "Fresh"}))
	d := s.Document()
	assert.Equal(t, "Fresh", d.Title)
	assert.Equal(t, model.DefaultTheme(), d.Theme)
	assert.NotNil(t, d.Education)
}
