package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"resume-builder/internal/adapter/repository"
	"resume-builder/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentStore owns the single resume document. Every successful mutation
// is written through to the key-value store.
type DocumentStore struct {
	mu     sync.Mutex
	kv     repository.KV
	doc    model.Resume
	logger *zap.Logger
	newID  func() string
}

// NewDocumentStore restores the stored document, falling back to the
// default document when nothing usable is stored.
func NewDocumentStore(ctx context.Context, kv repository.KV, logger *zap.Logger) *DocumentStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &DocumentStore{kv: kv, logger: logger, newID: uuid.NewString}
	s.doc = s.load(ctx)
	return s
}

func (s *DocumentStore) load(ctx context.Context) model.Resume {
	raw, err := s.kv.Get(ctx, repository.KeyResumeData)
	if errors.Is(err, repository.ErrNotFound) {
		return model.DefaultResume()
	}
	if err != nil {
		s.logger.Warn("unable to read stored resume, using default", zap.Error(err))
		return model.DefaultResume()
	}
	if err := model.ValidateJSON([]byte(raw)); err != nil {
		s.logger.Warn("stored resume failed validation, using default", zap.Error(err))
		return model.DefaultResume()
	}
	var doc model.Resume
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		s.logger.Warn("stored resume is malformed, using default", zap.Error(err))
		return model.DefaultResume()
	}
	doc.Normalize()
	return doc
}

// Document returns a deep copy of the current document.
func (s *DocumentStore) Document() model.Resume {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// mutate applies fn to a copy of the document. The copy replaces the
// current document only when fn succeeds, and is then persisted.
func (s *DocumentStore) mutate(ctx context.Context, fn func(d *model.Resume) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.doc.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	s.doc = next
	return s.persist(ctx)
}

func (s *DocumentStore) persist(ctx context.Context) error {
	b, err := json.Marshal(s.doc)
	if err == nil {
		err = s.kv.Set(ctx, repository.KeyResumeData, string(b))
	}
	if err != nil {
		s.logger.Error("unable to persist resume", zap.Error(err))
		return &PersistError{Key: repository.KeyResumeData, Cause: err}
	}
	return nil
}

func (s *DocumentStore) UpdateTitle(ctx context.Context, title string) error {
	return s.mutate(ctx, func(d *model.Resume) error {
		d.Title = title
		return nil
	})
}

func (s *DocumentStore) UpdateSummary(ctx context.Context, summary string) error {
	return s.mutate(ctx, func(d *model.Resume) error {
		d.Summary = summary
		return nil
	})
}

func (s *DocumentStore) UpdatePersonalField(ctx context.Context, field, value string) error {
	return s.mutate(ctx, func(d *model.Resume) error {
		return d.Personal.Set(field, value)
	})
}

func (s *DocumentStore) UpdateThemeField(ctx context.Context, field, value string) error {
	return s.mutate(ctx, func(d *model.Resume) error {
		return d.Theme.Set(field, value)
	})
}

// Replace swaps in a whole document, normalized.
func (s *DocumentStore) Replace(ctx context.Context, doc model.Resume) error {
	doc = doc.Clone()
	doc.Normalize()
	return s.mutate(ctx, func(d *model.Resume) error {
		*d = doc
		return nil
	})
}

func (s *DocumentStore) SetSkills(ctx context.Context, skills []string) error {
	cp := append(make([]string, 0, len(skills)), skills...)
	return s.mutate(ctx, func(d *model.Resume) error {
		d.Skills = cp
		return nil
	})
}

func (s *DocumentStore) AddExperience(ctx context.Context) (model.ExperienceEntry, error) {
	var e model.ExperienceEntry
	err := s.mutate(ctx, func(d *model.Resume) error {
		e = model.NewExperienceEntry(s.newID())
		d.Experience = append(d.Experience, e)
		return nil
	})
	return e, err
}

func (s *DocumentStore) AddEducation(ctx context.Context) (model.EducationEntry, error) {
	var e model.EducationEntry
	err := s.mutate(ctx, func(d *model.Resume) error {
		e = model.NewEducationEntry(s.newID())
		d.Education = append(d.Education, e)
		return nil
	})
	return e, err
}

func (s *DocumentStore) RemoveExperienceAt(ctx context.Context, index int) error {
	return s.mutate(ctx, func(d *model.Resume) error {
		if err := checkIndex("experience", index, len(d.Experience)); err != nil {
			return err
		}
		d.Experience = append(d.Experience[:index], d.Experience[index+1:]...)
		return nil
	})
}

func (s *DocumentStore) RemoveEducationAt(ctx context.Context, index int) error {
	return s.mutate(ctx, func(d *model.Resume) error {
		if err := checkIndex("education", index, len(d.Education)); err != nil {
			return err
		}
		d.Education = append(d.Education[:index], d.Education[index+1:]...)
		return nil
	})
}

func (s *DocumentStore) UpdateExperienceField(ctx context.Context, index int, field, value string) error {
	return s.mutate(ctx, func(d *model.Resume) error {
		if err := checkIndex("experience", index, len(d.Experience)); err != nil {
			return err
		}
		return d.Experience[index].Set(field, value)
	})
}

func (s *DocumentStore) SetExperiencePoints(ctx context.Context, index int, points []string) error {
	cp := append(make([]string, 0, len(points)), points...)
	return s.mutate(ctx, func(d *model.Resume) error {
		if err := checkIndex("experience", index, len(d.Experience)); err != nil {
			return err
		}
		d.Experience[index].Points = cp
		return nil
	})
}

func (s *DocumentStore) UpdateEducationField(ctx context.Context, index int, field, value string) error {
	return s.mutate(ctx, func(d *model.Resume) error {
		if err := checkIndex("education", index, len(d.Education)); err != nil {
			return err
		}
		return d.Education[index].Set(field, value)
	})
}

func checkIndex(collection string, index, n int) error {
	if index < 0 || index >= n {
		return &IndexError{Collection: collection, Index: index, Len: n}
	}
	return nil
}
