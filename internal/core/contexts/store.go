// Package contexts provides the name-keyed collection of contexts tracked in
// a session, backed by a persistent medium.
package contexts

import (
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/inn/internal/core/outline"
	"github.com/hay-kot/inn/internal/core/validate"
	"github.com/hay-kot/inn/pkg/kv"
)

// Backend persists context documents. Implementations own all document I/O.
type Backend interface {
	// Create writes a new document for name.
	// Returns ErrAlreadyExists if one exists; an existing document is never touched.
	Create(name string, c *outline.Context) error

	// Read decodes the document for name.
	// Returns ErrNotFound if there is none and a *DecodeError if it is malformed.
	Read(name string) (outline.Context, error)

	// Write stores the document for name, replacing any existing one.
	Write(name string, c *outline.Context) error

	// Remove deletes the document for name.
	// Returns ErrNotFound if there is none.
	Remove(name string) error

	// Names returns the names of all documents in ascending order.
	Names() ([]string, error)
}

// Store tracks the contexts created or loaded in a session, keyed by name in
// lexicographic order. Create refuses to overwrite while Save always
// overwrites; that asymmetry is the store's guard against clobbering
// documents.
type Store struct {
	backend Backend
	tracked *kv.Store[string, *outline.Context]
	now     func() time.Time
	log     zerolog.Logger
}

// NewStore creates a store over backend. now is used to refresh accrued time
// of loaded timeboxes.
func NewStore(backend Backend, now func() time.Time, log zerolog.Logger) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		backend: backend,
		tracked: kv.New[string, *outline.Context](),
		now:     now,
		log:     log,
	}
}

// Create initialises an empty context named name.
func (s *Store) Create(name string) (*outline.Context, error) {
	c := outline.New(name)
	return s.CreateWith(name, c)
}

// CreateWith persists c as a new context named name and tracks it.
// Returns ErrAlreadyExists when a document for name is already present.
func (s *Store) CreateWith(name string, c outline.Context) (*outline.Context, error) {
	if err := validate.ContextName(name); err != nil {
		return nil, err
	}
	c.Name = name

	if err := s.backend.Create(name, &c); err != nil {
		return nil, err
	}

	s.tracked.Set(name, &c)
	s.log.Debug().Str("context", name).Msg("context created")
	return &c, nil
}

// Load reads the document for name, refreshes its timeboxes and tracks it,
// replacing any previously tracked value.
func (s *Store) Load(name string) (*outline.Context, error) {
	c, err := s.read(name)
	if err != nil {
		return nil, err
	}

	s.tracked.Set(name, c)
	s.log.Debug().Str("context", name).Int("items", len(c.Items)).Msg("context loaded")
	return c, nil
}

func (s *Store) read(name string) (*outline.Context, error) {
	if err := validate.ContextName(name); err != nil {
		return nil, err
	}

	c, err := s.backend.Read(name)
	if err != nil {
		return nil, err
	}
	c.Refresh(s.now())
	return &c, nil
}

// LoadAll loads every document on the backing medium. Documents that fail
// to decode are skipped and returned as warnings; other failures abort
// before anything is tracked.
func (s *Store) LoadAll() (warnings []error, err error) {
	names, err := s.backend.Names()
	if err != nil {
		return nil, err
	}

	loaded := make(map[string]*outline.Context, len(names))
	for _, name := range names {
		c, err := s.read(name)
		if err != nil {
			if errors.Is(err, ErrDecode) || errors.Is(err, validate.ErrInvalidName) {
				s.log.Warn().Err(err).Str("context", name).Msg("skipping context")
				warnings = append(warnings, err)
				continue
			}
			return warnings, err
		}
		loaded[name] = c
	}

	s.tracked.SetBatch(loaded)
	s.log.Debug().Int("contexts", len(loaded)).Int("skipped", len(warnings)).Msg("contexts loaded")
	return warnings, nil
}

// Save overwrites the document for name with c and tracks c.
func (s *Store) Save(name string, c *outline.Context) error {
	if err := validate.ContextName(name); err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("save %q: %w", name, ErrNotFound)
	}
	c.Name = name

	if err := s.backend.Write(name, c); err != nil {
		return err
	}

	s.tracked.Set(name, c)
	s.log.Debug().Str("context", name).Msg("context saved")
	return nil
}

// SaveTracked overwrites the document for a context tracked in this session.
// Returns ErrNotFound for names that were never created or loaded.
func (s *Store) SaveTracked(name string) error {
	c, ok := s.tracked.Get(name)
	if !ok {
		return fmt.Errorf("save %q: %w", name, ErrNotFound)
	}
	return s.Save(name, c)
}

// Remove deletes the document for name and stops tracking it.
func (s *Store) Remove(name string) error {
	if err := validate.ContextName(name); err != nil {
		return err
	}
	if err := s.backend.Remove(name); err != nil {
		return err
	}
	s.tracked.Delete(name)
	s.log.Debug().Str("context", name).Msg("context removed")
	return nil
}

// Get returns the tracked context for name.
func (s *Store) Get(name string) (*outline.Context, bool) {
	return s.tracked.Get(name)
}

// Contains reports whether name is tracked.
func (s *Store) Contains(name string) bool {
	return s.tracked.Has(name)
}

// List yields tracked names in ascending order.
func (s *Store) List() iter.Seq[string] {
	return func(yield func(string) bool) {
		for name := range s.tracked.All() {
			if !yield(name) {
				return
			}
		}
	}
}

// Names returns tracked names in ascending order.
func (s *Store) Names() []string {
	return s.tracked.Keys()
}

// Neighbors returns the tracked names before and after name, clamped at
// either end to name itself.
func (s *Store) Neighbors(name string) (prev, next string, err error) {
	prev, next, ok := s.tracked.Neighbors(name)
	if !ok {
		return "", "", fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return prev, next, nil
}
