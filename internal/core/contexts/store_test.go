package contexts

import (
	"errors"
	"slices"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/inn/internal/core/attention"
	"github.com/hay-kot/inn/internal/core/outline"
	"github.com/hay-kot/inn/internal/core/validate"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// memBackend is an in-memory Backend. Names listed in broken fail to decode
// and names in unreadable fail with an I/O error.
type memBackend struct {
	docs       map[string]outline.Context
	broken     map[string]bool
	unreadable map[string]bool
	writeErr error
	writes   int
}

func newMemBackend() *memBackend {
	return &memBackend{
		docs:       map[string]outline.Context{},
		broken:     map[string]bool{},
		unreadable: map[string]bool{},
	}
}

func (m *memBackend) Create(name string, c *outline.Context) error {
	if _, ok := m.docs[name]; ok || m.broken[name] {
		return ErrAlreadyExists
	}
	return m.Write(name, c)
}

func (m *memBackend) Read(name string) (outline.Context, error) {
	if m.broken[name] {
		return outline.Context{}, &DecodeError{Name: name, Err: errors.New("bad yaml")}
	}
	if m.unreadable[name] {
		return outline.Context{}, &IOError{Op: "read", Name: name, Err: errors.New("permission denied")}
	}
	c, ok := m.docs[name]
	if !ok {
		return outline.Context{}, ErrNotFound
	}
	return c.Clone(), nil
}

func (m *memBackend) Write(name string, c *outline.Context) error {
	if m.writeErr != nil {
		return &IOError{Op: "write", Name: name, Err: m.writeErr}
	}
	m.writes++
	m.docs[name] = c.Clone()
	return nil
}

func (m *memBackend) Remove(name string) error {
	if _, ok := m.docs[name]; !ok {
		return ErrNotFound
	}
	delete(m.docs, name)
	return nil
}

func (m *memBackend) Names() ([]string, error) {
	var names []string
	for name := range m.docs {
		names = append(names, name)
	}
	for name := range m.broken {
		names = append(names, name)
	}
	for name := range m.unreadable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func newTestStore(b Backend) *Store {
	return NewStore(b, func() time.Time { return t0.Add(time.Hour) }, zerolog.Nop())
}

func TestStore_CreateRefusesExisting(t *testing.T) {
	b := newMemBackend()
	s := newTestStore(b)

	c, err := s.Create("x")
	require.NoError(t, err)
	c.Append(outline.Entry("keep me"))
	require.NoError(t, s.SaveTracked("x"))
	writes := b.writes

	_, err = s.Create("x")
	require.ErrorIs(t, err, ErrAlreadyExists)

	assert.Equal(t, writes, b.writes, "refused create must not write")
	assert.Equal(t, "keep me", b.docs["x"].Items[0].Text)

	tracked, ok := s.Get("x")
	require.True(t, ok)
	assert.Len(t, tracked.Items, 1)
}

func TestStore_CreateWithForcesName(t *testing.T) {
	s := newTestStore(newMemBackend())

	c, err := s.CreateWith("starter", outline.Starter("Your Starter Timeline", 60, t0))
	require.NoError(t, err)
	assert.Equal(t, "starter", c.Name)
}

func TestStore_InvalidName(t *testing.T) {
	s := newTestStore(newMemBackend())

	_, err := s.Create("../escape")
	assert.ErrorIs(t, err, validate.ErrInvalidName)
	_, err = s.Load("")
	assert.ErrorIs(t, err, validate.ErrInvalidName)
}

func TestStore_LoadNotFound(t *testing.T) {
	s := newTestStore(newMemBackend())

	_, err := s.Load("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, s.Contains("missing"))
}

func TestStore_LoadRefreshesActiveTimeboxes(t *testing.T) {
	b := newMemBackend()
	c := outline.New("work")
	item := outline.NewTimebox("focus", 3600, t0)
	tb, err := attention.Apply(*item.Timebox, attention.Started(t0))
	require.NoError(t, err)
	item.Timebox = &tb
	c.Append(item)
	b.docs["work"] = c

	s := newTestStore(b)
	loaded, err := s.Load("work")
	require.NoError(t, err)
	assert.Equal(t, attention.Timespan(3600), loaded.Items[0].Timebox.Accrued)
}

func TestStore_SaveOverwrites(t *testing.T) {
	b := newMemBackend()
	s := newTestStore(b)

	_, err := s.Create("x")
	require.NoError(t, err)

	replacement := outline.New("ignored")
	replacement.Append(outline.Heading("new"))
	require.NoError(t, s.Save("x", &replacement))

	assert.Equal(t, "x", b.docs["x"].Name)
	assert.Equal(t, "new", b.docs["x"].Items[0].Text)
}

func TestStore_SaveTrackedUnknown(t *testing.T) {
	s := newTestStore(newMemBackend())
	assert.ErrorIs(t, s.SaveTracked("nope"), ErrNotFound)
}

func TestStore_SaveIOError(t *testing.T) {
	b := newMemBackend()
	s := newTestStore(b)
	_, err := s.Create("x")
	require.NoError(t, err)

	b.writeErr = errors.New("disk full")
	err = s.SaveTracked("x")
	assert.ErrorIs(t, err, ErrIO)
	assert.Contains(t, err.Error(), "disk full")
}

func TestStore_ListInKeyOrder(t *testing.T) {
	s := newTestStore(newMemBackend())
	for _, name := range []string{"work", "home", "garden"} {
		_, err := s.Create(name)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"garden", "home", "work"}, slices.Collect(s.List()))
	assert.Equal(t, []string{"garden", "home", "work"}, s.Names())
}

func TestStore_Neighbors(t *testing.T) {
	s := newTestStore(newMemBackend())
	for _, name := range []string{"a", "b", "c"} {
		_, err := s.Create(name)
		require.NoError(t, err)
	}

	prev, next, err := s.Neighbors("a")
	require.NoError(t, err)
	assert.Equal(t, "a", prev)
	assert.Equal(t, "b", next)

	prev, next, err = s.Neighbors("c")
	require.NoError(t, err)
	assert.Equal(t, "b", prev)
	assert.Equal(t, "c", next)

	_, _, err = s.Neighbors("zz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_LoadAllSkipsMalformed(t *testing.T) {
	b := newMemBackend()
	b.docs["home"] = outline.New("home")
	b.docs["work"] = outline.New("work")
	b.broken["junk"] = true

	s := newTestStore(b)
	warnings, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], ErrDecode)
	assert.Equal(t, []string{"home", "work"}, s.Names())
}

func TestStore_LoadAllAbortTracksNothing(t *testing.T) {
	b := newMemBackend()
	b.docs["home"] = outline.New("home")
	b.unreadable["locked"] = true
	b.docs["work"] = outline.New("work")

	s := newTestStore(b)
	_, err := s.LoadAll()
	require.ErrorIs(t, err, ErrIO)
	assert.Empty(t, s.Names())
}

func TestStore_Remove(t *testing.T) {
	b := newMemBackend()
	s := newTestStore(b)
	_, err := s.Create("x")
	require.NoError(t, err)

	require.NoError(t, s.Remove("x"))
	assert.False(t, s.Contains("x"))
	assert.NotContains(t, b.docs, "x")

	assert.ErrorIs(t, s.Remove("x"), ErrNotFound)
}
