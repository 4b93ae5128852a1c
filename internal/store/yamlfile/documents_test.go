package yamlfile

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/inn/internal/core/attention"
	"github.com/hay-kot/inn/internal/core/contexts"
	"github.com/hay-kot/inn/internal/core/outline"
)

const ext = ".inn.yaml"

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func richContext(t *testing.T) outline.Context {
	t.Helper()

	nested := outline.New("nested list")
	nested.Append(outline.Entry("inner"), outline.NewSublist(outline.New("deeper")))

	item := outline.NewTimebox("focus", 1800, t0)
	tb, err := attention.Apply(*item.Timebox, attention.Started(t0.Add(time.Minute)))
	require.NoError(t, err)
	tb, err = attention.Apply(tb, attention.WaitingFor(t0.Add(3*time.Minute), "feedback"))
	require.NoError(t, err)
	item.Timebox = &tb

	c := outline.Starter("work", 3600, t0)
	c.Append(outline.Entry("ship the release"), item, outline.NewSublist(nested))
	return c
}

func TestDocuments_RoundTrip(t *testing.T) {
	d := NewDocuments(t.TempDir(), ext)
	c := richContext(t)

	require.NoError(t, d.Write("work", &c))

	got, err := d.Read("work")
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestDocuments_RoundTripEmpty(t *testing.T) {
	d := NewDocuments(t.TempDir(), ext)
	c := outline.New("empty")

	require.NoError(t, d.Create("empty", &c))

	got, err := d.Read("empty")
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

// nested returns a context whose single entry sits depth sublists down.
func nested(name string, depth int) outline.Context {
	cur := outline.New("bottom")
	cur.Append(outline.Entry("leaf"))
	for i := range depth {
		parent := outline.New(fmt.Sprintf("level %d", i))
		parent.Append(outline.NewSublist(cur))
		cur = parent
	}
	cur.Name = name
	return cur
}

func TestDocuments_DeepestAllowedRoundTrips(t *testing.T) {
	d := NewDocuments(t.TempDir(), ext)
	c := nested("work", outline.MaxDepth)

	require.NoError(t, d.Write("work", &c))

	got, err := d.Read("work")
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestDocuments_WriteRejectsTooDeep(t *testing.T) {
	d := NewDocuments(t.TempDir(), ext)

	c := richContext(t)
	require.NoError(t, d.Write("work", &c))
	before, err := os.ReadFile(d.Path("work"))
	require.NoError(t, err)

	deep := nested("work", outline.MaxDepth+1)
	err = d.Write("work", &deep)
	require.ErrorIs(t, err, outline.ErrTooDeep)

	after, err := os.ReadFile(d.Path("work"))
	require.NoError(t, err)
	assert.Equal(t, before, after)

	got, err := d.Read("work")
	require.NoError(t, err)
	assert.Equal(t, c, got)

	require.ErrorIs(t, d.Create("other", &deep), outline.ErrTooDeep)
	assert.NoFileExists(t, d.Path("other"))
}

func TestDocuments_SchemaTag(t *testing.T) {
	dir := t.TempDir()
	d := NewDocuments(dir, ext)
	c := outline.New("home")
	c.Append(outline.Heading("Chores"))
	require.NoError(t, d.Write("home", &c))

	data, err := os.ReadFile(filepath.Join(dir, "home"+ext))
	require.NoError(t, err)
	assert.Equal(t, "schema: list/v1\nname: home\nitems:\n  - heading: Chores\n", string(data))
}

func TestDocuments_CreateRefusesExisting(t *testing.T) {
	dir := t.TempDir()
	d := NewDocuments(dir, ext)

	original := outline.New("x")
	original.Append(outline.Note("original"))
	require.NoError(t, d.Create("x", &original))

	before, err := os.ReadFile(d.Path("x"))
	require.NoError(t, err)

	other := outline.New("x")
	err = d.Create("x", &other)
	require.ErrorIs(t, err, contexts.ErrAlreadyExists)

	after, err := os.ReadFile(d.Path("x"))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDocuments_ReadErrors(t *testing.T) {
	dir := t.TempDir()
	d := NewDocuments(dir, ext)

	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+ext), []byte(body), 0o644))
	}

	write("garbled", "schema: list/v1\nname: garbled\nitems: [\n")
	write("future", "schema: list/v9\nname: future\nitems: []\n")
	write("renamed", "schema: list/v1\nname: other\nitems: []\n")
	write("extra", "schema: list/v1\nname: extra\ncolour: red\nitems: []\n")
	write("empty", "")
	write("badhistory", `schema: list/v1
name: badhistory
items:
  - timebox:
      label: x
      done: null
      history:
        - kind: paused
          at: 2024-03-01T09:00:00Z
      accrued: 0
      budget: 60
`)
	write("negative", `schema: list/v1
name: negative
items:
  - timebox:
      label: x
      history:
        - kind: created
          at: 2024-03-01T09:00:00Z
      accrued: -5
      budget: 60
`)

	for _, name := range []string{"garbled", "future", "renamed", "extra", "empty", "badhistory", "negative"} {
		t.Run(name, func(t *testing.T) {
			_, err := d.Read(name)
			require.ErrorIs(t, err, contexts.ErrDecode)
			var derr *contexts.DecodeError
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, name, derr.Name)
		})
	}

	t.Run("missing", func(t *testing.T) {
		_, err := d.Read("missing")
		assert.ErrorIs(t, err, contexts.ErrNotFound)
	})
}

func TestDocuments_Names(t *testing.T) {
	dir := t.TempDir()
	d := NewDocuments(dir, ext)

	for _, name := range []string{"work", "home", "a b"} {
		c := outline.New(name)
		require.NoError(t, d.Create(name, &c))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"+ext), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir"+ext), 0o755))

	names, err := d.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"a b", "home", "work"}, names)
}

func TestDocuments_NamesMissingDir(t *testing.T) {
	d := NewDocuments(filepath.Join(t.TempDir(), "nope"), ext)

	names, err := d.Names()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestDocuments_Remove(t *testing.T) {
	d := NewDocuments(t.TempDir(), ext)
	c := outline.New("x")
	require.NoError(t, d.Create("x", &c))

	require.NoError(t, d.Remove("x"))
	_, err := os.Stat(d.Path("x"))
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, d.Remove("x"), contexts.ErrNotFound)
}

func TestDocuments_Filename(t *testing.T) {
	d := NewDocuments("/data", ".list.yml")
	assert.Equal(t, "work.list.yml", d.Filename("work"))
	assert.Equal(t, filepath.Join("/data", "work.list.yml"), d.Path("work"))
}

func TestStateStore(t *testing.T) {
	s := NewStateStore(filepath.Join(t.TempDir(), "sub", "state.yaml"))

	st, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, State{}, st)

	require.NoError(t, s.Save(State{NowContext: "work"}))

	st, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, "work", st.NowContext)

	require.NoError(t, s.Save(State{}))
	st, err = s.Load()
	require.NoError(t, err)
	assert.Empty(t, st.NowContext)
}
