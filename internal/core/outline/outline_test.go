package outline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hay-kot/inn/internal/core/attention"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// sample builds:
//
//	0 heading Plan
//	1 goal    ship the release
//	2 sublist errands
//	  2.0 entry   buy stamps
//	  2.1 sublist deep
//	      2.1.0 note  ship it
//	3 timebox focus
func sample() Context {
	deep := New("deep")
	deep.Append(Note("ship it"))

	errands := New("errands")
	errands.Append(Entry("buy stamps"), NewSublist(deep))

	c := New("work")
	c.Append(
		Heading("Plan"),
		NewGoal("ship the release", false),
		NewSublist(errands),
		NewTimebox("focus", 1800, t0),
	)
	return c
}

func TestNew(t *testing.T) {
	c := New("home")
	assert.Equal(t, "home", c.Name)
	assert.NotNil(t, c.Items)
	assert.Empty(t, c.Items)
}

func TestAppend_PreservesOrder(t *testing.T) {
	c := New("home")
	c.Append(Heading("a"))
	c.Append(Note("b"), Entry("c"))

	require.Len(t, c.Items, 3)
	assert.Equal(t, []Kind{KindHeading, KindNote, KindEntry},
		[]Kind{c.Items[0].Kind, c.Items[1].Kind, c.Items[2].Kind})
}

func TestFlatten_PreOrderPaths(t *testing.T) {
	c := sample()

	want := []TextEntry{
		{Path{0}, "Plan"},
		{Path{1}, "ship the release"},
		{Path{2}, "errands"},
		{Path{2, 0}, "buy stamps"},
		{Path{2, 1}, "deep"},
		{Path{2, 1, 0}, "ship it"},
		{Path{3}, "focus"},
	}
	assert.Equal(t, want, c.Flatten())
	assert.Equal(t, c.Flatten(), c.Flatten(), "flatten must be reproducible")
}

func TestFlatten_DeepNestingIsIterative(t *testing.T) {
	const depth = 2_000

	root := New("root")
	cur := &root
	for range depth {
		cur.Append(NewSublist(New("level")))
		cur = cur.Items[0].Sublist
	}
	cur.Append(Entry("bottom"))

	entries := root.Flatten()
	require.Len(t, entries, depth+1)
	last := entries[len(entries)-1]
	assert.Equal(t, "bottom", last.Text)
	assert.Len(t, last.Path, depth+1)
}

func TestResolve(t *testing.T) {
	c := sample()

	tests := []struct {
		name    string
		path    Path
		want    string
		wantErr bool
	}{
		{"top level", Path{1}, "ship the release", false},
		{"nested", Path{2, 1, 0}, "ship it", false},
		{"sublist itself", Path{2, 1}, "deep", false},
		{"empty", Path{}, "", true},
		{"out of range", Path{9}, "", true},
		{"negative", Path{-1}, "", true},
		{"nested out of range", Path{2, 5}, "", true},
		{"through non-sublist", Path{1, 0}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := c.Resolve(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAddress)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, it.DisplayText())
		})
	}
}

func TestResolve_PointerAliasesContext(t *testing.T) {
	c := sample()

	it, err := c.Resolve(Path{2, 0})
	require.NoError(t, err)
	it.Text = "buy envelopes"

	again, err := c.Resolve(Path{2, 0})
	require.NoError(t, err)
	assert.Equal(t, "buy envelopes", again.Text)
}

func TestAppendAt(t *testing.T) {
	c := sample()

	require.NoError(t, c.AppendAt(Path{2, 1}, Entry("new")))
	it, err := c.Resolve(Path{2, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, "new", it.Text)

	require.NoError(t, c.AppendAt(nil, Entry("root")))
	assert.Equal(t, "root", c.Items[len(c.Items)-1].Text)

	assert.ErrorIs(t, c.AppendAt(Path{0}, Entry("x")), ErrInvalidAddress)
	assert.ErrorIs(t, c.AppendAt(Path{7}, Entry("x")), ErrInvalidAddress)
}

// chain returns a context whose single entry sits depth sublists down.
func chain(depth int) Context {
	cur := New("bottom")
	cur.Append(Entry("leaf"))
	for range depth {
		parent := New("level")
		parent.Append(NewSublist(cur))
		cur = parent
	}
	return cur
}

func TestAppendAt_DepthLimit(t *testing.T) {
	c := New("work")
	require.NoError(t, c.AppendAt(nil, NewSublist(chain(MaxDepth-1))))

	leaf := make(Path, MaxDepth+1)
	_, err := c.Resolve(leaf)
	require.NoError(t, err)

	parent := leaf[:MaxDepth]
	require.NoError(t, c.AppendAt(parent, Entry("also at the limit")))
	require.NoError(t, c.AppendAt(parent, NewSublist(New("empty"))))

	err = c.AppendAt(parent, NewSublist(chain(0)))
	require.ErrorIs(t, err, ErrTooDeep)

	err = c.AppendAt(nil, NewSublist(chain(MaxDepth)))
	require.ErrorIs(t, err, ErrTooDeep)

	require.NoError(t, c.Validate())
}

func TestValidate_DepthLimit(t *testing.T) {
	c := chain(MaxDepth)
	require.NoError(t, c.Validate())

	c = chain(MaxDepth + 1)
	assert.ErrorIs(t, c.Validate(), ErrTooDeep)
}

func TestParsePath(t *testing.T) {
	p, err := ParsePath("6.0.12")
	require.NoError(t, err)
	assert.Equal(t, Path{6, 0, 12}, p)
	assert.Equal(t, "6.0.12", p.String())

	p, err = ParsePath("")
	require.NoError(t, err)
	assert.Empty(t, p)

	for _, bad := range []string{"a", "1..2", "-1", "1.x"} {
		_, err := ParsePath(bad)
		assert.ErrorIs(t, err, ErrInvalidAddress, bad)
	}
}

func TestPathCompare(t *testing.T) {
	assert.Negative(t, Path{1}.Compare(Path{1, 0}))
	assert.Negative(t, Path{1, 9}.Compare(Path{2}))
	assert.Zero(t, Path{2, 1}.Compare(Path{2, 1}))
	assert.Positive(t, Path{3}.Compare(Path{2, 9, 9}))
}

func TestClone_IsDeep(t *testing.T) {
	c := sample()
	cp := c.Clone()
	require.Equal(t, c, cp)

	cp.Items[1].Goal.Done = true
	cp.Items[2].Sublist.Items[0].Text = "changed"
	tb, err := attention.Apply(*cp.Items[3].Timebox, attention.Started(t0.Add(time.Minute)))
	require.NoError(t, err)
	*cp.Items[3].Timebox = tb

	assert.False(t, c.Items[1].Goal.Done)
	assert.Equal(t, "buy stamps", c.Items[2].Sublist.Items[0].Text)
	assert.Len(t, c.Items[3].Timebox.History, 1)
}

func TestValidate(t *testing.T) {
	c := sample()
	require.NoError(t, c.Validate())

	c.Items[2].Sublist.Items[1].Sublist.Items = append(c.Items[2].Sublist.Items[1].Sublist.Items,
		Item{Kind: KindTimebox, Timebox: &attention.Timebox{Label: "broken"}})
	err := c.Validate()
	require.ErrorIs(t, err, attention.ErrInvalidHistory)
	assert.Contains(t, err.Error(), "item 2.1.1")
}

func TestRefresh(t *testing.T) {
	c := sample()
	tb, err := attention.Apply(*c.Items[3].Timebox, attention.Started(t0))
	require.NoError(t, err)
	*c.Items[3].Timebox = tb

	c.Refresh(t0.Add(90 * time.Second))
	assert.Equal(t, attention.Timespan(90), c.Items[3].Timebox.Accrued)
}

func TestYAMLRoundTrip(t *testing.T) {
	c := sample()
	tb, err := attention.Apply(*c.Items[3].Timebox, attention.Started(t0.Add(time.Minute)))
	require.NoError(t, err)
	tb, err = attention.Apply(tb, attention.WaitingFor(t0.Add(5*time.Minute), "review"))
	require.NoError(t, err)
	*c.Items[3].Timebox = tb
	c.Append(NewSublist(New("empty")))

	data, err := yaml.Marshal(c)
	require.NoError(t, err)

	var got Context
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, c, got)
}

func TestNewSublist_NilItemsRoundTrip(t *testing.T) {
	c := New("work")
	c.Append(NewSublist(Context{Name: "bare"}))
	assert.NotNil(t, c.Items[0].Sublist.Items)

	data, err := yaml.Marshal(c)
	require.NoError(t, err)

	var got Context
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, c, got)
}

func TestYAMLDecode_Items(t *testing.T) {
	src := `
name: inbox
items:
  - heading: Today
  - note: remember
  - entry: call bob
  - goal:
      label: laundry
      done: true
  - sublist:
      name: later
`
	var c Context
	require.NoError(t, yaml.Unmarshal([]byte(src), &c))

	require.Len(t, c.Items, 5)
	assert.Equal(t, Heading("Today"), c.Items[0])
	assert.Equal(t, Note("remember"), c.Items[1])
	assert.Equal(t, Entry("call bob"), c.Items[2])
	assert.Equal(t, NewGoal("laundry", true), c.Items[3])
	assert.Equal(t, NewSublist(New("later")), c.Items[4])
}

func TestYAMLDecode_Errors(t *testing.T) {
	tests := map[string]string{
		"two keys":     "items:\n  - heading: a\n    note: b\n",
		"unknown kind": "items:\n  - banner: a\n",
		"scalar item":  "items:\n  - just text\n",
		"empty goal":   "items:\n  - goal:\n",
		"goal typo":    "items:\n  - goal: {lable: x, done: true}\n",
		"timebox typo": "items:\n  - timebox: {label: x, budjet: 60, history: []}\n",
		"sublist typo": "items:\n  - sublist: {nmae: x}\n",
		"empty entry":  "items:\n  - entry:\n",
		"nested typo":  "items:\n  - sublist:\n      name: x\n      items:\n        - goal: {label: y, dnoe: true}\n",
	}

	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			var c Context
			assert.Error(t, yaml.Unmarshal([]byte(src), &c))
		})
	}
}
