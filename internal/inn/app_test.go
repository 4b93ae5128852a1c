package inn

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/inn/internal/core/config"
	"github.com/hay-kot/inn/internal/core/contexts"
	"github.com/hay-kot/inn/internal/core/doctor"
	"github.com/hay-kot/inn/internal/store/yamlfile"
)

func newTestApp(t *testing.T, dataDir string) *App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = dataDir

	docs := yamlfile.NewDocuments(cfg.DocumentsPath(), cfg.Extension)
	cursor := yamlfile.NewStateStore(cfg.StateFile())
	now := func() time.Time { return t0 }

	app := NewApp(&cfg, docs, cursor, now, zerolog.Nop())
	_, err := app.Open()
	require.NoError(t, err)
	return app
}

func TestApp_CursorPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	app := newTestApp(t, dir)
	_, err := app.Run(ctx, Init{Name: "home"})
	require.NoError(t, err)
	_, err = app.Run(ctx, Init{Name: "work"})
	require.NoError(t, err)
	_, err = app.Run(ctx, Switch{Name: "work"})
	require.NoError(t, err)

	reopened := newTestApp(t, dir)
	cursor, err := reopened.Cursor()
	require.NoError(t, err)
	assert.Equal(t, "work", cursor)

	res, err := reopened.Run(ctx, Last{})
	require.NoError(t, err)
	assert.Equal(t, "home", res.State.Cursor)

	cursor, err = newTestApp(t, dir).Cursor()
	require.NoError(t, err)
	assert.Equal(t, "home", cursor)
}

func TestApp_FailedCommandKeepsCursor(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	app := newTestApp(t, dir)
	_, err := app.Run(ctx, Init{Name: "home"})
	require.NoError(t, err)
	_, err = app.Run(ctx, Switch{Name: "home"})
	require.NoError(t, err)

	_, err = app.Run(ctx, Switch{Name: "missing"})
	require.ErrorIs(t, err, contexts.ErrNotFound)

	cursor, err := app.Cursor()
	require.NoError(t, err)
	assert.Equal(t, "home", cursor)
}

func TestApp_Current(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	app := newTestApp(t, dir)

	_, err := app.Current(ctx, "")
	require.ErrorIs(t, err, contexts.ErrNotFound)

	_, err = app.Run(ctx, Init{Name: "home"})
	require.NoError(t, err)
	_, err = app.Run(ctx, Switch{Name: "home"})
	require.NoError(t, err)

	c, err := app.Current(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "home", c.Name)

	_, err = app.Current(ctx, "other")
	require.ErrorIs(t, err, contexts.ErrNotFound)
}

func TestApp_OpenSkipsBrokenDocuments(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.inn.yaml"), []byte("items: {"), 0o644))

	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	app := NewApp(&cfg, yamlfile.NewDocuments(dir, cfg.Extension), yamlfile.NewStateStore(cfg.StateFile()), nil, zerolog.Nop())

	warnings, err := app.Open()
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.ErrorIs(t, warnings[0], contexts.ErrDecode)
	assert.Empty(t, app.Store.Names())
}

func TestDoctorService_RunChecks(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	app := newTestApp(t, dir)

	_, err := app.Run(ctx, Init{Name: "home"})
	require.NoError(t, err)
	_, err = app.Run(ctx, Switch{Name: "home"})
	require.NoError(t, err)

	results := app.Doctor.RunChecks(ctx, "", false)
	require.Len(t, results, 3)

	_, warned, failed := doctor.Summary(results)
	assert.Zero(t, warned)
	assert.Zero(t, failed)
}

func TestDoctorService_AutofixClearsDanglingCursor(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	app := newTestApp(t, dir)

	require.NoError(t, yamlfile.NewStateStore(app.Config.StateFile()).Save(yamlfile.State{NowContext: "gone"}))

	results := app.Doctor.RunChecks(ctx, "", false)
	assert.Equal(t, 1, doctor.CountFixable(results))

	app.Doctor.RunChecks(ctx, "", true)

	cursor, err := app.Cursor()
	require.NoError(t, err)
	assert.Empty(t, cursor)
}

func TestApp_RemoveClearsCursor(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	app := newTestApp(t, dir)

	for _, name := range []string{"home", "work"} {
		_, err := app.Run(ctx, Init{Name: name})
		require.NoError(t, err)
	}
	_, err := app.Run(ctx, Switch{Name: "home"})
	require.NoError(t, err)

	require.NoError(t, app.Remove(ctx, "work"))
	cursor, err := app.Cursor()
	require.NoError(t, err)
	assert.Equal(t, "home", cursor)

	require.NoError(t, app.Remove(ctx, "home"))
	cursor, err = app.Cursor()
	require.NoError(t, err)
	assert.Empty(t, cursor)
	assert.Empty(t, app.Store.Names())

	require.ErrorIs(t, app.Remove(ctx, "home"), contexts.ErrNotFound)
}
