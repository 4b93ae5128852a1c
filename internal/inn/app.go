// Package inn wires the context store, the command dispatcher and the
// persisted cursor into the App consumed by the CLI.
package inn

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/inn/internal/core/config"
	"github.com/hay-kot/inn/internal/core/contexts"
	"github.com/hay-kot/inn/internal/core/outline"
	"github.com/hay-kot/inn/internal/store/yamlfile"
)

// CursorStore persists the cursor between invocations.
type CursorStore interface {
	Load() (yamlfile.State, error)
	Save(yamlfile.State) error
}

// App is the central entry point for all inn operations.
// Commands consume App instead of cherry-picking raw dependencies.
type App struct {
	Config     *config.Config
	Store      *contexts.Store
	Dispatcher *Dispatcher
	Doctor     *DoctorService

	cursor CursorStore
	now    func() time.Time
	log    zerolog.Logger
}

// NewApp constructs an App from explicit dependencies. now may be nil.
func NewApp(cfg *config.Config, backend contexts.Backend, cursor CursorStore, now func() time.Time, log zerolog.Logger) *App {
	if now == nil {
		now = time.Now
	}

	store := contexts.NewStore(backend, now, log.With().Str("cmp", "store").Logger())
	return &App{
		Config: cfg,
		Store:  store,
		Dispatcher: NewDispatcher(DispatcherOptions{
			StarterName: cfg.StarterName,
			Budget:      cfg.Timebox.DefaultBudget,
			Now:         now,
		}, log.With().Str("cmp", "dispatch").Logger()),
		Doctor: NewDoctorService(cfg, backend, cursor, now),
		cursor: cursor,
		now:    now,
		log:    log,
	}
}

// Open loads every stored context. Documents that cannot be decoded are
// skipped and returned as warnings.
func (a *App) Open() ([]error, error) {
	warnings, err := a.Store.LoadAll()
	if err != nil {
		return warnings, fmt.Errorf("load contexts: %w", err)
	}
	return warnings, nil
}

// Now returns the current time of the App clock.
func (a *App) Now() time.Time {
	return a.now()
}

// Cursor returns the persisted cursor, empty when unset.
func (a *App) Cursor() (string, error) {
	st, err := a.cursor.Load()
	if err != nil {
		return "", fmt.Errorf("load cursor: %w", err)
	}
	return st.NowContext, nil
}

// Run dispatches cmd against the store and the persisted cursor, saving the
// cursor when the command moved it.
func (a *App) Run(ctx context.Context, cmd Cmd) (Result, error) {
	cursor, err := a.Cursor()
	if err != nil {
		return Result{}, err
	}

	res, err := a.Dispatcher.Dispatch(ctx, cmd, State{Store: a.Store, Cursor: cursor})
	if err != nil {
		return res, err
	}

	if res.State.Cursor != cursor {
		if err := a.cursor.Save(yamlfile.State{NowContext: res.State.Cursor}); err != nil {
			return res, fmt.Errorf("save cursor: %w", err)
		}
	}
	return res, nil
}

// Current returns the context under the cursor, or the named context when
// name is non-empty. Both are loaded fresh from the backing store.
func (a *App) Current(ctx context.Context, name string) (*outline.Context, error) {
	if name == "" {
		cursor, err := a.Cursor()
		if err != nil {
			return nil, err
		}
		if cursor == "" {
			return nil, fmt.Errorf("no context selected: %w", contexts.ErrNotFound)
		}
		name = cursor
	}

	res, err := a.Run(ctx, Load{Name: name})
	if err != nil {
		return nil, err
	}
	return res.Context, nil
}

// Remove deletes the document for name and clears the cursor if it pointed
// at it. Removal is not a dispatcher command; it goes straight to the store.
func (a *App) Remove(ctx context.Context, name string) error {
	if err := a.Store.Remove(name); err != nil {
		return err
	}
	a.log.Debug().Ctx(ctx).Str("context", name).Msg("context removed")

	cursor, err := a.Cursor()
	if err != nil {
		return err
	}
	if cursor == name {
		if _, err := a.Run(ctx, Clear{}); err != nil {
			return err
		}
	}
	return nil
}
