package inn

import (
	"context"
	"time"

	"github.com/hay-kot/inn/internal/core/config"
	"github.com/hay-kot/inn/internal/core/contexts"
	"github.com/hay-kot/inn/internal/core/doctor"
	"github.com/hay-kot/inn/internal/store/yamlfile"
)

// DoctorService runs health checks on the inn setup.
type DoctorService struct {
	config  *config.Config
	backend contexts.Backend
	cursor  CursorStore
	now     func() time.Time
}

// NewDoctorService creates a new DoctorService.
func NewDoctorService(cfg *config.Config, backend contexts.Backend, cursor CursorStore, now func() time.Time) *DoctorService {
	return &DoctorService{
		config:  cfg,
		backend: backend,
		cursor:  cursor,
		now:     now,
	}
}

// RunChecks executes all doctor checks and returns results.
func (d *DoctorService) RunChecks(ctx context.Context, configPath string, autofix bool) []doctor.Result {
	checks := []doctor.Check{
		doctor.NewConfigCheck(d.config, configPath),
		doctor.NewDocumentsCheck(d.backend, d.now),
	}

	st, err := d.cursor.Load()
	names, nerr := d.backend.Names()
	if err == nil && nerr == nil {
		clearCursor := func() error { return d.cursor.Save(yamlfile.State{}) }
		checks = append(checks, doctor.NewCursorCheck(st.NowContext, names, clearCursor, autofix))
	}

	return doctor.RunAll(ctx, checks)
}
