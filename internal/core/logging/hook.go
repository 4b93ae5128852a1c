package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts the command and context name from context and adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if cmd := GetCommand(ctx); cmd != "" {
		e.Str("cmd", cmd)
	}

	if name := GetContextName(ctx); name != "" {
		e.Str("context", name)
	}
}
