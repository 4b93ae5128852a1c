package logging

import "context"

type contextKey string

const (
	contextNameKey contextKey = "context_name"
	commandKey     contextKey = "command"
)

// WithContextName adds the name of the outline context being operated on.
func WithContextName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, contextNameKey, name)
}

// WithCommand adds the dispatched command name to the context.
func WithCommand(ctx context.Context, cmd string) context.Context {
	return context.WithValue(ctx, commandKey, cmd)
}

// GetContextName retrieves the outline context name from the context.
// Returns empty string if not present.
func GetContextName(ctx context.Context) string {
	if name, ok := ctx.Value(contextNameKey).(string); ok {
		return name
	}
	return ""
}

// GetCommand retrieves the command name from the context.
// Returns empty string if not present.
func GetCommand(ctx context.Context) string {
	if cmd, ok := ctx.Value(commandKey).(string); ok {
		return cmd
	}
	return ""
}
