package contextutil

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	loggerKey contextKey = "logger"
	userKey   contextKey = "user"
	themeKey  contextKey = "theme"
)

// Themes a page can be rendered with.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// LoggerFromContext extracts a logger from context if available, otherwise returns the default logger.
// This helper can be used by any package that needs to extract a logger from context.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctxLogger := ctx.Value(loggerKey); ctxLogger != nil {
		if l, ok := ctxLogger.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithUser returns a copy of ctx carrying the authenticated username.
func WithUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, userKey, username)
}

// UserFromContext returns the authenticated username, or "" if the request is anonymous.
func UserFromContext(ctx context.Context) string {
	user, _ := ctx.Value(userKey).(string)
	return user
}

// WithTheme returns a copy of ctx carrying the page theme.
func WithTheme(ctx context.Context, theme string) context.Context {
	return context.WithValue(ctx, themeKey, theme)
}

// ThemeFromContext returns the page theme, defaulting to light.
func ThemeFromContext(ctx context.Context) string {
	if theme, ok := ctx.Value(themeKey).(string); ok && theme == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}
