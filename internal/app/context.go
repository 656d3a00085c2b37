package app

import "context"

// appKey is the context key under which commands find the App.
type appKey struct{}

// GetAppFromContext returns the App stored by SetAppInContext, or nil.
func GetAppFromContext(ctx context.Context) *App {
	if ctx == nil {
		return nil
	}
	a, _ := ctx.Value(appKey{}).(*App)
	return a
}

// SetAppInContext returns a copy of ctx carrying a.
func SetAppInContext(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, appKey{}, a)
}
