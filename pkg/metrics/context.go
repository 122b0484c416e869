package metrics

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// NewRelicContextKey is the context key holding the *newrelic.Application
// that events and metrics are reported to
type NewRelicContextKey struct{}

// NewContext attaches a New Relic application to ctx
func NewContext(ctx context.Context, app *newrelic.Application) context.Context {
	return context.WithValue(ctx, NewRelicContextKey{}, app)
}

func applicationFromContext(ctx context.Context) (*newrelic.Application, bool) {
	app, ok := ctx.Value(NewRelicContextKey{}).(*newrelic.Application)
	return app, ok && app != nil
}
