package dashboard

import (
	"context"

	"github.com/tphakala/skydash/internal/weather"
)

// Sink receives rendered conditions and alerts for delivery outside the
// browser. Failures are logged and never reach the user.
type Sink interface {
	Name() string
	PublishConditions(ctx context.Context, c *weather.Conditions, units weather.Units) error
	PublishAlerts(ctx context.Context, alerts []weather.Alert) error
}
