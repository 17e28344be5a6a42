package alertpush

import (
	"context"
	"strings"
	"time"

	"github.com/k3a/html2text"
	"github.com/patrickmn/go-cache"

	"github.com/tphakala/skydash/internal/errors"
	"github.com/tphakala/skydash/internal/format"
	"github.com/tphakala/skydash/internal/logger"
	"github.com/tphakala/skydash/internal/weather"
)

// DefaultDedupeWindow is how long a pushed alert is remembered.
const DefaultDedupeWindow = 24 * time.Hour

// Forwarder pushes each new alert once per dedupe window. Conditions are
// not forwarded.
type Forwarder struct {
	sender Sender
	seen   *cache.Cache
	loc    *time.Location
	log    logger.Logger
}

// NewForwarder creates a Forwarder. window <= 0 uses DefaultDedupeWindow.
func NewForwarder(sender Sender, window time.Duration, loc *time.Location, log logger.Logger) *Forwarder {
	if window <= 0 {
		window = DefaultDedupeWindow
	}
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Forwarder{
		sender: sender,
		seen:   cache.New(window, 0),
		loc:    loc,
		log:    log,
	}
}

// Name identifies the sink in logs and metrics.
func (f *Forwarder) Name() string { return "alertpush" }

// PublishConditions is a no-op.
func (f *Forwarder) PublishConditions(context.Context, *weather.Conditions, weather.Units) error {
	return nil
}

// PublishAlerts pushes alerts not seen within the window. An alert that
// fails to send is retried on the next call.
func (f *Forwarder) PublishAlerts(ctx context.Context, alerts []weather.Alert) error {
	f.seen.DeleteExpired()

	var errs []error
	for _, a := range alerts {
		key := a.Key()
		if _, ok := f.seen.Get(key); ok {
			continue
		}
		title, body := Message(a, f.loc)
		if err := f.sender.Send(ctx, title, body); err != nil {
			errs = append(errs, err)
			continue
		}
		f.seen.SetDefault(key, struct{}{})
		f.log.Info("alert pushed", logger.String("event", a.Event), logger.String("sender", a.Sender))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Message renders the push title and plain-text body for a.
func Message(a weather.Alert, loc *time.Location) (title, body string) {
	title = "Weather alert: " + a.Event

	var b strings.Builder
	b.WriteString(strings.TrimSpace(html2text.HTML2Text(a.Description)))
	if a.Sender != "" {
		b.WriteString("\n\nIssued by ")
		b.WriteString(a.Sender)
	}
	if !a.Start.IsZero() || !a.End.IsZero() {
		b.WriteString("\nFrom ")
		b.WriteString(format.DateTime(a.Start.In(loc)))
		b.WriteString(" to ")
		b.WriteString(format.DateTime(a.End.In(loc)))
	}
	return title, b.String()
}
