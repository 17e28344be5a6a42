package mqtt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tphakala/skydash/internal/errors"
	"github.com/tphakala/skydash/internal/logger"
	"github.com/tphakala/skydash/internal/weather"
)

const (
	conditionsSubtopic = "/conditions"
	alertsSubtopic     = "/alerts"
)

// Publisher delivers conditions and alerts to the broker, connecting on
// first use.
type Publisher struct {
	client Client
	topic  string
	now    func() time.Time
	log    logger.Logger
}

// NewPublisher creates a Publisher writing under topic.
func NewPublisher(client Client, topic string, log logger.Logger) *Publisher {
	if log == nil {
		log = logger.Discard()
	}
	return &Publisher{client: client, topic: topic, now: time.Now, log: log}
}

// Name identifies the sink in logs and metrics.
func (p *Publisher) Name() string { return "mqtt" }

// PublishConditions publishes c as JSON to <topic>/conditions.
func (p *Publisher) PublishConditions(ctx context.Context, c *weather.Conditions, units weather.Units) error {
	if c == nil {
		return nil
	}
	return p.publish(ctx, p.topic+conditionsSubtopic, NewConditionsDTO(c, units, p.now()))
}

// PublishAlerts publishes alerts as a JSON array to <topic>/alerts.
func (p *Publisher) PublishAlerts(ctx context.Context, alerts []weather.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	return p.publish(ctx, p.topic+alertsSubtopic, NewAlertDTOs(alerts))
}

func (p *Publisher) publish(ctx context.Context, topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return errors.New(err).
			Component("mqtt").
			Category(errors.CategoryGeneric).
			Build()
	}

	if !p.client.IsConnected() {
		if err := p.client.Connect(ctx); err != nil {
			return err
		}
	}

	if err := p.client.Publish(ctx, topic, payload); err != nil {
		return err
	}
	p.log.Debug("published", logger.String("topic", topic), logger.Int("bytes", len(payload)))
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect()
}
