package report

import (
	"github.com/tphakala/skydash/internal/forecast"
	"github.com/tphakala/skydash/internal/format"
	"github.com/tphakala/skydash/internal/weather"
)

// DailyCard is one forecast day.
type DailyCard struct {
	Day         string `json:"day"`
	Icon        string `json:"icon"`
	Temperature string `json:"temperature"`
	Condition   string `json:"condition"`
}

// AlertView is one rendered alert.
type AlertView struct {
	Event       string `json:"event"`
	Description string `json:"description"`
	Sender      string `json:"sender,omitempty"`
	From        string `json:"from"`
	To          string `json:"to"`
}

// Cards renders the daily entries.
func (r *Renderer) Cards(entries []forecast.DailyEntry, units weather.Units) []DailyCard {
	if len(entries) == 0 {
		return nil
	}
	cards := make([]DailyCard, len(entries))
	for i, e := range entries {
		cards[i] = DailyCard{
			Day:         format.DayLabel(e.Day, r.lang),
			Icon:        weather.IconFor(e.Sample.Condition),
			Temperature: format.Temperature(e.Sample.Temperature, units),
			Condition:   string(e.Sample.Condition),
		}
	}
	return cards
}

// Alerts renders alerts with local from/to times.
func (r *Renderer) Alerts(alerts []weather.Alert) []AlertView {
	if len(alerts) == 0 {
		return nil
	}
	views := make([]AlertView, len(alerts))
	for i, a := range alerts {
		views[i] = AlertView{
			Event:       a.Event,
			Description: a.Description,
			Sender:      a.Sender,
			From:        format.DateTime(localize(a.Start, r.loc)),
			To:          format.DateTime(localize(a.End, r.loc)),
		}
	}
	return views
}
