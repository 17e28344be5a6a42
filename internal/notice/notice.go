// Package notice implements user-facing notices and an expiring inbox the
// page polls.
package notice

import (
	"time"

	"github.com/google/uuid"
)

// Severity of a notice, matching the page's popup icons.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
)

// Notice is one message shown to the user.
type Notice struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates a notice with a unique ID.
func New(severity Severity, title, message string) Notice {
	return Notice{
		ID:        uuid.New().String(),
		Title:     title,
		Message:   message,
		Severity:  severity,
		Timestamp: time.Now(),
	}
}

// Notifier receives notices.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notice) { f(n) }

// Standard notices raised by the dashboard.

func EmptyInput() Notice {
	return New(SeverityError, "Empty Input", "Please enter a city name")
}

// NotFound is raised when the provider cannot resolve the query. byLocation
// selects the wording used for geolocation lookups.
func NotFound(byLocation bool) Notice {
	if byLocation {
		return New(SeverityWarning, "Not Found", "Location not found!")
	}
	return New(SeverityWarning, "Not Found", "City not found!")
}

func FetchFailed() Notice {
	return New(SeverityError, "Error", "Failed to fetch weather data.")
}

func GeolocationUnsupported() Notice {
	return New(SeverityError, "Error", "Geolocation is not supported.")
}

func LocationUnavailable() Notice {
	return New(SeverityError, "Error", "Unable to get your location.")
}
