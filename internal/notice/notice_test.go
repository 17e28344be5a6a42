package notice

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/skydash/internal/errors"
)

func TestStandardNotices(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		n        Notice
		title    string
		message  string
		severity Severity
	}{
		{"empty_input", EmptyInput(), "Empty Input", "Please enter a city name", SeverityError},
		{"city_not_found", NotFound(false), "Not Found", "City not found!", SeverityWarning},
		{"location_not_found", NotFound(true), "Not Found", "Location not found!", SeverityWarning},
		{"fetch_failed", FetchFailed(), "Error", "Failed to fetch weather data.", SeverityError},
		{"geolocation_unsupported", GeolocationUnsupported(), "Error", "Geolocation is not supported.", SeverityError},
		{"location_unavailable", LocationUnavailable(), "Error", "Unable to get your location.", SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.title, tt.n.Title)
			assert.Equal(t, tt.message, tt.n.Message)
			assert.Equal(t, tt.severity, tt.n.Severity)
			_, err := uuid.Parse(tt.n.ID)
			require.NoError(t, err)
			assert.False(t, tt.n.Timestamp.IsZero())
		})
	}
}

func TestCenter_PendingOrder(t *testing.T) {
	t.Parallel()

	c := NewCenter(time.Minute)
	first := EmptyInput()
	second := FetchFailed()
	third := NotFound(false)
	c.Notify(first)
	c.Notify(second)
	c.Notify(third)

	pending := c.Pending()
	require.Len(t, pending, 3)
	assert.Equal(t, []string{first.ID, second.ID, third.ID}, []string{pending[0].ID, pending[1].ID, pending[2].ID})
	assert.Len(t, c.Pending(), 3, "Pending does not consume")
}

func TestCenter_Dismiss(t *testing.T) {
	t.Parallel()

	c := NewCenter(time.Minute)
	n := FetchFailed()
	c.Notify(n)

	require.NoError(t, c.Dismiss(n.ID))
	assert.Empty(t, c.Pending())

	err := c.Dismiss(n.ID)
	require.ErrorIs(t, err, ErrNoticeNotFound)
	assert.True(t, errors.IsNotFound(err))
}

func TestCenter_Drain(t *testing.T) {
	t.Parallel()

	c := NewCenter(time.Minute)
	c.Notify(EmptyInput())
	c.Notify(LocationUnavailable())

	drained := c.Drain()
	assert.Len(t, drained, 2)
	assert.Empty(t, c.Pending())
	assert.Empty(t, c.Drain())
}

func TestCenter_Expiry(t *testing.T) {
	t.Parallel()

	c := NewCenter(20 * time.Millisecond)
	c.Notify(EmptyInput())
	require.Len(t, c.Pending(), 1)

	assert.Eventually(t, func() bool { return len(c.Pending()) == 0 }, time.Second, 10*time.Millisecond)

	// Writes sweep expired entries.
	c.Notify(FetchFailed())
	assert.Equal(t, 1, c.Len())
}

func TestCenter_AssignsMissingID(t *testing.T) {
	t.Parallel()

	c := NewCenter(0)
	c.Notify(Notice{Title: "Hello", Message: "world", Severity: SeverityInfo})

	pending := c.Pending()
	require.Len(t, pending, 1)
	assert.NotEmpty(t, pending[0].ID)
	assert.Equal(t, "Hello", pending[0].Title)
}

func TestCenter_ConcurrentNotify(t *testing.T) {
	t.Parallel()

	c := NewCenter(time.Minute)
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Notify(New(SeverityInfo, "t", "m"))
		}()
	}
	wg.Wait()
	assert.Len(t, c.Pending(), 50)
}

func TestNotifierFunc(t *testing.T) {
	t.Parallel()

	var got []Notice
	var n Notifier = NotifierFunc(func(x Notice) { got = append(got, x) })
	n.Notify(EmptyInput())
	require.Len(t, got, 1)
	assert.Equal(t, "Empty Input", got[0].Title)
}
