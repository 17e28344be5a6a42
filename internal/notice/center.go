package notice

import (
	"slices"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/tphakala/skydash/internal/errors"
)

// DefaultTTL is how long an undismissed notice is kept.
const DefaultTTL = 2 * time.Minute

// ErrNoticeNotFound is returned when dismissing an unknown or expired notice.
var ErrNoticeNotFound = errors.Newf("notice not found").
	Component("notice").
	Category(errors.CategoryNotFound).
	Build()

type entry struct {
	seq    uint64
	notice Notice
}

// Center keeps notices until they are dismissed, drained or expire.
// Safe for concurrent use.
type Center struct {
	items *cache.Cache
	seq   atomic.Uint64
}

// NewCenter creates a Center. ttl <= 0 uses DefaultTTL. Expired notices are
// swept on write, so no background goroutine is started.
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{items: cache.New(ttl, 0)}
}

// Notify stores n.
func (c *Center) Notify(n Notice) {
	if n.ID == "" {
		n = New(n.Severity, n.Title, n.Message)
	}
	c.items.DeleteExpired()
	c.items.Set(n.ID, entry{seq: c.seq.Add(1), notice: n}, cache.DefaultExpiration)
}

// Pending returns unexpired notices, oldest first.
func (c *Center) Pending() []Notice {
	items := c.items.Items()
	entries := make([]entry, 0, len(items))
	for _, item := range items {
		if e, ok := item.Object.(entry); ok {
			entries = append(entries, e)
		}
	}
	slices.SortFunc(entries, func(a, b entry) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})

	out := make([]Notice, len(entries))
	for i, e := range entries {
		out[i] = e.notice
	}
	return out
}

// Dismiss removes the notice with id.
func (c *Center) Dismiss(id string) error {
	if _, ok := c.items.Get(id); !ok {
		return ErrNoticeNotFound
	}
	c.items.Delete(id)
	return nil
}

// Drain returns pending notices and removes them.
func (c *Center) Drain() []Notice {
	pending := c.Pending()
	for _, n := range pending {
		c.items.Delete(n.ID)
	}
	return pending
}

// Len returns the number of stored notices, including expired ones not yet swept.
func (c *Center) Len() int {
	return c.items.ItemCount()
}
