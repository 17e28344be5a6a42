// Package alertpush forwards weather alerts to push services through shoutrrr.
package alertpush

import (
	"context"
	"io"
	"log"
	"slices"
	"time"

	shoutrrr "github.com/nicholas-fedor/shoutrrr"
	router "github.com/nicholas-fedor/shoutrrr/pkg/router"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"

	"github.com/tphakala/skydash/internal/errors"
)

// Sender delivers one message.
type Sender interface {
	Send(ctx context.Context, title, body string) error
}

// ShoutrrrSender sends to every configured service URL.
type ShoutrrrSender struct {
	router *router.ServiceRouter
	urls   []string
}

// NewShoutrrrSender validates urls and builds the router.
func NewShoutrrrSender(urls []string, timeout time.Duration) (*ShoutrrrSender, error) {
	if len(urls) == 0 {
		return nil, errors.Newf("at least one push URL is required").
			Component("alertpush").
			Category(errors.CategoryConfiguration).
			Build()
	}
	r, err := shoutrrr.CreateSender(urls...)
	if err != nil {
		// The raw error may echo tokens embedded in the URL.
		return nil, errors.Newf("invalid push URL configuration").
			Component("alertpush").
			Category(errors.CategoryConfiguration).
			Context("urls", len(urls)).
			Build()
	}
	if timeout > 0 {
		r.Timeout = timeout
	}
	r.SetLogger(log.New(io.Discard, "", 0))
	return &ShoutrrrSender{router: r, urls: slices.Clone(urls)}, nil
}

// Send delivers body with title to all services and returns the first failure.
func (s *ShoutrrrSender) Send(_ context.Context, title, body string) error {
	params := stypes.Params{}
	if title != "" {
		params.SetTitle(title)
	}
	for _, err := range s.router.Send(body, &params) {
		if err != nil {
			return errors.Newf("push delivery failed").
				Component("alertpush").
				Category(errors.CategoryIntegration).
				Build()
		}
	}
	return nil
}
