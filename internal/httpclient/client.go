// Package httpclient builds the HTTP clients used for API calls: bounded
// timeouts, a redirect cap and a scheme allowlist on every hop.
package httpclient

import (
	"net"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
)

// Defaults for New
const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRedirects = 10
)

// Options configure New. Zero values take the defaults.
type Options struct {
	Timeout        time.Duration
	MaxRedirects   int
	AllowedSchemes []string // default: http, https
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxRedirects <= 0 {
		o.MaxRedirects = DefaultMaxRedirects
	}
	if len(o.AllowedSchemes) == 0 {
		o.AllowedSchemes = []string{"http", "https"}
	}
	return o
}

// New returns an http.Client that refuses redirects to disallowed URLs
func New(opts Options) *http.Client {
	opts = opts.withDefaults()
	dialer := &net.Dialer{
		Timeout:   opts.Timeout,
		KeepAlive: 30 * time.Second,
	}
	return &http.Client{
		Timeout: opts.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= opts.MaxRedirects {
				return errors.Newf("stopped after %d redirects", opts.MaxRedirects)
			}
			if err := ValidateURL(req.URL, opts.AllowedSchemes); err != nil {
				return errors.Wrap(err, "redirect blocked")
			}
			return nil
		},
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// ValidateURL checks that u uses an allowed scheme, names a host and
// carries no credentials
func ValidateURL(u *url.URL, schemes []string) error {
	if u == nil {
		return errors.New("empty URL")
	}
	if len(schemes) == 0 {
		schemes = []string{"http", "https"}
	}
	scheme := strings.ToLower(u.Scheme)
	if !slices.Contains(schemes, scheme) {
		return errors.Newf("scheme %q not allowed (allowed: %v)", scheme, schemes)
	}
	if u.User != nil {
		// http://evil.com@localhost/ style confusion
		return errors.New("URL must not contain credentials")
	}
	if u.Hostname() == "" {
		return errors.New("URL has no host")
	}
	return nil
}

// ParseBase parses an API base URL, validates it and ensures the trailing
// slash that relative request paths need
func ParseBase(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "parse url %q", raw)
	}
	if err := ValidateURL(u, nil); err != nil {
		return nil, errors.Wrapf(err, "invalid url %q", raw)
	}
	return u, nil
}
