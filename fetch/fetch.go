// SPDX-License-Identifier: EPL-2.0

// Package fetch retrieves the raw bytes behind a resource locator. It is the
// network stage that image and audio loading run before decoding.
package fetch

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/ik5/mediakit/fetch"

// Fetcher resolves locators against a base URL or a local root and reads
// them whole. It holds no mutable state and is safe for concurrent use.
type Fetcher struct {
	client  *http.Client
	baseURL *url.URL
	root    string
	log     logrus.FieldLogger
	tracer  trace.Tracer
}

type Option func(*Fetcher)

// WithClient replaces the HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.client = &http.Client{Timeout: d} }
}

// WithBaseURL makes relative locators resolve against base instead of the
// filesystem root.
func WithBaseURL(base *url.URL) Option {
	return func(f *Fetcher) { f.baseURL = base }
}

// WithRoot sets the directory relative file locators are read from.
func WithRoot(dir string) Option {
	return func(f *Fetcher) { f.root = dir }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(f *Fetcher) { f.log = l }
}

func WithTracer(t trace.Tracer) Option {
	return func(f *Fetcher) { f.tracer = t }
}

func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: 30 * time.Second},
		root:   ".",
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		f.log = l
	}
	if f.tracer == nil {
		f.tracer = otel.Tracer(tracerName)
	}

	return f
}

// Fetch returns the bytes behind locator. Transport errors are wrapped with
// %w so callers can still match the underlying error.
func (f *Fetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	ctx, span := f.tracer.Start(ctx, "fetch", trace.WithAttributes(attribute.String("locator", locator)))
	defer span.End()

	data, err := f.fetch(ctx, locator)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		f.log.WithError(err).WithField("locator", locator).Debug("fetch failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("bytes", len(data)))
	f.log.WithFields(logrus.Fields{"locator": locator, "bytes": len(data)}).Debug("fetched")

	return data, nil
}

func (f *Fetcher) fetch(ctx context.Context, locator string) ([]byte, error) {
	if strings.TrimSpace(locator) == "" {
		return nil, ErrEmptyLocator
	}

	if strings.HasPrefix(locator, "data:") {
		return DecodeDataURI(locator)
	}

	u, err := url.Parse(locator)
	if err != nil || u.Scheme == "" || isWindowsDrive(u.Scheme) {
		if f.baseURL != nil && err == nil && u.Scheme == "" {
			return f.get(ctx, f.baseURL.ResolveReference(u).String())
		}
		return f.readFile(locator)
	}

	switch u.Scheme {
	case "http", "https":
		return f.get(ctx, u.String())
	case "file":
		return f.readFile(filepath.FromSlash(u.Path))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	return data, nil
}

func (f *Fetcher) readFile(name string) ([]byte, error) {
	if !filepath.IsAbs(name) {
		name = filepath.Join(f.root, name)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}

	return data, nil
}

func isWindowsDrive(scheme string) bool {
	return len(scheme) == 1
}

// DecodeDataURI returns the payload of a data: URI, handling both base64 and
// percent-encoded bodies.
func DecodeDataURI(uri string) ([]byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, ErrMalformedDataURI
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, ErrMalformedDataURI
	}

	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedDataURI, err)
		}
		return data, nil
	}

	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDataURI, err)
	}

	return []byte(text), nil
}
