package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Client issues typed requests against the control-plane API.
//
// None of the methods retry: the resource store and the caller own that
// decision. Every method honors context cancellation; an aborted request
// surfaces as ErrNetwork wrapping the context error.
type Client interface {
	ListTenants(ctx context.Context, p Params) (Page[Tenant], error)
	GetTenant(ctx context.Context, id string) (Tenant, error)

	ListPolicies(ctx context.Context, p Params) (Page[Policy], error)
	GetPolicy(ctx context.Context, id string) (Policy, error)

	ListWorkflows(ctx context.Context, p Params) (Page[Workflow], error)
	GetWorkflow(ctx context.Context, id string) (Workflow, error)

	ListLineageEvents(ctx context.Context, p Params) (Page[LineageEvent], error)

	// Health probes the API root. A nil error means the backend answered 2xx.
	Health(ctx context.Context) error
}

type client struct {
	hc     *http.Client
	base   string
	token  string
	logger *slog.Logger
	tracer trace.Tracer
}

// Option adjusts a client at construction time.
type Option func(*client)

// WithToken attaches a bearer token to every request.
func WithToken(token string) Option {
	return func(c *client) { c.token = token }
}

// WithLogger sets the request logger. Nil loggers are replaced with a
// discard handler so call sites never nil-check.
func WithLogger(logger *slog.Logger) Option {
	return func(c *client) { c.logger = logger }
}

// WithHTTPClient overrides the underlying http.Client (tests, custom TLS).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) { c.hc = hc }
}

// NewClient builds a Client against baseURL.
func NewClient(baseURL string, opts ...Option) Client {
	c := &client{
		hc:     &http.Client{Timeout: 30 * time.Second},
		base:   strings.TrimSuffix(baseURL, "/"),
		tracer: otel.Tracer("planedeck/api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// apipath joins path segments under the configured base URL.
func (c *client) apipath(path ...string) string {
	parts := append([]string{c.base}, path...)
	for i, p := range parts[1:] {
		parts[i+1] = strings.Trim(p, "/")
	}
	return strings.Join(parts, "/")
}

// do performs one GET and hands the 2xx body to the caller via decode.
func (c *client) do(ctx context.Context, rawURL string, decode func(io.Reader) error) error {
	ctx, span := c.tracer.Start(ctx, "api.get", trace.WithAttributes(attribute.String("url", rawURL)))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return joinNetwork(err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("status", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := errorFromResponse(resp)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if decode == nil {
		return nil
	}
	if err := decode(resp.Body); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return &DecodeError{Cause: err}
	}
	return nil
}

func joinNetwork(err error) error {
	return &networkError{cause: err}
}

type networkError struct {
	cause error
}

func (e *networkError) Error() string { return "network failure: " + e.cause.Error() }

func (e *networkError) Unwrap() error { return e.cause }

func (e *networkError) Is(target error) bool { return target == ErrNetwork }

// getJSON fetches a URL and decodes the body into T.
func getJSON[T any](ctx context.Context, c *client, rawURL string) (T, error) {
	var out T
	err := c.do(ctx, rawURL, func(r io.Reader) error {
		return json.NewDecoder(r).Decode(&out)
	})
	return out, err
}

// listURL builds the collection URL for a kind with params applied.
func (c *client) listURL(kind ResourceKind, p Params) string {
	u := c.apipath(string(kind))
	if q := p.Encode(); q != "" {
		u += "?" + q
	}
	return u
}

func (c *client) ListTenants(ctx context.Context, p Params) (Page[Tenant], error) {
	return getJSON[Page[Tenant]](ctx, c, c.listURL(KindTenant, p))
}

func (c *client) GetTenant(ctx context.Context, id string) (Tenant, error) {
	return getJSON[Tenant](ctx, c, c.apipath(string(KindTenant), id))
}

func (c *client) ListPolicies(ctx context.Context, p Params) (Page[Policy], error) {
	return getJSON[Page[Policy]](ctx, c, c.listURL(KindPolicy, p))
}

func (c *client) GetPolicy(ctx context.Context, id string) (Policy, error) {
	return getJSON[Policy](ctx, c, c.apipath(string(KindPolicy), id))
}

func (c *client) ListWorkflows(ctx context.Context, p Params) (Page[Workflow], error) {
	return getJSON[Page[Workflow]](ctx, c, c.listURL(KindWorkflow, p))
}

func (c *client) GetWorkflow(ctx context.Context, id string) (Workflow, error) {
	return getJSON[Workflow](ctx, c, c.apipath(string(KindWorkflow), id))
}

func (c *client) ListLineageEvents(ctx context.Context, p Params) (Page[LineageEvent], error) {
	return getJSON[Page[LineageEvent]](ctx, c, c.listURL(KindLineageEvent, p))
}

func (c *client) Health(ctx context.Context) error {
	return c.do(ctx, c.apipath("healthz"), nil)
}
