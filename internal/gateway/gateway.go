// Package gateway executes marketplace API requests. It attaches the
// session's access credential, renews it once on a 401 with concurrent
// renewals collapsed into a single call, and classifies every failure into
// the Kind taxonomy.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/nadermx/heroesandmore-client/internal/credentials"
	"github.com/nadermx/heroesandmore-client/internal/metrics"
	"github.com/nadermx/heroesandmore-client/pkg/logger"
)

const (
	defaultRequestTimeout  = 30 * time.Second
	defaultTransferTimeout = 60 * time.Second
	defaultRenewalTimeout  = 15 * time.Second
	defaultRenewalPath     = "/auth/token/refresh/"

	contentTypeJSON = "application/json"
)

// Gateway executes requests against one marketplace base URL. It is safe
// for concurrent use; requests run independently and only renewal is
// coordinated.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	store      credentials.Store
	log        *slog.Logger

	requestTimeout  time.Duration
	transferTimeout time.Duration
	renewalTimeout  time.Duration
	renewalPath     string

	limiter        *Throttle
	tracerProvider trace.TracerProvider

	// sessionMu guards the renewal critical section (read renewal
	// credential, exchange, write pair) against login and logout.
	sessionMu sync.Mutex
	renewals  singleflight.Group
}

// Option configures the Gateway.
type Option func(*Gateway)

// WithHTTPClient sets a custom HTTP client. Its Timeout should be zero;
// the gateway bounds each call with its own request or transfer timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *Gateway) {
		g.httpClient = hc
	}
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		g.log = l
	}
}

// WithRequestTimeout bounds ordinary JSON requests.
func WithRequestTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.requestTimeout = d
	}
}

// WithTransferTimeout bounds uploads and raw downloads.
func WithTransferTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.transferTimeout = d
	}
}

// WithRenewalTimeout bounds the credential renewal round trip.
func WithRenewalTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.renewalTimeout = d
	}
}

// WithRenewalPath overrides the renewal endpoint path.
func WithRenewalPath(p string) Option {
	return func(g *Gateway) {
		g.renewalPath = p
	}
}

// WithThrottle limits the outgoing request rate.
func WithThrottle(t *Throttle) Option {
	return func(g *Gateway) {
		g.limiter = t
	}
}

// WithTracing instruments the HTTP transport with OpenTelemetry spans.
func WithTracing(tp trace.TracerProvider) Option {
	return func(g *Gateway) {
		g.tracerProvider = tp
	}
}

// New creates a Gateway for baseURL that reads and renews credentials in
// store.
func New(baseURL string, store credentials.Store, opts ...Option) (*Gateway, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, invalidRequest(fmt.Sprintf("base URL %q is not absolute", baseURL), err)
	}

	g := &Gateway{
		baseURL:         strings.TrimRight(baseURL, "/"),
		httpClient:      &http.Client{},
		store:           store,
		log:             logger.Discard(),
		requestTimeout:  defaultRequestTimeout,
		transferTimeout: defaultTransferTimeout,
		renewalTimeout:  defaultRenewalTimeout,
		renewalPath:     defaultRenewalPath,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.tracerProvider != nil {
		hc := *g.httpClient
		base := hc.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		hc.Transport = otelhttp.NewTransport(base, otelhttp.WithTracerProvider(g.tracerProvider))
		g.httpClient = &hc
	}

	return g, nil
}

// BaseURL returns the marketplace base URL without a trailing slash.
func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// Request describes one marketplace API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Header http.Header

	// SkipRenewal reports a 401 as-is instead of renewing. Used by the
	// credential-issuing endpoints themselves.
	SkipRenewal bool
}

// Get is shorthand for a GET Execute.
func (g *Gateway) Get(ctx context.Context, path string, query url.Values, dst any) error {
	return g.Execute(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, dst)
}

// Post is shorthand for a POST Execute with a JSON body.
func (g *Gateway) Post(ctx context.Context, path string, body, dst any) error {
	return g.Execute(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, dst)
}

// Patch is shorthand for a PATCH Execute with a JSON body.
func (g *Gateway) Patch(ctx context.Context, path string, body, dst any) error {
	return g.Execute(ctx, Request{Method: http.MethodPatch, Path: path, Body: body}, dst)
}

// Put is shorthand for a PUT Execute with a JSON body.
func (g *Gateway) Put(ctx context.Context, path string, body, dst any) error {
	return g.Execute(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, dst)
}

// Delete is shorthand for a DELETE Execute.
func (g *Gateway) Delete(ctx context.Context, path string, dst any) error {
	return g.Execute(ctx, Request{Method: http.MethodDelete, Path: path}, dst)
}

// Execute sends req with a JSON body and decodes a JSON response into dst.
// dst may be nil when the response body is not needed.
func (g *Gateway) Execute(ctx context.Context, req Request, dst any) error {
	var payload []byte
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return invalidRequest("encoding request body", err)
		}
		payload = data
	}

	enc := func() (io.Reader, string, error) {
		if payload == nil {
			return nil, contentTypeJSON, nil
		}
		return bytes.NewReader(payload), contentTypeJSON, nil
	}

	body, err := g.send(ctx, req, g.requestTimeout, enc)
	if err != nil {
		return err
	}
	return decode(body, dst)
}

// Raw sends req and returns the undecoded response body. Used for file
// downloads; bounded by the transfer timeout.
func (g *Gateway) Raw(ctx context.Context, req Request) ([]byte, error) {
	enc := func() (io.Reader, string, error) {
		return nil, contentTypeJSON, nil
	}
	return g.send(ctx, req, g.transferTimeout, enc)
}

// bodyEncoder produces a fresh request body for each attempt.
type bodyEncoder func() (io.Reader, string, error)

// send runs the attempt, renewal and replay sequence and returns the body
// of a 2xx response.
func (g *Gateway) send(
	ctx context.Context,
	req Request,
	timeout time.Duration,
	enc bodyEncoder,
) ([]byte, error) {
	target, err := g.resolve(req)
	if err != nil {
		return nil, err
	}

	sess, err := credentials.LoadSession(ctx, g.store)
	if err != nil {
		return nil, invalidRequest("credential store unavailable", err)
	}

	status, body, err := g.attempt(ctx, req.Method, target, req.Header, sess.Access, timeout, enc)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized && !req.SkipRenewal {
		access, err := g.renew(ctx, sess.Access)
		if err != nil {
			return nil, err
		}

		status, body, err = g.attempt(ctx, req.Method, target, req.Header, access, timeout, enc)
		if err != nil {
			return nil, err
		}
	}

	if err := classify(status, body); err != nil {
		return nil, err
	}
	return body, nil
}

// resolve joins the base URL, path and query.
func (g *Gateway) resolve(req Request) (string, error) {
	if req.Method == "" {
		return "", invalidRequest("missing method", nil)
	}
	path := req.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	u, err := url.Parse(g.baseURL + path)
	if err != nil {
		return "", invalidRequest(fmt.Sprintf("malformed path %q", req.Path), err)
	}
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}
	return u.String(), nil
}

// attempt performs a single HTTP round trip. A non-nil error means no
// response was obtained.
func (g *Gateway) attempt(
	ctx context.Context,
	method, target string,
	extra http.Header,
	access string,
	timeout time.Duration,
	enc bodyEncoder,
) (int, []byte, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return 0, nil, networkFailure(err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, contentType, err := enc()
	if err != nil {
		return 0, nil, invalidRequest("encoding request body", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return 0, nil, invalidRequest("building request", err)
	}

	for k, vs := range extra {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", contentTypeJSON)
	if access != "" {
		httpReq.Header.Set("Authorization", "Bearer "+access)
	}

	start := time.Now()
	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		g.observe(method, start, KindNetworkFailure)
		g.log.Debug("request failed", "method", method, "url", target, "error", err)
		return 0, nil, networkFailure(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		g.observe(method, start, KindNetworkFailure)
		return 0, nil, networkFailure(fmt.Errorf("reading response body: %w", err))
	}

	g.observe(method, start, KindOf(classify(resp.StatusCode, nil)))
	g.log.Debug("request",
		"method", method,
		"url", target,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return resp.StatusCode, data, nil
}

func (*Gateway) observe(method string, start time.Time, kind Kind) {
	outcome := metrics.OutcomeOK
	if kind != 0 {
		outcome = kind.String()
	}
	metrics.GatewayRequestsTotal.WithLabelValues(method, outcome).Inc()
	metrics.GatewayRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

// decode unmarshals a 2xx body into dst. Empty bodies leave dst untouched.
func decode(body []byte, dst any) error {
	if dst == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &Error{Kind: KindDecodingFailed, Err: err}
	}
	return nil
}
