// Package gateway is the single entry point to the remote service-order API.
//
// Every domain call goes through Gateway.Call, which attaches the bearer
// credential, and on a 401 refreshes the credential pair once and replays the
// request once. Concurrent refreshes are collapsed into one upstream call.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/orderdesk/orderdesk/internal/core/domain"
	"github.com/orderdesk/orderdesk/internal/core/ports"
	"github.com/orderdesk/orderdesk/internal/pkg/metrics"
)

const (
	LoginPath   = "/api/token/"
	RefreshPath = "/api/token/refresh/"

	RequestIDHeader = "X-Request-ID"

	defaultTimeout = 30 * time.Second
	refreshKey     = "refresh"
)

// Config captures the upstream connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// RateLimit caps outgoing requests per second; 0 disables the limiter.
	RateLimit float64
	RateBurst int
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Gateway implements ports.Gateway over net/http.
type Gateway struct {
	baseURL   string
	client    *http.Client
	store     ports.CredentialStore
	limiter   *rate.Limiter
	refreshes singleflight.Group
	log       zerolog.Logger
}

var _ ports.Gateway = (*Gateway)(nil)

// New builds a Gateway reading and writing credentials through store.
func New(cfg Config, store ports.CredentialStore, log zerolog.Logger) *Gateway {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Gateway{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  client,
		store:   store,
		limiter: limiter,
		log:     log.With().Str("component", "gateway").Logger(),
	}
}

// Call issues an authenticated request. On a 401 it refreshes the pair at most
// once and replays the request exactly once; the replay's outcome is final.
// When the refresh fails the stored pair is erased and the original 401 is
// returned.
func (g *Gateway) Call(ctx context.Context, method, path string, body, out any) error {
	payload, err := encodeBody(body)
	if err != nil {
		return err
	}

	held, err := g.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}

	resp, err := g.send(ctx, method, path, payload, held.Access)
	if err != nil {
		return err
	}
	if resp.status != http.StatusUnauthorized {
		return resp.decode(out)
	}

	access, ok := g.renew(ctx, held.Access)
	if !ok {
		return resp.err()
	}

	retried, err := g.send(ctx, method, path, payload, access)
	if err != nil {
		return err
	}
	return retried.decode(out)
}

// renew returns an access credential to replay with after a 401 observed
// while using the credential used.
func (g *Gateway) renew(ctx context.Context, used string) (string, bool) {
	pair, err := g.coalescedRefresh(ctx, used)
	if err != nil {
		g.log.Warn().Err(err).Msg("credential refresh failed, session dropped")
		g.clear(ctx)
		return "", false
	}
	return pair.Access, true
}

// Refresh renews the credential pair. Callers arriving while a refresh is in
// flight share its result.
func (g *Gateway) Refresh(ctx context.Context) (domain.CredentialPair, error) {
	return g.coalescedRefresh(ctx, "")
}

// coalescedRefresh runs at most one refresh at a time. When stale is set and
// the store already holds a different access credential, another call has
// rotated the pair and that pair is returned without a network call.
func (g *Gateway) coalescedRefresh(ctx context.Context, stale string) (domain.CredentialPair, error) {
	v, err, shared := g.refreshes.Do(refreshKey, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		if stale != "" {
			if current, err := g.store.Load(ctx); err == nil && current.Access != "" && current.Access != stale {
				metrics.GatewayRefreshTotal.WithLabelValues("skipped").Inc()
				return current, nil
			}
		}
		return g.refresh(ctx)
	})
	if shared {
		g.log.Debug().Msg("joined in-flight credential refresh")
	}
	if err != nil {
		return domain.CredentialPair{}, err
	}
	return v.(domain.CredentialPair), nil
}

func (g *Gateway) refresh(ctx context.Context) (domain.CredentialPair, error) {
	held, err := g.store.Load(ctx)
	if err != nil {
		return domain.CredentialPair{}, fmt.Errorf("refresh: load credentials: %w", err)
	}
	if held.Refresh == "" {
		metrics.GatewayRefreshTotal.WithLabelValues("no_credential").Inc()
		return domain.CredentialPair{}, domain.ErrNoRefreshCredential
	}

	pair, err := g.exchange(ctx, RefreshPath, map[string]string{"refresh": held.Refresh})
	if err == nil && pair.Access == "" {
		err = errors.New("response carries no access credential")
	}
	if err != nil {
		metrics.GatewayRefreshTotal.WithLabelValues("rejected").Inc()
		g.clear(ctx)
		return domain.CredentialPair{}, fmt.Errorf("%w: %w", domain.ErrRefreshRejected, err)
	}

	// Without rotation the server answers with the access credential only.
	if pair.Refresh == "" {
		pair.Refresh = held.Refresh
	}
	if err := g.store.Save(ctx, pair); err != nil {
		g.clear(ctx)
		return domain.CredentialPair{}, fmt.Errorf("refresh: save credentials: %w", err)
	}

	metrics.GatewayRefreshTotal.WithLabelValues("success").Inc()
	if exp, ok := pair.AccessExpiresAt(); ok {
		g.log.Info().Time("access_expires_at", exp).Msg("credentials refreshed")
	} else {
		g.log.Info().Msg("credentials refreshed")
	}
	return pair, nil
}

// Login exchanges username and password for a credential pair and persists it.
func (g *Gateway) Login(ctx context.Context, creds domain.LoginCredentials) (domain.CredentialPair, error) {
	pair, err := g.exchange(ctx, LoginPath, creds)
	if err != nil {
		return domain.CredentialPair{}, err
	}
	if !pair.Complete() {
		return domain.CredentialPair{}, fmt.Errorf("login: %w", domain.ErrIncompleteCredentials)
	}
	if err := g.store.Save(ctx, pair); err != nil {
		return domain.CredentialPair{}, fmt.Errorf("login: save credentials: %w", err)
	}
	g.log.Info().Str("username", creds.Username).Msg("signed in")
	return pair, nil
}

// Logout erases the stored pair.
func (g *Gateway) Logout(ctx context.Context) error {
	if err := g.store.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	g.log.Info().Msg("signed out")
	return nil
}

// Ping reports whether the API answers at all. Any HTTP status counts as
// reachable; only transport failures are errors.
func (g *Gateway) Ping(ctx context.Context) error {
	_, err := g.send(ctx, http.MethodGet, LoginPath, nil, "")
	return err
}

// exchange posts an unauthenticated body to a token endpoint.
func (g *Gateway) exchange(ctx context.Context, path string, body any) (domain.CredentialPair, error) {
	payload, err := encodeBody(body)
	if err != nil {
		return domain.CredentialPair{}, err
	}
	resp, err := g.send(ctx, http.MethodPost, path, payload, "")
	if err != nil {
		return domain.CredentialPair{}, err
	}
	var pair domain.CredentialPair
	if err := resp.decode(&pair); err != nil {
		return domain.CredentialPair{}, err
	}
	return pair, nil
}

func (g *Gateway) clear(ctx context.Context) {
	if err := g.store.Clear(ctx); err != nil {
		g.log.Error().Err(err).Msg("failed to clear credentials")
	}
}

func (g *Gateway) send(ctx context.Context, method, path string, payload []byte, access string) (*response, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrTransport, method, path, err)
		}
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	start := time.Now()
	res, err := g.client.Do(req)
	metrics.GatewayRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GatewayTransportErrorsTotal.WithLabelValues(method).Inc()
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrTransport, method, path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		metrics.GatewayTransportErrorsTotal.WithLabelValues(method).Inc()
		return nil, fmt.Errorf("%w: read %s %s: %w", domain.ErrTransport, method, path, err)
	}
	metrics.GatewayRequestsTotal.WithLabelValues(method, strconv.Itoa(res.StatusCode)).Inc()

	g.log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", res.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("upstream call")

	return &response{status: res.StatusCode, statusText: statusText(res), body: data}, nil
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return payload, nil
}

func statusText(res *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(res.Status, strconv.Itoa(res.StatusCode)))
	if text == "" {
		text = http.StatusText(res.StatusCode)
	}
	return text
}
