package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/wanderbuddy/internal/logging"
	"github.com/aretw0/wanderbuddy/pkg/domain"
	"github.com/aretw0/wanderbuddy/pkg/observability"
	"github.com/aretw0/wanderbuddy/pkg/ports"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is where the backend listens in local development.
const DefaultBaseURL = "http://127.0.0.1:10000"

// DefaultTimeout bounds a single call. Package generation is slow.
const DefaultTimeout = 90 * time.Second

// maxBodySize caps how much of a response is read.
const maxBodySize = 8 << 20

// Client implements ports.Backend.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
	userAgent  string
}

var _ ports.Backend = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient injects the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-call timeout of the default *http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// WithRateLimit limits outgoing calls to rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMetrics records every call on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger configures a logger for the Client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logging.NewNop(),
		userAgent:  "wanderbuddy",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (ports.LoginResult, error) {
	var resp tokenResponse
	err := c.do(ctx, "login", http.MethodPost, "/auth/login", "", credentialsRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return ports.LoginResult{}, err
	}
	if resp.AccessToken == "" {
		return ports.LoginResult{}, &ResponseError{Operation: "login", StatusCode: http.StatusOK, Err: errors.New("response has no access_token")}
	}
	return ports.LoginResult{UserID: resp.UserID, AccessToken: resp.AccessToken}, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.do(ctx, "register", http.MethodPost, "/auth/register", "", credentialsRequest{Email: email, Password: password}, nil)
}

// FetchProfile returns nil if the profile exists; a 404 matches ports.ErrNotFound.
func (c *Client) FetchProfile(ctx context.Context, auth ports.Auth) error {
	return c.do(ctx, "profile_check", http.MethodGet, "/user/"+url.PathEscape(auth.UserID), auth.Token, nil, nil)
}

// CreateProfile stores the onboarding profile.
func (c *Client) CreateProfile(ctx context.Context, auth ports.Auth, profile domain.Profile) error {
	return c.do(ctx, "profile_create", http.MethodPost, "/user/profile", auth.Token, profile, nil)
}

// SuggestFromPrompt asks the backend for packages matching free text.
func (c *Client) SuggestFromPrompt(ctx context.Context, auth ports.Auth, prompt string) ([]domain.TravelPackage, error) {
	var resp packageResponse
	err := c.do(ctx, "suggest_prompt", http.MethodPost, "/suggest-packages/prompt", auth.Token,
		promptRequest{UserID: auth.UserID, Prompt: prompt}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Packages, nil
}

// SuggestFromFilters asks the backend for packages matching structured filters.
func (c *Client) SuggestFromFilters(ctx context.Context, auth ports.Auth, q domain.FilterQuery) ([]domain.TravelPackage, error) {
	q = q.Normalized()
	var resp packageResponse
	err := c.do(ctx, "suggest_filters", http.MethodPost, "/suggest-packages/filters", auth.Token, filterRequest{
		UserID:      auth.UserID,
		FromDate:    q.FromDate,
		ToDate:      q.ToDate,
		Destination: q.Destination,
		Budget:      q.Budget,
		TravelType:  string(q.TravelType),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Packages, nil
}

// SaveItinerary stores the selected package for the user.
func (c *Client) SaveItinerary(ctx context.Context, auth ports.Auth, pkg domain.TravelPackage) error {
	return c.do(ctx, "itinerary_save", http.MethodPost, "/itinerary/save", auth.Token,
		saveItineraryRequest{UserID: auth.UserID, SelectedPackage: pkg}, nil)
}

// ListItineraries returns the saved packages; a 404 means none were saved.
func (c *Client) ListItineraries(ctx context.Context, auth ports.Auth) ([]domain.TravelPackage, error) {
	var pkgs []domain.TravelPackage
	err := c.do(ctx, "itinerary_list", http.MethodGet, "/itinerary/"+url.PathEscape(auth.UserID), auth.Token, nil, &pkgs)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return []domain.TravelPackage{}, nil
		}
		return nil, err
	}
	return pkgs, nil
}

func (c *Client) do(ctx context.Context, op, method, path, token string, in, out any) (err error) {
	start := time.Now()
	requestID := uuid.NewString()
	defer func() {
		c.metrics.ObserveRequest(op, outcomeOf(err), time.Since(start))
		if err != nil {
			c.logger.Debug("backend call failed", "op", op, "request_id", requestID, "err", err)
		} else {
			c.logger.Debug("backend call", "op", op, "request_id", requestID, "elapsed", time.Since(start))
		}
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Operation: op, Err: err}
		}
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Operation: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &TransportError{Operation: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Operation: op, StatusCode: resp.StatusCode, Detail: detailOf(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &ResponseError{Operation: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
	}
	return nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeSuccess
	case errors.Is(err, ports.ErrNotFound):
		return observability.OutcomeNotFound
	case errors.Is(err, ports.ErrRejected):
		return observability.OutcomeRejected
	default:
		return observability.OutcomeError
	}
}
