package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"yoladmin/pkg/logger"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is used when Options.BaseURL is empty.
const DefaultBaseURL = "http://localhost:8000/api"

// BreakerSettings enables the circuit breaker in front of the backend.
type BreakerSettings struct {
	Name         string
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
}

func DefaultBreakerSettings(name string) BreakerSettings {
	return BreakerSettings{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	// Timeout applies when HTTPClient is nil.
	Timeout time.Duration
	Storage Storage
	// RequestsPerSecond paces outbound requests; 0 disables pacing.
	RequestsPerSecond float64
	Breaker           *BreakerSettings
	Observer          Observer
	// OnUnauthenticated runs after the session was cleared by a failed
	// refresh or a logout. It is the hook that sends the operator to login.
	OnUnauthenticated func()
}

// Client talks to the admin REST backend on behalf of one operator session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *SessionStore
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	observer   Observer
	onUnauth   func()

	refreshGroup singleflight.Group
}

func New(ctx context.Context, opts Options) (*Client, error) {
	session, err := NewSessionStore(ctx, opts.Storage)
	if err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		session:    session,
		observer:   opts.Observer,
		onUnauth:   opts.OnUnauthenticated,
	}
	if c.observer == nil {
		c.observer = NoopObserver{}
	}
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	if opts.Breaker != nil {
		c.breaker = newBreaker(*opts.Breaker)
	}
	return c, nil
}

// Session exposes the token store, mostly for the auth guard and tests.
func (c *Client) Session() *SessionStore {
	return c.session
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func newBreaker(cfg BreakerSettings) *gobreaker.CircuitBreaker[*http.Response] {
	log := logger.Named("breaker")
	return gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// roundTrip performs one HTTP exchange, through the breaker when enabled.
// 5xx answers are turned into *APIError inside the breaker so they count
// as failures.
func (c *Client) roundTrip(req *http.Request) (*http.Response, error) {
	if c.breaker == nil {
		return c.httpClient.Do(req)
	}
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			return nil, parseErrorResponse(resp)
		}
		return resp, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("backend unavailable: %w", err)
	}
	return resp, err
}
