package apper

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
	"strconv"
	"strings"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/sony/gobreaker/v2"
)

var _ port.RecordsClient = (*Client)(nil)

const maxBodySize = 10 << 20

var (
	ErrInvalidConfig = errors.New("invalid client config")
	ErrServerStatus  = errors.New("backend server error")
)

// A Config used for setup [Client].
//
// BaseURL and ProjectID are required.
type Config struct {
	BaseURL   string
	ProjectID string
	PublicKey string
	Timeout   time.Duration
}

func (c Config) validate() error {
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("%w: base url: %w", ErrInvalidConfig, err)
	}
	if c.ProjectID == "" {
		return fmt.Errorf("%w: project id is empty", ErrInvalidConfig)
	}
	return nil
}

type ClientOpt func(*clientOpts)

type clientOpts struct {
	httpClient *http.Client
	metrics    *Metrics
}

// HTTPClientOpt replaces the underlying http client.
func HTTPClientOpt(cl *http.Client) ClientOpt {
	return func(o *clientOpts) {
		o.httpClient = cl
	}
}

func MetricsOpt(m *Metrics) ClientOpt {
	return func(o *clientOpts) {
		o.metrics = m
	}
}

type reply struct {
	status int
	body   []byte
}

type statusError struct {
	reply reply
}

func (e *statusError) Error() string {
	return fmt.Sprintf("backend returned status %d", e.reply.status)
}

func (e *statusError) Unwrap() error {
	return ErrServerStatus
}

// A Client speaks the hosted backend records API.
//
// Requests are never retried. 5xx replies and transport errors count
// against a circuit breaker; while it is open calls fail immediately.
type Client struct {
	baseURL    string
	projectID  string
	publicKey  string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[reply]
	metrics    *Metrics
}

func NewClient(cfg Config, opts ...ClientOpt) (*Client, error) {
	const op = "NewClient"

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	options := clientOpts{
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		projectID:  cfg.ProjectID,
		publicKey:  cfg.PublicKey,
		httpClient: options.httpClient,
		breaker:    newBreaker("records-backend"),
		metrics:    options.metrics,
	}, nil
}

func newBreaker(name string) *gobreaker.CircuitBreaker[reply] {
	return gobreaker.NewCircuitBreaker[reply](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
}

func (c *Client) FetchRecords(
	ctx context.Context, table string, q domain.Query,
) (domain.ListResponse, error) {
	const op = "Client.FetchRecords"
	start := time.Now()

	path := "/api/v1/tables/" + url.PathEscape(table) + "/records/fetch"

	var res listResponse
	if err := c.query(ctx, path, q, &res); err != nil {
		c.metrics.observe("fetch_records", outcomeError, start)
		return domain.ListResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	c.metrics.observe("fetch_records", outcome(res.Success), start)
	return res.toDomain(), nil
}

func (c *Client) GetRecordByID(
	ctx context.Context, table string, id int64, q domain.Query,
) (domain.RecordResponse, error) {
	const op = "Client.GetRecordByID"
	start := time.Now()

	path := "/api/v1/tables/" + url.PathEscape(table) +
		"/records/" + strconv.FormatInt(id, 10)

	var res recordResponse
	if err := c.query(ctx, path, q, &res); err != nil {
		c.metrics.observe("get_record_by_id", outcomeError, start)
		return domain.RecordResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	c.metrics.observe("get_record_by_id", outcome(res.Success), start)
	return res.toDomain(), nil
}

// Ping checks the backend health endpoint.
//
// The health check bypasses the circuit breaker.
func (c *Client) Ping(ctx context.Context) error {
	const op = "Client.Ping"

	rep, err := c.roundTrip(ctx, http.MethodGet, "/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rep.status/100 != 2 {
		return fmt.Errorf("%s: %w", op, &statusError{rep})
	}
	return nil
}

// query posts q and decodes the backend envelope into v.
//
// A decodable envelope is kept whatever the status code, so the backend
// message reaches the caller.
func (c *Client) query(
	ctx context.Context, path string, q domain.Query, v envelope,
) error {
	body, err := json.Marshal(toQueryRequest(q))
	if err != nil {
		return err
	}

	rep, err := c.send(ctx, http.MethodPost, path, body)
	if err != nil {
		var se *statusError
		if !errors.As(err, &se) {
			return err
		}
		rep = se.reply
	}

	if decodeErr := json.Unmarshal(rep.body, v); decodeErr != nil {
		if err != nil {
			return err
		}
		if rep.status/100 != 2 {
			return &statusError{rep}
		}
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	v.applyStatus(rep.status)
	return nil
}

func (c *Client) send(
	ctx context.Context, method, path string, body []byte,
) (reply, error) {
	return c.breaker.Execute(func() (reply, error) {
		rep, err := c.roundTrip(ctx, method, path, body)
		if err != nil {
			return reply{}, err
		}
		if rep.status >= http.StatusInternalServerError {
			return reply{}, &statusError{rep}
		}
		return rep, nil
	})
}

func (c *Client) roundTrip(
	ctx context.Context, method, path string, body []byte,
) (reply, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return reply{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return reply{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return reply{}, fmt.Errorf("failed to read body: %w", err)
	}
	return reply{status: resp.StatusCode, body: b}, nil
}

func (c *Client) newRequest(
	ctx context.Context, method, path string, body []byte,
) (*http.Request, error) {
	var r io.Reader = http.NoBody
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Apper-Project-Id", c.projectID)
	if c.publicKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.publicKey)
	}
	return req, nil
}

func outcome(success bool) string {
	if success {
		return outcomeSuccess
	}
	return outcomeFailure
}
