package apper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/retry"
)

var _ port.RecordsClientProvider = (*Connector)(nil)

const defaultRoundDelay = 30 * time.Second

// A Connector provides the backend [Client] once the backend answered
// its health check. Until then RecordsClient returns nil.
type Connector struct {
	cfg        Config
	opts       []ClientOpt
	retryCfg   retry.RetryConfig
	roundDelay time.Duration
	client     atomic.Pointer[Client]
}

func NewConnector(cfg Config, opts ...ClientOpt) *Connector {
	return &Connector{
		cfg:  cfg,
		opts: opts,
		retryCfg: retry.RetryConfig{
			MaxAttempts: 8,
			Backoff:     retry.ExponentialBackoff(200 * time.Millisecond),
			ShouldRetry: retryable,
		},
		roundDelay: defaultRoundDelay,
	}
}

func retryable(err error) bool {
	return !errors.Is(err, ErrInvalidConfig) &&
		!errors.Is(err, context.Canceled)
}

// Connect creates the client and checks the backend health with bounded retries.
func (c *Connector) Connect(ctx context.Context) error {
	const op = "Connector.Connect"
	log := slog.With("op", op)

	cl, err := NewClient(c.cfg, c.opts...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = retry.Do(ctx, c.retryCfg, func() error {
		err := cl.Ping(ctx)
		if err != nil {
			log.Warn("backend is not ready", "err", err)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.client.Store(cl)
	log.Info("backend is available", "baseURL", c.cfg.BaseURL)
	return nil
}

// Run repeats Connect rounds, roundDelay apart, until the backend is
// available or ctx is done. An invalid config stops it at once.
func (c *Connector) Run(ctx context.Context) error {
	const op = "Connector.Run"
	log := slog.With("op", op)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		err := c.Connect(ctx)
		if err == nil {
			return nil
		}
		if !retryable(err) || ctx.Err() != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		log.Error("backend is unavailable, next round scheduled",
			"in", c.roundDelay, "err", err)

		timer.Reset(c.roundDelay)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-timer.C:
		}
	}
}

func (c *Connector) RecordsClient() port.RecordsClient {
	cl := c.client.Load()
	if cl == nil {
		return nil
	}
	return cl
}
