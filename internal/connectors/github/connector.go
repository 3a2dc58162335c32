package github

import (
	"context"
	"fmt"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Connector fetches repository files from GitHub.
type Connector struct {
	baseURL string
	limiter *RateLimiter
}

// Option configures a Connector.
type Option func(*Connector)

// WithBaseURL points the connector at another API root.
func WithBaseURL(base string) Option {
	return func(c *Connector) { c.baseURL = base }
}

// WithRateLimiter replaces the default limiter.
func WithRateLimiter(l *RateLimiter) Option {
	return func(c *Connector) { c.limiter = l }
}

// New creates a GitHub connector. The limiter is shared by all requests.
func New(opts ...Option) *Connector {
	c := &Connector{}
	for _, opt := range opts {
		opt(c)
	}
	if c.limiter == nil {
		c.limiter = NewRateLimiter(0)
	}
	return c
}

// Type returns the connector type identifier.
func (c *Connector) Type() domain.SourceType {
	return domain.SourceGitHub
}

// Fetch returns one document per repository file.
func (c *Connector) Fetch(ctx context.Context, cred domain.Credential, params map[string]string) ([]domain.Document, error) {
	cfg, err := ParseConfig(params)
	if err != nil {
		return nil, err
	}
	if cred.Token == "" {
		return nil, fmt.Errorf("%w: github: empty token", domain.ErrAuthInvalid)
	}

	client, err := NewClient(ctx, cred.Token, c.baseURL, c.limiter)
	if err != nil {
		return nil, err
	}
	return FetchFiles(ctx, client, cfg)
}
