package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Client wraps the go-github client with rate limiting.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewClient creates a client authenticated with a static access token.
// base overrides the API URL (GitHub Enterprise or tests) when not empty.
func NewClient(ctx context.Context, token, base string, limiter *RateLimiter) (*Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout
	return newClient(tc, base, limiter)
}

func newClient(httpClient *http.Client, base string, limiter *RateLimiter) (*Client, error) {
	client := gh.NewClient(httpClient)
	if base != "" {
		u, err := url.Parse(strings.TrimSuffix(base, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("github: parse base url: %w", err)
		}
		client.BaseURL = u
	}
	if limiter == nil {
		limiter = NewRateLimiter(0)
	}
	return &Client{gh: client, rateLimiter: limiter}, nil
}

// GetRepository fetches a single repository.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*gh.Repository, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	repository, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	c.update(resp)
	if err != nil {
		return nil, wrapError(err, "get repo")
	}
	return repository, nil
}

// GetTree fetches the entire tree for a ref recursively.
func (c *Client) GetTree(ctx context.Context, owner, repo, ref string) (*gh.Tree, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	tree, resp, err := c.gh.Git.GetTree(ctx, owner, repo, ref, true)
	c.update(resp)
	if err != nil {
		return nil, wrapError(err, "get tree")
	}
	return tree, nil
}

// GetBlob fetches and decodes a blob by its SHA.
func (c *Client) GetBlob(ctx context.Context, owner, repo, sha string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	blob, resp, err := c.gh.Git.GetBlob(ctx, owner, repo, sha)
	c.update(resp)
	if err != nil {
		return nil, wrapError(err, "get blob")
	}

	if blob.GetEncoding() == "base64" {
		content := strings.ReplaceAll(blob.GetContent(), "\n", "")
		return base64.StdEncoding.DecodeString(content)
	}
	return []byte(blob.GetContent()), nil
}

func (c *Client) update(resp *gh.Response) {
	if resp != nil {
		c.rateLimiter.Update(resp.Response)
	}
}
