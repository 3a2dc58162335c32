// Package notion implements a connector for Notion pages.
//
// Each requested page becomes one document: the page title followed by the
// plain text of its top-level blocks.
package notion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jomei/notionapi"
	"golang.org/x/time/rate"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Notion allows an average of three requests per second per integration.
const (
	DefaultRate  = 3
	pageSize     = 100
	paramPageIDs = "page_ids"
)

// Connector fetches Notion pages.
type Connector struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a Notion connector. A nil httpClient uses the default client.
func New(httpClient *http.Client, limiter *rate.Limiter) *Connector {
	if limiter == nil {
		limiter = rate.NewLimiter(DefaultRate, DefaultRate)
	}
	return &Connector{httpClient: httpClient, limiter: limiter}
}

// Type returns the connector type identifier.
func (c *Connector) Type() domain.SourceType {
	return domain.SourceNotion
}

// Fetch returns one document per page id.
func (c *Connector) Fetch(ctx context.Context, cred domain.Credential, params map[string]string) ([]domain.Document, error) {
	ids := parsePageIDs(params[paramPageIDs])
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: notion: page_ids is required", domain.ErrConnectorValidation)
	}
	if cred.Token == "" {
		return nil, fmt.Errorf("%w: notion: empty token", domain.ErrAuthInvalid)
	}

	var opts []notionapi.ClientOption
	if c.httpClient != nil {
		opts = append(opts, notionapi.WithHTTPClient(c.httpClient))
	}
	client := notionapi.NewClient(notionapi.Token(cred.Token), opts...)

	docs := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		doc, err := c.fetchPage(ctx, client, id)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

func (c *Connector) fetchPage(ctx context.Context, client *notionapi.Client, id string) (*domain.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	page, err := client.Page.Get(ctx, notionapi.PageID(id))
	if err != nil {
		return nil, wrapError(err, "get page "+id)
	}

	title := pageTitle(page)
	lines, err := c.blockText(ctx, client, id)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	if title != "" {
		text.WriteString(title)
		text.WriteString("\n\n")
	}
	text.WriteString(strings.Join(lines, "\n"))

	return &domain.Document{
		ID:   id,
		Text: text.String(),
		Metadata: map[string]any{
			"page_id": id,
			"title":   title,
			"url":     page.URL,
		},
	}, nil
}

// blockText pages through the children of a block.
func (c *Connector) blockText(ctx context.Context, client *notionapi.Client, id string) ([]string, error) {
	var lines []string
	pagination := &notionapi.Pagination{PageSize: pageSize}
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		resp, err := client.Block.GetChildren(ctx, notionapi.BlockID(id), pagination)
		if err != nil {
			return nil, wrapError(err, "get blocks of "+id)
		}
		for _, block := range resp.Results {
			if line := blockPlainText(block); line != "" {
				lines = append(lines, line)
			}
		}
		if !resp.HasMore || resp.NextCursor == "" {
			return lines, nil
		}
		pagination = &notionapi.Pagination{PageSize: pageSize, StartCursor: notionapi.Cursor(resp.NextCursor)}
	}
}

func parsePageIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// wrapError converts Notion API errors to domain errors.
func wrapError(err error, operation string) error {
	var apiErr *notionapi.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("notion: %s: %w", operation, err)
	}
	switch apiErr.Status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: notion: %s: %s", domain.ErrAuthInvalid, operation, apiErr.Message)
	case http.StatusForbidden:
		return fmt.Errorf("%w: notion: %s: %s", domain.ErrPermissionDenied, operation, apiErr.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: notion: %s: %s", domain.ErrNotFound, operation, apiErr.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: notion: %s", domain.ErrRateLimited, operation)
	}
	return fmt.Errorf("notion: %s: %w", operation, err)
}
