// Package slack implements a connector for Slack channel history.
package slack

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	slackapi "github.com/slack-go/slack"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

const historyPageSize = 200

// Connector fetches conversation history, one document per channel.
type Connector struct {
	httpClient *http.Client
	apiURL     string
}

// Option configures a Connector.
type Option func(*Connector)

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(conn *Connector) { conn.httpClient = c }
}

// WithAPIURL points the connector at another API root.
func WithAPIURL(u string) Option {
	return func(conn *Connector) { conn.apiURL = strings.TrimSuffix(u, "/") + "/" }
}

// New creates a Slack connector.
func New(opts ...Option) *Connector {
	c := &Connector{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Type returns the connector type identifier.
func (c *Connector) Type() domain.SourceType {
	return domain.SourceSlack
}

// Fetch reads the history of every channel in channel_ids.
// oldest and latest bound the history by Slack timestamp.
func (c *Connector) Fetch(ctx context.Context, cred domain.Credential, params map[string]string) ([]domain.Document, error) {
	channels := splitIDs(params["channel_ids"])
	if len(channels) == 0 {
		return nil, fmt.Errorf("%w: slack: channel_ids is required", domain.ErrConnectorValidation)
	}
	if cred.Token == "" {
		return nil, fmt.Errorf("%w: slack: empty token", domain.ErrAuthInvalid)
	}

	var opts []slackapi.Option
	if c.httpClient != nil {
		opts = append(opts, slackapi.OptionHTTPClient(c.httpClient))
	}
	if c.apiURL != "" {
		opts = append(opts, slackapi.OptionAPIURL(c.apiURL))
	}
	api := slackapi.New(cred.Token, opts...)

	docs := make([]domain.Document, 0, len(channels))
	for _, channel := range channels {
		lines, err := history(ctx, api, channel, params["oldest"], params["latest"])
		if err != nil {
			return nil, err
		}
		docs = append(docs, domain.Document{
			ID:   channel,
			Text: strings.Join(lines, "\n"),
			Metadata: map[string]any{
				"channel":  channel,
				"messages": len(lines),
			},
		})
	}
	return docs, nil
}

// history returns the channel's messages oldest first.
func history(ctx context.Context, api *slackapi.Client, channel, oldest, latest string) ([]string, error) {
	var lines []string
	cursor := ""
	for {
		resp, err := api.GetConversationHistoryContext(ctx, &slackapi.GetConversationHistoryParameters{
			ChannelID: channel,
			Cursor:    cursor,
			Oldest:    oldest,
			Latest:    latest,
			Limit:     historyPageSize,
		})
		if err != nil {
			return nil, wrapError(err, channel)
		}
		for _, msg := range resp.Messages {
			if text := strings.TrimSpace(msg.Text); text != "" {
				lines = append(lines, text)
			}
		}
		cursor = resp.ResponseMetaData.NextCursor
		if !resp.HasMore || cursor == "" {
			break
		}
	}

	// Slack returns newest first.
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines, nil
}

func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// wrapError converts Slack API errors to domain errors.
func wrapError(err error, channel string) error {
	var rateErr *slackapi.RateLimitedError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: slack: retry after %s", domain.ErrRateLimited, rateErr.RetryAfter)
	}

	var apiErr slackapi.SlackErrorResponse
	if errors.As(err, &apiErr) {
		switch apiErr.Err {
		case "invalid_auth", "not_authed", "token_revoked", "account_inactive":
			return fmt.Errorf("%w: slack: %s", domain.ErrAuthInvalid, apiErr.Err)
		case "channel_not_found":
			return fmt.Errorf("%w: slack: channel %s", domain.ErrNotFound, channel)
		case "not_in_channel", "missing_scope":
			return fmt.Errorf("%w: slack: %s for channel %s", domain.ErrPermissionDenied, apiErr.Err, channel)
		}
	}
	return fmt.Errorf("slack: history of %s: %w", channel, err)
}
