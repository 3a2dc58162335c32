// Package discord implements a connector for Discord channel messages.
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

const (
	// DefaultLimit is the number of messages read per channel.
	DefaultLimit = 100
	// MaxLimit caps limit at ten pages.
	MaxLimit = 1000
	pageSize = 100
)

// Connector reads channel messages with a bot token, one document per channel.
type Connector struct {
	httpClient *http.Client
}

// New creates a Discord connector. A nil httpClient uses discordgo's client.
func New(httpClient *http.Client) *Connector {
	return &Connector{httpClient: httpClient}
}

// Type returns the connector type identifier.
func (c *Connector) Type() domain.SourceType {
	return domain.SourceDiscord
}

// Fetch reads up to limit messages from each channel in channel_ids.
func (c *Connector) Fetch(ctx context.Context, cred domain.Credential, params map[string]string) ([]domain.Document, error) {
	channels := splitIDs(params["channel_ids"])
	if len(channels) == 0 {
		return nil, fmt.Errorf("%w: discord: channel_ids is required", domain.ErrConnectorValidation)
	}
	limit, err := parseLimit(params["limit"])
	if err != nil {
		return nil, err
	}
	if cred.Token == "" {
		return nil, fmt.Errorf("%w: discord: empty token", domain.ErrAuthInvalid)
	}

	session, err := discordgo.New("Bot " + strings.TrimPrefix(cred.Token, "Bot "))
	if err != nil {
		return nil, fmt.Errorf("discord: create session: %w", err)
	}
	if c.httpClient != nil {
		session.Client = c.httpClient
	}

	docs := make([]domain.Document, 0, len(channels))
	for _, channel := range channels {
		lines, err := readChannel(ctx, session, channel, limit)
		if err != nil {
			return nil, err
		}
		docs = append(docs, domain.Document{
			ID:   channel,
			Text: strings.Join(lines, "\n"),
			Metadata: map[string]any{
				"channel_id": channel,
				"messages":   len(lines),
			},
		})
	}
	return docs, nil
}

// readChannel pages backwards from the newest message and returns the
// lines oldest first.
func readChannel(ctx context.Context, s *discordgo.Session, channel string, limit int) ([]string, error) {
	var messages []*discordgo.Message
	before := ""
	for len(messages) < limit {
		n := min(pageSize, limit-len(messages))
		page, err := s.ChannelMessages(channel, n, before, "", "", discordgo.WithContext(ctx))
		if err != nil {
			return nil, wrapError(err, channel)
		}
		messages = append(messages, page...)
		if len(page) < n {
			break
		}
		before = page[len(page)-1].ID
	}

	lines := make([]string, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		text := strings.TrimSpace(m.Content)
		if text == "" {
			continue
		}
		if m.Author != nil && m.Author.Username != "" {
			text = m.Author.Username + ": " + text
		}
		lines = append(lines, text)
	}
	return lines, nil
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return DefaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > MaxLimit {
		return 0, fmt.Errorf("%w: discord: limit must be between 1 and %d", domain.ErrConnectorValidation, MaxLimit)
	}
	return n, nil
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

// wrapError converts discordgo REST errors to domain errors.
func wrapError(err error, channel string) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: discord: %w", domain.ErrAuthInvalid, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: discord: channel %s", domain.ErrPermissionDenied, channel)
		case http.StatusNotFound:
			return fmt.Errorf("%w: discord: channel %s", domain.ErrNotFound, channel)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: discord: channel %s", domain.ErrRateLimited, channel)
		}
	}
	return fmt.Errorf("discord: messages of %s: %w", channel, err)
}
