// Package drive implements the Google Drive connector.
package drive

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/mhsabu/Neugrove/internal/connectors/google"
	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
	"github.com/mhsabu/Neugrove/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// listFields are the file fields requested from files.list.
const listFields = "nextPageToken, files(id, name, mimeType, size, webViewLink, modifiedTime, trashed)"

// Connector fetches the files of a Drive folder.
type Connector struct {
	limiter *google.RateLimiter
	options []option.ClientOption
}

// New creates a Drive connector. opts are passed to every Drive service,
// for example option.WithEndpoint.
func New(limiter *google.RateLimiter, opts ...option.ClientOption) *Connector {
	if limiter == nil {
		limiter = google.NewRateLimiter(google.DriveRateLimit)
	}
	return &Connector{limiter: limiter, options: opts}
}

// Type returns the connector type identifier.
func (c *Connector) Type() domain.SourceType {
	return domain.SourceGoogleDrive
}

// Fetch returns one document per text file in the folder.
func (c *Connector) Fetch(ctx context.Context, cred domain.Credential, params map[string]string) ([]domain.Document, error) {
	cfg, err := ParseConfig(params)
	if err != nil {
		return nil, err
	}
	if cred.Token == "" {
		return nil, fmt.Errorf("%w: google-drive: empty token", domain.ErrAuthInvalid)
	}

	svc, err := google.NewDriveService(ctx, cred.Token, c.options...)
	if err != nil {
		return nil, err
	}

	files, err := c.listFiles(ctx, svc, cfg)
	if err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(files))
	for _, file := range files {
		doc, err := fileToDocument(ctx, svc, c.limiter, file)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, domain.ErrAuthInvalid) || errors.Is(err, domain.ErrRateLimited) {
				return nil, err
			}
			logger.Warn("google-drive: skipping %s: %v", file.Name, err)
			continue
		}
		if doc != nil {
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}

// listFiles pages through the folder listing.
func (c *Connector) listFiles(ctx context.Context, svc *drive.Service, cfg *Config) ([]*drive.File, error) {
	var files []*drive.File
	pageToken := ""
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := svc.Files.List().
			Q(cfg.Query()).
			Fields(listFields).
			PageSize(cfg.PageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			err = google.WrapError(err)
			if errors.Is(err, domain.ErrRateLimited) {
				c.limiter.Backoff(0)
			}
			return nil, fmt.Errorf("list folder %s: %w", cfg.FolderID, err)
		}

		for _, f := range resp.Files {
			if f.MimeType != MimeTypeFolder && cfg.Allows(f.MimeType) {
				files = append(files, f)
			}
		}

		if resp.NextPageToken == "" {
			return files, nil
		}
		pageToken = resp.NextPageToken
	}
}
