package drive

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

// DefaultPageSize is the files.list page size.
const DefaultPageSize = 100

// Config holds the parsed request parameters.
type Config struct {
	// FolderID is the folder whose direct children are fetched.
	FolderID string
	// MimeTypeFilter limits fetching to specific MIME types (optional).
	MimeTypeFilter []string
	// PageSize is the page size for list requests.
	PageSize int64
}

// ParseConfig extracts configuration from connector params.
func ParseConfig(params map[string]string) (*Config, error) {
	cfg := &Config{
		FolderID: strings.TrimSpace(params["folder_id"]),
		PageSize: DefaultPageSize,
	}
	if cfg.FolderID == "" {
		return nil, fmt.Errorf("%w: google-drive: folder_id is required", domain.ErrConnectorValidation)
	}
	if strings.ContainsAny(cfg.FolderID, `'\`) {
		return nil, fmt.Errorf("%w: google-drive: malformed folder_id", domain.ErrConnectorValidation)
	}

	if val := params["mime_types"]; val != "" {
		for _, m := range strings.Split(val, ",") {
			if m = strings.TrimSpace(m); m != "" {
				cfg.MimeTypeFilter = append(cfg.MimeTypeFilter, m)
			}
		}
	}

	if val := params["page_size"]; val != "" {
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil || n <= 0 || n > 1000 {
			return nil, fmt.Errorf("%w: google-drive: page_size must be between 1 and 1000", domain.ErrConnectorValidation)
		}
		cfg.PageSize = n
	}
	return cfg, nil
}

// Query returns the files.list query selecting the folder's live files.
func (c *Config) Query() string {
	return fmt.Sprintf("'%s' in parents and trashed = false", c.FolderID)
}

// Allows reports whether the MIME type passes the filter.
func (c *Config) Allows(mimeType string) bool {
	if len(c.MimeTypeFilter) == 0 {
		return true
	}
	for _, m := range c.MimeTypeFilter {
		if m == mimeType {
			return true
		}
	}
	return false
}
