package github

import (
	"fmt"
	"strings"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

// DefaultExcludeExts are skipped unless exclude_exts is given.
var DefaultExcludeExts = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", "json", ".ipynb"}

// Config holds the parsed request parameters.
type Config struct {
	Owner       string
	Repo        string
	Branch      string
	IncludeDirs []string
	ExcludeExts []string
}

// ParseConfig parses connector params into a Config.
func ParseConfig(params map[string]string) (*Config, error) {
	cfg := &Config{
		Owner:       strings.TrimSpace(params["owner"]),
		Repo:        strings.TrimSpace(params["repo"]),
		Branch:      strings.TrimSpace(params["branch"]),
		IncludeDirs: splitList(params["include_dirs"]),
		ExcludeExts: DefaultExcludeExts,
	}
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("%w: github: owner and repo are required", domain.ErrConnectorValidation)
	}
	if raw, ok := params["exclude_exts"]; ok {
		cfg.ExcludeExts = splitList(raw)
	}
	return cfg, nil
}

// Includes reports whether a tree path passes the directory and extension filters.
func (c *Config) Includes(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range c.ExcludeExts {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return false
		}
	}
	if len(c.IncludeDirs) == 0 {
		return true
	}
	for _, dir := range c.IncludeDirs {
		if strings.HasPrefix(path, strings.TrimPrefix(dir, "/")) {
			return true
		}
	}
	return false
}

// splitList parses a comma separated list, dropping empty items.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
