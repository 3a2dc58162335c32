package github

import (
	"context"
	"fmt"
	"path"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/logger"
)

// MaxFileSize skips blobs larger than 1MB.
const MaxFileSize = 1024 * 1024

// FetchFiles downloads every file of the branch that passes the filters.
func FetchFiles(ctx context.Context, client *Client, cfg *Config) ([]domain.Document, error) {
	branch := cfg.Branch
	if branch == "" {
		repo, err := client.GetRepository(ctx, cfg.Owner, cfg.Repo)
		if err != nil {
			return nil, err
		}
		branch = repo.GetDefaultBranch()
	}

	tree, err := client.GetTree(ctx, cfg.Owner, cfg.Repo, branch)
	if err != nil {
		return nil, err
	}
	if tree.GetTruncated() {
		logger.Warn("github: tree of %s/%s@%s is truncated", cfg.Owner, cfg.Repo, branch)
	}

	docs := make([]domain.Document, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		filePath := entry.GetPath()
		if entry.GetType() != "blob" || !cfg.Includes(filePath) || isBinaryExtension(filePath) {
			continue
		}
		if entry.GetSize() > MaxFileSize {
			continue
		}

		content, err := client.GetBlob(ctx, cfg.Owner, cfg.Repo, entry.GetSHA())
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("github: skipping %s: %v", filePath, err)
			continue
		}

		docs = append(docs, domain.Document{
			ID:   filePath,
			Text: string(content),
			Metadata: map[string]any{
				"file_path": filePath,
				"file_name": path.Base(filePath),
				"url":       fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s", cfg.Owner, cfg.Repo, branch, filePath),
				"sha":       entry.GetSHA(),
				"owner":     cfg.Owner,
				"repo":      cfg.Repo,
				"branch":    branch,
			},
		})
	}
	return docs, nil
}

var binaryExts = map[string]bool{
	".exe": true, ".dll": true, ".so": true, ".dylib": true,
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".7z": true,
	".webp": true, ".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
	".bin": true, ".db": true, ".sqlite": true, ".pyc": true, ".class": true, ".o": true, ".a": true,
}

// isBinaryExtension checks if a file extension indicates a binary file.
func isBinaryExtension(p string) bool {
	return binaryExts[path.Ext(p)]
}
