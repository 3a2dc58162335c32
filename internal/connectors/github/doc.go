// Package github implements a connector for GitHub repositories.
//
// The connector reads one repository per request. It resolves the branch
// (the repository default when none is given), lists the recursive git tree
// and downloads every blob that survives the directory and extension
// filters. Each file becomes one document whose id is its path.
//
// # Parameters
//
//   - owner, repo: required repository coordinates
//   - branch: optional, defaults to the repository default branch
//   - include_dirs: comma separated path prefixes; empty means all
//   - exclude_exts: comma separated extensions to skip
//
// # Authentication
//
// The credential token is a personal access token or an OAuth access token.
// Both are sent as bearer tokens through golang.org/x/oauth2.
//
// # Rate limiting
//
// Requests are throttled proactively with a token bucket and reactively
// from the X-RateLimit-* response headers. See [RateLimiter].
package github
