// Package google provides shared infrastructure for Google API connectors.
//
// It contains the service factory that turns a resolved credential into an
// authenticated Drive client, the mapping of Google API errors (401, 403,
// 404, 429) onto domain errors, and rate limiting that keeps requests under
// the per-user quota.
//
// The drive subpackage builds on it:
//
//	svc, err := google.NewDriveService(ctx, cred.Token)
//
// # OAuth2 Scopes
//
// Tokens need https://www.googleapis.com/auth/drive.readonly.
package google
