// Package connectors holds the third-party source connectors. Each
// subpackage implements driven.Connector for one domain.SourceType:
//
//   - google/drive: files of a Drive folder
//   - notion: pages and their blocks
//   - slack: channel history
//   - discord: channel messages
//   - github: repository files
//
// Connectors are stateless; credentials arrive per call, resolved from the
// secret store. They are registered with the services ConnectorRegistry at
// startup, see [Default].
package connectors
