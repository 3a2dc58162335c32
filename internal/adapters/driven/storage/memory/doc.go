// Package memory provides in-memory implementations of the store ports.
// Data lives only for the lifetime of the process; it backs tests and the
// "memory" database driver.
package memory
