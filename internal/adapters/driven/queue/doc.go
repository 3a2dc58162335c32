// Package queue holds the job queue adapters. Every adapter carries
// domain.Job descriptors encoded with Encode and delivers them at least once.
package queue
