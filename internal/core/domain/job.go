package domain

import "time"

// JobKind names a background job.
type JobKind string

const (
	JobExtractFile JobKind = "extract_ingest_file"
	JobExtractURL  JobKind = "extract_ingest_url"
)

// Job is the descriptor published to the queue. Workers look the ingest up
// by id, so the message never carries file content.
type Job struct {
	Kind       JobKind   `json:"kind"`
	IngestID   int64     `json:"ingest_id"`
	Attempt    int       `json:"attempt"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewJob creates a first-attempt job for an ingest.
func NewJob(kind JobKind, ingestID int64) Job {
	return Job{
		Kind:       kind,
		IngestID:   ingestID,
		Attempt:    1,
		EnqueuedAt: time.Now().UTC(),
	}
}
