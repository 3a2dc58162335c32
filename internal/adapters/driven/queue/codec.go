package queue

import (
	"encoding/json"
	"fmt"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

// Encode serialises a job for a message body.
func Encode(job domain.Job) ([]byte, error) {
	b, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("encoding job: %w", err)
	}
	return b, nil
}

// Decode parses a message body. Bodies without a kind or ingest id are invalid.
func Decode(body []byte) (domain.Job, error) {
	var job domain.Job
	if err := json.Unmarshal(body, &job); err != nil {
		return job, fmt.Errorf("%w: decoding job: %v", domain.ErrInvalidInput, err)
	}
	if job.Kind == "" || job.IngestID == 0 {
		return job, fmt.Errorf("%w: job without kind or ingest id", domain.ErrInvalidInput)
	}
	return job, nil
}
