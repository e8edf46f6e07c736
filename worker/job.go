package worker

import (
	"context"
	"time"

	"github.com/gofhir/fhircore/pkg/resource"
)

// Decoder turns a raw payload into an owned resource handle.
type Decoder interface {
	DecodeResource(ctx context.Context, payload []byte) (*resource.Handle, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(ctx context.Context, payload []byte) (*resource.Handle, error)

func (f DecoderFunc) DecodeResource(ctx context.Context, payload []byte) (*resource.Handle, error) {
	return f(ctx, payload)
}

// Job is one payload to decode.
type Job struct {
	// ID is a caller-chosen identifier echoed back in the result.
	ID string

	// Payload is the raw resource document.
	Payload []byte

	// CacheKey enables the pool's decode cache for this job. Jobs with
	// an empty key bypass the cache.
	CacheKey string
}

// JobResult is the outcome of one decode job.
type JobResult struct {
	// ID matches the Job.ID that produced this result.
	ID string

	// Handle owns the decoded resource. Nil when Err is set; the caller
	// releases it otherwise.
	Handle *resource.Handle

	// Err is the decode failure, if any.
	Err error

	// Duration is the time spent decoding.
	Duration time.Duration
}

// BatchResult aggregates the results of a batch of decode jobs.
type BatchResult struct {
	Results       []*JobResult
	TotalJobs     int
	CompletedJobs int
	FailedJobs    int
	TotalDuration time.Duration
}

// HasFailures reports whether any job in the batch failed.
func (br *BatchResult) HasFailures() bool {
	return br.FailedJobs > 0
}

// Release releases every handle in the batch. Convenient when the batch
// was only inspected, not retained.
func (br *BatchResult) Release() {
	for _, r := range br.Results {
		if r != nil && r.Handle != nil {
			r.Handle.Release()
		}
	}
}
