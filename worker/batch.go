package worker

import (
	"context"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/gofhir/fhircore/pkg/resource"
)

// BatchDecoder decodes slices of payloads in parallel while preserving
// input order in the results.
type BatchDecoder struct {
	decoder Decoder
	workers int
}

// NewBatchDecoder creates a batch decoder. Non-positive workers default
// to runtime.NumCPU().
func NewBatchDecoder(dec Decoder, workers int) *BatchDecoder {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchDecoder{decoder: dec, workers: workers}
}

// DecodeBatch decodes the payloads, returning results in input order.
// Small batches are decoded sequentially.
func (bd *BatchDecoder) DecodeBatch(ctx context.Context, payloads [][]byte) *BatchResult {
	if len(payloads) == 0 {
		return &BatchResult{Results: make([]*JobResult, 0)}
	}
	if len(payloads) <= 2 {
		return bd.decodeSequential(ctx, payloads)
	}
	return bd.decodeParallel(ctx, payloads)
}

func (bd *BatchDecoder) decodeSequential(ctx context.Context, payloads [][]byte) *BatchResult {
	br := &BatchResult{
		Results:   make([]*JobResult, 0, len(payloads)),
		TotalJobs: len(payloads),
	}

	for i, payload := range payloads {
		select {
		case <-ctx.Done():
			return br
		default:
		}

		start := time.Now()
		h, err := bd.decoder.DecodeResource(ctx, payload)
		r := &JobResult{
			ID:       strconv.Itoa(i),
			Handle:   h,
			Err:      err,
			Duration: time.Since(start),
		}
		br.Results = append(br.Results, r)
		br.CompletedJobs++
		if err != nil {
			br.FailedJobs++
		}
		br.TotalDuration += r.Duration
	}

	return br
}

func (bd *BatchDecoder) decodeParallel(ctx context.Context, payloads [][]byte) *BatchResult {
	numWorkers := bd.workers
	if numWorkers > len(payloads) {
		numWorkers = len(payloads)
	}

	type indexedPayload struct {
		index   int
		payload []byte
	}
	type indexedResult struct {
		index    int
		handle   *resource.Handle
		err      error
		duration time.Duration
	}

	jobs := make(chan indexedPayload, len(payloads))
	resultsChan := make(chan indexedResult, len(payloads))

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				start := time.Now()
				h, err := bd.decoder.DecodeResource(ctx, job.payload)
				resultsChan <- indexedResult{
					index:    job.index,
					handle:   h,
					err:      err,
					duration: time.Since(start),
				}
			}
		}()
	}

	for i, payload := range payloads {
		jobs <- indexedPayload{index: i, payload: payload}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	br := &BatchResult{
		Results:   make([]*JobResult, len(payloads)),
		TotalJobs: len(payloads),
	}
	for ir := range resultsChan {
		br.Results[ir.index] = &JobResult{
			ID:       strconv.Itoa(ir.index),
			Handle:   ir.handle,
			Err:      ir.err,
			Duration: ir.duration,
		}
		br.CompletedJobs++
		if ir.err != nil {
			br.FailedJobs++
		}
		br.TotalDuration += ir.duration
	}

	return br
}

// DecodeBatch is a convenience wrapper using runtime.NumCPU() workers.
func DecodeBatch(ctx context.Context, dec Decoder, payloads [][]byte) *BatchResult {
	return NewBatchDecoder(dec, runtime.NumCPU()).DecodeBatch(ctx, payloads)
}
