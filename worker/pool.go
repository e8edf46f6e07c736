package worker

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofhir/fhircore/cache"
	"github.com/gofhir/fhircore/pkg/resource"
)

// ErrNoDecoder is returned for jobs submitted to a pool built without a
// decoder.
var ErrNoDecoder = errors.New("worker: no decoder configured")

// Option configures a Pool.
type Option func(*Pool)

// WithDecodeCache equips the pool with a decode cache. Jobs carrying a
// CacheKey are served from it; cached resources are cloned on the way in
// and out so cache contents never alias live handles.
func WithDecodeCache(c *cache.Cache[string, resource.Resource]) Option {
	return func(p *Pool) {
		p.cache = c
	}
}

// Pool manages a pool of worker goroutines for parallel decoding.
type Pool struct {
	workers    int
	jobsChan   chan Job
	resultChan chan *JobResult
	decoder    Decoder
	cache      *cache.Cache[string, resource.Resource]
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	closed     atomic.Bool

	jobsSubmitted atomic.Uint64
	jobsCompleted atomic.Uint64
	jobsFailed    atomic.Uint64
	totalDuration atomic.Uint64
}

// NewPool creates a pool with the given number of workers.
// Non-positive workers default to runtime.NumCPU().
func NewPool(dec Decoder, workers int, opts ...Option) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())

	p := &Pool{
		workers:    workers,
		jobsChan:   make(chan Job, workers*2),
		resultChan: make(chan *JobResult, workers*2),
		decoder:    dec,
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}

	return p
}

// Submit queues a job, blocking while the queue is full.
// Returns false once the pool is closed.
func (p *Pool) Submit(job Job) bool {
	if p.closed.Load() {
		return false
	}

	select {
	case <-p.ctx.Done():
		return false
	case p.jobsChan <- job:
		p.jobsSubmitted.Add(1)
		return true
	}
}

// TrySubmit queues a job without blocking.
// Returns false when the queue is full or the pool is closed.
func (p *Pool) TrySubmit(job Job) bool {
	if p.closed.Load() {
		return false
	}

	select {
	case <-p.ctx.Done():
		return false
	case p.jobsChan <- job:
		p.jobsSubmitted.Add(1)
		return true
	default:
		return false
	}
}

// Results returns the channel delivering job results.
func (p *Pool) Results() <-chan *JobResult {
	return p.resultChan
}

// Close shuts down the pool, discarding undelivered results, and waits
// for the workers to finish. Handles in discarded results are released.
func (p *Pool) Close() {
	if p.closed.Swap(true) {
		return
	}

	p.cancel()
	close(p.jobsChan)

	done := make(chan struct{})
	go func() {
		for r := range p.resultChan {
			if r.Handle != nil {
				r.Handle.Release()
			}
		}
		close(done)
	}()

	p.wg.Wait()
	close(p.resultChan)
	<-done
}

// CloseAndWait closes the job queue, lets in-flight jobs finish, and
// collects every pending result into a batch.
func (p *Pool) CloseAndWait() *BatchResult {
	if p.closed.Swap(true) {
		return &BatchResult{}
	}

	close(p.jobsChan)

	go func() {
		p.wg.Wait()
		close(p.resultChan)
	}()

	results := make([]*JobResult, 0)
	for result := range p.resultChan {
		results = append(results, result)
	}
	p.cancel()

	return &BatchResult{
		Results:       results,
		TotalJobs:     int(p.jobsSubmitted.Load()),
		CompletedJobs: int(p.jobsCompleted.Load()),
		FailedJobs:    int(p.jobsFailed.Load()),
		TotalDuration: time.Duration(p.totalDuration.Load()),
	}
}

// PoolStats contains pool counters.
type PoolStats struct {
	Workers       int
	JobsSubmitted uint64
	JobsCompleted uint64
	JobsFailed    uint64
	AvgDuration   time.Duration
}

// Stats returns current pool counters.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Workers:       p.workers,
		JobsSubmitted: p.jobsSubmitted.Load(),
		JobsCompleted: p.jobsCompleted.Load(),
		JobsFailed:    p.jobsFailed.Load(),
		AvgDuration:   p.averageDuration(),
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for job := range p.jobsChan {
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		result := p.processJob(job)
		p.jobsCompleted.Add(1)
		if result.Err != nil {
			p.jobsFailed.Add(1)
		}
		p.totalDuration.Add(uint64(result.Duration))

		select {
		case <-p.ctx.Done():
			if result.Handle != nil {
				result.Handle.Release()
			}
			return
		case p.resultChan <- result:
		}
	}
}

func (p *Pool) processJob(job Job) *JobResult {
	start := time.Now()
	result := &JobResult{ID: job.ID}

	if p.decoder == nil {
		result.Err = ErrNoDecoder
		result.Duration = time.Since(start)
		return result
	}

	if p.cache != nil && job.CacheKey != "" {
		if res, ok := p.cache.Get(job.CacheKey); ok {
			result.Handle = resource.NewHandle(res.Clone())
			result.Duration = time.Since(start)
			return result
		}
	}

	h, err := p.decoder.DecodeResource(p.ctx, job.Payload)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	result.Handle = h

	if p.cache != nil && job.CacheKey != "" {
		if res := h.Resource(); res != nil {
			p.cache.Set(job.CacheKey, res.Clone())
		}
	}

	result.Duration = time.Since(start)
	return result
}

func (p *Pool) averageDuration() time.Duration {
	completed := p.jobsCompleted.Load()
	if completed == 0 {
		return 0
	}
	return time.Duration(p.totalDuration.Load() / completed)
}
