// Package stream decodes FHIR bundles entry by entry, turning each
// contained resource into an owned handle without materializing the
// whole bundle first.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/gofhir/fhircore/pkg/resource"
)

// DecodeFunc turns one raw resource payload into an owned handle.
type DecodeFunc func(ctx context.Context, payload []byte) (*resource.Handle, error)

// EntryResult is the outcome for a single bundle entry.
type EntryResult struct {
	// Index is the position of the entry in the bundle. Bundle-level
	// failures carry index -1.
	Index int

	// FullURL is the entry's fullUrl, if present.
	FullURL string

	// ResourceType is the declared type of the contained resource.
	ResourceType string

	// ResourceID is the contained resource's id, if present.
	ResourceID string

	// Handle owns the decoded resource. Nil when Err is set or the
	// entry carried no resource.
	Handle *resource.Handle

	// Err is set when the entry could not be processed.
	Err error
}

// BundleDecoder decodes bundle entries in a streaming fashion.
type BundleDecoder struct {
	decode      DecodeFunc
	bufferSize  int
	workerCount int
}

// NewBundleDecoder creates a streaming bundle decoder.
func NewBundleDecoder(decode DecodeFunc) *BundleDecoder {
	return &BundleDecoder{
		decode:      decode,
		bufferSize:  64,
		workerCount: 4,
	}
}

// WithBufferSize sets the result channel buffer size.
func (d *BundleDecoder) WithBufferSize(size int) *BundleDecoder {
	if size > 0 {
		d.bufferSize = size
	}
	return d
}

// WithWorkerCount sets the number of parallel workers used by
// DecodeStreamParallel.
func (d *BundleDecoder) WithWorkerCount(count int) *BundleDecoder {
	if count > 0 {
		d.workerCount = count
	}
	return d
}

// DecodeStream decodes a bundle from r, emitting one result per entry
// in bundle order. The caller releases each emitted handle.
func (d *BundleDecoder) DecodeStream(ctx context.Context, r io.Reader) <-chan *EntryResult {
	results := make(chan *EntryResult, d.bufferSize)

	go func() {
		defer close(results)

		decoder := json.NewDecoder(r)
		decoder.UseNumber()

		token, err := decoder.Token()
		if err != nil {
			results <- &EntryResult{Index: -1, Err: fmt.Errorf("stream: read bundle: %w", err)}
			return
		}
		if delim, ok := token.(json.Delim); !ok || delim != '{' {
			results <- &EntryResult{Index: -1, Err: fmt.Errorf("stream: expected object start, got %v", token)}
			return
		}

		// Scan top-level fields until "entry".
		for decoder.More() {
			select {
			case <-ctx.Done():
				results <- &EntryResult{Index: -1, Err: ctx.Err()}
				return
			default:
			}

			token, err := decoder.Token()
			if err != nil {
				results <- &EntryResult{Index: -1, Err: fmt.Errorf("stream: read field: %w", err)}
				return
			}

			fieldName, ok := token.(string)
			if !ok {
				continue
			}

			if fieldName == "entry" {
				d.processEntries(ctx, decoder, results)
				return
			}

			var skip any
			if err := decoder.Decode(&skip); err != nil {
				results <- &EntryResult{Index: -1, Err: fmt.Errorf("stream: skip field %s: %w", fieldName, err)}
				return
			}
		}
		// No entry field: empty bundle.
	}()

	return results
}

func (d *BundleDecoder) processEntries(ctx context.Context, decoder *json.Decoder, results chan<- *EntryResult) {
	token, err := decoder.Token()
	if err != nil {
		results <- &EntryResult{Index: -1, Err: fmt.Errorf("stream: read entry array: %w", err)}
		return
	}
	if delim, ok := token.(json.Delim); !ok || delim != '[' {
		results <- &EntryResult{Index: -1, Err: fmt.Errorf("stream: expected array start, got %v", token)}
		return
	}

	index := 0
	for decoder.More() {
		select {
		case <-ctx.Done():
			results <- &EntryResult{Index: index, Err: ctx.Err()}
			return
		default:
		}

		var entry map[string]any
		if err := decoder.Decode(&entry); err != nil {
			results <- &EntryResult{
				Index: index,
				Err:   fmt.Errorf("stream: decode entry %d: %w", index, err),
			}
			index++
			continue
		}

		results <- d.processEntry(ctx, entry, index)
		index++
	}
}

func (d *BundleDecoder) processEntry(ctx context.Context, entry map[string]any, index int) *EntryResult {
	result := &EntryResult{Index: index}

	if fullURL, ok := entry["fullUrl"].(string); ok {
		result.FullURL = fullURL
	}

	res, ok := entry["resource"].(map[string]any)
	if !ok {
		return result
	}

	if rt, ok := res["resourceType"].(string); ok {
		result.ResourceType = rt
	}
	if id, ok := res["id"].(string); ok {
		result.ResourceID = id
	}

	payload, err := json.Marshal(res)
	if err != nil {
		result.Err = fmt.Errorf("stream: marshal entry %d resource: %w", index, err)
		return result
	}

	h, err := d.decode(ctx, payload)
	if err != nil {
		result.Err = err
		return result
	}
	result.Handle = h
	return result
}

// DecodeStreamParallel decodes entries in parallel while preserving
// bundle order in the output.
func (d *BundleDecoder) DecodeStreamParallel(ctx context.Context, r io.Reader) <-chan *EntryResult {
	results := make(chan *EntryResult, d.bufferSize)

	go func() {
		defer close(results)

		var bundle map[string]any
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&bundle); err != nil {
			results <- &EntryResult{Index: -1, Err: fmt.Errorf("stream: decode bundle: %w", err)}
			return
		}

		entries, ok := bundle["entry"].([]any)
		if !ok {
			return
		}

		type workItem struct {
			index int
			entry map[string]any
		}

		workChan := make(chan workItem, d.bufferSize)
		resultChan := make(chan *EntryResult, d.bufferSize)

		var wg sync.WaitGroup
		for i := 0; i < d.workerCount; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for work := range workChan {
					select {
					case <-ctx.Done():
						return
					default:
					}
					resultChan <- d.processEntry(ctx, work.entry, work.index)
				}
			}()
		}

		go func() {
			for i, e := range entries {
				entry, ok := e.(map[string]any)
				if !ok {
					continue
				}
				select {
				case workChan <- workItem{index: i, entry: entry}:
				case <-ctx.Done():
				}
			}
			close(workChan)
			wg.Wait()
			close(resultChan)
		}()

		// Reorder: emit strictly by index.
		pending := make(map[int]*EntryResult)
		nextIndex := 0
		total := len(entries)

		for result := range resultChan {
			pending[result.Index] = result

			for {
				r, ok := pending[nextIndex]
				if !ok {
					break
				}
				results <- r
				delete(pending, nextIndex)
				nextIndex++
			}
			if nextIndex >= total {
				break
			}
		}
		for nextIndex < total {
			if r, ok := pending[nextIndex]; ok {
				results <- r
				delete(pending, nextIndex)
			}
			nextIndex++
		}
	}()

	return results
}

// BundleStreamResult aggregates the outcome of a streamed bundle.
type BundleStreamResult struct {
	// TotalEntries is the number of entries carrying a resource.
	TotalEntries int

	// DecodedEntries is the number of entries decoded into a handle.
	DecodedEntries int

	// FailedEntries is the number of entries that could not be decoded.
	FailedEntries int

	// KindCounts tallies decoded resources by canonical kind name.
	KindCounts map[string]int

	// ProcessingErrors are bundle- or entry-level failures.
	ProcessingErrors []error
}

// Aggregate drains a result stream, releasing every handle and keeping
// only the tallies. Use it when the bundle is inspected, not retained.
func Aggregate(results <-chan *EntryResult) *BundleStreamResult {
	agg := &BundleStreamResult{
		KindCounts: make(map[string]int),
	}

	for result := range results {
		if result.Err != nil {
			agg.ProcessingErrors = append(agg.ProcessingErrors, result.Err)
			if result.Index >= 0 {
				agg.TotalEntries++
				agg.FailedEntries++
			}
			continue
		}
		if result.Index < 0 || result.Handle == nil {
			continue
		}

		agg.TotalEntries++
		agg.DecodedEntries++
		if res := result.Handle.Resource(); res != nil {
			agg.KindCounts[res.Kind().String()]++
		}
		result.Handle.Release()
	}

	return agg
}

// HasFailures reports whether any entry failed to decode.
func (r *BundleStreamResult) HasFailures() bool {
	return r.FailedEntries > 0 || len(r.ProcessingErrors) > 0
}

// Summary returns a human-readable account of the stream.
func (r *BundleStreamResult) Summary() string {
	return fmt.Sprintf(
		"Decoded %d of %d entries (%d failed)",
		r.DecodedEntries,
		r.TotalEntries,
		r.FailedEntries,
	)
}
