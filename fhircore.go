package fhircore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/gofhir/fhircore/cache"
	"github.com/gofhir/fhircore/pkg/document"
	"github.com/gofhir/fhircore/pkg/logger"
	"github.com/gofhir/fhircore/pkg/primitive"
	"github.com/gofhir/fhircore/pkg/registry"
	"github.com/gofhir/fhircore/pkg/resource"
	_ "github.com/gofhir/fhircore/pkg/resources" // register built-in kinds
	"github.com/gofhir/fhircore/stream"
	"github.com/gofhir/fhircore/worker"
)

// ErrNoResourceType is returned when a payload carries no resourceType.
var ErrNoResourceType = errors.New("fhircore: document has no resourceType")

// ErrMalformedDocument is returned when a payload decodes but does not
// populate a resource of its declared kind.
var ErrMalformedDocument = errors.New("fhircore: malformed resource document")

// Parse decodes a resource payload into an owned handle. The caller
// releases the handle when done.
//
// The declared resourceType selects the kind. Documents without a usable
// id get a generated one unless WithGeneratedIDs(false) is set.
func Parse(payload []byte, opts ...Option) (*resource.Handle, error) {
	return parseTimed(payload, applyOptions(opts))
}

func parseTimed(payload []byte, o *Options) (*resource.Handle, error) {
	start := time.Now()
	h, err := parse(payload, o)
	defaultMetrics.RecordParse(time.Since(start), err == nil)
	if err != nil {
		logger.Debug("parse failed: %v", err)
	}
	return h, err
}

func parse(payload []byte, o *Options) (*resource.Handle, error) {
	name := document.PeekResourceType(payload)
	if name == "" {
		return nil, ErrNoResourceType
	}

	doc, err := document.Decode(payload)
	if err != nil {
		return nil, err
	}

	id, _ := doc.GetString("id")
	if !primitive.IsValidID(id) {
		if !o.GenerateIDs {
			return nil, fmt.Errorf("%w: document id %q", resource.ErrInvalidID, id)
		}
		id = uuid.NewString()
		doc.SetString("id", id)
	}

	res, err := registry.NewByName(name, id)
	if err != nil {
		return nil, err
	}
	if !res.Populate(doc) {
		return nil, fmt.Errorf("%w: %s/%s", ErrMalformedDocument, name, id)
	}

	return resource.NewHandle(res), nil
}

// ParseBatch decodes independent payloads in parallel, preserving
// input order in the results. The worker count comes from
// WithWorkerCount; repeated identical payloads are served from a
// decode cache bounded by WithCacheSize. The caller releases each
// handle in the returned batch.
func ParseBatch(ctx context.Context, payloads [][]byte, opts ...Option) *worker.BatchResult {
	o := applyOptions(opts)

	decodeCache := cache.New[string, resource.Resource](o.CacheSize)
	dec := worker.DecoderFunc(func(_ context.Context, payload []byte) (*resource.Handle, error) {
		key := string(payload)
		if res, ok := decodeCache.Get(key); ok {
			return resource.NewHandle(res.Clone()), nil
		}
		h, err := parseTimed(payload, o)
		if err != nil {
			return nil, err
		}
		decodeCache.Set(key, h.Resource().Clone())
		return h, nil
	})

	return worker.NewBatchDecoder(dec, o.WorkerCount).DecodeBatch(ctx, payloads)
}

// ParseBundleStream decodes a Bundle document from r entry by entry,
// emitting one result per entry in bundle order. The caller releases
// each emitted handle.
func ParseBundleStream(ctx context.Context, r io.Reader, opts ...Option) <-chan *stream.EntryResult {
	o := applyOptions(opts)
	return bundleDecoder(o).DecodeStream(ctx, r)
}

// ParseBundleStreamParallel decodes bundle entries on WithWorkerCount
// workers while preserving entry order in the emitted results.
func ParseBundleStreamParallel(ctx context.Context, r io.Reader, opts ...Option) <-chan *stream.EntryResult {
	o := applyOptions(opts)
	return bundleDecoder(o).DecodeStreamParallel(ctx, r)
}

func bundleDecoder(o *Options) *stream.BundleDecoder {
	return stream.NewBundleDecoder(func(_ context.Context, payload []byte) (*resource.Handle, error) {
		return parseTimed(payload, o)
	}).WithWorkerCount(o.WorkerCount).WithBufferSize(100)
}

// Render serializes a resource to JSON bytes. Unset fields are omitted.
func Render(res resource.Resource) ([]byte, error) {
	out, err := res.Document().Encode()
	if err != nil {
		return nil, err
	}
	defaultMetrics.RecordRender()
	return out, nil
}

// New creates an owned resource of the named kind.
func New(name, id string) (*resource.Handle, error) {
	return registry.Default().Acquire(name, id)
}

// NewKind creates an owned resource of the given kind.
func NewKind(kind resource.Kind, id string) (*resource.Handle, error) {
	res, err := registry.NewByKind(kind, id)
	if err != nil {
		return nil, err
	}
	return resource.NewHandle(res), nil
}

// Audit checks a resource's kind invariants and reports the findings.
// Release the result when done.
func Audit(res resource.Resource, opts ...Option) *Result {
	o := applyOptions(opts)

	r := AcquireResult()
	r.ResourceKind = res.Kind().String()
	r.ResourceID = res.ID()

	if !res.Validate() {
		r.AddError(IssueTypeRequired, "required fields are not populated", res.Kind().String())
	}
	if !primitive.IsValidID(res.ID()) {
		r.AddError(IssueTypeValue, "invalid resource id", "id")
	}
	if !res.IsActive() {
		r.AddInfo(IssueTypeInformational, "resource is not active")
	}

	if o.MaxIssues > 0 && len(r.Issues) > o.MaxIssues {
		r.Issues = r.Issues[:o.MaxIssues]
	}

	defaultMetrics.RecordAudit()
	return r
}
