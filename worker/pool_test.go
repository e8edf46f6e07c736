package worker

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/gofhir/fhircore/cache"
	"github.com/gofhir/fhircore/pkg/resource"
	"github.com/gofhir/fhircore/pkg/resources"
)

var errBadPayload = errors.New("bad payload")

// stubDecoder builds a Patient whose id is the payload string. Payloads
// beginning with '!' fail.
func stubDecoder() Decoder {
	return DecoderFunc(func(_ context.Context, payload []byte) (*resource.Handle, error) {
		if len(payload) > 0 && payload[0] == '!' {
			return nil, errBadPayload
		}
		p, err := resources.NewPatient(string(payload))
		if err != nil {
			return nil, err
		}
		return resource.NewHandle(p), nil
	})
}

func TestPoolDecodesJobs(t *testing.T) {
	p := NewPool(stubDecoder(), 4)

	const n = 20
	for i := 0; i < n; i++ {
		if !p.Submit(Job{ID: strconv.Itoa(i), Payload: []byte("pat-" + strconv.Itoa(i))}) {
			t.Fatalf("Submit(%d) refused", i)
		}
	}

	batch := p.CloseAndWait()
	if batch.TotalJobs != n {
		t.Errorf("TotalJobs = %d; want %d", batch.TotalJobs, n)
	}
	if batch.CompletedJobs != n {
		t.Errorf("CompletedJobs = %d; want %d", batch.CompletedJobs, n)
	}
	if batch.HasFailures() {
		t.Errorf("FailedJobs = %d; want 0", batch.FailedJobs)
	}

	for _, r := range batch.Results {
		if r.Err != nil {
			t.Fatalf("job %s: unexpected error %v", r.ID, r.Err)
		}
		res := r.Handle.Resource()
		if res == nil || res.Kind() != resource.KindPatient {
			t.Fatalf("job %s: wrong resource %v", r.ID, res)
		}
		if err := r.Handle.Release(); err != nil {
			t.Fatalf("job %s: release: %v", r.ID, err)
		}
	}
}

func TestPoolReportsFailures(t *testing.T) {
	p := NewPool(stubDecoder(), 2)

	p.Submit(Job{ID: "good", Payload: []byte("pat-1")})
	p.Submit(Job{ID: "bad", Payload: []byte("!broken")})

	batch := p.CloseAndWait()
	defer batch.Release()

	if batch.FailedJobs != 1 {
		t.Fatalf("FailedJobs = %d; want 1", batch.FailedJobs)
	}
	for _, r := range batch.Results {
		switch r.ID {
		case "good":
			if r.Err != nil || r.Handle == nil {
				t.Errorf("good job failed: %v", r.Err)
			}
		case "bad":
			if !errors.Is(r.Err, errBadPayload) {
				t.Errorf("bad job error = %v; want errBadPayload", r.Err)
			}
			if r.Handle != nil {
				t.Error("bad job should carry no handle")
			}
		}
	}
}

func TestPoolNoDecoder(t *testing.T) {
	p := NewPool(nil, 1)
	p.Submit(Job{ID: "j", Payload: []byte("pat-1")})

	batch := p.CloseAndWait()
	if len(batch.Results) != 1 {
		t.Fatalf("got %d results; want 1", len(batch.Results))
	}
	if !errors.Is(batch.Results[0].Err, ErrNoDecoder) {
		t.Errorf("error = %v; want ErrNoDecoder", batch.Results[0].Err)
	}
}

func TestPoolSubmitAfterClose(t *testing.T) {
	p := NewPool(stubDecoder(), 1)
	p.Close()

	if p.Submit(Job{ID: "late", Payload: []byte("pat-1")}) {
		t.Error("Submit after Close should return false")
	}
}

func TestPoolDecodeCache(t *testing.T) {
	calls := 0
	dec := DecoderFunc(func(_ context.Context, payload []byte) (*resource.Handle, error) {
		calls++
		p, err := resources.NewPatient(string(payload))
		if err != nil {
			return nil, err
		}
		return resource.NewHandle(p), nil
	})

	c := cache.New[string, resource.Resource](8)
	p := NewPool(dec, 1, WithDecodeCache(c))

	p.Submit(Job{ID: "a", Payload: []byte("pat-1"), CacheKey: "k1"})
	first := <-p.Results()
	if first.Err != nil {
		t.Fatalf("first decode: %v", first.Err)
	}

	p.Submit(Job{ID: "b", Payload: []byte("pat-1"), CacheKey: "k1"})
	second := <-p.Results()
	if second.Err != nil {
		t.Fatalf("second decode: %v", second.Err)
	}

	if calls != 1 {
		t.Errorf("decoder called %d times; want 1 (second served from cache)", calls)
	}

	// Cached resources are clones: releasing one handle must not touch
	// the other's resource.
	if err := first.Handle.Release(); err != nil {
		t.Fatalf("release first: %v", err)
	}
	if res := second.Handle.Resource(); res == nil || res.ID() != "pat-1" {
		t.Errorf("second handle resource = %v; want pat-1", res)
	}
	if err := second.Handle.Release(); err != nil {
		t.Fatalf("release second: %v", err)
	}

	p.Close()
}

func TestPoolStats(t *testing.T) {
	p := NewPool(stubDecoder(), 2)

	for i := 0; i < 5; i++ {
		p.Submit(Job{ID: strconv.Itoa(i), Payload: []byte("pat-" + strconv.Itoa(i))})
	}
	batch := p.CloseAndWait()
	defer batch.Release()

	stats := p.Stats()
	if stats.JobsSubmitted != 5 {
		t.Errorf("JobsSubmitted = %d; want 5", stats.JobsSubmitted)
	}
	if stats.JobsCompleted != 5 {
		t.Errorf("JobsCompleted = %d; want 5", stats.JobsCompleted)
	}
	if stats.Workers != 2 {
		t.Errorf("Workers = %d; want 2", stats.Workers)
	}
}

func TestBatchDecoderPreservesOrder(t *testing.T) {
	bd := NewBatchDecoder(stubDecoder(), 4)

	payloads := make([][]byte, 10)
	for i := range payloads {
		payloads[i] = []byte("pat-" + strconv.Itoa(i))
	}

	batch := bd.DecodeBatch(context.Background(), payloads)
	defer batch.Release()

	if batch.CompletedJobs != len(payloads) {
		t.Fatalf("CompletedJobs = %d; want %d", batch.CompletedJobs, len(payloads))
	}
	for i, r := range batch.Results {
		if r == nil || r.Err != nil {
			t.Fatalf("result %d: %+v", i, r)
		}
		want := "pat-" + strconv.Itoa(i)
		if got := r.Handle.Resource().ID(); got != want {
			t.Errorf("result %d id = %q; want %q", i, got, want)
		}
	}
}

func TestBatchDecoderSmallBatch(t *testing.T) {
	bd := NewBatchDecoder(stubDecoder(), 4)

	batch := bd.DecodeBatch(context.Background(), [][]byte{[]byte("pat-1"), []byte("!oops")})
	defer batch.Release()

	if batch.TotalJobs != 2 || batch.FailedJobs != 1 {
		t.Errorf("TotalJobs=%d FailedJobs=%d; want 2, 1", batch.TotalJobs, batch.FailedJobs)
	}
}

func TestBatchDecoderEmpty(t *testing.T) {
	batch := DecodeBatch(context.Background(), stubDecoder(), nil)
	if len(batch.Results) != 0 || batch.TotalJobs != 0 {
		t.Errorf("empty batch: %+v", batch)
	}
}
