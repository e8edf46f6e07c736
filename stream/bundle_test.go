package stream_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	fc "github.com/gofhir/fhircore"
	"github.com/gofhir/fhircore/pkg/resource"
	"github.com/gofhir/fhircore/stream"
)

const sampleBundle = `{
	"resourceType": "Bundle",
	"type": "collection",
	"entry": [
		{
			"fullUrl": "urn:uuid:pat-1",
			"resource": {"resourceType": "Patient", "id": "pat-1", "active": true}
		},
		{
			"resource": {"resourceType": "CareTeam", "id": "team-1", "status": "active", "name": "Team A"}
		},
		{
			"resource": {"resourceType": "Goal", "id": "goal-1", "lifecycleStatus": "active"}
		}
	]
}`

func parseDecode(ctx context.Context, payload []byte) (*resource.Handle, error) {
	return fc.Parse(payload)
}

func TestDecodeStream(t *testing.T) {
	d := stream.NewBundleDecoder(parseDecode)

	var got []*stream.EntryResult
	for r := range d.DecodeStream(context.Background(), strings.NewReader(sampleBundle)) {
		got = append(got, r)
	}

	if len(got) != 3 {
		t.Fatalf("got %d results; want 3", len(got))
	}
	if got[0].FullURL != "urn:uuid:pat-1" {
		t.Errorf("entry 0 fullUrl = %q", got[0].FullURL)
	}
	wantKinds := []resource.Kind{resource.KindPatient, resource.KindCareTeam, resource.KindGoal}
	for i, r := range got {
		if r.Err != nil {
			t.Fatalf("entry %d: %v", i, r.Err)
		}
		if r.Index != i {
			t.Errorf("entry %d index = %d", i, r.Index)
		}
		res := r.Handle.Resource()
		if res.Kind() != wantKinds[i] {
			t.Errorf("entry %d kind = %v; want %v", i, res.Kind(), wantKinds[i])
		}
		if err := r.Handle.Release(); err != nil {
			t.Fatalf("entry %d release: %v", i, err)
		}
	}
}

func TestDecodeStreamBadEntry(t *testing.T) {
	bundle := `{
		"resourceType": "Bundle",
		"entry": [
			{"resource": {"resourceType": "Patient", "id": "pat-1"}},
			{"resource": {"resourceType": "Spaceship", "id": "x-1"}}
		]
	}`

	d := stream.NewBundleDecoder(parseDecode)
	agg := stream.Aggregate(d.DecodeStream(context.Background(), strings.NewReader(bundle)))

	if agg.TotalEntries != 2 {
		t.Errorf("TotalEntries = %d; want 2", agg.TotalEntries)
	}
	if agg.DecodedEntries != 1 || agg.FailedEntries != 1 {
		t.Errorf("Decoded=%d Failed=%d; want 1, 1", agg.DecodedEntries, agg.FailedEntries)
	}
	if !agg.HasFailures() {
		t.Error("HasFailures() = false; want true")
	}
	if len(agg.ProcessingErrors) != 1 || !errors.Is(agg.ProcessingErrors[0], resource.ErrUnknownKind) {
		t.Errorf("ProcessingErrors = %v; want unknown kind", agg.ProcessingErrors)
	}
	if agg.KindCounts["Patient"] != 1 {
		t.Errorf("KindCounts = %v", agg.KindCounts)
	}
}

func TestDecodeStreamMalformedBundle(t *testing.T) {
	d := stream.NewBundleDecoder(parseDecode)

	results := d.DecodeStream(context.Background(), strings.NewReader(`[1, 2, 3]`))
	first := <-results
	if first == nil || first.Err == nil || first.Index != -1 {
		t.Fatalf("want bundle-level error, got %+v", first)
	}
}

func TestDecodeStreamEmptyBundle(t *testing.T) {
	d := stream.NewBundleDecoder(parseDecode)

	count := 0
	for range d.DecodeStream(context.Background(), strings.NewReader(`{"resourceType": "Bundle"}`)) {
		count++
	}
	if count != 0 {
		t.Errorf("got %d results from empty bundle; want 0", count)
	}
}

func TestDecodeStreamParallelPreservesOrder(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`{"resourceType": "Bundle", "entry": [`)
	for i := 0; i < 20; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"resource": {"resourceType": "Patient", "id": "pat-`)
		sb.WriteString(string(rune('a' + i)))
		sb.WriteString(`"}}`)
	}
	sb.WriteString(`]}`)

	d := stream.NewBundleDecoder(parseDecode).WithWorkerCount(4)

	index := 0
	for r := range d.DecodeStreamParallel(context.Background(), strings.NewReader(sb.String())) {
		if r.Err != nil {
			t.Fatalf("entry %d: %v", r.Index, r.Err)
		}
		if r.Index != index {
			t.Fatalf("out of order: got index %d at position %d", r.Index, index)
		}
		r.Handle.Release()
		index++
	}
	if index != 20 {
		t.Errorf("emitted %d results; want 20", index)
	}
}

func TestAggregateSummary(t *testing.T) {
	d := stream.NewBundleDecoder(parseDecode)
	agg := stream.Aggregate(d.DecodeStream(context.Background(), strings.NewReader(sampleBundle)))

	if agg.HasFailures() {
		t.Fatalf("unexpected failures: %v", agg.ProcessingErrors)
	}
	want := "Decoded 3 of 3 entries (0 failed)"
	if got := agg.Summary(); got != want {
		t.Errorf("Summary() = %q; want %q", got, want)
	}
}
