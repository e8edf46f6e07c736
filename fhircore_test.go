package fhircore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofhir/fhircore/pkg/logger"
	"github.com/gofhir/fhircore/pkg/resource"
	"github.com/gofhir/fhircore/pkg/resources"
)

func TestParseRoundTrip(t *testing.T) {
	payload := []byte(`{
		"resourceType": "Patient",
		"id": "pat-1",
		"active": true,
		"gender": "female",
		"birthDate": "1987-04-12",
		"name": [{"family": "Verde", "given": ["Ana"]}]
	}`)

	h, err := Parse(payload)
	require.NoError(t, err)
	defer h.Release()

	res := h.Resource()
	require.NotNil(t, res)
	assert.Equal(t, resource.KindPatient, res.Kind())
	assert.Equal(t, "pat-1", res.ID())
	assert.True(t, res.IsActive())
	assert.Equal(t, "Ana Verde", res.Label())

	out, err := Render(res)
	require.NoError(t, err)

	h2, err := Parse(out)
	require.NoError(t, err)
	defer h2.Release()
	assert.Equal(t, "pat-1", h2.Resource().ID())
}

func TestParseGeneratesMissingID(t *testing.T) {
	h, err := Parse([]byte(`{"resourceType": "CareTeam", "status": "active"}`))
	require.NoError(t, err)
	defer h.Release()

	assert.NotEmpty(t, h.Resource().ID())
	assert.True(t, h.Resource().IsActive())
}

func TestParseRejectsMissingIDWhenDisabled(t *testing.T) {
	_, err := Parse([]byte(`{"resourceType": "CareTeam"}`), WithGeneratedIDs(false))
	assert.ErrorIs(t, err, resource.ErrInvalidID)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr error
	}{
		{"no resource type", `{"id": "x-1"}`, ErrNoResourceType},
		{"unknown kind", `{"resourceType": "Spaceship", "id": "x-1"}`, resource.ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.payload))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := Parse([]byte(`{"resourceType": "Patient", "id": `))
	assert.Error(t, err)
}

func TestParseMalformedScalarFails(t *testing.T) {
	_, err := Parse([]byte(`{"resourceType": "CarePlan", "id": "cp-1", "status": 42}`))
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestRenderOmitsUnsetFields(t *testing.T) {
	h, err := New("Patient", "pat-9")
	require.NoError(t, err)
	defer h.Release()

	out, err := Render(h.Resource())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, "Patient", m["resourceType"])
	assert.Equal(t, "pat-9", m["id"])
	assert.Len(t, m, 2)
}

func TestNewAndNewKind(t *testing.T) {
	h, err := New("Goal", "goal-1")
	require.NoError(t, err)
	defer h.Release()
	assert.Equal(t, resource.KindGoal, h.Resource().Kind())

	h2, err := NewKind(resource.KindRiskAssessment, "risk-1")
	require.NoError(t, err)
	defer h2.Release()
	assert.Equal(t, resource.KindRiskAssessment, h2.Resource().Kind())

	_, err = New("Spaceship", "x-1")
	assert.ErrorIs(t, err, resource.ErrUnknownKind)

	_, err = NewKind(resource.KindPatient, "bad id")
	assert.ErrorIs(t, err, resource.ErrInvalidID)
}

func TestAuditValidResource(t *testing.T) {
	p, err := resources.NewPatient("pat-1")
	require.NoError(t, err)
	p.SetActive(true)

	r := Audit(p)
	defer r.Release()

	assert.True(t, r.Valid)
	assert.Equal(t, "Patient", r.ResourceKind)
	assert.Equal(t, "pat-1", r.ResourceID)
}

func TestAuditMissingRequiredFields(t *testing.T) {
	g, err := resources.NewGoal("goal-1")
	require.NoError(t, err)

	r := Audit(g)
	defer r.Release()

	assert.False(t, r.Valid)
	require.NotEmpty(t, r.Errors())
	assert.Equal(t, IssueTypeRequired, r.Errors()[0].Code)
}

func TestAuditMaxIssues(t *testing.T) {
	g, err := resources.NewGoal("goal-2")
	require.NoError(t, err)

	r := Audit(g, WithMaxIssues(1))
	defer r.Release()
	assert.Len(t, r.Issues, 1)
}

func TestHandleRetainAcrossParse(t *testing.T) {
	h, err := Parse([]byte(`{"resourceType": "Patient", "id": "pat-1"}`))
	require.NoError(t, err)

	h2 := h.Retain()
	require.NotNil(t, h2)

	require.NoError(t, h.Release())
	require.NotNil(t, h2.Resource(), "resource must survive until last release")
	require.NoError(t, h2.Release())
}

func TestVersionStrings(t *testing.T) {
	assert.True(t, R4.IsValid())
	assert.False(t, FHIRVersion("R99").IsValid())
	assert.Equal(t, "4.0.1", R4.VersionString())
}

func TestParseLogLevelOption(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stderr)
	defer logger.SetLevel(logger.LevelInfo)

	_, err := Parse([]byte(`{"id": "x"}`), WithLogLevel(logger.LevelDebug))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "parse failed", "debug line must reach the logger")

	logger.SetLevel(logger.LevelInfo)
	buf.Reset()
	_, err = Parse([]byte(`{"id": "x"}`))
	require.Error(t, err)
	assert.Empty(t, buf.String(), "no debug output below the threshold")
}

func TestParseBatchOrderAndCache(t *testing.T) {
	patient := []byte(`{"resourceType": "Patient", "id": "pat-1", "active": true}`)
	payloads := [][]byte{
		patient,
		[]byte(`{"resourceType": "Spaceship", "id": "x"}`),
		[]byte(`{"resourceType": "Goal", "id": "goal-1", "lifecycleStatus": "active",
			"description": {"text": "walk daily"}, "subject": {"reference": "Patient/pat-1"}}`),
		patient,
	}

	batch := ParseBatch(context.Background(), payloads, WithWorkerCount(2), WithCacheSize(4))
	require.Len(t, batch.Results, 4)
	assert.Equal(t, 4, batch.TotalJobs)
	assert.Equal(t, 1, batch.FailedJobs)
	assert.True(t, batch.HasFailures())

	require.NoError(t, batch.Results[0].Err)
	assert.ErrorIs(t, batch.Results[1].Err, resource.ErrUnknownKind)
	assert.Equal(t, resource.KindGoal, batch.Results[2].Handle.Resource().Kind())

	first := batch.Results[0].Handle.Resource().(*resources.Patient)
	repeat := batch.Results[3].Handle.Resource().(*resources.Patient)
	first.SetActive(false)
	assert.True(t, repeat.IsActive(), "repeated payload must decode to an independent resource")

	for _, r := range batch.Results {
		if r.Handle != nil {
			require.NoError(t, r.Handle.Release())
		}
	}
}

func TestParseBundleStream(t *testing.T) {
	bundle := `{"resourceType": "Bundle", "entry": [
		{"resource": {"resourceType": "Patient", "id": "pat-1"}},
		{"resource": {"resourceType": "CareTeam", "id": "team-1", "status": "active", "name": "Team A"}}
	]}`

	var kinds []resource.Kind
	for r := range ParseBundleStream(context.Background(), strings.NewReader(bundle)) {
		require.NoError(t, r.Err)
		kinds = append(kinds, r.Handle.Resource().Kind())
		require.NoError(t, r.Handle.Release())
	}
	assert.Equal(t, []resource.Kind{resource.KindPatient, resource.KindCareTeam}, kinds)
}

func TestParseBundleStreamParallelOrder(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`{"resourceType": "Bundle", "entry": [`)
	for i := 0; i < 12; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"resource": {"resourceType": "Patient", "id": "pat-%d"}}`, i)
	}
	sb.WriteString(`]}`)

	index := 0
	results := ParseBundleStreamParallel(context.Background(), strings.NewReader(sb.String()), WithWorkerCount(3))
	for r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, index, r.Index)
		assert.Equal(t, fmt.Sprintf("pat-%d", index), r.Handle.Resource().ID())
		require.NoError(t, r.Handle.Release())
		index++
	}
	assert.Equal(t, 12, index)
}
