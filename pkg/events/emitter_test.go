package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/aster/pkg/kafka"
	"github.com/Ramsey-B/aster/pkg/logging"
	"github.com/Ramsey-B/aster/pkg/models"
)

type fakePublisher struct {
	err     error
	single  []*kafka.IdentityEvent
	batches [][]*kafka.IdentityEvent
}

func (p *fakePublisher) PublishIdentityEvent(_ context.Context, event *kafka.IdentityEvent) error {
	if p.err != nil {
		return p.err
	}
	p.single = append(p.single, event)
	return nil
}

func (p *fakePublisher) PublishIdentityEvents(_ context.Context, events []*kafka.IdentityEvent) error {
	if p.err != nil {
		return p.err
	}
	p.batches = append(p.batches, events)
	return nil
}

func newTestEmitter(publisher Publisher) *Emitter {
	return NewEmitter(publisher, logging.NewNop())
}

func TestEmitIdentitiesResolved(t *testing.T) {
	publisher := &fakePublisher{}
	e := newTestEmitter(publisher)

	identities := []models.ResolvedIdentity{
		{GlobalID: "g1", Fragments: []models.IdentityFragment{
			models.NewIdentityFragment(models.IdentityTypeEmail, "a@example.com", "crm"),
		}, MatchProbability: 1.0},
		{GlobalID: "g2", MatchProbability: 1.0},
	}

	err := e.EmitIdentitiesResolved(context.Background(), "tenant-1", "corr-1", models.ResolutionModeDeterministic, identities)

	require.NoError(t, err)
	require.Len(t, publisher.batches, 1)
	batch := publisher.batches[0]
	require.Len(t, batch, 2)

	assert.Equal(t, string(EventTypeIdentityResolved), batch[0].EventType)
	assert.Equal(t, "tenant-1", batch[0].TenantID)
	assert.Equal(t, "g1", batch[0].Key)
	assert.Equal(t, "g2", batch[1].Key)

	var payload IdentityResolvedEvent
	require.NoError(t, json.Unmarshal(batch[0].Data, &payload))
	assert.Equal(t, EventTypeIdentityResolved, payload.EventType)
	assert.Equal(t, SchemaVersion, payload.SchemaVersion)
	assert.Equal(t, "tenant-1", payload.TenantID)
	assert.Equal(t, "corr-1", payload.CorrelationID)
	assert.Equal(t, "g1", payload.GlobalID)
	assert.Equal(t, models.ResolutionModeDeterministic, payload.Mode)
	require.Len(t, payload.Fragments, 1)
	assert.Equal(t, "a@example.com", payload.Fragments[0].Value)
	assert.False(t, payload.Timestamp.IsZero())
}

func TestEmitIdentitiesResolved_EmptySkipsPublish(t *testing.T) {
	publisher := &fakePublisher{}
	e := newTestEmitter(publisher)

	err := e.EmitIdentitiesResolved(context.Background(), "tenant-1", "corr-1", models.ResolutionModeDeterministic, nil)

	require.NoError(t, err)
	assert.Empty(t, publisher.batches)
}

func TestEmitIdentitiesResolved_PublishError(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("broker down")}
	e := newTestEmitter(publisher)

	err := e.EmitIdentitiesResolved(context.Background(), "tenant-1", "corr-1", models.ResolutionModeDeterministic,
		[]models.ResolvedIdentity{{GlobalID: "g1", MatchProbability: 1.0}})

	assert.ErrorContains(t, err, "broker down")
}

func TestEmitResolutionCompleted(t *testing.T) {
	publisher := &fakePublisher{}
	e := newTestEmitter(publisher)

	result := &models.ResolutionResult{
		Mode:          models.ResolutionModeProbabilistic,
		RecordCount:   10,
		SkippedCount:  2,
		IdentityCount: 4,
		Fingerprint:   "abc123",
	}

	err := e.EmitResolutionCompleted(context.Background(), "tenant-1", "corr-1", result, 57)

	require.NoError(t, err)
	require.Len(t, publisher.single, 1)
	event := publisher.single[0]
	assert.Equal(t, string(EventTypeResolutionCompleted), event.EventType)
	assert.Equal(t, "corr-1", event.Key)

	var payload ResolutionCompletedEvent
	require.NoError(t, json.Unmarshal(event.Data, &payload))
	assert.Equal(t, models.ResolutionModeProbabilistic, payload.Mode)
	assert.Equal(t, 10, payload.RecordCount)
	assert.Equal(t, 2, payload.SkippedCount)
	assert.Equal(t, 4, payload.IdentityCount)
	assert.Equal(t, "abc123", payload.Fingerprint)
	assert.Equal(t, int64(57), payload.DurationMs)
}

func TestEmitResolutionFailed(t *testing.T) {
	publisher := &fakePublisher{}
	e := newTestEmitter(publisher)

	err := e.EmitResolutionFailed(context.Background(), "tenant-1", "corr-1", models.ResolutionModeDeterministic, "invalid request")

	require.NoError(t, err)
	require.Len(t, publisher.single, 1)

	var payload ResolutionFailedEvent
	require.NoError(t, json.Unmarshal(publisher.single[0].Data, &payload))
	assert.Equal(t, EventTypeResolutionFailed, payload.EventType)
	assert.Equal(t, "invalid request", payload.Reason)
}
