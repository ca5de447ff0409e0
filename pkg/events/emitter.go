// Package events handles event emission for resolution lifecycle changes
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/aster/pkg/kafka"
	"github.com/Ramsey-B/aster/pkg/metrics"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Publisher publishes identity events to the output topic. Satisfied by
// *kafka.Producer.
type Publisher interface {
	PublishIdentityEvent(ctx context.Context, event *kafka.IdentityEvent) error
	PublishIdentityEvents(ctx context.Context, events []*kafka.IdentityEvent) error
}

// Emitter handles event emission for Aster
type Emitter struct {
	producer Publisher
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer Publisher, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitIdentitiesResolved emits one identity.resolved event per identity as a
// single batch, keyed by global id.
func (e *Emitter) EmitIdentitiesResolved(ctx context.Context, tenantID, correlationID string, mode models.ResolutionMode, identities []models.ResolvedIdentity) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitIdentitiesResolved")
	defer span.End()

	if len(identities) == 0 {
		return nil
	}

	batch := make([]*kafka.IdentityEvent, 0, len(identities))
	for _, identity := range identities {
		payload := IdentityResolvedEvent{
			BaseEvent:        NewBaseEvent(EventTypeIdentityResolved, tenantID, correlationID),
			GlobalID:         identity.GlobalID,
			Fragments:        identity.Fragments,
			MatchProbability: identity.MatchProbability,
			Mode:             mode,
		}

		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}

		batch = append(batch, &kafka.IdentityEvent{
			EventType: string(EventTypeIdentityResolved),
			TenantID:  tenantID,
			Key:       identity.GlobalID,
			Data:      data,
		})
	}

	if err := e.producer.PublishIdentityEvents(ctx, batch); err != nil {
		metrics.EventsEmitted.WithLabelValues(string(EventTypeIdentityResolved), "error").Add(float64(len(batch)))
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit identity.resolved events")
		return err
	}

	metrics.EventsEmitted.WithLabelValues(string(EventTypeIdentityResolved), "success").Add(float64(len(batch)))
	return nil
}

// EmitResolutionCompleted emits a resolution.completed summary event
func (e *Emitter) EmitResolutionCompleted(ctx context.Context, tenantID, correlationID string, result *models.ResolutionResult, durationMs int64) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitResolutionCompleted")
	defer span.End()

	payload := ResolutionCompletedEvent{
		BaseEvent:     NewBaseEvent(EventTypeResolutionCompleted, tenantID, correlationID),
		Mode:          result.Mode,
		RecordCount:   result.RecordCount,
		SkippedCount:  result.SkippedCount,
		IdentityCount: result.IdentityCount,
		Fingerprint:   result.Fingerprint,
		DurationMs:    durationMs,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	event := &kafka.IdentityEvent{
		EventType: string(EventTypeResolutionCompleted),
		TenantID:  tenantID,
		Key:       correlationID,
		Data:      data,
	}

	if err := e.producer.PublishIdentityEvent(ctx, event); err != nil {
		metrics.EventsEmitted.WithLabelValues(string(EventTypeResolutionCompleted), "error").Inc()
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit resolution.completed event")
		return err
	}

	metrics.EventsEmitted.WithLabelValues(string(EventTypeResolutionCompleted), "success").Inc()
	return nil
}

// EmitResolutionFailed emits a resolution.failed event
func (e *Emitter) EmitResolutionFailed(ctx context.Context, tenantID, correlationID string, mode models.ResolutionMode, reason string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitResolutionFailed")
	defer span.End()

	payload := ResolutionFailedEvent{
		BaseEvent: NewBaseEvent(EventTypeResolutionFailed, tenantID, correlationID),
		Mode:      mode,
		Reason:    reason,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	event := &kafka.IdentityEvent{
		EventType: string(EventTypeResolutionFailed),
		TenantID:  tenantID,
		Key:       correlationID,
		Data:      data,
	}

	if err := e.producer.PublishIdentityEvent(ctx, event); err != nil {
		metrics.EventsEmitted.WithLabelValues(string(EventTypeResolutionFailed), "error").Inc()
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit resolution.failed event")
		return err
	}

	metrics.EventsEmitted.WithLabelValues(string(EventTypeResolutionFailed), "success").Inc()
	return nil
}
