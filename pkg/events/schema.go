package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/Ramsey-B/aster/pkg/models"
)

// EventType defines the type of event
type EventType string

const (
	// EventTypeIdentityResolved is emitted once per resolved identity.
	EventTypeIdentityResolved EventType = "identity.resolved"
	// EventTypeResolutionCompleted is emitted once per finished resolution
	// run with summary statistics.
	EventTypeResolutionCompleted EventType = "resolution.completed"
	// EventTypeResolutionFailed is emitted when a resolution run errors
	// before producing identities.
	EventTypeResolutionFailed EventType = "resolution.failed"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType     EventType `json:"event_type"`
	SchemaVersion string    `json:"schema_version"`
	TenantID      string    `json:"tenant_id"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// IdentityResolvedEvent carries one resolved identity
type IdentityResolvedEvent struct {
	BaseEvent
	GlobalID         string                    `json:"global_id"`
	Fragments        []models.IdentityFragment `json:"fragments"`
	MatchProbability float64                   `json:"match_probability"`
	Mode             models.ResolutionMode     `json:"mode"`
}

// ResolutionCompletedEvent summarizes one finished resolution run
type ResolutionCompletedEvent struct {
	BaseEvent
	Mode          models.ResolutionMode `json:"mode"`
	RecordCount   int                   `json:"record_count"`
	SkippedCount  int                   `json:"skipped_count"`
	IdentityCount int                   `json:"identity_count"`
	Fingerprint   string                `json:"fingerprint,omitempty"`
	DurationMs    int64                 `json:"duration_ms"`
}

// ResolutionFailedEvent reports a resolution run that errored
type ResolutionFailedEvent struct {
	BaseEvent
	Mode   models.ResolutionMode `json:"mode"`
	Reason string                `json:"reason"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType EventType, tenantID string, correlationID string) BaseEvent {
	if correlationID == "" {
		correlationID = uuid.New().String()
	}
	return BaseEvent{
		EventType:     eventType,
		SchemaVersion: SchemaVersion,
		TenantID:      tenantID,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
	}
}
