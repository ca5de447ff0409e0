package kafka

import (
	"encoding/json"
	"time"

	"github.com/Ramsey-B/aster/pkg/models"
)

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Parsed content
	Request *models.ResolutionRequest
}

// ParseResolutionRequest parses the message value as a resolution request
func (m *IncomingMessage) ParseResolutionRequest() error {
	var req models.ResolutionRequest
	if err := json.Unmarshal(m.Value, &req); err != nil {
		return err
	}
	m.Request = &req
	return nil
}

// GetTenantID returns the tenant ID from the request body, falling back to
// the message header.
func (m *IncomingMessage) GetTenantID() string {
	if m.Request != nil && m.Request.TenantID != "" {
		return m.Request.TenantID
	}
	return m.Headers["tenant_id"]
}

// GetMode returns the requested resolution mode, defaulting to deterministic
// when absent.
func (m *IncomingMessage) GetMode() models.ResolutionMode {
	if m.Request != nil && m.Request.Mode != "" {
		return m.Request.Mode
	}
	return models.ResolutionModeDeterministic
}

// GetCorrelationID returns the caller-supplied correlation id header, or the
// message key when the header is absent.
func (m *IncomingMessage) GetCorrelationID() string {
	if id := m.Headers["correlation_id"]; id != "" {
		return id
	}
	return m.Key
}
