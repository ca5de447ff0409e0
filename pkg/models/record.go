package models

// RawRecord is one loosely-typed row as received from a source system.
// Shapes vary per connector; the extractor and normalizers turn this into a
// SourceRecord with a fixed set of fields.
type RawRecord map[string]any

// SourceRecord is the normalized working row the linker operates on. Every
// identity field is either a normalized non-empty string or the empty string
// meaning "absent" - there is no null state. Rows are immutable once
// ingested.
type SourceRecord struct {
	SourceSystem string `json:"source_system"`
	SourceID     string `json:"source_id"`
	// UniqueID is "{source}_{source_id}", the node key for clustering and
	// the join key for external matchers.
	UniqueID  string `json:"unique_id"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	HashedCC  string `json:"hashed_cc"`
	LoyaltyID string `json:"loyalty_id"`
}

// HasLinkingKey reports whether the row carries at least one of the four
// fields the deterministic linker unions on. Rows without any still resolve
// as singleton identities.
func (r SourceRecord) HasLinkingKey() bool {
	return r.Email != "" || r.Phone != "" || r.HashedCC != "" || r.LoyaltyID != ""
}

// SourceBatch is one source system's contribution to a resolution request.
type SourceBatch struct {
	Source   string      `json:"source" validate:"required"`
	IDColumn string      `json:"id_column,omitempty"`
	Records  []RawRecord `json:"records" validate:"required"`
}

// ResolutionMode selects the clustering strategy for a request.
type ResolutionMode string

const (
	ResolutionModeDeterministic ResolutionMode = "deterministic"
	ResolutionModeProbabilistic ResolutionMode = "probabilistic"
)

// ResolutionRequest is the unit of work for one resolution run: record
// batches from one or more sources, resolved together in a single engine
// instance.
type ResolutionRequest struct {
	TenantID       string         `json:"tenant_id,omitempty"`
	Mode           ResolutionMode `json:"mode,omitempty"`
	MatchThreshold float64        `json:"match_threshold,omitempty"`
	Sources        []SourceBatch  `json:"sources" validate:"required,min=1,dive"`
}

// ResolutionResult summarizes one completed resolution run.
type ResolutionResult struct {
	Identities    []ResolvedIdentity `json:"identities"`
	RecordCount   int                `json:"record_count"`
	SkippedCount  int                `json:"skipped_count"`
	IdentityCount int                `json:"identity_count"`
	Mode          ResolutionMode     `json:"mode"`
	Fingerprint   string             `json:"fingerprint,omitempty"`
}
