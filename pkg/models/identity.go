// Package models defines the identity fragment and resolved identity types
// shared across the resolution pipeline.
package models

import (
	"fmt"
	"strings"
)

// IdentityType classifies a piece of identity evidence. Some types (email,
// phone) are strong identifiers; others (cookie_id, device_id) are weaker and
// usually need additional signals before linking on them.
type IdentityType string

const (
	IdentityTypeEmail      IdentityType = "email"
	IdentityTypePhone      IdentityType = "phone"
	IdentityTypeHashedCC   IdentityType = "hashed_cc"
	IdentityTypeLoyaltyID  IdentityType = "loyalty_id"
	IdentityTypeDeviceID   IdentityType = "device_id"
	IdentityTypeCookieID   IdentityType = "cookie_id"
	IdentityTypeCustomerID IdentityType = "customer_id"
	IdentityTypeNameZip    IdentityType = "name_zip"
	// IdentityTypeFullName is composed by the materializer from first/last
	// name fields; it is never ingested directly.
	IdentityTypeFullName IdentityType = "full_name"
)

// IdentityFragment is a single piece of identity evidence observed in a
// source system. Value keeps the original casing for display; comparisons go
// through Key, which lowercases and trims.
type IdentityFragment struct {
	Type         IdentityType   `json:"fragment_type"`
	Value        string         `json:"fragment_value"`
	SourceSystem string         `json:"source_system,omitempty"`
	Confidence   float64        `json:"confidence"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// FragmentKey identifies a fragment for deduplication. Two fragments with
// the same key are the same piece of evidence regardless of source system,
// confidence, or metadata.
type FragmentKey struct {
	Type  IdentityType
	Value string
}

// NewIdentityFragment builds a fragment with full confidence.
func NewIdentityFragment(fragmentType IdentityType, value, sourceSystem string) IdentityFragment {
	frag, _ := NewIdentityFragmentWithConfidence(fragmentType, value, sourceSystem, 1.0)
	return frag
}

// NewIdentityFragmentWithConfidence builds a fragment and validates the
// confidence range. Out-of-range confidence is a programming error on the
// caller's side, not bad source data, so it is rejected rather than clamped.
func NewIdentityFragmentWithConfidence(fragmentType IdentityType, value, sourceSystem string, confidence float64) (IdentityFragment, error) {
	if confidence < 0.0 || confidence > 1.0 {
		return IdentityFragment{}, fmt.Errorf("confidence must be between 0.0 and 1.0, got %v", confidence)
	}
	return IdentityFragment{
		Type:         fragmentType,
		Value:        value,
		SourceSystem: sourceSystem,
		Confidence:   confidence,
	}, nil
}

// Key returns the dedup key for this fragment: type plus the trimmed,
// lowercased value. "John@Example.COM" and "john@example.com" share a key;
// a phone fragment never shares a key with an email fragment of the same
// text.
func (f IdentityFragment) Key() FragmentKey {
	return FragmentKey{
		Type:  f.Type,
		Value: strings.ToLower(strings.TrimSpace(f.Value)),
	}
}

// Equal reports whether two fragments carry the same evidence. Source
// system, confidence, and metadata are deliberately ignored.
func (f IdentityFragment) Equal(other IdentityFragment) bool {
	return f.Key() == other.Key()
}

// ResolvedIdentity is one unified customer entity produced by a resolution
// run. GlobalID is generated per run; it is only stable across runs if the
// caller persists and re-feeds it, which is outside this service.
type ResolvedIdentity struct {
	GlobalID         string             `json:"global_id"`
	Fragments        []IdentityFragment `json:"fragments"`
	MatchProbability float64            `json:"match_probability"`
}

// NewResolvedIdentity validates the match probability range. Fragment order
// is preserved as given; callers are expected to have deduplicated already.
func NewResolvedIdentity(globalID string, fragments []IdentityFragment, matchProbability float64) (ResolvedIdentity, error) {
	if matchProbability < 0.0 || matchProbability > 1.0 {
		return ResolvedIdentity{}, fmt.Errorf("match probability must be between 0.0 and 1.0, got %v", matchProbability)
	}
	return ResolvedIdentity{
		GlobalID:         globalID,
		Fragments:        fragments,
		MatchProbability: matchProbability,
	}, nil
}

// Emails returns the values of all email fragments, in fragment order.
func (r ResolvedIdentity) Emails() []string {
	return r.valuesOfType(IdentityTypeEmail)
}

// Phones returns the values of all phone fragments, in fragment order.
func (r ResolvedIdentity) Phones() []string {
	return r.valuesOfType(IdentityTypePhone)
}

// HasFragmentType reports whether at least one fragment of the given type
// exists. Linear scan; fragment counts are bounded by the records that
// contributed to the identity.
func (r ResolvedIdentity) HasFragmentType(fragmentType IdentityType) bool {
	for _, frag := range r.Fragments {
		if frag.Type == fragmentType {
			return true
		}
	}
	return false
}

func (r ResolvedIdentity) valuesOfType(fragmentType IdentityType) []string {
	values := make([]string, 0)
	for _, frag := range r.Fragments {
		if frag.Type == fragmentType {
			values = append(values, frag.Value)
		}
	}
	return values
}
