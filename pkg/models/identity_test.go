package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdentityFragmentWithConfidence(t *testing.T) {
	t.Run("valid confidence", func(t *testing.T) {
		frag, err := NewIdentityFragmentWithConfidence(IdentityTypePhone, "5551234567", "square", 0.7)
		require.NoError(t, err)
		assert.Equal(t, IdentityTypePhone, frag.Type)
		assert.Equal(t, "5551234567", frag.Value)
		assert.Equal(t, "square", frag.SourceSystem)
		assert.Equal(t, 0.7, frag.Confidence)
	})

	t.Run("confidence above range rejected", func(t *testing.T) {
		_, err := NewIdentityFragmentWithConfidence(IdentityTypeEmail, "a@b.com", "", 1.5)
		require.Error(t, err)
	})

	t.Run("confidence below range rejected", func(t *testing.T) {
		_, err := NewIdentityFragmentWithConfidence(IdentityTypeEmail, "a@b.com", "", -0.1)
		require.Error(t, err)
	})

	t.Run("default constructor uses full confidence", func(t *testing.T) {
		frag := NewIdentityFragment(IdentityTypeEmail, "a@b.com", "shopify")
		assert.Equal(t, 1.0, frag.Confidence)
	})
}

func TestIdentityFragmentKey(t *testing.T) {
	tests := []struct {
		name  string
		a     IdentityFragment
		b     IdentityFragment
		equal bool
	}{
		{
			name:  "case insensitive value",
			a:     NewIdentityFragment(IdentityTypeEmail, "John@Example.COM", "shopify"),
			b:     NewIdentityFragment(IdentityTypeEmail, "john@example.com", "square"),
			equal: true,
		},
		{
			name:  "leading and trailing whitespace ignored",
			a:     NewIdentityFragment(IdentityTypeEmail, "  jane@x.com  ", ""),
			b:     NewIdentityFragment(IdentityTypeEmail, "jane@x.com", ""),
			equal: true,
		},
		{
			name:  "different types never equal",
			a:     NewIdentityFragment(IdentityTypeEmail, "5551234567", ""),
			b:     NewIdentityFragment(IdentityTypePhone, "5551234567", ""),
			equal: false,
		},
		{
			name:  "different values not equal",
			a:     NewIdentityFragment(IdentityTypePhone, "5551111111", ""),
			b:     NewIdentityFragment(IdentityTypePhone, "5552222222", ""),
			equal: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equal(tt.b))
			assert.Equal(t, tt.equal, tt.a.Key() == tt.b.Key())
		})
	}
}

func TestIdentityFragmentKey_IgnoresProvenance(t *testing.T) {
	a, err := NewIdentityFragmentWithConfidence(IdentityTypeEmail, "x@y.com", "shopify", 0.4)
	require.NoError(t, err)
	b := NewIdentityFragment(IdentityTypeEmail, "x@y.com", "toast")
	b.Metadata = map[string]any{"note": "from web form"}

	assert.True(t, a.Equal(b))
}

func TestNewResolvedIdentity(t *testing.T) {
	t.Run("rejects out of range probability", func(t *testing.T) {
		_, err := NewResolvedIdentity("id", nil, 1.2)
		require.Error(t, err)
	})

	t.Run("accepts boundary values", func(t *testing.T) {
		_, err := NewResolvedIdentity("id", nil, 0.0)
		require.NoError(t, err)
		_, err = NewResolvedIdentity("id", nil, 1.0)
		require.NoError(t, err)
	})
}

func TestResolvedIdentityViews(t *testing.T) {
	identity, err := NewResolvedIdentity("cust_123", []IdentityFragment{
		NewIdentityFragment(IdentityTypeEmail, "john@example.com", "shopify"),
		NewIdentityFragment(IdentityTypeEmail, "john.doe@work.com", "square"),
		NewIdentityFragment(IdentityTypePhone, "5551234567", "square"),
		NewIdentityFragment(IdentityTypeLoyaltyID, "LOYAL123", "toast"),
	}, 0.95)
	require.NoError(t, err)

	assert.Equal(t, []string{"john@example.com", "john.doe@work.com"}, identity.Emails())
	assert.Equal(t, []string{"5551234567"}, identity.Phones())
	assert.True(t, identity.HasFragmentType(IdentityTypeEmail))
	assert.True(t, identity.HasFragmentType(IdentityTypeLoyaltyID))
	assert.False(t, identity.HasFragmentType(IdentityTypeDeviceID))
}

func TestResolvedIdentityViews_Empty(t *testing.T) {
	identity, err := NewResolvedIdentity("cust_123", nil, 1.0)
	require.NoError(t, err)

	assert.Empty(t, identity.Emails())
	assert.Empty(t, identity.Phones())
	assert.False(t, identity.HasFragmentType(IdentityTypeEmail))
}

func TestSourceRecordHasLinkingKey(t *testing.T) {
	assert.False(t, SourceRecord{FirstName: "jane", LastName: "doe"}.HasLinkingKey())
	assert.True(t, SourceRecord{Email: "jane@x.com"}.HasLinkingKey())
	assert.True(t, SourceRecord{Phone: "5551234567"}.HasLinkingKey())
	assert.True(t, SourceRecord{HashedCC: "abc123"}.HasLinkingKey())
	assert.True(t, SourceRecord{LoyaltyID: "L1"}.HasLinkingKey())
}
