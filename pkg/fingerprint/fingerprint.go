// Package fingerprint produces deterministic fingerprints of resolution
// working sets, used to correlate resolution runs across retries and
// re-deliveries.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/Ramsey-B/aster/pkg/models"
)

// WorkingSet returns a SHA256 fingerprint of a normalized working set. Rows
// are canonicalized and sorted by unique id first, so the fingerprint is
// independent of ingestion order: re-submitting the same records from the
// same sources yields the same fingerprint even if batches arrive in a
// different order.
func WorkingSet(rows []models.SourceRecord) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, canonicalRow(row))
	}
	sort.Strings(lines)

	hash := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(hash[:])
}

// canonicalRow renders one row as a fixed-order field list. Field order is
// part of the fingerprint contract; changing it invalidates all previously
// recorded fingerprints.
func canonicalRow(row models.SourceRecord) string {
	return strings.Join([]string{
		row.UniqueID,
		row.Email,
		row.Phone,
		row.FirstName,
		row.LastName,
		row.HashedCC,
		row.LoyaltyID,
	}, "|")
}

// HasChanged compares two fingerprints to detect changes
func HasChanged(oldFingerprint, newFingerprint string) bool {
	return oldFingerprint != newFingerprint
}
