package linker

import (
	"strings"

	"github.com/google/uuid"

	"github.com/Ramsey-B/aster/pkg/models"
)

// defaultMatchProbability is assumed for rows the external matcher clustered
// without reporting a probability.
const defaultMatchProbability = 0.9

// materialize converts clusters of row indices into resolved identities.
// probabilities maps row index to the externally supplied match probability;
// a nil map means the deterministic path, which always materializes with
// probability 1.0.
//
// Fragment deduplication is first-wins on (type, normalized value): the
// first row in cluster order contributing a value determines the fragment's
// source system, and later duplicates from other sources are dropped. That
// makes provenance depend on AddRecords call order - a deliberate,
// documented contract, not an accident to fix here.
func (l *Linker) materialize(clusters [][]int, probabilities map[int]float64) []models.ResolvedIdentity {
	identities := make([]models.ResolvedIdentity, 0, len(clusters))
	for _, members := range clusters {
		identities = append(identities, l.materializeCluster(members, probabilities))
	}
	return identities
}

func (l *Linker) materializeCluster(members []int, probabilities map[int]float64) models.ResolvedIdentity {
	fragments := make([]models.IdentityFragment, 0)
	seen := make(map[models.FragmentKey]struct{})

	appendFragment := func(fragmentType models.IdentityType, value, source string) {
		if value == "" {
			return
		}
		frag := models.NewIdentityFragment(fragmentType, value, source)
		key := frag.Key()
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		fragments = append(fragments, frag)
	}

	for _, idx := range members {
		record := l.records[idx]
		source := record.SourceSystem

		appendFragment(models.IdentityTypeEmail, record.Email, source)
		appendFragment(models.IdentityTypePhone, record.Phone, source)

		if record.FirstName != "" || record.LastName != "" {
			name := strings.TrimSpace(record.FirstName + " " + record.LastName)
			appendFragment(models.IdentityTypeFullName, name, source)
		}

		appendFragment(models.IdentityTypeHashedCC, record.HashedCC, source)
		appendFragment(models.IdentityTypeLoyaltyID, record.LoyaltyID, source)
	}

	// A cluster with no identity fields still yields an identity with an
	// empty fragment list; dropping it is the caller's decision.
	identity, _ := models.NewResolvedIdentity(
		uuid.New().String(),
		fragments,
		clusterProbability(members, probabilities),
	)
	return identity
}

// clusterProbability averages the externally supplied per-member match
// probabilities, defaulting missing ones to defaultMatchProbability. The
// matcher's output originates outside this system, so values are clamped
// into range rather than rejected. The deterministic path (nil map) is
// always 1.0.
func clusterProbability(members []int, probabilities map[int]float64) float64 {
	if probabilities == nil {
		return 1.0
	}

	total := 0.0
	for _, idx := range members {
		p, ok := probabilities[idx]
		if !ok {
			p = defaultMatchProbability
		}
		total += p
	}
	mean := total / float64(len(members))

	if mean < 0.0 {
		return 0.0
	}
	if mean > 1.0 {
		return 1.0
	}
	return mean
}
