package linker

import (
	"context"
	"errors"

	"github.com/Ramsey-B/aster/pkg/models"
)

// ErrMatcherUnavailable is returned by Resolve when no probabilistic matcher
// has been configured. It signals a dependency problem, not a data problem;
// callers may fall back to ResolveDeterministic.
var ErrMatcherUnavailable = errors.New("probabilistic matcher is not configured")

// ClusterAssignment is one row's cluster membership as decided by an
// external matcher, keyed by the row's unique id.
type ClusterAssignment struct {
	UniqueID         string  `json:"unique_id"`
	ClusterID        string  `json:"cluster_id"`
	MatchProbability float64 `json:"match_probability"`
}

// Matcher is the boundary to an external probabilistic record-linkage
// engine. Implementations receive the normalized working set and return a
// cluster assignment per row under the given match threshold. Rows the
// matcher omits are treated as singleton clusters.
//
// The call may block on an external process or database; callers own the
// timeout policy via ctx.
type Matcher interface {
	Match(ctx context.Context, rows []models.SourceRecord, matchThreshold float64) ([]ClusterAssignment, error)
}
