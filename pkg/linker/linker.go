// Package linker implements identity resolution over records ingested from
// multiple source systems: a deterministic union-find path that links rows on
// exact normalized field matches, and a delegating path for external
// probabilistic matchers.
package linker

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/aster/pkg/extractor"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/normalizers"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// DefaultIDColumn is the record key the source id is read from when the
// caller does not override it.
const DefaultIDColumn = "id"

// Linker accumulates normalized records from multiple sources and resolves
// them into identities. One Linker instance covers exactly one resolution
// cycle: construct, add records, resolve, discard.
//
// A Linker is NOT safe for concurrent use. Create one instance per
// concurrent resolution task. All records are held in memory; expect roughly
// 1-2 KB per record, so budget batch sizes accordingly.
type Linker struct {
	logger    ectologger.Logger
	extractor *extractor.Extractor
	matcher   Matcher
	records   []models.SourceRecord
	skipped   int
}

// New creates a linker with only the deterministic path available.
func New(logger ectologger.Logger) *Linker {
	return NewWithMatcher(logger, nil)
}

// NewWithMatcher creates a linker that can also delegate to an external
// probabilistic matcher. A nil matcher leaves only the deterministic path.
func NewWithMatcher(logger ectologger.Logger, matcher Matcher) *Linker {
	return &Linker{
		logger:    logger,
		extractor: extractor.New(),
		matcher:   matcher,
	}
}

// AddOption adjusts how one AddRecords call reads its batch.
type AddOption func(*addOptions)

type addOptions struct {
	idColumn string
}

// WithIDColumn overrides the record key the source id is read from.
func WithIDColumn(column string) AddOption {
	return func(o *addOptions) {
		o.idColumn = column
	}
}

// AddRecords normalizes a batch of raw records from one source and appends
// them to the working set. Rows without a usable id are skipped with a
// warning rather than failing the call - partial ingestion is expected with
// messy source data. Multiple calls with different sources accumulate into
// the same working set.
func (l *Linker) AddRecords(ctx context.Context, records []models.RawRecord, source string, opts ...AddOption) {
	options := addOptions{idColumn: DefaultIDColumn}
	for _, opt := range opts {
		opt(&options)
	}

	added := 0
	for _, record := range records {
		sourceID := l.extractor.String(record, options.idColumn)
		if sourceID == "" {
			l.skipped++
			l.logger.WithContext(ctx).WithFields(map[string]any{
				"source":    source,
				"id_column": options.idColumn,
			}).Warn("Record missing id, skipping")
			continue
		}

		l.records = append(l.records, l.normalizeRecord(record, source, sourceID))
		added++
	}

	l.logger.WithContext(ctx).WithFields(map[string]any{
		"source":  source,
		"added":   added,
		"skipped": len(records) - added,
	}).Info("Added records for resolution")
}

// normalizeRecord builds the fixed working row from a raw record. Each
// identity field reads through its alias chain and normalizes to either a
// canonical string or "" meaning absent.
func (l *Linker) normalizeRecord(record models.RawRecord, source, sourceID string) models.SourceRecord {
	return models.SourceRecord{
		SourceSystem: source,
		SourceID:     sourceID,
		UniqueID:     fmt.Sprintf("%s_%s", source, sourceID),
		Email:        normalizers.NormalizeEmail(l.extractor.String(record, "email", "email_address")),
		Phone:        normalizers.NormalizePhone(l.extractor.String(record, "phone", "phone_number")),
		FirstName:    normalizers.NormalizeName(l.extractor.String(record, "first_name", "fname")),
		LastName:     normalizers.NormalizeName(l.extractor.String(record, "last_name", "lname")),
		HashedCC:     l.extractor.String(record, "hashed_cc", "cc_hash"),
		LoyaltyID:    l.extractor.String(record, "loyalty_id", "member_id"),
	}
}

// Len returns the number of rows in the working set.
func (l *Linker) Len() int {
	return len(l.records)
}

// Skipped returns the number of rows dropped for missing ids.
func (l *Linker) Skipped() int {
	return l.skipped
}

// Records returns a copy of the working set. The engine keeps ownership of
// its internal rows.
func (l *Linker) Records() []models.SourceRecord {
	out := make([]models.SourceRecord, len(l.records))
	copy(out, l.records)
	return out
}

// ResolveDeterministic partitions the working set into identities using
// exact-match transitive closure over email, phone, hashed_cc and
// loyalty_id. Two rows land in the same identity if they are connected by
// any chain of exact matches across those keys. Rows with no linking key at
// all still come back as singleton identities.
//
// The partition is a pure function of the working set: resolving the same
// buffer twice yields the same clusters (global ids differ per call).
func (l *Linker) ResolveDeterministic(ctx context.Context) []models.ResolvedIdentity {
	ctx, span := tracing.StartSpan(ctx, "linker.Linker.ResolveDeterministic")
	defer span.End()

	if len(l.records) == 0 {
		l.logger.WithContext(ctx).Warn("No records to resolve")
		return []models.ResolvedIdentity{}
	}

	l.logger.WithContext(ctx).WithFields(map[string]any{
		"record_count": len(l.records),
	}).Info("Resolving records deterministically")

	ds := newDisjointSet(len(l.records))

	for _, key := range linkingKeys {
		indexesByValue := make(map[string][]int)
		for i, record := range l.records {
			if value := key.value(record); value != "" {
				indexesByValue[value] = append(indexesByValue[value], i)
			}
		}
		for _, indexes := range indexesByValue {
			for i := 1; i < len(indexes); i++ {
				ds.union(indexes[0], indexes[i])
			}
		}
	}

	clusters := groupByRoot(ds, len(l.records))
	identities := l.materialize(clusters, nil)

	l.logger.WithContext(ctx).WithFields(map[string]any{
		"identity_count": len(identities),
	}).Info("Resolved records into identities")
	return identities
}

// Resolve delegates clustering to the configured external probabilistic
// matcher and materializes its assignments through the same path as the
// deterministic resolver. An empty working set short-circuits to an empty
// result without contacting the matcher.
func (l *Linker) Resolve(ctx context.Context, matchThreshold float64) ([]models.ResolvedIdentity, error) {
	ctx, span := tracing.StartSpan(ctx, "linker.Linker.Resolve")
	defer span.End()

	if len(l.records) == 0 {
		l.logger.WithContext(ctx).Warn("No records to resolve")
		return []models.ResolvedIdentity{}, nil
	}
	if l.matcher == nil {
		return nil, ErrMatcherUnavailable
	}

	assignments, err := l.matcher.Match(ctx, l.Records(), matchThreshold)
	if err != nil {
		return nil, fmt.Errorf("probabilistic matcher failed: %w", err)
	}

	assignmentByID := make(map[string]ClusterAssignment, len(assignments))
	for _, a := range assignments {
		assignmentByID[a.UniqueID] = a
	}

	// Group rows by cluster id in working-set order; unassigned rows become
	// singleton clusters.
	clusterOrder := make([]string, 0)
	membersByCluster := make(map[string][]int)
	probabilities := make(map[int]float64)

	for i, record := range l.records {
		clusterID := fmt.Sprintf("unassigned_%d", i)
		if a, ok := assignmentByID[record.UniqueID]; ok {
			clusterID = a.ClusterID
			probabilities[i] = a.MatchProbability
		}
		if _, seen := membersByCluster[clusterID]; !seen {
			clusterOrder = append(clusterOrder, clusterID)
		}
		membersByCluster[clusterID] = append(membersByCluster[clusterID], i)
	}

	clusters := make([][]int, 0, len(clusterOrder))
	for _, clusterID := range clusterOrder {
		clusters = append(clusters, membersByCluster[clusterID])
	}

	identities := l.materialize(clusters, probabilities)

	l.logger.WithContext(ctx).WithFields(map[string]any{
		"identity_count":  len(identities),
		"match_threshold": matchThreshold,
	}).Info("Resolved records via probabilistic matcher")
	return identities, nil
}

// linkingKeys are the fields the deterministic path unions on, in a fixed
// evaluation order.
var linkingKeys = []struct {
	name  string
	value func(models.SourceRecord) string
}{
	{"email", func(r models.SourceRecord) string { return r.Email }},
	{"phone", func(r models.SourceRecord) string { return r.Phone }},
	{"hashed_cc", func(r models.SourceRecord) string { return r.HashedCC }},
	{"loyalty_id", func(r models.SourceRecord) string { return r.LoyaltyID }},
}

// groupByRoot collects row indices into clusters keyed by union-find root.
// Clusters are ordered by their first member's position in the working set,
// and members within a cluster keep working-set order, which makes the
// first-wins fragment provenance downstream deterministic.
func groupByRoot(ds *disjointSet, n int) [][]int {
	order := make([]int, 0)
	membersByRoot := make(map[int][]int)
	for i := 0; i < n; i++ {
		root := ds.find(i)
		if _, seen := membersByRoot[root]; !seen {
			order = append(order, root)
		}
		membersByRoot[root] = append(membersByRoot[root], i)
	}

	clusters := make([][]int, 0, len(order))
	for _, root := range order {
		clusters = append(clusters, membersByRoot[root])
	}
	return clusters
}
