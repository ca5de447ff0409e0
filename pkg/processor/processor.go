// Package processor runs resolution requests end to end: build a working set
// from the request's source batches, resolve it, and emit lifecycle events.
// Each request gets its own linker instance, so concurrent requests never
// share state.
package processor

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"

	"github.com/Ramsey-B/aster/config"
	appcontext "github.com/Ramsey-B/aster/pkg/context"
	"github.com/Ramsey-B/aster/pkg/events"
	"github.com/Ramsey-B/aster/pkg/fingerprint"
	"github.com/Ramsey-B/aster/pkg/kafka"
	"github.com/Ramsey-B/aster/pkg/linker"
	"github.com/Ramsey-B/aster/pkg/metrics"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// Processor executes resolution requests from both the HTTP API and the
// Kafka consumer. The emitter is optional; a nil emitter runs resolutions
// without publishing events.
type Processor struct {
	cfg      config.Config
	logger   ectologger.Logger
	emitter  *events.Emitter
	matcher  linker.Matcher
	validate *validator.Validate
}

// NewProcessor creates a new resolution processor
func NewProcessor(cfg config.Config, logger ectologger.Logger, emitter *events.Emitter, matcher linker.Matcher) *Processor {
	return &Processor{
		cfg:      cfg,
		logger:   logger,
		emitter:  emitter,
		matcher:  matcher,
		validate: validator.New(),
	}
}

// Run resolves one request and returns the result. Validation failures and
// oversized requests come back as HTTP errors so callers can distinguish
// permanent rejections from transient failures.
func (p *Processor) Run(ctx context.Context, req *models.ResolutionRequest) (*models.ResolutionResult, error) {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.Run")
	defer span.End()

	if err := p.validate.Struct(req); err != nil {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid resolution request: %s", err))
	}

	mode := req.Mode
	if mode == "" {
		mode = models.ResolutionModeDeterministic
	}
	if mode != models.ResolutionModeDeterministic && mode != models.ResolutionModeProbabilistic {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown resolution mode %q", mode))
	}

	total := 0
	for _, batch := range req.Sources {
		total += len(batch.Records)
	}
	if total > p.cfg.MaxRecordsPerRequest {
		return nil, httperror.NewHTTPError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request contains %d records, limit is %d", total, p.cfg.MaxRecordsPerRequest))
	}

	threshold := req.MatchThreshold
	if threshold == 0 {
		threshold = p.cfg.DefaultMatchThreshold
	}

	l := linker.NewWithMatcher(p.logger, p.matcher)
	for _, batch := range req.Sources {
		opts := []linker.AddOption{}
		if batch.IDColumn != "" {
			opts = append(opts, linker.WithIDColumn(batch.IDColumn))
		}

		before := l.Len()
		l.AddRecords(ctx, batch.Records, batch.Source, opts...)

		metrics.RecordsIngested.WithLabelValues(batch.Source).Add(float64(l.Len() - before))
		metrics.RecordsSkipped.WithLabelValues(batch.Source).Add(float64(len(batch.Records) - (l.Len() - before)))
	}

	start := time.Now()
	var identities []models.ResolvedIdentity
	var err error
	switch mode {
	case models.ResolutionModeProbabilistic:
		identities, err = l.Resolve(ctx, threshold)
	default:
		identities = l.ResolveDeterministic(ctx)
	}
	metrics.ResolutionDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ResolutionsTotal.WithLabelValues(string(mode), "error").Inc()
		if err == linker.ErrMatcherUnavailable {
			return nil, httperror.NewHTTPError(http.StatusNotImplemented, "probabilistic matching is not configured")
		}
		return nil, err
	}

	metrics.ResolutionsTotal.WithLabelValues(string(mode), "success").Inc()
	metrics.IdentitiesProduced.Add(float64(len(identities)))

	return &models.ResolutionResult{
		Identities:    identities,
		RecordCount:   l.Len(),
		SkippedCount:  l.Skipped(),
		IdentityCount: len(identities),
		Mode:          mode,
		Fingerprint:   fingerprint.WorkingSet(l.Records()),
	}, nil
}

// HandleMessage is the Kafka consumer entry point. Permanent rejections emit
// a resolution.failed event and return nil so the offset commits; transient
// failures return the error for redelivery.
func (p *Processor) HandleMessage(ctx context.Context, msg *kafka.IncomingMessage) error {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.HandleMessage")
	defer span.End()

	if msg.Request == nil {
		p.logger.WithContext(ctx).Error("Message has no parsed resolution request")
		return nil
	}

	tenantID := msg.GetTenantID()
	correlationID := msg.GetCorrelationID()
	ctx = appcontext.SetTenantID(ctx, tenantID)

	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id":      tenantID,
		"correlation_id": correlationID,
		"mode":           string(msg.GetMode()),
	})

	start := time.Now()
	result, err := p.Run(ctx, msg.Request)
	if err != nil {
		if httperror.IsHTTPError(err) && httperror.GetStatusCode(err) < http.StatusInternalServerError {
			log.WithError(err).Error("Rejecting resolution request")
			p.emitFailed(ctx, tenantID, correlationID, msg.GetMode(), err)
			return nil
		}
		log.WithError(err).Error("Resolution run failed")
		return err
	}

	if p.emitter != nil {
		if err := p.emitter.EmitIdentitiesResolved(ctx, tenantID, correlationID, result.Mode, result.Identities); err != nil {
			return err
		}
		if err := p.emitter.EmitResolutionCompleted(ctx, tenantID, correlationID, result, time.Since(start).Milliseconds()); err != nil {
			return err
		}
	}

	log.WithFields(map[string]any{
		"record_count":   result.RecordCount,
		"skipped_count":  result.SkippedCount,
		"identity_count": result.IdentityCount,
	}).Info("Resolution request processed")
	return nil
}

func (p *Processor) emitFailed(ctx context.Context, tenantID, correlationID string, mode models.ResolutionMode, cause error) {
	if p.emitter == nil {
		return
	}
	if err := p.emitter.EmitResolutionFailed(ctx, tenantID, correlationID, mode, cause.Error()); err != nil {
		p.logger.WithContext(ctx).WithError(err).Error("Failed to emit resolution.failed event")
	}
}
