package matching

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fernwerk/orgmatch/internal/docstore"
	"github.com/fernwerk/orgmatch/internal/logging"
	"github.com/fernwerk/orgmatch/internal/similarity"
	"github.com/fernwerk/orgmatch/internal/tenant"
)

const instrumentationName = "github.com/fernwerk/orgmatch/internal/matching"

// Resolver sequences the matching stages into one terminal result per
// call. Each stage either resolves or falls through to the next; the
// cascade always terminates in a match, a creation, or the none result.
type Resolver struct {
	pool    *PoolLoader
	pattern *PatternAnalyzer
	fuzzy   *FuzzyMatcher
	exact   *ExactResolver
	creator *EntityCreator
	policy  Policy
	logger  *zap.Logger

	tracer    trace.Tracer
	meter     metric.Meter
	resolved  metric.Int64Counter
	duration  metric.Float64Histogram
}

// NewResolver wires the full cascade over a document store and a
// similarity scorer.
func NewResolver(store docstore.Store, scorer similarity.Scorer, policy Policy, logger *zap.Logger) (*Resolver, error) {
	if store == nil {
		return nil, errors.New("document store is required")
	}
	if scorer == nil {
		return nil, errors.New("similarity scorer is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	r := &Resolver{
		pool:    NewPoolLoader(store, logger),
		pattern: NewPatternAnalyzer(store, policy, logger),
		fuzzy:   NewFuzzyMatcher(scorer, policy, logger),
		exact:   NewExactResolver(logger),
		creator: NewEntityCreator(store, logger),
		policy:  policy,
		logger:  logger,
		tracer:  otel.Tracer(instrumentationName),
		meter:   otel.Meter(instrumentationName),
	}
	r.initMetrics()
	return r, nil
}

func (r *Resolver) initMetrics() {
	var err error
	r.resolved, err = r.meter.Int64Counter(
		"orgmatch.resolutions_total",
		metric.WithDescription("Completed resolutions labeled by method and confidence tier."),
		metric.WithUnit("{resolution}"),
	)
	if err != nil {
		r.logger.Warn("failed to create resolutions counter", zap.Error(err))
	}
	r.duration, err = r.meter.Float64Histogram(
		"orgmatch.resolution_duration_seconds",
		metric.WithDescription("End-to-end resolution duration in seconds, labeled by method."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0),
	)
	if err != nil {
		r.logger.Warn("failed to create resolution duration histogram", zap.Error(err))
	}
}

// Resolve runs the cascade for one set of candidate variants.
//
// Stage order is fixed: load pool → pattern analysis → fuzzy name match
// → exact name match → deferred pattern evidence → create. Fuzzy and
// exact run only when a name signal exists. An empty or nameless variant
// list produces the none result, never an error; only a creation write
// failure is surfaced.
func (r *Resolver) Resolve(ctx context.Context, variants []CandidateVariant, tenantID, userID string, autoGlobal bool) (*MatchResult, error) {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "matching.Resolve",
		trace.WithAttributes(
			attribute.String("tenant.id", tenantID),
			attribute.Int("variants.count", len(variants)),
		))
	defer span.End()

	if err := tenant.ValidateTenantID(tenantID); err != nil {
		span.SetStatus(codes.Error, "invalid tenant")
		return nil, err
	}
	if err := tenant.ValidateUserID(userID); err != nil {
		span.SetStatus(codes.Error, "invalid user")
		return nil, err
	}

	result, err := r.runCascade(ctx, variants, tenantID, userID, autoGlobal)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		r.record(ctx, start, MethodNone, TierNone)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("match.method", string(result.Method)),
		attribute.String("match.confidence", string(result.Confidence)),
		attribute.Bool("match.created", result.WasCreated),
	)
	r.record(ctx, start, result.Method, result.Confidence)
	fields := append([]zap.Field{
		zap.String("tenant", tenantID),
		zap.String("method", string(result.Method)),
		zap.String("confidence", string(result.Confidence)),
		zap.String("company", result.CompanyID),
		zap.Bool("created", result.WasCreated),
		zap.Duration("duration", time.Since(start)),
	}, logging.ContextFields(ctx)...)
	r.logger.Info("resolution complete", fields...)
	return result, nil
}

func (r *Resolver) runCascade(ctx context.Context, variants []CandidateVariant, tenantID, userID string, autoGlobal bool) (*MatchResult, error) {
	if len(variants) == 0 {
		return noneResult(), nil
	}

	signals := r.extractStage(ctx, variants)
	pool := r.loadPoolStage(ctx, tenantID)

	// Empty pool: nothing to match against, go straight to creation.
	if len(pool) == 0 {
		return r.createStage(ctx, variants, tenantID, userID, autoGlobal)
	}

	analysis := r.patternStage(ctx, signals, pool, tenantID)
	if analysis.Top != nil && analysis.Confidence >= r.policy.PatternThreshold {
		return r.databaseResult(analysis), nil
	}

	// A direct id reference identifies its target outright; a name match
	// against some other pool company must not override it.
	if analysis.Top != nil && signals.HasCompanyID(analysis.Top.ID) {
		return r.databaseResult(analysis), nil
	}

	if signals.HasNameSignal() {
		if match := r.fuzzyStage(ctx, signals.CompanyNames[0], pool); match != nil {
			return match, nil
		}
		if match := r.exactStage(ctx, signals.CompanyNames, pool); match != nil {
			return match, nil
		}
	}

	// Sub-threshold pattern evidence still beats creating a duplicate
	// record for a company the tenant's contacts already point at.
	if analysis.Top != nil {
		return r.databaseResult(analysis), nil
	}

	return r.createStage(ctx, variants, tenantID, userID, autoGlobal)
}

func (r *Resolver) databaseResult(analysis PatternAnalysis) *MatchResult {
	return &MatchResult{
		CompanyID:   analysis.Top.ID,
		CompanyName: analysis.Top.Name,
		Confidence:  r.policy.patternTier(analysis.Confidence),
		Method:      MethodDatabaseAnalysis,
		Evidence:    analysis.Evidence,
	}
}

// Per-stage spans keep the cascade walkable in traces.

func (r *Resolver) extractStage(ctx context.Context, variants []CandidateVariant) SignalSet {
	_, span := r.tracer.Start(ctx, "matching.ExtractSignals")
	defer span.End()
	signals := ExtractSignals(variants)
	span.SetAttributes(
		attribute.Int("signals.domains", len(signals.EmailDomains)),
		attribute.Int("signals.websites", len(signals.Websites)),
		attribute.Int("signals.names", len(signals.CompanyNames)),
		attribute.Int("signals.ids", len(signals.CompanyIDs)),
	)
	return signals
}

func (r *Resolver) loadPoolStage(ctx context.Context, tenantID string) []PoolCompany {
	ctx, span := r.tracer.Start(ctx, "matching.LoadPool")
	defer span.End()
	pool := r.pool.Load(ctx, tenantID)
	span.SetAttributes(attribute.Int("pool.size", len(pool)))
	return pool
}

func (r *Resolver) patternStage(ctx context.Context, signals SignalSet, pool []PoolCompany, tenantID string) PatternAnalysis {
	ctx, span := r.tracer.Start(ctx, "matching.PatternAnalyze")
	defer span.End()
	analysis := r.pattern.Analyze(ctx, signals, pool, tenantID)
	span.SetAttributes(attribute.Float64("pattern.confidence", analysis.Confidence))
	return analysis
}

func (r *Resolver) fuzzyStage(ctx context.Context, name string, pool []PoolCompany) *MatchResult {
	_, span := r.tracer.Start(ctx, "matching.FuzzyMatch")
	defer span.End()
	match := r.fuzzy.Match(name, pool)
	span.SetAttributes(attribute.Bool("fuzzy.matched", match != nil))
	return match
}

func (r *Resolver) exactStage(ctx context.Context, names []string, pool []PoolCompany) *MatchResult {
	_, span := r.tracer.Start(ctx, "matching.ExactMatch")
	defer span.End()
	match := r.exact.Match(names, pool)
	span.SetAttributes(attribute.Bool("exact.matched", match != nil))
	return match
}

func (r *Resolver) createStage(ctx context.Context, variants []CandidateVariant, tenantID, userID string, autoGlobal bool) (*MatchResult, error) {
	ctx, span := r.tracer.Start(ctx, "matching.CreateEntity")
	defer span.End()
	result, err := r.creator.Create(ctx, variants, tenantID, userID, autoGlobal)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("entity creation failed: %w", err)
	}
	span.SetAttributes(attribute.Bool("entity.created", result.WasCreated))
	return result, nil
}

func (r *Resolver) record(ctx context.Context, start time.Time, method Method, tier Tier) {
	attrs := metric.WithAttributes(
		attribute.String("method", string(method)),
		attribute.String("confidence", string(tier)),
	)
	if r.resolved != nil {
		r.resolved.Add(ctx, 1, attrs)
	}
	if r.duration != nil {
		r.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
			attribute.String("method", string(method)),
		))
	}
}
