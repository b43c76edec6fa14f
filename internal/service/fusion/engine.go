package fusion

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/datesafe/verification-backend/internal/domain/verification"
)

// DefaultProviderTimeout bounds each signal provider's external calls when no
// timeout is configured.
const DefaultProviderTimeout = 30 * time.Second

// Trust-score fusion weights.
const (
	imageWeight      = 0.25
	behaviorWeight   = 0.30
	legitimacyWeight = 0.20
	facialWeight     = 0.15
	footprintWeight  = 0.10

	criticalWarningPenalty = 10.0
	immediateThreatPenalty = 15.0
)

// Engine fuses the three signal providers into one trust verdict. It never
// returns an error: provider trouble degrades that signal to neutral defaults
// and surfaces as a critical warning naming the subsystem.
type Engine struct {
	photos       PhotoProvider
	conversation ConversationProvider
	profiles     ProfileProvider
	timeout      time.Duration
	logger       *zap.Logger
	tracer       trace.Tracer

	// OnProviderFailure, when set before the engine is used, is invoked with
	// the subsystem name each time a provider errors, times out or panics.
	// It must be safe for concurrent use; the metrics registry hangs its
	// failure counter here.
	OnProviderFailure func(provider string)
}

// NewEngine wires the engine. Any provider may be nil; its input type is then
// treated as absent.
func NewEngine(photos PhotoProvider, conversation ConversationProvider, profiles ProfileProvider, timeout time.Duration, logger *zap.Logger) *Engine {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		photos:       photos,
		conversation: conversation,
		profiles:     profiles,
		timeout:      timeout,
		logger:       logger,
		tracer:       otel.Tracer("verification.fusion"),
	}
}

// Verify runs the full fusion pipeline. It is total over all well-typed
// requests: every path yields a complete result, never a panic or error.
func (e *Engine) Verify(ctx context.Context, req *verification.VerificationRequest) *verification.ComprehensiveVerificationResult {
	ctx, span := e.tracer.Start(ctx, "fusion.verify")
	defer span.End()

	result := verification.NewResult()

	profileRan := e.collectSignals(ctx, req, result)

	e.assessLikelihoods(result)
	e.applyCrossReferenceRules(result)
	e.applyTimelineRules(result, req.Context)
	result.LikelihoodAssessments.GenuineProbability = genuineProbability(result.LikelihoodAssessments)

	e.fillSummaries(result, profileRan)
	result.OverallTrustScore = e.computeTrust(result, profileRan)
	result.RiskLevel = verification.RiskLevelFromScore(result.OverallTrustScore)

	e.appendRecommendations(result)
	e.sweepImmediateThreats(result)

	span.SetAttributes(
		attribute.Float64("verification.trust_score", result.OverallTrustScore),
		attribute.String("verification.risk_level", string(result.RiskLevel)),
	)

	e.logger.Info("verification completed",
		zap.String("id", result.ID.String()),
		zap.Float64("trust_score", result.OverallTrustScore),
		zap.String("risk_level", string(result.RiskLevel)),
		zap.Int("critical_warnings", len(result.CriticalWarnings)),
		zap.Int("immediate_threats", len(result.ImmediateThreats)))

	return result
}

// collectSignals fans the providers out concurrently, waits for all of them
// to settle, and folds failures into critical warnings in a fixed order. The
// return value reports whether the profile provider actually ran.
func (e *Engine) collectSignals(ctx context.Context, req *verification.VerificationRequest, result *verification.ComprehensiveVerificationResult) bool {
	var (
		wg          sync.WaitGroup
		photoWarn   string
		convWarn    string
		profileWarn string
		profileRan  bool
	)

	guarded := func(name string, fn func(context.Context) error) string {
		cctx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		cctx, span := e.tracer.Start(cctx, name)
		defer span.End()

		err := func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic: %v", r)
				}
			}()
			return fn(cctx)
		}()
		if err == nil {
			return ""
		}
		span.RecordError(err)
		e.logger.Warn("signal provider failed", zap.String("provider", name), zap.Error(err))
		if e.OnProviderFailure != nil {
			e.OnProviderFailure(name)
		}
		return fmt.Sprintf("%s subsystem failed; its signals were replaced with neutral defaults", name)
	}

	if req.HasPhotos() && e.photos != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			photoWarn = guarded("photo analysis", func(cctx context.Context) error {
				analysis, err := e.photos.Analyze(cctx, req.Photos)
				if err != nil {
					return err
				}
				result.CatfishAnalysis = analysis
				return nil
			})
		}()
	}

	if req.HasConversation() && e.conversation != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			convWarn = guarded("conversation analysis", func(cctx context.Context) error {
				analysis, err := e.conversation.Analyze(cctx, req.Conversation)
				if err != nil {
					return err
				}
				result.BehavioralAnalysis = analysis
				result.ScammerProfile = e.conversation.DetectScammerType(cctx, req.Conversation)
				return nil
			})
		}()
	}

	if req.HasProfileURLs() && e.profiles != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			profileWarn = guarded("profile verification", func(cctx context.Context) error {
				verified, err := e.profiles.Verify(cctx, req.ProfileURLs, req.ProfileData)
				if err != nil {
					return err
				}
				result.SocialVerification = verified
				profileRan = true
				return nil
			})
		}()
	}

	wg.Wait()

	for _, w := range []string{photoWarn, convWarn, profileWarn} {
		if w != "" {
			result.CriticalWarnings = append(result.CriticalWarnings, w)
		}
	}
	return profileRan
}

// fillSummaries derives the per-subsystem summary views.
func (e *Engine) fillSummaries(r *verification.ComprehensiveVerificationResult, profileRan bool) {
	c := r.CatfishAnalysis
	r.FacialVerification = verification.FacialVerificationSummary{
		FaceConsistency:        c.FaceConsistency,
		DeepfakeProbability:    c.DeepfakeProbability,
		ProfessionalLikelihood: c.ProfessionalPhotoLikelihood,
		CompositeScore:         facialComposite(c),
	}

	p := r.SocialVerification
	r.DigitalFootprint = verification.DigitalFootprintSummary{
		NetworkAuthenticity:      p.NetworkAuthenticity,
		PresenceYears:            p.DigitalFootprintYears,
		CrossPlatformConsistency: p.CrossPlatformConsistency,
		CompositeScore:           footprintComposite(p, profileRan),
	}

	b := r.BehavioralAnalysis
	r.ConversationIntelligence = verification.ConversationIntelligenceSummary{
		AuthenticityScore: b.AuthenticityScore,
		RiskAssessment:    b.RiskAssessment,
		RedFlagCount:      len(b.BehavioralRedFlags),
		ScammerPatterns:   countArchetypeFlags(b.BehavioralRedFlags),
	}
}

// computeTrust applies the weighted fusion formula, then penalizes warnings
// and threats accrued so far.
func (e *Engine) computeTrust(r *verification.ComprehensiveVerificationResult, profileRan bool) float64 {
	trust := imageWeight*(100-r.CatfishAnalysis.OverallRiskScore) +
		behaviorWeight*r.BehavioralAnalysis.AuthenticityScore +
		legitimacyWeight*r.SocialVerification.ProfileLegitimacy +
		facialWeight*facialComposite(r.CatfishAnalysis) +
		footprintWeight*footprintComposite(r.SocialVerification, profileRan)

	trust -= criticalWarningPenalty * float64(len(r.CriticalWarnings))
	trust -= immediateThreatPenalty * float64(len(r.ImmediateThreats))

	return verification.ClampScore(trust)
}

func facialComposite(c verification.CatfishAnalysis) float64 {
	return (c.FaceConsistency + (100 - c.DeepfakeProbability) + (100 - c.ProfessionalPhotoLikelihood)) / 3
}

// footprintComposite is neutral unless the profile provider actually ran; a
// skipped provider's zero presence-years must not read as a bad footprint.
func footprintComposite(p verification.ProfileVerificationResult, profileRan bool) float64 {
	if !profileRan {
		return 50
	}
	presence := math.Min(p.DigitalFootprintYears*10, 100)
	return (p.NetworkAuthenticity + presence + p.CrossPlatformConsistency) / 3
}

func countArchetypeFlags(flags []verification.BehavioralPattern) int {
	n := 0
	for _, f := range flags {
		switch verification.ScammerType(f.PatternType) {
		case verification.ScammerTypeRomance, verification.ScammerTypeInvestment,
			verification.ScammerTypeSextortion, verification.ScammerTypeCatfish:
			n++
		}
	}
	return n
}
