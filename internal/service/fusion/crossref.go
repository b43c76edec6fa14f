package fusion

import (
	"slices"

	"github.com/datesafe/verification-backend/internal/domain/verification"
)

// Thresholds for the cross-reference rules.
const (
	highImageRisk         = 70.0
	lowBehavioralAuth     = 30.0
	manyReverseHits       = 3
	lowProfileLegitimacy  = 40.0
	nonNativeThreshold    = 50.0
	professionalPhotoBar  = 70.0
	scriptFollowingBar    = 50.0
	highCopyPaste         = 40.0

	professionalScriptCatfishBoost = 30.0
	loveBombScammerBoost           = 40.0
	timingCopyPasteBotBoost        = 35.0
)

// applyCrossReferenceRules correlates the settled sub-results. Each rule is a
// pure predicate over already-computed scores; matches append warnings or
// threats and may boost a likelihood estimate.
func (e *Engine) applyCrossReferenceRules(r *verification.ComprehensiveVerificationResult) {
	c := r.CatfishAnalysis
	b := r.BehavioralAnalysis
	p := r.SocialVerification

	if c.OverallRiskScore > highImageRisk && b.AuthenticityScore < lowBehavioralAuth {
		r.CriticalWarnings = append(r.CriticalWarnings,
			"multiple verification systems flag this profile as fraudulent")
	}

	if len(c.ReverseSearchMatches) > manyReverseHits && p.ProfileLegitimacy < lowProfileLegitimacy {
		r.CriticalWarnings = append(r.CriticalWarnings,
			"photos appear widely online and the web presence looks illegitimate")
	}

	if b.Language.NativeSpeakerProbability < nonNativeThreshold &&
		slices.Contains(p.RedFlags, verification.RedFlagLocationMismatch) {
		r.CriticalWarnings = append(r.CriticalWarnings,
			"language signals are inconsistent with the claimed location")
	}

	if c.ProfessionalPhotoLikelihood > professionalPhotoBar &&
		b.Language.ScriptFollowingProbability > scriptFollowingBar {
		boostCatfish(r, professionalScriptCatfishBoost)
		r.CriticalWarnings = append(r.CriticalWarnings,
			"professional-grade photos combined with scripted messaging")
	}

	if b.Emotional.LoveBombingDetected && countArchetypeFlags(b.BehavioralRedFlags) > 0 {
		boostScammer(r, loveBombScammerBoost)
		r.ImmediateThreats = append(r.ImmediateThreats,
			"love bombing combined with known scammer patterns")
	}

	if b.Timing.SuspiciousTiming && b.Language.CopyPasteLikelihood >= highCopyPaste {
		boostBot(r, timingCopyPasteBotBoost)
		r.CriticalWarnings = append(r.CriticalWarnings,
			"mechanical reply timing combined with repeated boilerplate messages")
	}
}
