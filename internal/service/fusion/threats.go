package fusion

import (
	"slices"

	"github.com/datesafe/verification-backend/internal/domain/verification"
)

// Catfish likelihood above this triggers the catfish alert.
const catfishAlertBar = 80.0

// Deepfake probability above this triggers the deepfake alert.
const deepfakeAlertBar = 70.0

// sweepImmediateThreats runs last and promotes the most dangerous findings to
// explicit alerts.
func (e *Engine) sweepImmediateThreats(r *verification.ComprehensiveVerificationResult) {
	for _, f := range r.BehavioralAnalysis.BehavioralRedFlags {
		switch f.PatternType {
		case "money_request":
			appendThreat(r, "FINANCIAL SCAM ALERT: explicit request for money detected")
		case string(verification.ScammerTypeSextortion):
			appendThreat(r, "SEXTORTION RISK: extortion-pattern messaging detected")
		case "information_harvesting":
			appendThreat(r, "IDENTITY THEFT RISK: probing for sensitive personal information")
		}
	}

	if r.CatfishAnalysis.DeepfakeProbability > deepfakeAlertBar {
		appendThreat(r, "DEEPFAKE ALERT: profile photos are likely AI-generated or manipulated")
	}
	if r.LikelihoodAssessments.CatfishProbability > catfishAlertBar {
		appendThreat(r, "CATFISH ALERT: this identity is likely fabricated")
	}
}

func appendThreat(r *verification.ComprehensiveVerificationResult, threat string) {
	if !slices.Contains(r.ImmediateThreats, threat) {
		r.ImmediateThreats = append(r.ImmediateThreats, threat)
	}
}
