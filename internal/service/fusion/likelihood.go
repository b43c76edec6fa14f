package fusion

import (
	"github.com/datesafe/verification-backend/internal/domain/verification"
)

// Per-archetype-flag contribution to the scammer likelihood.
const perScammerPatternBoost = 25.0

// assessLikelihoods computes the base threat probabilities from the settled
// sub-results. Cross-reference and timeline rules may boost them afterwards;
// the genuine probability is derived last from the final three.
func (e *Engine) assessLikelihoods(r *verification.ComprehensiveVerificationResult) {
	c := r.CatfishAnalysis
	b := r.BehavioralAnalysis

	catfish := 0.4*c.OverallRiskScore + 0.3*(100-c.FaceConsistency) + 0.3*c.ProfessionalPhotoLikelihood

	scammer := perScammerPatternBoost*float64(countArchetypeFlags(b.BehavioralRedFlags)) +
		0.5*b.Emotional.ManipulationScore
	if b.Emotional.ManipulationScore > 0 {
		scammer += 30
	}

	bot := 0.6 * b.Language.CopyPasteLikelihood
	if b.Timing.SuspiciousTiming {
		bot += 40
	}

	r.LikelihoodAssessments.CatfishProbability = verification.ClampScore(catfish)
	r.LikelihoodAssessments.ScammerProbability = verification.ClampScore(scammer)
	r.LikelihoodAssessments.BotProbability = verification.ClampScore(bot)
}

func genuineProbability(l verification.LikelihoodAssessments) float64 {
	avg := (l.CatfishProbability + l.ScammerProbability + l.BotProbability) / 3
	return verification.ClampScore(100 - avg)
}

func boostCatfish(r *verification.ComprehensiveVerificationResult, points float64) {
	r.LikelihoodAssessments.CatfishProbability =
		verification.ClampScore(r.LikelihoodAssessments.CatfishProbability + points)
}

func boostScammer(r *verification.ComprehensiveVerificationResult, points float64) {
	r.LikelihoodAssessments.ScammerProbability =
		verification.ClampScore(r.LikelihoodAssessments.ScammerProbability + points)
}

func boostBot(r *verification.ComprehensiveVerificationResult, points float64) {
	r.LikelihoodAssessments.BotProbability =
		verification.ClampScore(r.LikelihoodAssessments.BotProbability + points)
}
