package fusion

import (
	"github.com/datesafe/verification-backend/internal/domain/verification"
)

// Recommendation thresholds.
const (
	faceConsistencyRecBar = 70.0
	socialAuthRecBar      = 50.0
	languageAuthRecBar    = 60.0
	scammerRecBar         = 50.0
	catfishRecBar         = 60.0
)

// appendRecommendations emits user-facing advice keyed off the thresholds
// already computed. The rule order is fixed so output is deterministic.
func (e *Engine) appendRecommendations(r *verification.ComprehensiveVerificationResult) {
	if r.CatfishAnalysis.FaceConsistency < faceConsistencyRecBar {
		r.Recommendations = append(r.Recommendations,
			"Request a live video call to verify their identity")
	}
	if r.SocialVerification.NetworkAuthenticity < socialAuthRecBar {
		r.Recommendations = append(r.Recommendations,
			"Check tagged photos and mutual connections on their social profiles")
	}
	if r.BehavioralAnalysis.Language.NativeSpeakerProbability < languageAuthRecBar {
		r.Recommendations = append(r.Recommendations,
			"Ask questions only someone from their claimed location could answer")
	}
	if r.LikelihoodAssessments.ScammerProbability > scammerRecBar {
		r.Recommendations = append(r.Recommendations,
			"Never send money or financial details to this person")
	}
	if r.LikelihoodAssessments.CatfishProbability > catfishRecBar {
		r.Recommendations = append(r.Recommendations,
			"Insist on a video call before developing further attachment")
	}
	if r.RiskLevel == verification.RiskHigh || r.RiskLevel == verification.RiskCritical {
		r.Recommendations = append(r.Recommendations,
			"Consider ending contact and reporting this profile to the platform")
	}
}
