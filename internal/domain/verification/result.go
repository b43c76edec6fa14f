package verification

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel is the discrete classification derived from the overall trust
// score. The order is total: very_low < low < medium < high < critical.
type RiskLevel string

const (
	RiskVeryLow  RiskLevel = "very_low"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Risk level thresholds on the overall trust score. The mapping is monotonic:
// a higher trust score never yields a worse risk level.
const (
	TrustVeryLowThreshold = 80.0
	TrustLowThreshold     = 60.0
	TrustMediumThreshold  = 40.0
	TrustHighThreshold    = 20.0
)

// RiskLevelFromScore maps a trust score in [0,100] to its risk level.
func RiskLevelFromScore(trustScore float64) RiskLevel {
	switch {
	case trustScore >= TrustVeryLowThreshold:
		return RiskVeryLow
	case trustScore >= TrustLowThreshold:
		return RiskLow
	case trustScore >= TrustMediumThreshold:
		return RiskMedium
	case trustScore >= TrustHighThreshold:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// ClampScore bounds a score to [0,100].
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// LikelihoodAssessments holds per-threat probability estimates, each in
// [0,100].
type LikelihoodAssessments struct {
	CatfishProbability float64 `json:"catfish_probability"`
	ScammerProbability float64 `json:"scammer_probability"`
	BotProbability     float64 `json:"bot_probability"`
	GenuineProbability float64 `json:"genuine_probability"`
}

// FacialVerificationSummary is a derived view of the photo sub-result.
type FacialVerificationSummary struct {
	FaceConsistency        float64 `json:"face_consistency"`
	DeepfakeProbability    float64 `json:"deepfake_probability"`
	ProfessionalLikelihood float64 `json:"professional_likelihood"`
	CompositeScore         float64 `json:"composite_score"`
}

// DigitalFootprintSummary is a derived view of the profile sub-result.
type DigitalFootprintSummary struct {
	NetworkAuthenticity      float64 `json:"network_authenticity"`
	PresenceYears            float64 `json:"presence_years"`
	CrossPlatformConsistency float64 `json:"cross_platform_consistency"`
	CompositeScore           float64 `json:"composite_score"`
}

// ConversationIntelligenceSummary is a derived view of the behavioral
// sub-result.
type ConversationIntelligenceSummary struct {
	AuthenticityScore float64        `json:"authenticity_score"`
	RiskAssessment    RiskAssessment `json:"risk_assessment"`
	RedFlagCount      int            `json:"red_flag_count"`
	ScammerPatterns   int            `json:"scammer_patterns"`
}

// ComprehensiveVerificationResult is the fusion engine's sole output. Every
// list field is initialized and serializes as [], never null.
type ComprehensiveVerificationResult struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	OverallTrustScore float64   `json:"overall_trust_score"`
	RiskLevel         RiskLevel `json:"risk_level"`

	CatfishAnalysis    CatfishAnalysis           `json:"catfish_analysis"`
	BehavioralAnalysis ConversationAnalysis      `json:"behavioral_analysis"`
	ScammerProfile     *ScammerProfile           `json:"scammer_profile,omitempty"`
	SocialVerification ProfileVerificationResult `json:"social_verification"`

	FacialVerification       FacialVerificationSummary       `json:"facial_verification"`
	DigitalFootprint         DigitalFootprintSummary         `json:"digital_footprint"`
	ConversationIntelligence ConversationIntelligenceSummary `json:"conversation_intelligence"`

	CriticalWarnings      []string              `json:"critical_warnings"`
	ImmediateThreats      []string              `json:"immediate_threats"`
	LikelihoodAssessments LikelihoodAssessments `json:"likelihood_assessments"`
	Recommendations       []string              `json:"recommendations"`
}

// NewResult initializes a result with neutral defaults so the engine is total
// even when every optional input is absent.
func NewResult() *ComprehensiveVerificationResult {
	return &ComprehensiveVerificationResult{
		ID:                 uuid.New(),
		CreatedAt:          time.Now().UTC(),
		OverallTrustScore:  50,
		RiskLevel:          RiskMedium,
		CatfishAnalysis:    NewNeutralCatfishAnalysis(),
		BehavioralAnalysis: NewNeutralConversationAnalysis(),
		SocialVerification: NewNeutralProfileResult(),
		FacialVerification: FacialVerificationSummary{
			FaceConsistency:        50,
			DeepfakeProbability:    50,
			ProfessionalLikelihood: 50,
			CompositeScore:         50,
		},
		DigitalFootprint: DigitalFootprintSummary{
			NetworkAuthenticity:      50,
			CrossPlatformConsistency: 50,
			CompositeScore:           50,
		},
		ConversationIntelligence: ConversationIntelligenceSummary{
			AuthenticityScore: 50,
			RiskAssessment:    RiskAssessmentMedium,
		},
		CriticalWarnings: []string{},
		ImmediateThreats: []string{},
		LikelihoodAssessments: LikelihoodAssessments{
			CatfishProbability: 0,
			ScammerProbability: 0,
			BotProbability:     0,
			GenuineProbability: 100,
		},
		Recommendations: []string{},
	}
}
