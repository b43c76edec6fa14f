package verification

// Severity grades a behavioral red flag.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Weight returns the authenticity-score penalty multiplier for the severity.
func (s Severity) Weight() float64 {
	switch s {
	case SeverityCritical:
		return 0.8
	case SeverityHigh:
		return 0.6
	case SeverityMedium:
		return 0.4
	default:
		return 0.2
	}
}

// ScammerType names a known fraud archetype.
type ScammerType string

const (
	ScammerTypeRomance    ScammerType = "romance_scammer"
	ScammerTypeInvestment ScammerType = "investment_scammer"
	ScammerTypeSextortion ScammerType = "sextortion"
	ScammerTypeCatfish    ScammerType = "catfish"
)

// ReverseSearchMatch is one hit from the reverse-image-search provider.
type ReverseSearchMatch struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// PhotoMetadata is what the metadata provider could recover from one photo.
type PhotoMetadata struct {
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Format    string `json:"format,omitempty"`
	Camera    string `json:"camera,omitempty"`
	Software  string `json:"software,omitempty"`
	HasGPS    bool   `json:"has_gps"`
	TakenAt   string `json:"taken_at,omitempty"`
	FaceCount int    `json:"face_count"`
}

// PhotoAnalysis holds the per-photo forensic sub-results.
type PhotoAnalysis struct {
	PhotoID                 string               `json:"photo_id"`
	Metadata                PhotoMetadata        `json:"metadata"`
	UpscalingDetected       bool                 `json:"upscaling_detected"`
	EditingSoftwareDetected bool                 `json:"editing_software_detected"`
	DeepfakeProbability     float64              `json:"deepfake_probability"`
	ProfessionalLikelihood  float64              `json:"professional_likelihood"`
	ReverseSearchMatches    []ReverseSearchMatch `json:"reverse_search_matches"`
}

// CatfishAnalysis is the photo provider's output. AuthenticityScore is always
// 100 - OverallRiskScore.
type CatfishAnalysis struct {
	OverallRiskScore            float64              `json:"overall_risk_score"`
	AuthenticityScore           float64              `json:"authenticity_score"`
	FaceConsistency             float64              `json:"face_consistency"`
	DeepfakeProbability         float64              `json:"deepfake_probability"`
	ProfessionalPhotoLikelihood float64              `json:"professional_photo_likelihood"`
	ReverseSearchMatches        []ReverseSearchMatch `json:"reverse_search_matches"`
	PhotoAnalyses               []PhotoAnalysis      `json:"photo_analyses"`
	RedFlags                    []string             `json:"red_flags"`
}

// NewNeutralCatfishAnalysis returns the contribution of an absent or failed
// photo provider: every score at its neutral midpoint, no flags.
func NewNeutralCatfishAnalysis() CatfishAnalysis {
	return CatfishAnalysis{
		OverallRiskScore:            50,
		AuthenticityScore:           50,
		FaceConsistency:             50,
		DeepfakeProbability:         50,
		ProfessionalPhotoLikelihood: 50,
		ReverseSearchMatches:        []ReverseSearchMatch{},
		PhotoAnalyses:               []PhotoAnalysis{},
		RedFlags:                    []string{},
	}
}

// BehavioralPattern is a named, confidence-scored match against a known
// manipulation or fraud archetype.
type BehavioralPattern struct {
	PatternType string   `json:"pattern_type"`
	Confidence  float64  `json:"confidence"`
	Indicators  []string `json:"indicators"`
	Severity    Severity `json:"severity"`
}

// TimingAnalysis covers response-latency behavior of the match.
type TimingAnalysis struct {
	AverageResponseMinutes float64 `json:"average_response_minutes"`
	ResponseVariance       float64 `json:"response_variance"`
	ConsistencyScore       float64 `json:"consistency_score"`
	NightDayRatio          float64 `json:"night_day_ratio"`
	SuspiciousTiming       bool    `json:"suspicious_timing"`
	SampleCount            int     `json:"sample_count"`
}

// LanguageAnalysis covers grammar, vocabulary and scripted-text signals.
type LanguageAnalysis struct {
	GrammarConsistency         float64 `json:"grammar_consistency"`
	VocabularyDiversity        float64 `json:"vocabulary_diversity"`
	NativeSpeakerProbability   float64 `json:"native_speaker_probability"`
	CopyPasteLikelihood        float64 `json:"copy_paste_likelihood"`
	ScriptFollowingProbability float64 `json:"script_following_probability"`
}

// EmotionalAnalysis covers manipulation-tactic signals.
type EmotionalAnalysis struct {
	LoveBombingDetected bool    `json:"love_bombing_detected"`
	LoveWordCount       int     `json:"love_word_count"`
	ManipulationScore   float64 `json:"manipulation_score"`
	SympathyCount       int     `json:"sympathy_count"`
	CrisisPatternScore  float64 `json:"crisis_pattern_score"`
}

// RiskAssessment is the conversation provider's discrete classification,
// monotonically derived from the authenticity score and flag severities.
type RiskAssessment string

const (
	RiskAssessmentVeryLow  RiskAssessment = "very_low"
	RiskAssessmentLow      RiskAssessment = "low"
	RiskAssessmentMedium   RiskAssessment = "medium"
	RiskAssessmentHigh     RiskAssessment = "high"
	RiskAssessmentVeryHigh RiskAssessment = "very_high"
)

// ConversationAnalysis is the conversation provider's output.
type ConversationAnalysis struct {
	Timing             TimingAnalysis      `json:"timing"`
	Language           LanguageAnalysis    `json:"language"`
	Emotional          EmotionalAnalysis   `json:"emotional"`
	BehavioralRedFlags []BehavioralPattern `json:"behavioral_red_flags"`
	AuthenticityScore  float64             `json:"authenticity_score"`
	RiskAssessment     RiskAssessment      `json:"risk_assessment"`
}

// NewNeutralConversationAnalysis returns the contribution of an absent or
// failed conversation provider.
func NewNeutralConversationAnalysis() ConversationAnalysis {
	return ConversationAnalysis{
		Timing: TimingAnalysis{
			ConsistencyScore: 50,
		},
		Language: LanguageAnalysis{
			GrammarConsistency:       50,
			VocabularyDiversity:      50,
			NativeSpeakerProbability: 50,
		},
		Emotional:          EmotionalAnalysis{},
		BehavioralRedFlags: []BehavioralPattern{},
		AuthenticityScore:  50,
		RiskAssessment:     RiskAssessmentMedium,
	}
}

// ScammerProfile describes the single strongest archetype match for a
// conversation. At most one is produced per request.
type ScammerProfile struct {
	ScammerType     ScammerType `json:"scammer_type"`
	ConfidenceLevel float64     `json:"confidence_level"`
	TypicalPatterns []string    `json:"typical_patterns"`
	NextLikelyMoves []string    `json:"next_likely_moves"`
	Countermeasures []string    `json:"countermeasures"`
}

// PlatformPresence is what the social-profile fetcher recovered for one URL.
type PlatformPresence struct {
	Platform             string  `json:"platform"`
	URL                  string  `json:"url"`
	AccountAgeYears      float64 `json:"account_age_years"`
	Followers            int     `json:"followers"`
	Friends              int     `json:"friends"`
	TaggedPhotos         int     `json:"tagged_photos"`
	ProfessionalPresence bool    `json:"professional_presence"`
	Authenticity         float64 `json:"authenticity"`
}

// RedFlagLocationMismatch is the profile provider's marker for a claimed
// location that platform profiles contradict. The fusion engine matches on it.
const RedFlagLocationMismatch = "claimed location inconsistent with platform profiles"

// ProfileVerificationResult is the profile provider's output.
type ProfileVerificationResult struct {
	Platforms                []PlatformPresence `json:"platforms"`
	CrossPlatformConsistency float64            `json:"cross_platform_consistency"`
	NetworkAuthenticity      float64            `json:"network_authenticity"`
	DigitalFootprintYears    float64            `json:"digital_footprint_years"`
	ProfileLegitimacy        float64            `json:"profile_legitimacy"`
	VerificationConfidence   float64            `json:"verification_confidence"`
	RedFlags                 []string           `json:"red_flags"`
}

// NewNeutralProfileResult returns the contribution of an absent or failed
// profile provider.
func NewNeutralProfileResult() ProfileVerificationResult {
	return ProfileVerificationResult{
		Platforms:                []PlatformPresence{},
		CrossPlatformConsistency: 50,
		NetworkAuthenticity:      50,
		DigitalFootprintYears:    0,
		ProfileLegitimacy:        50,
		VerificationConfidence:   50,
		RedFlags:                 []string{},
	}
}
