package conversation

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/datesafe/verification-backend/internal/domain/errors"
	"github.com/datesafe/verification-backend/internal/domain/verification"
	"github.com/datesafe/verification-backend/internal/patterns"
)

// Baseline authenticity before adjustments are applied.
const baselineAuthenticity = 70.0

// Service analyzes conversation transcripts for behavioral fraud signals.
// It is stateless across requests; the pattern registry is immutable.
type Service struct {
	registry *patterns.Registry
	logger   *zap.Logger
}

// NewService creates a conversation analyzer backed by the given pattern
// registry.
func NewService(registry *patterns.Registry, logger *zap.Logger) *Service {
	if registry == nil {
		registry = patterns.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{registry: registry, logger: logger}
}

// Analyze runs timing, language, emotional and scammer-pattern analysis over
// a transcript. Message order is significant and preserved. An empty
// transcript is InputAbsent, not an error upstream; here it is reported so
// the engine can fall back to neutral defaults.
func (s *Service) Analyze(ctx context.Context, messages []verification.Message) (verification.ConversationAnalysis, error) {
	if len(messages) == 0 {
		return verification.NewNeutralConversationAnalysis(),
			errors.NewMalformedInputError("conversation", "transcript is empty")
	}
	if err := ctx.Err(); err != nil {
		return verification.NewNeutralConversationAnalysis(), err
	}

	matchMessages := filterBySender(messages, verification.SenderMatch)
	matchText := strings.ToLower(joinContents(matchMessages))

	analysis := verification.ConversationAnalysis{
		Timing:             s.analyzeTiming(messages),
		Language:           s.analyzeLanguage(matchMessages),
		Emotional:          s.analyzeEmotional(matchMessages),
		BehavioralRedFlags: []verification.BehavioralPattern{},
	}

	s.appendTimingFlags(&analysis)
	s.appendEmotionalFlags(&analysis)
	s.appendLanguageFlags(&analysis)
	s.appendScammerFlags(&analysis, matchText)

	analysis.AuthenticityScore = s.scoreAuthenticity(&analysis)
	analysis.RiskAssessment = assessRisk(analysis.AuthenticityScore, analysis.BehavioralRedFlags)

	s.logger.Debug("conversation analyzed",
		zap.Int("messages", len(messages)),
		zap.Float64("authenticity", analysis.AuthenticityScore),
		zap.String("risk", string(analysis.RiskAssessment)),
		zap.Int("flags", len(analysis.BehavioralRedFlags)))

	return analysis, nil
}

// scoreAuthenticity starts from the baseline and applies the documented
// adjustments, then every behavioral flag subtracts its confidence scaled by
// the severity weight.
func (s *Service) scoreAuthenticity(a *verification.ConversationAnalysis) float64 {
	score := baselineAuthenticity

	score += (a.Language.NativeSpeakerProbability - 50) * 0.3
	score -= a.Language.CopyPasteLikelihood * 0.4
	score -= a.Language.ScriptFollowingProbability * 0.3
	if a.Emotional.LoveBombingDetected {
		score -= 30
	}
	score -= a.Emotional.ManipulationScore * 0.2
	score -= float64(a.Emotional.SympathyCount) * 5

	for _, flag := range a.BehavioralRedFlags {
		score -= flag.Confidence * flag.Severity.Weight()
	}

	return verification.ClampScore(score)
}

// assessRisk derives the discrete classification. It is monotone in the
// authenticity score for a fixed flag set.
func assessRisk(score float64, flags []verification.BehavioralPattern) verification.RiskAssessment {
	critical, high := 0, 0
	for _, f := range flags {
		switch f.Severity {
		case verification.SeverityCritical:
			critical++
		case verification.SeverityHigh:
			high++
		}
	}

	switch {
	case critical > 0 || score < 20:
		return verification.RiskAssessmentVeryHigh
	case high >= 2 || score < 40:
		return verification.RiskAssessmentHigh
	case high >= 1 || score < 60:
		return verification.RiskAssessmentMedium
	case score < 80:
		return verification.RiskAssessmentLow
	default:
		return verification.RiskAssessmentVeryLow
	}
}

func filterBySender(messages []verification.Message, sender verification.Sender) []verification.Message {
	out := make([]verification.Message, 0, len(messages))
	for _, m := range messages {
		if m.Sender == sender {
			out = append(out, m)
		}
	}
	return out
}

func joinContents(messages []verification.Message) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, "\n")
}
