package conversation

import (
	"strings"

	"github.com/datesafe/verification-backend/internal/domain/verification"
	"github.com/datesafe/verification-backend/internal/patterns"
)

const (
	// Love-word occurrences above this inside the opening window mark love
	// bombing.
	loveBombingThreshold = 3

	// Opening window: the first min(10, n) match messages.
	loveBombingWindow = 10

	// Fraction of match messages with urgency and crisis vocabulary
	// co-occurring that escalates the crisis score.
	crisisEscalationRatio = 0.3
)

// analyzeEmotional scores manipulation-tactic signals over the match-side
// messages.
func (s *Service) analyzeEmotional(matchMessages []verification.Message) verification.EmotionalAnalysis {
	ea := verification.EmotionalAnalysis{}
	if len(matchMessages) == 0 {
		return ea
	}

	window := len(matchMessages)
	if window > loveBombingWindow {
		window = loveBombingWindow
	}
	openingText := strings.ToLower(joinContents(matchMessages[:window]))
	for _, p := range s.registry.Category(patterns.CategoryLoveBombing) {
		ea.LoveWordCount += p.MatchCount(openingText)
	}
	ea.LoveBombingDetected = ea.LoveWordCount > loveBombingThreshold

	fullText := strings.ToLower(joinContents(matchMessages))

	manipulationHits := 0
	for _, p := range s.registry.Category(patterns.CategoryManipulation) {
		manipulationHits += p.MatchCount(fullText)
	}
	ea.ManipulationScore = verification.ClampScore(float64(manipulationHits) * 20)

	for _, p := range s.registry.Category(patterns.CategorySympathy) {
		ea.SympathyCount += p.MatchCount(fullText)
	}

	ea.CrisisPatternScore = s.scoreCrisisPattern(matchMessages)

	return ea
}

// scoreCrisisPattern measures how often urgency markers and medical/financial
// crisis vocabulary co-occur within single messages.
func (s *Service) scoreCrisisPattern(matchMessages []verification.Message) float64 {
	urgency := s.registry.Category(patterns.CategoryUrgency)
	crisis := s.registry.Category(patterns.CategoryCrisis)

	coOccurring := 0
	for _, m := range matchMessages {
		text := strings.ToLower(m.Content)
		if patterns.CountMatches(urgency, text) > 0 && patterns.CountMatches(crisis, text) > 0 {
			coOccurring++
		}
	}

	ratio := float64(coOccurring) / float64(len(matchMessages))
	score := ratio * 100
	if ratio > crisisEscalationRatio {
		score += 30
	}
	return verification.ClampScore(score)
}

// appendEmotionalFlags attaches flags for love bombing and escalated crisis
// patterns.
func (s *Service) appendEmotionalFlags(a *verification.ConversationAnalysis) {
	if a.Emotional.LoveBombingDetected {
		a.BehavioralRedFlags = append(a.BehavioralRedFlags, verification.BehavioralPattern{
			PatternType: "love_bombing",
			Confidence:  85,
			Indicators:  []string{"intense declarations of affection within the opening messages"},
			Severity:    verification.SeverityHigh,
		})
	}

	if a.Emotional.CrisisPatternScore > crisisEscalationRatio*100 {
		a.BehavioralRedFlags = append(a.BehavioralRedFlags, verification.BehavioralPattern{
			PatternType: "crisis_pattern",
			Confidence:  a.Emotional.CrisisPatternScore,
			Indicators:  []string{"urgent medical or financial crises recur across messages"},
			Severity:    verification.SeverityHigh,
		})
	}
}
