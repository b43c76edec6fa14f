package conversation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datesafe/verification-backend/internal/domain/verification"
)

var base = time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)

func msg(sender verification.Sender, content string, offsetMin int) verification.Message {
	return verification.Message{
		Sender:    sender,
		Content:   content,
		Timestamp: base.Add(time.Duration(offsetMin) * time.Minute),
	}
}

func findFlag(flags []verification.BehavioralPattern, patternType string) *verification.BehavioralPattern {
	for i := range flags {
		if flags[i].PatternType == patternType {
			return &flags[i]
		}
	}
	return nil
}

func TestAnalyze_EmptyTranscript(t *testing.T) {
	svc := NewService(nil, nil)

	analysis, err := svc.Analyze(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, 50.0, analysis.AuthenticityScore)
	assert.Equal(t, verification.RiskAssessmentMedium, analysis.RiskAssessment)
}

func TestAnalyze_CleanConversation(t *testing.T) {
	svc := NewService(nil, nil)

	messages := []verification.Message{
		msg(verification.SenderUser, "Hey! How was the concert last night?", 0),
		msg(verification.SenderMatch, "It was great, the opening band surprised me the most.", 12),
		msg(verification.SenderUser, "Nice. Still up for coffee on Saturday?", 30),
		msg(verification.SenderMatch, "Definitely, there is a new place near the park I want to try.", 47),
	}

	analysis, err := svc.Analyze(context.Background(), messages)
	require.NoError(t, err)

	assert.Empty(t, analysis.BehavioralRedFlags)
	assert.False(t, analysis.Emotional.LoveBombingDetected)
	assert.GreaterOrEqual(t, analysis.AuthenticityScore, 60.0)
	assert.Contains(t, []verification.RiskAssessment{
		verification.RiskAssessmentVeryLow,
		verification.RiskAssessmentLow,
		verification.RiskAssessmentMedium,
	}, analysis.RiskAssessment)
}

func TestAnalyze_RomanceScamPatterns(t *testing.T) {
	// Scenario: "western union" and "emergency" in the same transcript must
	// produce a critical romance-scammer flag and a money-request flag.
	svc := NewService(nil, nil)

	messages := []verification.Message{
		msg(verification.SenderUser, "Is everything okay?", 0),
		msg(verification.SenderMatch, "My mother is in the hospital, it is an emergency", 5),
		msg(verification.SenderMatch, "Please send money by western union tonight", 6),
	}

	analysis, err := svc.Analyze(context.Background(), messages)
	require.NoError(t, err)

	romance := findFlag(analysis.BehavioralRedFlags, string(verification.ScammerTypeRomance))
	require.NotNil(t, romance, "expected romance_scammer flag")
	assert.Equal(t, verification.SeverityCritical, romance.Severity)
	assert.Greater(t, romance.Confidence, 70.0)

	money := findFlag(analysis.BehavioralRedFlags, "money_request")
	require.NotNil(t, money, "expected money_request flag")
	assert.Equal(t, 90.0, money.Confidence)
	assert.Equal(t, verification.SeverityCritical, money.Severity)

	assert.Equal(t, verification.RiskAssessmentVeryHigh, analysis.RiskAssessment)
}

func TestAnalyze_LoveBombing(t *testing.T) {
	svc := NewService(nil, nil)

	messages := []verification.Message{
		msg(verification.SenderMatch, "I love you so much already", 0),
		msg(verification.SenderMatch, "You are my soulmate, I knew it from your first photo", 10),
		msg(verification.SenderMatch, "We will be together forever, it is destiny", 20),
		msg(verification.SenderUser, "We only matched two days ago...", 30),
	}

	analysis, err := svc.Analyze(context.Background(), messages)
	require.NoError(t, err)

	assert.True(t, analysis.Emotional.LoveBombingDetected)
	assert.Greater(t, analysis.Emotional.LoveWordCount, 3)

	flag := findFlag(analysis.BehavioralRedFlags, "love_bombing")
	require.NotNil(t, flag)
	assert.Equal(t, verification.SeverityHigh, flag.Severity)
}

func TestAnalyze_LoveBombingWindowOnly(t *testing.T) {
	// Love words beyond the first ten match messages must not trigger.
	svc := NewService(nil, nil)

	var messages []verification.Message
	for i := 0; i < 10; i++ {
		messages = append(messages, msg(verification.SenderMatch,
			fmt.Sprintf("Tell me more about your week, day %d sounded busy.", i), i*15))
	}
	messages = append(messages,
		msg(verification.SenderMatch, "I love you, my soulmate, forever and ever, it is destiny", 200))

	analysis, err := svc.Analyze(context.Background(), messages)
	require.NoError(t, err)
	assert.False(t, analysis.Emotional.LoveBombingDetected)
}

func TestAnalyze_CopyPaste(t *testing.T) {
	// Two messages above 80% similarity must raise copy-paste likelihood by
	// at least 20.
	svc := NewService(nil, nil)

	messages := []verification.Message{
		msg(verification.SenderMatch, "I am an honest person looking for a true connection here", 0),
		msg(verification.SenderUser, "You said that already?", 10),
		msg(verification.SenderMatch, "I am an honest person looking for a true connection here!", 20),
	}

	analysis, err := svc.Analyze(context.Background(), messages)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, analysis.Language.CopyPasteLikelihood, 20.0)
}

func TestAnalyze_MechanicalTiming(t *testing.T) {
	svc := NewService(nil, nil)

	// Twelve reply pairs with identical two-minute latency: variance 0 over
	// more than ten samples is the bot indicator.
	var messages []verification.Message
	for i := 0; i < 12; i++ {
		offset := i * 10
		messages = append(messages,
			msg(verification.SenderUser, fmt.Sprintf("Question number %d about your travels?", i), offset),
			msg(verification.SenderMatch, fmt.Sprintf("Answer number %d about those travels.", i), offset+2),
		)
	}

	analysis, err := svc.Analyze(context.Background(), messages)
	require.NoError(t, err)

	assert.True(t, analysis.Timing.SuspiciousTiming)
	assert.Equal(t, 12, analysis.Timing.SampleCount)
	assert.Less(t, analysis.Timing.ResponseVariance, 5.0)
	assert.NotNil(t, findFlag(analysis.BehavioralRedFlags, "suspicious_timing"))
}

func TestAnalyze_NocturnalOnlyTranscript(t *testing.T) {
	svc := NewService(nil, nil)

	night := time.Date(2025, 3, 1, 2, 0, 0, 0, time.UTC)
	nightMsg := func(content string, offsetMin int) verification.Message {
		return verification.Message{
			Sender:    verification.SenderMatch,
			Content:   content,
			Timestamp: night.Add(time.Duration(offsetMin) * time.Minute),
		}
	}

	messages := []verification.Message{
		nightMsg("Just got home from my shift.", 0),
		nightMsg("Work keeps me up at odd hours.", 5),
		nightMsg("How was your evening?", 12),
		nightMsg("I watched a documentary about sailing.", 20),
		nightMsg("Tell me about your week.", 31),
	}

	analysis, err := svc.Analyze(context.Background(), messages)
	require.NoError(t, err)

	assert.True(t, analysis.Timing.SuspiciousTiming, "an all-night transcript is the extreme of the nocturnal signal")
	flag := findFlag(analysis.BehavioralRedFlags, "suspicious_timing")
	require.NotNil(t, flag)
	assert.Contains(t, flag.Indicators, "activity concentrated in night hours")

	// One daytime message on top of the same transcript must not clear the
	// signal.
	withDay := append(messages, verification.Message{
		Sender:    verification.SenderMatch,
		Content:   "Finally awake before noon today.",
		Timestamp: time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC),
	})
	analysis, err = svc.Analyze(context.Background(), withDay)
	require.NoError(t, err)
	assert.True(t, analysis.Timing.SuspiciousTiming)

	// A couple of late-night replies alone are not a pattern.
	analysis, err = svc.Analyze(context.Background(), messages[:2])
	require.NoError(t, err)
	assert.False(t, analysis.Timing.SuspiciousTiming)
}

func TestAnalyze_ConsistencyScore(t *testing.T) {
	svc := NewService(nil, nil)

	messages := []verification.Message{
		msg(verification.SenderUser, "How has your morning been so far?", 0),
		msg(verification.SenderMatch, "Busy, but good. Yours?", 10),
		msg(verification.SenderUser, "Same. Lunch plans today?", 20),
		msg(verification.SenderMatch, "Leftovers at my desk, sadly.", 30),
	}

	analysis, err := svc.Analyze(context.Background(), messages)
	require.NoError(t, err)

	// Both latencies are 10 minutes: zero variance, full consistency.
	assert.Equal(t, 10.0, analysis.Timing.AverageResponseMinutes)
	assert.Equal(t, 100.0, analysis.Timing.ConsistencyScore)
}

func TestAnalyze_InformationHarvesting(t *testing.T) {
	svc := NewService(nil, nil)

	messages := []verification.Message{
		msg(verification.SenderMatch, "By the way, what is your mother's maiden name? And your date of birth?", 0),
	}

	analysis, err := svc.Analyze(context.Background(), messages)
	require.NoError(t, err)

	flag := findFlag(analysis.BehavioralRedFlags, "information_harvesting")
	require.NotNil(t, flag)
	assert.Equal(t, 70.0, flag.Confidence)
}

func TestAnalyze_AuthenticityMonotoneInFlags(t *testing.T) {
	svc := NewService(nil, nil)

	clean := []verification.Message{
		msg(verification.SenderMatch, "The hiking trail photos you posted look amazing.", 0),
	}
	dirty := []verification.Message{
		msg(verification.SenderMatch, "Please wire transfer the visa fee urgently, I am stranded at customs", 0),
	}

	cleanAnalysis, err := svc.Analyze(context.Background(), clean)
	require.NoError(t, err)
	dirtyAnalysis, err := svc.Analyze(context.Background(), dirty)
	require.NoError(t, err)

	assert.Greater(t, cleanAnalysis.AuthenticityScore, dirtyAnalysis.AuthenticityScore)
}

func TestDetectScammerType(t *testing.T) {
	svc := NewService(nil, nil)

	tests := []struct {
		name     string
		messages []verification.Message
		expected *verification.ScammerType
	}{
		{
			name: "romance scammer over threshold",
			messages: []verification.Message{
				msg(verification.SenderMatch, "My darling, there is an emergency, my son is in hospital", 0),
				msg(verification.SenderMatch, "Please send money by western union urgently", 5),
			},
			expected: ptr(verification.ScammerTypeRomance),
		},
		{
			name: "investment scammer outranks weaker romance signal",
			messages: []verification.Message{
				msg(verification.SenderMatch, "My mentor runs a crypto trading platform with guaranteed returns", 0),
				msg(verification.SenderMatch, "The minimum deposit doubles in a week, bitcoin only, limited spots", 5),
			},
			expected: ptr(verification.ScammerTypeInvestment),
		},
		{
			name: "clean conversation yields no profile",
			messages: []verification.Message{
				msg(verification.SenderMatch, "I spent the weekend repainting my kitchen, it took forever.", 0),
			},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := svc.DetectScammerType(context.Background(), tt.messages)
			if tt.expected == nil {
				assert.Nil(t, profile)
				return
			}
			require.NotNil(t, profile)
			assert.Equal(t, *tt.expected, profile.ScammerType)
			assert.NotEmpty(t, profile.TypicalPatterns)
			assert.NotEmpty(t, profile.Countermeasures)
		})
	}
}

func TestDetectScammerType_AtMostOneProfile(t *testing.T) {
	svc := NewService(nil, nil)

	// Both romance and investment signals present: only the strongest
	// archetype is reported.
	messages := []verification.Message{
		msg(verification.SenderMatch, "My darling, send money by western union, it is an emergency, I am in hospital", 0),
		msg(verification.SenderMatch, "Also my crypto platform has guaranteed returns", 5),
	}

	profile := svc.DetectScammerType(context.Background(), messages)
	require.NotNil(t, profile)
	assert.Equal(t, verification.ScammerTypeRomance, profile.ScammerType)
}

func TestAnalyze_Deterministic(t *testing.T) {
	svc := NewService(nil, nil)

	messages := []verification.Message{
		msg(verification.SenderUser, "What do you do for work?", 0),
		msg(verification.SenderMatch, "I am deployed overseas on a military base right now", 7),
	}

	first, err := svc.Analyze(context.Background(), messages)
	require.NoError(t, err)
	second, err := svc.Analyze(context.Background(), messages)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func ptr[T any](v T) *T { return &v }
