package conversation

import (
	"github.com/datesafe/verification-backend/internal/domain/verification"
)

// Bot-indicator bounds: a variance this low over this many samples means the
// reply cadence is implausibly mechanical.
const (
	minHumanVariance  = 5.0
	botSampleMinimum  = 10
	nightToDayTrigger = 1.5
	// minNocturnalMessages keeps one or two late-night texts from reading as
	// a nocturnal pattern.
	minNocturnalMessages = 3
)

// analyzeTiming computes reply-latency statistics for every user->match reply
// pair, in transcript order.
func (s *Service) analyzeTiming(messages []verification.Message) verification.TimingAnalysis {
	var latencies []float64

	for i := 1; i < len(messages); i++ {
		prev, cur := messages[i-1], messages[i]
		if prev.Sender == verification.SenderUser && cur.Sender == verification.SenderMatch {
			minutes := cur.Timestamp.Sub(prev.Timestamp).Minutes()
			if minutes >= 0 {
				latencies = append(latencies, minutes)
			}
		}
	}

	ta := verification.TimingAnalysis{
		SampleCount:      len(latencies),
		ConsistencyScore: 50,
	}

	nightCount, dayCount := 0, 0
	for _, m := range messages {
		if m.Sender != verification.SenderMatch {
			continue
		}
		h := m.Timestamp.Hour()
		if h < 6 || h >= 23 {
			nightCount++
		} else {
			dayCount++
		}
	}
	if dayCount > 0 {
		ta.NightDayRatio = float64(nightCount) / float64(dayCount)
	} else if nightCount > 0 {
		ta.NightDayRatio = float64(nightCount)
	}

	if len(latencies) > 0 {
		var sum float64
		for _, l := range latencies {
			sum += l
		}
		ta.AverageResponseMinutes = sum / float64(len(latencies))

		var variance float64
		for _, l := range latencies {
			d := l - ta.AverageResponseMinutes
			variance += d * d
		}
		variance /= float64(len(latencies))
		ta.ResponseVariance = variance

		ta.ConsistencyScore = 100 - variance/60
		if ta.ConsistencyScore < 0 {
			ta.ConsistencyScore = 0
		}
	}

	// An all-night transcript is the extreme of the signal, so the ratio
	// check must not require any daytime messages; the floor keeps the flag
	// monotone under added daytime activity.
	nocturnal := nightCount >= minNocturnalMessages &&
		float64(nightCount) > nightToDayTrigger*float64(dayCount)
	mechanical := ta.SampleCount > botSampleMinimum && ta.ResponseVariance < minHumanVariance
	ta.SuspiciousTiming = nocturnal || mechanical

	return ta
}

// appendTimingFlags attaches a behavioral flag when reply timing looks
// nocturnal or mechanical.
func (s *Service) appendTimingFlags(a *verification.ConversationAnalysis) {
	if !a.Timing.SuspiciousTiming {
		return
	}

	indicators := []string{}
	confidence := 60.0
	if a.Timing.NightDayRatio > nightToDayTrigger {
		indicators = append(indicators, "activity concentrated in night hours")
	}
	if a.Timing.SampleCount > botSampleMinimum && a.Timing.ResponseVariance < minHumanVariance {
		indicators = append(indicators, "reply cadence implausibly uniform")
		confidence = 75
	}

	a.BehavioralRedFlags = append(a.BehavioralRedFlags, verification.BehavioralPattern{
		PatternType: "suspicious_timing",
		Confidence:  confidence,
		Indicators:  indicators,
		Severity:    verification.SeverityMedium,
	})
}
