package verification

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskLevelFromScore(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected RiskLevel
	}{
		{"exactly at very_low threshold", 80, RiskVeryLow},
		{"just under very_low threshold", 79.9, RiskLow},
		{"perfect score", 100, RiskVeryLow},
		{"exactly at low threshold", 60, RiskLow},
		{"mid medium band", 50, RiskMedium},
		{"exactly at medium threshold", 40, RiskMedium},
		{"high band", 25, RiskHigh},
		{"exactly at high threshold", 20, RiskHigh},
		{"just under high threshold", 19.9, RiskCritical},
		{"zero", 0, RiskCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RiskLevelFromScore(tt.score))
		})
	}
}

func TestRiskLevelFromScore_Monotonic(t *testing.T) {
	rank := map[RiskLevel]int{
		RiskVeryLow:  0,
		RiskLow:      1,
		RiskMedium:   2,
		RiskHigh:     3,
		RiskCritical: 4,
	}

	prev := RiskLevelFromScore(0)
	for s := 0.5; s <= 100; s += 0.5 {
		cur := RiskLevelFromScore(s)
		assert.LessOrEqual(t, rank[cur], rank[prev],
			"risk level worsened as trust score increased at %v", s)
		prev = cur
	}
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0.0, ClampScore(-12))
	assert.Equal(t, 100.0, ClampScore(240))
	assert.Equal(t, 62.5, ClampScore(62.5))
}

func TestNewResult_NeutralDefaults(t *testing.T) {
	r := NewResult()

	assert.Equal(t, 50.0, r.OverallTrustScore)
	assert.Equal(t, RiskMedium, r.RiskLevel)
	assert.Equal(t, 50.0, r.CatfishAnalysis.OverallRiskScore)
	assert.Equal(t, 50.0, r.CatfishAnalysis.AuthenticityScore)
	assert.Equal(t, 50.0, r.BehavioralAnalysis.AuthenticityScore)
	assert.Equal(t, RiskAssessmentMedium, r.BehavioralAnalysis.RiskAssessment)
	assert.Equal(t, 50.0, r.SocialVerification.ProfileLegitimacy)
	assert.Empty(t, r.CriticalWarnings)
	assert.Empty(t, r.ImmediateThreats)
}

func TestResult_JSONListsNeverNull(t *testing.T) {
	raw, err := json.Marshal(NewResult())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, field := range []string{"critical_warnings", "immediate_threats", "recommendations"} {
		v, ok := decoded[field]
		require.True(t, ok, "missing field %s", field)
		assert.NotNil(t, v, "field %s serialized as null", field)
	}

	catfish := decoded["catfish_analysis"].(map[string]interface{})
	assert.NotNil(t, catfish["red_flags"])
	assert.NotNil(t, catfish["reverse_search_matches"])
}

func TestSeverityWeight(t *testing.T) {
	assert.Equal(t, 0.8, SeverityCritical.Weight())
	assert.Equal(t, 0.6, SeverityHigh.Weight())
	assert.Equal(t, 0.4, SeverityMedium.Weight())
	assert.Equal(t, 0.2, SeverityLow.Weight())
}

func TestFingerprint_DeterministicAndSensitive(t *testing.T) {
	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	req := &VerificationRequest{
		Photos: []PhotoReference{{ID: "p1"}},
		Conversation: []Message{
			{Sender: SenderMatch, Content: "hey there", Timestamp: ts},
		},
	}

	same := &VerificationRequest{
		Photos: []PhotoReference{{ID: "p1"}},
		Conversation: []Message{
			{Sender: SenderMatch, Content: "hey there", Timestamp: ts},
		},
	}

	different := &VerificationRequest{
		Photos: []PhotoReference{{ID: "p2"}},
		Conversation: []Message{
			{Sender: SenderMatch, Content: "hey there", Timestamp: ts},
		},
	}

	assert.Equal(t, req.Fingerprint(), same.Fingerprint())
	assert.NotEqual(t, req.Fingerprint(), different.Fingerprint())
	assert.Len(t, req.Fingerprint(), 64)
}

func TestVerificationRequest_Validate(t *testing.T) {
	t.Run("empty request is valid", func(t *testing.T) {
		req := &VerificationRequest{}
		assert.NoError(t, req.Validate())
	})

	t.Run("bad sender rejected", func(t *testing.T) {
		req := &VerificationRequest{
			Conversation: []Message{
				{Sender: "stranger", Content: "hi", Timestamp: time.Now()},
			},
		}
		assert.Error(t, req.Validate())
	})

	t.Run("unparsable profile url accepted", func(t *testing.T) {
		// Bad URLs are a per-item concern: the profile provider skips the
		// offending item, so the request as a whole stays valid.
		req := &VerificationRequest{
			ProfileURLs: []string{"https://instagram.com/someone", "not a url"},
		}
		assert.NoError(t, req.Validate())
	})
}
