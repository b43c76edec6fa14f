package fusion

import (
	"fmt"

	"github.com/datesafe/verification-backend/internal/domain/verification"
)

// Timeline-rule thresholds, in days of matching.
const (
	earlyWindowDays    = 7
	earlyFlagLimit     = 2
	callExpectedByDays = 14
	meetExpectedByDays = 30

	noCallCatfishBoost = 25.0
	noMeetCatfishBoost = 20.0
)

// applyTimelineRules evaluates relationship-pace heuristics. They run only
// when the caller supplied timeline context.
func (e *Engine) applyTimelineRules(r *verification.ComprehensiveVerificationResult, reqCtx *verification.RequestContext) {
	if reqCtx == nil {
		return
	}

	if reqCtx.MatchDurationDays <= earlyWindowDays &&
		len(r.BehavioralAnalysis.BehavioralRedFlags) > earlyFlagLimit {
		r.CriticalWarnings = append(r.CriticalWarnings,
			"multiple red flags within the first week of contact")
	}

	if reqCtx.MatchDurationDays >= callExpectedByDays &&
		!reqCtx.VideoCallAttempted && !reqCtx.PhoneCallAttempted {
		r.CriticalWarnings = append(r.CriticalWarnings,
			fmt.Sprintf("no voice or video contact after %d days of matching", reqCtx.MatchDurationDays))
		boostCatfish(r, noCallCatfishBoost)
	}

	if reqCtx.MatchDurationDays >= meetExpectedByDays && !reqCtx.MeetingAttempted {
		r.CriticalWarnings = append(r.CriticalWarnings,
			fmt.Sprintf("no attempt to meet after %d days of matching", reqCtx.MatchDurationDays))
		boostCatfish(r, noMeetCatfishBoost)
	}
}
