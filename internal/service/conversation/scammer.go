package conversation

import (
	"context"
	"strings"

	"github.com/datesafe/verification-backend/internal/domain/verification"
	"github.com/datesafe/verification-backend/internal/patterns"
)

// Fixed confidences for the explicit-request flags.
const (
	moneyRequestConfidence = 90.0
	infoHarvestConfidence  = 70.0
)

// Detection thresholds per archetype for DetectScammerType.
var archetypeThresholds = map[verification.ScammerType]float64{
	verification.ScammerTypeRomance:    70,
	verification.ScammerTypeInvestment: 60,
	verification.ScammerTypeSextortion: 65,
	verification.ScammerTypeCatfish:    55,
}

var archetypeOrder = []verification.ScammerType{
	verification.ScammerTypeRomance,
	verification.ScammerTypeInvestment,
	verification.ScammerTypeSextortion,
	verification.ScammerTypeCatfish,
}

// appendScammerFlags matches the full match-side text against every archetype
// pattern set plus the explicit money-request and information-harvesting
// patterns.
func (s *Service) appendScammerFlags(a *verification.ConversationAnalysis, matchText string) {
	for _, archetype := range archetypeOrder {
		set := s.registry.ArchetypePatterns(archetype)
		if len(set) == 0 {
			continue
		}

		matched := patterns.CountMatches(set, matchText)
		if matched == 0 {
			continue
		}

		confidence := float64(matched)/float64(len(set))*100 + 20
		if confidence > 95 {
			confidence = 95
		}

		severity := verification.SeverityMedium
		switch {
		case confidence > 70:
			severity = verification.SeverityCritical
		case confidence > 50:
			severity = verification.SeverityHigh
		}

		a.BehavioralRedFlags = append(a.BehavioralRedFlags, verification.BehavioralPattern{
			PatternType: string(archetype),
			Confidence:  confidence,
			Indicators:  matchedPatternIDs(set, matchText),
			Severity:    severity,
		})
	}

	if patterns.CountMatches(s.registry.Category(patterns.CategoryMoneyRequest), matchText) > 0 {
		a.BehavioralRedFlags = append(a.BehavioralRedFlags, verification.BehavioralPattern{
			PatternType: "money_request",
			Confidence:  moneyRequestConfidence,
			Indicators:  []string{"explicit request to send money"},
			Severity:    verification.SeverityCritical,
		})
	}

	if patterns.CountMatches(s.registry.Category(patterns.CategoryInfoHarvest), matchText) > 0 {
		a.BehavioralRedFlags = append(a.BehavioralRedFlags, verification.BehavioralPattern{
			PatternType: "information_harvesting",
			Confidence:  infoHarvestConfidence,
			Indicators:  []string{"probing for sensitive personal information"},
			Severity:    verification.SeverityHigh,
		})
	}
}

// DetectScammerType scores each archetype independently with weighted
// occurrence sums and returns the highest-scoring archetype above its
// threshold, or nil when none qualifies. At most one profile is produced per
// conversation.
func (s *Service) DetectScammerType(ctx context.Context, messages []verification.Message) *verification.ScammerProfile {
	if len(messages) == 0 || ctx.Err() != nil {
		return nil
	}

	matchText := strings.ToLower(joinContents(filterBySender(messages, verification.SenderMatch)))

	var best *verification.ScammerProfile
	bestScore := 0.0

	for _, archetype := range archetypeOrder {
		score := 0.0
		for _, p := range s.registry.ArchetypePatterns(archetype) {
			count := p.MatchCount(matchText)
			if count > 3 {
				count = 3
			}
			score += p.Weight * float64(count)
		}

		if score < archetypeThresholds[archetype] {
			continue
		}
		if best == nil || score > bestScore {
			profile := buildProfile(archetype, score)
			best = &profile
			bestScore = score
		}
	}

	return best
}

func matchedPatternIDs(set []patterns.Pattern, text string) []string {
	ids := []string{}
	for i := range set {
		if set[i].Matches(text) {
			ids = append(ids, set[i].ID)
		}
	}
	return ids
}

func buildProfile(t verification.ScammerType, score float64) verification.ScammerProfile {
	confidence := score
	if confidence > 95 {
		confidence = 95
	}

	p := verification.ScammerProfile{
		ScammerType:     t,
		ConfidenceLevel: confidence,
	}

	switch t {
	case verification.ScammerTypeRomance:
		p.TypicalPatterns = []string{
			"rapid escalation to declarations of love",
			"life crisis requiring money shortly after bonding",
			"untraceable payment channels (wire, gift cards)",
		}
		p.NextLikelyMoves = []string{
			"a sudden emergency with a concrete dollar amount",
			"pressure to move off-platform",
		}
		p.Countermeasures = []string{
			"never send money to someone you have not met in person",
			"insist on a live video call before continuing",
		}
	case verification.ScammerTypeInvestment:
		p.TypicalPatterns = []string{
			"casual mention of trading profits early on",
			"a mentor or platform with guaranteed returns",
			"small first deposit that grows on paper only",
		}
		p.NextLikelyMoves = []string{
			"an invitation to a trading platform or app",
			"a deadline on an exclusive opportunity",
		}
		p.Countermeasures = []string{
			"treat any guaranteed-return claim as fraud",
			"verify platforms with your financial regulator",
		}
	case verification.ScammerTypeSextortion:
		p.TypicalPatterns = []string{
			"rapid push for intimate photos or video",
			"threats to share material with contacts",
		}
		p.NextLikelyMoves = []string{
			"a payment demand with a countdown",
		}
		p.Countermeasures = []string{
			"stop engaging, preserve evidence, report to the platform and police",
			"do not pay; payment invites further demands",
		}
	case verification.ScammerTypeCatfish:
		p.TypicalPatterns = []string{
			"endless excuses that block voice and video contact",
			"remote or unreachable occupation story",
		}
		p.NextLikelyMoves = []string{
			"another cancelled call with a new excuse",
		}
		p.Countermeasures = []string{
			"require a live video call before investing further",
			"reverse-search the profile photos",
		}
	}

	return p
}
