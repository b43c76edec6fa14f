package patterns

import (
	"github.com/datesafe/verification-backend/internal/domain/verification"
)

// DefaultVersion identifies the compiled-in pattern set.
const DefaultVersion = "builtin-2025.08"

// Default returns the compiled-in pattern registry. The set is intentionally
// small and broad: each archetype carries a handful of wide alternations so a
// short transcript can still cross the match-ratio thresholds.
func Default() *Registry {
	r, err := New(DefaultVersion, defaultPatterns())
	if err != nil {
		// The built-in set is covered by tests; a compile failure here is a
		// programming error.
		panic(err)
	}
	return r
}

func defaultPatterns() []Pattern {
	return []Pattern{
		// Romance-scammer archetype
		{
			ID:        "romance-001",
			Archetype: verification.ScammerTypeRomance,
			Pattern:   `(western union|moneygram|wire transfer|gift ?cards?|bitcoin|send (me )?money)`,
			Weight:    40,
			Category:  CategoryArchetype,
			Severity:  verification.SeverityCritical,
		},
		{
			ID:        "romance-002",
			Archetype: verification.ScammerTypeRomance,
			Pattern:   `(emergency|urgent|hospital|accident|stranded|customs|visa fee)`,
			Weight:    25,
			Category:  CategoryArchetype,
			Severity:  verification.SeverityHigh,
		},
		{
			ID:        "romance-003",
			Archetype: verification.ScammerTypeRomance,
			Pattern:   `(my (love|darling|dear|queen|king)|destiny|meant to be|god (sent|brought) (you|us))`,
			Weight:    30,
			Category:  CategoryArchetype,
			Severity:  verification.SeverityMedium,
		},

		// Investment-scammer archetype
		{
			ID:        "invest-001",
			Archetype: verification.ScammerTypeInvestment,
			Pattern:   `(crypto(currency)?|bitcoin|forex|trading platform|mining pool)`,
			Weight:    35,
			Category:  CategoryArchetype,
			Severity:  verification.SeverityHigh,
		},
		{
			ID:        "invest-002",
			Archetype: verification.ScammerTypeInvestment,
			Pattern:   `(guaranteed (returns?|profits?)|double your|passive income|risk[- ]?free)`,
			Weight:    30,
			Category:  CategoryArchetype,
			Severity:  verification.SeverityHigh,
		},
		{
			ID:        "invest-003",
			Archetype: verification.ScammerTypeInvestment,
			Pattern:   `(my (broker|mentor|uncle)|limited (time|spots)|exclusive opportunity|minimum deposit)`,
			Weight:    25,
			Category:  CategoryArchetype,
			Severity:  verification.SeverityMedium,
		},

		// Sextortion archetype
		{
			ID:        "sextort-001",
			Archetype: verification.ScammerTypeSextortion,
			Pattern:   `(send (me )?(nudes?|pics?|photos?)|private (photos?|videos?)|cam session)`,
			Weight:    40,
			Category:  CategoryArchetype,
			Severity:  verification.SeverityCritical,
		},
		{
			ID:        "sextort-002",
			Archetype: verification.ScammerTypeSextortion,
			Pattern:   `((share|leak|post|send) .{0,30}(photos?|videos?|screenshots?) .{0,30}(friends|family|everyone)|expose you)`,
			Weight:    40,
			Category:  CategoryArchetype,
			Severity:  verification.SeverityCritical,
		},
		{
			ID:        "sextort-003",
			Archetype: verification.ScammerTypeSextortion,
			Pattern:   `(pay (me|up)|unless you (pay|send)|or else)`,
			Weight:    30,
			Category:  CategoryArchetype,
			Severity:  verification.SeverityHigh,
		},

		// Catfish archetype
		{
			ID:        "catfish-001",
			Archetype: verification.ScammerTypeCatfish,
			Pattern:   `((my |the )?(camera|webcam|mic) (is )?(broken|not working)|can'?t (video|call) (right now|today))`,
			Weight:    30,
			Category:  CategoryArchetype,
			Severity:  verification.SeverityHigh,
		},
		{
			ID:        "catfish-002",
			Archetype: verification.ScammerTypeCatfish,
			Pattern:   `((deployed|stationed) (overseas|abroad)|oil rig|peacekeeping|military base)`,
			Weight:    30,
			Category:  CategoryArchetype,
			Severity:  verification.SeverityMedium,
		},
		{
			ID:        "catfish-003",
			Archetype: verification.ScammerTypeCatfish,
			Pattern:   `(bad (signal|connection|network)|no service here|phone (is )?(broken|lost))`,
			Weight:    25,
			Category:  CategoryArchetype,
			Severity:  verification.SeverityMedium,
		},

		// Explicit money requests (fixed-confidence flag, see conversation analyzer)
		{
			ID:       "money-001",
			Pattern:  `(western union|moneygram|wire (me|transfer)|gift ?cards?|send (me )?money|need .{0,20}(money|funds|cash)|loan me)`,
			Weight:   1,
			Category: CategoryMoneyRequest,
			Severity: verification.SeverityCritical,
		},

		// Information harvesting
		{
			ID:       "harvest-001",
			Pattern:  `(mother'?s maiden name|social security|\bssn\b|bank account|routing number|credit card number|\bpin\b|passport number|home address|date of birth)`,
			Weight:   1,
			Category: CategoryInfoHarvest,
			Severity: verification.SeverityHigh,
		},

		// Non-native phrasings
		{
			ID:       "lang-001",
			Pattern:  `(do the needful|your good self|how is your day going dear|i am liking|am having|i want to know you more|kindly revert)`,
			Weight:   1,
			Category: CategoryNonNative,
			Severity: verification.SeverityLow,
		},

		// Script phrases
		{
			ID:       "script-001",
			Pattern:  `(i saw your profile and|i am honest and caring|i am new (to|on) this (site|app)|looking for (a )?serious relationship|god[- ]fearing|caring and loving (man|woman))`,
			Weight:   1,
			Category: CategoryScript,
			Severity: verification.SeverityMedium,
		},

		// Emotional manipulation
		{
			ID:       "manip-001",
			Pattern:  `(if you (really|truly) loved me|prove your love|you('re| are) the only one who|don'?t tell (anyone|anybody)|no one understands me but you|after (all|everything) i('ve| have) done)`,
			Weight:   1,
			Category: CategoryManipulation,
			Severity: verification.SeverityHigh,
		},

		// Sympathy baiting
		{
			ID:       "sympathy-001",
			Pattern:  `(widow(er)?|orphan|lost my (wife|husband|family)|cancer|my (child|son|daughter) is (sick|ill)|all alone in this world)`,
			Weight:   1,
			Category: CategorySympathy,
			Severity: verification.SeverityMedium,
		},

		// Urgency markers
		{
			ID:       "urgency-001",
			Pattern:  `(urgent(ly)?|immediately|right now|asap|before it'?s too late|emergency|can'?t wait)`,
			Weight:   1,
			Category: CategoryUrgency,
			Severity: verification.SeverityMedium,
		},

		// Medical/financial crisis vocabulary
		{
			ID:       "crisis-001",
			Pattern:  `(hospital|surgery|medical bills?|accident|arrested|customs|visa fees?|stranded|frozen (bank )?account|lawyer fees?)`,
			Weight:   1,
			Category: CategoryCrisis,
			Severity: verification.SeverityHigh,
		},

		// Premature-affection vocabulary
		{
			ID:       "love-001",
			Pattern:  `(\blove\b|soul ?mate|forever|destiny|meant to be|marry (me|you)|future (wife|husband))`,
			Weight:   1,
			Category: CategoryLoveBombing,
			Severity: verification.SeverityHigh,
		},

		// Common grammar-error substrings
		{
			ID:       "grammar-001",
			Pattern:  `(i am knowing|(he|she) don'?t\b|much happy|more better|i has\b|am wanting|you is\b)`,
			Weight:   1,
			Category: CategoryGrammarError,
			Severity: verification.SeverityLow,
		},
	}
}
