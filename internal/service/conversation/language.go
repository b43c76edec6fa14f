package conversation

import (
	"strings"
	"unicode"

	"github.com/datesafe/verification-backend/internal/domain/verification"
	"github.com/datesafe/verification-backend/internal/patterns"
)

// Pairwise similarity above this counts as copy-paste evidence.
const copyPasteSimilarity = 0.8

// Messages shorter than this are skipped in the pairwise comparison; short
// greetings repeat naturally.
const copyPasteMinLength = 15

// analyzeLanguage scores grammar, vocabulary and scripted-text signals over
// the match-side messages.
func (s *Service) analyzeLanguage(matchMessages []verification.Message) verification.LanguageAnalysis {
	la := verification.LanguageAnalysis{
		GrammarConsistency:       50,
		VocabularyDiversity:      50,
		NativeSpeakerProbability: 50,
	}
	if len(matchMessages) == 0 {
		return la
	}

	text := strings.ToLower(joinContents(matchMessages))

	la.GrammarConsistency = s.scoreGrammar(matchMessages, text)
	la.VocabularyDiversity = scoreVocabulary(text)
	la.NativeSpeakerProbability = s.scoreNativeSpeaker(text, la.GrammarConsistency)
	la.CopyPasteLikelihood = scoreCopyPaste(matchMessages)
	la.ScriptFollowingProbability = s.scoreScriptFollowing(text)

	return la
}

// scoreGrammar starts at 100 and penalizes known error substrings and
// sentences that open lowercase.
func (s *Service) scoreGrammar(messages []verification.Message, text string) float64 {
	score := 100.0

	for _, p := range s.registry.Category(patterns.CategoryGrammarError) {
		score -= float64(p.MatchCount(text)) * 10
	}

	lowerStarts, sentences := 0, 0
	for _, m := range messages {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		sentences++
		if r := []rune(content)[0]; unicode.IsLetter(r) && unicode.IsLower(r) {
			lowerStarts++
		}
	}
	if sentences > 0 {
		score -= float64(lowerStarts) / float64(sentences) * 30
	}

	return verification.ClampScore(score)
}

func scoreVocabulary(text string) float64 {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	if len(words) == 0 {
		return 50
	}

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	return verification.ClampScore(float64(len(unique)) / float64(len(words)) * 100)
}

// scoreNativeSpeaker blends known non-native phrasings with the grammar
// score.
func (s *Service) scoreNativeSpeaker(text string, grammar float64) float64 {
	nonNativeHits := 0
	for _, p := range s.registry.Category(patterns.CategoryNonNative) {
		nonNativeHits += p.MatchCount(text)
	}

	score := 0.7*grammar + 30 - float64(nonNativeHits)*15
	return verification.ClampScore(score)
}

// scoreCopyPaste compares every pair of sufficiently long match messages;
// each pair above the similarity threshold adds 20 points.
func scoreCopyPaste(messages []verification.Message) float64 {
	var candidates []string
	for _, m := range messages {
		if len(m.Content) >= copyPasteMinLength {
			candidates = append(candidates, strings.ToLower(m.Content))
		}
	}

	score := 0.0
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			if similarity(candidates[i], candidates[j]) > copyPasteSimilarity {
				score += 20
			}
		}
	}
	return verification.ClampScore(score)
}

func (s *Service) scoreScriptFollowing(text string) float64 {
	hits := 0
	for _, p := range s.registry.Category(patterns.CategoryScript) {
		hits += p.MatchCount(text)
	}
	return verification.ClampScore(float64(hits) * 25)
}

// appendLanguageFlags attaches a flag when copy-paste evidence is strong.
func (s *Service) appendLanguageFlags(a *verification.ConversationAnalysis) {
	if a.Language.CopyPasteLikelihood >= 40 {
		a.BehavioralRedFlags = append(a.BehavioralRedFlags, verification.BehavioralPattern{
			PatternType: "copy_paste_messaging",
			Confidence:  a.Language.CopyPasteLikelihood,
			Indicators:  []string{"near-identical messages repeated in transcript"},
			Severity:    verification.SeverityMedium,
		})
	}
}

// similarity is 1 - levenshtein/maxLen, in [0,1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

// levenshtein computes edit distance with a two-row table.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
