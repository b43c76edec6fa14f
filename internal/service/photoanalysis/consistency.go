package photoanalysis

import (
	"math"

	"github.com/datesafe/verification-backend/internal/domain/verification"
)

// Blend weights for the cross-photo consistency score.
const (
	descriptorMatchWeight = 0.8
	agePlausibilityWeight = 0.2
)

// crossPhotoConsistency compares face descriptors pairwise across photos and
// blends in age-progression plausibility. The second return reports whether a
// comparison actually happened: a single photo is trivially consistent, and
// fewer than two usable descriptors across multiple photos leaves the signal
// at its neutral default.
func crossPhotoConsistency(signals []FaceSignals, photoCount int) (float64, bool) {
	if photoCount < 2 {
		if len(signals) == 1 && signals[0].FaceCount > 0 {
			return 100, false
		}
		return 50, false
	}

	var descriptors [][]float64
	var ages []float64
	for _, s := range signals {
		if len(s.Descriptor) > 0 {
			descriptors = append(descriptors, s.Descriptor)
		}
		if s.EstimatedAge > 0 {
			ages = append(ages, s.EstimatedAge)
		}
	}
	if len(descriptors) < 2 {
		return 50, false
	}

	match := meanPairwiseSimilarity(descriptors) * 100

	score := match
	if len(ages) >= 2 {
		score = descriptorMatchWeight*match + agePlausibilityWeight*agePlausibility(ages)
	}
	return verification.ClampScore(score), true
}

// meanPairwiseSimilarity averages cosine similarity over all descriptor
// pairs, in [0,1].
func meanPairwiseSimilarity(descriptors [][]float64) float64 {
	sum, pairs := 0.0, 0
	for i := 0; i < len(descriptors); i++ {
		for j := i + 1; j < len(descriptors); j++ {
			sum += cosineSimilarity(descriptors[i], descriptors[j])
			pairs++
		}
	}
	if pairs == 0 {
		return 0
	}
	return sum / float64(pairs)
}

// agePlausibility scores how believable the estimated-age spread is for one
// person: a spread of a few years is normal, 20+ years is not.
func agePlausibility(ages []float64) float64 {
	minAge, maxAge := ages[0], ages[0]
	for _, a := range ages[1:] {
		if a < minAge {
			minAge = a
		}
		if a > maxAge {
			maxAge = a
		}
	}
	return verification.ClampScore(100 - (maxAge-minAge)*5)
}

// cosineSimilarity clamps negatives to 0; anti-correlated embeddings carry no
// identity-match evidence.
func cosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	return sim
}
