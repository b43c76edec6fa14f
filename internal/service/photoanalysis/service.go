package photoanalysis

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/datesafe/verification-backend/internal/domain/errors"
	"github.com/datesafe/verification-backend/internal/domain/verification"
)

// Risk-score weights and thresholds for the aggregate formula.
const (
	lowFaceMatchPenalty   = 30.0
	professionalPenalty   = 20.0
	deepfakePenalty       = 40.0
	perReverseHitPenalty  = 10.0
	upscalingPenalty      = 15.0
	editingPenalty        = 20.0
	faceMatchThreshold    = 60.0
	professionalThreshold = 70.0
	deepfakeThreshold     = 70.0
)

// Service runs photo forensics over profile photo references. The three
// sub-providers are pluggable; any of them may be nil, in which case that
// signal contributes its neutral default without a red flag.
type Service struct {
	faces    FaceAnalyzer
	reverse  ReverseImageSearcher
	metadata MetadataExtractor
	logger   *zap.Logger
}

// NewService creates a photo analyzer over the given sub-providers.
func NewService(faces FaceAnalyzer, reverse ReverseImageSearcher, metadata MetadataExtractor, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{faces: faces, reverse: reverse, metadata: metadata, logger: logger}
}

// photoOutcome is the per-photo intermediate: the externally visible analysis
// plus the face signals kept for cross-photo comparison.
type photoOutcome struct {
	analysis verification.PhotoAnalysis
	signals  FaceSignals
	faceOK   bool
	flags    []string
}

// Analyze runs metadata extraction, reverse search and face analysis on each
// photo, then cross-photo comparison when more than one photo is given. A
// failing sub-step never aborts the photo; it records a red flag and falls
// back to neutral defaults for that sub-step.
func (s *Service) Analyze(ctx context.Context, photos []verification.PhotoReference) (verification.CatfishAnalysis, error) {
	if len(photos) == 0 {
		return verification.NewNeutralCatfishAnalysis(),
			errors.NewMalformedInputError("photos", "no photo references given")
	}
	if err := ctx.Err(); err != nil {
		return verification.NewNeutralCatfishAnalysis(), err
	}

	// Photos are independent; analyze them concurrently and keep the
	// request order in the output.
	outcomes := make([]photoOutcome, len(photos))
	var wg sync.WaitGroup
	for i := range photos {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			outcomes[idx] = s.analyzePhoto(ctx, photos[idx])
		}(i)
	}
	wg.Wait()

	result := verification.CatfishAnalysis{
		ReverseSearchMatches: []verification.ReverseSearchMatch{},
		PhotoAnalyses:        make([]verification.PhotoAnalysis, 0, len(outcomes)),
		RedFlags:             []string{},
	}

	upscaling, editing := false, false
	professionalSum, professionalN := 0.0, 0
	maxDeepfake := 0.0
	var faceSignals []FaceSignals

	for _, o := range outcomes {
		result.PhotoAnalyses = append(result.PhotoAnalyses, o.analysis)
		result.ReverseSearchMatches = append(result.ReverseSearchMatches, o.analysis.ReverseSearchMatches...)
		result.RedFlags = append(result.RedFlags, o.flags...)

		upscaling = upscaling || o.analysis.UpscalingDetected
		editing = editing || o.analysis.EditingSoftwareDetected
		professionalSum += o.analysis.ProfessionalLikelihood
		professionalN++
		if o.analysis.DeepfakeProbability > maxDeepfake {
			maxDeepfake = o.analysis.DeepfakeProbability
		}
		if o.faceOK {
			faceSignals = append(faceSignals, o.signals)
		}
	}

	result.DeepfakeProbability = maxDeepfake
	result.ProfessionalPhotoLikelihood = professionalSum / float64(professionalN)

	consistency, compared := crossPhotoConsistency(faceSignals, len(photos))
	result.FaceConsistency = consistency
	if compared && consistency < faceMatchThreshold {
		result.RedFlags = append(result.RedFlags, "faces across photos do not appear to match")
	}

	result.OverallRiskScore = s.scoreRisk(&result, compared)
	result.AuthenticityScore = 100 - result.OverallRiskScore

	s.logger.Debug("photos analyzed",
		zap.Int("photos", len(photos)),
		zap.Float64("risk", result.OverallRiskScore),
		zap.Float64("face_consistency", result.FaceConsistency),
		zap.Int("reverse_hits", len(result.ReverseSearchMatches)))

	return result, nil
}

// analyzePhoto runs the three sub-steps for one photo. Each sub-step fails
// independently: a nil provider is treated as an absent signal, an error is a
// recorded sub-step failure.
func (s *Service) analyzePhoto(ctx context.Context, photo verification.PhotoReference) photoOutcome {
	o := photoOutcome{
		analysis: verification.PhotoAnalysis{
			PhotoID:                photo.ID,
			DeepfakeProbability:    50,
			ProfessionalLikelihood: 50,
			ReverseSearchMatches:   []verification.ReverseSearchMatch{},
		},
		flags: []string{},
	}

	if s.metadata != nil {
		meta, err := s.metadata.Extract(ctx, photo)
		if err != nil {
			s.logger.Warn("metadata extraction failed",
				zap.String("photo_id", photo.ID), zap.Error(err))
			o.flags = append(o.flags, fmt.Sprintf("photo %s: metadata extraction failed", photo.ID))
		} else {
			o.analysis.Metadata = meta
			o.analysis.UpscalingDetected = upscalingSoftware(meta.Software)
			o.analysis.EditingSoftwareDetected = editingSoftware(meta.Software)
		}
	}

	if s.reverse != nil {
		matches, err := s.reverse.Search(ctx, photo)
		if err != nil {
			s.logger.Warn("reverse image search failed",
				zap.String("photo_id", photo.ID), zap.Error(err))
			o.flags = append(o.flags, fmt.Sprintf("photo %s: reverse image search failed", photo.ID))
		} else if len(matches) > 0 {
			o.analysis.ReverseSearchMatches = append(o.analysis.ReverseSearchMatches, matches...)
			o.flags = append(o.flags, fmt.Sprintf("photo %s: found on %d other sites", photo.ID, len(matches)))
		}
	}

	if s.faces != nil {
		signals, err := s.faces.AnalyzeFace(ctx, photo)
		if err != nil {
			s.logger.Warn("face analysis failed",
				zap.String("photo_id", photo.ID), zap.Error(err))
			o.flags = append(o.flags, fmt.Sprintf("photo %s: face analysis failed", photo.ID))
		} else {
			o.signals = signals
			o.faceOK = true
			o.analysis.DeepfakeProbability = verification.ClampScore(signals.DeepfakeProbability)
			o.analysis.ProfessionalLikelihood = verification.ClampScore(signals.ProfessionalLikelihood)
			if o.analysis.Metadata.FaceCount == 0 {
				o.analysis.Metadata.FaceCount = signals.FaceCount
			}
			if signals.FaceCount == 0 {
				o.flags = append(o.flags, fmt.Sprintf("photo %s: no face detected", photo.ID))
			}
		}
	}

	return o
}

// scoreRisk applies the weighted aggregate formula. The cross-photo term only
// applies when a comparison was actually performed.
func (s *Service) scoreRisk(r *verification.CatfishAnalysis, compared bool) float64 {
	risk := 0.0

	if compared && r.FaceConsistency < faceMatchThreshold {
		risk += lowFaceMatchPenalty
	}
	if r.ProfessionalPhotoLikelihood > professionalThreshold {
		risk += professionalPenalty
	}
	if r.DeepfakeProbability > deepfakeThreshold {
		risk += deepfakePenalty
	}
	risk += float64(len(r.ReverseSearchMatches)) * perReverseHitPenalty

	anyUpscaling, anyEditing := false, false
	for _, pa := range r.PhotoAnalyses {
		anyUpscaling = anyUpscaling || pa.UpscalingDetected
		anyEditing = anyEditing || pa.EditingSoftwareDetected
	}
	if anyUpscaling {
		risk += upscalingPenalty
	}
	if anyEditing {
		risk += editingPenalty
	}

	return verification.ClampScore(risk)
}
