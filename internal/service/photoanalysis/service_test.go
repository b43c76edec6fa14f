package photoanalysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/datesafe/verification-backend/internal/domain/verification"
)

type mockFaceAnalyzer struct{ mock.Mock }

func (m *mockFaceAnalyzer) AnalyzeFace(ctx context.Context, photo verification.PhotoReference) (FaceSignals, error) {
	args := m.Called(ctx, photo)
	return args.Get(0).(FaceSignals), args.Error(1)
}

type mockReverseSearcher struct{ mock.Mock }

func (m *mockReverseSearcher) Search(ctx context.Context, photo verification.PhotoReference) ([]verification.ReverseSearchMatch, error) {
	args := m.Called(ctx, photo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]verification.ReverseSearchMatch), args.Error(1)
}

type mockMetadataExtractor struct{ mock.Mock }

func (m *mockMetadataExtractor) Extract(ctx context.Context, photo verification.PhotoReference) (verification.PhotoMetadata, error) {
	args := m.Called(ctx, photo)
	return args.Get(0).(verification.PhotoMetadata), args.Error(1)
}

func photoRef(id string) verification.PhotoReference {
	return verification.PhotoReference{ID: id, URL: "https://photos.example/" + id + ".jpg"}
}

func neutralFace() FaceSignals {
	return FaceSignals{FaceCount: 1, DeepfakeProbability: 50, ProfessionalLikelihood: 50}
}

func TestAnalyze_NoPhotos(t *testing.T) {
	svc := NewService(nil, nil, nil, nil)

	result, err := svc.Analyze(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, 50.0, result.OverallRiskScore)
	assert.Equal(t, 50.0, result.AuthenticityScore)
}

func TestAnalyze_SinglePhotoDefaults(t *testing.T) {
	// One photo, no reverse-search hits, default face scores: no risk term
	// applies, so the score is zero and authenticity is its complement.
	faces := &mockFaceAnalyzer{}
	reverse := &mockReverseSearcher{}
	meta := &mockMetadataExtractor{}

	photo := photoRef("p1")
	faces.On("AnalyzeFace", mock.Anything, photo).Return(neutralFace(), nil)
	reverse.On("Search", mock.Anything, photo).Return([]verification.ReverseSearchMatch{}, nil)
	meta.On("Extract", mock.Anything, photo).Return(verification.PhotoMetadata{Width: 1080, Height: 1350, Format: "jpeg"}, nil)

	svc := NewService(faces, reverse, meta, nil)
	result, err := svc.Analyze(context.Background(), []verification.PhotoReference{photo})
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.OverallRiskScore)
	assert.Equal(t, 100.0, result.AuthenticityScore)
	assert.Equal(t, 100.0, result.FaceConsistency)
	assert.Empty(t, result.RedFlags)
	assert.Empty(t, result.ReverseSearchMatches)
	require.Len(t, result.PhotoAnalyses, 1)
	assert.Equal(t, "p1", result.PhotoAnalyses[0].PhotoID)
}

func TestAnalyze_RiskTerms(t *testing.T) {
	tests := []struct {
		name         string
		signals      FaceSignals
		matches      []verification.ReverseSearchMatch
		metadata     verification.PhotoMetadata
		expectedRisk float64
	}{
		{
			name:         "deepfake over threshold",
			signals:      FaceSignals{FaceCount: 1, DeepfakeProbability: 80, ProfessionalLikelihood: 50},
			expectedRisk: 40,
		},
		{
			name:         "professional over threshold",
			signals:      FaceSignals{FaceCount: 1, DeepfakeProbability: 50, ProfessionalLikelihood: 85},
			expectedRisk: 20,
		},
		{
			name:    "reverse search hits",
			signals: neutralFace(),
			matches: []verification.ReverseSearchMatch{
				{URL: "https://stock.example/a", Title: "stock portrait"},
				{URL: "https://stock.example/b", Title: "stock portrait"},
				{URL: "https://blog.example/c", Title: "another profile"},
			},
			expectedRisk: 30,
		},
		{
			name:         "editing software",
			signals:      neutralFace(),
			metadata:     verification.PhotoMetadata{Software: "Adobe Photoshop 25.1"},
			expectedRisk: 20,
		},
		{
			name:         "upscaler software",
			signals:      neutralFace(),
			metadata:     verification.PhotoMetadata{Software: "Topaz Gigapixel AI"},
			expectedRisk: 15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			faces := &mockFaceAnalyzer{}
			reverse := &mockReverseSearcher{}
			meta := &mockMetadataExtractor{}

			photo := photoRef("p1")
			faces.On("AnalyzeFace", mock.Anything, photo).Return(tt.signals, nil)
			reverse.On("Search", mock.Anything, photo).Return(tt.matches, nil)
			meta.On("Extract", mock.Anything, photo).Return(tt.metadata, nil)

			svc := NewService(faces, reverse, meta, nil)
			result, err := svc.Analyze(context.Background(), []verification.PhotoReference{photo})
			require.NoError(t, err)

			assert.Equal(t, tt.expectedRisk, result.OverallRiskScore)
			assert.Equal(t, 100-tt.expectedRisk, result.AuthenticityScore)
		})
	}
}

func TestAnalyze_CrossPhotoMismatch(t *testing.T) {
	faces := &mockFaceAnalyzer{}

	p1, p2 := photoRef("p1"), photoRef("p2")
	faces.On("AnalyzeFace", mock.Anything, p1).Return(FaceSignals{
		FaceCount: 1, DeepfakeProbability: 50, ProfessionalLikelihood: 50,
		Descriptor: []float64{1, 0, 0},
	}, nil)
	faces.On("AnalyzeFace", mock.Anything, p2).Return(FaceSignals{
		FaceCount: 1, DeepfakeProbability: 50, ProfessionalLikelihood: 50,
		Descriptor: []float64{0, 1, 0},
	}, nil)

	svc := NewService(faces, nil, nil, nil)
	result, err := svc.Analyze(context.Background(), []verification.PhotoReference{p1, p2})
	require.NoError(t, err)

	// Orthogonal descriptors: zero similarity, well under the match
	// threshold.
	assert.Equal(t, 0.0, result.FaceConsistency)
	assert.Equal(t, 30.0, result.OverallRiskScore)
	assert.Equal(t, 70.0, result.AuthenticityScore)
	assert.Contains(t, result.RedFlags, "faces across photos do not appear to match")
}

func TestAnalyze_CrossPhotoMatch(t *testing.T) {
	faces := &mockFaceAnalyzer{}

	p1, p2 := photoRef("p1"), photoRef("p2")
	sameFace := func(age float64) FaceSignals {
		return FaceSignals{
			FaceCount: 1, DeepfakeProbability: 50, ProfessionalLikelihood: 50,
			EstimatedAge: age, Descriptor: []float64{0.6, 0.8, 0},
		}
	}
	faces.On("AnalyzeFace", mock.Anything, p1).Return(sameFace(29), nil)
	faces.On("AnalyzeFace", mock.Anything, p2).Return(sameFace(31), nil)

	svc := NewService(faces, nil, nil, nil)
	result, err := svc.Analyze(context.Background(), []verification.PhotoReference{p1, p2})
	require.NoError(t, err)

	// Identical descriptors (similarity 1.0) with a two-year age spread:
	// 0.8*100 + 0.2*90 = 98.
	assert.InDelta(t, 98.0, result.FaceConsistency, 0.001)
	assert.Equal(t, 0.0, result.OverallRiskScore)
	assert.Empty(t, result.RedFlags)
}

func TestAnalyze_SubStepFailureDegrades(t *testing.T) {
	faces := &mockFaceAnalyzer{}
	reverse := &mockReverseSearcher{}

	photo := photoRef("p1")
	faces.On("AnalyzeFace", mock.Anything, photo).Return(FaceSignals{}, errors.New("vision backend unreachable"))
	reverse.On("Search", mock.Anything, photo).Return(nil, errors.New("search quota exceeded"))

	svc := NewService(faces, reverse, nil, nil)
	result, err := svc.Analyze(context.Background(), []verification.PhotoReference{photo})
	require.NoError(t, err)

	assert.Contains(t, result.RedFlags, "photo p1: face analysis failed")
	assert.Contains(t, result.RedFlags, "photo p1: reverse image search failed")

	// Failed sub-steps contribute neutral defaults, not risk.
	assert.Equal(t, 50.0, result.DeepfakeProbability)
	assert.Equal(t, 50.0, result.ProfessionalPhotoLikelihood)
	assert.Equal(t, 0.0, result.OverallRiskScore)
}

func TestAnalyze_NilProvidersAreNeutral(t *testing.T) {
	svc := NewService(nil, nil, nil, nil)

	result, err := svc.Analyze(context.Background(), []verification.PhotoReference{photoRef("p1")})
	require.NoError(t, err)

	assert.Empty(t, result.RedFlags)
	assert.Equal(t, 50.0, result.DeepfakeProbability)
	assert.Equal(t, 50.0, result.FaceConsistency)
	assert.Equal(t, 0.0, result.OverallRiskScore)
	assert.Equal(t, 100.0, result.AuthenticityScore)
}

func TestAnalyze_PreservesPhotoOrder(t *testing.T) {
	faces := &mockFaceAnalyzer{}
	photos := []verification.PhotoReference{photoRef("a"), photoRef("b"), photoRef("c")}
	for _, p := range photos {
		faces.On("AnalyzeFace", mock.Anything, p).Return(neutralFace(), nil)
	}

	svc := NewService(faces, nil, nil, nil)
	result, err := svc.Analyze(context.Background(), photos)
	require.NoError(t, err)

	require.Len(t, result.PhotoAnalyses, 3)
	assert.Equal(t, "a", result.PhotoAnalyses[0].PhotoID)
	assert.Equal(t, "b", result.PhotoAnalyses[1].PhotoID)
	assert.Equal(t, "c", result.PhotoAnalyses[2].PhotoID)
}

func TestAnalyze_ReverseHitsAccumulate(t *testing.T) {
	reverse := &mockReverseSearcher{}

	p1, p2 := photoRef("p1"), photoRef("p2")
	reverse.On("Search", mock.Anything, p1).Return([]verification.ReverseSearchMatch{
		{URL: "https://found.example/1", Title: "scam db"},
	}, nil)
	reverse.On("Search", mock.Anything, p2).Return([]verification.ReverseSearchMatch{
		{URL: "https://found.example/2", Title: "scam db"},
	}, nil)

	svc := NewService(nil, reverse, nil, nil)
	result, err := svc.Analyze(context.Background(), []verification.PhotoReference{p1, p2})
	require.NoError(t, err)

	assert.Len(t, result.ReverseSearchMatches, 2)
	assert.Equal(t, 20.0, result.OverallRiskScore)
}
