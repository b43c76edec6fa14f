package profileverify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBoundVerifier_AcquiresAndReleasesPerCall(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("FetchProfile", mock.Anything, "instagram", "https://instagram.com/someone").
		Return(SocialProfile{DisplayName: "Someone", JoinDate: yearsAgo(3)}, nil)

	acquired, released := 0, 0
	factory := func(ctx context.Context) (SocialProfileFetcher, func(), error) {
		acquired++
		return fetcher, func() { released++ }, nil
	}

	bv := NewBoundVerifier(NewService(nil, nil), factory)

	for i := 0; i < 2; i++ {
		_, err := bv.Verify(context.Background(), []string{"https://instagram.com/someone"}, nil)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, acquired, "each call acquires its own fetcher")
	assert.Equal(t, 2, released, "each fetcher is released after its call")
}

func TestBoundVerifier_FactoryFailureLoggedAndDegraded(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	svc := NewService(nil, zap.New(core))

	factory := func(ctx context.Context) (SocialProfileFetcher, func(), error) {
		return nil, nil, errors.New("browser pool exhausted")
	}
	bv := NewBoundVerifier(svc, factory)

	result, err := bv.Verify(context.Background(), []string{"https://instagram.com/someone"}, nil)
	require.NoError(t, err)

	// Degrades to a fetcher-less run: the URL is skipped, the result stays
	// neutral.
	assert.Empty(t, result.Platforms)
	assert.Equal(t, 50.0, result.ProfileLegitimacy)

	entries := logs.FilterMessage("profile fetcher acquisition failed, continuing without fetcher").All()
	require.Len(t, entries, 1, "the factory error must leave a trace")
	assert.Contains(t, entries[0].ContextMap()["error"], "browser pool exhausted")
}

func TestBoundVerifier_NilFactory(t *testing.T) {
	bv := NewBoundVerifier(NewService(nil, nil), nil)

	result, err := bv.Verify(context.Background(), []string{"https://instagram.com/someone"}, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Platforms)
}
