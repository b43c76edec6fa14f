package profileverify

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/datesafe/verification-backend/internal/domain/errors"
	"github.com/datesafe/verification-backend/internal/domain/verification"
)

// Weights for the aggregate legitimacy and confidence scores.
const (
	legitimacyNetworkWeight      = 0.35
	legitimacyPlatformWeight     = 0.20
	legitimacyProfessionalWeight = 0.15
	legitimacyPresenceWeight     = 0.30

	confidencePlatformWeight    = 0.40
	confidenceNetworkWeight     = 0.30
	confidenceConsistencyWeight = 0.30

	perPlatformScore  = 25.0
	perPresenceYear   = 10.0
	suspiciousRatio   = 50.0
	hoursPerYear      = 24 * 365.25
	ageSpreadPenalty  = 10.0
	locationsDisagree = 30.0
)

// Service verifies a match's web presence from their profile URLs. The
// fetcher is taken per call so browser-automation resources live no longer
// than one verification; the WHOIS client is cheap and long-lived.
type Service struct {
	whois  WhoisClient
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a profile verifier.
func NewService(whois WhoisClient, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{whois: whois, logger: logger, now: time.Now}
}

// urlOutcome is the per-URL intermediate.
type urlOutcome struct {
	presence verification.PlatformPresence
	fetched  bool
	location string
	flags    []string
}

// Verify fetches every profile URL, folds per-platform authenticity into the
// aggregate scores, and estimates web-presence age via WHOIS for personal
// domains. Any single URL's failure is logged and skipped; it never fails the
// verification.
func (s *Service) Verify(ctx context.Context, fetcher SocialProfileFetcher, urls []string, claimed *verification.ProfileData) (verification.ProfileVerificationResult, error) {
	if len(urls) == 0 {
		return verification.NewNeutralProfileResult(),
			errors.NewMalformedInputError("profile_urls", "no profile URLs given")
	}
	if err := ctx.Err(); err != nil {
		return verification.NewNeutralProfileResult(), err
	}

	outcomes := make([]urlOutcome, len(urls))
	var wg sync.WaitGroup
	for i := range urls {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			outcomes[idx] = s.verifyURL(ctx, fetcher, urls[idx])
		}(i)
	}
	wg.Wait()

	result := verification.ProfileVerificationResult{
		Platforms: []verification.PlatformPresence{},
		RedFlags:  []string{},
	}

	var locations []string
	for _, o := range outcomes {
		result.RedFlags = append(result.RedFlags, o.flags...)
		if !o.fetched {
			continue
		}
		result.Platforms = append(result.Platforms, o.presence)
		if o.location != "" {
			locations = append(locations, o.location)
		}
	}

	whoisYears := s.presenceAgeFromWhois(ctx, urls, &result)

	if len(result.Platforms) == 0 {
		neutral := verification.NewNeutralProfileResult()
		neutral.RedFlags = result.RedFlags
		neutral.DigitalFootprintYears = whoisYears
		return neutral, nil
	}

	authSum, maxAge := 0.0, 0.0
	professional := false
	for _, p := range result.Platforms {
		authSum += p.Authenticity
		if p.AccountAgeYears > maxAge {
			maxAge = p.AccountAgeYears
		}
		professional = professional || p.ProfessionalPresence
	}
	result.NetworkAuthenticity = authSum / float64(len(result.Platforms))
	result.DigitalFootprintYears = math.Max(maxAge, whoisYears)
	result.CrossPlatformConsistency = crossPlatformConsistency(result.Platforms, locations)

	if claimed != nil && locationMismatch(claimed.Location, locations) {
		result.RedFlags = append(result.RedFlags, verification.RedFlagLocationMismatch)
	}

	platformScore := math.Min(float64(len(result.Platforms))*perPlatformScore, 100)
	professionalScore := 50.0
	if professional {
		professionalScore = 100
	}
	presenceScore := math.Min(result.DigitalFootprintYears*perPresenceYear, 100)

	result.ProfileLegitimacy = verification.ClampScore(
		legitimacyNetworkWeight*result.NetworkAuthenticity +
			legitimacyPlatformWeight*platformScore +
			legitimacyProfessionalWeight*professionalScore +
			legitimacyPresenceWeight*presenceScore)

	result.VerificationConfidence = verification.ClampScore(
		confidencePlatformWeight*platformScore +
			confidenceNetworkWeight*result.NetworkAuthenticity +
			confidenceConsistencyWeight*result.CrossPlatformConsistency)

	s.logger.Debug("profiles verified",
		zap.Int("urls", len(urls)),
		zap.Int("platforms", len(result.Platforms)),
		zap.Float64("legitimacy", result.ProfileLegitimacy),
		zap.Float64("footprint_years", result.DigitalFootprintYears))

	return result, nil
}

// verifyURL parses, classifies and fetches one profile URL.
func (s *Service) verifyURL(ctx context.Context, fetcher SocialProfileFetcher, raw string) urlOutcome {
	o := urlOutcome{flags: []string{}}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		o.flags = append(o.flags, fmt.Sprintf("unparsable profile URL: %s", raw))
		return o
	}
	platform := detectPlatform(parsed.Hostname())

	if fetcher == nil {
		return o
	}

	profile, err := fetcher.FetchProfile(ctx, platform, raw)
	if err != nil {
		s.logger.Warn("profile fetch failed",
			zap.String("platform", platform), zap.String("url", raw), zap.Error(err))
		o.flags = append(o.flags, fmt.Sprintf("could not fetch %s profile", platform))
		return o
	}

	ageYears := 0.0
	if !profile.JoinDate.IsZero() {
		ageYears = s.now().Sub(profile.JoinDate).Hours() / hoursPerYear
		if ageYears < 0 {
			ageYears = 0
		}
	}

	o.fetched = true
	o.location = profile.Location
	o.presence = verification.PlatformPresence{
		Platform:             platform,
		URL:                  raw,
		AccountAgeYears:      ageYears,
		Followers:            profile.Followers,
		Friends:              profile.Friends,
		TaggedPhotos:         profile.TaggedPhotos,
		ProfessionalPresence: profile.ProfessionalPresence,
		Authenticity:         platformAuthenticity(profile, ageYears),
	}
	return o
}

// platformAuthenticity scores one platform presence from its social-graph
// shape and account age.
func platformAuthenticity(p SocialProfile, ageYears float64) float64 {
	score := 50.0

	score += math.Min(ageYears*5, 20)
	if p.TaggedPhotos > 5 {
		score += 10
	}
	switch {
	case p.Friends > 0 && float64(p.Followers)/float64(p.Friends) > suspiciousRatio:
		score -= 15
	case p.Friends > 0:
		score += 10
	case p.Followers > 1000:
		// Large following with no reciprocal graph looks purchased.
		score -= 15
	}
	if p.ProfessionalPresence {
		score += 5
	}

	return verification.ClampScore(score)
}

// crossPlatformConsistency compares account ages and stated locations across
// platforms. A single platform is not comparable and stays neutral.
func crossPlatformConsistency(platforms []verification.PlatformPresence, locations []string) float64 {
	if len(platforms) < 2 {
		return 50
	}

	minAge, maxAge := platforms[0].AccountAgeYears, platforms[0].AccountAgeYears
	for _, p := range platforms[1:] {
		if p.AccountAgeYears < minAge {
			minAge = p.AccountAgeYears
		}
		if p.AccountAgeYears > maxAge {
			maxAge = p.AccountAgeYears
		}
	}

	score := 100 - (maxAge-minAge)*ageSpreadPenalty
	if len(locations) >= 2 && !allLocationsAgree(locations) {
		score -= locationsDisagree
	}
	return verification.ClampScore(score)
}

func allLocationsAgree(locations []string) bool {
	first := strings.ToLower(strings.TrimSpace(locations[0]))
	for _, l := range locations[1:] {
		if strings.ToLower(strings.TrimSpace(l)) != first {
			return false
		}
	}
	return true
}

// locationMismatch reports whether the claimed location contradicts every
// platform-stated location. No stated locations means no evidence either way.
func locationMismatch(claimed string, locations []string) bool {
	claimed = strings.ToLower(strings.TrimSpace(claimed))
	if claimed == "" || len(locations) == 0 {
		return false
	}
	for _, l := range locations {
		l = strings.ToLower(strings.TrimSpace(l))
		if strings.Contains(l, claimed) || strings.Contains(claimed, l) {
			return false
		}
	}
	return true
}

// presenceAgeFromWhois resolves the first personal (non-social) domain among
// the URLs. Social platform domains carry no signal about the person.
func (s *Service) presenceAgeFromWhois(ctx context.Context, urls []string, result *verification.ProfileVerificationResult) float64 {
	if s.whois == nil {
		return 0
	}

	for _, raw := range urls {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Hostname() == "" {
			continue
		}
		host := parsed.Hostname()
		if detectPlatform(host) != PlatformWeb {
			continue
		}

		created, err := s.whois.CreationDate(ctx, host)
		if err != nil {
			s.logger.Warn("whois lookup failed", zap.String("domain", host), zap.Error(err))
			result.RedFlags = append(result.RedFlags, fmt.Sprintf("whois lookup failed for %s", host))
			return 0
		}
		years := s.now().Sub(created).Hours() / hoursPerYear
		if years < 0 {
			return 0
		}
		return years
	}
	return 0
}
