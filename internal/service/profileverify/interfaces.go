package profileverify

import (
	"context"
	"time"
)

// SocialProfile is what the social-profile fetcher recovers from one URL.
// Implementations wrap external scraping or API backends; a returned error
// skips that URL without failing the verification.
type SocialProfile struct {
	DisplayName          string
	Location             string
	Followers            int
	Friends              int
	TaggedPhotos         int
	JoinDate             time.Time
	ProfessionalPresence bool
}

// SocialProfileFetcher fetches one public profile. The fetcher is supplied
// per call; implementations must release any browser or session resources
// before returning.
type SocialProfileFetcher interface {
	FetchProfile(ctx context.Context, platform, url string) (SocialProfile, error)
}

// WhoisClient resolves the registration date of a domain.
type WhoisClient interface {
	CreationDate(ctx context.Context, domain string) (time.Time, error)
}
