package verification

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Sender identifies which side of the conversation wrote a message.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderMatch Sender = "match"
)

// Message is a single conversation message. Ordering within a transcript is
// chronological and significant; analyzers must not reorder.
type Message struct {
	Sender      Sender    `json:"sender" validate:"required,oneof=user match"`
	Content     string    `json:"content" validate:"required"`
	Timestamp   time.Time `json:"timestamp" validate:"required"`
	ReadReceipt *bool     `json:"read_receipt,omitempty"`
}

// PhotoReference points at a photo to analyze, together with whatever
// metadata the caller already extracted. The raw bytes never cross this
// boundary; forensic signals come from the pluggable photo providers.
type PhotoReference struct {
	ID  string `json:"id" validate:"required"`
	URL string `json:"url,omitempty"`
}

// ProfileData carries the match's self-reported profile fields.
type ProfileData struct {
	Name       string `json:"name,omitempty"`
	Age        int    `json:"age,omitempty" validate:"omitempty,gte=18,lte=120"`
	Location   string `json:"location,omitempty"`
	Profession string `json:"profession,omitempty"`
	Bio        string `json:"bio,omitempty"`
}

// RequestContext carries relationship-timeline metadata used by the fusion
// engine's timeline rules.
type RequestContext struct {
	Platform           string `json:"platform,omitempty"`
	MatchDurationDays  int    `json:"match_duration_days,omitempty" validate:"omitempty,gte=0"`
	VideoCallAttempted bool   `json:"video_call_attempted"`
	PhoneCallAttempted bool   `json:"phone_call_attempted"`
	MeetingAttempted   bool   `json:"meeting_attempted"`
}

// VerificationRequest is the engine's sole input. Every field is optional;
// absence of an input type skips the corresponding signal provider. The
// request is immutable once submitted.
type VerificationRequest struct {
	Photos       []PhotoReference `json:"photos,omitempty" validate:"omitempty,dive"`
	ProfileURLs  []string         `json:"profile_urls,omitempty"`
	Conversation []Message        `json:"conversation,omitempty" validate:"omitempty,dive"`
	ProfileData  *ProfileData     `json:"profile_data,omitempty"`
	Context      *RequestContext  `json:"context,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks structural constraints on the request. Per-item problems
// (e.g. one unparsable URL) are not rejected here; providers skip malformed
// items individually.
func (r *VerificationRequest) Validate() error {
	return validate.Struct(r)
}

// HasPhotos reports whether the photo provider has anything to work with.
func (r *VerificationRequest) HasPhotos() bool { return len(r.Photos) > 0 }

// HasConversation reports whether the conversation provider has input.
func (r *VerificationRequest) HasConversation() bool { return len(r.Conversation) > 0 }

// HasProfileURLs reports whether the profile provider has input.
func (r *VerificationRequest) HasProfileURLs() bool { return len(r.ProfileURLs) > 0 }
