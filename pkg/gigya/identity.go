package gigya

import "time"

// Identity is the canonical user record resolved from a provider document.
// ID and Provider are always set on a resolved identity. Every other field is
// nil when the provider did not supply it.
type Identity struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`

	Nickname  *string `json:"nickname,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Gender    *string `json:"gender,omitempty"`
	Age       *string `json:"age,omitempty"`
	Email     *string `json:"email,omitempty"`
	City      *string `json:"city,omitempty"`
	State     *string `json:"state,omitempty"`
	Zip       *string `json:"zip,omitempty"`
	Country   *string `json:"country,omitempty"`

	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
	ProfileURL   *string `json:"profile_url,omitempty"`
	PhotoURL     *string `json:"photo_url,omitempty"`

	Birthday *time.Time `json:"birthday,omitempty"`
}

// Value dereferences an optional field, returning "" when it is absent.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
