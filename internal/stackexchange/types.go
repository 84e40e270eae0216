package stackexchange

// Profile is the projection of one Stack Exchange user kept for rendering.
// A nil field means the API record did not carry it; the JSON form always
// has all five keys, with null for absent values.
type Profile struct {
	Reputation   *int    `json:"reputation"`
	Location     *string `json:"location"`
	DisplayName  *string `json:"display_name"`
	Link         *string `json:"link"`
	ProfileImage *string `json:"profile_image"`
}

// HasImage reports whether the profile carries a usable avatar URL.
func (p Profile) HasImage() bool {
	return p.ProfileImage != nil && *p.ProfileImage != ""
}

// usersResponse is the envelope returned by the /users endpoint.
type usersResponse struct {
	Items          []Profile `json:"items"`
	HasMore        bool      `json:"has_more"`
	QuotaMax       int       `json:"quota_max"`
	QuotaRemaining int       `json:"quota_remaining"`
	Backoff        int       `json:"backoff"`
}
