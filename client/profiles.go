package client

import "context"

// Display-profile operations. Profile payloads are flattened into the
// request body alongside the session fields, which is the shape the
// backend expects.

type profileRequest struct {
	SessionToken string `json:"sessionToken"`
	UserID       string `json:"userId"`
	ProfileUpdate
}

// CreateProfile creates the display profile for a freshly registered user.
func (c *Client) CreateProfile(ctx context.Context, sessionToken, userID string, p ProfileUpdate) error {
	return c.post(ctx, "create_profile", "/profile/createProfile", profileRequest{sessionToken, userID, p}, nil)
}

// UpdateProfile applies edits to the display profile.
func (c *Client) UpdateProfile(ctx context.Context, sessionToken, userID string, p ProfileUpdate) error {
	return c.post(ctx, "update_profile", "/profile/updateProfile", profileRequest{sessionToken, userID, p}, nil)
}

// SetVisibility replaces the privacy flag set. The backend requires all
// four fields on every call; merge partial changes locally first.
func (c *Client) SetVisibility(ctx context.Context, sessionToken, userID string, v VisibilitySettings) error {
	req := struct {
		SessionToken string `json:"sessionToken"`
		UserID       string `json:"userId"`
		VisibilitySettings
	}{sessionToken, userID, v}
	return c.post(ctx, "set_visibility", "/profile/setVisibility", req, nil)
}

// GetProfile fetches the display profile plus aggregated stats. A nil
// Profile in the response means none exists yet.
func (c *Client) GetProfile(ctx context.Context, sessionToken, userID string) (*GetProfileResponse, error) {
	var out GetProfileResponse
	req := struct {
		SessionToken string `json:"sessionToken"`
		UserID       string `json:"userId"`
	}{sessionToken, userID}
	if err := c.post(ctx, "get_profile", "/profile/getProfile", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProfile removes the display profile.
func (c *Client) DeleteProfile(ctx context.Context, sessionToken, userID string) error {
	req := struct {
		SessionToken string `json:"sessionToken"`
		UserID       string `json:"userId"`
	}{sessionToken, userID}
	return c.post(ctx, "delete_profile", "/profile/deleteProfile", req, nil)
}

// GetNearbyActiveHikers lists users sharing live location near a point.
func (c *Client) GetNearbyActiveHikers(ctx context.Context, sessionToken, userID string, loc LatLng, radiusKm float64) ([]NearbyHiker, error) {
	var out struct {
		Hikers []NearbyHiker `json:"hikers"`
	}
	req := struct {
		SessionToken string   `json:"sessionToken"`
		UserID       string   `json:"userId"`
		Location     GeoPoint `json:"location"`
		RadiusKm     float64  `json:"radiusKm,omitempty"`
	}{sessionToken, userID, NewGeoPoint(loc), radiusKm}
	if err := c.post(ctx, "get_nearby_active_hikers", "/profile/getNearbyActiveHikers", req, &out); err != nil {
		return nil, err
	}
	return out.Hikers, nil
}
