package client

import "context"

// Location search and geocoding operations.

// SearchLocations resolves a free-text query into candidate places.
func (c *Client) SearchLocations(ctx context.Context, query string, near LatLng, limit int) ([]LocationResult, error) {
	var out struct {
		Results []LocationResult `json:"results"`
	}
	req := struct {
		Query string `json:"query"`
		Near  LatLng `json:"near"`
		Limit int    `json:"limit,omitempty"`
	}{query, near, limit}
	if err := c.post(ctx, "search_locations", "/UnifiedRouting/searchLocations", req, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// GeocodeAddress turns a street address into coordinates.
func (c *Client) GeocodeAddress(ctx context.Context, address string, limit int) ([]LocationResult, error) {
	var out struct {
		Results []LocationResult `json:"results"`
	}
	req := struct {
		Address string `json:"address"`
		Limit   int    `json:"limit,omitempty"`
	}{address, limit}
	if err := c.post(ctx, "geocode_address", "/LocationSearch/geocodeAddress", req, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// ReverseGeocode turns coordinates into the nearest address.
func (c *Client) ReverseGeocode(ctx context.Context, loc LatLng) (*LocationResult, error) {
	var out LocationResult
	req := struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	}{loc.Lat, loc.Lng}
	if err := c.post(ctx, "reverse_geocode", "/LocationSearch/reverseGeocode", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
