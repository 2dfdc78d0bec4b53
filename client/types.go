package client

import (
	"encoding/json"
	"time"
)

// ------------------------------
// Core domain types and payloads
// ------------------------------

// DefaultBaseURL is where a locally running backend listens.
const DefaultBaseURL = "http://localhost:8000"

// LatLng is a plain coordinate pair as the route planner consumes it.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both coordinates are present. The backend rejects
// half-filled pairs, so callers substitute a fallback before sending.
func (l LatLng) Valid() bool {
	return l.Lat != 0 && l.Lng != 0
}

// GeoPoint is the GeoJSON Point shape the profile endpoints require.
// Coordinates are ordered [lng, lat] per GeoJSON.
type GeoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// NewGeoPoint converts a LatLng into a GeoJSON Point.
func NewGeoPoint(l LatLng) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: [2]float64{l.Lng, l.Lat}}
}

// RegisterRequest is the payload for POST /user/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// RegisterResponse is returned on successful registration. Registration
// does not grant a session; callers log in separately.
type RegisterResponse struct {
	UserID  string `json:"userId"`
	Message string `json:"message,omitempty"`
}

// LoginResponse carries the session credentials issued at login.
type LoginResponse struct {
	SessionToken string `json:"sessionToken"`
	UserID       string `json:"userId"`
}

// AuthenticateResponse is returned by /user/authenticate for a valid token.
type AuthenticateResponse struct {
	UserID string `json:"userId"`
}

// UserProfile is the account-level record behind /user/getUserProfile.
type UserProfile struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Profile is the public-facing display profile.
type Profile struct {
	DisplayName     string    `json:"displayName"`
	Bio             string    `json:"bio,omitempty"`
	ExperienceLevel string    `json:"experienceLevel,omitempty"`
	HomeLocation    *GeoPoint `json:"homeLocation,omitempty"`
}

// ProfileUpdate carries the fields a user may edit on their display
// profile. Zero-valued fields are omitted from the wire payload.
type ProfileUpdate struct {
	DisplayName     string    `json:"displayName,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	ExperienceLevel string    `json:"experienceLevel,omitempty"`
	HomeLocation    *GeoPoint `json:"homeLocation,omitempty"`
}

// VisibilitySettings is the complete privacy flag set. The backend does
// not support partial updates: every SetVisibility call must carry all
// four fields.
type VisibilitySettings struct {
	ShowLiveLocation  bool   `json:"showLiveLocation"`
	ProfileVisibility string `json:"profileVisibility"`
	ShareStats        bool   `json:"shareStats"`
	ShareHomeLocation bool   `json:"shareHomeLocation"`
}

// DefaultVisibility returns the flag set applied to accounts that have
// never saved visibility settings.
func DefaultVisibility() VisibilitySettings {
	return VisibilitySettings{
		ShowLiveLocation:  false,
		ProfileVisibility: "public",
		ShareStats:        true,
		ShareHomeLocation: false,
	}
}

// UserStats aggregates a user's hiking history.
type UserStats struct {
	TotalHikes       int     `json:"totalHikes"`
	TotalDistanceKm  float64 `json:"totalDistanceKm"`
	TotalElevationM  float64 `json:"totalElevationM"`
	TotalDurationMin int     `json:"totalDurationMin,omitempty"`
	Achievements     int     `json:"achievements,omitempty"`
}

// GetProfileResponse wraps /profile/getProfile. A nil Profile means the
// user has not created one yet, which is not an error.
type GetProfileResponse struct {
	Profile *Profile   `json:"profile"`
	Stats   *UserStats `json:"stats,omitempty"`
}

// NearbyHiker is one entry from /profile/getNearbyActiveHikers.
type NearbyHiker struct {
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	Location    GeoPoint  `json:"location"`
	LastSeen    time.Time `json:"lastSeen,omitempty"`
}

// RoutePlan is the backend's planned route. The planner produces it and
// consumes it back as route context; the client never interprets the
// segment or waypoint contents.
type RoutePlan struct {
	RouteID     string            `json:"route_id"`
	Name        string            `json:"name"`
	Origin      json.RawMessage   `json:"origin,omitempty"`
	Destination json.RawMessage   `json:"destination,omitempty"`
	Segments    []json.RawMessage `json:"segments,omitempty"`
	Waypoints   []json.RawMessage `json:"waypoints,omitempty"`
}

// RouteContext is the reduced echo of a RoutePlan sent on follow-up
// planning calls so the backend can modify the plan instead of replanning
// from scratch.
type RouteContext struct {
	RouteID            string            `json:"routeId"`
	RouteName          string            `json:"routeName"`
	CurrentDestination json.RawMessage   `json:"currentDestination,omitempty"`
	CurrentOrigin      json.RawMessage   `json:"currentOrigin,omitempty"`
	CurrentSegments    []json.RawMessage `json:"currentSegments,omitempty"`
	CurrentWaypoints   []json.RawMessage `json:"currentWaypoints,omitempty"`
}

// ContextOf extracts the route context the planner expects from a plan.
func ContextOf(r *RoutePlan) *RouteContext {
	if r == nil {
		return nil
	}
	return &RouteContext{
		RouteID:            r.RouteID,
		RouteName:          r.Name,
		CurrentDestination: r.Destination,
		CurrentOrigin:      r.Origin,
		CurrentSegments:    r.Segments,
		CurrentWaypoints:   r.Waypoints,
	}
}

// RoutePreferences is the planner-facing preference shape, derived one-way
// from the richer UI preference record: duration is in whole hours, Avoid
// lists the feature keys to route around.
type RoutePreferences struct {
	Duration       *int     `json:"duration,omitempty"`
	TransportModes []string `json:"transportModes"`
	Avoid          []string `json:"avoid"`
	Accessibility  bool     `json:"accessibility"`
}

// PlanRouteRequest is the payload for /llmRoutePlanner/planRoute.
type PlanRouteRequest struct {
	SessionToken string           `json:"sessionToken,omitempty"`
	Query        string           `json:"query"`
	UserLocation LatLng           `json:"userLocation"`
	Preferences  RoutePreferences `json:"preferences"`
	CurrentRoute *RouteContext    `json:"currentRoute,omitempty"`
}

// PlanRouteResponse wraps the planner result. Route is nil when the
// backend could not produce one.
type PlanRouteResponse struct {
	Route   *RoutePlan `json:"route"`
	Summary string     `json:"summary,omitempty"`
}

// GlobalStats is returned by /llmRoutePlanner/getGlobalStats.
type GlobalStats struct {
	TotalUsers   int `json:"totalUsers"`
	TotalRoutes  int `json:"totalRoutes"`
	ActiveHikers int `json:"activeHikers,omitempty"`
}

// HistoryEntry is one recorded activity from /userHistory/getUserHistory.
type HistoryEntry struct {
	ActivityID string          `json:"activityId"`
	UserID     string          `json:"userId"`
	Type       string          `json:"type"`
	Route      json.RawMessage `json:"route,omitempty"`
	RecordedAt time.Time       `json:"recordedAt,omitempty"`
}

// FeedItem is one entry of the public activity feed.
type FeedItem struct {
	UserID      string          `json:"userId"`
	DisplayName string          `json:"displayName,omitempty"`
	Type        string          `json:"type"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	PostedAt    time.Time       `json:"postedAt,omitempty"`
}

// PopularRoute is one entry from /userHistory/getPopularRoutes.
type PopularRoute struct {
	RouteID   string          `json:"routeId"`
	Name      string          `json:"name"`
	HikeCount int             `json:"hikeCount"`
	Route     json.RawMessage `json:"route,omitempty"`
}

// Achievement is one earned badge from /userHistory/getUserAchievements.
type Achievement struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	EarnedAt time.Time `json:"earnedAt,omitempty"`
}

// RecordActivityRequest captures a completed hike or other activity.
type RecordActivityRequest struct {
	SessionToken string          `json:"sessionToken"`
	UserID       string          `json:"userId"`
	Type         string          `json:"type"`
	Route        json.RawMessage `json:"route,omitempty"`
	DurationMin  int             `json:"durationMin,omitempty"`
	DistanceKm   float64         `json:"distanceKm,omitempty"`
}

// LocationResult is one hit from the location search/geocode endpoints.
type LocationResult struct {
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Location LatLng `json:"location"`
}
