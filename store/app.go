package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/trailhead/trailhead-go/client"
	"github.com/trailhead/trailhead-go/store/locate"
)

// DefaultModePriority is the transport-mode list sent when the user never
// set one.
var DefaultModePriority = []string{"transit", "walking"}

// Time-constraint kinds.
const (
	DepartAt = "depart_at"
	ArriveBy = "arrive_by"
)

// actionHistoryLimit bounds the recent-action list, newest first.
const actionHistoryLimit = 5

// AvoidFlags are the user's avoidance toggles. They are translated to the
// planner's avoided-feature key list at the request boundary.
type AvoidFlags struct {
	Tolls    bool `json:"tolls"`
	Highways bool `json:"highways"`
}

// Prefs is the UI-facing preference record. MinHikeMinutes zero means
// unset.
type Prefs struct {
	Avoid          AvoidFlags `json:"avoid"`
	ModePriority   []string   `json:"modePriority"`
	MinHikeMinutes int        `json:"minHikeMinutes"`
	Accessibility  bool       `json:"accessibility"`
}

// PrefsPatch applies a partial preference update; nil fields keep the
// current value.
type PrefsPatch struct {
	AvoidTolls     *bool
	AvoidHighways  *bool
	ModePriority   []string
	MinHikeMinutes *int
	Accessibility  *bool
}

// TimeConstraint is a depart-at or arrive-by wish with an RFC 3339 stamp.
type TimeConstraint struct {
	Type string `json:"type"`
	ISO  string `json:"iso"`
}

// Daylight is the day's light window.
type Daylight struct {
	SunriseISO string `json:"sunriseIso"`
	SunsetISO  string `json:"sunsetIso"`
}

// TripContext carries ambient planning context.
type TripContext struct {
	Daylight       Daylight `json:"daylight"`
	DetourLimitMin int      `json:"detourLimitMin"`
	Locale         string   `json:"locale"`
	Units          string   `json:"units"`
}

// DebugLimits caps planner candidate fan-out during development.
type DebugLimits struct {
	MaxCandidatePlaces int `json:"maxCandidatePlaces"`
	MaxAlternatives    int `json:"maxAlternatives"`
}

// UIState is a point-in-time snapshot of everything the UI renders from
// the app container.
type UIState struct {
	Origin          string            `json:"origin"`
	Home            string            `json:"home"`
	DestinationHint string            `json:"destinationHint"`
	CurrentRoute    *client.RoutePlan `json:"currentRoute"`
	UserLocation    *client.LatLng    `json:"userLocation"`
	Prefs           Prefs             `json:"prefs"`
	Time            TimeConstraint    `json:"time"`
	Context         TripContext       `json:"context"`
	DebugLimits     DebugLimits       `json:"debugLimits"`
	ButtonsPressed  []string          `json:"buttonsPressed"`
	Loading         bool              `json:"loading"`
	Error           string            `json:"error,omitempty"`
}

// PlannerAPI is the slice of the gateway the app container uses.
type PlannerAPI interface {
	PlanRoute(ctx context.Context, req client.PlanRouteRequest) (*client.PlanRouteResponse, error)
	Orchestrate(ctx context.Context, state interface{}, action string) (json.RawMessage, error)
}

// App holds the current trip-planning query context and mediates
// route-planning requests. Mutating actions are expected to be invoked
// one at a time by the UI event loop.
type App struct {
	notifier

	gw      PlannerAPI
	locator locate.Locator
	token   func() string

	mu              sync.Mutex
	origin          string
	home            string
	destinationHint string
	currentRoute    *client.RoutePlan
	userLocation    *client.LatLng
	prefs           Prefs
	time            TimeConstraint
	context         TripContext
	debugLimits     DebugLimits
	actions         []string
	loading         bool
	lastErr         string
}

// AppOption configures an App during NewApp.
type AppOption func(*App)

// WithLocator supplies the platform geolocation capability. Without it,
// AcquireLocation reports the capability as absent.
func WithLocator(l locate.Locator) AppOption {
	return func(a *App) { a.locator = l }
}

// WithTokenSource lets planning calls carry the current session token.
func WithTokenSource(fn func() string) AppOption {
	return func(a *App) { a.token = fn }
}

// NewApp constructs an app container bound to a planner gateway.
func NewApp(gw PlannerAPI, opts ...AppOption) *App {
	a := &App{
		gw: gw,
		prefs: Prefs{
			ModePriority:   append([]string(nil), DefaultModePriority...),
			MinHikeMinutes: 30,
		},
		time:        TimeConstraint{Type: DepartAt},
		context:     TripContext{DetourLimitMin: 20, Locale: "en-US", Units: "metric"},
		debugLimits: DebugLimits{MaxCandidatePlaces: 5, MaxAlternatives: 3},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ---- simple setters ----

func (a *App) SetOrigin(v string) {
	a.mu.Lock()
	a.origin = v
	a.mu.Unlock()
	a.notify()
}

func (a *App) SetHome(v string) {
	a.mu.Lock()
	a.home = v
	a.mu.Unlock()
	a.notify()
}

func (a *App) SetDestinationHint(v string) {
	a.mu.Lock()
	a.destinationHint = v
	a.mu.Unlock()
	a.notify()
}

func (a *App) SetCurrentRoute(r *client.RoutePlan) {
	a.mu.Lock()
	a.currentRoute = r
	a.mu.Unlock()
	a.notify()
}

func (a *App) SetUserLocation(l client.LatLng) {
	a.mu.Lock()
	a.userLocation = &l
	a.mu.Unlock()
	a.notify()
}

// SetError records a message for UI display.
func (a *App) SetError(msg string) {
	a.mu.Lock()
	a.lastErr = msg
	a.mu.Unlock()
	a.notify()
}

// ClearError clears the last error message.
func (a *App) ClearError() { a.SetError("") }

// UpdatePrefs merges a partial preference update over the current record.
func (a *App) UpdatePrefs(p PrefsPatch) {
	a.mu.Lock()
	if p.AvoidTolls != nil {
		a.prefs.Avoid.Tolls = *p.AvoidTolls
	}
	if p.AvoidHighways != nil {
		a.prefs.Avoid.Highways = *p.AvoidHighways
	}
	if p.ModePriority != nil {
		a.prefs.ModePriority = append([]string(nil), p.ModePriority...)
	}
	if p.MinHikeMinutes != nil {
		a.prefs.MinHikeMinutes = *p.MinHikeMinutes
	}
	if p.Accessibility != nil {
		a.prefs.Accessibility = *p.Accessibility
	}
	a.mu.Unlock()
	a.notify()
}

// UpdateTime replaces the non-zero fields of the time constraint.
func (a *App) UpdateTime(t TimeConstraint) {
	a.mu.Lock()
	if t.Type != "" {
		a.time.Type = t.Type
	}
	if t.ISO != "" {
		a.time.ISO = t.ISO
	}
	a.mu.Unlock()
	a.notify()
}

// UpdateContext replaces the non-zero fields of the trip context.
func (a *App) UpdateContext(c TripContext) {
	a.mu.Lock()
	if c.Daylight.SunriseISO != "" {
		a.context.Daylight.SunriseISO = c.Daylight.SunriseISO
	}
	if c.Daylight.SunsetISO != "" {
		a.context.Daylight.SunsetISO = c.Daylight.SunsetISO
	}
	if c.DetourLimitMin != 0 {
		a.context.DetourLimitMin = c.DetourLimitMin
	}
	if c.Locale != "" {
		a.context.Locale = c.Locale
	}
	if c.Units != "" {
		a.context.Units = c.Units
	}
	a.mu.Unlock()
	a.notify()
}

// PushAction prepends an action to the bounded history.
func (a *App) PushAction(action string) {
	a.mu.Lock()
	a.pushActionLocked(action)
	a.mu.Unlock()
	a.notify()
}

func (a *App) pushActionLocked(action string) {
	actions := append([]string{action}, a.actions...)
	if len(actions) > actionHistoryLimit {
		actions = actions[:actionHistoryLimit]
	}
	a.actions = actions
}

// ---- reads ----

func (a *App) CurrentRoute() *client.RoutePlan {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentRoute
}

func (a *App) UserLocation() *client.LatLng {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.userLocation == nil {
		return nil
	}
	l := *a.userLocation
	return &l
}

func (a *App) Prefs() Prefs {
	a.mu.Lock()
	defer a.mu.Unlock()
	p := a.prefs
	p.ModePriority = append([]string(nil), a.prefs.ModePriority...)
	return p
}

func (a *App) Actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.actions...)
}

func (a *App) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

func (a *App) LastError() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// UIState returns a consistent snapshot of the container.
func (a *App) UIState() UIState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return UIState{
		Origin:          a.origin,
		Home:            a.home,
		DestinationHint: a.destinationHint,
		CurrentRoute:    a.currentRoute,
		UserLocation:    a.userLocation,
		Prefs:           a.prefs,
		Time:            a.time,
		Context:         a.context,
		DebugLimits:     a.debugLimits,
		ButtonsPressed:  append([]string(nil), a.actions...),
		Loading:         a.loading,
		Error:           a.lastErr,
	}
}

// ---- operations ----

// AcquireLocation asks the platform for the current position. A locator
// failure is non-fatal: the fixed fallback is stored and returned with
// SourceFallback. Only a missing capability (nil locator) errors, so
// callers can tell "no capability" from "user declined or timed out".
func (a *App) AcquireLocation(ctx context.Context) (client.LatLng, locate.Source, error) {
	if a.locator == nil {
		return client.LatLng{}, locate.SourceFallback, locate.ErrNoLocator
	}
	loc, err := a.locator.Current(ctx)
	if err != nil {
		log.Warn().Err(err).
			Float64("fallback_lat", locate.DefaultFallback.Lat).
			Float64("fallback_lng", locate.DefaultFallback.Lng).
			Msg("geolocation failed, using fallback")
		a.SetUserLocation(locate.DefaultFallback)
		return locate.DefaultFallback, locate.SourceFallback, nil
	}
	a.SetUserLocation(loc)
	return loc, locate.SourceDevice, nil
}

// PlanRoute sends the free-text query to the planner together with the
// resolved location and derived preferences. If a route is already
// loaded, its context goes along so the backend modifies it instead of
// replanning. The loading flag is cleared on every exit path.
func (a *App) PlanRoute(ctx context.Context, query string) (*client.PlanRouteResponse, error) {
	a.mu.Lock()
	a.loading = true
	a.lastErr = ""

	location := locate.DefaultFallback
	if a.userLocation != nil && a.userLocation.Valid() {
		location = *a.userLocation
	} else {
		log.Warn().
			Float64("lat", location.Lat).
			Float64("lng", location.Lng).
			Msg("no user location, using fallback")
	}

	req := client.PlanRouteRequest{
		Query:        query,
		UserLocation: location,
		Preferences:  derivePreferences(a.prefs),
		CurrentRoute: client.ContextOf(a.currentRoute),
	}
	a.mu.Unlock()
	a.notify()

	if a.token != nil {
		req.SessionToken = a.token()
	}

	resp, err := a.gw.PlanRoute(ctx, req)
	if err == nil && resp.Route == nil {
		err = ErrNoRoute
	}

	a.mu.Lock()
	a.loading = false
	if err != nil {
		a.lastErr = err.Error()
	} else {
		a.currentRoute = resp.Route
		a.pushActionLocked("plan_route")
	}
	a.mu.Unlock()
	a.notify()

	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("plan route failed")
		return nil, err
	}
	return resp, nil
}

// Orchestrate sends the current UI state snapshot and the triggering
// action to the backend orchestrator. On success the action joins the
// recent-action history; the loading flag is cleared on every exit path.
func (a *App) Orchestrate(ctx context.Context, action string) (json.RawMessage, error) {
	a.mu.Lock()
	a.loading = true
	a.lastErr = ""
	a.mu.Unlock()
	a.notify()

	state := a.UIState()
	resp, err := a.gw.Orchestrate(ctx, state, action)

	a.mu.Lock()
	a.loading = false
	if err != nil {
		a.lastErr = err.Error()
	} else {
		a.pushActionLocked(action)
	}
	a.mu.Unlock()
	a.notify()

	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("orchestrate failed")
		return nil, err
	}
	return resp, nil
}

// derivePreferences translates the UI preference record into the planner
// shape. The translation is one-way: duration collapses to whole hours
// (rounded up) and the avoidance flags collapse to a key list.
func derivePreferences(p Prefs) client.RoutePreferences {
	out := client.RoutePreferences{
		TransportModes: append([]string(nil), DefaultModePriority...),
		Avoid:          []string{},
		Accessibility:  p.Accessibility,
	}
	if p.MinHikeMinutes > 0 {
		hours := (p.MinHikeMinutes + 59) / 60
		out.Duration = &hours
	}
	if len(p.ModePriority) > 0 {
		out.TransportModes = append([]string(nil), p.ModePriority...)
	}
	if p.Avoid.Tolls {
		out.Avoid = append(out.Avoid, "tolls")
	}
	if p.Avoid.Highways {
		out.Avoid = append(out.Avoid, "highways")
	}
	return out
}
