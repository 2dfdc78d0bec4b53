package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/trailhead/trailhead-go/client"
	"github.com/trailhead/trailhead-go/store/keystore"
)

// Durable storage keys. Loading reads each independently; clearing
// removes all five.
const (
	KeySessionToken = "sessionToken"
	KeyUserID       = "userId"
	KeyUserProfile  = "userProfile"
	KeyProfileData  = "profileData"
	KeyVisibility   = "visibilitySettings"
)

// AccountAPI is the slice of the gateway the session container uses.
// *client.Client satisfies it; tests substitute fakes.
type AccountAPI interface {
	Register(ctx context.Context, username, password, email string) (*client.RegisterResponse, error)
	Login(ctx context.Context, username, password string) (*client.LoginResponse, error)
	Authenticate(ctx context.Context, sessionToken string) (*client.AuthenticateResponse, error)
	Logout(ctx context.Context, sessionToken string) error
	UpdatePassword(ctx context.Context, sessionToken, userID, oldPassword, newPassword string) error
	GetUserProfile(ctx context.Context, sessionToken, userID string) (*client.UserProfile, error)
	GetProfile(ctx context.Context, sessionToken, userID string) (*client.GetProfileResponse, error)
	UpdateProfile(ctx context.Context, sessionToken, userID string, p client.ProfileUpdate) error
	SetVisibility(ctx context.Context, sessionToken, userID string, v client.VisibilitySettings) error
	GetUserStats(ctx context.Context, sessionToken, userID string) (*client.UserStats, error)
}

// VisibilityPatch applies a partial visibility update; nil fields keep
// the current value. The merged result is always sent in full because
// the backend has no partial update.
type VisibilityPatch struct {
	ShowLiveLocation  *bool
	ProfileVisibility *string
	ShareStats        *bool
	ShareHomeLocation *bool
}

// Session owns the authentication lifecycle, profile data, visibility
// settings, and their durable caching. In-memory state is authoritative
// for the running session; the keystore is a best-effort mirror whose
// failures are logged and swallowed.
type Session struct {
	notifier

	gw AccountAPI
	ks keystore.Store

	mu          sync.Mutex
	token       string
	userID      string
	userProfile *client.UserProfile
	profileData *client.Profile
	visibility  client.VisibilitySettings
	stats       *client.UserStats
	loading     bool
	lastErr     string
}

// NewSession constructs a session container bound to a gateway and a
// durable store.
func NewSession(gw AccountAPI, ks keystore.Store) *Session {
	return &Session{
		gw:         gw,
		ks:         ks,
		visibility: client.DefaultVisibility(),
	}
}

// ---- derived reads ----

func (s *Session) SessionToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// IsAuthenticated holds exactly when both token and user id are present.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && s.userID != ""
}

// IsLiveHiking mirrors the location-sharing flag.
func (s *Session) IsLiveHiking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibility.ShowLiveLocation
}

func (s *Session) UserProfile() *client.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userProfile
}

func (s *Session) ProfileData() *client.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileData
}

func (s *Session) Visibility() client.VisibilitySettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibility
}

func (s *Session) Stats() *client.UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// SetError records a message for UI display.
func (s *Session) SetError(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
	s.notify()
}

// ClearError clears the last error message.
func (s *Session) ClearError() { s.SetError("") }

// ---- persistence helpers (best effort, failures swallowed) ----

func (s *Session) saveLocal(ctx context.Context) {
	s.mu.Lock()
	token, userID := s.token, s.userID
	userProfile, profileData := s.userProfile, s.profileData
	visibility := s.visibility
	s.mu.Unlock()

	set := func(key, value string) {
		if value == "" {
			return
		}
		if err := s.ks.Set(ctx, key, value); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("state persist failed")
		}
	}
	set(KeySessionToken, token)
	set(KeyUserID, userID)
	set(KeyUserProfile, marshalOrEmpty(userProfile))
	set(KeyProfileData, marshalOrEmpty(profileData))
	set(KeyVisibility, marshalOrEmpty(visibility))
}

func (s *Session) clearLocal(ctx context.Context) {
	for _, key := range []string{KeySessionToken, KeyUserID, KeyUserProfile, KeyProfileData, KeyVisibility} {
		if err := s.ks.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("state clear failed")
		}
	}
}

// loadLocal restores persisted fields, leaving unset keys at defaults.
// Returns true when a complete session (token and user id) was found.
func (s *Session) loadLocal(ctx context.Context) bool {
	get := func(key string) string {
		v, err := s.ks.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("state load failed")
			return ""
		}
		return v
	}
	token := get(KeySessionToken)
	userID := get(KeyUserID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != "" {
		s.token = token
	}
	if userID != "" {
		s.userID = userID
	}
	if raw := get(KeyUserProfile); raw != "" {
		var p client.UserProfile
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			s.userProfile = &p
		}
	}
	if raw := get(KeyProfileData); raw != "" {
		var p client.Profile
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			s.profileData = &p
		}
	}
	if raw := get(KeyVisibility); raw != "" {
		var v client.VisibilitySettings
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			s.visibility = v
		}
	}
	return token != "" && userID != ""
}

func marshalOrEmpty(v interface{}) string {
	switch t := v.(type) {
	case *client.UserProfile:
		if t == nil {
			return ""
		}
	case *client.Profile:
		if t == nil {
			return ""
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}

// ---- flows ----

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
	s.notify()
}

func (s *Session) fail(op string, err error) error {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
	s.notify()
	log.Error().Err(err).Str("operation", op).Msg("session action failed")
	return err
}

// Register creates the account, then immediately logs in with the same
// credentials (registration alone grants no session), persists the
// session, and fetches both profiles. Any failing step aborts the flow.
func (s *Session) Register(ctx context.Context, username, password, email string) (*client.RegisterResponse, error) {
	s.setLoading(true)
	s.ClearError()
	defer s.setLoading(false)

	resp, err := s.gw.Register(ctx, username, password, email)
	if err != nil {
		return nil, s.fail("register", err)
	}
	if resp.UserID == "" {
		return nil, s.fail("register", fmt.Errorf("register returned no user id"))
	}
	if err := s.adoptLogin(ctx, username, password); err != nil {
		return nil, s.fail("register", err)
	}
	return resp, nil
}

// Login exchanges credentials for a session, persists it, and fetches
// both profiles.
func (s *Session) Login(ctx context.Context, username, password string) error {
	s.setLoading(true)
	s.ClearError()
	defer s.setLoading(false)

	if err := s.adoptLogin(ctx, username, password); err != nil {
		return s.fail("login", err)
	}
	return nil
}

func (s *Session) adoptLogin(ctx context.Context, username, password string) error {
	resp, err := s.gw.Login(ctx, username, password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = resp.SessionToken
	s.userID = resp.UserID
	s.mu.Unlock()
	s.notify()

	s.saveLocal(ctx)

	if err := s.FetchUserProfile(ctx); err != nil {
		return err
	}
	return s.FetchProfileData(ctx)
}

// Logout notifies the backend (best effort) and unconditionally clears
// every session field from memory and durable storage.
func (s *Session) Logout(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token != "" {
		if err := s.gw.Logout(ctx, token); err != nil {
			log.Warn().Err(err).Msg("backend logout failed, clearing local state anyway")
		}
	}

	s.mu.Lock()
	s.token = ""
	s.userID = ""
	s.userProfile = nil
	s.profileData = nil
	s.stats = nil
	s.lastErr = ""
	s.mu.Unlock()
	s.notify()

	s.clearLocal(ctx)
}

// ValidateSession checks the held token against the backend. With no
// token it reports invalid without a network call. An invalid or expired
// token triggers a full logout, so a stale session never lingers.
func (s *Session) ValidateSession(ctx context.Context) bool {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()
	if token == "" {
		return false
	}

	resp, err := s.gw.Authenticate(ctx, token)
	if err != nil || resp == nil || resp.UserID == "" {
		if err != nil {
			log.Warn().Err(err).Msg("session validation failed")
		}
		s.Logout(ctx)
		return false
	}

	s.mu.Lock()
	s.userID = resp.UserID
	s.mu.Unlock()
	s.notify()
	return true
}

// FetchUserProfile loads the account-level record. No-op when not
// authenticated.
func (s *Session) FetchUserProfile(ctx context.Context) error {
	s.mu.Lock()
	token, userID := s.token, s.userID
	s.mu.Unlock()
	if token == "" || userID == "" {
		return nil
	}

	profile, err := s.gw.GetUserProfile(ctx, token, userID)
	if err != nil {
		return s.fail("fetch_user_profile", err)
	}

	s.mu.Lock()
	s.userProfile = profile
	s.mu.Unlock()
	s.notify()

	s.saveLocal(ctx)
	return nil
}

// FetchProfileData loads the display profile and stats. No-op when not
// authenticated. A backend response with no profile is not an error: the
// user simply has no profile yet.
func (s *Session) FetchProfileData(ctx context.Context) error {
	s.mu.Lock()
	token, userID := s.token, s.userID
	s.mu.Unlock()
	if token == "" || userID == "" {
		return nil
	}

	resp, err := s.gw.GetProfile(ctx, token, userID)
	if err != nil {
		return s.fail("fetch_profile_data", err)
	}

	s.mu.Lock()
	if resp.Profile != nil {
		s.profileData = resp.Profile
	}
	if resp.Stats != nil {
		s.stats = resp.Stats
	}
	s.mu.Unlock()
	s.notify()

	s.saveLocal(ctx)
	return nil
}

// FetchUserStats loads aggregate stats. No-op when not authenticated.
func (s *Session) FetchUserStats(ctx context.Context) (*client.UserStats, error) {
	s.mu.Lock()
	token, userID := s.token, s.userID
	s.mu.Unlock()
	if token == "" || userID == "" {
		return nil, nil
	}

	stats, err := s.gw.GetUserStats(ctx, token, userID)
	if err != nil {
		return nil, s.fail("fetch_user_stats", err)
	}

	s.mu.Lock()
	s.stats = stats
	s.mu.Unlock()
	s.notify()
	return stats, nil
}

// UpdateProfile edits the display profile, then refreshes it.
func (s *Session) UpdateProfile(ctx context.Context, updates client.ProfileUpdate) error {
	s.setLoading(true)
	s.ClearError()
	defer s.setLoading(false)

	s.mu.Lock()
	token, userID := s.token, s.userID
	s.mu.Unlock()
	if token == "" || userID == "" {
		return s.fail("update_profile", ErrNotAuthenticated)
	}

	if err := s.gw.UpdateProfile(ctx, token, userID, updates); err != nil {
		return s.fail("update_profile", err)
	}
	return s.FetchProfileData(ctx)
}

// UpdatePassword changes the account password.
func (s *Session) UpdatePassword(ctx context.Context, oldPassword, newPassword string) error {
	s.setLoading(true)
	s.ClearError()
	defer s.setLoading(false)

	s.mu.Lock()
	token, userID := s.token, s.userID
	s.mu.Unlock()
	if token == "" || userID == "" {
		return s.fail("update_password", ErrNotAuthenticated)
	}

	if err := s.gw.UpdatePassword(ctx, token, userID, oldPassword, newPassword); err != nil {
		return s.fail("update_password", err)
	}
	return nil
}

// UpdateVisibility merges the partial settings over the full current set
// and sends the complete four-field record; the backend has no partial
// update. The merged result is stored and persisted only after the
// backend accepts it.
func (s *Session) UpdateVisibility(ctx context.Context, patch VisibilityPatch) error {
	s.setLoading(true)
	s.ClearError()
	defer s.setLoading(false)

	s.mu.Lock()
	token, userID := s.token, s.userID
	merged := s.visibility
	s.mu.Unlock()
	if token == "" || userID == "" {
		return s.fail("update_visibility", ErrNotAuthenticated)
	}

	if patch.ShowLiveLocation != nil {
		merged.ShowLiveLocation = *patch.ShowLiveLocation
	}
	if patch.ProfileVisibility != nil {
		merged.ProfileVisibility = *patch.ProfileVisibility
	}
	if patch.ShareStats != nil {
		merged.ShareStats = *patch.ShareStats
	}
	if patch.ShareHomeLocation != nil {
		merged.ShareHomeLocation = *patch.ShareHomeLocation
	}

	if err := s.gw.SetVisibility(ctx, token, userID, merged); err != nil {
		return s.fail("update_visibility", err)
	}

	s.mu.Lock()
	s.visibility = merged
	s.mu.Unlock()
	s.notify()

	s.saveLocal(ctx)
	return nil
}

// StartLiveHiking enables live location sharing.
func (s *Session) StartLiveHiking(ctx context.Context) error {
	on := true
	return s.UpdateVisibility(ctx, VisibilityPatch{ShowLiveLocation: &on})
}

// StopLiveHiking disables live location sharing.
func (s *Session) StopLiveHiking(ctx context.Context) error {
	off := false
	return s.UpdateVisibility(ctx, VisibilityPatch{ShowLiveLocation: &off})
}

// Initialize reconciles the durable cache with backend truth at startup:
// load a persisted session if any, validate it remotely, and refresh
// profiles when valid. Reports whether a session was restored.
func (s *Session) Initialize(ctx context.Context) (bool, error) {
	if !s.loadLocal(ctx) {
		return false, nil
	}
	if !s.ValidateSession(ctx) {
		return false, nil
	}
	if err := s.FetchUserProfile(ctx); err != nil {
		return true, err
	}
	if err := s.FetchProfileData(ctx); err != nil {
		return true, err
	}
	return true, nil
}
