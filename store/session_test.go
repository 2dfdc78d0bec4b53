package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trailhead/trailhead-go/client"
	"github.com/trailhead/trailhead-go/store/keystore"
)

// fakeAccountAPI replays canned results and counts calls per operation.
type fakeAccountAPI struct {
	registerResp *client.RegisterResponse
	registerErr  error
	loginResp    *client.LoginResponse
	loginErr     error
	authResp     *client.AuthenticateResponse
	authErr      error
	logoutErr    error
	profileResp  *client.UserProfile
	profileErr   error
	dataResp     *client.GetProfileResponse
	dataErr      error
	updateErr    error
	passwordErr  error
	visErr       error
	statsResp    *client.UserStats
	statsErr     error

	authCalls   int
	logoutCalls int
	lastVis     client.VisibilitySettings
	visCalls    int
}

func (f *fakeAccountAPI) Register(context.Context, string, string, string) (*client.RegisterResponse, error) {
	return f.registerResp, f.registerErr
}

func (f *fakeAccountAPI) Login(context.Context, string, string) (*client.LoginResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAccountAPI) Authenticate(context.Context, string) (*client.AuthenticateResponse, error) {
	f.authCalls++
	return f.authResp, f.authErr
}

func (f *fakeAccountAPI) Logout(context.Context, string) error {
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeAccountAPI) UpdatePassword(context.Context, string, string, string, string) error {
	return f.passwordErr
}

func (f *fakeAccountAPI) GetUserProfile(context.Context, string, string) (*client.UserProfile, error) {
	return f.profileResp, f.profileErr
}

func (f *fakeAccountAPI) GetProfile(context.Context, string, string) (*client.GetProfileResponse, error) {
	return f.dataResp, f.dataErr
}

func (f *fakeAccountAPI) UpdateProfile(context.Context, string, string, client.ProfileUpdate) error {
	return f.updateErr
}

func (f *fakeAccountAPI) SetVisibility(_ context.Context, _, _ string, v client.VisibilitySettings) error {
	f.visCalls++
	if f.visErr != nil {
		return f.visErr
	}
	f.lastVis = v
	return nil
}

func (f *fakeAccountAPI) GetUserStats(context.Context, string, string) (*client.UserStats, error) {
	return f.statsResp, f.statsErr
}

func happyAccountAPI() *fakeAccountAPI {
	return &fakeAccountAPI{
		registerResp: &client.RegisterResponse{UserID: "u1"},
		loginResp:    &client.LoginResponse{SessionToken: "t1", UserID: "u1"},
		authResp:     &client.AuthenticateResponse{UserID: "u1"},
		profileResp:  &client.UserProfile{UserID: "u1", Username: "alice"},
		dataResp:     &client.GetProfileResponse{Profile: &client.Profile{DisplayName: "Trail Alice"}},
	}
}

func TestSession_Login(t *testing.T) {
	gw := happyAccountAPI()
	ks := keystore.NewMemStore()
	s := NewSession(gw, ks)

	require.NoError(t, s.Login(context.Background(), "alice", "pw"))

	require.True(t, s.IsAuthenticated())
	require.Equal(t, "t1", s.SessionToken())
	require.Equal(t, "u1", s.UserID())
	require.Equal(t, "alice", s.UserProfile().Username)
	require.Equal(t, "Trail Alice", s.ProfileData().DisplayName)
	require.False(t, s.Loading())

	tok, _ := ks.Get(context.Background(), KeySessionToken)
	require.Equal(t, "t1", tok)
	uid, _ := ks.Get(context.Background(), KeyUserID)
	require.Equal(t, "u1", uid)
}

func TestSession_Login_Failure(t *testing.T) {
	gw := happyAccountAPI()
	gw.loginErr = &client.APIError{Status: 200, Message: "invalid credentials"}
	s := NewSession(gw, keystore.NewMemStore())

	err := s.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	require.False(t, s.IsAuthenticated())
	require.Equal(t, "invalid credentials", s.LastError())
	require.False(t, s.Loading())
}

func TestSession_Login_NilProfileIsNotAnError(t *testing.T) {
	gw := happyAccountAPI()
	gw.dataResp = &client.GetProfileResponse{Profile: nil}
	s := NewSession(gw, keystore.NewMemStore())

	require.NoError(t, s.Login(context.Background(), "alice", "pw"))
	require.Nil(t, s.ProfileData())
	require.True(t, s.IsAuthenticated())
}

func TestSession_Register_AutoLogin(t *testing.T) {
	gw := happyAccountAPI()
	s := NewSession(gw, keystore.NewMemStore())

	resp, err := s.Register(context.Background(), "alice", "pw", "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, "u1", resp.UserID)
	require.True(t, s.IsAuthenticated(), "registration must auto-login")
}

func TestSession_Register_LoginStepFails(t *testing.T) {
	gw := happyAccountAPI()
	gw.loginErr = errors.New("backend down")
	s := NewSession(gw, keystore.NewMemStore())

	_, err := s.Register(context.Background(), "alice", "pw", "alice@example.com")
	require.Error(t, err)
	require.False(t, s.IsAuthenticated())
	require.False(t, s.Loading())
}

func TestSession_Logout_ClearsEverything(t *testing.T) {
	gw := happyAccountAPI()
	ks := keystore.NewMemStore()
	s := NewSession(gw, ks)
	require.NoError(t, s.Login(context.Background(), "alice", "pw"))
	require.NotZero(t, ks.Len())

	s.Logout(context.Background())

	require.False(t, s.IsAuthenticated())
	require.Empty(t, s.SessionToken())
	require.Empty(t, s.UserID())
	require.Nil(t, s.UserProfile())
	require.Nil(t, s.ProfileData())
	require.Nil(t, s.Stats())
	require.Zero(t, ks.Len(), "all durable keys must be cleared")
	require.Equal(t, 1, gw.logoutCalls)
}

func TestSession_Logout_BackendFailureStillClears(t *testing.T) {
	gw := happyAccountAPI()
	gw.logoutErr = errors.New("backend down")
	ks := keystore.NewMemStore()
	s := NewSession(gw, ks)
	require.NoError(t, s.Login(context.Background(), "alice", "pw"))

	s.Logout(context.Background())

	require.False(t, s.IsAuthenticated())
	require.Zero(t, ks.Len())
}

func TestSession_ValidateSession_NoToken(t *testing.T) {
	gw := happyAccountAPI()
	s := NewSession(gw, keystore.NewMemStore())

	require.False(t, s.ValidateSession(context.Background()))
	require.Zero(t, gw.authCalls, "no network call without a token")
}

func TestSession_ValidateSession_InvalidTokenLogsOut(t *testing.T) {
	gw := happyAccountAPI()
	ks := keystore.NewMemStore()
	s := NewSession(gw, ks)
	require.NoError(t, s.Login(context.Background(), "alice", "pw"))

	gw.authErr = &client.APIError{Status: 200, Message: "invalid session"}
	require.False(t, s.ValidateSession(context.Background()))
	require.Empty(t, s.SessionToken(), "invalid session must not linger in memory")
	require.Zero(t, ks.Len(), "invalid session must not linger in storage")
}

func TestSession_UpdateVisibility_MergesOverFullSet(t *testing.T) {
	gw := happyAccountAPI()
	s := NewSession(gw, keystore.NewMemStore())
	require.NoError(t, s.Login(context.Background(), "alice", "pw"))

	on := true
	require.NoError(t, s.UpdateVisibility(context.Background(), VisibilityPatch{ShowLiveLocation: &on}))

	// The wire payload carries the complete set: the toggled flag plus the
	// previous values of the other three.
	require.True(t, gw.lastVis.ShowLiveLocation)
	require.Equal(t, "public", gw.lastVis.ProfileVisibility)
	require.True(t, gw.lastVis.ShareStats)
	require.False(t, gw.lastVis.ShareHomeLocation)
	require.True(t, s.IsLiveHiking())
}

func TestSession_UpdateVisibility_BackendFailureKeepsOldSettings(t *testing.T) {
	gw := happyAccountAPI()
	s := NewSession(gw, keystore.NewMemStore())
	require.NoError(t, s.Login(context.Background(), "alice", "pw"))

	gw.visErr = errors.New("backend down")
	on := true
	require.Error(t, s.UpdateVisibility(context.Background(), VisibilityPatch{ShowLiveLocation: &on}))
	require.False(t, s.IsLiveHiking(), "settings persist only after backend success")
}

func TestSession_UpdateVisibility_NotAuthenticated(t *testing.T) {
	gw := happyAccountAPI()
	s := NewSession(gw, keystore.NewMemStore())

	on := true
	err := s.UpdateVisibility(context.Background(), VisibilityPatch{ShowLiveLocation: &on})
	require.ErrorIs(t, err, ErrNotAuthenticated)
	require.Zero(t, gw.visCalls)
}

func TestSession_StartStopLiveHiking(t *testing.T) {
	gw := happyAccountAPI()
	s := NewSession(gw, keystore.NewMemStore())
	require.NoError(t, s.Login(context.Background(), "alice", "pw"))

	require.NoError(t, s.StartLiveHiking(context.Background()))
	require.True(t, s.IsLiveHiking())

	require.NoError(t, s.StopLiveHiking(context.Background()))
	require.False(t, s.IsLiveHiking())
}

func TestSession_UpdateProfile_RefreshesProfileData(t *testing.T) {
	gw := happyAccountAPI()
	s := NewSession(gw, keystore.NewMemStore())
	require.NoError(t, s.Login(context.Background(), "alice", "pw"))

	gw.dataResp = &client.GetProfileResponse{Profile: &client.Profile{DisplayName: "Renamed"}}
	require.NoError(t, s.UpdateProfile(context.Background(), client.ProfileUpdate{DisplayName: "Renamed"}))
	require.Equal(t, "Renamed", s.ProfileData().DisplayName)
}

func TestSession_UpdatePassword_RequiresAuth(t *testing.T) {
	s := NewSession(happyAccountAPI(), keystore.NewMemStore())
	err := s.UpdatePassword(context.Background(), "old", "new")
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestSession_Initialize_RestoresPersistedSession(t *testing.T) {
	gw := happyAccountAPI()
	ks := keystore.NewMemStore()
	ctx := context.Background()
	require.NoError(t, ks.Set(ctx, KeySessionToken, "t1"))
	require.NoError(t, ks.Set(ctx, KeyUserID, "u1"))

	s := NewSession(gw, ks)
	restored, err := s.Initialize(ctx)
	require.NoError(t, err)
	require.True(t, restored)
	require.True(t, s.IsAuthenticated())
	require.Equal(t, "alice", s.UserProfile().Username)
}

func TestSession_Initialize_NothingPersisted(t *testing.T) {
	gw := happyAccountAPI()
	s := NewSession(gw, keystore.NewMemStore())

	restored, err := s.Initialize(context.Background())
	require.NoError(t, err)
	require.False(t, restored)
	require.Zero(t, gw.authCalls, "no validation without a stored session")
}

func TestSession_Initialize_StaleSession(t *testing.T) {
	gw := happyAccountAPI()
	gw.authErr = &client.APIError{Status: 401, Message: "HTTP error: status 401"}
	ks := keystore.NewMemStore()
	ctx := context.Background()
	require.NoError(t, ks.Set(ctx, KeySessionToken, "stale"))
	require.NoError(t, ks.Set(ctx, KeyUserID, "u1"))

	s := NewSession(gw, ks)
	restored, err := s.Initialize(ctx)
	require.NoError(t, err)
	require.False(t, restored)
	require.False(t, s.IsAuthenticated())
	require.Zero(t, ks.Len())
}

func TestSession_FetchProfileData_NoopWhenUnauthenticated(t *testing.T) {
	gw := happyAccountAPI()
	s := NewSession(gw, keystore.NewMemStore())

	require.NoError(t, s.FetchProfileData(context.Background()))
	require.Nil(t, s.ProfileData())
}

func TestSession_PersistFailuresAreSwallowed(t *testing.T) {
	gw := happyAccountAPI()
	s := NewSession(gw, failingStore{})

	// In-memory state stays authoritative even when persistence fails.
	require.NoError(t, s.Login(context.Background(), "alice", "pw"))
	require.True(t, s.IsAuthenticated())
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) {
	return "", errors.New("disk gone")
}
func (failingStore) Set(context.Context, string, string) error { return errors.New("disk gone") }
func (failingStore) Delete(context.Context, string) error      { return errors.New("disk gone") }
func (failingStore) Clear(context.Context) error               { return errors.New("disk gone") }
