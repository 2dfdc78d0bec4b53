package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_SetVisibility_SendsCompleteSet(t *testing.T) {
	var got map[string]interface{}
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/profile/setVisibility" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer hs.Close()

	c := New(hs.URL)
	v := DefaultVisibility()
	v.ShowLiveLocation = true
	if err := c.SetVisibility(context.Background(), "t1", "u1", v); err != nil {
		t.Fatalf("SetVisibility returned error: %v", err)
	}

	// All four flags must always be on the wire, not just the changed one.
	for _, field := range []string{"showLiveLocation", "profileVisibility", "shareStats", "shareHomeLocation"} {
		if _, ok := got[field]; !ok {
			t.Fatalf("payload missing %s: %v", field, got)
		}
	}
	if got["showLiveLocation"] != true || got["profileVisibility"] != "public" {
		t.Fatalf("unexpected payload %v", got)
	}
}

func TestClient_GetProfile_NoProfileYet(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"profile":null}`))
	}))
	defer hs.Close()

	c := New(hs.URL)
	resp, err := c.GetProfile(context.Background(), "t1", "u1")
	if err != nil {
		t.Fatalf("GetProfile returned error: %v", err)
	}
	if resp.Profile != nil {
		t.Fatalf("expected nil profile, got %+v", resp.Profile)
	}
}

func TestClient_UpdateProfile_FlattensFields(t *testing.T) {
	var got map[string]interface{}
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/profile/updateProfile" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer hs.Close()

	c := New(hs.URL)
	err := c.UpdateProfile(context.Background(), "t1", "u1", ProfileUpdate{DisplayName: "Trail Alice", Bio: "peak bagger"})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	// Session fields and profile fields share one flat object.
	if got["sessionToken"] != "t1" || got["displayName"] != "Trail Alice" || got["bio"] != "peak bagger" {
		t.Fatalf("unexpected payload %v", got)
	}
}

func TestClient_GetNearbyActiveHikers_GeoJSONPoint(t *testing.T) {
	var got struct {
		Location GeoPoint `json:"location"`
	}
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"hikers":[{"userId":"u2","displayName":"Bob"}]}`))
	}))
	defer hs.Close()

	c := New(hs.URL)
	hikers, err := c.GetNearbyActiveHikers(context.Background(), "t1", "u1", LatLng{Lat: 42.36, Lng: -71.05}, 5)
	if err != nil {
		t.Fatalf("GetNearbyActiveHikers returned error: %v", err)
	}
	if len(hikers) != 1 || hikers[0].UserID != "u2" {
		t.Fatalf("unexpected hikers %+v", hikers)
	}
	if got.Location.Type != "Point" {
		t.Fatalf("location type = %q", got.Location.Type)
	}
	// GeoJSON orders coordinates lng first.
	if got.Location.Coordinates[0] != -71.05 || got.Location.Coordinates[1] != 42.36 {
		t.Fatalf("coordinates = %v", got.Location.Coordinates)
	}
}
