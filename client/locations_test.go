package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_SearchLocations(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/UnifiedRouting/searchLocations" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"name":"Blue Hills Reservation","location":{"lat":42.21,"lng":-71.09}}]}`))
	}))
	defer hs.Close()

	c := New(hs.URL)
	results, err := c.SearchLocations(context.Background(), "blue hills", LatLng{Lat: 42.36, Lng: -71.05}, 5)
	if err != nil {
		t.Fatalf("SearchLocations returned error: %v", err)
	}
	if len(results) != 1 || results[0].Name != "Blue Hills Reservation" {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestClient_GeocodeAddress(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/LocationSearch/geocodeAddress" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"name":"695 Hillside St","address":"695 Hillside St, Milton, MA","location":{"lat":42.21,"lng":-71.08}}]}`))
	}))
	defer hs.Close()

	c := New(hs.URL)
	results, err := c.GeocodeAddress(context.Background(), "695 Hillside St", 1)
	if err != nil {
		t.Fatalf("GeocodeAddress returned error: %v", err)
	}
	if len(results) != 1 || results[0].Location.Lat != 42.21 {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestClient_ReverseGeocode(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/LocationSearch/reverseGeocode" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"name":"Park HQ","address":"695 Hillside St","location":{"lat":42.21,"lng":-71.08}}`))
	}))
	defer hs.Close()

	c := New(hs.URL)
	result, err := c.ReverseGeocode(context.Background(), LatLng{Lat: 42.21, Lng: -71.08})
	if err != nil {
		t.Fatalf("ReverseGeocode returned error: %v", err)
	}
	if result.Name != "Park HQ" {
		t.Fatalf("unexpected result %+v", result)
	}
}
