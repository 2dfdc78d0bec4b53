package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_GetUserStats(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/userHistory/getUserStats" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"stats":{"totalHikes":4,"totalDistanceKm":31.5}}`))
	}))
	defer hs.Close()

	c := New(hs.URL)
	stats, err := c.GetUserStats(context.Background(), "t1", "u1")
	if err != nil {
		t.Fatalf("GetUserStats returned error: %v", err)
	}
	if stats.TotalHikes != 4 || stats.TotalDistanceKm != 31.5 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestClient_GetUserHistory_LimitOnWire(t *testing.T) {
	var got historyRequest
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"history":[{"activityId":"a1","userId":"u1","type":"hike"}]}`))
	}))
	defer hs.Close()

	c := New(hs.URL)
	entries, err := c.GetUserHistory(context.Background(), "t1", "u1", 10)
	if err != nil {
		t.Fatalf("GetUserHistory returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].ActivityID != "a1" {
		t.Fatalf("unexpected entries %+v", entries)
	}
	if got.Limit != 10 || got.SessionToken != "t1" {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestClient_RecordActivity(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/userHistory/recordActivity" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer hs.Close()

	c := New(hs.URL)
	err := c.RecordActivity(context.Background(), RecordActivityRequest{
		SessionToken: "t1", UserID: "u1", Type: "hike", DurationMin: 95, DistanceKm: 7.2,
	})
	if err != nil {
		t.Fatalf("RecordActivity returned error: %v", err)
	}
}

func TestClient_GetPublicFeed(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"feed":[{"userId":"u2","type":"hike_completed"}]}`))
	}))
	defer hs.Close()

	c := New(hs.URL)
	feed, err := c.GetPublicFeed(context.Background(), "t1", "u1", 20)
	if err != nil {
		t.Fatalf("GetPublicFeed returned error: %v", err)
	}
	if len(feed) != 1 || feed[0].Type != "hike_completed" {
		t.Fatalf("unexpected feed %+v", feed)
	}
}
