package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Health(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer hs.Close()

	c := New(hs.URL)
	if !c.Health(context.Background()) {
		t.Fatal("expected healthy backend")
	}
}

func TestClient_Health_ServerError(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer hs.Close()

	c := New(hs.URL)
	if c.Health(context.Background()) {
		t.Fatal("expected unhealthy backend on 500")
	}
}

func TestClient_Health_TransportFailure(t *testing.T) {
	// Closed server: the transport errors, health must report false, not panic.
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	hs.Close()

	c := New(hs.URL)
	if c.Health(context.Background()) {
		t.Fatal("expected unhealthy backend on transport failure")
	}
}

func TestCheckResponse_StatusError(t *testing.T) {
	err := checkResponse(http.StatusUnauthorized, nil)
	if err == nil {
		t.Fatal("expected error for 401")
	}
	if got, want := err.Error(), "HTTP error: status 401"; got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
}

func TestCheckResponse_BodyErrorOn200(t *testing.T) {
	err := checkResponse(http.StatusOK, []byte(`{"error":"invalid credentials"}`))
	if err == nil {
		t.Fatal("expected error for 200 body with error field")
	}
	if err.Message != "invalid credentials" {
		t.Fatalf("message = %q", err.Message)
	}
}

func TestCheckResponse_BackendMessageWinsOverStatus(t *testing.T) {
	err := checkResponse(http.StatusBadRequest, []byte(`{"error":"username taken"}`))
	if err == nil || err.Message != "username taken" {
		t.Fatalf("err = %v", err)
	}
	if err.Status != http.StatusBadRequest {
		t.Fatalf("status = %d", err.Status)
	}
}

func TestCheckResponse_Success(t *testing.T) {
	if err := checkResponse(http.StatusOK, []byte(`{"userId":"u1"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Non-JSON 2xx bodies are fine too.
	if err := checkResponse(http.StatusOK, []byte("pong")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Post_TransportError(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	hs.Close()

	c := New(hs.URL)
	_, err := c.Login(context.Background(), "alice", "pw")
	if err == nil {
		t.Fatal("expected transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failure must not be an APIError, got %v", apiErr)
	}
}

func TestClient_Post_SetsHeaders(t *testing.T) {
	var gotContentType, gotRequestID string
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-Id")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer hs.Close()

	c := New(hs.URL)
	if err := c.Logout(context.Background(), "tok"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if gotContentType != "application/json" {
		t.Fatalf("content type = %q", gotContentType)
	}
	if gotRequestID == "" {
		t.Fatal("expected X-Request-Id header")
	}
}
