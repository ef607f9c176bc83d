package igdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPageQuery(t *testing.T) {
	got := pageQuery("id, name", 500, 1000)
	want := "fields id, name; limit 500; offset 1000; sort id asc;"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestQueryUsesTokenAndHeaders(t *testing.T) {
	var gotAuth, gotClientID string
	tokenCalls := 0

	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok123","expires_in":3600,"token_type":"bearer"}`))
	}))
	defer auth.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotClientID = r.Header.Get("Client-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":7,"name":"Chrono Trigger"}]`))
	}))
	defer api.Close()

	client := NewClient(api.Client(), api.URL, auth.URL, "cid", "secret")
	items, err := client.GetGames(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ID != 7 || items[0].Name != "Chrono Trigger" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotClientID != "cid" {
		t.Fatalf("unexpected client id header: %q", gotClientID)
	}

	// Second call reuses the cached token.
	if _, err := client.GetGenres(context.Background(), 10, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokenCalls != 1 {
		t.Fatalf("expected 1 token call, got %d", tokenCalls)
	}
}

func TestQueryAPIError(t *testing.T) {
	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":3600}`))
	}))
	defer auth.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("Too Many Requests"))
	}))
	defer api.Close()

	client := NewClient(api.Client(), api.URL, auth.URL, "cid", "secret")
	_, err := client.GetGames(context.Background(), 10, 0)
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusTooManyRequests {
		t.Fatalf("unexpected status: %d", apiErr.Status)
	}
}

func TestCount(t *testing.T) {
	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":3600}`))
	}))
	defer auth.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/games/count" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"count":314159}`))
	}))
	defer api.Close()

	client := NewClient(api.Client(), api.URL, auth.URL, "cid", "secret")
	count, err := client.Count(context.Background(), "games")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 314159 {
		t.Fatalf("unexpected count: %d", count)
	}
}
