package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

type Client struct {
	apiHost      string
	authURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("igdb API error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, apiHost, authURL, clientID, clientSecret string) *Client {
	if apiHost == "" {
		apiHost = "https://api.igdb.com/v4"
	}
	if authURL == "" {
		authURL = "https://id.twitch.tv/oauth2/token"
	}
	return &Client{
		apiHost:      strings.TrimRight(apiHost, "/"),
		authURL:      authURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   httpClient,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// token returns a cached Twitch app access token, refreshing it via the
// client-credentials grant when missing or close to expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.accessToken, nil
	}

	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("client_secret", c.clientSecret)
	params.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	c.accessToken = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

// Query posts an apicalypse query body to an IGDB endpoint and returns the raw
// JSON response.
func (c *Client) Query(ctx context.Context, endpoint, body string) ([]byte, error) {
	tok, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiHost+"/"+endpoint, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(payload)}
	}
	return payload, nil
}

// Count returns the total record count of an endpoint.
func (c *Client) Count(ctx context.Context, endpoint string) (int, error) {
	body, err := c.Query(ctx, endpoint+"/count", "fields id;")
	if err != nil {
		return 0, err
	}
	var out struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, fmt.Errorf("failed to decode count response: %w", err)
	}
	return out.Count, nil
}

func pageQuery(fields string, limit, offset int) string {
	return fmt.Sprintf("fields %s; limit %d; offset %d; sort id asc;", fields, limit, offset)
}

func (c *Client) GetGames(ctx context.Context, limit, offset int) ([]Game, error) {
	body, err := c.Query(ctx, "games", pageQuery(
		"id, name, genres, keywords, themes, collections, remasters, parent_game, version_parent, game_type, cover, first_release_date, total_rating",
		limit, offset))
	if err != nil {
		return nil, err
	}
	var items []Game
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to decode games: %w", err)
	}
	return items, nil
}

func (c *Client) GetCovers(ctx context.Context, limit, offset int) ([]Cover, error) {
	body, err := c.Query(ctx, "covers", pageQuery("id, game, url", limit, offset))
	if err != nil {
		return nil, err
	}
	var items []Cover
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to decode covers: %w", err)
	}
	return items, nil
}

func (c *Client) GetGenres(ctx context.Context, limit, offset int) ([]NamedRecord, error) {
	return c.getNamed(ctx, "genres", limit, offset)
}

func (c *Client) GetThemes(ctx context.Context, limit, offset int) ([]NamedRecord, error) {
	return c.getNamed(ctx, "themes", limit, offset)
}

func (c *Client) GetKeywords(ctx context.Context, limit, offset int) ([]NamedRecord, error) {
	return c.getNamed(ctx, "keywords", limit, offset)
}

func (c *Client) getNamed(ctx context.Context, endpoint string, limit, offset int) ([]NamedRecord, error) {
	body, err := c.Query(ctx, endpoint, pageQuery("id, name", limit, offset))
	if err != nil {
		return nil, err
	}
	var items []NamedRecord
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", endpoint, err)
	}
	return items, nil
}
