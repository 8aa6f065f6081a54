// Package platform implements the client for the upstream streaming
// platform's JSON and text APIs, plus the pure derivations applied to its
// responses before rendering.
package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"charmlive/internal/models"
)

const (
	// DefaultBaseURL is the production origin of the upstream platform.
	DefaultBaseURL = "https://chaturbate.com"

	// roomListLimit is the page size requested from the room-list endpoint.
	roomListLimit = 100

	roomListTimeout   = 10 * time.Second
	roomDetailTimeout = 5 * time.Second
	rosterTimeout     = 5 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Client talks to the upstream platform API. The zero value is not
// usable; construct with NewClient. The base URL is injectable so tests
// can point it at a local httptest server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a platform client. An empty baseURL selects the
// production origin; a nil httpClient selects http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// roomListResponse models the subset of the room-list document we consume.
type roomListResponse struct {
	Rooms      []models.Room `json:"rooms"`
	TotalCount int           `json:"total_count"`
}

// RoomContext is the detail document for a single room. AppsRunning is a
// serialized list upstream; it is kept opaque here and safely decoded by
// ParseAppsRunning, never evaluated.
type RoomContext struct {
	RoomTitle           string            `json:"room_title"`
	NumViewers          int               `json:"num_viewers"`
	BroadcasterGender   string            `json:"broadcaster_gender"`
	PrivateShowPrice    int               `json:"private_show_price"`
	AllowPrivateShows   bool              `json:"allow_private_shows"`
	AllowShowRecordings bool              `json:"allow_show_recordings"`
	SummaryCardImage    string            `json:"summary_card_image"`
	AppsRunning         string            `json:"apps_running"`
	ChatRules           string            `json:"chat_rules"`
	Quality             RoomQuality       `json:"quality"`
	HLSSource           string            `json:"hls_source"`
	IsAgeVerified       bool              `json:"is_age_verified"`
	SatisfactionScore   SatisfactionScore `json:"satisfaction_score"`
}

// RoomQuality is the nested quality block of the room detail document.
type RoomQuality struct {
	Quality string `json:"quality"`
}

// SatisfactionScore is the vote summary block of the room detail document.
type SatisfactionScore struct {
	Percent   int `json:"percent"`
	UpVotes   int `json:"up_votes"`
	DownVotes int `json:"down_votes"`
	Max       int `json:"max"`
}

// RoomList fetches the current room list, a single page of up to 100
// rooms. Any transport, status, or decode failure maps to
// ErrUpstreamUnavailable.
func (c *Client) RoomList(ctx context.Context) ([]models.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, roomListTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/api/ts/roomlist/room-list?limit=%d", c.baseURL, roomListLimit)
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var resp roomListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding room list: %v", ErrUpstreamUnavailable, err)
	}
	if resp.Rooms == nil {
		resp.Rooms = []models.Room{}
	}
	return resp.Rooms, nil
}

// RoomDetail fetches the detail document for a single room.
func (c *Client) RoomDetail(ctx context.Context, username string) (*RoomContext, error) {
	ctx, cancel := context.WithTimeout(ctx, roomDetailTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/api/chatvideocontext/%s/", c.baseURL, url.PathEscape(username))
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var detail RoomContext
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("%w: decoding room detail: %v", ErrUpstreamUnavailable, err)
	}
	return &detail, nil
}

// RoomUsers fetches and decodes the chat roster for a room. An empty room
// yields an empty slice; only transport-level problems return an error.
func (c *Client) RoomUsers(ctx context.Context, username string) ([]models.ChatUser, error) {
	ctx, cancel := context.WithTimeout(ctx, rosterTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/api/getchatuserlist/?roomname=%s&private=false&sort_by=a&exclude_staff=false",
		c.baseURL, url.QueryEscape(username))
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return ParseRoster(string(body)), nil
}

// get performs a single GET with browser-like headers. One attempt, no
// retries; every failure mode collapses into ErrUpstreamUnavailable.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", c.baseURL+"/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUpstreamUnavailable, err)
	}
	return body, nil
}

// ParseAppsRunning decodes the serialized apps_running field into a
// structured list without ever evaluating it. The upstream serializes
// with single quotes, so one normalization pass is attempted before
// giving up; undecodable input yields an empty list.
func ParseAppsRunning(raw string) []interface{} {
	apps := []interface{}{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return apps
	}
	if err := json.Unmarshal([]byte(raw), &apps); err == nil {
		return apps
	}
	normalized := strings.ReplaceAll(raw, "'", `"`)
	apps = []interface{}{}
	if err := json.Unmarshal([]byte(normalized), &apps); err != nil {
		return []interface{}{}
	}
	return apps
}
