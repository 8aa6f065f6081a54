package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"charmlive/internal/models"
	"charmlive/internal/platform"
	"charmlive/internal/rooms"
	"charmlive/internal/store"
	"charmlive/internal/utils"

	"github.com/gin-gonic/gin"
)

type fakePlatform struct {
	detail    *platform.RoomContext
	users     []models.ChatUser
	detailErr error
	usersErr  error
}

func (f *fakePlatform) RoomDetail(ctx context.Context, username string) (*platform.RoomContext, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return f.detail, nil
}

func (f *fakePlatform) RoomUsers(ctx context.Context, username string) ([]models.ChatUser, error) {
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	return f.users, nil
}

type fakeRoomFetcher struct {
	rooms []models.Room
	err   error
	calls int
}

func (f *fakeRoomFetcher) RoomList(ctx context.Context) ([]models.Room, error) {
	f.calls++
	return f.rooms, f.err
}

func newRoomTestRouter(t *testing.T, fetcher *fakeRoomFetcher, client *fakePlatform) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New(utils.NewPaths(t.TempDir()), nil)
	svc := rooms.NewService(fetcher, st.RoomCache, nil)
	h := NewRoomHandlers(svc, client, st, nil, nil)

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("dashboard.html").Parse(
		`rooms={{len .rooms}} viewers={{.total_viewers}} private={{.private_rooms}}`)))
	r.GET("/", h.Dashboard)
	r.GET("/room/:username/summary", h.RoomSummary)
	r.GET("/room/:username/users", h.RoomUsers)
	r.GET("/api/refresh", h.Refresh)
	return r, st
}

func TestDashboardRendersStats(t *testing.T) {
	fetcher := &fakeRoomFetcher{rooms: []models.Room{
		{Username: "alice", NumUsers: 10, PrivatePrice: 30},
		{Username: "bob", NumUsers: 5},
	}}
	r, _ := newRoomTestRouter(t, fetcher, &fakePlatform{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := w.Body.String(); body != "rooms=2 viewers=15 private=1" {
		t.Errorf("unexpected body %q", body)
	}
}

func TestDashboardDegradesOnUpstreamFailure(t *testing.T) {
	fetcher := &fakeRoomFetcher{err: platform.ErrUpstreamUnavailable}
	r, _ := newRoomTestRouter(t, fetcher, &fakePlatform{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 (degraded page), got %d", w.Code)
	}
	if body := w.Body.String(); body != "rooms=0 viewers=0 private=0" {
		t.Errorf("expected zeroed stats, got %q", body)
	}
}

func TestRoomSummaryReshapesDetail(t *testing.T) {
	client := &fakePlatform{detail: &platform.RoomContext{
		RoomTitle:   "hi there",
		NumViewers:  12,
		AppsRunning: `[['Tip Goal', 'visible']]`,
		Quality:     platform.RoomQuality{Quality: "720p"},
		SatisfactionScore: platform.SatisfactionScore{
			Percent: 95, UpVotes: 19, DownVotes: 1, Max: 5,
		},
	}}
	r, _ := newRoomTestRouter(t, &fakeRoomFetcher{}, client)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/room/alice/summary", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["room_title"] != "hi there" || resp["quality"] != "720p" {
		t.Errorf("unexpected summary: %v", resp)
	}
	apps, ok := resp["apps_running"].([]interface{})
	if !ok || len(apps) != 1 {
		t.Errorf("expected 1 parsed app, got %v", resp["apps_running"])
	}
	score, ok := resp["satisfaction_score"].(map[string]interface{})
	if !ok || score["percent"] != float64(95) {
		t.Errorf("unexpected satisfaction score: %v", resp["satisfaction_score"])
	}
}

func TestRoomSummaryUpstreamFailure(t *testing.T) {
	client := &fakePlatform{detailErr: fmt.Errorf("%w: boom", platform.ErrUpstreamUnavailable)}
	r, _ := newRoomTestRouter(t, &fakeRoomFetcher{}, client)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/room/alice/summary", nil))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "error") {
		t.Errorf("expected error payload, got %s", w.Body.String())
	}
}

func TestRoomSummaryRejectsBadUsername(t *testing.T) {
	r, _ := newRoomTestRouter(t, &fakeRoomFetcher{}, &fakePlatform{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/room/bad%3Bname/summary", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid username, got %d", w.Code)
	}
}

func TestRoomUsersEndpoint(t *testing.T) {
	client := &fakePlatform{users: []models.ChatUser{
		{Username: "bob", Status: "active", Gender: "Male"},
		{Username: "carol", Status: "away", Gender: "Female"},
	}}
	r, _ := newRoomTestRouter(t, &fakeRoomFetcher{}, client)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/room/alice/users", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Users []models.ChatUser `json:"users"`
		Count int               `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 || len(resp.Users) != 2 {
		t.Errorf("unexpected roster response: %+v", resp)
	}
}

func TestRoomUsersUpstreamFailure(t *testing.T) {
	client := &fakePlatform{usersErr: platform.ErrUpstreamUnavailable}
	r, _ := newRoomTestRouter(t, &fakeRoomFetcher{}, client)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/room/alice/users", nil))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestRefreshReportsOnlineFavorites(t *testing.T) {
	fetcher := &fakeRoomFetcher{rooms: []models.Room{
		{Username: "alice", NumUsers: 10},
		{Username: "bob", NumUsers: 2},
	}}
	r, st := newRoomTestRouter(t, fetcher, &fakePlatform{})

	if err := st.Favorites.Save([]string{"bob", "offline_fav"}); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/refresh", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Rooms           []models.Room `json:"rooms"`
		OnlineFavorites []string      `json:"online_favorites"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Rooms) != 2 {
		t.Errorf("expected 2 rooms, got %d", len(resp.Rooms))
	}
	if len(resp.OnlineFavorites) != 1 || resp.OnlineFavorites[0] != "bob" {
		t.Errorf("expected online favorites [bob], got %v", resp.OnlineFavorites)
	}
	if fetcher.calls != 1 {
		t.Errorf("expected forced fetch, got %d calls", fetcher.calls)
	}
}

func TestRefreshUpstreamFailure(t *testing.T) {
	fetcher := &fakeRoomFetcher{err: platform.ErrUpstreamUnavailable}
	r, _ := newRoomTestRouter(t, fetcher, &fakePlatform{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/refresh", nil))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}
