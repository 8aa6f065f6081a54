package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"charmlive/internal/middleware"
	"charmlive/internal/platform"
	"charmlive/internal/rooms"
	"charmlive/internal/store"
	"charmlive/internal/utils"

	"golang.org/x/time/rate"
)

// initMinimalApp initializes the global app against a temp data dir and
// chdirs into a directory holding stub templates so setupRouter can load
// them.
func initMinimalApp(t *testing.T) {
	t.Helper()

	workDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(workDir, "templates"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"dashboard.html", "login.html"} {
		if err := os.WriteFile(filepath.Join(workDir, "templates", name), []byte("ok"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	t.Chdir(workDir)

	t.Setenv("CHARMLIVE_PASSWORD", "")
	t.Setenv("CHARMLIVE_PASSWORD_HASH", "")

	paths := utils.NewPaths(filepath.Join(workDir, "data"))
	st := store.New(paths, nil)
	client := platform.NewClient("", nil)

	app = &App{
		store:       st,
		client:      client,
		service:     rooms.NewService(client, st.RoomCache, nil),
		authService: middleware.NewAuthService(),
		wsHub:       middleware.NewHub(nil),
		rateLimiter: middleware.NewRateLimiter(rate.Every(time.Second), 100),
	}
}

func TestHealthzEndpoint(t *testing.T) {
	initMinimalApp(t)
	r := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("/healthz expected 200, got %d", w.Code)
	}
	var health map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil {
		t.Fatalf("/healthz invalid JSON: %v", err)
	}
	if health["status"] != "ok" {
		t.Fatalf("/healthz expected status=ok, got %#v", health)
	}
	if health["version"] == "" {
		t.Fatal("/healthz expected a version string")
	}
}

func TestLoginRedirectsWhenAuthDisabled(t *testing.T) {
	initMinimalApp(t)
	r := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/login", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusFound {
		t.Fatalf("/login expected 302 with auth disabled, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Fatalf("/login expected redirect to /, got %q", loc)
	}
}

func TestEnvBool(t *testing.T) {
	cases := []struct {
		val  string
		want bool
	}{
		{"", false},
		{"true", true},
		{"1", true},
		{"false", false},
		{"garbage", false},
	}
	for _, tc := range cases {
		t.Setenv("CHARMLIVE_TEST_BOOL", tc.val)
		if got := envBool("CHARMLIVE_TEST_BOOL"); got != tc.want {
			t.Errorf("envBool(%q) = %v, want %v", tc.val, got, tc.want)
		}
	}
}
