package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"charmlive/internal/models"
	"charmlive/internal/store"
	"charmlive/internal/utils"

	"github.com/gin-gonic/gin"
)

func newDataTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New(utils.NewPaths(t.TempDir()), nil)
	h := NewDataHandlers(st, nil)

	r := gin.New()
	r.GET("/get_favorites", h.GetFavorites)
	r.POST("/save_favorites", h.SaveFavorites)
	r.GET("/get_notes", h.GetNotes)
	r.POST("/save_notes", h.SaveNotes)
	r.GET("/get_preferences", h.GetPreferences)
	r.POST("/save_preferences", h.SavePreferences)
	r.POST("/save_clip", h.SaveClip)
	r.GET("/get_clips/:username", h.GetClips)
	r.DELETE("/delete_clip/:clip_id", h.DeleteClip)
	return r, st
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFavoritesEndpoints(t *testing.T) {
	r, _ := newDataTestRouter(t)

	w := postJSON(t, r, "/save_favorites", gin.H{"favorites": []string{"alice", "bob"}})
	if w.Code != http.StatusOK {
		t.Fatalf("save: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/get_favorites", nil))
	var resp struct {
		Favorites []string `json:"favorites"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Favorites) != 2 || resp.Favorites[0] != "alice" {
		t.Errorf("unexpected favorites: %v", resp.Favorites)
	}
}

func TestNotesEndpoints(t *testing.T) {
	r, _ := newDataTestRouter(t)

	w := postJSON(t, r, "/save_notes", map[string]string{"alice": "good chat"})
	if w.Code != http.StatusOK {
		t.Fatalf("save: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/get_notes", nil))
	var notes map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &notes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if notes["alice"] != "good chat" {
		t.Errorf("unexpected notes: %v", notes)
	}
}

func TestPreferencesEndpointsServeDefaults(t *testing.T) {
	r, _ := newDataTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/get_preferences", nil))
	var prefs models.Preferences
	if err := json.Unmarshal(w.Body.Bytes(), &prefs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if prefs["sort_method"] != "viewers-desc" {
		t.Errorf("expected defaults served, got %v", prefs)
	}

	if w := postJSON(t, r, "/save_preferences", gin.H{"dark_mode": true}); w.Code != http.StatusOK {
		t.Fatalf("save: expected 200, got %d", w.Code)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/get_preferences", nil))
	prefs = models.Preferences{}
	if err := json.Unmarshal(w.Body.Bytes(), &prefs); err != nil {
		t.Fatal(err)
	}
	if prefs["dark_mode"] != true {
		t.Errorf("expected saved preferences, got %v", prefs)
	}
}

func TestClipLifecycle(t *testing.T) {
	r, _ := newDataTestRouter(t)

	w := postJSON(t, r, "/save_clip", gin.H{
		"username": "alice",
		"clipData": "data:video/webm;base64,AAAA",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("save clip: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var saveResp struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &saveResp); err != nil {
		t.Fatal(err)
	}
	if !saveResp.Success || saveResp.ID == "" {
		t.Fatalf("unexpected save response: %+v", saveResp)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/get_clips/alice", nil))
	var clips []models.Clip
	if err := json.Unmarshal(w.Body.Bytes(), &clips); err != nil {
		t.Fatal(err)
	}
	if len(clips) != 1 || clips[0].ID != saveResp.ID {
		t.Errorf("unexpected clips: %v", clips)
	}

	req := httptest.NewRequest(http.MethodDelete, "/delete_clip/"+saveResp.ID, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("delete clip: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/get_clips/alice", nil))
	clips = nil
	if err := json.Unmarshal(w.Body.Bytes(), &clips); err != nil {
		t.Fatal(err)
	}
	if len(clips) != 0 {
		t.Errorf("expected no clips after delete, got %v", clips)
	}
}

func TestSaveClipValidation(t *testing.T) {
	r, _ := newDataTestRouter(t)

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing username", gin.H{"clipData": "data"}},
		{"missing data", gin.H{"username": "alice"}},
		{"bad username", gin.H{"username": "no spaces allowed", "clipData": "data"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := postJSON(t, r, "/save_clip", tc.body); w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestGetClipsUnknownUser(t *testing.T) {
	r, _ := newDataTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/get_clips/nobody", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := w.Body.String(); body != "[]" {
		t.Errorf("expected empty array, got %s", body)
	}
}
