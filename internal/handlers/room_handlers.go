// Package handlers wires the HTTP surface: the dashboard page, the
// upstream proxy endpoints, and the persisted-state CRUD endpoints.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"charmlive/internal/middleware"
	"charmlive/internal/models"
	"charmlive/internal/platform"
	"charmlive/internal/rooms"
	"charmlive/internal/store"
	"charmlive/internal/utils"

	"github.com/gin-gonic/gin"
)

// PlatformClient is the slice of the upstream client the room handlers
// need; tests inject fakes.
type PlatformClient interface {
	RoomDetail(ctx context.Context, username string) (*platform.RoomContext, error)
	RoomUsers(ctx context.Context, username string) ([]models.ChatUser, error)
}

// Broadcaster pushes refresh events to connected dashboards.
type Broadcaster interface {
	Broadcast(message []byte)
}

// RoomHandlers serves the dashboard page and the upstream proxy routes.
type RoomHandlers struct {
	svc    *rooms.Service
	client PlatformClient
	store  *store.Store
	hub    Broadcaster
	logger *utils.Logger
}

// NewRoomHandlers constructs the room handler set.
func NewRoomHandlers(svc *rooms.Service, client PlatformClient, st *store.Store, hub Broadcaster, logger *utils.Logger) *RoomHandlers {
	return &RoomHandlers{svc: svc, client: client, store: st, hub: hub, logger: logger}
}

func (h *RoomHandlers) logf(format string, args ...interface{}) {
	if h.logger != nil {
		h.logger.Writef(format, args...)
	}
}

// Dashboard renders the main page. Upstream failure degrades to an empty
// room list and zeroed stats rather than an error page.
func (h *RoomHandlers) Dashboard(c *gin.Context) {
	roomList, err := h.svc.Rooms(c.Request.Context())
	if err != nil {
		h.logf("error fetching room list: %v", err)
		roomList = []models.Room{}
	}
	roomList = h.svc.Decorate(roomList)
	stats := rooms.Stats(roomList)

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"rooms":         roomList,
		"all_tags":      stats.Tags,
		"total_viewers": stats.TotalViewers,
		"private_rooms": stats.PrivateRooms,
		"preferences":   h.store.Preferences.Get(),
		"timestamp":     time.Now().UnixMilli(), // thumbnail cache busting
	})
}

// RoomSummary proxies the room detail document, reshaped for the detail
// panel. The serialized apps_running field is safely parsed, never
// evaluated.
func (h *RoomHandlers) RoomSummary(c *gin.Context) {
	username := c.Param("username")
	if !middleware.ValidRoomName(username) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room name"})
		return
	}

	detail, err := h.client.RoomDetail(c.Request.Context(), username)
	if err != nil {
		h.logf("error fetching summary for %s: %v", username, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room_title":            detail.RoomTitle,
		"num_viewers":           detail.NumViewers,
		"broadcaster_gender":    detail.BroadcasterGender,
		"private_show_price":    detail.PrivateShowPrice,
		"allow_private_shows":   detail.AllowPrivateShows,
		"allow_show_recordings": detail.AllowShowRecordings,
		"summary_card_image":    detail.SummaryCardImage,
		"apps_running":          platform.ParseAppsRunning(detail.AppsRunning),
		"chat_rules":            detail.ChatRules,
		"quality":               detail.Quality.Quality,
		"hls_source":            detail.HLSSource,
		"is_age_verified":       detail.IsAgeVerified,
		"satisfaction_score": gin.H{
			"percent":    detail.SatisfactionScore.Percent,
			"up_votes":   detail.SatisfactionScore.UpVotes,
			"down_votes": detail.SatisfactionScore.DownVotes,
			"max":        detail.SatisfactionScore.Max,
		},
	})
}

// RoomUsers proxies the chat roster for a room.
func (h *RoomHandlers) RoomUsers(c *gin.Context) {
	username := c.Param("username")
	if !middleware.ValidRoomName(username) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room name"})
		return
	}

	users, err := h.client.RoomUsers(c.Request.Context(), username)
	if err != nil {
		h.logf("error fetching user list for %s: %v", username, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// refreshEvent is the message pushed to dashboards after a refresh.
type refreshEvent struct {
	Event           string   `json:"event"`
	RoomCount       int      `json:"room_count"`
	OnlineFavorites []string `json:"online_favorites"`
}

// Refresh forces an upstream fetch, rewrites the cache envelope, and
// reports which favorites are currently live.
func (h *RoomHandlers) Refresh(c *gin.Context) {
	roomList, err := h.svc.Refresh(c.Request.Context())
	if err != nil {
		h.logf("error refreshing room list: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	online := rooms.OnlineFavorites(roomList, h.store.Favorites.Get())

	if h.hub != nil {
		if payload, err := json.Marshal(refreshEvent{
			Event:           "rooms_refreshed",
			RoomCount:       len(roomList),
			OnlineFavorites: online,
		}); err == nil {
			h.hub.Broadcast(payload)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"rooms":            roomList,
		"online_favorites": online,
	})
}
