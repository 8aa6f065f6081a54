package handlers

import (
	"net/http"

	"charmlive/internal/middleware"
	"charmlive/internal/models"
	"charmlive/internal/store"
	"charmlive/internal/utils"

	"github.com/gin-gonic/gin"
)

// DataHandlers serves the persisted-state CRUD endpoints: favorites,
// notes, preferences, and recorded clips.
type DataHandlers struct {
	store  *store.Store
	logger *utils.Logger
}

// NewDataHandlers constructs the persisted-state handler set.
func NewDataHandlers(st *store.Store, logger *utils.Logger) *DataHandlers {
	return &DataHandlers{store: st, logger: logger}
}

// GetFavorites returns the favorites list.
func (h *DataHandlers) GetFavorites(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"favorites": h.store.Favorites.Get()})
}

type saveFavoritesRequest struct {
	Favorites []string `json:"favorites"`
}

// SaveFavorites replaces the favorites list wholesale.
func (h *DataHandlers) SaveFavorites(c *gin.Context) {
	var req saveFavoritesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format", "details": err.Error()})
		return
	}
	if err := h.store.Favorites.Save(req.Favorites); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// GetNotes returns the full notes map.
func (h *DataHandlers) GetNotes(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Notes.Get())
}

// SaveNotes replaces the notes map wholesale.
func (h *DataHandlers) SaveNotes(c *gin.Context) {
	var notes map[string]string
	if err := c.ShouldBindJSON(&notes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format", "details": err.Error()})
		return
	}
	if err := h.store.Notes.Save(notes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// GetPreferences returns the stored preferences, or defaults.
func (h *DataHandlers) GetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Preferences.Get())
}

// SavePreferences replaces the preferences wholesale.
func (h *DataHandlers) SavePreferences(c *gin.Context) {
	var prefs models.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format", "details": err.Error()})
		return
	}
	if err := h.store.Preferences.Save(prefs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type saveClipRequest struct {
	Username string `json:"username" validate:"required,roomname"`
	ClipData string `json:"clipData" validate:"required"`
}

// SaveClip appends a recorded clip for a room.
func (h *DataHandlers) SaveClip(c *gin.Context) {
	var req saveClipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid JSON format"})
		return
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	clip, err := h.store.Clips.Add(req.Username, req.ClipData)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": clip.ID})
}

// GetClips returns the clips recorded for one room.
func (h *DataHandlers) GetClips(c *gin.Context) {
	username := c.Param("username")
	if !middleware.ValidRoomName(username) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room name"})
		return
	}
	c.JSON(http.StatusOK, h.store.Clips.ForUser(username))
}

// DeleteClip removes a clip by ID, whichever room it belongs to.
func (h *DataHandlers) DeleteClip(c *gin.Context) {
	clipID := c.Param("clip_id")
	if err := h.store.Clips.Delete(clipID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
