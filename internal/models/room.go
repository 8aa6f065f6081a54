// Package models defines the data structures shared between the platform
// client, the persistence layer, and the HTTP handlers.
package models

// Room is a live broadcast session as returned by the upstream room-list
// endpoint. Upstream fields are passed through largely unchanged; the
// derived fields at the bottom are computed at render time and are never
// persisted by the room cache (they marshal away when zero).
type Room struct {
	Username       string   `json:"username"`
	Gender         string   `json:"gender"`
	Location       string   `json:"location"`
	Country        string   `json:"country"`
	CurrentShow    string   `json:"current_show"`
	Subject        string   `json:"subject"`
	Tags           []string `json:"tags"`
	NumUsers       int      `json:"num_users"`
	NumFollowers   int      `json:"num_followers"`
	DisplayAge     *int     `json:"display_age"`
	StartTimestamp int64    `json:"start_timestamp"`
	StartDtUTC     string   `json:"start_dt_utc,omitempty"`
	HasPassword    bool     `json:"has_password"`
	PrivatePrice   int      `json:"private_price"`
	SpyShowPrice   int      `json:"spy_show_price"`
	IsGaming       bool     `json:"is_gaming"`
	IsAgeVerified  bool     `json:"is_age_verified"`
	IsFollowing    bool     `json:"is_following"`
	Label          string   `json:"label,omitempty"`
	SourceName     string   `json:"source_name,omitempty"`
	Image          string   `json:"img,omitempty"`

	// Derived at render time.
	IsNew         bool   `json:"is_new"`
	Flag          string `json:"flag,omitempty"`
	GenderDisplay string `json:"gender_display,omitempty"`
	Uptime        int64  `json:"uptime,omitempty"`
}

// DashboardStats aggregates the room list for the header cards.
type DashboardStats struct {
	TotalViewers int      `json:"total_viewers"`
	PrivateRooms int      `json:"private_rooms"`
	Tags         []string `json:"tags"`
}
