package models

// Clip is a browser-recorded video snippet stored as a base64 data URL.
// ID is the millisecond unix timestamp at capture time, Timestamp the
// ISO-8601 capture time.
type Clip struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Data      string `json:"data"`
}
