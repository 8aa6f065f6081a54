package platform

import (
	"strings"

	"charmlive/internal/models"
)

// ParseRoster decodes the chat user list wire format: a single line
// holding a leading count field followed by comma-separated records, each
// record pipe-separated as username|status|genderCode|<reserved>.
//
// The leading count is discarded, records with fewer than three parts are
// skipped, and unknown gender codes pass through verbatim. Empty input
// yields an empty slice, never an error.
func ParseRoster(raw string) []models.ChatUser {
	users := []models.ChatUser{}
	if raw == "" {
		return users
	}

	records := strings.Split(raw, ",")
	if len(records) < 2 {
		return users
	}
	for _, record := range records[1:] {
		parts := strings.Split(record, "|")
		if len(parts) < 3 {
			continue
		}
		gender := parts[2]
		if label, ok := genderLabels[gender]; ok {
			gender = label
		}
		users = append(users, models.ChatUser{
			Username: parts[0],
			Status:   parts[1],
			Gender:   gender,
		})
	}
	return users
}
