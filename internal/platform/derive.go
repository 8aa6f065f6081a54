package platform

import (
	"fmt"
	"strings"
)

// regionalIndicatorOffset turns an uppercase ASCII letter into the
// matching Unicode regional indicator symbol.
const regionalIndicatorOffset = 127397

// newRoomWindow is how long after going live a room still counts as new.
const newRoomWindow = 900 // seconds

// CountryFlag maps a two-letter ISO country code to its flag emoji (two
// regional indicator runes). Empty or non-2-letter input yields "".
func CountryFlag(countryCode string) string {
	if len(countryCode) != 2 {
		return ""
	}
	upper := strings.ToUpper(countryCode)
	return string(rune(upper[0])+regionalIndicatorOffset) + string(rune(upper[1])+regionalIndicatorOffset)
}

var genderLabels = map[string]string{
	"f": "Female",
	"m": "Male",
	"t": "Trans",
	"c": "Couple",
}

// GenderDisplay maps a wire gender code to its display label. Unknown
// codes are returned with the first letter capitalized.
func GenderDisplay(code string) string {
	if label, ok := genderLabels[strings.ToLower(code)]; ok {
		return label
	}
	return capitalize(code)
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// RoomUptime returns the whole seconds a room has been live given its
// start timestamp. Negative results (clock skew, bad upstream data) are
// clamped to zero so downstream formatting never sees a negative span.
func RoomUptime(nowUnix, startTimestamp int64) int64 {
	uptime := nowUnix - startTimestamp
	if uptime < 0 {
		return 0
	}
	return uptime
}

// IsNewRoom reports whether a room went live less than 15 minutes ago.
func IsNewRoom(uptimeSeconds int64) bool {
	return uptimeSeconds < newRoomWindow
}

// FormatDuration renders total seconds as "{h}h {m}m", dropping the hour
// part when it is zero.
func FormatDuration(totalSeconds int64) string {
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
