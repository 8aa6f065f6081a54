package models

// Preferences holds the viewer's UI filter and sort settings as a flat
// map. The shape is owned by the browser side; the server stores it
// opaquely so new UI settings never require a schema change.
type Preferences map[string]interface{}

// DefaultPreferences returns the settings served before the viewer has
// saved anything.
func DefaultPreferences() Preferences {
	return Preferences{
		"dark_mode":        false,
		"quick_filter":     "",
		"favorites_filter": "all",
		"sort_method":      "viewers-desc",
		"viewer_min":       0,
		"viewer_max":       10000,
		"show_type":        "all",
		"active_tags":      []string{},
	}
}
