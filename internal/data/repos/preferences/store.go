package preferences

import "context"

// SitePreferenceStore holds one category per (user, site). Set always overwrites.
type SitePreferenceStore interface {
	Set(ctx context.Context, userID, site, category string) error
	// Get returns a copy of the user's mapping; unknown users get an empty map.
	Get(ctx context.Context, userID string) (map[string]string, error)
}
