package preferences

// SitePreference is a lightweight UI choice: one category per (user, site).
type SitePreference struct {
	UserID   string `json:"user_id" binding:"required"`
	Site     string `json:"site" binding:"required"`
	Category string `json:"category" binding:"required"`
}
