package auth

// Identity is the caller as reported by the identity provider.
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
}

// Credentials are the email/password pair used for signup and login.
type Credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Session is what the provider hands back after signup or login.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
}
