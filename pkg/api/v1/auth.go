package v1

// Credentials is the login payload for POST /token/.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPair is returned by a successful login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RefreshRequest is the payload for POST /token/refresh/.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// AccessToken is the refresh endpoint's answer. Some backends rotate the
// refresh token too; Refresh is empty when they don't.
type AccessToken struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// AuthUser is the staff account behind the current session.
type AuthUser struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	IsStaff    bool   `json:"is_staff"`
	IsActive   bool   `json:"is_active"`
	DateJoined string `json:"date_joined"`
}
