package domain

import "time"

// AuthProvider identifies how an account authenticates. It is fixed at
// account creation and never changes afterwards.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
	ProviderApple  AuthProvider = "apple"
)

// Valid reports whether p is one of the known providers.
func (p AuthProvider) Valid() bool {
	switch p {
	case ProviderLocal, ProviderGoogle, ProviderApple:
		return true
	default:
		return false
	}
}

func (p AuthProvider) String() string {
	return string(p)
}

// User represents an account in the system. Email is unique across all
// providers: one identity per email, the provider is a property of that
// identity, not a partition key.
type User struct {
	ID              string       `json:"id" db:"id"`
	Email           string       `json:"email" db:"email"`
	Username        string       `json:"username" db:"username"`
	FullName        string       `json:"full_name" db:"full_name"`
	PasswordHash    *string      `json:"-" db:"password_hash"`
	AuthProvider    AuthProvider `json:"auth_provider" db:"auth_provider"`
	OAuthProviderID *string      `json:"-" db:"oauth_provider_id"`
	IsActive        bool         `json:"is_active" db:"is_active"`
	IsVerified      bool         `json:"is_verified" db:"is_verified"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" db:"updated_at"`
}

// IsLocal reports whether the account authenticates with a password.
func (u *User) IsLocal() bool {
	return u.AuthProvider == ProviderLocal
}

// Activate marks the account active.
func (u *User) Activate() {
	u.IsActive = true
}

// Deactivate marks the account inactive. Deactivated accounts fail all
// auth flows.
func (u *User) Deactivate() {
	u.IsActive = false
}
