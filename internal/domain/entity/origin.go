// Package entity contains the core business objects of the project.
package entity

// Origin records which path created a principal: local email/password
// registration or a third-party OAuth provider.
type Origin string

const (
	// OriginLocal indicates an email/password registration.
	OriginLocal Origin = "local"
	// OriginGoogle indicates a principal created through Google Sign-In.
	OriginGoogle Origin = "oauth-google"
	// OriginApple indicates a principal created through Sign in with Apple.
	OriginApple Origin = "oauth-apple"
)

// String returns the string representation of the Origin.
func (o Origin) String() string {
	return string(o)
}

// IsValid checks if the Origin is a valid value.
func (o Origin) IsValid() bool {
	switch o {
	case OriginLocal, OriginGoogle, OriginApple:
		return true
	default:
		return false
	}
}

// IsOAuth reports whether the principal came in through a deferred OAuth path.
func (o Origin) IsOAuth() bool {
	return o == OriginGoogle || o == OriginApple
}
