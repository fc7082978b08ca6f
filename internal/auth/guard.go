// Package auth validates presented API keys against the gateway's configured
// shared secret.
package auth

// Guard checks presented API keys with exact string equality. It has no side
// effects and no lockout behavior; a failed check only means the caller is
// not authorized.
type Guard struct {
	key string
}

// NewGuard returns a guard for the configured key.
func NewGuard(key string) *Guard {
	return &Guard{key: key}
}

// Authorize reports whether the presented key matches the configured key
// exactly. A missing configured key or a missing presented key never
// authorizes.
func (g *Guard) Authorize(presented string) bool {
	if g.key == "" || presented == "" {
		return false
	}
	return presented == g.key
}
