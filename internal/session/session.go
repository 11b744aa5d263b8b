// Package session holds the process-wide authenticated wallet identity.
// Only the authentication flow writes it; every other component reads it
// through an injected *Session instead of reaching for a global.
package session

import "sync"

type Session struct {
	mu       sync.RWMutex
	identity string
}

func New() *Session {
	return &Session{}
}

// SignIn records the authenticated principal. Called only by the auth flow.
func (that *Session) SignIn(identity string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.identity = identity
}

// SignOut clears the identity.
func (that *Session) SignOut() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.identity = ""
}

// Identity returns the authenticated principal, and false when no wallet is
// connected.
func (that *Session) Identity() (string, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.identity, that.identity != ""
}
