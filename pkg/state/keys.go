package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/google/uuid"
)

// GlobalSession names the workspace shared by clients that send no session.
const GlobalSession = "global"

// Keyer maps session ids to storage keys.
type Keyer interface {
	// StateKey returns the storage key of a session's state document.
	StateKey(session string) string
}

// DefaultKeyer produces "state:global" for the global session and
// "state:session:<id>" for every other session.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// StateKey implements Keyer.
func (DefaultKeyer) StateKey(session string) string {
	if session == "" || session == GlobalSession {
		return "state:global"
	}
	return "state:session:" + session
}

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
//
// Example usage:
//
//	// One namespace per deployment sharing a redis instance
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "tenant-a:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// StateKey generates a prefixed state key.
func (k *ScopedKeyer) StateKey(session string) string {
	return k.prefix + k.inner.StateKey(session)
}

// NewSessionID mints a random session id.
func NewSessionID() string {
	return uuid.NewString()
}

// ValidSessionID reports whether id can name a session: either
// [GlobalSession] or a UUID.
func ValidSessionID(id string) bool {
	if id == GlobalSession {
		return true
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// Hash computes a SHA-256 hash of the JSON encoding of s.
// Returns the full 64-character hex string. Equal documents hash equally.
func Hash(s *State) string {
	data, _ := json.Marshal(s)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
