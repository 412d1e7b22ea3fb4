// Package store provides the durable key-value store the saved collection and
// the auth token live in. Values are strings, keys are fixed names shared
// process-wide, there is no expiry and no transactions.
package store

// Store is a synchronous string-keyed store that survives restarts.
type Store interface {
	// Get returns the value and true, or "" and false when the key is absent.
	Get(key string) (string, bool)
	// Set writes the value under key.
	Set(key, value string) error
}

// Fixed keys.
const (
	KeySavedCollection = "saved_collection"
	KeyAuthToken       = "auth_token"
)
