// Package cache is the persistent key-value store that keeps the session
// across process restarts. Every key is scoped to the API origin, so
// sessions for different servers never see each other.
package cache

import "context"

// Cache is a string key-value store scoped to one origin.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// scopedKey prefixes key with origin.
func scopedKey(origin, key string) string {
	return origin + "#" + key
}
