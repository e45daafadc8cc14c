package storage

import (
	"context"
	"errors"
)

// Keys under which the credential store persists the session.
const (
	KeyAccessToken  = "token"
	KeyRefreshToken = "refreshToken"
	KeyUserInfo     = "userInfo"
)

// SessionKeys lists every key the credential store writes. Clearing a session
// removes all of them.
var SessionKeys = []string{KeyAccessToken, KeyRefreshToken, KeyUserInfo}

var (
	ErrEmptyKey = errors.New("storage key is required")
	ErrCorrupt  = errors.New("stored data cannot be decoded")
)

// Repo is durable key/value persistence for session fields.
// No transactional guarantee across keys is assumed.
type Repo interface {
	// Get returns the stored value and whether the key exists
	Get(ctx context.Context, key string) (string, bool, error)

	// Set creates or overwrites the value for key
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
