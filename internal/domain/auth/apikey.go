package auth

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrUnknownKey is returned when no API key matches the presented hash.
var ErrUnknownKey = errors.New("unknown api key")

// Key holds the identity and permission data for a validated API key.
type Key struct {
	ID      string
	KeyHash string
	Name    string
	Scopes  []string
}

// Repository provides lookup of API keys by their HMAC-SHA256 hash.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*Key, error)
}
