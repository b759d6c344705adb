package artifact

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// Store defines operations for persisting generated assets by slash-separated key.
type Store interface {
	Put(ctx context.Context, key string, content []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	GetURL(ctx context.Context, key string) (string, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

var ErrNotFound = errors.New("artifact not found")

// normalizeKey trims whitespace and leading slashes and cleans the key.
// Keys that are empty or climb above the store root are rejected.
func normalizeKey(key string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", fmt.Errorf("key is required")
	}
	key = path.Clean(key)
	if key == "." || key == ".." || strings.HasPrefix(key, "../") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return key, nil
}

// normalizePrefix returns "" for the whole store or a cleaned prefix ending in "/".
func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return path.Clean(prefix) + "/"
}
