// internal/vault/ref.go
//
// Secret references in configuration.
//
// A config value of the form
//
//	vault:<mount>/<path>#<key>
//
// names one key of a KV-v2 secret.  Resolve replaces such a value with
// the secret; any other value is returned unchanged, so plain passwords
// in development configs keep working.
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// RefPrefix marks a config value as a Vault reference.
const RefPrefix = "vault:"

// ErrBadRef is returned for a reference without a path or key.
var ErrBadRef = errors.New("vault: malformed reference")

// Ref is a parsed reference.
type Ref struct {
	Path string // "<mount>/<path>"
	Key  string
}

// KVReader is what Resolve needs from a Client.
type KVReader interface {
	GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error)
}

// IsRef reports whether v is a Vault reference.
func IsRef(v string) bool { return strings.HasPrefix(v, RefPrefix) }

// ParseRef splits "vault:<mount>/<path>#<key>".
func ParseRef(v string) (Ref, error) {
	body, ok := strings.CutPrefix(v, RefPrefix)
	if !ok {
		return Ref{}, fmt.Errorf("%w: %q lacks %q prefix", ErrBadRef, v, RefPrefix)
	}
	path, key, ok := strings.Cut(body, "#")
	mount, rel, _ := strings.Cut(path, "/")
	if !ok || key == "" || mount == "" || rel == "" {
		return Ref{}, fmt.Errorf("%w: %q", ErrBadRef, v)
	}
	return Ref{Path: path, Key: key}, nil
}

// Resolve returns the secret named by v, or v itself when it is not a
// reference.  kv may be nil when v is known not to be a reference.
func Resolve(ctx context.Context, kv KVReader, v string) (string, error) {
	if !IsRef(v) {
		return v, nil
	}
	ref, err := ParseRef(v)
	if err != nil {
		return "", err
	}
	if kv == nil {
		return "", fmt.Errorf("vault: %q needs a Vault client", v)
	}
	return kv.GetKV(ctx, ref.Path, ref.Key, 5*time.Minute)
}
