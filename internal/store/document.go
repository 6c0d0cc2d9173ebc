package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrorKind classifies why a document could not be loaded
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindParseFailure
	KindUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindParseFailure:
		return "parse_failure"
	case KindUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// LoadError is returned by Get
type LoadError struct {
	Key  string
	Kind ErrorKind
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("document %q: %s", e.Key, e.Kind)
	}
	return fmt.Sprintf("document %q: %s: %v", e.Key, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a *LoadError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Kind == kind
}

// Get reads and decodes the document stored under key
func Get[T any](ctx context.Context, kv KV, key string) (T, error) {
	var v T

	raw, err := kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return v, &LoadError{Key: key, Kind: KindNotFound}
		}
		return v, &LoadError{Key: key, Kind: KindUnavailable, Err: err}
	}

	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero, &LoadError{Key: key, Kind: KindParseFailure, Err: err}
	}

	return v, nil
}

// Load returns the document stored under key, or def when it is missing,
// unreadable or corrupt. It never fails.
func Load[T any](ctx context.Context, kv KV, key string, def T, logger *zap.Logger) T {
	v, err := Get[T](ctx, kv, key)
	if err == nil {
		return v
	}

	if IsKind(err, KindNotFound) {
		logger.Debug("Document not stored yet, using default", zap.String("key", key))
	} else {
		logger.Warn("Failed to load document, using default",
			zap.String("key", key),
			zap.Error(err),
		)
	}
	return def
}

// Save encodes value as JSON and overwrites the document stored under key
func Save[T any](ctx context.Context, kv KV, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode document %q: %w", key, err)
	}

	if err := kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to write document %q: %w", key, err)
	}

	return nil
}
