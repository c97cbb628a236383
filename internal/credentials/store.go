// Package credentials holds the session credential pair. The Store
// interface is the only shared mutable state in the client; the gateway
// reads it on every request and writes it only during login, renewal and
// logout.
package credentials

import (
	"context"
	"errors"
	"fmt"
)

// Well-known keys.
const (
	AccessKey  = "com.heroesandmore.accessToken"
	RenewalKey = "com.heroesandmore.refreshToken"
	UserIDKey  = "com.heroesandmore.userId"
)

// Store is an opaque secret store keyed by string. Implementations must be
// safe for concurrent use and provide their own at-rest protection.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// BatchStore is implemented by stores that can write or remove several
// keys as one operation. Session helpers use it when available so the
// access and renewal credentials never disagree on disk.
type BatchStore interface {
	Store
	SetMany(ctx context.Context, values map[string]string) error
	DeleteMany(ctx context.Context, keys ...string) error
}

// Session is the access/renewal credential pair.
type Session struct {
	Access  string
	Renewal string
}

// Empty reports whether no access credential is held.
func (s Session) Empty() bool {
	return s.Access == ""
}

// LoadSession reads the credential pair. Missing keys yield empty fields.
func LoadSession(ctx context.Context, s Store) (Session, error) {
	var sess Session

	access, _, err := s.Get(ctx, AccessKey)
	if err != nil {
		return Session{}, fmt.Errorf("reading access credential: %w", err)
	}
	renewal, _, err := s.Get(ctx, RenewalKey)
	if err != nil {
		return Session{}, fmt.Errorf("reading renewal credential: %w", err)
	}

	sess.Access = access
	sess.Renewal = renewal
	return sess, nil
}

// SaveSession writes the access credential and, when non-empty, the renewal
// credential. An empty Renewal keeps the stored one, matching renewal
// responses that do not rotate it.
func SaveSession(ctx context.Context, s Store, sess Session) error {
	if sess.Access == "" {
		return errors.New("saving session: access credential is empty")
	}

	values := map[string]string{AccessKey: sess.Access}
	if sess.Renewal != "" {
		values[RenewalKey] = sess.Renewal
	}

	if bs, ok := s.(BatchStore); ok {
		if err := bs.SetMany(ctx, values); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
		return nil
	}

	// Renewal first: a crash between the writes leaves a stale access
	// credential that renews, never a fresh one paired with a dead renewal.
	if v, ok := values[RenewalKey]; ok {
		if err := s.Set(ctx, RenewalKey, v); err != nil {
			return fmt.Errorf("saving renewal credential: %w", err)
		}
	}
	if err := s.Set(ctx, AccessKey, sess.Access); err != nil {
		return fmt.Errorf("saving access credential: %w", err)
	}
	return nil
}

// ClearSession removes both credentials and the cached user id.
func ClearSession(ctx context.Context, s Store) error {
	keys := []string{AccessKey, RenewalKey, UserIDKey}

	if bs, ok := s.(BatchStore); ok {
		if err := bs.DeleteMany(ctx, keys...); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}
		return nil
	}

	var errs []error
	for _, k := range keys {
		if err := s.Delete(ctx, k); err != nil {
			errs = append(errs, fmt.Errorf("deleting %s: %w", k, err))
		}
	}
	return errors.Join(errs...)
}
