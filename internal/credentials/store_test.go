package credentials

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainStore hides the BatchStore methods of the wrapped store.
type plainStore struct {
	Store
}

// failingStore fails every write.
type failingStore struct {
	Store
}

func (failingStore) Set(context.Context, string, string) error { return errors.New("disk full") }
func (failingStore) Delete(context.Context, string) error      { return errors.New("disk full") }

func stores(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"memory":    NewMemoryStore(),
		"file":      NewFileStore(filepath.Join(t.TempDir(), "nested", "creds.yaml")),
		"unbatched": plainStore{Store: NewMemoryStore()},
	}
}

func TestSession_RoundTrip(t *testing.T) {
	t.Parallel()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			sess, err := LoadSession(ctx, s)
			require.NoError(t, err)
			assert.True(t, sess.Empty())

			require.NoError(t, SaveSession(ctx, s, Session{Access: "a1", Renewal: "r1"}))
			sess, err = LoadSession(ctx, s)
			require.NoError(t, err)
			assert.Equal(t, Session{Access: "a1", Renewal: "r1"}, sess)

			// Renewal not rotated: stored renewal credential kept.
			require.NoError(t, SaveSession(ctx, s, Session{Access: "a2"}))
			sess, err = LoadSession(ctx, s)
			require.NoError(t, err)
			assert.Equal(t, Session{Access: "a2", Renewal: "r1"}, sess)

			require.NoError(t, s.Set(ctx, UserIDKey, "42"))
			require.NoError(t, ClearSession(ctx, s))

			sess, err = LoadSession(ctx, s)
			require.NoError(t, err)
			assert.True(t, sess.Empty())
			assert.Empty(t, sess.Renewal)
			_, ok, err := s.Get(ctx, UserIDKey)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSaveSession_EmptyAccessRejected(t *testing.T) {
	t.Parallel()

	err := SaveSession(context.Background(), NewMemoryStore(), Session{Renewal: "r"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access credential is empty")
}

func TestSaveSession_WriteFailure(t *testing.T) {
	t.Parallel()

	s := failingStore{Store: NewMemoryStore()}
	err := SaveSession(context.Background(), s, Session{Access: "a", Renewal: "r"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving renewal credential")

	err = ClearSession(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewMemoryStore()
	_, _, err := s.Get(ctx, AccessKey)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, s.Set(ctx, AccessKey, "x"), context.Canceled)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				_ = SaveSession(ctx, s, Session{Access: "a", Renewal: "r"})
			} else {
				_, _ = LoadSession(ctx, s)
			}
		}()
	}
	wg.Wait()

	sess, err := LoadSession(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, Session{Access: "a", Renewal: "r"}, sess)
}

func TestFileStore_Persistence(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "creds.yaml")
	ctx := context.Background()

	require.NoError(t, SaveSession(ctx, NewFileStore(path), Session{Access: "a", Renewal: "r"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// A fresh store over the same file sees the pair.
	sess, err := LoadSession(ctx, NewFileStore(path))
	require.NoError(t, err)
	assert.Equal(t, Session{Access: "a", Renewal: "r"}, sess)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStore_CorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "creds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o600))

	_, _, err := NewFileStore(path).Get(context.Background(), AccessKey)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing credentials file")
}
