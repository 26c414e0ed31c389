package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("unexpected hit on empty cache")
	}

	if err := c.Set(ctx, "layout:abc", []byte("payload"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "layout:abc")
	if err != nil || !hit {
		t.Fatalf("Get after Set: hit=%v err=%v", hit, err)
	}
	if string(data) != "payload" {
		t.Errorf("data = %q", data)
	}

	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:abc"); hit {
		t.Error("hit after delete")
	}
	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Errorf("double delete should be a no-op, got %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry returned as hit")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.TreeKey("abc123"); got != "tree:abc123" {
		t.Errorf("TreeKey = %s", got)
	}

	lk1 := k.LayoutKey("abc", LayoutKeyOpts{EdgeStyle: "curved"})
	lk2 := k.LayoutKey("abc", LayoutKeyOpts{EdgeStyle: "straight"})
	if lk1 == lk2 {
		t.Error("different layout opts should produce different keys")
	}
	lk3 := k.LayoutKey("abc", LayoutKeyOpts{EdgeStyle: "curved", ShowMarkers: true})
	if lk1 == lk3 {
		t.Error("marker toggle should change the layout key")
	}

	ak1 := k.ArtifactKey(lk1, ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey(lk1, ArtifactKeyOpts{Format: "dot"})
	if ak1 == ak2 {
		t.Error("different formats should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "user:123:")
	if got := scoped.TreeKey("abc"); got != "user:123:tree:abc" {
		t.Errorf("scoped TreeKey = %s", got)
	}
	lk := scoped.LayoutKey("abc", LayoutKeyOpts{})
	if len(lk) < 9 || lk[:9] != "user:123:" {
		t.Errorf("scoped LayoutKey not prefixed: %s", lk)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "p:")
	if got := scoped.TreeKey("x"); got != "p:tree:x" {
		t.Errorf("nil inner: %s", got)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
	base := errors.New("boom")
	wrapped := Retryable(base)
	if !IsRetryable(wrapped) {
		t.Error("wrapped error not recognized as retryable")
	}
	if !errors.Is(wrapped, base) {
		t.Error("Unwrap chain broken")
	}
	if IsRetryable(base) {
		t.Error("plain error misclassified as retryable")
	}
}

func TestRetryWithBackoffStopsOnPermanentError(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return errors.New("permanent")
	})
	if err == nil || calls != 1 {
		t.Errorf("calls = %d, err = %v; permanent errors must not retry", calls, err)
	}
}

func TestRetryWithBackoffRecoversFromTransientError(t *testing.T) {
	if testing.Short() {
		t.Skip("waits out a backoff delay")
	}
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		if calls == 1 {
			return Retryable(errors.New("transient"))
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("calls = %d, err = %v; transient errors should retry", calls, err)
	}
}

func TestRetryWithBackoffRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		cancel()
		return Retryable(errors.New("transient"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 before cancellation", calls)
	}
}
