package sqlite

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/skvdb/skv/lib/backend"
	backendtesting "github.com/skvdb/skv/lib/backend/testing"
)

func TestSQLiteBackend(t *testing.T) {
	backendtesting.RunBackendTests(t, "sqlite", func() (backend.IBackend, error) {
		return New(context.Background(), MemoryDSN)
	})
}

func BenchmarkSQLiteBackend(b *testing.B) {
	backendtesting.RunBackendBenchmarks(b, "sqlite", func() (backend.IBackend, error) {
		return New(context.Background(), MemoryDSN)
	})
}

func TestFilePersistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	b, err := New(ctx, path)
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}

	if err := b.Set(ctx, "persistent-key", []byte("persistent-value")); err != nil {
		t.Fatalf("Unexpected error during Set: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Unexpected error during Close: %v", err)
	}

	b, err = New(ctx, path)
	if err != nil {
		t.Fatalf("Failed to reopen backend: %v", err)
	}
	defer b.Close()

	value, loaded, err := b.Get(ctx, "persistent-key")
	if err != nil {
		t.Fatalf("Unexpected error during Get: %v", err)
	}
	if !loaded {
		t.Fatalf("Expected key to survive close and reopen")
	}
	if !bytes.Equal(value, []byte("persistent-value")) {
		t.Errorf("Expected value %q, got %q", "persistent-value", value)
	}
}
