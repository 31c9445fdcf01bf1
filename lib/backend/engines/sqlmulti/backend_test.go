package sqlmulti

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/skvdb/skv/lib/backend"
	backendtesting "github.com/skvdb/skv/lib/backend/testing"
)

// The conformance suite runs against the embedded engine; the server engines
// share the identical code path and differ only in dialect text, which is
// covered by the dialect tests.
func TestSQLiteBackend(t *testing.T) {
	backendtesting.RunBackendTests(t, "sqlmulti/sqlite", func() (backend.IBackend, error) {
		return NewSQLite(context.Background(), MemoryDSN)
	})
}

func BenchmarkSQLiteBackend(b *testing.B) {
	backendtesting.RunBackendBenchmarks(b, "sqlmulti/sqlite", func() (backend.IBackend, error) {
		return NewSQLite(context.Background(), MemoryDSN)
	})
}

func TestFilePersistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	b, err := NewSQLite(ctx, path)
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}

	if err := b.Set(ctx, "persistent-key", []byte("persistent-value")); err != nil {
		t.Fatalf("Unexpected error during Set: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Unexpected error during Close: %v", err)
	}

	// Reopening the same file runs the migration again (idempotent) and must
	// find the previously written data intact.
	b, err = NewSQLite(ctx, path)
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

func TestMemorySharedVisibility(t *testing.T) {
	ctx := context.Background()

	b, err := NewSQLite(ctx, MemoryDSN)
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}
	defer b.Close()

	// With the pool capped at one connection, sequential operations must all
	// observe the same ephemeral database instance.
	for i := 0; i < 10; i++ {
		if err := b.Set(ctx, "shared-key", []byte("shared-value")); err != nil {
			t.Fatalf("Unexpected error during Set: %v", err)
		}
		loaded, err := b.Has(ctx, "shared-key")
		if err != nil {
			t.Fatalf("Unexpected error during Has: %v", err)
		}
		if !loaded {
			t.Fatalf("Expected key to be visible on iteration %d", i)
		}
	}
}

func TestUnknownEngine(t *testing.T) {
	_, err := New(context.Background(), Config{Engine: "oracle", DSN: "whatever"})
	if err == nil {
		t.Fatalf("Expected error for unknown engine")
	}
	if backend.CodeOf(err) != backend.RetCConnection {
		t.Errorf("Expected connection error code, got %v", backend.CodeOf(err))
	}
}

func TestConnectionFailureAbortsConstruction(t *testing.T) {
	// No server listens here; construction must fail atomically with a
	// connection error instead of returning a half-initialized backend.
	_, err := NewPostgres(context.Background(), "postgres://nobody@127.0.0.1:1/none?connect_timeout=1")
	if err == nil {
		t.Fatalf("Expected connection error")
	}
	if backend.CodeOf(err) != backend.RetCConnection {
		t.Errorf("Expected connection error code, got %v", backend.CodeOf(err))
	}
}

func TestQueryNullColumn(t *testing.T) {
	ctx := context.Background()

	b, err := NewSQLite(ctx, MemoryDSN)
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}
	defer b.Close()

	result, err := b.Query(ctx, "SELECT NULL AS missing, '' AS empty, 'x' AS present", nil)
	if err != nil {
		t.Fatalf("Unexpected error during Query: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("Expected one row, got %d", len(result.Rows))
	}

	missing, ok := result.Rows[0].Get("missing")
	if !ok {
		t.Fatalf("Expected column 'missing'")
	}
	if missing != nil {
		t.Errorf("Expected nil value for NULL column, got %v", missing)
	}

	empty, ok := result.Rows[0].Get("empty")
	if !ok {
		t.Fatalf("Expected column 'empty'")
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("Expected non-nil empty value for empty string, got %v", empty)
	}

	present, ok := result.Rows[0].Get("present")
	if !ok {
		t.Fatalf("Expected column 'present'")
	}
	if !bytes.Equal(present, []byte("x")) {
		t.Errorf("Expected 'x', got %q", present)
	}
}
