package testing

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/skvdb/skv/lib/backend"
)

// RunBackendTests runs a comprehensive conformance test suite for an
// IBackend implementation. Each subtest receives a fresh instance from the
// factory.
func RunBackendTests(t *testing.T, name string, factory backend.BackendFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, mustCreate(t, factory))
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, mustCreate(t, factory))
		})

		t.Run("Has", func(t *testing.T) {
			testHas(t, mustCreate(t, factory))
		})

		t.Run("Scan", func(t *testing.T) {
			testScan(t, mustCreate(t, factory))
		})

		t.Run("ScanLiteralPrefix", func(t *testing.T) {
			testScanLiteralPrefix(t, mustCreate(t, factory))
		})

		t.Run("Query", func(t *testing.T) {
			testQuery(t, mustCreate(t, factory))
		})

		t.Run("Begin", func(t *testing.T) {
			testBegin(t, mustCreate(t, factory))
		})

		t.Run("Capabilities", func(t *testing.T) {
			testCapabilities(t, mustCreate(t, factory))
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, mustCreate(t, factory))
		})

		t.Run("Closed", func(t *testing.T) {
			testClosed(t, mustCreate(t, factory))
		})

		t.Run("ConcurrentUsage", func(t *testing.T) {
			testConcurrentUsage(t, mustCreate(t, factory))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func mustCreate(t testing.TB, factory backend.BackendFactory) backend.IBackend {
	t.Helper()
	b, err := factory()
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}
	return b
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, b backend.IBackend) {
	defer b.Close()
	ctx := context.Background()

	testKey := "test-key"
	testValue1 := []byte("test-value1")
	testValue2 := []byte("test-value2")

	if err := b.Set(ctx, testKey, testValue1); err != nil {
		t.Fatalf("Unexpected error during Set: %v", err)
	}

	result, loaded, err := b.Get(ctx, testKey)
	if err != nil {
		t.Fatalf("Unexpected error during Get: %v", err)
	}
	if !loaded {
		t.Errorf("Expected key %s to exist after Set", testKey)
	}
	if !bytes.Equal(result, testValue1) {
		t.Errorf("Expected value %s, got %s", testValue1, result)
	}

	// Set of an existing key overwrites, never duplicates
	if err := b.Set(ctx, testKey, testValue2); err != nil {
		t.Fatalf("Unexpected error during second Set: %v", err)
	}

	result, loaded, err = b.Get(ctx, testKey)
	if err != nil {
		t.Fatalf("Unexpected error during Get: %v", err)
	}
	if !loaded {
		t.Errorf("Expected key %s to exist after overwrite", testKey)
	}
	if !bytes.Equal(result, testValue2) {
		t.Errorf("Expected value %s, got %s", testValue2, result)
	}

	scan, err := b.Scan(ctx, testKey)
	if err != nil {
		t.Fatalf("Unexpected error during Scan: %v", err)
	}
	if len(scan.Keys) != 1 {
		t.Errorf("Expected exactly one key after overwrite, got %d", len(scan.Keys))
	}

	_, loaded, err = b.Get(ctx, "nonexistent-key")
	if err != nil {
		t.Fatalf("Unexpected error during Get of missing key: %v", err)
	}
	if loaded {
		t.Errorf("Expected nonexistent key to return loaded=false")
	}

	// Binary values must survive byte-for-byte
	binaryKey := "binary-key"
	binaryValue := make([]byte, 512)
	for i := range binaryValue {
		binaryValue[i] = byte(i % 256)
	}

	if err := b.Set(ctx, binaryKey, binaryValue); err != nil {
		t.Fatalf("Unexpected error during binary Set: %v", err)
	}

	result, loaded, err = b.Get(ctx, binaryKey)
	if err != nil {
		t.Fatalf("Unexpected error during binary Get: %v", err)
	}
	if !loaded {
		t.Errorf("Expected binary key to exist after Set")
	}
	if !bytes.Equal(result, binaryValue) {
		t.Errorf("Binary value mismatch after round trip")
	}
}

func testDelete(t *testing.T, b backend.IBackend) {
	defer b.Close()
	ctx := context.Background()

	testKey := "delete-test-key"
	testValue := []byte("delete-test-value")

	if err := b.Set(ctx, testKey, testValue); err != nil {
		t.Fatalf("Unexpected error during Set: %v", err)
	}

	if err := b.Delete(ctx, testKey); err != nil {
		t.Errorf("Unexpected error during Delete of existing key: %v", err)
	}

	_, loaded, err := b.Get(ctx, testKey)
	if err != nil {
		t.Fatalf("Unexpected error during Get: %v", err)
	}
	if loaded {
		t.Errorf("Expected key %s to not exist after Delete", testKey)
	}

	// Deleting an absent key is an error, not a no-op
	err = b.Delete(ctx, testKey)
	if err == nil {
		t.Errorf("Expected error when deleting already-deleted key")
	}
	if !backend.IsNotFound(err) {
		t.Errorf("Expected NotFound error, got %v", err)
	}

	err = b.Delete(ctx, "never-existed-key")
	if !backend.IsNotFound(err) {
		t.Errorf("Expected NotFound error for never-existing key, got %v", err)
	}

	// The backend stays usable after a failed delete
	if err := b.Set(ctx, testKey, testValue); err != nil {
		t.Errorf("Unexpected error during Set after failed Delete: %v", err)
	}
}

func testHas(t *testing.T, b backend.IBackend) {
	defer b.Close()
	ctx := context.Background()

	testKey := "has-test-key"
	testValue := []byte("has-test-value")

	loaded, err := b.Has(ctx, testKey)
	if err != nil {
		t.Fatalf("Unexpected error during Has: %v", err)
	}
	if loaded {
		t.Errorf("Expected Has to return false for nonexistent key")
	}

	if err := b.Set(ctx, testKey, testValue); err != nil {
		t.Fatalf("Unexpected error during Set: %v", err)
	}

	loaded, err = b.Has(ctx, testKey)
	if err != nil {
		t.Fatalf("Unexpected error during Has: %v", err)
	}
	if !loaded {
		t.Errorf("Expected Has to return true after Set")
	}

	if err := b.Delete(ctx, testKey); err != nil {
		t.Fatalf("Unexpected error during Delete: %v", err)
	}

	loaded, err = b.Has(ctx, testKey)
	if err != nil {
		t.Fatalf("Unexpected error during Has: %v", err)
	}
	if loaded {
		t.Errorf("Expected Has to return false after Delete")
	}
}

func testScan(t *testing.T, b backend.IBackend) {
	defer b.Close()
	ctx := context.Background()

	keys := []string{"user:3", "user:1", "user:2", "post:1", "user:10"}
	for _, key := range keys {
		if err := b.Set(ctx, key, []byte("v")); err != nil {
			t.Fatalf("Unexpected error during Set of %s: %v", key, err)
		}
	}

	result, err := b.Scan(ctx, "user:")
	if err != nil {
		t.Fatalf("Unexpected error during Scan: %v", err)
	}

	// Ascending lexicographic order, so "user:10" sorts before "user:2"
	expected := []string{"user:1", "user:10", "user:2", "user:3"}
	if len(result.Keys) != len(expected) {
		t.Fatalf("Expected %d keys, got %d: %v", len(expected), len(result.Keys), result.Keys)
	}
	for i, key := range expected {
		if result.Keys[i] != key {
			t.Errorf("Expected key %s at position %d, got %s", key, i, result.Keys[i])
		}
	}

	result, err = b.Scan(ctx, "")
	if err != nil {
		t.Fatalf("Unexpected error during empty-prefix Scan: %v", err)
	}
	if len(result.Keys) != len(keys) {
		t.Errorf("Expected empty prefix to match all %d keys, got %d", len(keys), len(result.Keys))
	}

	result, err = b.Scan(ctx, "no-such-prefix:")
	if err != nil {
		t.Fatalf("Unexpected error during Scan: %v", err)
	}
	if len(result.Keys) != 0 {
		t.Errorf("Expected no matches for unknown prefix, got %v", result.Keys)
	}
}

func testScanLiteralPrefix(t *testing.T, b backend.IBackend) {
	defer b.Close()
	ctx := context.Background()

	// Keys containing pattern metacharacters must match literally only
	keys := []string{"100%done", "100Xdone", "a_b", "aXb", `back\slash`, "backXslash"}
	for _, key := range keys {
		if err := b.Set(ctx, key, []byte("v")); err != nil {
			t.Fatalf("Unexpected error during Set of %s: %v", key, err)
		}
	}

	result, err := b.Scan(ctx, "100%")
	if err != nil {
		t.Fatalf("Unexpected error during Scan: %v", err)
	}
	if len(result.Keys) != 1 || result.Keys[0] != "100%done" {
		t.Errorf("Expected %% to match literally, got %v", result.Keys)
	}

	result, err = b.Scan(ctx, "a_")
	if err != nil {
		t.Fatalf("Unexpected error during Scan: %v", err)
	}
	if len(result.Keys) != 1 || result.Keys[0] != "a_b" {
		t.Errorf("Expected _ to match literally, got %v", result.Keys)
	}

	result, err = b.Scan(ctx, `back\`)
	if err != nil {
		t.Fatalf("Unexpected error during Scan: %v", err)
	}
	if len(result.Keys) != 1 || result.Keys[0] != `back\slash` {
		t.Errorf("Expected backslash to match literally, got %v", result.Keys)
	}
}

func testQuery(t *testing.T, b backend.IBackend) {
	defer b.Close()
	ctx := context.Background()

	if !b.Capabilities().SQLQueries {
		t.Skip()
	}

	if err := b.Set(ctx, "query-key", []byte("query-value")); err != nil {
		t.Fatalf("Unexpected error during Set: %v", err)
	}

	result, err := b.Query(ctx, "SELECT key, value FROM kv_store", nil)
	if err != nil {
		t.Fatalf("Unexpected error during read Query: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("Expected one row, got %d", len(result.Rows))
	}
	if result.Affected != 0 {
		t.Errorf("Expected affected count 0 for read statement, got %d", result.Affected)
	}

	key, ok := result.Rows[0].Get("key")
	if !ok {
		t.Fatalf("Expected column 'key' in result row")
	}
	if !bytes.Equal(key, []byte("query-key")) {
		t.Errorf("Expected key column %q, got %q", "query-key", key)
	}
	value, ok := result.Rows[0].Get("value")
	if !ok {
		t.Fatalf("Expected column 'value' in result row")
	}
	if !bytes.Equal(value, []byte("query-value")) {
		t.Errorf("Expected value column %q, got %q", "query-value", value)
	}

	// Leading whitespace and lowercase must still classify as a read
	result, err = b.Query(ctx, "  select count(*) AS n FROM kv_store", nil)
	if err != nil {
		t.Fatalf("Unexpected error during lowercase Query: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("Expected one row, got %d", len(result.Rows))
	}
	n, ok := result.Rows[0].Get("n")
	if !ok {
		t.Fatalf("Expected column 'n' in result row")
	}
	if !bytes.Equal(n, []byte("1")) {
		t.Errorf("Expected count 1, got %q", n)
	}

	// Write statements report the affected row count
	result, err = b.Query(ctx, "DELETE FROM kv_store", nil)
	if err != nil {
		t.Fatalf("Unexpected error during write Query: %v", err)
	}
	if result.Affected != 1 {
		t.Errorf("Expected affected count 1, got %d", result.Affected)
	}
	if len(result.Rows) != 0 {
		t.Errorf("Expected no rows for write statement, got %d", len(result.Rows))
	}

	// A broken statement surfaces the engine's error
	if _, err := b.Query(ctx, "SELECT FROM WHERE", nil); err == nil {
		t.Errorf("Expected error for invalid statement")
	}

	// The backend stays usable after a failed query
	if err := b.Set(ctx, "after-error", []byte("v")); err != nil {
		t.Errorf("Unexpected error during Set after failed Query: %v", err)
	}
}

func testBegin(t *testing.T, b backend.IBackend) {
	defer b.Close()
	ctx := context.Background()

	tx, err := b.Begin(ctx)
	if err == nil {
		t.Fatalf("Expected error from Begin")
	}
	if tx != nil {
		t.Errorf("Expected no transaction object alongside the error")
	}
	if !backend.IsUnsupported(err) {
		t.Errorf("Expected Unsupported error, got %v", err)
	}

	// The backend stays fully usable after the refused Begin
	if err := b.Set(ctx, "after-begin", []byte("v")); err != nil {
		t.Errorf("Unexpected error during Set after Begin: %v", err)
	}
	loaded, err := b.Has(ctx, "after-begin")
	if err != nil {
		t.Fatalf("Unexpected error during Has: %v", err)
	}
	if !loaded {
		t.Errorf("Expected key to exist after refused Begin")
	}
}

func testCapabilities(t *testing.T, b backend.IBackend) {
	defer b.Close()

	caps1 := b.Capabilities()
	caps2 := b.Capabilities()
	if caps1 != caps2 {
		t.Errorf("Expected Capabilities to be stable across calls")
	}
	if caps1.MaxKeySize < 0 || caps1.MaxValueSize < 0 {
		t.Errorf("Expected non-negative size limits, got %d/%d", caps1.MaxKeySize, caps1.MaxValueSize)
	}

	if b.Family() == "" {
		t.Errorf("Expected a non-empty family")
	}
}

func testEdgeCases(t *testing.T, b backend.IBackend) {
	defer b.Close()
	ctx := context.Background()

	emptyValueKey := "empty-value-key"
	if err := b.Set(ctx, emptyValueKey, []byte{}); err != nil {
		t.Fatalf("Unexpected error during Set of empty value: %v", err)
	}

	result, loaded, err := b.Get(ctx, emptyValueKey)
	if err != nil {
		t.Fatalf("Unexpected error during Get: %v", err)
	}
	if !loaded {
		t.Errorf("Key for empty value not found after Set")
	}
	if len(result) != 0 {
		t.Errorf("Empty value mismatch, got %v", result)
	}

	unicodeKey := "schlüssel-ключ-鍵"
	unicodeValue := []byte("wert-значение-値")
	if err := b.Set(ctx, unicodeKey, unicodeValue); err != nil {
		t.Fatalf("Unexpected error during Set of unicode key: %v", err)
	}
	result, loaded, err = b.Get(ctx, unicodeKey)
	if err != nil {
		t.Fatalf("Unexpected error during Get: %v", err)
	}
	if !loaded || !bytes.Equal(result, unicodeValue) {
		t.Errorf("Unicode round trip failed, got %q", result)
	}

	largeValueKey := "large-value-key"
	largeValue := make([]byte, 1024*1024)
	for i := range largeValue {
		largeValue[i] = byte(i % 256)
	}
	if err := b.Set(ctx, largeValueKey, largeValue); err != nil {
		t.Fatalf("Unexpected error during Set of large value: %v", err)
	}
	result, loaded, err = b.Get(ctx, largeValueKey)
	if err != nil {
		t.Fatalf("Unexpected error during Get: %v", err)
	}
	if !loaded {
		t.Errorf("Key for large value not found after Set")
	} else if !bytes.Equal(result, largeValue) {
		t.Errorf("Large value mismatch: size %d vs %d", len(result), len(largeValue))
	}
}

func testClosed(t *testing.T, b backend.IBackend) {
	ctx := context.Background()

	if err := b.Set(ctx, "pre-close", []byte("v")); err != nil {
		t.Fatalf("Unexpected error during Set: %v", err)
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Unexpected error during Close: %v", err)
	}

	// Close is idempotent
	if err := b.Close(); err != nil {
		t.Errorf("Unexpected error during second Close: %v", err)
	}

	if err := b.Set(ctx, "post-close", []byte("v")); !backend.IsClosed(err) {
		t.Errorf("Expected Closed error from Set after Close, got %v", err)
	}
	if _, _, err := b.Get(ctx, "pre-close"); !backend.IsClosed(err) {
		t.Errorf("Expected Closed error from Get after Close, got %v", err)
	}
	if err := b.Delete(ctx, "pre-close"); !backend.IsClosed(err) {
		t.Errorf("Expected Closed error from Delete after Close, got %v", err)
	}
	if _, err := b.Has(ctx, "pre-close"); !backend.IsClosed(err) {
		t.Errorf("Expected Closed error from Has after Close, got %v", err)
	}
	if _, err := b.Scan(ctx, ""); !backend.IsClosed(err) {
		t.Errorf("Expected Closed error from Scan after Close, got %v", err)
	}
	if _, err := b.Query(ctx, "SELECT 1", nil); !backend.IsClosed(err) {
		t.Errorf("Expected Closed error from Query after Close, got %v", err)
	}
}

func testConcurrentUsage(t *testing.T, b backend.IBackend) {
	defer b.Close()
	ctx := context.Background()

	numWorkers := 8
	opsPerWorker := 100

	var wg sync.WaitGroup
	wg.Add(numWorkers)

	errs := make(chan error, numWorkers*opsPerWorker)

	for w := 0; w < numWorkers; w++ {
		go func(workerId int) {
			defer wg.Done()

			for i := 0; i < opsPerWorker; i++ {
				key := fmt.Sprintf("worker-%d-key-%d", workerId, i)
				value := []byte(fmt.Sprintf("value-%d-%d", workerId, i))

				if err := b.Set(ctx, key, value); err != nil {
					errs <- fmt.Errorf("set %s: %w", key, err)
					continue
				}
				result, loaded, err := b.Get(ctx, key)
				if err != nil {
					errs <- fmt.Errorf("get %s: %w", key, err)
					continue
				}
				if !loaded || !bytes.Equal(result, value) {
					errs <- fmt.Errorf("get %s: value mismatch", key)
				}
			}
		}(w)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent operation failed: %v", err)
	}

	result, err := b.Scan(ctx, "worker-")
	if err != nil {
		t.Fatalf("Unexpected error during Scan: %v", err)
	}
	if len(result.Keys) != numWorkers*opsPerWorker {
		t.Errorf("Expected %d keys after concurrent writes, got %d",
			numWorkers*opsPerWorker, len(result.Keys))
	}
}
