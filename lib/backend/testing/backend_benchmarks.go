package testing

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/skvdb/skv/lib/backend"
)

// RunBackendBenchmarks runs all benchmarks for an IBackend implementation.
func RunBackendBenchmarks(b *testing.B, name string, factory backend.BackendFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("Set", func(b *testing.B) {
			benchmarkSet(b, mustCreate(b, factory))
		})

		b.Run("SetExisting", func(b *testing.B) {
			benchmarkSetExisting(b, mustCreate(b, factory))
		})

		b.Run("SetLargeValue", func(b *testing.B) {
			benchmarkSetLargeValue(b, mustCreate(b, factory))
		})

		b.Run("Get", func(b *testing.B) {
			benchmarkGet(b, mustCreate(b, factory))
		})

		b.Run("Has", func(b *testing.B) {
			benchmarkHas(b, mustCreate(b, factory))
		})

		b.Run("Has(not)", func(b *testing.B) {
			benchmarkHasNot(b, mustCreate(b, factory))
		})

		b.Run("Delete", func(b *testing.B) {
			benchmarkDelete(b, mustCreate(b, factory))
		})

		b.Run("Scan", func(b *testing.B) {
			benchmarkScan(b, mustCreate(b, factory))
		})

		b.Run("MixedUsage", func(b *testing.B) {
			benchmarkMixedUsage(b, mustCreate(b, factory))
		})
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

func benchmarkSet(b *testing.B, database backend.IBackend) {
	b.Cleanup(func() {
		_ = database.Close()
	})
	ctx := context.Background()
	value := []byte("benchmark-value")

	var counter atomic.Int64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			key := fmt.Sprintf("bench-key-%d", counter.Add(1))
			if err := database.Set(ctx, key, value); err != nil {
				b.Errorf("Set failed: %v", err)
			}
		}
	})
}

func benchmarkSetExisting(b *testing.B, database backend.IBackend) {
	b.Cleanup(func() {
		_ = database.Close()
	})
	ctx := context.Background()
	value := []byte("benchmark-value")

	if err := database.Set(ctx, "existing-key", value); err != nil {
		b.Fatalf("Setup failed: %v", err)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if err := database.Set(ctx, "existing-key", value); err != nil {
				b.Errorf("Set failed: %v", err)
			}
		}
	})
}

func benchmarkSetLargeValue(b *testing.B, database backend.IBackend) {
	b.Cleanup(func() {
		_ = database.Close()
	})
	ctx := context.Background()

	value := make([]byte, 1024*1024)
	for i := range value {
		value[i] = byte(i % 256)
	}

	var counter atomic.Int64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			key := fmt.Sprintf("large-key-%d", counter.Add(1))
			if err := database.Set(ctx, key, value); err != nil {
				b.Errorf("Set failed: %v", err)
			}
		}
	})
}

func benchmarkGet(b *testing.B, database backend.IBackend) {
	b.Cleanup(func() {
		_ = database.Close()
	})
	ctx := context.Background()

	numKeys := 1000
	for i := 0; i < numKeys; i++ {
		key := fmt.Sprintf("get-key-%d", i)
		if err := database.Set(ctx, key, []byte("get-value")); err != nil {
			b.Fatalf("Setup failed: %v", err)
		}
	}

	var counter atomic.Int64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			key := fmt.Sprintf("get-key-%d", counter.Add(1)%int64(numKeys))
			if _, _, err := database.Get(ctx, key); err != nil {
				b.Errorf("Get failed: %v", err)
			}
		}
	})
}

func benchmarkHas(b *testing.B, database backend.IBackend) {
	b.Cleanup(func() {
		_ = database.Close()
	})
	ctx := context.Background()

	if err := database.Set(ctx, "has-key", []byte("has-value")); err != nil {
		b.Fatalf("Setup failed: %v", err)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := database.Has(ctx, "has-key"); err != nil {
				b.Errorf("Has failed: %v", err)
			}
		}
	})
}

func benchmarkHasNot(b *testing.B, database backend.IBackend) {
	b.Cleanup(func() {
		_ = database.Close()
	})
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := database.Has(ctx, "missing-key"); err != nil {
				b.Errorf("Has failed: %v", err)
			}
		}
	})
}

func benchmarkDelete(b *testing.B, database backend.IBackend) {
	b.Cleanup(func() {
		_ = database.Close()
	})
	ctx := context.Background()

	// Pre-populate so every iteration deletes an existing key
	for i := 0; i < b.N; i++ {
		key := fmt.Sprintf("delete-key-%d", i)
		if err := database.Set(ctx, key, []byte("delete-value")); err != nil {
			b.Fatalf("Setup failed: %v", err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := fmt.Sprintf("delete-key-%d", i)
		if err := database.Delete(ctx, key); err != nil {
			b.Errorf("Delete failed: %v", err)
		}
	}
}

func benchmarkScan(b *testing.B, database backend.IBackend) {
	b.Cleanup(func() {
		_ = database.Close()
	})
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("scan-key-%d", i)
		if err := database.Set(ctx, key, []byte("scan-value")); err != nil {
			b.Fatalf("Setup failed: %v", err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := database.Scan(ctx, "scan-key-"); err != nil {
			b.Errorf("Scan failed: %v", err)
		}
	}
}

func benchmarkMixedUsage(b *testing.B, database backend.IBackend) {
	b.Cleanup(func() {
		_ = database.Close()
	})
	ctx := context.Background()
	value := []byte("mixed-value")

	var counter atomic.Int64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			i := counter.Add(1)
			key := fmt.Sprintf("mixed-key-%d", i%500)

			switch i % 10 {
			case 0, 1, 2, 3, 4, 5, 6:
				if err := database.Set(ctx, key, value); err != nil {
					b.Errorf("Set failed: %v", err)
				}
			case 7, 8:
				if _, _, err := database.Get(ctx, key); err != nil {
					b.Errorf("Get failed: %v", err)
				}
			case 9:
				err := database.Delete(ctx, key)
				if err != nil && !backend.IsNotFound(err) {
					b.Errorf("Delete failed: %v", err)
				}
			}
		}
	})
}
