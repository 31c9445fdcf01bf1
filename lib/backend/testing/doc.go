// Package testing provides standardised tests and benchmarks for storage
// implementations that satisfy the backend.IBackend interface.
//
// The package contains:
//   - testing: A conformance test suite for validating the IBackend contract
//   - benchmark: Performance tests for measuring throughput of common operations
//
// This package is particularly useful for:
//   - Applications that need to select the most appropriate backend
//     based on performance characteristics
//   - Backend developers implementing the IBackend interface
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func() (backend.IBackend, error) {
//		return sqlmulti.NewSQLite(context.Background(), sqlmulti.MemoryDSN)
//	}
//
//	// Running the standard test suite
//	testing.RunBackendTests(t, "SQLite", factory)
//
//	// Running performance benchmarks
//	testing.RunBackendBenchmarks(b, "SQLite", factory)
package testing
