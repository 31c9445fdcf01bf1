package kv

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rcrowley/go-metrics"
	"github.com/skvdb/skv/cmd/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for sKV backends",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix        = "__test"
	perfLargeValueSizeKB = 1000
	perfNumThreads       = 10
	perfKeySpread        = 100
	perfOpsPerThread     = 1000
	perfSkip             = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "ops"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("Number of operations per thread"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("How large the value for the set-large test should be (in KB)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = viper.GetInt("keys")
	perfNumThreads = viper.GetInt("threads")
	perfOpsPerThread = viper.GetInt("ops")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for sKV backends")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d, Ops per thread: %d\n", perfNumThreads, perfOpsPerThread)
	fmt.Println()

	fmt.Println("starting tests...")

	ctx := context.Background()

	// Create results map
	results := make(map[string]metrics.Histogram)

	results["set"] = runBenchmark("set", func(counter int) error {
		return kvBackend.Set(ctx, testKey("set", counter), []byte("test"))
	})

	largeValue := make([]byte, perfLargeValueSizeKB*1024)
	results["set-large"] = runBenchmark("set-large", func(counter int) error {
		return kvBackend.Set(ctx, testKey("set-large", counter), largeValue)
	})

	prepareKeys(ctx, "get")
	results["get"] = runBenchmark("get", func(counter int) error {
		_, _, err := kvBackend.Get(ctx, testKey("get", counter))
		return err
	})

	prepareKeys(ctx, "has")
	results["has"] = runBenchmark("has", func(counter int) error {
		_, err := kvBackend.Has(ctx, testKey("has", counter))
		return err
	})

	results["has-not"] = runBenchmark("has-not", func(counter int) error {
		_, err := kvBackend.Has(ctx, fmt.Sprintf("%s/has-not-%d", perfKeyPrefix, counter))
		return err
	})

	results["scan"] = runBenchmark("scan", func(counter int) error {
		_, err := kvBackend.Scan(ctx, perfKeyPrefix)
		return err
	})

	prepareKeys(ctx, "mixed")
	results["mixed"] = runBenchmark("mixed", func(counter int) error {
		key := testKey("mixed", counter)
		switch counter % 4 {
		case 0:
			return kvBackend.Set(ctx, key, []byte("test"))
		case 1:
			_, _, err := kvBackend.Get(ctx, key)
			return err
		case 2:
			_, err := kvBackend.Has(ctx, key)
			return err
		default:
			err := kvBackend.Set(ctx, key, []byte("test"))
			if err != nil {
				return err
			}
			return kvBackend.Delete(ctx, key)
		}
	})

	// Remove all test keys
	cleanup(ctx)

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// runBenchmark runs op from perfNumThreads goroutines and samples every
// operation latency into a decaying histogram
func runBenchmark(test string, op func(counter int) error) metrics.Histogram {
	hist := metrics.NewHistogram(metrics.NewExpDecaySample(1028, 0.015))

	if shouldSkip(test) {
		fmt.Printf("%-12sskipped\n", test)
		return hist
	}

	var wg sync.WaitGroup
	start := time.Now()

	for thread := 0; thread < perfNumThreads; thread++ {
		wg.Add(1)
		go func(thread int) {
			defer wg.Done()
			for i := 0; i < perfOpsPerThread; i++ {
				counter := thread*perfOpsPerThread + i
				opStart := time.Now()
				if err := op(counter); err != nil {
					log.Printf("(%s) - operation failed: %v\n", test, err)
					continue
				}
				hist.Update(time.Since(opStart).Nanoseconds())
			}
		}(thread)
	}

	wg.Wait()
	printResult(test, hist, time.Since(start))
	return hist
}

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// testKey maps a counter onto one of perfKeySpread keys
func testKey(test string, counter int) string {
	return fmt.Sprintf("%s-%s-%d", perfKeyPrefix, test, counter%perfKeySpread)
}

// prepareKeys seeds all keys of a test so reads find them
func prepareKeys(ctx context.Context, test string) {
	for i := 0; i < perfKeySpread; i++ {
		if err := kvBackend.Set(ctx, testKey(test, i), []byte("test")); err != nil {
			log.Printf("(%s) - error seeding key: %v\n", test, err)
		}
	}
}

// cleanup removes every key the benchmarks created
func cleanup(ctx context.Context) {
	result, err := kvBackend.Scan(ctx, perfKeyPrefix)
	if err != nil {
		log.Printf("cleanup - error scanning test keys: %v\n", err)
		return
	}
	for _, key := range result.Keys {
		if err := kvBackend.Delete(ctx, key); err != nil {
			log.Printf("cleanup - error deleting key: %v\n", err)
		}
	}
}

// printResult prints one benchmark result in a formatted way
func printResult(test string, hist metrics.Histogram, elapsed time.Duration) {
	if hist.Count() == 0 {
		fmt.Printf("%-12sno samples\n", test)
		return
	}

	ps := hist.Percentiles([]float64{0.5, 0.95, 0.99})
	opsPerSec := float64(hist.Count()) / elapsed.Seconds()

	fmt.Printf("%-12s%8d ops\t%.0f ops/sec\tmean %s\tp50 %s\tp95 %s\tp99 %s\n",
		test,
		hist.Count(),
		opsPerSec,
		time.Duration(int64(hist.Mean())),
		time.Duration(int64(ps[0])),
		time.Duration(int64(ps[1])),
		time.Duration(int64(ps[2])),
	)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]metrics.Histogram) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "Count", "MeanNs", "P50Ns", "P95Ns", "P99Ns",
		"Threads", "OpsPerThread", "LargeValueSizeKB", "KeysCount",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, hist := range results {
		ps := hist.Percentiles([]float64{0.5, 0.95, 0.99})
		record := []string{
			test,
			strconv.FormatInt(hist.Count(), 10),
			strconv.FormatFloat(hist.Mean(), 'f', 0, 64),
			strconv.FormatFloat(ps[0], 'f', 0, 64),
			strconv.FormatFloat(ps[1], 'f', 0, 64),
			strconv.FormatFloat(ps[2], 'f', 0, 64),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfOpsPerThread),
			strconv.Itoa(perfLargeValueSizeKB),
			strconv.Itoa(perfKeySpread),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %v", err)
		}
	}

	return nil
}
