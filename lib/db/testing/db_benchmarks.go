package testing

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/ValentinKolb/hKV/lib/db"
)

// RunHostKVBenchmarks runs all benchmarks for a HostKV engine implementation
func RunHostKVBenchmarks(b *testing.B, name string, factory EngineFactory) {

	b.Run("Set", func(b *testing.B) {
		benchmarkSet(b, factory())
	})

	b.Run("SetExisting", func(b *testing.B) {
		benchmarkSetExisting(b, factory())
	})

	b.Run("Get", func(b *testing.B) {
		benchmarkGet(b, factory())
	})

	b.Run("Delete", func(b *testing.B) {
		benchmarkDelete(b, factory())
	})

	b.Run("MixedUsage", func(b *testing.B) {
		benchmarkMixedUsage(b, factory())
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

// Benchmark for Set operation
func benchmarkSet(b *testing.B, engine db.HostKV) {

	b.Cleanup(func() {
		engine.Close()
	})

	requireFeature(b, engine, db.FeatureSet)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			key := fmt.Sprintf("test-key-%d", counter)
			value := []byte(fmt.Sprintf("test-value-%d", counter))
			_ = engine.Set(key, value)
			counter++
		}
	})
}

// Benchmark for Set operation with existing keys
func benchmarkSetExisting(b *testing.B, engine db.HostKV) {

	b.Cleanup(func() {
		engine.Close()
	})

	requireFeature(b, engine, db.FeatureSet)

	// Prepare data
	numKeys := 10000
	for i := 0; i < numKeys; i++ {
		key := fmt.Sprintf("test-key-%d", i)
		value := []byte(fmt.Sprintf("test-value-%d", i))
		_ = engine.Set(key, value)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			key := fmt.Sprintf("test-key-%d", counter%numKeys)
			value := []byte(fmt.Sprintf("test-value-%d", counter))
			_ = engine.Set(key, value)
			counter++
		}
	})
}

// Parallel benchmarking for Get operation
func benchmarkGet(b *testing.B, engine db.HostKV) {

	b.Cleanup(func() {
		engine.Close()
	})

	requireFeature(b, engine, db.FeatureSet)
	requireFeature(b, engine, db.FeatureGet)

	// Prepare data
	numKeys := 10000
	for i := 0; i < numKeys; i++ {
		key := fmt.Sprintf("test-key-%d", i)
		value := []byte(fmt.Sprintf("test-value-%d", i))
		_ = engine.Set(key, value)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			key := fmt.Sprintf("test-key-%d", counter%numKeys)
			_, _, _ = engine.Get(key)
			counter++
		}
	})
}

// Parallel benchmarking for Delete operation
func benchmarkDelete(b *testing.B, engine db.HostKV) {

	b.Cleanup(func() {
		engine.Close()
	})

	requireFeature(b, engine, db.FeatureSet)
	requireFeature(b, engine, db.FeatureDelete)

	numKeys := 100000
	if b.N < numKeys {
		numKeys = b.N
	}

	// Prepare data
	keys := make([]string, numKeys)
	for i := 0; i < numKeys; i++ {
		keys[i] = fmt.Sprintf("test-key-%d", i)
		value := []byte(fmt.Sprintf("test-value-%d", i))
		_ = engine.Set(keys[i], value)
	}

	// Counter for atomic access
	var counter int64

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			idx := atomic.AddInt64(&counter, 1) - 1
			_ = engine.Delete(keys[idx%int64(numKeys)])
		}
	})
}

// Benchmark for a realistic mix of operations
func benchmarkMixedUsage(b *testing.B, engine db.HostKV) {

	b.Cleanup(func() {
		engine.Close()
	})

	requireFeature(b, engine, db.FeatureSet)
	requireFeature(b, engine, db.FeatureGet)
	requireFeature(b, engine, db.FeatureDelete)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			key := fmt.Sprintf("test-key-%d", counter%1000)
			switch counter % 10 {
			case 0, 1, 2:
				value := []byte(fmt.Sprintf("test-value-%d", counter))
				_ = engine.Set(key, value)
			case 3:
				_ = engine.Delete(key)
			default:
				_, _, _ = engine.Get(key)
			}
			counter++
		}
	})
}
