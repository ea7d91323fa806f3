package testing

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/ValentinKolb/hKV/lib/db"
)

// EngineFactory is a function that creates a new instance of a HostKV implementation
type EngineFactory func() db.HostKV

// RunHostKVTests runs a comprehensive test suite for a HostKV implementation.
func RunHostKVTests(t *testing.T, name string, factory EngineFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory())
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory())
		})

		t.Run("Keys", func(t *testing.T) {
			testKeys(t, factory())
		})

		t.Run("Len", func(t *testing.T) {
			testLen(t, factory())
		})

		t.Run("Clear", func(t *testing.T) {
			testClear(t, factory())
		})

		t.Run("DeleteWhileIterating", func(t *testing.T) {
			testDeleteWhileIterating(t, factory())
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory())
		})

		t.Run("ConcurrentUsage", func(t *testing.T) {
			testConcurrentUsage(t, factory())
		})

		t.Run("Info", func(t *testing.T) {
			testInfo(t, factory())
		})
	})
}

// RunHostKVQuotaTests runs the quota test suite. The factory must create an
// engine whose quota is set to the provided number of bytes.
func RunHostKVQuotaTests(t *testing.T, name string, factory func(quotaBytes int64) db.HostKV) {
	t.Run(name, func(t *testing.T) {
		t.Run("Quota", func(t *testing.T) {
			testQuota(t, factory)
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the engine supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, engine db.HostKV, feature db.Feature) {
	if !engine.SupportsFeature(feature) {
		t.Skip()
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, engine db.HostKV) {
	defer engine.Close()

	requireFeature(t, engine, db.FeatureSet)
	requireFeature(t, engine, db.FeatureGet)

	testKey := "test-key"
	testValue1 := []byte("test-value1")
	testValue2 := []byte("test-value2")

	if err := engine.Set(testKey, testValue1); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	result, exists, err := engine.Get(testKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !exists {
		t.Errorf("Expected key %s to exist after Set", testKey)
	}
	if !bytes.Equal(result, testValue1) {
		t.Errorf("Expected value %s, got %s", testValue1, result)
	}

	if err := engine.Set(testKey, testValue2); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	result, exists, err = engine.Get(testKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !exists {
		t.Errorf("Expected key %s to exist after overwrite", testKey)
	}
	if !bytes.Equal(result, testValue2) {
		t.Errorf("Expected value %s, got %s", testValue2, result)
	}

	_, exists, err = engine.Get("nonexistent-key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if exists {
		t.Errorf("Expected nonexistent key to return exists=false")
	}

	// Get must return a copy, not a reference to the stored value
	retrievedValue, _, _ := engine.Get(testKey)
	retrievedValue[0] = 'X'

	originalValue, _, _ := engine.Get(testKey)
	if bytes.Equal(retrievedValue, originalValue) {
		t.Errorf("Get should return a copy, not a reference to the stored value")
	}
}

func testDelete(t *testing.T, engine db.HostKV) {
	defer engine.Close()

	requireFeature(t, engine, db.FeatureSet)
	requireFeature(t, engine, db.FeatureGet)
	requireFeature(t, engine, db.FeatureDelete)

	testKey := "delete-test-key"
	testValue := []byte("delete-test-value")

	if err := engine.Set(testKey, testValue); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	_, exists, _ := engine.Get(testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after Set", testKey)
	}

	if err := engine.Delete(testKey); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, exists, _ = engine.Get(testKey)
	if exists {
		t.Errorf("Expected key %s to not exist after Delete", testKey)
	}

	// deleting an absent key must not fail
	if err := engine.Delete("nonexistent-key"); err != nil {
		t.Errorf("Delete of absent key should not fail, got %v", err)
	}
}

func testKeys(t *testing.T, engine db.HostKV) {
	defer engine.Close()

	requireFeature(t, engine, db.FeatureSet)
	requireFeature(t, engine, db.FeatureKeys)

	want := []string{"alpha", "beta", "gamma"}
	for _, key := range want {
		if err := engine.Set(key, []byte("value-"+key)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	keys, err := engine.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}

	sort.Strings(keys)
	if len(keys) != len(want) {
		t.Fatalf("Expected %d keys, got %d", len(want), len(keys))
	}
	for i, key := range want {
		if keys[i] != key {
			t.Errorf("Expected key %s at position %d, got %s", key, i, keys[i])
		}
	}
}

func testLen(t *testing.T, engine db.HostKV) {
	defer engine.Close()

	requireFeature(t, engine, db.FeatureSet)
	requireFeature(t, engine, db.FeatureLen)

	n, err := engine.Len()
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected empty engine, got %d entries", n)
	}

	for i := 0; i < 10; i++ {
		if err := engine.Set(fmt.Sprintf("len-key-%d", i), []byte("v")); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	// overwriting must not change the count
	if err := engine.Set("len-key-0", []byte("other")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	n, err = engine.Len()
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != 10 {
		t.Errorf("Expected 10 entries, got %d", n)
	}
}

func testClear(t *testing.T, engine db.HostKV) {
	defer engine.Close()

	requireFeature(t, engine, db.FeatureSet)
	requireFeature(t, engine, db.FeatureClear)
	requireFeature(t, engine, db.FeatureLen)

	for i := 0; i < 25; i++ {
		if err := engine.Set(fmt.Sprintf("clear-key-%d", i), []byte("clear-value")); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := engine.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	n, _ := engine.Len()
	if n != 0 {
		t.Errorf("Expected 0 entries after Clear, got %d", n)
	}

	// the engine must be usable again after Clear
	if err := engine.Set("after-clear", []byte("value")); err != nil {
		t.Fatalf("Set after Clear failed: %v", err)
	}
	_, exists, _ := engine.Get("after-clear")
	if !exists {
		t.Errorf("Expected engine to accept writes after Clear")
	}
}

// testDeleteWhileIterating verifies the Keys snapshot is decoupled from the
// live collection: deleting entries while walking the snapshot must visit
// every key exactly once and skip nothing.
func testDeleteWhileIterating(t *testing.T, engine db.HostKV) {
	defer engine.Close()

	requireFeature(t, engine, db.FeatureSet)
	requireFeature(t, engine, db.FeatureKeys)
	requireFeature(t, engine, db.FeatureDelete)
	requireFeature(t, engine, db.FeatureLen)

	numKeys := 100
	for i := 0; i < numKeys; i++ {
		if err := engine.Set(fmt.Sprintf("iter-key-%d", i), []byte("iter-value")); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	keys, err := engine.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != numKeys {
		t.Fatalf("Expected %d keys, got %d", numKeys, len(keys))
	}

	for _, key := range keys {
		if err := engine.Delete(key); err != nil {
			t.Fatalf("Delete of %s failed: %v", key, err)
		}
	}

	n, _ := engine.Len()
	if n != 0 {
		t.Errorf("Expected 0 entries after deleting every snapshot key, got %d", n)
	}
}

func testEdgeCases(t *testing.T, engine db.HostKV) {
	defer engine.Close()

	requireFeature(t, engine, db.FeatureSet)
	requireFeature(t, engine, db.FeatureGet)

	// empty value
	if err := engine.Set("empty-value-key", []byte{}); err != nil {
		t.Fatalf("Set of empty value failed: %v", err)
	}
	value, exists, _ := engine.Get("empty-value-key")
	if !exists {
		t.Errorf("Expected key with empty value to exist")
	}
	if len(value) != 0 {
		t.Errorf("Expected empty value, got %d bytes", len(value))
	}

	// nil value behaves like an empty value
	if err := engine.Set("nil-value-key", nil); err != nil {
		t.Fatalf("Set of nil value failed: %v", err)
	}
	_, exists, _ = engine.Get("nil-value-key")
	if !exists {
		t.Errorf("Expected key with nil value to exist")
	}

	// binary values must round trip unchanged
	binaryValue := []byte{0x00, 0xFF, 0x42, 0x00, 0x13, 0x37}
	if err := engine.Set("binary-key", binaryValue); err != nil {
		t.Fatalf("Set of binary value failed: %v", err)
	}
	value, _, _ = engine.Get("binary-key")
	if !bytes.Equal(value, binaryValue) {
		t.Errorf("Expected binary value %v, got %v", binaryValue, value)
	}

	// long keys
	longKey := ""
	for i := 0; i < 100; i++ {
		longKey += "long-key-segment-"
	}
	if err := engine.Set(longKey, []byte("long-key-value")); err != nil {
		t.Fatalf("Set of long key failed: %v", err)
	}
	_, exists, _ = engine.Get(longKey)
	if !exists {
		t.Errorf("Expected long key to exist")
	}
}

func testConcurrentUsage(t *testing.T, engine db.HostKV) {
	defer engine.Close()

	requireFeature(t, engine, db.FeatureSet)
	requireFeature(t, engine, db.FeatureGet)
	requireFeature(t, engine, db.FeatureDelete)

	numWorkers := 8
	numOpsPerWorker := 100

	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for w := 0; w < numWorkers; w++ {
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < numOpsPerWorker; i++ {
				key := fmt.Sprintf("concurrent-key-%d-%d", worker, i)
				value := []byte(fmt.Sprintf("concurrent-value-%d-%d", worker, i))

				if err := engine.Set(key, value); err != nil {
					t.Errorf("Set failed: %v", err)
					return
				}

				result, exists, err := engine.Get(key)
				if err != nil || !exists {
					t.Errorf("Expected key %s to exist (err=%v)", key, err)
					return
				}
				if !bytes.Equal(result, value) {
					t.Errorf("Expected value %s, got %s", value, result)
					return
				}

				if i%2 == 0 {
					if err := engine.Delete(key); err != nil {
						t.Errorf("Delete failed: %v", err)
						return
					}
				}
			}
		}(w)
	}

	wg.Wait()
}

func testInfo(t *testing.T, engine db.HostKV) {
	defer engine.Close()

	info, err := engine.GetInfo()
	if err != nil {
		t.Fatalf("GetInfo failed: %v", err)
	}
	if info.EngineType == "" {
		t.Errorf("Expected engine type to be set")
	}
	if len(info.SupportedFeatures) == 0 {
		t.Errorf("Expected supported features to be reported")
	}
	for _, feature := range info.SupportedFeatures {
		if !engine.SupportsFeature(feature) {
			t.Errorf("Engine reports feature %s in info but SupportsFeature denies it", feature)
		}
	}
}

func testQuota(t *testing.T, factory func(quotaBytes int64) db.HostKV) {
	engine := factory(64)
	defer engine.Close()

	requireFeature(t, engine, db.FeatureQuota)

	// a small write fits
	if err := engine.Set("a", []byte("small")); err != nil {
		t.Fatalf("Set within quota failed: %v", err)
	}

	// a write that blows the quota must fail with the sentinel and leave the
	// store unchanged
	big := make([]byte, 128)
	err := engine.Set("b", big)
	if err == nil {
		t.Fatalf("Expected quota error for oversized write")
	}
	if !errors.Is(err, db.ErrQuotaExceeded) {
		t.Errorf("Expected error wrapping ErrQuotaExceeded, got %v", err)
	}
	_, exists, _ := engine.Get("b")
	if exists {
		t.Errorf("Expected failed write to leave no entry behind")
	}

	// the existing entry must be untouched
	value, exists, _ := engine.Get("a")
	if !exists || !bytes.Equal(value, []byte("small")) {
		t.Errorf("Expected entry within quota to survive a failed write")
	}

	// an oversized overwrite must keep the old value
	if err := engine.Set("a", big); !errors.Is(err, db.ErrQuotaExceeded) {
		t.Errorf("Expected quota error for oversized overwrite, got %v", err)
	}
	value, exists, _ = engine.Get("a")
	if !exists || !bytes.Equal(value, []byte("small")) {
		t.Errorf("Expected oversized overwrite to keep the old value")
	}
}
