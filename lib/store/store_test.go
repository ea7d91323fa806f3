package store

import (
	"reflect"
	"testing"

	"github.com/ValentinKolb/hKV/lib/db"
	"github.com/ValentinKolb/hKV/lib/db/engines/mem"
	"github.com/ValentinKolb/hKV/lib/serializer"
)

func newTestStore() IStore {
	return New(func() db.HostKV { return mem.NewMemEngine(nil) })
}

func TestStoreRetrieveRoundTrip(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	values := map[string]interface{}{
		"string": "hello",
		"number": float64(42),
		"bool":   true,
		"object": map[string]interface{}{"id": float64(1), "name": "A"},
		"list":   []interface{}{"a", float64(2), false},
	}

	for key, want := range values {
		if err := s.Store(key, want); err != nil {
			t.Fatalf("Store(%q) failed: %v", key, err)
		}

		got, err := s.Retrieve(key)
		if err != nil {
			t.Fatalf("Retrieve(%q) failed: %v", key, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Retrieve(%q) = %#v, want %#v", key, got, want)
		}
	}
}

func TestRetrieveMissingKey(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	value, err := s.Retrieve("never-stored")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if value != nil {
		t.Errorf("Expected nil for a missing key, got %#v", value)
	}
}

func TestRemoveThenRetrieve(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	if err := s.Store("user", map[string]interface{}{"id": 1, "name": "A"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := s.Remove("user"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	value, err := s.Retrieve("user")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if value != nil {
		t.Errorf("Expected nil after Remove, got %#v", value)
	}

	// removing an absent key is not an error
	if err := s.Remove("user"); err != nil {
		t.Errorf("Remove of absent key should not fail, got %v", err)
	}
}

func TestClearThenAmount(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	for _, key := range []string{"a", "b", "c"} {
		if err := s.Store(key, key); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	n, err := s.Amount()
	if err != nil {
		t.Fatalf("Amount failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected 0 entries after Clear, got %d", n)
	}
}

func TestStoreGetReturnsStoredValue(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	want := map[string]interface{}{"id": float64(1), "name": "A"}
	got, err := s.StoreGet("user", want)
	if err != nil {
		t.Fatalf("StoreGet failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("StoreGet = %#v, want %#v", got, want)
	}
}

func TestInvalidKeys(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	invalidKeys := []string{"", "   ", "\t\n"}

	for _, key := range invalidKeys {
		if err := s.Store(key, "value"); Code(err) != RetCInvalidKey {
			t.Errorf("Store(%q) expected RetCInvalidKey, got %v", key, err)
		}
		if _, err := s.Retrieve(key); Code(err) != RetCInvalidKey {
			t.Errorf("Retrieve(%q) expected RetCInvalidKey, got %v", key, err)
		}
		if err := s.Remove(key); Code(err) != RetCInvalidKey {
			t.Errorf("Remove(%q) expected RetCInvalidKey, got %v", key, err)
		}
		if _, err := s.AmountOf(key); Code(err) != RetCInvalidKey {
			t.Errorf("AmountOf(%q) expected RetCInvalidKey, got %v", key, err)
		}
		if _, err := s.StoreGet(key, "value"); Code(err) != RetCInvalidKey {
			t.Errorf("StoreGet(%q) expected RetCInvalidKey, got %v", key, err)
		}
	}

	// the store must be untouched by the rejected operations
	n, err := s.Amount()
	if err != nil {
		t.Fatalf("Amount failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected 0 entries after rejected operations, got %d", n)
	}
}

func TestQuotaExceeded(t *testing.T) {
	s := New(func() db.HostKV {
		return mem.NewMemEngine(&mem.EngineOptions{QuotaBytes: 32})
	})
	defer s.Close()

	big := make([]interface{}, 0, 64)
	for i := 0; i < 64; i++ {
		big = append(big, "padding")
	}

	err := s.Store("big", big)
	if Code(err) != RetCQuotaExceeded {
		t.Fatalf("Expected RetCQuotaExceeded, got %v", err)
	}

	// the entry must not exist after the failed write
	value, rerr := s.Retrieve("big")
	if rerr != nil {
		t.Fatalf("Retrieve failed: %v", rerr)
	}
	if value != nil {
		t.Errorf("Expected no entry after quota failure, got %#v", value)
	}

	// StoreGet after a quota failure returns nil plus the write error
	stored, err := s.StoreGet("big", big)
	if Code(err) != RetCQuotaExceeded {
		t.Errorf("Expected RetCQuotaExceeded from StoreGet, got %v", err)
	}
	if stored != nil {
		t.Errorf("Expected nil stored value after quota failure, got %#v", stored)
	}
}

func TestClean(t *testing.T) {
	engine := mem.NewMemEngine(nil)
	s := New(func() db.HostKV { return engine })
	defer s.Close()

	// valid entries through the facade
	if err := s.Store("keep-string", "value"); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := s.Store("keep-object", map[string]interface{}{"a": float64(1)}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	// garbage entries written directly to the engine, bypassing validation:
	// blank keys, null values, empty strings and empty payloads
	garbage := map[string][]byte{
		"":             []byte(`"orphan"`),
		"   ":          []byte(`"orphan"`),
		"null-value":   []byte(`null`),
		"empty-string": []byte(`""`),
		"empty-bytes":  {},
	}
	for key, raw := range garbage {
		if err := engine.Set(key, raw); err != nil {
			t.Fatalf("engine Set failed: %v", err)
		}
	}

	removed, err := s.Clean()
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if removed != len(garbage) {
		t.Errorf("Expected %d removed entries, got %d", len(garbage), removed)
	}

	// valid entries survive
	for _, key := range []string{"keep-string", "keep-object"} {
		value, err := s.Retrieve(key)
		if err != nil {
			t.Fatalf("Retrieve(%q) failed: %v", key, err)
		}
		if value == nil {
			t.Errorf("Expected entry %q to survive Clean", key)
		}
	}

	n, _ := s.Amount()
	if n != 2 {
		t.Errorf("Expected 2 entries after Clean, got %d", n)
	}

	// a second pass finds nothing to remove
	removed, err = s.Clean()
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("Expected idempotent Clean, got %d removals", removed)
	}
}

func TestAmountOf(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	if err := s.Store("key", "value"); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	// the serialized form is `"value"` = 7 bytes
	n, err := s.AmountOf("key")
	if err != nil {
		t.Fatalf("AmountOf failed: %v", err)
	}
	if n != 7 {
		t.Errorf("Expected serialized length 7, got %d", n)
	}

	// an absent key reports length 0 and no error
	n, err = s.AmountOf("absent")
	if err != nil {
		t.Fatalf("AmountOf of absent key failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected length 0 for absent key, got %d", n)
	}
}

func TestSupported(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	if !s.Supported() {
		t.Errorf("Expected mem-backed facade to report supported")
	}
}

func TestGobSerializerOption(t *testing.T) {
	s := New(
		func() db.HostKV { return mem.NewMemEngine(nil) },
		WithSerializer(serializer.NewGOBSerializer()),
	)
	defer s.Close()

	if err := s.Store("count", 42); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	got, err := s.Retrieve("count")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if n, ok := got.(int); !ok || n != 42 {
		t.Errorf("Expected int(42) through gob, got %T(%v)", got, got)
	}
}
