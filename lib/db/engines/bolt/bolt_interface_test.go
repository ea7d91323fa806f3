package bolt

import (
	"path/filepath"
	"testing"

	"github.com/ValentinKolb/hKV/lib/db"
	dbtesting "github.com/ValentinKolb/hKV/lib/db/testing"
)

func Test(t *testing.T) {
	dbtesting.RunHostKVTests(t, "BoltEngine", func() db.HostKV {
		engine, err := NewBoltEngine(DefaultOptions(filepath.Join(t.TempDir(), "store.db")))
		if err != nil {
			t.Fatalf("failed to create bolt engine: %v", err)
		}
		return engine
	})

	dbtesting.RunHostKVQuotaTests(t, "BoltEngine", func(quotaBytes int64) db.HostKV {
		opts := DefaultOptions(filepath.Join(t.TempDir(), "store.db"))
		opts.QuotaBytes = quotaBytes
		engine, err := NewBoltEngine(opts)
		if err != nil {
			t.Fatalf("failed to create bolt engine: %v", err)
		}
		return engine
	})
}

// TestPersistence verifies that entries written through one engine instance
// are visible through a new instance opened on the same file.
func TestPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	engine, err := NewBoltEngine(DefaultOptions(path))
	if err != nil {
		t.Fatalf("failed to create bolt engine: %v", err)
	}
	if err := engine.Set("persistent-key", []byte("persistent-value")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := engine.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewBoltEngine(DefaultOptions(path))
	if err != nil {
		t.Fatalf("failed to reopen bolt engine: %v", err)
	}
	defer reopened.Close()

	value, exists, err := reopened.Get("persistent-key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !exists {
		t.Fatalf("Expected entry to survive a reopen")
	}
	if string(value) != "persistent-value" {
		t.Errorf("Expected persistent-value, got %s", value)
	}

	// the quota tracker must be rebuilt from the existing entries
	info, err := reopened.GetInfo()
	if err != nil {
		t.Fatalf("GetInfo failed: %v", err)
	}
	want := len("persistent-key") + len("persistent-value")
	if info.SizeBytes != want {
		t.Errorf("Expected tracked size %d after reopen, got %d", want, info.SizeBytes)
	}
}

func Benchmark(b *testing.B) {
	dbtesting.RunHostKVBenchmarks(b, "BoltEngine", func() db.HostKV {
		engine, err := NewBoltEngine(DefaultOptions(filepath.Join(b.TempDir(), "store.db")))
		if err != nil {
			b.Fatalf("failed to create bolt engine: %v", err)
		}
		return engine
	})
}
