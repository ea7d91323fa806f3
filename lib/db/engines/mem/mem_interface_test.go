package mem

import (
	"testing"

	"github.com/ValentinKolb/hKV/lib/db"
	dbtesting "github.com/ValentinKolb/hKV/lib/db/testing"
)

func Test(t *testing.T) {
	dbtesting.RunHostKVTests(t, "MemEngine", func() db.HostKV {
		return NewMemEngine(nil)
	})

	dbtesting.RunHostKVQuotaTests(t, "MemEngine", func(quotaBytes int64) db.HostKV {
		return NewMemEngine(&EngineOptions{QuotaBytes: quotaBytes})
	})
}

func Benchmark(b *testing.B) {
	dbtesting.RunHostKVBenchmarks(b, "MemEngine", func() db.HostKV {
		return NewMemEngine(nil)
	})
}
