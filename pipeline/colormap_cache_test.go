package pipeline

import (
	"image/color"
	"sync"
	"sync/atomic"
	"testing"
)

func TestTableCacheSingleFlight(t *testing.T) {
	cache := NewTableCache()
	key := TableKey{Ramp: "test", Mode: TableModeLinear, Size: 256}

	var builds int32
	build := func() (*ColorTable, error) {
		atomic.AddInt32(&builds, 1)
		return BuildLinearTable([]color.RGBA{black, white}, 256)
	}

	var wg sync.WaitGroup
	tables := make([]*ColorTable, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			table, err := cache.Get(key, build)
			if err != nil {
				t.Errorf("get failed: %v", err)
			}
			tables[i] = table
		}(i)
	}
	wg.Wait()

	if n := atomic.LoadInt32(&builds); n != 1 {
		t.Errorf("table built %d times, expecting 1", n)
	}
	for i := 1; i < len(tables); i++ {
		if tables[i] != tables[0] {
			t.Errorf("caller %d received a different table instance", i)
		}
	}
	if cache.Len() != 1 {
		t.Errorf("expecting 1 cached table, actual %d", cache.Len())
	}
}

func TestTableCacheDistinctKeys(t *testing.T) {
	cache := NewTableCache()
	build := func() (*ColorTable, error) {
		return BuildLinearTable([]color.RGBA{black, white}, 16)
	}

	a, _ := cache.Get(TableKey{Ramp: "a", Mode: TableModeLinear, Size: 16}, build)
	b, _ := cache.Get(TableKey{Ramp: "a", Mode: TableModeGamma, Gamma: 0.5, Size: 16}, build)
	if a == b {
		t.Errorf("different keys must not share an entry")
	}
	if cache.Len() != 2 {
		t.Errorf("expecting 2 cached tables, actual %d", cache.Len())
	}
}

func TestTableCacheFailedBuildNotCached(t *testing.T) {
	cache := NewTableCache()
	key := TableKey{Ramp: "bad", Mode: TableModeLinear, Size: 1}

	if _, err := cache.Get(key, func() (*ColorTable, error) {
		return BuildLinearTable([]color.RGBA{black, white}, 1)
	}); err == nil {
		t.Fatalf("expected build error")
	}
	if cache.Len() != 0 {
		t.Errorf("failed build must not be cached")
	}

	table, err := cache.Get(key, func() (*ColorTable, error) {
		return BuildLinearTable([]color.RGBA{black, white}, 16)
	})
	if err != nil || table == nil {
		t.Errorf("retry after failed build must succeed: %v", err)
	}
}
