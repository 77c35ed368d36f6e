package intern

import (
	"fmt"
	"sync"
	"testing"
)

func TestGetStable(t *testing.T) {
	Reset()

	a := Get("tenants")
	b := Get("workflows")
	if a == b {
		t.Fatal("distinct strings share an ID")
	}
	if Get("tenants") != a {
		t.Error("repeated Get changed the ID")
	}
	if GetStr(a) != "tenants" || GetStr(b) != "workflows" {
		t.Error("reverse lookup mismatch")
	}
}

func TestEmptyStringSentinel(t *testing.T) {
	Reset()

	if Get("") != InvalidID {
		t.Error("empty string must map to InvalidID")
	}
	if GetStr(InvalidID) != "" {
		t.Error("InvalidID must map back to empty string")
	}
	if GetStr(9999) != "" {
		t.Error("unknown ID must map to empty string")
	}
}

func TestConcurrentGet(t *testing.T) {
	Reset()

	const workers = 16
	ids := make([]uint32, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Everyone interns the same small key set.
			ids[i] = Get("list?tenant=t-acme")
			for j := range 100 {
				Get(fmt.Sprintf("wf-%d", j))
			}
		}()
	}
	wg.Wait()

	for _, id := range ids[1:] {
		if id != ids[0] {
			t.Fatal("concurrent interning produced divergent IDs")
		}
	}
}
