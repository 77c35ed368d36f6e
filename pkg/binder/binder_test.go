package binder

import (
	"errors"
	"testing"
)

func TestBinderLifecycle(t *testing.T) {
	b := New()

	// Freshly mounted: nothing but Loading.
	if got := b.State(); got.Phase != Loading || got.Value != nil {
		t.Fatalf("new binder: want empty Loading, got %+v", got)
	}

	// First resolve with items lands in Ready.
	st := b.Resolve([]string{"a", "b"}, 2, nil)
	if st.Phase != Ready {
		t.Fatalf("resolve: want Ready, got %s", st.Phase)
	}

	// Refresh goes back to Loading but keeps the data on screen.
	st = b.Refresh()
	if st.Phase != Loading {
		t.Fatalf("refresh: want Loading, got %s", st.Phase)
	}
	if st.Value == nil {
		t.Fatal("refresh dropped the last good value")
	}

	// A failed refresh shows the error, still keeping the data.
	boom := errors.New("backend down")
	st = b.Resolve(nil, 0, boom)
	if st.Phase != Error || !errors.Is(st.Err, boom) {
		t.Fatalf("failed resolve: want Error(boom), got %+v", st)
	}
	if st.Value == nil {
		t.Fatal("error state dropped the last good value")
	}

	// Reset is a parameter change: everything gone.
	st = b.Reset()
	if st.Phase != Loading || st.Value != nil || st.Err != nil {
		t.Fatalf("reset: want empty Loading, got %+v", st)
	}
}

func TestBinderResolve(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name  string
		value any
		count int
		err   error
		want  Phase
	}{
		{"items go Ready", []int{1}, 1, nil, Ready},
		{"zero items go Empty", []int{}, 0, nil, Empty},
		{"error goes Error", nil, 0, boom, Error},
		{"error wins over items", []int{1}, 1, boom, Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			if got := b.Resolve(tt.value, tt.count, tt.err); got.Phase != tt.want {
				t.Errorf("want %s, got %s", tt.want, got.Phase)
			}
		})
	}
}
