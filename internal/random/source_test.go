package random

import "testing"

func TestPCG_IntnStaysInRange(t *testing.T) {
	src := New(42)
	seen := map[int]bool{}
	for i := 0; i < 5000; i++ {
		v := src.Intn(2, 100)
		if v < 2 || v > 100 {
			t.Fatalf("value %d outside [2,100]", v)
		}
		seen[v] = true
	}
	if !seen[2] || !seen[100] {
		t.Fatalf("bounds never drawn: min=%v max=%v", seen[2], seen[100])
	}
}

func TestPCG_SameSeedSameSequence(t *testing.T) {
	a, b := New(7), New(7)
	for i := 0; i < 50; i++ {
		if x, y := a.Intn(0, 1000), b.Intn(0, 1000); x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
	}
}

func TestPCG_ReversedBoundsAndSingleton(t *testing.T) {
	src := New(1)
	if v := src.Intn(5, 5); v != 5 {
		t.Fatalf("singleton range gave %d", v)
	}
	for i := 0; i < 100; i++ {
		if v := src.Intn(10, 3); v < 3 || v > 10 {
			t.Fatalf("reversed bounds gave %d", v)
		}
	}
}
