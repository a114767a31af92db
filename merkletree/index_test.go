package merkletree

import "testing"

func TestIndexChildParent(t *testing.T) {
	if got := RootIndex.Left(); got != 2 {
		t.Fatalf("Left() = %d, want 2", got)
	}
	if got := RootIndex.Right(); got != 3 {
		t.Fatalf("Right() = %d, want 3", got)
	}
	p, ok := Index(2).Parent()
	if !ok || p != RootIndex {
		t.Fatalf("Parent() = (%d, %v), want (1, true)", p, ok)
	}
	if _, ok := RootIndex.Parent(); ok {
		t.Fatalf("RootIndex.Parent() ok = true, want false")
	}
}

func TestIndexDepth(t *testing.T) {
	cases := []struct {
		i     Index
		depth uint8
	}{
		{1, 0},
		{2, 1},
		{3, 1},
		{4, 2},
		{7, 2},
		{8, 3},
	}
	for _, c := range cases {
		if got := c.i.Depth(); got != c.depth {
			t.Fatalf("Index(%d).Depth() = %d, want %d", c.i, got, c.depth)
		}
	}
}

func TestIndexIsLeft(t *testing.T) {
	if RootIndex.IsLeft() {
		t.Fatalf("root must not be considered a left child")
	}
	if !Index(2).IsLeft() {
		t.Fatalf("2 (left child of 1) must be left")
	}
	if Index(3).IsLeft() {
		t.Fatalf("3 (right child of 1) must not be left")
	}
	if !Index(4).IsLeft() {
		t.Fatalf("4 (left child of 2) must be left")
	}
	if Index(5).IsLeft() {
		t.Fatalf("5 (right child of 2) must not be left")
	}
}

func TestFromDepthAndBack(t *testing.T) {
	for depth := uint8(0); depth < 10; depth++ {
		for offset := uint64(0); offset < uint64(1)<<depth; offset++ {
			idx := FromDepth(offset, depth)
			gotDepth, gotOffset := idx.DepthOffset()
			if gotDepth != depth || gotOffset != offset {
				t.Fatalf("FromDepth(%d, %d) -> DepthOffset() = (%d, %d), want (%d, %d)",
					offset, depth, gotDepth, gotOffset, depth, offset)
			}
		}
	}
}

func TestFromDepthPanicsOnOutOfRangeOffset(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for offset out of range")
		}
	}()
	FromDepth(4, 2)
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[uint64]uint64{
		0: 1, 1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 7: 8, 8: 8, 9: 16,
	}
	for n, want := range cases {
		if got := NextPowerOfTwo(n); got != want {
			t.Fatalf("NextPowerOfTwo(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestLog2(t *testing.T) {
	cases := map[uint64]uint8{
		0: 0, 1: 0, 2: 1, 3: 2, 4: 2, 5: 3, 8: 3, 9: 4, 16: 4,
	}
	for n, want := range cases {
		if got := Log2(n); got != want {
			t.Fatalf("Log2(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestIsPowerOf2(t *testing.T) {
	for n := uint64(1); n <= 1024; n *= 2 {
		if !IsPowerOf2(n) {
			t.Fatalf("IsPowerOf2(%d) = false, want true", n)
		}
	}
	for _, n := range []uint64{0, 3, 5, 6, 7, 9, 1023} {
		if IsPowerOf2(n) {
			t.Fatalf("IsPowerOf2(%d) = true, want false", n)
		}
	}
}
