package mathx

import "testing"

func TestClamp(t *testing.T) {
	if Clamp(5, 1, 10) != 5 {
		t.Fatal("in-range value must pass through")
	}
	if Clamp(0, 1, 511) != 1 {
		t.Fatal("below-range value must clamp to lo")
	}
	if Clamp(1_000_000, 1, 511) != 511 {
		t.Fatal("above-range value must clamp to hi")
	}
	// Swapped bounds.
	if Clamp(7, 10, 1) != 7 {
		t.Fatal("swapped bounds must still clamp correctly")
	}
}

func TestMin(t *testing.T) {
	if Min(3, 9) != 3 || Min(9, 3) != 3 {
		t.Fatal("Min broken")
	}
}
