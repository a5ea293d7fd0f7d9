package types

import "testing"

func TestWordRoundTrips(t *testing.T) {
	if !BoolWord(true).Bool() || BoolWord(false).Bool() {
		t.Fatal("bool round trip broken")
	}
	if ButtonWord(ButtonLongPressed).Button() != ButtonLongPressed {
		t.Fatal("button round trip broken")
	}
	for _, f := range []float32{0, 1.5, -3.25, 1e-20} {
		if FloatWord(f).Float() != f {
			t.Fatalf("float round trip broken for %v", f)
		}
	}
	for _, i := range []int32{0, -1, 42, -2147483648} {
		if IntWord(i).Int() != i {
			t.Fatalf("int round trip broken for %d", i)
		}
	}
	if UintWord(0xDEADBEEF).Uint() != 0xDEADBEEF {
		t.Fatal("uint round trip broken")
	}
}

func TestWordBitEquality(t *testing.T) {
	// Distinct float bit patterns must compare unequal even when close.
	a := FloatWord(1.0)
	b := FloatWord(1.0000001)
	if a == b {
		t.Fatal("distinct float bit patterns compared equal")
	}
	if FloatWord(2.5) != FloatWord(2.5) {
		t.Fatal("identical floats compared unequal")
	}
}

func TestTypeNames(t *testing.T) {
	want := map[DatapointType]string{
		Binary: "binary", Button: "button", Float: "float",
		Int: "int", MultiState: "multi_state", Uint: "uint",
	}
	for typ, name := range want {
		if typ.String() != name {
			t.Errorf("%d.String() = %q, want %q", typ, typ.String(), name)
		}
	}
}
