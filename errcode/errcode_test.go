package errcode

import "testing"

func TestOf(t *testing.T) {
	if Of(nil) != OK {
		t.Fatalf("Of(nil) = %v, want OK", Of(nil))
	}
	if Of(QueueFull) != QueueFull {
		t.Fatalf("Of(QueueFull) = %v", Of(QueueFull))
	}
	e := &E{C: Timeout, Msg: "response queue"}
	if Of(e) != Timeout {
		t.Fatalf("Of(E{Timeout}) = %v", Of(e))
	}
}

func TestErrnoStable(t *testing.T) {
	cases := map[Code]int{
		OK:            0,
		InvalidParams: 22,
		NoSpace:       28,
		QueueFull:     105,
		NotFound:      3,
		DeviceBusy:    16,
		Timeout:       116,
		Unsupported:   95,
	}
	for c, want := range cases {
		if got := Errno(c); got != want {
			t.Errorf("Errno(%s) = %d, want %d", c, got, want)
		}
	}
}
