package logger

import "testing"

func TestNew(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		l, err := New(verbose)
		if err != nil {
			t.Fatalf("New(%v): %v", verbose, err)
		}
		if l == nil {
			t.Fatalf("New(%v) returned nil logger", verbose)
		}
	}
}

func TestNamedNilBase(t *testing.T) {
	l := Named(nil, "ingest")
	if l == nil {
		t.Fatal("Named(nil) must return a usable no-op logger")
	}
	// must not panic
	l.Info("noop")
}
