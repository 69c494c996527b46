package report

import (
	"fmt"
	"sync"
	"testing"
)

func TestObscure_FullReturnsMaster(t *testing.T) {
	e := New(100)
	e.AddObscure("Atlas", false)
	e.Add("25")

	if got := Obscure(e, "alice", true); got != e {
		t.Fatalf("full view should be the master entry itself")
	}
	if WasRedactedFor(e, "alice") {
		t.Fatalf("full delivery must not be recorded as redacted")
	}
}

func TestObscure_RedactsSensitiveOnCopy(t *testing.T) {
	e := New(100)
	e.AddObscure("Atlas", false)
	e.Add("25")

	view := Obscure(e, "bob", false)
	if view == e {
		t.Fatalf("redacted view must be a copy")
	}
	first, _ := view.Value(0)
	if first.Redacted() {
		t.Fatalf("non-sensitive value should survive")
	}
	second, _ := view.Value(1)
	if !second.Redacted() {
		t.Fatalf("sensitive value should be redacted")
	}
	master, _ := e.Value(1)
	if master.Redacted() {
		t.Fatalf("master entry must keep its payload")
	}
	if !WasRedactedFor(e, "bob") {
		t.Fatalf("recipient should be recorded on the master entry")
	}
}

func TestTracker_MonotonicAndDeduplicated(t *testing.T) {
	var tr Tracker
	tr.Record("alice")
	tr.Record("bob")
	tr.Record("alice")
	if tr.Len() != 2 {
		t.Fatalf("expected 2 recipients, got %d", tr.Len())
	}
	got := tr.List()
	if got[0] != "alice" || got[1] != "bob" {
		t.Fatalf("unexpected order %v", got)
	}
	got[0] = "mallory"
	if !tr.Has("alice") || tr.Has("mallory") {
		t.Fatalf("List must return a copy")
	}
}

func TestTracker_ConcurrentRecord(t *testing.T) {
	e := New(1)
	e.Add("x")

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			Obscure(e, fmt.Sprintf("p%d", i%8), false)
		}(i)
	}
	wg.Wait()

	if n := e.Recipients().Len(); n != 8 {
		t.Fatalf("expected 8 distinct recipients, got %d", n)
	}
}
