package urlindex

import (
	"sort"
	"testing"
)

func TestInsertDedup(t *testing.T) {
	idx := New()

	ok, err := idx.Insert("http://example.com/a")
	if err != nil || !ok {
		t.Fatalf("first insert: ok=%v err=%v", ok, err)
	}

	ok, err = idx.Insert("http://example.com/a")
	if err != nil {
		t.Fatalf("duplicate insert returned error: %v", err)
	}
	if ok {
		t.Fatalf("duplicate insert reported as new")
	}

	if got := idx.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
}

func TestInOrderSorted(t *testing.T) {
	idx := New()
	urls := []string{
		"http://example.com/z",
		"http://example.com/a",
		"http://example.com/m",
		"http://example.com/b",
	}
	for _, u := range urls {
		if _, err := idx.Insert(u); err != nil {
			t.Fatalf("insert %s: %v", u, err)
		}
	}

	want := append([]string{}, urls...)
	sort.Strings(want)

	got := idx.InOrder()
	if len(got) != len(want) {
		t.Fatalf("InOrder() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("InOrder()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestInsertTooLong(t *testing.T) {
	idx := New()
	long := make([]byte, MaxURLLength+1)
	for i := range long {
		long[i] = 'a'
	}
	if ok, err := idx.Insert(string(long)); ok || err == nil {
		t.Fatalf("expected rejection of oversized url, got ok=%v err=%v", ok, err)
	}
}

func TestResetClearsIndex(t *testing.T) {
	idx := New()
	if _, err := idx.Insert("http://example.com/a"); err != nil {
		t.Fatal(err)
	}
	idx.Reset()
	if got := idx.Len(); got != 0 {
		t.Fatalf("Len() after Reset = %d, want 0", got)
	}
	if idx.Lookup("http://example.com/a") {
		t.Fatalf("Lookup found entry after Reset")
	}
}

func TestInsertionOrderPreserved(t *testing.T) {
	idx := New()
	urls := []string{
		"http://example.com/z",
		"http://example.com/a",
		"http://example.com/m",
	}
	for _, u := range urls {
		if _, err := idx.Insert(u); err != nil {
			t.Fatal(err)
		}
	}
	got := idx.InsertionOrder()
	if len(got) != len(urls) {
		t.Fatalf("InsertionOrder() len = %d, want %d", len(got), len(urls))
	}
	for i := range urls {
		if got[i] != urls[i] {
			t.Fatalf("InsertionOrder()[%d] = %q, want %q", i, got[i], urls[i])
		}
	}
}

func TestLookupDoesNotBumpCount(t *testing.T) {
	idx := New()
	if _, err := idx.Insert("http://example.com/a"); err != nil {
		t.Fatal(err)
	}
	if !idx.Lookup("http://example.com/a") {
		t.Fatalf("expected Lookup to find inserted url")
	}
	if idx.Lookup("http://example.com/missing") {
		t.Fatalf("Lookup found a url that was never inserted")
	}
	if got := idx.entries[idx.root].requests; got != 0 {
		t.Fatalf("requests after Lookup = %d, want 0", got)
	}
}
