package crawl

import "testing"

func TestScanFindsHrefAndSrc(t *testing.T) {
	body := []byte(`<a href="/a/b">x</a><img src="c.png">`)
	occ := scan(body)
	if len(occ) != 2 {
		t.Fatalf("scan() found %d occurrences, want 2", len(occ))
	}
	if occ[0].url != "/a/b" {
		t.Fatalf("occ[0].url = %q", occ[0].url)
	}
	if occ[1].url != "c.png" {
		t.Fatalf("occ[1].url = %q", occ[1].url)
	}
}

func TestAcceptRejectsFragment(t *testing.T) {
	opt := Options{ArchiveRoot: t.TempDir()}
	_, ok := accept(opt, "example.com", "/", func(string) bool { return false }, "/a#frag")
	if ok {
		t.Fatalf("expected rejection of url with fragment")
	}
}

func TestAcceptRejectsDisallowedSubstring(t *testing.T) {
	opt := Options{ArchiveRoot: t.TempDir()}
	_, ok := accept(opt, "example.com", "/", func(string) bool { return false }, "javascript:alert(1)")
	if ok {
		t.Fatalf("expected rejection of javascript: url")
	}
}

func TestAcceptRejectsCrossDomainByDefault(t *testing.T) {
	opt := Options{ArchiveRoot: t.TempDir(), AllowXDomain: false}
	_, ok := accept(opt, "example.com", "/", func(string) bool { return false }, "http://other.com/x")
	if ok {
		t.Fatalf("expected rejection of cross-domain url")
	}
}

func TestAcceptAllowsCrossDomainWhenEnabled(t *testing.T) {
	opt := Options{ArchiveRoot: t.TempDir(), AllowXDomain: true}
	full, ok := accept(opt, "example.com", "/", func(string) bool { return false }, "http://other.com/x")
	if !ok || full != "http://other.com/x" {
		t.Fatalf("accept() = %q, %v", full, ok)
	}
}

func TestAcceptRejectsAlreadyDraining(t *testing.T) {
	opt := Options{ArchiveRoot: t.TempDir()}
	_, ok := accept(opt, "example.com", "/", func(string) bool { return true }, "/already-seen")
	if ok {
		t.Fatalf("expected rejection of url already present in draining cache")
	}
}

func TestParseable(t *testing.T) {
	if !parseable("http://example.com/") {
		t.Errorf("expected / to be parseable")
	}
	if !parseable("http://example.com/a.html") {
		t.Errorf("expected .html to be parseable")
	}
	if parseable("http://example.com/a.png") {
		t.Errorf("expected .png to not be parseable")
	}
}
