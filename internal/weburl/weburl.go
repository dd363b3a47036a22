// Package weburl provides the host/page parsing and local-archive-path
// mapping primitives the crawl engine needs, without pulling in a DOM or
// full URI-reference-resolution library (the spec's link extraction is
// pattern-based, not parser-based; see internal/crawl).
package weburl

import (
	"net/url"
	"os"
	"path"
	"strings"
)

// ParseHost extracts the host component of a URL, stripping a leading
// scheme and any trailing path/query. "example.com" is returned
// verbatim for both "http://example.com/a" and "example.com/a".
func ParseHost(u string) string {
	s := stripScheme(u)
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	return s
}

// ParsePage extracts the path+query component of a URL, defaulting to
// "/" when none is present.
func ParsePage(u string) string {
	s := stripScheme(u)
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		return s[i:]
	}
	return "/"
}

func stripScheme(u string) string {
	if i := strings.Index(u, "://"); i >= 0 {
		return u[i+3:]
	}
	return u
}

// MakeFullURL resolves a relative reference found on currentPage into an
// absolute URL, following the same cases the original crawler handles:
// protocol-relative ("//host/path"), absolute ("http://host/path"),
// root-relative ("/path") and page-relative ("path").
func MakeFullURL(primaryHost, scheme, currentPage, relative string) string {
	if strings.HasPrefix(relative, "//") {
		return scheme + ":" + relative
	}
	if strings.Contains(relative, "://") {
		return relative
	}
	if strings.HasPrefix(relative, "/") {
		return scheme + "://" + primaryHost + relative
	}

	dir := currentPage
	if i := strings.LastIndex(dir, "/"); i >= 0 {
		dir = dir[:i+1]
	} else {
		dir = "/"
	}
	return scheme + "://" + primaryHost + path.Clean(dir+relative)
}

// MakeLocalURL maps an absolute URL onto its on-disk archive path, rooted
// at archiveRoot. A URL whose page component looks like a directory
// (ends in "/" or has no file extension) is mapped to an "index.html"
// file inside that directory, so it can never collide with the
// directory entry representing the same host/path prefix.
func MakeLocalURL(archiveRoot, absoluteURL string) string {
	host := ParseHost(absoluteURL)
	page := ParsePage(absoluteURL)

	if i := strings.IndexAny(page, "?#"); i >= 0 {
		page = page[:i]
	}

	if page == "" || page == "/" {
		page = "/index.html"
	} else if strings.HasSuffix(page, "/") {
		page = page + "index.html"
	} else if path.Ext(page) == "" {
		page = page + "/index.html"
	}

	return path.Join(archiveRoot, host, page)
}

// IsCrossDomain reports whether url's host differs from primaryHost.
func IsCrossDomain(primaryHost, rawURL string) bool {
	return !strings.EqualFold(ParseHost(rawURL), primaryHost)
}

// LocalArchiveExists reports whether rawURL has already been archived on
// disk under archiveRoot, short-circuiting a refetch within the same
// run, matching the original's local_archive_exists() check.
func LocalArchiveExists(archiveRoot, rawURL string) bool {
	_, err := os.Stat(MakeLocalURL(archiveRoot, rawURL))
	return err == nil
}

// Valid reports whether rawURL parses as a URL with a non-empty host,
// either absolute or protocol-relative. The scheme is not checked.
func Valid(rawURL string) bool {
	candidate := rawURL
	if strings.HasPrefix(candidate, "//") {
		candidate = "http:" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil {
		return false
	}
	return u.Host != ""
}
