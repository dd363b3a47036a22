package crawl

import (
	"strings"

	"github.com/gamh86/webreaper/internal/weburl"
)

const maxLinkLength = 256

var disallowedSubstrings = []string{
	"javascript:",
	"data:image",
	".exe",
	".dll",
	"cgi-",
}

// accept applies the link acceptance predicate (§4.7): every clause must
// hold for a candidate relative/absolute URL found on currentPage to be
// queued for the next level.
func accept(opt Options, primaryHost string, currentPage string, drainingHasIt func(string) bool, candidate string) (string, bool) {
	if len(candidate) >= maxLinkLength {
		return "", false
	}
	if strings.Contains(candidate, "#") {
		return "", false
	}
	for _, bad := range disallowedSubstrings {
		if strings.Contains(candidate, bad) {
			return "", false
		}
	}
	if isShortAbsolute(candidate) {
		return "", false
	}

	full := weburl.MakeFullURL(primaryHost, scheme(opt.TLS), currentPage, candidate)

	if weburl.LocalArchiveExists(opt.ArchiveRoot, full) {
		return "", false
	}
	if !opt.AllowXDomain && weburl.IsCrossDomain(primaryHost, full) {
		return "", false
	}
	if drainingHasIt(full) {
		return "", false
	}

	return full, true
}

// isShortAbsolute rejects a string that merely claims to be absolute
// ("http://" or "https://" with nothing after it).
func isShortAbsolute(candidate string) bool {
	for _, p := range []string{"http://", "https://"} {
		if strings.HasPrefix(candidate, p) && len(candidate) <= len(p) {
			return true
		}
	}
	return false
}

func scheme(tls bool) string {
	if tls {
		return "https"
	}
	return "http"
}

// parseable reports whether a page's URL extension belongs to the set
// eligible for in-place link rewriting before archival.
func parseable(pageURL string) bool {
	p := weburl.ParsePage(pageURL)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	switch {
	case strings.HasSuffix(p, "/"):
		return true
	case strings.HasSuffix(p, ".html"), strings.HasSuffix(p, ".htm"):
		return true
	default:
		return false
	}
}

// rewriteURLs replaces every non-absolute, sub-1024-byte URL occurrence
// in body with its local archive path, so an archived page's links point
// at sibling files in the mirror rather than back out to the network.
// Rewriting proceeds right-to-left so earlier offsets are unaffected by
// a replacement's length change.
func rewriteURLs(body []byte, archiveRoot, primaryHost, pageURL string, tls bool) []byte {
	occ := scan(body)
	for i := len(occ) - 1; i >= 0; i-- {
		o := occ[i]
		if len(o.url) >= 1024 {
			continue
		}
		if strings.Contains(o.url, "://") {
			continue
		}
		full := weburl.MakeFullURL(primaryHost, scheme(tls), pageURL, o.url)
		local := weburl.MakeLocalURL(archiveRoot, full)
		body = append(body[:o.start], append([]byte(local), body[o.end:]...)...)
	}
	return body
}
