// Package httpwire implements the request framing and response receipt
// logic the crawl engine needs: building a bare HTTP/1.1 request line and
// header block, and pulling a full response out of a connection's read
// buffer whether it arrives chunked, with a Content-Length, or with
// neither (bounded fallback scan for a closing body tag).
package httpwire

import (
	"fmt"
	"strings"

	"github.com/gamh86/webreaper/internal/rbuf"
)

const (
	httpVersion  = "1.1"
	defaultAgent = "WebReaper/1.0"
	defaultAccept = "*/*"
	eoh           = "\r\n\r\n"
)

// BuildRequest renders the request-line plus header block for verb
// against target on host, matching the original's field order and the
// bare-minimum header set (Host, User-Agent, Accept, Connection).
//
// extra header lines (most commonly a single "Cookie" line reflected
// back from a prior Set-Cookie) are spliced in just before the
// terminating blank line using the rbuf Shift primitive, rather than
// being string-concatenated in.
func BuildRequest(host, verb, target, userAgent string, extra []HeaderLine) []byte {
	h := strings.TrimSuffix(host, "/")
	if userAgent == "" {
		userAgent = defaultAgent
	}

	buf := rbuf.New(512)
	buf.Append([]byte(fmt.Sprintf(
		"%s %s HTTP/%s\r\n"+
			"User-Agent: %s\r\n"+
			"Accept: %s\r\n"+
			"Host: %s\r\n"+
			"Connection: keep-alive"+eoh,
		verb, target, httpVersion, userAgent, defaultAccept, h,
	)))

	if len(extra) > 0 {
		at := buf.Index([]byte(eoh))
		var extraLines strings.Builder
		for _, e := range extra {
			extraLines.WriteString(e.Name)
			extraLines.WriteString(": ")
			extraLines.WriteString(e.Value)
			extraLines.WriteString("\r\n")
		}
		// at+2 keeps the last header's own CRLF ahead of the new lines.
		_ = buf.Shift(at+2, []byte(extraLines.String()))
	}

	return buf.Bytes()
}

// HeaderLine is a single (name, value) header pair.
type HeaderLine struct {
	Name  string
	Value string
}
