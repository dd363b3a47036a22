package httpwire

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gamh86/webreaper/internal/rbuf"
	liberr "github.com/nabbar/golib/errors"
)

// MaxResponseSize bounds the fallback "read until </body" receive mode,
// resolving the spec's open question about an unbounded scan when
// neither Content-Length nor chunked transfer-coding is present.
const MaxResponseSize = 16 << 20

const smallReadBlock = 4096

// Conn is the minimal surface ReceiveResponse needs from a connection:
// a plain io.Reader plus a read deadline, matching reconn.Conn.
type Conn interface {
	io.Reader
	SetReadDeadline(t time.Time) error
}

// Response is a received HTTP/1.1 message: status line, headers (as the
// raw unparsed header block, looked up on demand via LookupHeader) and
// body.
type Response struct {
	Status  int
	Headers []byte
	Body    []byte
}

// ReceiveResponse reads a full response from conn: the status line and
// header block first, then the body using whichever of the three modes
// the headers indicate (chunked, Content-Length, or bounded fallback).
func ReceiveResponse(conn Conn, timeout time.Duration) (*Response, liberr.Error) {
	buf := rbuf.New(4096)

	headerEnd, err := readUntilEOH(conn, buf, timeout)
	if err != nil {
		return nil, err
	}

	headers := append([]byte{}, buf.Bytes()[:headerEnd]...)
	status, serr := parseStatusLine(headers)
	if serr != nil {
		return nil, serr
	}

	if err := buf.Collapse(headerEnd + len(eoh)); err != nil {
		return nil, err
	}

	var body []byte
	switch {
	case isChunked(headers):
		body, err = receiveChunked(conn, buf, timeout)
	case contentLength(headers) >= 0:
		body, err = receiveContentLength(conn, buf, contentLength(headers), timeout)
	default:
		body, err = receiveFallback(conn, buf, timeout)
	}
	if err != nil {
		return nil, err
	}

	return &Response{Status: status, Headers: headers, Body: body}, nil
}

func readUntilEOH(conn Conn, buf *rbuf.Buffer, timeout time.Duration) (int, liberr.Error) {
	for {
		if at := buf.Index([]byte(eoh)); at >= 0 {
			return at, nil
		}
		if buf.Len() > MaxResponseSize {
			return 0, ErrResponseTooLarge.Error()
		}
		n, err := readSome(conn, timeout)
		if err != nil {
			return 0, err
		}
		buf.Append(n)
	}
}

func readSome(conn Conn, timeout time.Duration) ([]byte, liberr.Error) {
	if timeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return nil, ErrReadTimeout.Error(err)
		}
	}
	tmp := make([]byte, smallReadBlock)
	n, err := conn.Read(tmp)
	if n == 0 && err != nil {
		return nil, ErrReadTimeout.Error(err)
	}
	return tmp[:n], nil
}

// receiveChunked loops over hex chunk-length lines, collapsing each
// length line and trailing CRLF out of the buffer as it goes, until a
// zero-length chunk terminates the stream.
func receiveChunked(conn Conn, buf *rbuf.Buffer, timeout time.Duration) ([]byte, liberr.Error) {
	var body []byte

	for {
		nl := buf.Index([]byte("\r\n"))
		for nl < 0 {
			n, err := readSome(conn, timeout)
			if err != nil {
				return nil, err
			}
			buf.Append(n)
			nl = buf.Index([]byte("\r\n"))
		}

		line := string(buf.Bytes()[:nl])
		line = strings.TrimSpace(strings.SplitN(line, ";", 2)[0])
		size, perr := strconv.ParseInt(line, 16, 64)
		if perr != nil {
			return nil, ErrProtocolMalformed.Error(perr)
		}
		if err := buf.Collapse(nl + 2); err != nil {
			return nil, err
		}

		if size == 0 {
			// trailing CRLF after the terminating 0-length chunk.
			for buf.Index([]byte("\r\n")) < 0 {
				n, err := readSome(conn, timeout)
				if err != nil {
					return nil, err
				}
				buf.Append(n)
			}
			_ = buf.Collapse(2)
			return body, nil
		}

		for int64(buf.Len()) < size+2 {
			n, err := readSome(conn, timeout)
			if err != nil {
				return nil, err
			}
			buf.Append(n)
			if len(body)+buf.Len() > MaxResponseSize {
				return nil, ErrResponseTooLarge.Error()
			}
		}

		body = append(body, buf.Bytes()[:size]...)
		if err := buf.Collapse(int(size) + 2); err != nil {
			return nil, err
		}
	}
}

func receiveContentLength(conn Conn, buf *rbuf.Buffer, length int, timeout time.Duration) ([]byte, liberr.Error) {
	for buf.Len() < length {
		n, err := readSome(conn, timeout)
		if err != nil {
			return nil, err
		}
		buf.Append(n)
		if buf.Len() > MaxResponseSize {
			return nil, ErrResponseTooLarge.Error()
		}
	}
	body := append([]byte{}, buf.Bytes()[:length]...)
	_ = buf.Collapse(length)
	return body, nil
}

// receiveFallback is used when neither Content-Length nor chunked
// transfer-coding is present: it reads until a closing body tag appears,
// bounded by MaxResponseSize so an absent tag cannot hang the crawl.
func receiveFallback(conn Conn, buf *rbuf.Buffer, timeout time.Duration) ([]byte, liberr.Error) {
	const sentinel = "</body"
	for {
		if at := buf.Index([]byte(sentinel)); at >= 0 {
			body := append([]byte{}, buf.Bytes()[:at+len(sentinel)]...)
			return body, nil
		}
		if buf.Len() >= MaxResponseSize {
			return append([]byte{}, buf.Bytes()...), nil
		}
		n, err := readSome(conn, timeout)
		if err != nil {
			if err.IsCode(ErrReadTimeout) {
				// peer closed without a trailing tag: return whatever arrived.
				return append([]byte{}, buf.Bytes()...), nil
			}
			return nil, err
		}
		buf.Append(n)
	}
}

func isChunked(headers []byte) bool {
	v, ok := LookupHeader(headers, "Transfer-Encoding")
	return ok && strings.EqualFold(strings.TrimSpace(v), "chunked")
}

func contentLength(headers []byte) int {
	v, ok := LookupHeader(headers, "Content-Length")
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return -1
	}
	return n
}

// LookupHeader scans the raw header block for name, case-insensitively.
// A Set-Cookie header is reported back under the canonical name "Cookie"
// so callers never need to special-case the response/request header
// name asymmetry.
func LookupHeader(headers []byte, name string) (string, bool) {
	lookFor := name
	if strings.EqualFold(name, "Cookie") {
		lookFor = "Set-Cookie"
	}

	for _, line := range strings.Split(string(headers), "\r\n") {
		i := strings.Index(line, ":")
		if i < 0 {
			continue
		}
		key := strings.TrimSpace(line[:i])
		if strings.EqualFold(key, lookFor) || strings.EqualFold(key, name) {
			return strings.TrimSpace(line[i+1:]), true
		}
	}
	return "", false
}

// StatusCode parses the status code out of a response's status line.
func StatusCode(headers []byte) (int, liberr.Error) {
	return parseStatusLine(headers)
}

func parseStatusLine(headers []byte) (int, liberr.Error) {
	nl := strings.IndexByte(string(headers), '\n')
	line := string(headers)
	if nl >= 0 {
		line = line[:nl]
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, ErrStatusLineMalformed.Error()
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, ErrStatusLineMalformed.Error(err)
	}
	return code, nil
}

// ConnectionClosed reports whether the response headers indicate the
// peer will close the connection after this response, i.e. whether an
// explicit "Connection: close" header is present. An HTTP/1.0 response
// without that header is not reported as closed.
func ConnectionClosed(headers []byte) bool {
	v, ok := LookupHeader(headers, "Connection")
	if !ok {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(v), "close")
}
