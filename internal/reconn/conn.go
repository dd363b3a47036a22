// Package reconn implements the crawler's single outbound TCP/TLS
// connection: host bookkeeping, dial/close/reconnect, and the
// plain-to-TLS upgrade a redirect to an https:// page triggers mid-crawl.
//
// Connection and its optional TLS layer are modeled as a sum type (state
// plus an optional *tls.Conn) rather than as two parallel code paths, the
// redesign the original spec calls for.
package reconn

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"

	libtls "github.com/nabbar/golib/certificates"
	liberr "github.com/nabbar/golib/errors"
)

// State is the connection's lifecycle state.
type State uint8

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

const (
	httpPort  = "80"
	httpsPort = "443"
)

var tlsOnce sync.Once
var tlsDialer *net.Dialer

func dialer() *net.Dialer {
	tlsOnce.Do(func() {
		tlsDialer = &net.Dialer{Timeout: 15 * time.Second}
	})
	return tlsDialer
}

// Conn holds the single live outbound connection used by the crawl
// engine: nc is either a plain TCP connection or a TLS-wrapped one, and
// is nil while disconnected.
type Conn struct {
	mu          sync.RWMutex
	host        string
	primaryHost string
	page        string
	secure      bool
	state       State
	nc          net.Conn
}

// New returns an unconnected Conn rooted at primaryHost.
func New(primaryHost string, secure bool) *Conn {
	return &Conn{
		host:        primaryHost,
		primaryHost: primaryHost,
		page:        "/",
		secure:      secure,
		state:       Disconnected,
	}
}

// Open dials host (plain TCP, or TLS-wrapped when secure is true) and
// sets it as the current host; the primary host, fixed by New, is left
// unchanged. host may carry an explicit ":port" (as a URL's host
// component does for a non-default port); otherwise the standard HTTP or
// HTTPS port is used.
func (c *Conn) Open(ctx context.Context, host string) liberr.Error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = Connecting

	addr := host
	if !strings.Contains(host, ":") {
		port := httpPort
		if c.secure {
			port = httpsPort
		}
		addr = net.JoinHostPort(host, port)
	}

	raw, err := dialer().DialContext(ctx, "tcp", addr)
	if err != nil {
		c.state = Disconnected
		return ErrConnectFailed.Error(err)
	}

	if c.secure {
		// The original crawler never registers a verify callback on its
		// SSL_CTX, so OpenSSL's default SSL_VERIFY_NONE applies: it
		// never validates the peer certificate. Match that here rather
		// than silently hardening the port.
		cfg := libtls.Default.TLS(host)
		cfg.InsecureSkipVerify = true
		raw = libtlsClient(raw, cfg)
	}

	c.nc = raw
	c.host = host
	c.state = Connected
	return nil
}

// Close closes the underlying connection, if any.
func (c *Conn) Close() liberr.Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Conn) closeLocked() liberr.Error {
	if c.nc == nil {
		c.state = Disconnected
		return nil
	}
	err := c.nc.Close()
	c.nc = nil
	c.state = Disconnected
	if err != nil {
		return ErrConnectFailed.Error(err)
	}
	return nil
}

// Reconnect closes the current connection (if any) and re-opens against
// the primary host, never the current (possibly cross-domain-redirected)
// host, preserving the invariant that a reconnect always returns to the
// original target (I5 in the data model).
func (c *Conn) Reconnect(ctx context.Context) liberr.Error {
	c.mu.Lock()
	primary := c.primaryHost
	_ = c.closeLocked()
	c.mu.Unlock()
	return c.Open(ctx, primary)
}

// UpgradeToTLS closes the current plain connection and re-opens, over
// TLS, against the same host the caller was just talking to -- used when
// a response redirects from http:// to https:// on the current page.
func (c *Conn) UpgradeToTLS(ctx context.Context) liberr.Error {
	c.mu.Lock()
	host := c.host
	_ = c.closeLocked()
	c.secure = true
	c.mu.Unlock()
	return c.Open(ctx, host)
}

// Write implements io.Writer so a Conn can be handed directly to the
// crawl engine. Errors from the underlying connection are returned as-is
// (not liberr-wrapped); only writing while disconnected returns the
// liberr ErrNotConnected.
func (c *Conn) Write(p []byte) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.nc == nil {
		return 0, ErrNotConnected.Error()
	}
	return c.nc.Write(p)
}

// Read implements io.Reader so a Conn can be handed directly to the
// httpwire codec.
func (c *Conn) Read(p []byte) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.nc == nil {
		return 0, ErrNotConnected.Error()
	}
	return c.nc.Read(p)
}

func (c *Conn) SetReadDeadline(t time.Time) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.nc == nil {
		return ErrNotConnected.Error()
	}
	return c.nc.SetReadDeadline(t)
}

func (c *Conn) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Conn) Host() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.host
}

func (c *Conn) PrimaryHost() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.primaryHost
}

func (c *Conn) SetHost(host string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.host = host
}

func (c *Conn) Page() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.page
}

func (c *Conn) SetPage(page string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = page
}

func (c *Conn) Secure() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.secure
}
