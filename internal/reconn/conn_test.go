package reconn

import (
	"context"
	"net"
	"testing"
	"time"
)

func localListener(t *testing.T) (net.Listener, string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer c.Close()
				buf := make([]byte, 512)
				c.SetReadDeadline(time.Now().Add(time.Second))
				c.Read(buf)
				c.Write([]byte("pong"))
			}()
		}
	}()
	_, port, _ := net.SplitHostPort(ln.Addr().String())
	return ln, port
}

// dialOverride connects c straight to addr (an ephemeral test port),
// bypassing Open.
func (c *Conn) dialOverride(ctx context.Context, addr string) error {
	raw, err := dialer().DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.nc = raw
	c.state = Connected
	c.mu.Unlock()
	return nil
}

func TestOpenCloseState(t *testing.T) {
	ln, port := localListener(t)
	defer ln.Close()

	c := New("127.0.0.1", false)
	if err := c.dialOverride(context.Background(), "127.0.0.1:"+port); err != nil {
		t.Fatalf("dial: %v", err)
	}
	if c.State() != Connected {
		t.Fatalf("State() = %v, want Connected", c.State())
	}

	if _, werr := c.Write([]byte("ping")); werr != nil {
		t.Fatalf("Write: %v", werr)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if c.State() != Disconnected {
		t.Fatalf("State() = %v, want Disconnected", c.State())
	}
}

func TestWriteWithoutOpenFails(t *testing.T) {
	c := New("127.0.0.1", false)
	if _, err := c.Write([]byte("x")); err == nil {
		t.Fatalf("expected error writing to an unopened connection")
	}
}

func TestHostBookkeeping(t *testing.T) {
	c := New("example.com", false)
	if c.PrimaryHost() != "example.com" {
		t.Fatalf("PrimaryHost() = %q", c.PrimaryHost())
	}
	c.SetHost("cdn.example.com")
	if c.Host() != "cdn.example.com" {
		t.Fatalf("Host() = %q", c.Host())
	}
	if c.PrimaryHost() != "example.com" {
		t.Fatalf("PrimaryHost() changed unexpectedly: %q", c.PrimaryHost())
	}
}
