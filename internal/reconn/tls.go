package reconn

import (
	"crypto/tls"
	"net"
)

// libtlsClient wraps an already-dialed TCP connection in a TLS client
// connection using the given configuration. The handshake is not run
// here; crypto/tls performs it on the first Read or Write.
func libtlsClient(raw net.Conn, cfg *tls.Config) net.Conn {
	return tls.Client(raw, cfg)
}
