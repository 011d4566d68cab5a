// Package socktune applies connection-level socket options to accepted
// cache connections. Only the cross-platform options are exposed — the
// pack's own socket tuning helper also carries a Linux/Darwin split for
// TCP_QUICKACK/TCP_DEFER_ACCEPT/TCP_FASTOPEN, but the cache protocol has
// no handshake-latency or bulk-transfer requirement that calls for it, so
// that split is dropped here in favor of a single portable file.
package socktune

import (
	"net"
	"syscall"
)

// Config controls the socket options applied to each accepted
// connection. Zero values mean "leave the system default in place".
type Config struct {
	// NoDelay disables Nagle's algorithm. The wire protocol is
	// line-oriented and latency-sensitive, so this defaults to true.
	NoDelay bool

	// RecvBuffer and SendBuffer set SO_RCVBUF/SO_SNDBUF in bytes.
	RecvBuffer int
	SendBuffer int

	// KeepAlive enables SO_KEEPALIVE, since cache connections are
	// expected to be long-lived.
	KeepAlive bool
}

// DefaultConfig returns the tuning applied to connections when the host
// isn't configured otherwise.
func DefaultConfig() *Config {
	return &Config{
		NoDelay:    true,
		RecvBuffer: 128 * 1024,
		SendBuffer: 128 * 1024,
		KeepAlive:  true,
	}
}

// Apply sets cfg's socket options on conn. Non-TCP connections (used in
// tests with net.Pipe, for instance) are left untouched.
func Apply(conn net.Conn, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}

	rawConn, err := tcpConn.SyscallConn()
	if err != nil {
		return err
	}

	var lastErr error
	err = rawConn.Control(func(fd uintptr) {
		if cfg.NoDelay {
			if err := syscall.SetsockoptInt(int(fd), syscall.IPPROTO_TCP, syscall.TCP_NODELAY, 1); err != nil {
				lastErr = err
				return
			}
		}
		if cfg.RecvBuffer > 0 {
			_ = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_RCVBUF, cfg.RecvBuffer)
		}
		if cfg.SendBuffer > 0 {
			_ = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_SNDBUF, cfg.SendBuffer)
		}
		if cfg.KeepAlive {
			_ = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_KEEPALIVE, 1)
		}
	})
	if err != nil {
		return err
	}
	return lastErr
}
