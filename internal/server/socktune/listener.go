package socktune

import (
	"fmt"
	"net"
	"os"
	"syscall"
)

// ListenTCP binds host:port with SO_REUSEADDR and an explicit accept
// backlog. net.Listen has no way to express a backlog, but the original
// cache server calls listen(512) deliberately — so the socket is built
// by hand: socket → setsockopt(SO_REUSEADDR) → bind → listen(backlog) →
// wrapped back into a *net.TCPListener via net.FileListener.
func ListenTCP(host string, port int, backlog int) (*net.TCPListener, error) {
	addr := &net.TCPAddr{IP: net.ParseIP(host), Port: port}
	if addr.IP == nil {
		addr.IP = net.IPv4zero
	}

	domain := syscall.AF_INET
	if addr.IP.To4() == nil {
		domain = syscall.AF_INET6
	}

	fd, err := syscall.Socket(domain, syscall.SOCK_STREAM, syscall.IPPROTO_TCP)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}
	// Closed on every error path below; ownership transfers to the
	// returned listener only once everything succeeds.
	closeFD := true
	defer func() {
		if closeFD {
			syscall.Close(fd)
		}
	}()

	if err := syscall.SetsockoptInt(fd, syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1); err != nil {
		return nil, fmt.Errorf("setsockopt SO_REUSEADDR: %w", err)
	}

	var sa syscall.Sockaddr
	if domain == syscall.AF_INET {
		var ip4 [4]byte
		copy(ip4[:], addr.IP.To4())
		sa = &syscall.SockaddrInet4{Port: port, Addr: ip4}
	} else {
		var ip16 [16]byte
		copy(ip16[:], addr.IP.To16())
		sa = &syscall.SockaddrInet6{Port: port, Addr: ip16}
	}

	if err := syscall.Bind(fd, sa); err != nil {
		return nil, fmt.Errorf("bind: %w", err)
	}
	if err := syscall.Listen(fd, backlog); err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	osFile := os.NewFile(uintptr(fd), fmt.Sprintf("bytekv-listener-%d", port))
	defer osFile.Close()

	ln, err := net.FileListener(osFile)
	if err != nil {
		return nil, fmt.Errorf("FileListener: %w", err)
	}
	tcpLn, ok := ln.(*net.TCPListener)
	if !ok {
		ln.Close()
		return nil, fmt.Errorf("unexpected listener type %T", ln)
	}

	closeFD = false
	return tcpLn, nil
}
