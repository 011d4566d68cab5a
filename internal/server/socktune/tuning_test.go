package socktune

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyOnTCPConn(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err == nil {
			defer conn.Close()
		}
	}()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	assert.NoError(t, Apply(conn, DefaultConfig()))
	assert.NoError(t, Apply(conn, nil))
}

func TestApplyOnNonTCPConnIsNoop(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()

	assert.NoError(t, Apply(c1, DefaultConfig()))
}

func TestListenTCPBindsEphemeralPortAndAccepts(t *testing.T) {
	ln, err := ListenTCP("127.0.0.1", 0, 16)
	require.NoError(t, err)
	defer ln.Close()

	addr, ok := ln.Addr().(*net.TCPAddr)
	require.True(t, ok)
	assert.NotZero(t, addr.Port)

	done := make(chan struct{})
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			conn.Close()
		}
		close(done)
	}()

	client, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	client.Close()
	<-done
}
