package server

import (
	"bufio"
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devraj-k/bytekv/internal/engine"
)

// startTestHost binds a Host on an ephemeral loopback port and returns
// its address plus a stop func that cancels serving and waits until
// ListenAndServe has returned.
func startTestHost(t *testing.T) (addr string, stop func()) {
	t.Helper()
	cache := engine.New(engine.WithCapacityBytes(1024 * 1024))

	cfg := DefaultConfig()
	cfg.Port = 0
	cfg.Host = "127.0.0.1"
	cfg.Backlog = 16

	h := New(cfg, cache, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		_ = h.ListenAndServe(ctx)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for h.listener == nil {
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("timed out waiting for host to listen")
		}
		time.Sleep(5 * time.Millisecond)
	}

	return h.listener.Addr().String(), func() {
		cancel()
		<-done
	}
}

func TestHostServesSetGetOverRealSocket(t *testing.T) {
	addr, stop := startTestHost(t)
	defer stop()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	reader := bufio.NewReader(conn)

	_, err = conn.Write([]byte("SET foo 0 5\nhello\n"))
	require.NoError(t, err)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "OK\n", line)

	_, err = conn.Write([]byte("GET foo\n"))
	require.NoError(t, err)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "VALUE 5\n", line)

	payload := make([]byte, 5)
	_, err = io.ReadFull(reader, payload)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(payload))
}

func TestHostServesMultipleConcurrentConnections(t *testing.T) {
	addr, stop := startTestHost(t)
	defer stop()

	conns := make([]net.Conn, 0, 5)
	for i := 0; i < 5; i++ {
		conn, err := net.Dial("tcp", addr)
		require.NoError(t, err)
		defer conn.Close()
		conns = append(conns, conn)
	}

	for _, conn := range conns {
		_, err := conn.Write([]byte("STATS\r\n"))
		require.NoError(t, err)

		reader := bufio.NewReader(conn)
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		assert.Contains(t, line, "STATS")
	}
}
