// Package server hosts the cache's TCP listener: it accepts connections,
// tunes their sockets, and hands each one a protocol.Handler running on
// its own goroutine. It also owns the lifetime of the engine's
// background sweeper, so that stopping the host stops everything the
// process started.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/devraj-k/bytekv/internal/engine"
	"github.com/devraj-k/bytekv/internal/protocol"
	"github.com/devraj-k/bytekv/internal/server/socktune"
)

// Config controls how the host listens and tunes accepted connections.
type Config struct {
	Host    string
	Port    int
	Backlog int

	// ReadBufferSize sizes the buffer passed to each connection's Read
	// calls. The original server reads in 64KiB chunks; this mirrors
	// that.
	ReadBufferSize int

	SocketTuning *socktune.Config
}

// DefaultConfig returns the host configuration used when none is given
// explicitly.
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           9000,
		Backlog:        512,
		ReadBufferSize: 64 * 1024,
		SocketTuning:   socktune.DefaultConfig(),
	}
}

// Host owns a listener and the cache engine it serves.
type Host struct {
	cfg    Config
	engine *engine.Cache
	logger *zap.Logger

	listener *net.TCPListener
}

// New constructs a Host. It does not start listening; call
// ListenAndServe for that.
func New(cfg Config, cache *engine.Cache, logger *zap.Logger) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host{cfg: cfg, engine: cache, logger: logger}
}

// ListenAndServe binds the configured address and serves connections
// until ctx is canceled. It returns once the listener is closed and
// every in-flight connection goroutine has exited.
func (h *Host) ListenAndServe(ctx context.Context) error {
	ln, err := socktune.ListenTCP(h.cfg.Host, h.cfg.Port, h.cfg.Backlog)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	h.listener = ln
	h.logger.Info("listening",
		zap.String("addr", ln.Addr().String()),
		zap.Int("backlog", h.cfg.Backlog),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		return ln.Close()
	})

	g.Go(func() error {
		return h.acceptLoop(gctx, g)
	})

	err = g.Wait()
	h.engine.Close()
	if err != nil && (errors.Is(err, net.ErrClosed) || errors.Is(err, context.Canceled)) {
		return nil
	}
	return err
}

// acceptLoop accepts connections until ctx is done or the listener
// errors, spawning a goroutine per connection under g so ListenAndServe
// can wait for all of them to finish draining before returning.
func (h *Host) acceptLoop(ctx context.Context, g *errgroup.Group) error {
	for {
		conn, err := h.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}

		g.Go(func() error {
			h.handleConn(ctx, conn)
			return nil
		})
	}
}

// handleConn drives one connection's protocol.Handler until the
// connection is closed, ctx is canceled, or a write fails.
func (h *Host) handleConn(ctx context.Context, conn net.Conn) {
	connID := uuid.New().String()
	log := h.logger.With(
		zap.String("conn_id", connID),
		zap.String("remote_addr", conn.RemoteAddr().String()),
	)
	defer conn.Close()

	if err := socktune.Apply(conn, h.cfg.SocketTuning); err != nil {
		log.Warn("socket tuning failed", zap.Error(err))
	}

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	log.Info("connection accepted")
	handler := protocol.New(h.engine, conn)

	buf := make([]byte, readBufferSize(h.cfg.ReadBufferSize))
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			if feedErr := handler.Feed(buf[:n]); feedErr != nil {
				log.Debug("connection write failed, closing", zap.Error(feedErr))
				return
			}
		}
		if err != nil {
			log.Info("connection closed", zap.Error(err))
			return
		}
	}
}

func readBufferSize(configured int) int {
	if configured > 0 {
		return configured
	}
	return 64 * 1024
}
