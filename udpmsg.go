// Package udpmsg is a typed message transport over UDP. A Manager binds a
// socket and runs a background receiver that sorts incoming datagrams into
// per-type FIFO queues, keyed by a numeric id carried in the first eight
// bytes of each datagram. Application code exchanges plain Go values through
// the generic Send/Get family of functions; serialization is delegated to a
// pluggable codec.
//
// There is no reliability layer: no acknowledgments, no retransmission, no
// fragmentation and no ordering across different message types. One UDP
// datagram is exactly one message, so the platform datagram size caps the
// message size.
package udpmsg

import (
	"fmt"
	"log/slog"
	"net"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/msgnet/udpmsg/codec"
	"github.com/msgnet/udpmsg/internal/store"
	"github.com/msgnet/udpmsg/internal/typeid"
)

const (
	// DefaultBindAddr is the listen address used when Options.BindAddr is empty.
	DefaultBindAddr = "0.0.0.0:39507"

	// DefaultBufferLen is the receive scratch buffer capacity in bytes. A
	// datagram larger than the buffer is silently truncated, so size it for
	// the largest message you expect.
	DefaultBufferLen = 100

	// headerLen is the size of the big-endian wire id prefix.
	headerLen = 8

	// sentinelID is the queue key used for every datagram when the id
	// header is disabled.
	sentinelID uint64 = 0

	// pollInterval bounds how long a non-blocking receiver waits per read
	// before re-checking for shutdown.
	pollInterval = 10 * time.Millisecond
)

// Options configures a Manager. The zero value is usable: it listens on
// DefaultBindAddr with a DefaultBufferLen buffer, polls the socket without
// blocking and prefixes every datagram with a type id.
type Options struct {
	// BindAddr is the UDP address to listen on.
	BindAddr string

	// BufferLen is the receive scratch buffer capacity in bytes.
	BufferLen int

	// Blocking makes the receiver wait on the socket for data instead of
	// polling. Trades responsiveness at shutdown for less CPU.
	Blocking bool

	// ReadTimeout bounds how long a blocking receive waits for a datagram.
	// Setting it forces Blocking on; enabling non-blocking mode clears it.
	ReadTimeout time.Duration

	// NoIDs disables the type id header on the wire. Every datagram then
	// lands in one shared queue, so only one logical message type is
	// practically retrievable. Both peers must agree on this setting.
	NoIDs bool

	// Logger receives receiver-loop diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.BindAddr == "" {
		o.BindAddr = DefaultBindAddr
	}
	if o.BufferLen <= 0 {
		o.BufferLen = DefaultBufferLen
	}
	if o.ReadTimeout > 0 {
		o.Blocking = true
	}
	if !o.Blocking {
		o.ReadTimeout = 0
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Manager owns the socket, the type id registry and the per-type message
// queues, and runs the background receiver. Construct one with Listen.
type Manager struct {
	conn   *net.UDPConn
	codec  codec.Codec
	store  *store.Store
	ids    *typeid.Registry
	logger *slog.Logger
	opts   Options

	stopped atomic.Bool
	done    chan struct{}
}

// Listen binds a UDP socket with the given options and starts the receiver
// in a background goroutine. A bind failure is returned immediately and
// leaves nothing running.
func Listen(c codec.Codec, opts Options) (*Manager, error) {
	if c == nil {
		return nil, fmt.Errorf("udpmsg: nil codec")
	}
	opts = opts.withDefaults()

	addr, err := net.ResolveUDPAddr("udp", opts.BindAddr)
	if err != nil {
		return nil, fmt.Errorf("udpmsg: resolve bind address: %w", err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("udpmsg: bind %s: %w", opts.BindAddr, err)
	}

	m := &Manager{
		conn:   conn,
		codec:  c,
		store:  store.New(),
		ids:    typeid.New(),
		logger: opts.Logger,
		opts:   opts,
		done:   make(chan struct{}),
	}

	go m.recvLoop()
	return m, nil
}

// LocalAddr returns the bound socket address. Handy when listening on an
// ephemeral port.
func (m *Manager) LocalAddr() *net.UDPAddr {
	return m.conn.LocalAddr().(*net.UDPAddr)
}

// Codec returns the codec the manager was constructed with.
func (m *Manager) Codec() codec.Codec {
	return m.codec
}

// Stop closes the socket and waits for the receiver goroutine to exit. It
// is idempotent, and once it returns no further background writes to the
// queues occur. Queued messages remain readable through Get and friends;
// Send fails against the closed socket.
func (m *Manager) Stop() {
	if m.stopped.CompareAndSwap(false, true) {
		m.conn.Close()
	}
	<-m.done

	if ids := m.store.IDs(); len(ids) > 0 {
		m.logger.Debug("Stopped with queued messages", slog.Any("ids", ids))
	}
}

// wireID resolves the queue/wire id for t, honoring the id-mode setting.
func (m *Manager) wireID(t reflect.Type) uint64 {
	if m.opts.NoIDs {
		return sentinelID
	}
	return m.ids.For(t)
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
