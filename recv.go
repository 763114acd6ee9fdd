package udpmsg

import (
	"encoding/binary"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/msgnet/udpmsg/internal/store"
)

// recvLoop reads datagrams into a fixed scratch buffer and sorts them into
// the store until the socket is closed by Stop. It runs in its own
// goroutine for the manager's lifetime; a single bad read never terminates
// it.
func (m *Manager) recvLoop() {
	defer close(m.done)

	buf := make([]byte, m.opts.BufferLen)
	for {
		switch {
		case !m.opts.Blocking:
			m.conn.SetReadDeadline(time.Now().Add(pollInterval))
		case m.opts.ReadTimeout > 0:
			m.conn.SetReadDeadline(time.Now().Add(m.opts.ReadTimeout))
		}

		n, addr, err := m.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			var nerr net.Error
			if errors.As(err, &nerr) && nerr.Timeout() {
				// Would-block or read timeout, go around and re-check for
				// shutdown.
				continue
			}

			m.logger.Error("Unable to read from socket", slog.Any("err", err))
			continue
		}

		// A datagram larger than the scratch buffer has already lost its
		// tail at this point. Known limitation, pick BufferLen accordingly.
		data := buf[:n]

		id := sentinelID
		if !m.opts.NoIDs {
			if n < headerLen {
				m.logger.Warn("Dropping short datagram",
					slog.Int("len", n),
					slog.String("addr", addr.String()))
				continue
			}
			id = binary.BigEndian.Uint64(data[:headerLen])
			data = data[headerLen:]
		}

		// The scratch buffer is reused for the next read, so the payload
		// has to be copied out before it goes into the store.
		payload := make([]byte, len(data))
		copy(payload, data)

		m.logger.Debug("Received datagram",
			slog.Uint64("id", id),
			slog.Int("len", len(payload)),
			slog.String("addr", addr.String()))

		m.store.Enqueue(id, store.Message{Addr: addr, Data: payload})
	}
}
