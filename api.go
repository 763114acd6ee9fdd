package udpmsg

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"net"
)

// Received pairs a decoded value with the address it came from.
type Received[T any] struct {
	Addr  *net.UDPAddr
	Value T
}

// Send encodes v with the manager's codec, prepends the wire id for T
// unless the id header is disabled, and transmits one datagram to dest.
// A codec failure comes back as a *SerializeError; anything else is a
// transmission failure.
func Send[T any](m *Manager, v T, dest string) error {
	payload, err := m.codec.Marshal(v)
	if err != nil {
		return &SerializeError{Err: err}
	}

	frame := payload
	if !m.opts.NoIDs {
		frame = binary.BigEndian.AppendUint64(make([]byte, 0, headerLen+len(payload)), m.wireID(typeOf[T]()))
		frame = append(frame, payload...)
	}

	addr, err := net.ResolveUDPAddr("udp", dest)
	if err != nil {
		return fmt.Errorf("udpmsg: resolve %s: %w", dest, err)
	}

	if _, err := m.conn.WriteToUDP(frame, addr); err != nil {
		return fmt.Errorf("udpmsg: send to %s: %w", dest, err)
	}
	return nil
}

// Get removes the oldest queued message of type T, decodes it and returns
// it with the sender's address. The queue slot is consumed even when
// decoding fails (reported as a *DeserializeError), so one malformed
// datagram can't stall the queue behind it; use Peek first when the raw
// message must survive a failed decode.
func Get[T any](m *Manager) (*net.UDPAddr, T, error) {
	var v T
	msg, ok := m.store.DequeueFront(m.wireID(typeOf[T]()))
	if !ok {
		return nil, v, ErrNotFound
	}

	if err := m.codec.Unmarshal(msg.Data, &v); err != nil {
		var zero T
		return nil, zero, &DeserializeError{Err: err}
	}
	return msg.Addr, v, nil
}

// Peek decodes the oldest queued message of type T without removing it.
// Repeated calls return the same message until a destructive read commits.
func Peek[T any](m *Manager) (*net.UDPAddr, T, error) {
	var v T
	msg, ok := m.store.PeekFront(m.wireID(typeOf[T]()))
	if !ok {
		return nil, v, ErrNotFound
	}

	if err := m.codec.Unmarshal(msg.Data, &v); err != nil {
		var zero T
		return nil, zero, &DeserializeError{Err: err}
	}
	return msg.Addr, v, nil
}

// GetAll drains every queued message of type T, oldest first. Messages that
// fail to decode are dropped without notice, so the result can be shorter
// than the queue was.
func GetAll[T any](m *Manager) []Received[T] {
	msgs := m.store.DrainAll(m.wireID(typeOf[T]()))

	res := make([]Received[T], 0, len(msgs))
	for _, msg := range msgs {
		var v T
		if err := m.codec.Unmarshal(msg.Data, &v); err != nil {
			m.logger.Debug("Dropping undecodable message",
				slog.String("addr", msg.Addr.String()),
				slog.Int("len", len(msg.Data)),
				slog.Any("err", err))
			continue
		}
		res = append(res, Received[T]{Addr: msg.Addr, Value: v})
	}
	return res
}

// RemoveFront discards the oldest queued message of type T, if any.
func RemoveFront[T any](m *Manager) {
	m.store.RemoveFront(m.wireID(typeOf[T]()))
}

// RemoveAll discards every queued message of type T.
func RemoveAll[T any](m *Manager) {
	m.store.RemoveAll(m.wireID(typeOf[T]()))
}

// SetID pins the wire id for T. Call it before the first Send or Get of T
// on both peers, otherwise they will disagree about which queue T's
// messages belong to.
func SetID[T any](m *Manager, id uint64) {
	m.ids.Set(typeOf[T](), id)
}
