package store

import (
	"net"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Message is one received datagram payload, kept as raw bytes until a
// caller asks for it under a concrete type.
type Message struct {
	Addr *net.UDPAddr
	Data []byte
}

// Store buffers received datagrams per wire id in arrival order. It holds
// opaque bytes only and never decodes them, so a payload that turns out to
// be malformed for one id can't interfere with any other id.
type Store struct {
	m      sync.Mutex
	queues map[uint64][]Message
}

func New() *Store {
	return &Store{queues: make(map[uint64][]Message)}
}

// Enqueue appends msg to the tail of id's queue, creating the queue if it
// doesn't exist yet.
func (s *Store) Enqueue(id uint64, msg Message) {
	s.m.Lock()
	defer s.m.Unlock()

	s.queues[id] = append(s.queues[id], msg)
}

// DequeueFront removes and returns the oldest message queued for id.
func (s *Store) DequeueFront(id uint64) (Message, bool) {
	s.m.Lock()
	defer s.m.Unlock()

	q := s.queues[id]
	if len(q) == 0 {
		return Message{}, false
	}

	msg := q[0]
	s.queues[id] = q[1:]
	return msg, true
}

// PeekFront returns the oldest message queued for id without removing it.
func (s *Store) PeekFront(id uint64) (Message, bool) {
	s.m.Lock()
	defer s.m.Unlock()

	q := s.queues[id]
	if len(q) == 0 {
		return Message{}, false
	}

	return q[0], true
}

// DrainAll removes and returns every message queued for id, oldest first.
func (s *Store) DrainAll(id uint64) []Message {
	s.m.Lock()
	defer s.m.Unlock()

	q := s.queues[id]
	delete(s.queues, id)
	return q
}

// RemoveFront discards the oldest message queued for id, if any.
func (s *Store) RemoveFront(id uint64) {
	s.m.Lock()
	defer s.m.Unlock()

	if q := s.queues[id]; len(q) > 0 {
		s.queues[id] = q[1:]
	}
}

// RemoveAll discards everything queued for id.
func (s *Store) RemoveAll(id uint64) {
	s.m.Lock()
	defer s.m.Unlock()

	delete(s.queues, id)
}

// Len reports how many messages are queued for id.
func (s *Store) Len(id uint64) int {
	s.m.Lock()
	defer s.m.Unlock()

	return len(s.queues[id])
}

// IDs returns the ids that currently have a queue, in ascending order.
func (s *Store) IDs() []uint64 {
	s.m.Lock()
	defer s.m.Unlock()

	ids := maps.Keys(s.queues)
	slices.Sort(ids)
	return ids
}
