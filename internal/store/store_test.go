package store

import (
	"bytes"
	"fmt"
	"net"
	"sync"
	"testing"
)

func testAddr(port int) *net.UDPAddr {
	return &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port}
}

func TestFIFOOrder(t *testing.T) {
	s := New()
	for i := 0; i < 5; i++ {
		s.Enqueue(7, Message{Addr: testAddr(4000 + i), Data: []byte{byte(i)}})
	}

	for i := 0; i < 5; i++ {
		msg, ok := s.DequeueFront(7)
		if !ok {
			t.Fatalf("expected message %d, queue empty", i)
		}
		if msg.Data[0] != byte(i) {
			t.Fatalf("expected message %d, got %d", i, msg.Data[0])
		}
		if msg.Addr.Port != 4000+i {
			t.Fatalf("expected port %d, got %d", 4000+i, msg.Addr.Port)
		}
	}

	if _, ok := s.DequeueFront(7); ok {
		t.Fatal("expected empty queue")
	}
}

func TestPeekDoesNotRemove(t *testing.T) {
	s := New()
	s.Enqueue(1, Message{Addr: testAddr(4000), Data: []byte("head")})
	s.Enqueue(1, Message{Addr: testAddr(4001), Data: []byte("tail")})

	for i := 0; i < 3; i++ {
		msg, ok := s.PeekFront(1)
		if !ok {
			t.Fatal("expected message")
		}
		if !bytes.Equal(msg.Data, []byte("head")) {
			t.Fatalf("unexpected head: %q", msg.Data)
		}
	}

	if n := s.Len(1); n != 2 {
		t.Fatalf("expected 2 queued messages, got %d", n)
	}
}

func TestQueuesAreIndependent(t *testing.T) {
	s := New()
	s.Enqueue(1, Message{Addr: testAddr(4000), Data: []byte("a")})
	s.Enqueue(2, Message{Addr: testAddr(4000), Data: []byte("b")})

	if _, ok := s.DequeueFront(1); !ok {
		t.Fatal("expected message for id 1")
	}
	if n := s.Len(2); n != 1 {
		t.Fatalf("queue for id 2 disturbed, len %d", n)
	}
}

func TestDrainAll(t *testing.T) {
	s := New()
	for i := 0; i < 3; i++ {
		s.Enqueue(9, Message{Addr: testAddr(4000), Data: []byte{byte(i)}})
	}

	msgs := s.DrainAll(9)
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	for i, msg := range msgs {
		if msg.Data[0] != byte(i) {
			t.Fatalf("drain out of order at %d: %d", i, msg.Data[0])
		}
	}

	if msgs := s.DrainAll(9); len(msgs) != 0 {
		t.Fatalf("expected empty drain, got %d messages", len(msgs))
	}
}

func TestRemove(t *testing.T) {
	s := New()
	s.Enqueue(3, Message{Addr: testAddr(4000), Data: []byte("a")})
	s.Enqueue(3, Message{Addr: testAddr(4000), Data: []byte("b")})

	s.RemoveFront(3)
	msg, ok := s.PeekFront(3)
	if !ok || !bytes.Equal(msg.Data, []byte("b")) {
		t.Fatalf("expected b at head, got %q (ok=%v)", msg.Data, ok)
	}

	s.RemoveAll(3)
	if n := s.Len(3); n != 0 {
		t.Fatalf("expected empty queue, got len %d", n)
	}

	// Removing from an id that was never enqueued is a no-op.
	s.RemoveFront(42)
	s.RemoveAll(42)
}

func TestIDs(t *testing.T) {
	s := New()
	for _, id := range []uint64{5, 1, 3} {
		s.Enqueue(id, Message{Addr: testAddr(4000), Data: []byte("x")})
	}

	ids := s.IDs()
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 3 || ids[2] != 5 {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestConcurrentEnqueueDequeue(t *testing.T) {
	s := New()
	const n = 100

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < n; i++ {
				s.Enqueue(uint64(w), Message{Addr: testAddr(4000), Data: []byte(fmt.Sprintf("%d", i))})
			}
		}(w)
	}
	wg.Wait()

	for w := 0; w < 4; w++ {
		if got := s.Len(uint64(w)); got != n {
			t.Fatalf("worker %d: expected %d messages, got %d", w, n, got)
		}
	}
}
