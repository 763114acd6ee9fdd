package netstr

import (
	"bytes"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteString(&buf, "10.0.0.1"); err != nil {
		t.Fatal(err)
	}
	if err := WriteString(&buf, "second"); err != nil {
		t.Fatal(err)
	}

	s, err := ReadString(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if s != "10.0.0.1" {
		t.Fatalf("unexpected string: %q", s)
	}

	s, err = ReadString(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if s != "second" {
		t.Fatalf("unexpected string: %q", s)
	}
}

func TestEmptyString(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteString(&buf, ""); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 1 {
		t.Fatalf("expected a lone terminator, got %d bytes", buf.Len())
	}

	s, err := ReadString(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if s != "" {
		t.Fatalf("expected empty string, got %q", s)
	}
}

func TestMissingTerminator(t *testing.T) {
	buf := bytes.NewBufferString("unterminated")
	if _, err := ReadString(buf); err != ErrNoTerminator {
		t.Fatalf("expected ErrNoTerminator, got %v", err)
	}
}

func TestRejectEmbeddedNUL(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteString(&buf, "bad\x00string"); err == nil {
		t.Fatal("expected error for embedded NUL")
	}
}
