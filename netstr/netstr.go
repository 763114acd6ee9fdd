// Package netstr reads and writes NUL-terminated strings. Some hand-rolled
// wire formats delimit strings with a trailing zero byte instead of a
// length prefix; these helpers keep that bookkeeping out of message code.
package netstr

import (
	"errors"
	"io"
	"strings"
)

// ErrNoTerminator is returned by ReadString when the input ends before a
// NUL byte is found.
var ErrNoTerminator = errors.New("netstr: no NUL terminator before EOF")

// WriteString writes s followed by a single NUL byte to w. The string
// itself must not contain a NUL, as the reader would stop there.
func WriteString(w io.Writer, s string) error {
	if strings.IndexByte(s, 0) >= 0 {
		return errors.New("netstr: string contains NUL")
	}

	if _, err := io.WriteString(w, s); err != nil {
		return err
	}
	_, err := w.Write([]byte{0})
	return err
}

// ReadString reads bytes from r up to and including the next NUL and
// returns them as a string without the terminator.
func ReadString(r io.ByteReader) (string, error) {
	var b strings.Builder
	for {
		c, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return "", ErrNoTerminator
			}
			return "", err
		}
		if c == 0 {
			return b.String(), nil
		}
		b.WriteByte(c)
	}
}
