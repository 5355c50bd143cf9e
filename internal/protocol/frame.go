package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Frame layout constants
const (
	HeaderSize   = 4       // Length prefix, host byte order
	MaxFrameSize = 1 << 20 // Upper bound on a payload; greetd messages are tiny
)

// ErrFrameTooLarge is returned when a frame header announces, or a caller
// tries to write, a payload larger than MaxFrameSize.
var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

// ReadFrame reads one length-prefixed frame and returns its payload.
//
// A clean EOF before the header is returned as io.EOF so callers can tell a
// closed peer from a truncated frame (io.ErrUnexpectedEOF).
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read frame header: %w", err)
	}

	length := binary.NativeEndian.Uint32(header[:])
	if length > MaxFrameSize {
		return nil, fmt.Errorf("%w: header announces %d bytes", ErrFrameTooLarge, length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("failed to read frame payload: %w", err)
	}

	return payload, nil
}

// WriteFrame writes payload as a single length-prefixed frame.
// Header and payload go out in one Write so a frame is never interleaved
// with another writer's.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(payload))
	}

	frame := make([]byte, HeaderSize+len(payload))
	binary.NativeEndian.PutUint32(frame[:HeaderSize], uint32(len(payload)))
	copy(frame[HeaderSize:], payload)

	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}
