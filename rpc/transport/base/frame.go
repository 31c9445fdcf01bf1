package base

import (
	"encoding/binary"
	"fmt"
	"io"
)

// --------------------------------------------------------------------------
// Wire Frame
// --------------------------------------------------------------------------

const (
	// frameHeaderSize is the fixed prefix of every frame: payload length
	// (uint32), shard ID (uint64) and request ID (uint32), big endian.
	frameHeaderSize = 16

	// maxFramePayload caps a single message. A length beyond it marks a
	// corrupt or hostile stream and is rejected before allocation.
	maxFramePayload = 64 << 20
)

// frame is one request or response on a stream connection. The request ID
// ties a response to the request it answers; on a synchronous connection it
// acts as a consistency check, not a routing key.
type frame struct {
	shardID   uint64
	requestID uint32
	payload   []byte
}

// writeFrame encodes f into a single buffer and writes it with one call, so
// header and payload never interleave with other writers.
func writeFrame(w io.Writer, f frame) error {
	buf := make([]byte, frameHeaderSize, frameHeaderSize+len(f.payload))
	binary.BigEndian.PutUint32(buf[0:4], uint32(len(f.payload)))
	binary.BigEndian.PutUint64(buf[4:12], f.shardID)
	binary.BigEndian.PutUint32(buf[12:16], f.requestID)
	buf = append(buf, f.payload...)

	_, err := w.Write(buf)
	return err
}

// readFrame reads exactly one frame. Errors from the underlying reader are
// returned as-is so callers can distinguish io.EOF from protocol damage.
func readFrame(r io.Reader) (frame, error) {
	var header [frameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return frame{}, err
	}

	length := binary.BigEndian.Uint32(header[0:4])
	if length > maxFramePayload {
		return frame{}, fmt.Errorf("frame payload of %d bytes exceeds the %d byte limit", length, maxFramePayload)
	}

	f := frame{
		shardID:   binary.BigEndian.Uint64(header[4:12]),
		requestID: binary.BigEndian.Uint32(header[12:16]),
	}

	if length > 0 {
		f.payload = make([]byte, length)
		if _, err := io.ReadFull(r, f.payload); err != nil {
			return frame{}, err
		}
	}
	return f, nil
}
