package ipc

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
)

// Frame layout: a 4-byte little-endian length followed by that many bytes of
// JSON. A full late-game snapshot (every unit, model position, and terrain
// outline) serializes well under maxFrameBytes; anything larger is a corrupt
// or hostile frame.
const (
	frameHeaderBytes = 4
	maxFrameBytes    = 4 << 20
)

// Envelope is the wire format shared with the host rules engine.
// Data is kept as RawMessage so handlers can defer deserialization to the concrete type.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func NewEnvelope(msgType string, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal data: %w", err)
	}
	return Envelope{Type: msgType, Data: raw}, nil
}

// ReadEnvelope reads a single length-prefixed JSON envelope from the connection.
func ReadEnvelope(conn net.Conn) (Envelope, error) {
	var head [frameHeaderBytes]byte
	if _, err := io.ReadFull(conn, head[:]); err != nil {
		return Envelope{}, fmt.Errorf("read length: %w", err)
	}
	length := binary.LittleEndian.Uint32(head[:])

	if length == 0 || length > maxFrameBytes {
		return Envelope{}, fmt.Errorf("invalid message length: %d", length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(conn, payload); err != nil {
		return Envelope{}, fmt.Errorf("read payload: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}

	return env, nil
}

// WriteEnvelope frames and sends one envelope. Replies are small (an action
// record at most), so an oversized payload means a marshalling bug, not load.
func WriteEnvelope(conn net.Conn, env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if len(payload) > maxFrameBytes {
		return fmt.Errorf("envelope too large: %d bytes", len(payload))
	}

	var head [frameHeaderBytes]byte
	binary.LittleEndian.PutUint32(head[:], uint32(len(payload)))
	if _, err := conn.Write(head[:]); err != nil {
		return fmt.Errorf("write length: %w", err)
	}
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}

	return nil
}
