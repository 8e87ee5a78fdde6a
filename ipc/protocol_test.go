package ipc

import (
	"encoding/binary"
	"encoding/json"
	"net"
	"testing"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	env, err := NewEnvelope(TypeHello, HelloMessage{Side: "red", Difficulty: 3})
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- WriteEnvelope(client, env) }()

	got, err := ReadEnvelope(server)
	if err != nil {
		t.Fatalf("ReadEnvelope: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("WriteEnvelope: %v", err)
	}

	if got.Type != TypeHello {
		t.Errorf("Type = %q, want hello", got.Type)
	}
	var hello HelloMessage
	if err := json.Unmarshal(got.Data, &hello); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if hello.Side != "red" || hello.Difficulty != 3 {
		t.Errorf("payload = %+v, want side red difficulty 3", hello)
	}
}

func TestReadEnvelopeRejectsBadLength(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		binary.Write(client, binary.LittleEndian, uint32(0))
	}()
	if _, err := ReadEnvelope(server); err == nil {
		t.Error("zero-length frame accepted")
	}
}

func TestReadEnvelopeRejectsOversizedFrame(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		binary.Write(client, binary.LittleEndian, uint32(1<<30))
	}()
	if _, err := ReadEnvelope(server); err == nil {
		t.Error("gigabyte frame accepted")
	}
}
