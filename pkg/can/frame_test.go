package can

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestFrameEncodeLayout(t *testing.T) {
	buf := NewFrame(0x7ff, Message{Prop: 0x11400400, Value: -2}).Encode()

	if len(buf) != FrameSize {
		t.Fatalf("len = %d, want %d", len(buf), FrameSize)
	}
	if id := binary.NativeEndian.Uint32(buf[0:4]); id != 0x7ff {
		t.Errorf("id = %#x, want 0x7ff", id)
	}
	if buf[4] != PayloadSize {
		t.Errorf("dlc = %d, want %d", buf[4], PayloadSize)
	}
	if !bytes.Equal(buf[5:8], []byte{0, 0, 0}) {
		t.Errorf("padding = % x, want zeros", buf[5:8])
	}
	if prop := int32(binary.NativeEndian.Uint32(buf[8:12])); prop != 0x11400400 {
		t.Errorf("prop = %#x", prop)
	}
	if value := int32(binary.NativeEndian.Uint32(buf[12:16])); value != -2 {
		t.Errorf("value = %d, want -2", value)
	}
}

func TestFrameEncodeClipsPayload(t *testing.T) {
	buf := Frame{ID: 1, Data: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}.Encode()
	if len(buf) != FrameSize {
		t.Fatalf("len = %d, want %d", len(buf), FrameSize)
	}
	if buf[4] != PayloadSize {
		t.Errorf("dlc = %d, want %d", buf[4], PayloadSize)
	}
	if !bytes.Equal(buf[8:], []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Errorf("data = % x", buf[8:])
	}
}

func TestFrameEncodeShortPayload(t *testing.T) {
	buf := Frame{Data: []byte{0xaa, 0xbb}}.Encode()
	if buf[4] != 2 {
		t.Errorf("dlc = %d, want 2", buf[4])
	}
}

func TestDecodeFrameRoundTrip(t *testing.T) {
	want := Message{Prop: 0x15200510, Value: 1}
	frame, err := DecodeFrame(NewFrame(0x10, want).Encode())
	if err != nil {
		t.Fatalf("DecodeFrame failed: %v", err)
	}
	if frame.ID != 0x10 {
		t.Errorf("ID = %#x, want 0x10", frame.ID)
	}
	if got := frame.Message(); got != want {
		t.Errorf("Message = %v, want %v", got, want)
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	if _, err := DecodeFrame(make([]byte, FrameSize-1)); err == nil {
		t.Error("expected error for short buffer")
	}
}

func TestDecodeFrameBogusDLC(t *testing.T) {
	buf := NewFrame(0, Message{Prop: 5, Value: 6}).Encode()
	buf[4] = 15

	frame, err := DecodeFrame(buf)
	if err != nil {
		t.Fatalf("DecodeFrame failed: %v", err)
	}
	if len(frame.Data) != PayloadSize {
		t.Errorf("len(Data) = %d, want %d", len(frame.Data), PayloadSize)
	}
}

func TestMessageZeroPadsShortPayload(t *testing.T) {
	data := make([]byte, 4)
	binary.NativeEndian.PutUint32(data, 42)

	msg := Frame{Data: data}.Message()
	if msg.Prop != 42 || msg.Value != 0 {
		t.Errorf("Message = %v, want {42 0}", msg)
	}
}
