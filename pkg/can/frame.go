package can

import (
	"encoding/binary"
	"fmt"
)

// Sizes of the Linux struct can_frame.
const (
	FrameSize   = 16
	PayloadSize = 8

	dlcOffset  = 4
	dataOffset = 8
)

// Frame is a classic CAN frame.
type Frame struct {
	ID   uint32
	Data []byte
}

// Message is the decoded payload of a frame.
type Message struct {
	Prop  int32
	Value int32
}

// String implements fmt.Stringer.
func (m Message) String() string {
	return fmt.Sprintf("{prop: 0x%x, value: %d}", m.Prop, m.Value)
}

// NewFrame builds the frame that carries m.
func NewFrame(id uint32, m Message) Frame {
	data := make([]byte, PayloadSize)
	binary.NativeEndian.PutUint32(data[0:4], uint32(m.Prop))
	binary.NativeEndian.PutUint32(data[4:8], uint32(m.Value))
	return Frame{ID: id, Data: data}
}

// Encode returns the 16-byte wire form. Data beyond PayloadSize is clipped.
func (f Frame) Encode() []byte {
	buf := make([]byte, FrameSize)
	binary.NativeEndian.PutUint32(buf[0:4], f.ID)
	n := copy(buf[dataOffset:], f.Data)
	buf[dlcOffset] = byte(n)
	return buf
}

// DecodeFrame parses the wire form of a frame.
func DecodeFrame(buf []byte) (Frame, error) {
	if len(buf) < FrameSize {
		return Frame{}, fmt.Errorf("short can frame: %d bytes", len(buf))
	}

	dlc := min(int(buf[dlcOffset]), PayloadSize)
	data := make([]byte, dlc)
	copy(data, buf[dataOffset:dataOffset+dlc])
	return Frame{
		ID:   binary.NativeEndian.Uint32(buf[0:4]),
		Data: data,
	}, nil
}

// Message decodes the payload. Missing trailing bytes read as zero.
func (f Frame) Message() Message {
	var payload [PayloadSize]byte
	copy(payload[:], f.Data)
	return Message{
		Prop:  int32(binary.NativeEndian.Uint32(payload[0:4])),
		Value: int32(binary.NativeEndian.Uint32(payload[4:8])),
	}
}
