package audioring

import (
	"encoding/binary"
	"errors"
	"time"
)

// FrameHeaderSize is the prefix of every binary websocket frame:
// sample rate (u32 LE), channels (u16 LE), two pad bytes.
const FrameHeaderSize = 8

var ErrShortFrame = errors.New("frame shorter than header")

type Frame struct {
	PCM        []byte
	SampleRate uint32
	Channels   uint16
	ReceivedAt time.Time
}

// ParseFrame splits a websocket binary message into header fields and PCM.
func ParseFrame(msg []byte, at time.Time) (Frame, error) {
	if len(msg) < FrameHeaderSize {
		return Frame{}, ErrShortFrame
	}
	pcm := make([]byte, len(msg)-FrameHeaderSize)
	copy(pcm, msg[FrameHeaderSize:])
	return Frame{
		SampleRate: binary.LittleEndian.Uint32(msg[0:4]),
		Channels:   binary.LittleEndian.Uint16(msg[4:6]),
		PCM:        pcm,
		ReceivedAt: at,
	}, nil
}

// MarshalBinary layout: timestamp(8) + rate(4) + channels(2) + len(4) + pcm.
func (f *Frame) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 18+len(f.PCM))
	binary.LittleEndian.PutUint64(buf[0:], uint64(f.ReceivedAt.UnixNano()))
	binary.LittleEndian.PutUint32(buf[8:], f.SampleRate)
	binary.LittleEndian.PutUint16(buf[12:], f.Channels)
	binary.LittleEndian.PutUint32(buf[14:], uint32(len(f.PCM)))
	copy(buf[18:], f.PCM)
	return buf, nil
}

func (f *Frame) UnmarshalBinary(data []byte) error {
	if len(data) < 18 {
		return ErrShortFrame
	}
	f.ReceivedAt = time.Unix(0, int64(binary.LittleEndian.Uint64(data[0:])))
	f.SampleRate = binary.LittleEndian.Uint32(data[8:])
	f.Channels = binary.LittleEndian.Uint16(data[12:])
	n := int(binary.LittleEndian.Uint32(data[14:]))
	if len(data[18:]) < n {
		return errors.New("truncated frame payload")
	}
	f.PCM = make([]byte, n)
	copy(f.PCM, data[18:18+n])
	return nil
}
