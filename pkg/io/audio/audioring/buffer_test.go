package audioring

import (
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/xpanvictor/emovox/pkg/io/audio"
)

func frame(b ...byte) Frame {
	return Frame{PCM: b, SampleRate: 16000, Channels: 1, ReceivedAt: time.Now()}
}

func TestBufferPushDrain(t *testing.T) {
	buffer := New(1024)
	if buffer.Capacity() != 1024 {
		t.Errorf("Expected capacity 1024, got %d", buffer.Capacity())
	}

	for i := 0; i < 3; i++ {
		if err := buffer.Push(frame(byte(i), byte(i+1))); err != nil {
			t.Fatalf("Failed to push frame %d: %v", i, err)
		}
	}
	if buffer.Len() == 0 {
		t.Error("Buffer should not be empty after push")
	}

	frames := buffer.Drain()
	if len(frames) != 3 {
		t.Fatalf("Expected 3 frames, got %d", len(frames))
	}
	for i, f := range frames {
		if f.PCM[0] != byte(i) {
			t.Errorf("Frame %d out of order: %v", i, f.PCM)
		}
	}
	if buffer.Len() != 0 {
		t.Errorf("Buffer should be empty after drain, got %d", buffer.Len())
	}
}

func TestBufferOverflowKeepsExistingFrames(t *testing.T) {
	buffer := New(64)
	if err := buffer.Push(frame(make([]byte, 20)...)); err != nil {
		t.Fatalf("first push: %v", err)
	}
	err := buffer.Push(frame(make([]byte, 40)...))
	if !errors.Is(err, ErrOverflow) {
		t.Fatalf("Expected ErrOverflow, got %v", err)
	}
	if got := len(buffer.Drain()); got != 1 {
		t.Errorf("Expected the first frame to survive, got %d frames", got)
	}
}

func TestParseFrame(t *testing.T) {
	msg := make([]byte, FrameHeaderSize+4)
	binary.LittleEndian.PutUint32(msg[0:4], 48000)
	binary.LittleEndian.PutUint16(msg[4:6], 2)
	copy(msg[8:], []byte{9, 8, 7, 6})

	f, err := ParseFrame(msg, time.Now())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.SampleRate != 48000 || f.Channels != 2 || len(f.PCM) != 4 {
		t.Errorf("unexpected frame %+v", f)
	}

	if _, err := ParseFrame([]byte{1, 2}, time.Now()); !errors.Is(err, ErrShortFrame) {
		t.Errorf("Expected ErrShortFrame, got %v", err)
	}
}

func TestPackWAV(t *testing.T) {
	wav := PackWAV([]Frame{frame(1, 0), frame(2, 0)})
	f, pcm, err := audio.ParseWAVHeader(wav)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.SampleRate != 16000 || len(pcm) != 4 {
		t.Errorf("unexpected wav format %+v with %d bytes", f, len(pcm))
	}
	if PackWAV(nil) != nil {
		t.Error("Expected nil for no frames")
	}
}

func TestFrameSerialization(t *testing.T) {
	original := frame(10, 20, 30)
	data, _ := original.MarshalBinary()

	var restored Frame
	if err := restored.UnmarshalBinary(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(restored.PCM) != string(original.PCM) || restored.SampleRate != original.SampleRate {
		t.Errorf("restored %+v, want %+v", restored, original)
	}
	if d := restored.ReceivedAt.Sub(original.ReceivedAt); d > time.Microsecond || d < -time.Microsecond {
		t.Errorf("timestamp drift %v", d)
	}
}
