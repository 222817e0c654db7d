package audioring

import (
	"encoding/binary"
	"errors"
	"sync"

	"github.com/smallnest/ringbuffer"

	"github.com/xpanvictor/emovox/pkg/io/audio"
)

var ErrOverflow = errors.New("chunk exceeds buffer capacity")

// Buffer accumulates the frames of one chunk. Unlike a live stream it never drops
// old frames: a chunk that does not fit is rejected whole.
type Buffer interface {
	Push(f Frame) error
	Drain() []Frame
	Len() int
	Capacity() int
	Reset()
}

type rbBuffer struct {
	mu   sync.Mutex
	size int
	rb   *ringbuffer.RingBuffer
}

func New(size int) Buffer {
	return &rbBuffer{
		size: size,
		rb:   ringbuffer.New(size).SetBlocking(false),
	}
}

func (r *rbBuffer) Push(f Frame) error {
	data, err := f.MarshalBinary()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(data)+4 > r.rb.Free() {
		return ErrOverflow
	}
	var prefix [4]byte
	binary.LittleEndian.PutUint32(prefix[:], uint32(len(data)))
	if _, err := r.rb.Write(prefix[:]); err != nil {
		return err
	}
	_, err = r.rb.Write(data)
	return err
}

// Drain removes and returns every buffered frame in arrival order.
func (r *rbBuffer) Drain() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()

	var frames []Frame
	for !r.rb.IsEmpty() {
		var prefix [4]byte
		if n, err := r.rb.Read(prefix[:]); err != nil || n != 4 {
			break
		}
		size := int(binary.LittleEndian.Uint32(prefix[:]))
		data := make([]byte, size)
		if n, err := r.rb.Read(data); err != nil || n != size {
			break
		}
		var f Frame
		if err := f.UnmarshalBinary(data); err != nil {
			break
		}
		frames = append(frames, f)
	}
	r.rb.Reset()
	return frames
}

func (r *rbBuffer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rb.Length()
}

func (r *rbBuffer) Capacity() int { return r.size }

func (r *rbBuffer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rb.Reset()
}

// PackWAV concatenates frames into one WAV using the first frame's format.
func PackWAV(frames []Frame) []byte {
	if len(frames) == 0 {
		return nil
	}
	format := audio.PCMFormat{
		SampleRate:    int(frames[0].SampleRate),
		Channels:      int(frames[0].Channels),
		BitsPerSample: 16,
	}
	total := 0
	for _, f := range frames {
		total += len(f.PCM)
	}
	pcm := make([]byte, 0, total)
	for _, f := range frames {
		pcm = append(pcm, f.PCM...)
	}
	return audio.EncodeWAV(pcm, format)
}
