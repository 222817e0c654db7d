package audio

import (
	"encoding/binary"
	"errors"
)

const wavHeaderSize = 44

type PCMFormat struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

var DefaultPCM = PCMFormat{SampleRate: 16000, Channels: 1, BitsPerSample: 16}

// EncodeWAV prefixes raw little-endian PCM with a canonical RIFF header.
func EncodeWAV(pcm []byte, f PCMFormat) []byte {
	if f.SampleRate == 0 {
		f.SampleRate = DefaultPCM.SampleRate
	}
	if f.Channels == 0 {
		f.Channels = DefaultPCM.Channels
	}
	if f.BitsPerSample == 0 {
		f.BitsPerSample = DefaultPCM.BitsPerSample
	}

	byteRate := f.SampleRate * f.Channels * f.BitsPerSample / 8
	blockAlign := f.Channels * f.BitsPerSample / 8

	out := make([]byte, wavHeaderSize, wavHeaderSize+len(pcm))
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(wavHeaderSize+len(pcm)-8))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(out[22:24], uint16(f.Channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(f.SampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], uint16(f.BitsPerSample))

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(len(pcm)))

	return append(out, pcm...)
}

// ParseWAVHeader reads the format of a canonical 44-byte header.
func ParseWAVHeader(b []byte) (PCMFormat, []byte, error) {
	if len(b) < wavHeaderSize || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		return PCMFormat{}, nil, errors.New("not a RIFF/WAVE stream")
	}
	f := PCMFormat{
		Channels:      int(binary.LittleEndian.Uint16(b[22:24])),
		SampleRate:    int(binary.LittleEndian.Uint32(b[24:28])),
		BitsPerSample: int(binary.LittleEndian.Uint16(b[34:36])),
	}
	size := int(binary.LittleEndian.Uint32(b[40:44]))
	data := b[wavHeaderSize:]
	if size < len(data) {
		data = data[:size]
	}
	return f, data, nil
}
