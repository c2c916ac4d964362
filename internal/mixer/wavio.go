package mixer

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Clip is decoded PCM audio as interleaved float samples in [-1, 1].
type Clip struct {
	Samples  []float32
	Channels int
	Rate     int
}

// DecodeWAV reads a PCM WAV stream.
func DecodeWAV(r io.ReadSeeker) (Clip, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return Clip{}, errors.New("not a valid wav file")
	}
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return Clip{}, fmt.Errorf("read pcm: %w", err)
	}
	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = int(decoder.BitDepth)
	}
	if depth <= 0 {
		depth = 16
	}
	scale := float32(int64(1) << (depth - 1))
	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(v) / scale
	}
	return Clip{Samples: samples, Channels: buf.Format.NumChannels, Rate: buf.Format.SampleRate}, nil
}

// ReadWAV decodes the WAV file at path.
func ReadWAV(path string) (Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return Clip{}, err
	}
	defer f.Close()
	return DecodeWAV(f)
}

// EncodeWAV writes b as 16-bit stereo PCM. Samples are clamped to [-1, 1].
func EncodeWAV(w io.WriteSeeker, b *Buffer) error {
	encoder := wav.NewEncoder(w, b.Rate, 16, 2, 1)
	data := make([]int, len(b.Samples))
	for i, s := range b.Samples {
		if s > 1 {
			s = 1
		}
		if s < -1 {
			s = -1
		}
		data[i] = int(s * 32767.0)
	}
	out := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: b.Rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := encoder.Write(out); err != nil {
		return fmt.Errorf("write pcm: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("close encoder: %w", err)
	}
	return nil
}

// WriteWAV encodes b into a new file at path.
func WriteWAV(path string, b *Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeWAV(f, b); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
