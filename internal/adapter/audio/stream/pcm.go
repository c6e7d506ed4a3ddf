package stream

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/gopxl/beep/v2"
)

// Reader encodes a streamer as interleaved stereo float32 little-endian PCM,
// the layout an oto player pulls.
type Reader struct {
	s   beep.Streamer
	buf [][2]float64
}

// NewReader creates a PCM reader over s.
func NewReader(s beep.Streamer) *Reader {
	return &Reader{s: s}
}

const frameBytes = 8

// Read fills p with whole frames.
func (r *Reader) Read(p []byte) (int, error) {
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}
	if cap(r.buf) < frames {
		r.buf = make([][2]float64, frames)
	}
	buf := r.buf[:frames]

	n, ok := r.s.Stream(buf)
	if n == 0 && !ok {
		if err := r.s.Err(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}
	for i := range n {
		binary.LittleEndian.PutUint32(p[i*frameBytes:], math.Float32bits(float32(buf[i][0])))
		binary.LittleEndian.PutUint32(p[i*frameBytes+4:], math.Float32bits(float32(buf[i][1])))
	}
	return n * frameBytes, nil
}
