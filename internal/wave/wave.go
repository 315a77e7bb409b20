// Package wave renders the kernal encoder's pulse stream as a mono
// 32-bit-float PCM WAVE file (spec §4.6), reusing kernal.Emit through a
// Sink implementation the way internal/tapimage does for the TAP
// container. The sine-period synthesis and RIFF header layout are
// adapted from the teacher's internal/audio package, changed from an
// 8-bit square-wave rendering to the float inverted-sine rendering this
// format calls for.
package wave

import (
	"encoding/binary"
	"io"
	"math"

	"c64taptool/internal/codecerr"
	"c64taptool/internal/constants"
	"c64taptool/internal/kernal"
	"c64taptool/internal/pulse"

	"github.com/pkg/errors"
)

const bytesPerSample = 4 // 32-bit float

func frequencyFor(cat pulse.Category) (float64, error) {
	switch cat {
	case pulse.Short:
		return constants.ShortPulseFreqHz, nil
	case pulse.Medium:
		return constants.MediumPulseFreqHz, nil
	case pulse.Long:
		return constants.LongPulseFreqHz, nil
	default:
		return 0, errors.New("wave: cannot render an Unknown pulse")
	}
}

// waveSink renders each pulse as one inverted full sine period at the
// category's frequency, writing samples directly to w as it goes.
type waveSink struct {
	w          io.Writer
	sampleRate int
	samples    int
}

func (s *waveSink) Pulses(cat pulse.Category, count int) error {
	freq, err := frequencyFor(cat)
	if err != nil {
		return err
	}
	samplesPerPeriod := int(math.Round(float64(s.sampleRate) / freq))
	if samplesPerPeriod < 1 {
		samplesPerPeriod = 1
	}

	buf := make([]byte, 4)
	for p := 0; p < count; p++ {
		for i := 0; i < samplesPerPeriod; i++ {
			phase := 2 * math.Pi * float64(i) / float64(samplesPerPeriod)
			value := float32(math.Sin(phase) * -1.0)
			binary.LittleEndian.PutUint32(buf, math.Float32bits(value))
			if _, err := s.w.Write(buf); err != nil {
				return errors.Wrap(codecerr.ErrIO, err.Error())
			}
			s.samples++
		}
	}
	return nil
}

// Encode synthesizes a WAVE file for prg into w at sampleRate (spec
// §4.6): the RIFF/WAVE header is written as a placeholder, the payload
// is streamed, then the RIFF and data chunk sizes are patched in.
func Encode(w io.WriteSeeker, prg kernal.PrgFile, sampleRate int) error {
	if sampleRate <= 0 {
		sampleRate = constants.DefaultSampleRate
	}

	if err := writeHeaderPlaceholder(w, sampleRate); err != nil {
		return err
	}

	sink := &waveSink{w: w, sampleRate: sampleRate}
	if err := kernal.Emit(sink, prg); err != nil {
		return err
	}

	return patchSizes(w, sink.samples*bytesPerSample)
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

func writeHeaderPlaceholder(w io.Writer, sampleRate int) error {
	if err := writeString(w, "RIFF"); err != nil {
		return errors.Wrap(codecerr.ErrIO, err.Error())
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(0)); err != nil {
		return errors.Wrap(codecerr.ErrIO, err.Error())
	}
	if err := writeString(w, "WAVE"); err != nil {
		return errors.Wrap(codecerr.ErrIO, err.Error())
	}
	if err := writeString(w, "fmt "); err != nil {
		return errors.Wrap(codecerr.ErrIO, err.Error())
	}

	const channels = 1
	byteRate := sampleRate * channels * bytesPerSample
	blockAlign := channels * bytesPerSample
	bitsPerSample := bytesPerSample * 8

	fields := []interface{}{
		uint32(16),          // fmt chunk size
		uint16(3),           // audio format: IEEE float
		uint16(channels),
		uint32(sampleRate),
		uint32(byteRate),
		uint16(blockAlign),
		uint16(bitsPerSample),
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return errors.Wrap(codecerr.ErrIO, err.Error())
		}
	}

	if err := writeString(w, "data"); err != nil {
		return errors.Wrap(codecerr.ErrIO, err.Error())
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(0)); err != nil {
		return errors.Wrap(codecerr.ErrIO, err.Error())
	}
	return nil
}

func patchSizes(w io.WriteSeeker, dataSize int) error {
	if _, err := w.Seek(4, io.SeekStart); err != nil {
		return errors.Wrap(codecerr.ErrIO, err.Error())
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(36+dataSize)); err != nil {
		return errors.Wrap(codecerr.ErrIO, err.Error())
	}

	if _, err := w.Seek(40, io.SeekStart); err != nil {
		return errors.Wrap(codecerr.ErrIO, err.Error())
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(dataSize)); err != nil {
		return errors.Wrap(codecerr.ErrIO, err.Error())
	}
	return nil
}
