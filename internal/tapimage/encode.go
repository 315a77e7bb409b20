package tapimage

import (
	"encoding/binary"
	"io"

	"c64taptool/internal/codecerr"
	"c64taptool/internal/constants"
	"c64taptool/internal/kernal"
	"c64taptool/internal/pulse"

	"github.com/pkg/errors"
)

// tapSink accumulates pulse-length bytes for a kernal.Emit call,
// implementing kernal.Sink by writing one payload byte per pulse.
type tapSink struct {
	w       io.Writer
	written int
}

func (s *tapSink) Pulses(cat pulse.Category, count int) error {
	b, err := pulseByte(cat)
	if err != nil {
		return err
	}
	buf := make([]byte, count)
	for i := range buf {
		buf[i] = b
	}
	n, err := s.w.Write(buf)
	s.written += n
	if err != nil {
		return errors.Wrap(codecerr.ErrIO, err.Error())
	}
	return nil
}

func pulseByte(cat pulse.Category) (byte, error) {
	switch cat {
	case pulse.Short:
		return constants.ShortPulseByte, nil
	case pulse.Medium:
		return constants.MediumPulseByte, nil
	case pulse.Long:
		return constants.LongPulseByte, nil
	default:
		return 0, errors.New("tapimage: cannot encode an Unknown pulse")
	}
}

// WriteTAP synthesizes a TAP file for prg into w (spec §4.5): a
// placeholder header, the full pulse stream, then the payload length
// patched into the header at offset 0x10. w must support Seek so the
// length field can be patched after the payload is known.
func WriteTAP(w io.WriteSeeker, prg kernal.PrgFile, version byte) error {
	header := make([]byte, constants.TapHeaderSize)
	copy(header[0:12], constants.TapSignature)
	header[12] = version
	if _, err := w.Write(header); err != nil {
		return errors.Wrap(codecerr.ErrIO, err.Error())
	}

	sink := &tapSink{w: w}
	if err := kernal.Emit(sink, prg); err != nil {
		return err
	}

	if _, err := w.Seek(0x10, io.SeekStart); err != nil {
		return errors.Wrap(codecerr.ErrIO, err.Error())
	}
	lenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBuf, uint32(sink.written))
	if _, err := w.Write(lenBuf); err != nil {
		return errors.Wrap(codecerr.ErrIO, err.Error())
	}
	return nil
}
