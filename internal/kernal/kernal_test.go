package kernal

import (
	"testing"

	"c64taptool/internal/pulse"

	"github.com/stretchr/testify/require"
)

// byteSink implements Sink by appending the TAP payload byte for each
// pulse category, matching the encoding internal/tapimage uses. It lets
// the kernal package's own tests build payloads for the demodulator and
// framer without depending on internal/tapimage.
type byteSink struct {
	bytes []byte
}

func (s *byteSink) Pulses(cat pulse.Category, count int) error {
	var b byte
	switch cat {
	case pulse.Short:
		b = 45
	case pulse.Medium:
		b = 65
	case pulse.Long:
		b = 85
	default:
		b = 1 // 8 cycles, below the Short minimum, so it reads back as Unknown
	}
	for i := 0; i < count; i++ {
		s.bytes = append(s.bytes, b)
	}
	return nil
}

func buildTapPayload(t *testing.T, prg PrgFile) []byte {
	t.Helper()
	sink := &byteSink{}
	require.NoError(t, Emit(sink, prg))
	return sink.bytes
}
