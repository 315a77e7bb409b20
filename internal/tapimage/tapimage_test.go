package tapimage

import (
	"bytes"
	"encoding/binary"
	"testing"

	"c64taptool/internal/constants"
	"c64taptool/internal/kernal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSeeker struct {
	buf []byte
	pos int
}

func (m *memSeeker) Write(p []byte) (int, error) {
	end := m.pos + len(p)
	if end > len(m.buf) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:end], p)
	m.pos = end
	return len(p), nil
}

func (m *memSeeker) Seek(offset int64, whence int) (int64, error) {
	if whence == 0 {
		m.pos = int(offset)
	}
	return int64(m.pos), nil
}

func TestParseRejectsBadMagic(t *testing.T) {
	data := make([]byte, constants.TapHeaderSize)
	copy(data, "NOT-A-TAP-FILE")
	_, err := Parse(data)
	assert.Error(t, err)
}

func TestParseRejectsUnsupportedVersion(t *testing.T) {
	data := make([]byte, constants.TapHeaderSize)
	copy(data, constants.TapSignature)
	data[12] = 2
	_, err := Parse(data)
	assert.Error(t, err)
}

func TestParseRejectsSizeMismatch(t *testing.T) {
	data := make([]byte, constants.TapHeaderSize+5)
	copy(data, constants.TapSignature)
	binary.LittleEndian.PutUint32(data[0x10:0x14], 10)
	_, err := Parse(data)
	assert.Error(t, err)
}

func TestWriteTAPThenParse(t *testing.T) {
	prg := kernal.PrgFile{LoadAddress: 0x0801, Bytes: []byte{1, 2, 3}}
	m := &memSeeker{}
	require.NoError(t, WriteTAP(m, prg, 0))

	img, err := Parse(m.buf)
	require.NoError(t, err)
	assert.Equal(t, byte(0), img.Version)
	assert.Equal(t, len(img.Payload), len(m.buf)-constants.TapHeaderSize)

	declared := binary.LittleEndian.Uint32(m.buf[0x10:0x14])
	assert.Equal(t, uint32(len(img.Payload)), declared)
}

func TestWriteTAPRoundTripsThroughDemodulator(t *testing.T) {
	prg := kernal.PrgFile{LoadAddress: 0xC000, Bytes: []byte{0xAA, 0xBB}}
	m := &memSeeker{}
	require.NoError(t, WriteTAP(m, prg, 1))

	img, err := Parse(m.buf)
	require.NoError(t, err)

	demod := kernal.NewDemodulator(img.Payload, 0, img.Version)
	blocks, err := kernal.Frame(demod)
	require.NoError(t, err)
	require.Len(t, blocks, 4)

	prgs, issues := kernal.ExportPRGs(blocks)
	assert.Empty(t, issues)
	require.Len(t, prgs, 1)
	assert.Equal(t, prg.Bytes, prgs[0].Prg.Bytes)
	assert.True(t, bytes.Equal(prgs[0].Prg.Bytes, prg.Bytes))
}
