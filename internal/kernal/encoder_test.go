package kernal

import (
	"testing"

	"c64taptool/internal/codecerr"
	"c64taptool/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitRoundTrip(t *testing.T) {
	prg := PrgFile{
		LoadAddress: 0x0801,
		Bytes:       []byte{0x0A, 0x00, 0x00, 0x00, 0x9E, 0x32, 0x30, 0x36, 0x31, 0x00, 0x00, 0x00},
	}

	payload := buildTapPayload(t, prg)

	demod := NewDemodulator(payload, 0, 1)
	blocks, err := Frame(demod)
	require.NoError(t, err)
	require.Len(t, blocks, 4)

	for i, b := range blocks {
		assert.True(t, b.CountdownOK, "block %d countdown", i)
		assert.True(t, b.ChecksumOK, "block %d checksum", i)
	}

	assert.True(t, blocks[0].IsPrimary)
	assert.False(t, blocks[1].IsPrimary)
	assert.True(t, blocks[2].IsPrimary)
	assert.False(t, blocks[3].IsPrimary)

	header, ok := ParseHeader(blocks[0])
	require.True(t, ok)
	assert.Equal(t, byte(0x01), header.Type)
	assert.Equal(t, uint16(0x0801), header.LoadAddress)
	assert.Equal(t, prg.EndAddress(), header.EndAddress)
	assert.Equal(t, "C64-TAP-TOOL", header.DisplayName())

	prgs, issues := ExportPRGs(blocks)
	assert.Empty(t, issues)
	require.Len(t, prgs, 1)
	assert.Equal(t, prg.LoadAddress, prgs[0].Prg.LoadAddress)
	assert.Equal(t, prg.Bytes, prgs[0].Prg.Bytes)
}

func TestEmitEmptyPayload(t *testing.T) {
	prg := PrgFile{LoadAddress: 0xC000, Bytes: nil}

	payload := buildTapPayload(t, prg)
	demod := NewDemodulator(payload, 0, 1)
	blocks, err := Frame(demod)
	require.NoError(t, err)
	require.Len(t, blocks, 4)

	// data blocks carry only the checksum byte, itself 0 since there is
	// no payload to XOR.
	assert.Len(t, blocks[2].Bytes, constants.CountdownLength+1)
	assert.Equal(t, byte(0), blocks[2].Bytes[constants.CountdownLength])

	prgs, issues := ExportPRGs(blocks)
	assert.Empty(t, issues)
	require.Len(t, prgs, 1)
	assert.Empty(t, prgs[0].Prg.Bytes)
}

// TestFrameReportsExactlyOneParityCorruption is spec §8 scenario 3:
// flipping one bit cell of one data pulse should surface as exactly one
// parity error, with the block retained and its checksum now flagged,
// not as a fatal decode abort.
func TestFrameReportsExactlyOneParityCorruption(t *testing.T) {
	sink := &byteSink{}
	require.NoError(t, writeBlock(sink, primaryCountdown, []byte{0x00, 0x11, 0x22}))

	// locate the first payload byte's first bit cell (right after the
	// nine countdown bytes' marker+18 pulses each) and flip it from
	// (Short, Medium) = 0 to (Medium, Short) = 1.
	firstPayloadByteStart := 9 * 20 // 9 countdown bytes, 20 pulses each (2 marker + 9 cells of 2)
	cellStart := firstPayloadByteStart + 2
	require.Equal(t, byte(45), sink.bytes[cellStart])   // Short
	require.Equal(t, byte(65), sink.bytes[cellStart+1]) // Medium
	sink.bytes[cellStart], sink.bytes[cellStart+1] = 65, 45

	demod := NewDemodulator(sink.bytes, 0, 1)
	blocks, err := Frame(demod)
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	assert.Equal(t, 1, blocks[0].ParityErrors)
	assert.False(t, blocks[0].ChecksumOK)
	assert.True(t, blocks[0].CountdownOK)

	issues := BlockIssues(blocks[0])
	require.Len(t, issues, 2)
	assert.ErrorIs(t, issues[0], codecerr.ErrChecksumMismatch)
	assert.ErrorIs(t, issues[1], codecerr.ErrParityMismatch)
}

func TestWriteByteParityIsOdd(t *testing.T) {
	for v := 0; v < 256; v++ {
		sink := &byteSink{}
		require.NoError(t, writeByte(sink, byte(v)))

		demod := NewDemodulator(sink.bytes, 0, 1)
		db, err := demod.Next()
		require.NoError(t, err)
		assert.True(t, db.ParityOK, "value %d", v)
		assert.Equal(t, byte(v), db.Value)
	}
}
