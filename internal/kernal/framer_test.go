package kernal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRetainsBadCountdownBlock(t *testing.T) {
	sink := &byteSink{}
	// corrupt countdown: second byte should be 0x88, write 0x87 instead
	countdown := primaryCountdown
	countdown[1] = 0x87
	require.NoError(t, writeBlock(sink, countdown, []byte{0x01, 0x02, 0x03}))

	demod := NewDemodulator(sink.bytes, 0, 1)
	blocks, err := Frame(demod)
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	assert.False(t, blocks[0].CountdownOK)
	assert.True(t, blocks[0].ChecksumOK)
}

func TestFrameTruncatedStreamReportedOnce(t *testing.T) {
	sink := &byteSink{}
	require.NoError(t, writeBlock(sink, primaryCountdown, []byte{0x01, 0x02}))

	// chop off the final parity pulse of the stream so it ends mid-byte
	truncated := sink.bytes[:len(sink.bytes)-1]

	demod := NewDemodulator(truncated, 0, 1)
	blocks, err := Frame(demod)
	require.Error(t, err)
	// the rest of the block (everything read before the cut) is still
	// retained, just unfinalized state is discarded.
	assert.Len(t, blocks, 1)
}
