package kernal

import (
	"testing"

	"c64taptool/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeaderRejectsWrongShape(t *testing.T) {
	_, ok := ParseHeader(Block{Bytes: []byte{0x89, 0x01, 0x02}})
	assert.False(t, ok)
}

func TestParseHeaderFilenameExactly16Chars(t *testing.T) {
	payload := make([]byte, constants.HeaderPayloadSize)
	payload[0] = 0x01
	copy(payload[5:5+16], "1234567890123456")

	b := make([]byte, 0, constants.CountdownLength+constants.HeaderPayloadSize+1)
	b = append(b, primaryCountdown[:]...)
	b = append(b, payload...)
	b = append(b, 0)

	h, ok := ParseHeader(Block{Bytes: b})
	require.True(t, ok)
	assert.Equal(t, "1234567890123456", h.DisplayName())
}

func TestDisplayNameTrimsTrailingSpaces(t *testing.T) {
	h := &KernalHeader{}
	copy(h.FilenameDisplayed[:], "HELLO")
	for i := 5; i < len(h.FilenameDisplayed); i++ {
		h.FilenameDisplayed[i] = 0x20
	}
	assert.Equal(t, "HELLO", h.DisplayName())
}
