// Package pulse classifies raw TAP pulse-length bytes into the four
// category alphabet the kernal tape loader recognizes, handling the v0/v1
// long-pulse escape encodings along the way. It is the single source of
// truth for that escape handling (spec §4.1); every other package reads
// pulses only through Next.
package pulse

import (
	"io"

	"c64taptool/internal/codecerr"
	"c64taptool/internal/constants"

	"github.com/pkg/errors"
)

// Category is the classification of one pulse's duration.
type Category int

const (
	Short Category = iota
	Medium
	Long
	Unknown
)

func (c Category) String() string {
	switch c {
	case Short:
		return "Short"
	case Medium:
		return "Medium"
	case Long:
		return "Long"
	default:
		return "Unknown"
	}
}

// Pulse is one logical pulse event: its category and the cycle duration
// that produced it.
type Pulse struct {
	Category Category
	Cycles   uint32
}

func classify(cycles uint32) Category {
	switch {
	case cycles >= constants.ShortPulseMin && cycles <= constants.ShortPulseMax:
		return Short
	case cycles >= constants.MediumPulseMin && cycles <= constants.MediumPulseMax:
		return Medium
	case cycles >= constants.LongPulseMin && cycles <= constants.LongPulseMax:
		return Long
	default:
		return Unknown
	}
}

// Next reads the pulse at payload[*cursor], classifies it, and advances
// the cursor past it: by 1 for a non-escape byte or a v0 escape, by 4 for
// a v1 escape. version must be 0 or 1.
//
// If a v1 escape would read past the end of payload, Next returns an
// Unknown pulse with the cursor advanced to len(payload), wrapped in
// codecerr.ErrTruncatedStream — the caller decides whether that is fatal.
func Next(payload []byte, cursor *int, version byte) (Pulse, error) {
	if *cursor >= len(payload) {
		return Pulse{Category: Unknown}, io.EOF
	}

	b := payload[*cursor]
	if b != 0 {
		cycles := uint32(b) * 8
		*cursor++
		return Pulse{Category: classify(cycles), Cycles: cycles}, nil
	}

	// escape
	if version == 0 {
		*cursor++
		const overflowCycles = 256 * 8
		return Pulse{Category: classify(overflowCycles), Cycles: overflowCycles}, nil
	}

	// version 1: a 24-bit little-endian cycle count follows in the next
	// three bytes, four TAP bytes consumed total.
	if *cursor+3 >= len(payload) {
		*cursor = len(payload)
		return Pulse{Category: Unknown}, errors.Wrap(codecerr.ErrTruncatedStream, "v1 long-pulse escape truncated")
	}
	cycles := uint32(payload[*cursor+1]) | uint32(payload[*cursor+2])<<8 | uint32(payload[*cursor+3])<<16
	*cursor += 4
	return Pulse{Category: classify(cycles), Cycles: cycles}, nil
}
