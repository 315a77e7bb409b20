package kernal

import (
	"io"

	"c64taptool/internal/codecerr"
	"c64taptool/internal/pulse"

	"github.com/pkg/errors"
)

// syncThreshold is the number of consecutive Short pulses that a leader
// run must exceed before the following byte is marked as starting a new
// block (spec §4.2).
const syncThreshold = 2

// Demodulator recovers DemodulatedBytes from a TAP payload's pulse
// stream. It holds only the cursor and version needed to keep reading
// pulses across calls to Next; the bit/byte state machine itself is
// local to each call, mirroring the tape hardware's lack of any memory
// between one byte and the next beyond the raw pulse timing.
type Demodulator struct {
	payload []byte
	cursor  int
	version byte
}

// NewDemodulator builds a Demodulator over payload, starting at cursor
// (normally 0, since TapImage.Payload already excludes the container
// header) and reading escapes per version.
func NewDemodulator(payload []byte, cursor int, version byte) *Demodulator {
	return &Demodulator{payload: payload, cursor: cursor, version: version}
}

// Next recovers the next kernal byte from the pulse stream.
//
// It returns io.EOF when the stream ends cleanly between bytes (no byte
// in progress), and a wrapped codecerr.ErrTruncatedStream when the
// stream ends in the middle of a byte marker or bit cell — the caller
// (the framer) treats the two differently.
func (d *Demodulator) Next() (DemodulatedByte, error) {
	var (
		lastPulse      = pulse.Unknown
		syncPulseCount = 0
		startsNewBlock = false
	)

	readPulse := func() (pulse.Pulse, error) {
		return pulse.Next(d.payload, &d.cursor, d.version)
	}

	// Idle: scan for the (Long, Medium) byte marker, tracking the
	// leading run of Short pulses to decide starts_new_block.
	for {
		p, err := readPulse()
		if errors.Is(err, io.EOF) {
			return DemodulatedByte{}, io.EOF
		}
		if err != nil {
			return DemodulatedByte{}, err
		}

		if p.Category == pulse.Short {
			syncPulseCount++
		} else if p.Category != pulse.Long || lastPulse != pulse.Long {
			// any non-Short pulse that isn't the second half of a
			// marker-in-progress resets the sync run
			if !(lastPulse == pulse.Long && p.Category == pulse.Medium) {
				syncPulseCount = 0
			}
		}
		if syncPulseCount > syncThreshold {
			startsNewBlock = true
		}

		if lastPulse == pulse.Long && p.Category == pulse.Medium {
			break // byte marker complete, enter byte-reading
		}
		lastPulse = p.Category
	}

	// Byte-reading: eight LSB-first bit cells, then one odd-parity cell.
	var dataByte byte
	var parityBit byte = 1

	for pulseCounter := 2; pulseCounter <= 18; pulseCounter += 2 {
		first, err := readPulse()
		if errors.Is(err, io.EOF) {
			return DemodulatedByte{}, errors.Wrap(codecerr.ErrTruncatedStream, "end of stream mid-byte")
		}
		if err != nil {
			return DemodulatedByte{}, err
		}
		second, err := readPulse()
		if errors.Is(err, io.EOF) {
			return DemodulatedByte{}, errors.Wrap(codecerr.ErrTruncatedStream, "end of stream mid-byte")
		}
		if err != nil {
			return DemodulatedByte{}, err
		}

		var bit byte
		var recognized bool
		switch {
		case first.Category == pulse.Medium && second.Category == pulse.Short:
			bit, recognized = 1, true
		case first.Category == pulse.Short && second.Category == pulse.Medium:
			bit, recognized = 0, true
		}
		if !recognized {
			// out-of-phase or Unknown pulse: abort this byte silently
			// and resume scanning from Idle (spec §4.2).
			return d.Next()
		}

		if pulseCounter <= 16 {
			dataByte = (dataByte >> 1) | (bit << 7)
			if bit == 1 {
				parityBit ^= 1
			}
			continue
		}

		// pulseCounter == 18: the parity cell. Odd parity is checked
		// against whichever alternation completed the cell — the
		// encoder (§4.5.1) only ever emits a parity cell whose sense
		// matches the accumulated parity of the eight data bits, so
		// the two branches check opposite target values.
		var parityOK bool
		if bit == 1 {
			parityOK = parityBit == 1
		} else {
			parityOK = parityBit == 0
		}
		return DemodulatedByte{Value: dataByte, ParityOK: parityOK, StartsNewBlock: startsNewBlock}, nil
	}

	// unreachable
	return DemodulatedByte{}, errors.New("demodulator: bit loop exited without emitting a byte")
}
