package kernal

import (
	"io"

	"c64taptool/internal/codecerr"

	"github.com/pkg/errors"
)

// Frame consumes every DemodulatedByte demod produces and groups them
// into kernal blocks on each starts_new_block signal, validating each
// finalized block's countdown and checksum. A block that fails either
// check is kept in the returned slice, flagged, never discarded — policy
// is left to the caller (spec §4.3, §7).
//
// Frame returns the blocks recovered so far alongside a non-nil error
// only when the stream ended mid-byte (codecerr.ErrTruncatedStream); a
// clean end-of-stream between bytes returns a nil error.
func Frame(demod *Demodulator) ([]Block, error) {
	var blocks []Block
	var current []byte
	var parityErrors int

	finalize := func() {
		if len(current) == 0 {
			parityErrors = 0
			return
		}
		isPrimary, countdownOK := validateCountdown(current)
		blocks = append(blocks, Block{
			Bytes:        current,
			IsPrimary:    isPrimary,
			CountdownOK:  countdownOK,
			ChecksumOK:   validateChecksum(current),
			ParityErrors: parityErrors,
		})
		current = nil
		parityErrors = 0
	}

	for {
		b, err := demod.Next()
		if errors.Is(err, io.EOF) {
			finalize()
			return blocks, nil
		}
		if errors.Is(err, codecerr.ErrTruncatedStream) {
			finalize()
			return blocks, err
		}
		if err != nil {
			finalize()
			return blocks, err
		}

		if b.StartsNewBlock {
			finalize()
		}
		if !b.ParityOK {
			parityErrors++
		}
		current = append(current, b.Value)
	}
}
