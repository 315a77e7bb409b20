// Package codecerr defines the sentinel error kinds reported by the TAP
// codec. Callers compare against these with errors.Is; the packages in
// this module wrap them with github.com/pkg/errors so a failure printed
// with "%+v" at the CLI layer carries a stack trace back to where it was
// first observed.
package codecerr

import "errors"

var (
	// ErrInvalidMagic: TAP header does not start with "C64-TAPE-RAW".
	ErrInvalidMagic = errors.New("invalid tap magic")
	// ErrUnsupportedVersion: version byte outside {0, 1}.
	ErrUnsupportedVersion = errors.New("unsupported tap version")
	// ErrTruncatedStream: a v1 long-pulse escape read past end-of-payload,
	// or a demodulated byte was still in progress at end-of-stream, or the
	// declared payload size in a TAP header does not match the file.
	ErrTruncatedStream = errors.New("truncated tap stream")
	// ErrParityMismatch: a recovered byte's odd-parity check failed.
	ErrParityMismatch = errors.New("parity mismatch")
	// ErrChecksumMismatch: a block's XOR checksum differs from its trailing byte.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrCountdownMismatch: a block's first nine bytes are not a valid countdown.
	ErrCountdownMismatch = errors.New("countdown mismatch")
	// ErrUnexpectedBlockShape: export could not pair header/data blocks.
	ErrUnexpectedBlockShape = errors.New("unexpected block shape")
	// ErrIO: underlying read/write failed.
	ErrIO = errors.New("io error")
)
