// Package kernal implements the kernal-tape codec: the bit/byte
// demodulator, the block framer, the header interpreter and PRG
// exporter, and the TAP pulse-stream encoder (spec §4.2-§4.5). It holds
// no package-level mutable state — every value that the original
// c64_tap_tool carried as a global (tap_version, the current block list)
// is a field on a value threaded explicitly through calls here.
package kernal

import (
	"c64taptool/internal/codecerr"

	"github.com/pkg/errors"
)

// DemodulatedByte is one byte recovered from the pulse stream, together
// with its parity status and whether it starts a new kernal block.
type DemodulatedByte struct {
	Value          byte
	ParityOK       bool
	StartsNewBlock bool
}

// primaryCountdown and backupCountdown are the two nine-byte countdown
// alphabets that prefix every kernal block (spec §3). They are kept as
// explicit sequences rather than a decrementing loop so that, unlike the
// original C++ encoder, they can never wrap or loop indefinitely (§9).
var (
	primaryCountdown = [9]byte{0x89, 0x88, 0x87, 0x86, 0x85, 0x84, 0x83, 0x82, 0x81}
	backupCountdown  = [9]byte{0x09, 0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}
)

// Block is one finalized kernal block: the raw bytes recovered by the
// framer, plus the validation flags computed at finalization time. The
// framer never discards a block because it fails validation — the
// caller decides policy (spec §4.3).
type Block struct {
	Bytes        []byte
	IsPrimary    bool // high bit of the first countdown byte was set
	CountdownOK  bool
	ChecksumOK   bool
	ParityErrors int // count of bytes in this block whose parity_ok was false
}

func matchesCountdown(seq [9]byte, b []byte) bool {
	for i := 0; i < 9; i++ {
		if b[i] != seq[i] {
			return false
		}
	}
	return true
}

func validateCountdown(b []byte) (isPrimary, ok bool) {
	if len(b) < 9 {
		return false, false
	}
	isPrimary = b[0]&0x80 != 0
	if isPrimary {
		return true, matchesCountdown(primaryCountdown, b)
	}
	return false, matchesCountdown(backupCountdown, b)
}

func validateChecksum(b []byte) bool {
	if len(b) < 10 {
		return false
	}
	var xor byte
	for _, v := range b[9 : len(b)-1] {
		xor ^= v
	}
	return xor == b[len(b)-1]
}

// BlockIssues reports every §7 error kind that b's validation flags
// indicate, each wrapped around its codecerr sentinel so a caller can
// errors.Is against a specific kind. It returns nil when b is clean.
func BlockIssues(b Block) []error {
	var issues []error
	if !b.CountdownOK {
		issues = append(issues, errors.Wrap(codecerr.ErrCountdownMismatch, "block countdown prefix does not match either alphabet"))
	}
	if !b.ChecksumOK {
		issues = append(issues, errors.Wrap(codecerr.ErrChecksumMismatch, "block XOR checksum does not match trailing byte"))
	}
	if b.ParityErrors > 0 {
		issues = append(issues, errors.Wrapf(codecerr.ErrParityMismatch, "%d byte(s) in block failed odd-parity check", b.ParityErrors))
	}
	return issues
}

// KernalHeader is a decoded 192-byte header payload (spec §3).
type KernalHeader struct {
	Type              byte
	LoadAddress       uint16
	EndAddress        uint16
	FilenameDisplayed [16]byte
	FilenameHidden    [171]byte
}

// DisplayName trims the trailing 0x20 padding from FilenameDisplayed for
// presentation. The underlying bytes are never mutated by this call.
func (h *KernalHeader) DisplayName() string {
	n := len(h.FilenameDisplayed)
	for n > 0 && h.FilenameDisplayed[n-1] == 0x20 {
		n--
	}
	return string(h.FilenameDisplayed[:n])
}

// PrgFile is a C64 program image: a load address plus the raw bytes that
// belong at that address (spec §3).
type PrgFile struct {
	LoadAddress uint16
	Bytes       []byte
}

// EndAddress returns load_address + len(bytes), the invariant a decoded
// header's end address must match.
func (p PrgFile) EndAddress() uint16 {
	return p.LoadAddress + uint16(len(p.Bytes))
}
